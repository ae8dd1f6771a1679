package models

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleVolunteer UserRole = "volunteer"
	RoleMember    UserRole = "user"
)

type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	Name         string   `json:"name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      *User  `json:"data"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}
