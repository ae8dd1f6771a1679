package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/becomingxdev/CrisisCheckTest1/internal/middleware"
	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

const bcryptCost = 12

// Account is one of the fixed console logins.
type Account struct {
	ID       string
	Username string
	Password string
	Role     models.UserRole
	Name     string
}

// DefaultAccounts are the built-in admin and volunteer logins.
func DefaultAccounts(adminUser, adminPass, volunteerUser, volunteerPass string) []Account {
	return []Account{
		{ID: "1", Username: adminUser, Password: adminPass, Role: models.RoleAdmin, Name: "Administrator"},
		{ID: "2", Username: volunteerUser, Password: volunteerPass, Role: models.RoleVolunteer, Name: "Volunteer User"},
	}
}

// AuthService checks credentials against a fixed account list. Passwords
// are hashed once at construction and never kept in plain text.
type AuthService struct {
	users map[string]*models.User
	jwt   *middleware.JWTAuth
}

func NewAuthService(accounts []Account, jwt *middleware.JWTAuth) (*AuthService, error) {
	users := make(map[string]*models.User, len(accounts))
	for _, a := range accounts {
		if a.Username == "" || a.Password == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", a.Username, err)
		}
		users[a.Username] = &models.User{
			ID:           a.ID,
			Username:     a.Username,
			PasswordHash: string(hash),
			Role:         a.Role,
			Name:         a.Name,
		}
	}

	return &AuthService{users: users, jwt: jwt}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Username) == "" {
		fieldErrors["username"] = "Username is required"
	}
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	user, ok := s.lookup(req.Username)
	if !ok {
		return nil, &UnauthorizedError{Message: "Invalid credentials"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid credentials"}
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	safe := *user
	safe.PasswordHash = ""
	return &models.LoginResponse{
		Success:   true,
		Message:   "Login successful",
		Data:      &safe,
		Token:     token,
		ExpiresIn: int(middleware.AccessTokenTTL.Seconds()),
	}, nil
}

func (s *AuthService) lookup(username string) (*models.User, bool) {
	for name, u := range s.users {
		if subtle.ConstantTimeCompare([]byte(name), []byte(username)) == 1 {
			return u, true
		}
	}
	return nil, false
}
