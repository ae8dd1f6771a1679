package models

import (
	"encoding/json"
	"strings"
)

const (
	VolunteerStatusPending  = "pending"
	VolunteerStatusActive   = "active"
	VolunteerStatusInactive = "inactive"
)

type Volunteer struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Skills       []string `json:"skills"`
	Location     string   `json:"location"`
	Availability string   `json:"availability"`
	Status       string   `json:"status"`
	JoinDate     string   `json:"joinDate"` // YYYY-MM-DD
}

// StringList decodes from either a JSON array of strings or a single
// string, which older registration forms send for one skill.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if strings.TrimSpace(one) == "" {
			*l = StringList{}
		} else {
			*l = StringList{one}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

type RegisterVolunteerRequest struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Skills       StringList `json:"skills"`
	Location     string     `json:"location"`
	Availability string     `json:"availability"`
}

type VolunteerFilter struct {
	Search string
	Status string
}
