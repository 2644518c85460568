package domain

import "time"

// Role enumerates what a user may do on the board.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleApplicant, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// Profile holds the optional self-description a user maintains.
type Profile struct {
	Bio        string   `json:"bio,omitempty"`
	Location   string   `json:"location,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Education  string   `json:"education,omitempty"`
	Website    string   `json:"website,omitempty"`
	Resume     string   `json:"resume,omitempty"`
}

// User is an account on the job board.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLogin    *time.Time
	Phone        string
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
