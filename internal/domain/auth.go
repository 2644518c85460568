package domain

import "time"

// Session describes an issued session credential.
type Session struct {
	Token     string
	TokenID   string
	UserID    string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
