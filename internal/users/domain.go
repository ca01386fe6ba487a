package users

import (
	"time"

	"github.com/scentdesk/scentdesk/internal/roles"
)

// User represents a team member account.
type User struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	PasswordHash string      `json:"-"`
	RoleID       int64       `json:"role_id"`
	Role         *roles.Role `json:"role,omitempty"`
	Team         string      `json:"team"`
	IsActive     bool        `json:"is_active"`
	Online       bool        `json:"online"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// LoginRecord is one row of a user's login history.
type LoginRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
