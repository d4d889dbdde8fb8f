package domain

import "time"

// User represents a registered identity in the platform. The password hash is
// nil when the account was created through a non-password channel. Users are
// never hard-deleted; Deleted marks retired accounts.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash *string   `json:"-"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"verified"`
	Level        int       `json:"level"`
	Points       int       `json:"points"`
	Deleted      bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && !u.Deleted
}

// HasPassword reports whether the account supports password login.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != nil && *u.PasswordHash != ""
}

// UserSummary is the identity projection embedded in login responses and sessions.
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (u *User) Summary() UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}
