// internal/domain/user/entity.go
package user

import (
	"database/sql"
	"time"
)

// User is the canonical console user. Every field is always populated,
// whether the record came from the live backend or from fallback data.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`   // guest, user, premium, admin
	Status     string    `json:"status"` // active, blocked, pending, verified
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
	PagesCount int       `json:"pagesCount"`
}

// Credential is the local identity store's view of a user: just enough to
// authenticate and stamp a token. Lives in Postgres, never leaves the server.
type Credential struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	Status       string
	LastActive   sql.NullTime
}
