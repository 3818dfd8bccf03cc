// internal/identity/source.go
package identity

import "context"

// Record is the unified identity shape every source resolves into. Handlers
// and the token codec only ever see this; which source produced it is an
// implementation detail.
type Record struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// Source authenticates a credential pair against one identity backend.
// Authenticate returns the resolved record plus an opaque provider session
// token ("" when the source has no server-side session of its own). SignOut
// releases that provider session.
type Source interface {
	Name() string
	Authenticate(ctx context.Context, email, password string) (*Record, string, error)
	SignOut(ctx context.Context, providerToken string) error
}
