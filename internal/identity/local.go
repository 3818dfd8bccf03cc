// internal/identity/local.go
package identity

import (
	"context"
	"errors"
	"fmt"

	"texttabs-service/internal/domain/user"
	xerrors "texttabs-service/internal/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CredentialStore is the local credential lookup the source needs. Satisfied
// by the Postgres user repository.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*user.Credential, error)
	UpdateLastActive(ctx context.Context, id int64) error
}

// LocalSource authenticates against the service's own Postgres credential
// store. Passwords are bcrypt hashes of password+salt, matching the legacy
// account records this store was migrated from.
type LocalSource struct {
	store  CredentialStore
	salt   string
	logger *zap.Logger
}

func NewLocalSource(store CredentialStore, salt string, logger *zap.Logger) *LocalSource {
	return &LocalSource{store: store, salt: salt, logger: logger}
}

func (s *LocalSource) Name() string { return "local" }

func (s *LocalSource) Authenticate(ctx context.Context, email, password string) (*Record, string, error) {
	cred, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, "", xerrors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to load credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password+s.salt)); err != nil {
		return nil, "", xerrors.ErrInvalidCredentials
	}

	if cred.Status == "blocked" {
		return nil, "", xerrors.ErrAccountBlocked
	}

	if err := s.store.UpdateLastActive(ctx, cred.ID); err != nil && s.logger != nil {
		s.logger.Warn("failed to update last active", zap.Int64("user_id", cred.ID), zap.Error(err))
	}

	return &Record{
		ID:     cred.ID,
		Email:  cred.Email,
		Role:   cred.Role,
		Status: cred.Status,
	}, "", nil
}

// SignOut is a no-op: local sessions are owned by the session manager and
// cleared by the reconciler itself.
func (s *LocalSource) SignOut(ctx context.Context, providerToken string) error {
	return nil
}
