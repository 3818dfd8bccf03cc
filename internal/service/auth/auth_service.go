// internal/service/auth/auth_service.go
package auth

import (
	"context"
	"time"

	"texttabs-service/internal/identity"
	xerrors "texttabs-service/internal/pkg/errors"
	"texttabs-service/internal/pkg/session"
	"texttabs-service/internal/pkg/token"

	"go.uber.org/zap"
)

// TokenBlacklist answers whether an issued token has been revoked by logout
// or session replacement.
type TokenBlacklist interface {
	IsTokenBlacklisted(ctx context.Context, digest string) (bool, error)
}

// AuthService is the console's authentication facade: login and logout run
// through the identity reconciler, verification through the token codec plus
// the revocation blacklist.
type AuthService struct {
	reconciler *identity.Reconciler
	codec      *token.Codec
	blacklist  TokenBlacklist
	logger     *zap.Logger
}

func NewAuthService(reconciler *identity.Reconciler, codec *token.Codec, blacklist TokenBlacklist, logger *zap.Logger) *AuthService {
	return &AuthService{
		reconciler: reconciler,
		codec:      codec,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates the credential pair and returns the issued token with
// the resolved user record.
func (s *AuthService) Login(ctx context.Context, email, password string) (*identity.Result, error) {
	return s.reconciler.Login(ctx, email, password)
}

// Logout clears the user's session everywhere and revokes the current token.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.reconciler.Logout(ctx, userID)
}

// VerifyToken checks a presented token: signature, expiry, then revocation.
// The returned payload is what handlers trust for identity and role.
func (s *AuthService) VerifyToken(ctx context.Context, raw string) (*token.Payload, error) {
	payload, err := s.codec.Verify(raw, time.Now())
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsTokenBlacklisted(ctx, session.Digest(raw))
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, xerrors.ErrSessionExpired
	}

	return payload, nil
}
