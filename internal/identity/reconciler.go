// internal/identity/reconciler.go
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	xerrors "texttabs-service/internal/pkg/errors"
	"texttabs-service/internal/pkg/session"
	"texttabs-service/internal/pkg/token"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// SessionStore is the slice of the session manager the reconciler uses.
type SessionStore interface {
	Save(ctx context.Context, data *session.Data) error
	Get(ctx context.Context, userID int64) (*session.Data, error)
	Invalidate(ctx context.Context, userID int64) error
	BlacklistToken(ctx context.Context, digest string, ttl time.Duration) error
}

// Reconciler runs the login and logout flows across the configured identity
// sources, in priority order. Whichever source succeeds, the caller receives
// one locally issued token and one server-side session; the losing sources
// are never visible in the result. When every source rejects, the caller
// gets a single opaque credential error rather than a per-source breakdown.
type Reconciler struct {
	sources  []Source
	codec    *token.Codec
	sessions SessionStore
	logger   *zap.Logger
	now      func() time.Time
}

// Result is a completed login: the unified token plus the resolved record.
type Result struct {
	Token    string
	User     Record
	Provider string
}

func NewReconciler(codec *token.Codec, sessions SessionStore, logger *zap.Logger, sources ...Source) *Reconciler {
	return &Reconciler{
		sources:  sources,
		codec:    codec,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Login tries each source in order until one authenticates the pair. A
// source that is unreachable or rejects the credentials is skipped; a
// blocked-account verdict is final and stops the chain. Re-authenticating
// while already logged in replaces the previous session and revokes its
// token.
func (r *Reconciler) Login(ctx context.Context, email, password string) (*Result, error) {
	var record *Record
	var providerToken, provider string

	for _, src := range r.sources {
		rec, ptoken, err := src.Authenticate(ctx, email, password)
		if err == nil {
			record, providerToken, provider = rec, ptoken, src.Name()
			break
		}
		if errors.Is(err, xerrors.ErrAccountBlocked) {
			return nil, err
		}
		if r.logger != nil {
			r.logger.Debug("identity source rejected login",
				zap.String("source", src.Name()),
				zap.Error(err),
			)
		}
	}
	if record == nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	now := r.now()
	sess := &session.Data{
		ID:            ulid.Make().String(),
		State:         session.StateAuthenticating,
		UserID:        record.ID,
		Email:         record.Email,
		Role:          record.Role,
		Status:        record.Status,
		Provider:      provider,
		ExternalToken: providerToken,
		LoginAt:       now,
		ExpiresAt:     now.Add(r.codec.TTL()),
	}

	// Replace any previous session for this user before the new token goes
	// out: two live sessions for one account is never a valid state.
	if prev, err := r.sessions.Get(ctx, record.ID); err == nil {
		r.revoke(ctx, prev)
	}

	issued, err := r.codec.Issue(record.ID, record.Email, record.Role, now)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	sess.TokenDigest = session.Digest(issued)
	sess.State = session.StateLoggedIn
	if err := r.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Info("user logged in",
			zap.Int64("user_id", record.ID),
			zap.String("provider", provider),
		)
	}

	return &Result{Token: issued, User: *record, Provider: provider}, nil
}

// Logout tears the session down on both sides: the provider session (if the
// login came from an external source), the locally issued token, and the
// server-side session record. Missing sessions are fine; logout is
// idempotent.
func (r *Reconciler) Logout(ctx context.Context, userID int64) error {
	sess, err := r.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil
		}
		return err
	}

	r.revoke(ctx, sess)

	if err := r.sessions.Invalidate(ctx, userID); err != nil {
		return err
	}

	if r.logger != nil {
		r.logger.Info("user logged out", zap.Int64("user_id", userID))
	}
	return nil
}

// revoke releases a session's provider half and blacklists its token for the
// remainder of the token's lifetime.
func (r *Reconciler) revoke(ctx context.Context, sess *session.Data) {
	if sess.ExternalToken != "" {
		if src := r.source(sess.Provider); src != nil {
			if err := src.SignOut(ctx, sess.ExternalToken); err != nil && r.logger != nil {
				r.logger.Warn("provider sign-out failed",
					zap.String("provider", sess.Provider),
					zap.Error(err),
				)
			}
		}
	}
	if sess.TokenDigest != "" {
		ttl := time.Until(sess.ExpiresAt)
		if err := r.sessions.BlacklistToken(ctx, sess.TokenDigest, ttl); err != nil && r.logger != nil {
			r.logger.Warn("failed to blacklist token", zap.Error(err))
		}
	}
}

func (r *Reconciler) source(name string) Source {
	for _, src := range r.sources {
		if src.Name() == name {
			return src
		}
	}
	return nil
}
