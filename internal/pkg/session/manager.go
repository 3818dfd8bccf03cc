// internal/pkg/session/manager.go
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session states. LoggedOut is the absence of a record; the only valid
// transitions are LoggedOut → Authenticating → LoggedIn, Authenticating →
// LoggedOut on failure, and LoggedIn → LoggedOut on logout.
const (
	StateAuthenticating = "authenticating"
	StateLoggedIn       = "logged_in"
)

// ErrNotFound is returned when no session exists for a user.
var ErrNotFound = errors.New("session not found")

// Data is one user's server-side session record. A user has at most one:
// re-authentication replaces the previous record.
type Data struct {
	ID            string    `json:"id"`
	State         string    `json:"state"`
	UserID        int64     `json:"user_id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	Provider      string    `json:"provider"`
	ExternalToken string    `json:"external_token,omitempty"`
	TokenDigest   string    `json:"token_digest,omitempty"`
	LoginAt       time.Time `json:"login_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Manager stores sessions and the logout token blacklist in Redis.
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:user:%d", userID)
}

func blacklistKey(digest string) string {
	return "blacklist:token:" + digest
}

// Digest fingerprints a token for blacklist storage so raw tokens never sit
// in Redis.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Save writes (or replaces) a user's session record with a TTL bound to the
// session expiry.
func (m *Manager) Save(ctx context.Context, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(data.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, sessionKey(data.UserID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns a user's session record.
func (m *Manager) Get(ctx context.Context, userID int64) (*Data, error) {
	raw, err := m.client.Get(ctx, sessionKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &data, nil
}

// Invalidate removes a user's session record.
func (m *Manager) Invalidate(ctx context.Context, userID int64) error {
	if err := m.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// BlacklistToken marks a token digest revoked for the remainder of the
// token's lifetime.
func (m *Manager) BlacklistToken(ctx context.Context, digest string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := m.client.Set(ctx, blacklistKey(digest), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsTokenBlacklisted reports whether a token digest has been revoked.
func (m *Manager) IsTokenBlacklisted(ctx context.Context, digest string) (bool, error) {
	_, err := m.client.Get(ctx, blacklistKey(digest)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return true, nil
}
