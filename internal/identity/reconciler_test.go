// internal/identity/reconciler_test.go
package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"texttabs-service/internal/domain/user"
	xerrors "texttabs-service/internal/pkg/errors"
	"texttabs-service/internal/pkg/session"
	"texttabs-service/internal/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type memSessions struct {
	records   map[int64]*session.Data
	blacklist map[string]bool
}

func newMemSessions() *memSessions {
	return &memSessions{
		records:   make(map[int64]*session.Data),
		blacklist: make(map[string]bool),
	}
}

func (m *memSessions) Save(_ context.Context, data *session.Data) error {
	copied := *data
	m.records[data.UserID] = &copied
	return nil
}

func (m *memSessions) Get(_ context.Context, userID int64) (*session.Data, error) {
	data, ok := m.records[userID]
	if !ok {
		return nil, session.ErrNotFound
	}
	copied := *data
	return &copied, nil
}

func (m *memSessions) Invalidate(_ context.Context, userID int64) error {
	delete(m.records, userID)
	return nil
}

func (m *memSessions) BlacklistToken(_ context.Context, digest string, _ time.Duration) error {
	m.blacklist[digest] = true
	return nil
}

type memCredentials struct {
	byEmail map[string]*user.Credential
}

func (m *memCredentials) FindByEmail(_ context.Context, email string) (*user.Credential, error) {
	cred, ok := m.byEmail[email]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return cred, nil
}

func (m *memCredentials) UpdateLastActive(_ context.Context, _ int64) error {
	return nil
}

const testSalt = "pepper"

func localWith(t *testing.T, creds ...*user.Credential) *LocalSource {
	t.Helper()
	store := &memCredentials{byEmail: make(map[string]*user.Credential)}
	for _, c := range creds {
		store.byEmail[c.Email] = c
	}
	return NewLocalSource(store, testSalt, zap.NewNop())
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password+testSalt), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec("test-secret", 24*time.Hour)
	require.NoError(t, err)
	return codec
}

func TestLoginExternalSourceWins(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"provider-token","user":{"id":7,"email":"admin@texttabs.com","role":"admin","status":"verified"}}`))
	}))
	defer idp.Close()

	external := NewExternalSource(idp.URL, "key", time.Second, zap.NewNop())
	local := localWith(t)
	sessions := newMemSessions()
	rec := NewReconciler(newCodec(t), sessions, zap.NewNop(), external, local)

	res, err := rec.Login(context.Background(), "admin@texttabs.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "external", res.Provider)
	assert.Equal(t, int64(7), res.User.ID)
	assert.Equal(t, "admin", res.User.Role)
	assert.NotEmpty(t, res.Token)

	sess, err := sessions.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, session.StateLoggedIn, sess.State)
	assert.Equal(t, "provider-token", sess.ExternalToken)
	assert.Equal(t, session.Digest(res.Token), sess.TokenDigest)
}

func TestLoginFallsThroughToLocal(t *testing.T) {
	// Provider is down: the listener is closed before any request arrives.
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	idp.Close()

	external := NewExternalSource(idp.URL, "key", time.Second, zap.NewNop())
	local := localWith(t, &user.Credential{
		ID:           3,
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "hunter22"),
		Role:         "user",
		Status:       "verified",
	})
	sessions := newMemSessions()
	rec := NewReconciler(newCodec(t), sessions, zap.NewNop(), external, local)

	res, err := rec.Login(context.Background(), "user@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "local", res.Provider)
	assert.Equal(t, int64(3), res.User.ID)

	// Local logins have no provider session to clear on logout.
	sess, err := sessions.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, sess.ExternalToken)
}

func TestLoginAllSourcesRejectIsOpaque(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer idp.Close()

	external := NewExternalSource(idp.URL, "key", time.Second, zap.NewNop())
	local := localWith(t, &user.Credential{
		ID:           3,
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "hunter22"),
		Role:         "user",
		Status:       "verified",
	})
	rec := NewReconciler(newCodec(t), newMemSessions(), zap.NewNop(), external, local)

	_, err := rec.Login(context.Background(), "user@example.com", "wrong-password")
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
}

func TestLoginBlockedAccountStopsChain(t *testing.T) {
	local := localWith(t, &user.Credential{
		ID:           9,
		Email:        "blocked@example.com",
		PasswordHash: hashPassword(t, "hunter22"),
		Role:         "user",
		Status:       "blocked",
	})
	rec := NewReconciler(newCodec(t), newMemSessions(), zap.NewNop(), local)

	_, err := rec.Login(context.Background(), "blocked@example.com", "hunter22")
	assert.ErrorIs(t, err, xerrors.ErrAccountBlocked)
}

func TestReLoginReplacesSessionAndRevokesOldToken(t *testing.T) {
	local := localWith(t, &user.Credential{
		ID:           3,
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "hunter22"),
		Role:         "user",
		Status:       "verified",
	})
	sessions := newMemSessions()
	rec := NewReconciler(newCodec(t), sessions, zap.NewNop(), local)
	rec.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	first, err := rec.Login(context.Background(), "user@example.com", "hunter22")
	require.NoError(t, err)

	rec.now = func() time.Time { return time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC) }
	second, err := rec.Login(context.Background(), "user@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	assert.True(t, sessions.blacklist[session.Digest(first.Token)])
	assert.False(t, sessions.blacklist[session.Digest(second.Token)])

	sess, err := sessions.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, session.Digest(second.Token), sess.TokenDigest)
}

func TestLogoutClearsBothSides(t *testing.T) {
	var signedOut bool
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/logout":
			signedOut = true
			assert.Equal(t, "Bearer provider-token", r.Header.Get("Authorization"))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"provider-token","user":{"id":7,"email":"admin@texttabs.com","role":"admin","status":"verified"}}`))
		}
	}))
	defer idp.Close()

	external := NewExternalSource(idp.URL, "key", time.Second, zap.NewNop())
	sessions := newMemSessions()
	rec := NewReconciler(newCodec(t), sessions, zap.NewNop(), external)

	res, err := rec.Login(context.Background(), "admin@texttabs.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, rec.Logout(context.Background(), 7))

	assert.True(t, signedOut)
	assert.True(t, sessions.blacklist[session.Digest(res.Token)])
	_, err = sessions.Get(context.Background(), 7)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// A second logout finds nothing and succeeds anyway.
	require.NoError(t, rec.Logout(context.Background(), 7))
}
