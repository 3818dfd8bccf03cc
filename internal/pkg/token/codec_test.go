package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("test-secret", 24*time.Hour)
	require.NoError(t, err)
	return c
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec("", 24*time.Hour)
	require.Error(t, err)
}

func TestCodec_Roundtrip(t *testing.T) {
	c := newTestCodec(t)
	now := time.Unix(1700000000, 0)

	tok, err := c.Issue(42, "admin@texttabs.com", "admin", now)
	require.NoError(t, err)

	p, err := c.Verify(tok, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.UserID)
	assert.Equal(t, "admin@texttabs.com", p.Email)
	assert.Equal(t, "admin", p.Role)
	assert.Equal(t, now.Unix(), p.IssuedAt.Unix())
	assert.Equal(t, now.Add(24*time.Hour).Unix(), p.ExpiresAt.Unix())
}

func TestCodec_WireFormat(t *testing.T) {
	c := newTestCodec(t)
	tok, err := c.Issue(1, "user@example.com", "user", time.Unix(1700000000, 0))
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	var header map[string]string
	require.NoError(t, json.Unmarshal(headerJSON, &header))
	assert.Equal(t, "JWT", header["typ"])
	assert.Equal(t, "HS256", header["alg"])

	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(payloadJSON, &payload))
	assert.Equal(t, float64(1), payload["user_id"])
	assert.Equal(t, "user@example.com", payload["email"])
	assert.Equal(t, "user", payload["role"])
	assert.Equal(t, float64(1700000000), payload["iat"])
	assert.Equal(t, float64(1700000000+86400), payload["exp"])
}

func TestCodec_TamperedPayload(t *testing.T) {
	c := newTestCodec(t)
	now := time.Unix(1700000000, 0)
	tok, err := c.Issue(1, "user@example.com", "user", now)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	// Escalate the role but keep the original signature.
	forged := strings.Replace(string(payloadJSON), `"role":"user"`, `"role":"admin"`, 1)
	require.NotEqual(t, string(payloadJSON), forged)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = c.Verify(strings.Join(parts, "."), now)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestCodec_TamperedSignature(t *testing.T) {
	c := newTestCodec(t)
	now := time.Unix(1700000000, 0)
	tok, err := c.Issue(1, "user@example.com", "user", now)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)

	_, err = c.Verify(strings.Join(parts, "."), now)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestCodec_WrongSecret(t *testing.T) {
	a := newTestCodec(t)
	b, err := NewCodec("other-secret", 24*time.Hour)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	tok, err := a.Issue(1, "user@example.com", "user", now)
	require.NoError(t, err)

	_, err = b.Verify(tok, now)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestCodec_ExpirationBoundary(t *testing.T) {
	c := newTestCodec(t)
	issued := time.Unix(1700000000, 0)
	exp := issued.Add(24 * time.Hour)

	tok, err := c.Issue(1, "user@example.com", "user", issued)
	require.NoError(t, err)

	_, err = c.Verify(tok, exp.Add(-time.Second))
	assert.NoError(t, err)

	_, err = c.Verify(tok, exp.Add(time.Second))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

// A token that is both expired and tampered must report the signature
// failure: signature validity is always evaluated before expiration.
func TestCodec_SignatureCheckedBeforeExpiry(t *testing.T) {
	c := newTestCodec(t)
	issued := time.Unix(1700000000, 0)

	tok, err := c.Issue(1, "user@example.com", "user", issued)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(payloadJSON), `"role":"user"`, `"role":"admin"`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = c.Verify(strings.Join(parts, "."), issued.Add(48*time.Hour))
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestCodec_MalformedTokens(t *testing.T) {
	c := newTestCodec(t)
	now := time.Unix(1700000000, 0)

	valid, err := c.Issue(1, "user@example.com", "user", now)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "abcdef"},
		{"two segments", "abc.def"},
		{"four segments", valid + ".extra"},
		{"garbage segments", "!!!.???.###"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Verify(tt.token, now)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}
