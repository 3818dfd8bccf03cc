// internal/pkg/token/codec.go
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure taxonomy. Malformed and mismatched tokens must be
// presented to clients identically; only Expired may be distinguished so the
// console can prompt a re-login.
var (
	ErrMalformedToken    = errors.New("malformed token")
	ErrSignatureMismatch = errors.New("token signature mismatch")
	ErrTokenExpired      = errors.New("token expired")
)

// Payload is the authenticated identity carried by a verified token.
type Payload struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// claims matches the wire payload {"user_id","email","role","iat","exp"}.
type claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies compact HS256 tokens:
// base64url(header).base64url(payload).base64url(hmac_sha256). Both
// operations are pure functions of their arguments plus the read-only secret,
// so a single Codec is safe for concurrent use without locks.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec. An empty secret is rejected here so the process
// fails at startup rather than on the first login.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a new token for the given identity, expiring ttl after now.
// Tokens are immutable once issued; callers reissue rather than mutate.
func (c *Codec) Issue(userID int64, email, role string, now time.Time) (string, error) {
	cl := claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses and validates a token against now. The signature is checked
// before expiration: a tampered-but-expired token reports SignatureMismatch,
// never Expired.
func (c *Codec) Verify(tokenString string, now time.Time) (*Payload, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)

	cl := &claims{}
	_, err := parser.ParseWithClaims(tokenString, cl, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureMismatch
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			// Wrong segment count, undecodable payload, missing exp,
			// unexpected algorithm: all collapse into MalformedToken.
			return nil, ErrMalformedToken
		}
	}

	p := &Payload{
		UserID: cl.UserID,
		Email:  cl.Email,
		Role:   cl.Role,
	}
	if cl.IssuedAt != nil {
		p.IssuedAt = cl.IssuedAt.Time
	}
	if cl.ExpiresAt != nil {
		p.ExpiresAt = cl.ExpiresAt.Time
	}
	return p, nil
}
