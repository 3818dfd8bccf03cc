// internal/identity/external.go
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	xerrors "texttabs-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// ExternalSource authenticates against the managed identity provider over
// its password-grant endpoint. A transport failure is reported as
// ErrBackendUnavailable so the reconciler falls through to the local source;
// a clean rejection stays ErrInvalidCredentials.
type ExternalSource struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

func NewExternalSource(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *ExternalSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ExternalSource{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

func (s *ExternalSource) Name() string { return "external" }

type externalAuthResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID     int64  `json:"id"`
		Email  string `json:"email"`
		Role   string `json:"role"`
		Status string `json:"status"`
	} `json:"user"`
}

func (s *ExternalSource) Authenticate(ctx context.Context, email, password string) (*Record, string, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode auth request: %w", err)
	}

	url := s.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", xerrors.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", xerrors.ErrInvalidCredentials
	}

	var parsed externalAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, "", fmt.Errorf("identity provider returned malformed response: %w", err)
	}
	if parsed.AccessToken == "" || parsed.User.Email == "" {
		return nil, "", fmt.Errorf("identity provider returned incomplete response")
	}

	role := parsed.User.Role
	if role == "" {
		role = "user"
	}
	status := parsed.User.Status
	if status == "" {
		status = "verified"
	}

	return &Record{
		ID:     parsed.User.ID,
		Email:  parsed.User.Email,
		Role:   role,
		Status: status,
	}, parsed.AccessToken, nil
}

// SignOut releases the provider-side session. Failures are logged and
// swallowed: the local session and token blacklist are already cleared, so a
// dangling provider session must not block logout.
func (s *ExternalSource) SignOut(ctx context.Context, providerToken string) error {
	if providerToken == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to build logout request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+providerToken)

	resp, err := s.http.Do(req)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("provider sign-out failed", zap.Error(err))
		}
		return nil
	}
	resp.Body.Close()
	return nil
}
