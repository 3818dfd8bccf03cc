// internal/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"texttabs-service/internal/domain/page"
	"texttabs-service/internal/domain/user"
	xerrors "texttabs-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Client talks to the legacy content backend. Transport-level failures map to
// ErrBackendUnavailable so callers can switch to the fallback path; an error
// envelope from a reachable backend stays an ordinary application error and
// is never conflated with unavailability.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  logger,
	}
}

// CanaryURL is the availability probe target: the auth endpoint's ping
// action. The probe only cares whether anything answers.
func (c *Client) CanaryURL() string {
	return c.baseURL + "/auth.php?action=ping"
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, token string) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("backend request failed",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("%w: %v", xerrors.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// The process answered, so this is not unavailability; it is a
		// broken response from a live backend.
		return nil, fmt.Errorf("backend returned malformed response: %w", err)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "backend request failed"
		}
		return nil, errors.New(msg)
	}
	return env.Data, nil
}

func decodeList(raw json.RawMessage) ([]map[string]any, error) {
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode backend list: %w", err)
	}
	return list, nil
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode backend object: %w", err)
	}
	return obj, nil
}

// ---- users ----

func (c *Client) ListUsers(ctx context.Context, token string, filter user.ListFilter) ([]map[string]any, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Role != "" {
		q.Set("role", filter.Role)
	}

	raw, err := c.do(ctx, http.MethodGet, "/users.php", q, nil, token)
	if err != nil {
		return nil, err
	}
	return decodeList(raw)
}

func (c *Client) CreateUser(ctx context.Context, token string, req user.CreateRequest) (map[string]any, error) {
	body := map[string]any{
		"action":   "create",
		"email":    req.Email,
		"password": req.Password,
		"role":     req.Role,
	}
	raw, err := c.do(ctx, http.MethodPost, "/users.php", nil, body, token)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, req user.UpdateRequest) (map[string]any, error) {
	body := map[string]any{
		"action": "update",
		"id":     id,
	}
	if req.Email != "" {
		body["email"] = req.Email
	}
	if req.Role != "" {
		body["role"] = req.Role
	}
	if req.Status != "" {
		body["status"] = req.Status
	}
	raw, err := c.do(ctx, http.MethodPut, "/users.php", nil, body, token)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	_, err := c.do(ctx, http.MethodDelete, "/users.php", q, nil, token)
	return err
}

// ---- pages ----

func (c *Client) ListPages(ctx context.Context, token string, filter page.ListFilter) ([]map[string]any, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.UserID != 0 {
		q.Set("user_id", strconv.FormatInt(filter.UserID, 10))
	}

	raw, err := c.do(ctx, http.MethodGet, "/pages.php", q, nil, token)
	if err != nil {
		return nil, err
	}
	return decodeList(raw)
}

func (c *Client) GetPage(ctx context.Context, token string, id int64) (map[string]any, error) {
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	raw, err := c.do(ctx, http.MethodGet, "/pages.php", q, nil, token)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (c *Client) CreatePage(ctx context.Context, token string, req page.CreateRequest) (map[string]any, error) {
	body := map[string]any{
		"action":  "create",
		"user_id": req.UserID,
		"title":   req.Title,
		"content": req.Content,
	}
	raw, err := c.do(ctx, http.MethodPost, "/pages.php", nil, body, token)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (c *Client) UpdatePage(ctx context.Context, token string, id int64, req page.UpdateRequest) (map[string]any, error) {
	body := map[string]any{
		"action": "update",
		"id":     id,
	}
	if req.Title != nil {
		body["title"] = *req.Title
	}
	if req.Content != nil {
		body["content"] = *req.Content
	}
	if req.IsPublic != nil {
		body["is_public"] = *req.IsPublic
	}
	raw, err := c.do(ctx, http.MethodPut, "/pages.php", nil, body, token)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (c *Client) DeletePage(ctx context.Context, token string, id int64) error {
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	_, err := c.do(ctx, http.MethodDelete, "/pages.php", q, nil, token)
	return err
}

// ---- dashboard ----

func (c *Client) Stats(ctx context.Context, token string) (map[string]any, error) {
	q := url.Values{"action": {"get_stats"}}
	raw, err := c.do(ctx, http.MethodGet, "/dashboard.php", q, nil, token)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (c *Client) ChartData(ctx context.Context, token string, days int) ([]map[string]any, error) {
	q := url.Values{
		"action": {"get_chart_data"},
		"period": {strconv.Itoa(days)},
	}
	raw, err := c.do(ctx, http.MethodGet, "/dashboard.php", q, nil, token)
	if err != nil {
		return nil, err
	}
	return decodeList(raw)
}

func (c *Client) Activity(ctx context.Context, token string) ([]map[string]any, error) {
	q := url.Values{"action": {"get_user_activity"}}
	raw, err := c.do(ctx, http.MethodGet, "/dashboard.php", q, nil, token)
	if err != nil {
		return nil, err
	}
	return decodeList(raw)
}

// ---- settings ----

func (c *Client) Settings(ctx context.Context, token string) (map[string]any, error) {
	q := url.Values{"action": {"get_all"}}
	raw, err := c.do(ctx, http.MethodGet, "/settings.php", q, nil, token)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (c *Client) UpdateSettings(ctx context.Context, token string, settings map[string]string) error {
	body := map[string]any{
		"action":   "update_settings",
		"settings": settings,
	}
	_, err := c.do(ctx, http.MethodPost, "/settings.php", nil, body, token)
	return err
}

func (c *Client) Notifications(ctx context.Context, token string) ([]map[string]any, error) {
	body := map[string]any{"action": "get_notifications"}
	raw, err := c.do(ctx, http.MethodPost, "/settings.php", nil, body, token)
	if err != nil {
		return nil, err
	}
	return decodeList(raw)
}

func (c *Client) MarkNotificationRead(ctx context.Context, token string, id int64) error {
	body := map[string]any{
		"action": "mark_notification_read",
		"id":     id,
	}
	_, err := c.do(ctx, http.MethodPost, "/settings.php", nil, body, token)
	return err
}
