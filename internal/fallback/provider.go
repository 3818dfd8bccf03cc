// internal/fallback/provider.go
package fallback

import (
	"time"

	"texttabs-service/internal/pkg/resilience"

	"go.uber.org/zap"
)

// Version identifies the demo data set. Bump when the records change.
const Version = "2024.1"

// Provider serves fixed demo records while the content backend is
// unreachable. Records use the exact raw shape the live backend emits
// (snake_case keys, ISO timestamps) and flow through the same normalization
// adapter, so consumers cannot tell them apart from live data structurally.
// Values are obviously synthetic but type- and range-valid.
type Provider struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewProvider(logger *zap.Logger) *Provider {
	return &Provider{logger: logger, now: time.Now}
}

// NotifyUnavailable emits the "working on demo data" notice at most once per
// session, no matter how many parallel fallback reads trigger it.
func (p *Provider) NotifyUnavailable(state *resilience.SessionState) {
	if state == nil || !state.MarkNotified() {
		return
	}
	if p.logger != nil {
		p.logger.Warn("content backend unreachable, serving demo data",
			zap.String("data_version", Version),
		)
	}
}

func (p *Provider) stamp() string {
	return p.now().UTC().Format(time.RFC3339)
}

// Users returns the demo user set.
func (p *Provider) Users() []map[string]any {
	now := p.stamp()
	return []map[string]any{
		{
			"id":          1,
			"email":       "admin@texttabs.com",
			"role":        "admin",
			"status":      "verified",
			"created_at":  now,
			"last_active": now,
			"pages_count": 3,
		},
		{
			"id":          2,
			"email":       "user@example.com",
			"role":        "user",
			"status":      "verified",
			"created_at":  now,
			"last_active": now,
			"pages_count": 1,
		},
	}
}

// Pages returns the demo page set.
func (p *Provider) Pages() []map[string]any {
	now := p.stamp()
	return []map[string]any{
		{
			"id":          1,
			"user_id":     2,
			"title":       "Demo page",
			"content":     "<h1>Demo content</h1><p>This is a sample user page.</p>",
			"slug":        "demo-page",
			"is_public":   true,
			"views_count": 150,
			"user_email":  "user@example.com",
			"created_at":  now,
			"updated_at":  now,
		},
	}
}

// Stats returns the demo dashboard aggregates.
func (p *Provider) Stats() map[string]any {
	return map[string]any{
		"total_users":     125,
		"total_pages":     45,
		"total_views":     2340,
		"new_users_today": 5,
		"new_pages_today": 3,
		"verified_users":  98,
		"pending_users":   12,
		"blocked_users":   2,
		"public_pages":    35,
		"private_pages":   10,
	}
}

// ChartData returns a deterministic synthetic activity series for the last
// `days` days, newest last. Deterministic on purpose: demo charts must not
// jitter between renders.
func (p *Provider) ChartData(days int) []map[string]any {
	if days <= 0 {
		days = 30
	}
	today := p.now()
	series := make([]map[string]any, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		series = append(series, map[string]any{
			"date":  day.Format("2006-01-02"),
			"users": 1 + (i*3)%9,
			"pages": 2 + (i*5)%13,
			"views": 20 + (i*17)%80,
		})
	}
	return series
}

// Activity returns the demo recent-activity feed.
func (p *Provider) Activity() []map[string]any {
	now := p.stamp()
	return []map[string]any{
		{
			"id":         1,
			"user_email": "user@example.com",
			"action":     "created_page",
			"details":    "Created page \"Demo page\"",
			"timestamp":  now,
		},
		{
			"id":         2,
			"user_email": "admin@texttabs.com",
			"action":     "login",
			"details":    "Signed in to the console",
			"timestamp":  now,
		},
	}
}

// Settings returns the demo settings map.
func (p *Provider) Settings() map[string]any {
	return map[string]any{
		"smtp_host":          "",
		"smtp_port":          "587",
		"smtp_username":      "",
		"smtp_password":      "",
		"smtp_encryption":    "tls",
		"site_url":           "https://texttabs.example",
		"admin_email":        "admin@texttabs.com",
		"user_page_limit":    "10",
		"premium_page_limit": "0",
	}
}

// Notifications returns the demo notification feed.
func (p *Provider) Notifications() []map[string]any {
	return []map[string]any{
		{
			"id":         1,
			"title":      "Demo mode",
			"message":    "The database is unreachable. You are viewing demo data.",
			"type":       "warning",
			"is_read":    false,
			"created_at": p.stamp(),
		},
	}
}
