// internal/normalize/normalize.go
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"texttabs-service/internal/domain/dashboard"
	"texttabs-service/internal/domain/page"
	"texttabs-service/internal/domain/setting"
	"texttabs-service/internal/domain/user"
	xerrors "texttabs-service/internal/pkg/errors"
)

// Adapter maps raw backend records (snake_case keys, stringly-typed values)
// into canonical entities. The same adapter runs over live responses and
// fallback data, which is what makes the two indistinguishable downstream.
//
// In strict mode a record missing expected fields fails with SchemaMismatch;
// in lenient mode (production, fallback paths) defaults are substituted. A
// record without an id is rejected in both modes — there is nothing sane to
// default it to.
type Adapter struct {
	Strict bool

	now func() time.Time
}

func NewAdapter(strict bool) *Adapter {
	return &Adapter{Strict: strict, now: time.Now}
}

// User normalizes one raw user record.
func (a *Adapter) User(raw map[string]any) (user.User, error) {
	id, ok := asInt64(raw["id"])
	if !ok {
		return user.User{}, schemaErr("user", "id")
	}
	if err := a.require("user", raw, "email", "role", "status", "created_at"); err != nil {
		return user.User{}, err
	}

	return user.User{
		ID:         id,
		Email:      asString(raw["email"], ""),
		Role:       asString(raw["role"], "user"),
		Status:     asString(raw["status"], "pending"),
		CreatedAt:  a.asTime(raw["created_at"]),
		LastActive: a.asTime(raw["last_active"]),
		PagesCount: asInt(raw["pages_count"], 0),
	}, nil
}

// Page normalizes one raw page record.
func (a *Adapter) Page(raw map[string]any) (page.Page, error) {
	id, ok := asInt64(raw["id"])
	if !ok {
		return page.Page{}, schemaErr("page", "id")
	}
	if err := a.require("page", raw, "user_id", "title", "slug"); err != nil {
		return page.Page{}, err
	}

	userID, _ := asInt64(raw["user_id"])
	return page.Page{
		ID:         id,
		UserID:     userID,
		Title:      asString(raw["title"], ""),
		Content:    asString(raw["content"], ""),
		Slug:       asString(raw["slug"], ""),
		IsPublic:   asBool(raw["is_public"]),
		ViewsCount: asInt(raw["views_count"], 0),
		UserEmail:  asString(raw["user_email"], ""),
		CreatedAt:  a.asTime(raw["created_at"]),
		UpdatedAt:  a.asTime(raw["updated_at"]),
	}, nil
}

// Settings normalizes the key/value settings map.
func (a *Adapter) Settings(raw map[string]any) (setting.SystemSettings, error) {
	if err := a.require("settings", raw, "admin_email"); err != nil {
		return setting.SystemSettings{}, err
	}

	return setting.SystemSettings{
		SMTPHost:         asString(raw["smtp_host"], ""),
		SMTPPort:         asString(raw["smtp_port"], "587"),
		SMTPUsername:     asString(raw["smtp_username"], ""),
		SMTPPassword:     asString(raw["smtp_password"], ""),
		SMTPEncryption:   asString(raw["smtp_encryption"], "tls"),
		SiteURL:          asString(raw["site_url"], ""),
		AdminEmail:       asString(raw["admin_email"], ""),
		UserPageLimit:    asInt(raw["user_page_limit"], 10),
		PremiumPageLimit: asInt(raw["premium_page_limit"], 0),
	}, nil
}

// Stats normalizes the dashboard aggregate block.
func (a *Adapter) Stats(raw map[string]any) (dashboard.Stats, error) {
	if err := a.require("stats", raw, "total_users", "total_pages"); err != nil {
		return dashboard.Stats{}, err
	}

	return dashboard.Stats{
		TotalUsers:    asInt(raw["total_users"], 0),
		TotalPages:    asInt(raw["total_pages"], 0),
		TotalViews:    asInt(raw["total_views"], 0),
		NewUsersToday: asInt(raw["new_users_today"], 0),
		NewPagesToday: asInt(raw["new_pages_today"], 0),
		VerifiedUsers: asInt(raw["verified_users"], 0),
		PendingUsers:  asInt(raw["pending_users"], 0),
		BlockedUsers:  asInt(raw["blocked_users"], 0),
		PublicPages:   asInt(raw["public_pages"], 0),
		PrivatePages:  asInt(raw["private_pages"], 0),
	}, nil
}

// ChartPoint normalizes one day of the chart series.
func (a *Adapter) ChartPoint(raw map[string]any) (dashboard.ChartPoint, error) {
	date := asString(raw["date"], "")
	if date == "" {
		return dashboard.ChartPoint{}, schemaErr("chart point", "date")
	}
	return dashboard.ChartPoint{
		Date:  date,
		Users: asInt(raw["users"], 0),
		Pages: asInt(raw["pages"], 0),
		Views: asInt(raw["views"], 0),
	}, nil
}

// Activity normalizes one recent-activity row.
func (a *Adapter) Activity(raw map[string]any) (dashboard.ActivityEntry, error) {
	id, ok := asInt64(raw["id"])
	if !ok {
		return dashboard.ActivityEntry{}, schemaErr("activity entry", "id")
	}
	return dashboard.ActivityEntry{
		ID:        id,
		UserEmail: asString(raw["user_email"], ""),
		Action:    asString(raw["action"], ""),
		Details:   asString(raw["details"], ""),
		Timestamp: a.asTime(raw["timestamp"]),
	}, nil
}

// Notification normalizes one notification row.
func (a *Adapter) Notification(raw map[string]any) (setting.Notification, error) {
	id, ok := asInt64(raw["id"])
	if !ok {
		return setting.Notification{}, schemaErr("notification", "id")
	}
	return setting.Notification{
		ID:        id,
		Title:     asString(raw["title"], ""),
		Message:   asString(raw["message"], ""),
		Type:      asString(raw["type"], "info"),
		IsRead:    asBool(raw["is_read"]),
		CreatedAt: a.asTime(raw["created_at"]),
	}, nil
}

func (a *Adapter) require(entity string, raw map[string]any, keys ...string) error {
	if !a.Strict {
		return nil
	}
	for _, k := range keys {
		if _, ok := raw[k]; !ok {
			return schemaErr(entity, k)
		}
	}
	return nil
}

func schemaErr(entity, field string) error {
	return fmt.Errorf("%w: %s record missing %q", xerrors.ErrSchemaMismatch, entity, field)
}

// ---- coercions ----
//
// The backend serializes through PHP and MySQL, so numbers and booleans
// arrive as JSON numbers, numeric strings, or "0"/"1" flags depending on the
// endpoint. Coerce them all.

func asString(v any, def string) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return def
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return def
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func asInt(v any, def int) int {
	if i, ok := asInt64(v); ok {
		return int(i)
	}
	return def
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case int:
		return b != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "yes":
			return true
		}
	}
	return false
}

// asTime accepts RFC3339 (the JSON API) and MySQL datetime strings.
// Anything unparsable defaults to the current time, mirroring the console's
// `|| new Date().toISOString()` defaults.
func (a *Adapter) asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return a.now()
}
