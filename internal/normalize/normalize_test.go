// internal/normalize/normalize_test.go
package normalize

import (
	"testing"
	"time"

	xerrors "texttabs-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCoercesBackendTypes(t *testing.T) {
	// The backend serializes through PHP: ids arrive as strings, flags as
	// "0"/"1", timestamps as MySQL datetimes.
	a := NewAdapter(false)

	u, err := a.User(map[string]any{
		"id":          "42",
		"email":       "user@example.com",
		"role":        "premium",
		"status":      "verified",
		"created_at":  "2024-03-01 09:30:00",
		"last_active": "2024-03-05T10:00:00Z",
		"pages_count": "7",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), u.ID)
	assert.Equal(t, "premium", u.Role)
	assert.Equal(t, 7, u.PagesCount)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), u.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), u.LastActive)
}

func TestUserLenientSubstitutesDefaults(t *testing.T) {
	a := NewAdapter(false)
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	u, err := a.User(map[string]any{"id": 1})
	require.NoError(t, err)

	assert.Equal(t, "user", u.Role)
	assert.Equal(t, "pending", u.Status)
	assert.Equal(t, fixed, u.CreatedAt)
	assert.Zero(t, u.PagesCount)
}

func TestUserStrictRejectsMissingFields(t *testing.T) {
	a := NewAdapter(true)

	_, err := a.User(map[string]any{
		"id":     1,
		"email":  "user@example.com",
		"role":   "user",
		"status": "verified",
		// created_at missing
	})
	assert.ErrorIs(t, err, xerrors.ErrSchemaMismatch)
}

func TestMissingIDRejectedInBothModes(t *testing.T) {
	for _, strict := range []bool{true, false} {
		a := NewAdapter(strict)

		_, err := a.User(map[string]any{"email": "user@example.com"})
		assert.ErrorIs(t, err, xerrors.ErrSchemaMismatch, "strict=%v", strict)

		_, err = a.Page(map[string]any{"title": "no id"})
		assert.ErrorIs(t, err, xerrors.ErrSchemaMismatch, "strict=%v", strict)
	}
}

func TestPageCoercesBoolFlags(t *testing.T) {
	a := NewAdapter(false)

	for raw, want := range map[any]bool{
		"1":     true,
		"true":  true,
		float64(1): true,
		"0":     false,
		false:   false,
	} {
		p, err := a.Page(map[string]any{
			"id":        1,
			"user_id":   2,
			"title":     "t",
			"slug":      "t",
			"is_public": raw,
		})
		require.NoError(t, err)
		assert.Equal(t, want, p.IsPublic, "raw=%v", raw)
	}
}

func TestSettingsDefaultsAndCoercion(t *testing.T) {
	a := NewAdapter(false)

	s, err := a.Settings(map[string]any{
		"admin_email":     "admin@texttabs.com",
		"user_page_limit": "25",
	})
	require.NoError(t, err)

	assert.Equal(t, "admin@texttabs.com", s.AdminEmail)
	assert.Equal(t, 25, s.UserPageLimit)
	assert.Equal(t, "587", s.SMTPPort)
	assert.Equal(t, "tls", s.SMTPEncryption)
}

func TestStatsFromNumericStrings(t *testing.T) {
	a := NewAdapter(false)

	stats, err := a.Stats(map[string]any{
		"total_users": "125",
		"total_pages": float64(45),
		"total_views": 2340,
	})
	require.NoError(t, err)

	assert.Equal(t, 125, stats.TotalUsers)
	assert.Equal(t, 45, stats.TotalPages)
	assert.Equal(t, 2340, stats.TotalViews)
	assert.Zero(t, stats.BlockedUsers)
}

func TestChartPointRequiresDate(t *testing.T) {
	a := NewAdapter(false)

	_, err := a.ChartPoint(map[string]any{"users": 3})
	assert.ErrorIs(t, err, xerrors.ErrSchemaMismatch)

	point, err := a.ChartPoint(map[string]any{"date": "2024-03-01", "users": "3"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", point.Date)
	assert.Equal(t, 3, point.Users)
}
