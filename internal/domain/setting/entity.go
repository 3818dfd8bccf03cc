// internal/domain/setting/entity.go
package setting

import "time"

// SystemSettings is the canonical settings record: SMTP delivery, site
// identity and per-role page limits.
type SystemSettings struct {
	SMTPHost         string `json:"smtpHost"`
	SMTPPort         string `json:"smtpPort"`
	SMTPUsername     string `json:"smtpUsername"`
	SMTPPassword     string `json:"smtpPassword"`
	SMTPEncryption   string `json:"smtpEncryption"`
	SiteURL          string `json:"siteUrl"`
	AdminEmail       string `json:"adminEmail"`
	UserPageLimit    int    `json:"userPageLimit"`
	PremiumPageLimit int    `json:"premiumPageLimit"`
}

// Notification is an admin console notification.
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateRequest carries settings keys to write. Only present keys change.
type UpdateRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}
