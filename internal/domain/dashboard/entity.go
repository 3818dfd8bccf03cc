// internal/domain/dashboard/entity.go
package dashboard

import "time"

// Stats is the dashboard aggregate block.
type Stats struct {
	TotalUsers    int `json:"totalUsers"`
	TotalPages    int `json:"totalPages"`
	TotalViews    int `json:"totalViews"`
	NewUsersToday int `json:"newUsersToday"`
	NewPagesToday int `json:"newPagesToday"`
	VerifiedUsers int `json:"verifiedUsers"`
	PendingUsers  int `json:"pendingUsers"`
	BlockedUsers  int `json:"blockedUsers"`
	PublicPages   int `json:"publicPages"`
	PrivatePages  int `json:"privatePages"`
}

// ChartPoint is one day in the activity chart series.
type ChartPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Users int    `json:"users"`
	Pages int    `json:"pages"`
	Views int    `json:"views"`
}

// ActivityEntry is one row of the recent-activity feed.
type ActivityEntry struct {
	ID        int64     `json:"id"`
	UserEmail string    `json:"userEmail"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
