// internal/domain/page/entity.go
package page

import "time"

// Page is the canonical user page record.
type Page struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Slug       string    `json:"slug"`
	IsPublic   bool      `json:"isPublic"`
	ViewsCount int       `json:"viewsCount"`
	UserEmail  string    `json:"userEmail"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
