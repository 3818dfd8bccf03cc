// internal/domain/page/dto.go
package page

// ListFilter narrows the page list.
type ListFilter struct {
	Search string `form:"search"`
	UserID int64  `form:"user_id"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ListResponse is the paged page list payload.
type ListResponse struct {
	Pages []Page `json:"pages"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// CreateRequest creates a page on behalf of a user.
type CreateRequest struct {
	UserID  int64  `json:"user_id" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// UpdateRequest updates a page. Nil pointers are left untouched.
type UpdateRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	IsPublic *bool   `json:"is_public"`
}
