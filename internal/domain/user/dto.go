// internal/domain/user/dto.go
package user

// ListFilter narrows the user list.
type ListFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Role   string `form:"role"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ListResponse is the paged user list payload.
type ListResponse struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// CreateRequest creates a console user.
type CreateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// UpdateRequest updates a console user. Empty fields are left untouched.
type UpdateRequest struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}
