// internal/handlers/user/user_handler.go
package user

import (
	"net/http"
	"strconv"

	domain "texttabs-service/internal/domain/user"
	"texttabs-service/internal/middleware"
	xerrors "texttabs-service/internal/pkg/errors"
	"texttabs-service/internal/pkg/response"
	usersvc "texttabs-service/internal/service/user"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *usersvc.Service
}

func NewUserHandler(service *usersvc.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers returns the filtered, paged user list.
func (h *UserHandler) ListUsers(c *gin.Context) {
	var filter domain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.AppError(c, xerrors.ErrInvalidInput)
		return
	}

	res, err := h.service.List(c.Request.Context(), middleware.RawToken(c), filter, middleware.ResilienceState(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// CreateUser provisions a new user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.AppError(c, xerrors.ErrInvalidInput)
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.RawToken(c), req, middleware.ResilienceState(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// UpdateUser modifies a user's email, role or status.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.AppError(c, xerrors.ErrInvalidInput)
		return
	}

	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.AppError(c, xerrors.ErrInvalidInput)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), middleware.RawToken(c), id, req, middleware.ResilienceState(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// DeleteUser removes a user.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.AppError(c, xerrors.ErrInvalidInput)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.RawToken(c), id, middleware.ResilienceState(c)); err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "user deleted"})
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
