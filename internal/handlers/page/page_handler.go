// internal/handlers/page/page_handler.go
package page

import (
	"net/http"
	"strconv"

	domain "texttabs-service/internal/domain/page"
	"texttabs-service/internal/middleware"
	xerrors "texttabs-service/internal/pkg/errors"
	"texttabs-service/internal/pkg/response"
	pagesvc "texttabs-service/internal/service/page"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	service *pagesvc.Service
}

func NewPageHandler(service *pagesvc.Service) *PageHandler {
	return &PageHandler{service: service}
}

// ListPages returns the filtered, paged page list.
func (h *PageHandler) ListPages(c *gin.Context) {
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

// GetPage returns one page with its full content.
func (h *PageHandler) GetPage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.AppError(c, xerrors.ErrInvalidInput)
		return
	}

	p, err := h.service.Get(c.Request.Context(), middleware.RawToken(c), id, middleware.ResilienceState(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// CreatePage publishes a page for a user.
func (h *PageHandler) CreatePage(c *gin.Context) {
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

// UpdatePage modifies a page's title, content or visibility.
func (h *PageHandler) UpdatePage(c *gin.Context) {
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

// DeletePage removes a page.
func (h *PageHandler) DeletePage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.AppError(c, xerrors.ErrInvalidInput)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.RawToken(c), id, middleware.ResilienceState(c)); err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "page deleted"})
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
