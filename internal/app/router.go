// internal/app/router.go
package app

import (
	authHandler "texttabs-service/internal/handlers/auth"
	dashboardHandler "texttabs-service/internal/handlers/dashboard"
	pageHandler "texttabs-service/internal/handlers/page"
	settingsHandler "texttabs-service/internal/handlers/settings"
	systemHandler "texttabs-service/internal/handlers/system"
	userHandler "texttabs-service/internal/handlers/user"
	"texttabs-service/internal/middleware"
	"texttabs-service/internal/pkg/resilience"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler      *authHandler.AuthHandler
	UserHandler      *userHandler.UserHandler
	PageHandler      *pageHandler.PageHandler
	DashboardHandler *dashboardHandler.DashboardHandler
	SettingsHandler  *settingsHandler.SettingsHandler
	SystemHandler    *systemHandler.SystemHandler
	AuthMiddleware   *middleware.AuthMiddleware
	States           *resilience.Store
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== System ====================
	api.GET("/health", h.SystemHandler.Health)
	api.GET("/status/backend", h.SystemHandler.BackendStatus)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.POST("/verify-token", h.AuthHandler.VerifyToken)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// The console is admin-only past this point.
	admin := api.Group("")
	admin.Use(
		h.AuthMiddleware.Auth(),
		h.AuthMiddleware.RequireRole("admin"),
		middleware.Resilience(h.States),
	)

	// ==================== Users ====================
	users := admin.Group("/users")
	{
		users.GET("", h.UserHandler.ListUsers)
		users.POST("", h.UserHandler.CreateUser)
		users.PUT("/:id", h.UserHandler.UpdateUser)
		users.DELETE("/:id", h.UserHandler.DeleteUser)
	}

	// ==================== Pages ====================
	pages := admin.Group("/pages")
	{
		pages.GET("", h.PageHandler.ListPages)
		pages.GET("/:id", h.PageHandler.GetPage)
		pages.POST("", h.PageHandler.CreatePage)
		pages.PUT("/:id", h.PageHandler.UpdatePage)
		pages.DELETE("/:id", h.PageHandler.DeletePage)
	}

	// ==================== Dashboard ====================
	dashboard := admin.Group("/dashboard")
	{
		dashboard.GET("/stats", h.DashboardHandler.GetStats)
		dashboard.GET("/chart", h.DashboardHandler.GetChart)
		dashboard.GET("/activity", h.DashboardHandler.GetActivity)
	}

	// ==================== Settings ====================
	settings := admin.Group("/settings")
	{
		settings.GET("", h.SettingsHandler.GetSettings)
		settings.PUT("", h.SettingsHandler.UpdateSettings)
	}

	// ==================== Notifications ====================
	notifications := admin.Group("/notifications")
	{
		notifications.GET("", h.SettingsHandler.GetNotifications)
		notifications.PUT("/:id/read", h.SettingsHandler.MarkNotificationRead)
	}
}
