// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"texttabs-service/internal/backend"
	"texttabs-service/internal/config"
	"texttabs-service/internal/db"
	"texttabs-service/internal/fallback"
	authHandler "texttabs-service/internal/handlers/auth"
	dashboardHandler "texttabs-service/internal/handlers/dashboard"
	pageHandler "texttabs-service/internal/handlers/page"
	settingsHandler "texttabs-service/internal/handlers/settings"
	systemHandler "texttabs-service/internal/handlers/system"
	userHandler "texttabs-service/internal/handlers/user"
	"texttabs-service/internal/identity"
	"texttabs-service/internal/middleware"
	"texttabs-service/internal/normalize"
	"texttabs-service/internal/pkg/availability"
	"texttabs-service/internal/pkg/resilience"
	"texttabs-service/internal/pkg/session"
	"texttabs-service/internal/pkg/token"
	"texttabs-service/internal/repository/postgres"
	authUsecase "texttabs-service/internal/service/auth"
	"texttabs-service/internal/service/content"
	dashboardUsecase "texttabs-service/internal/service/dashboard"
	pageUsecase "texttabs-service/internal/service/page"
	settingsUsecase "texttabs-service/internal/service/settings"
	userUsecase "texttabs-service/internal/service/user"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

func NewServer() *Server {
	cfg := config.Load()
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New()}
}

func (s *Server) Start() error {
	ctx := context.Background()

	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// ----- Logger -----
	var err error
	if s.cfg.Environment == "production" {
		s.logger, err = zap.NewProduction()
	} else {
		s.logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer s.logger.Sync()

	// ----- PostgreSQL -----
	s.pool, err = db.ConnectDB(ctx, s.cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	s.redis, err = db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- Auth plane -----
	codec, err := token.NewCodec(s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to build token codec: %w", err)
	}
	sessionManager := session.NewManager(s.redis)
	userRepo := postgres.NewUserRepository(s.pool)

	var sources []identity.Source
	if s.cfg.IdentityURL != "" {
		sources = append(sources, identity.NewExternalSource(
			s.cfg.IdentityURL, s.cfg.IdentityAPIKey, 10*time.Second, s.logger))
	}
	sources = append(sources, identity.NewLocalSource(userRepo, s.cfg.PasswordSalt, s.logger))

	reconciler := identity.NewReconciler(codec, sessionManager, s.logger, sources...)
	authService := authUsecase.NewAuthService(reconciler, codec, sessionManager, s.logger)

	// ----- Content plane -----
	backendClient := backend.NewClient(s.cfg.BackendBaseURL, 10*time.Second, s.logger)
	probe := availability.NewProbe(backendClient.CanaryURL(), s.cfg.ProbeTimeout, s.cfg.ProbeDebounce, s.logger)
	demo := fallback.NewProvider(s.logger)
	adapter := normalize.NewAdapter(s.cfg.Environment != "production")
	resolver := content.NewResolver(probe, demo)
	states := resilience.NewStore()

	userService := userUsecase.NewService(backendClient, resolver, demo, adapter, s.logger)
	pageService := pageUsecase.NewService(backendClient, resolver, demo, adapter, s.logger)
	dashboardService := dashboardUsecase.NewService(backendClient, resolver, demo, adapter, s.logger)
	settingsService := settingsUsecase.NewService(backendClient, resolver, demo, adapter, s.logger)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:      authHandler.NewAuthHandler(authService, states, s.logger),
		UserHandler:      userHandler.NewUserHandler(userService),
		PageHandler:      pageHandler.NewPageHandler(pageService),
		DashboardHandler: dashboardHandler.NewDashboardHandler(dashboardService),
		SettingsHandler:  settingsHandler.NewSettingsHandler(settingsService),
		SystemHandler:    systemHandler.NewSystemHandler(probe),
		AuthMiddleware:   middleware.NewAuthMiddleware(authService),
		States:           states,
	}

	s.engine.Use(
		middleware.Recovery(s.logger),
		middleware.RequestLogger(s.logger),
		middleware.CORS(),
	)
	SetupRouter(s.engine, s.logger, handlers)

	s.http = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	s.logger.Info("server starting",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.String("environment", s.cfg.Environment),
	)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes storage connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var first error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			first = err
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
