// internal/service/settings/settings_service.go
package settings

import (
	"context"

	"texttabs-service/internal/backend"
	domain "texttabs-service/internal/domain/setting"
	"texttabs-service/internal/fallback"
	"texttabs-service/internal/normalize"
	"texttabs-service/internal/pkg/resilience"
	"texttabs-service/internal/service/content"

	"go.uber.org/zap"
)

// Service serves system settings and the admin notification feed.
type Service struct {
	backend  *backend.Client
	resolver *content.Resolver
	demo     *fallback.Provider
	adapter  *normalize.Adapter
	logger   *zap.Logger
}

func NewService(client *backend.Client, resolver *content.Resolver, demo *fallback.Provider, adapter *normalize.Adapter, logger *zap.Logger) *Service {
	return &Service{
		backend:  client,
		resolver: resolver,
		demo:     demo,
		adapter:  adapter,
		logger:   logger,
	}
}

// Get returns the system settings.
func (s *Service) Get(ctx context.Context, token string, state *resilience.SessionState) (*domain.SystemSettings, error) {
	raw, _, err := s.resolver.Object(ctx, state,
		func(ctx context.Context) (map[string]any, error) {
			return s.backend.Settings(ctx, token)
		},
		s.demo.Settings,
	)
	if err != nil {
		return nil, err
	}

	settings, err := s.adapter.Settings(raw)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update writes settings keys. Backend-only.
func (s *Service) Update(ctx context.Context, token string, req domain.UpdateRequest, state *resilience.SessionState) error {
	return s.resolver.Write(ctx, func(ctx context.Context) error {
		return s.backend.UpdateSettings(ctx, token, req.Settings)
	})
}

// Notifications returns the admin notification feed.
func (s *Service) Notifications(ctx context.Context, token string, state *resilience.SessionState) ([]domain.Notification, error) {
	raw, _, err := s.resolver.List(ctx, state,
		func(ctx context.Context) ([]map[string]any, error) {
			return s.backend.Notifications(ctx, token)
		},
		s.demo.Notifications,
	)
	if err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, 0, len(raw))
	for _, record := range raw {
		n, err := s.adapter.Notification(record)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping malformed notification", zap.Error(err))
			}
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// MarkNotificationRead flags one notification as read. Backend-only.
func (s *Service) MarkNotificationRead(ctx context.Context, token string, id int64, state *resilience.SessionState) error {
	return s.resolver.Write(ctx, func(ctx context.Context) error {
		return s.backend.MarkNotificationRead(ctx, token, id)
	})
}
