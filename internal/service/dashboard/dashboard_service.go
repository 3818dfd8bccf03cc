// internal/service/dashboard/dashboard_service.go
package dashboard

import (
	"context"

	"texttabs-service/internal/backend"
	domain "texttabs-service/internal/domain/dashboard"
	"texttabs-service/internal/fallback"
	"texttabs-service/internal/normalize"
	"texttabs-service/internal/pkg/resilience"
	"texttabs-service/internal/service/content"

	"go.uber.org/zap"
)

// Service serves the dashboard: aggregate counters, the activity chart and
// the recent-activity feed. Read-only.
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

// Stats returns the aggregate counter block.
func (s *Service) Stats(ctx context.Context, token string, state *resilience.SessionState) (*domain.Stats, error) {
	raw, _, err := s.resolver.Object(ctx, state,
		func(ctx context.Context) (map[string]any, error) {
			return s.backend.Stats(ctx, token)
		},
		s.demo.Stats,
	)
	if err != nil {
		return nil, err
	}

	stats, err := s.adapter.Stats(raw)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Chart returns the daily activity series for the requested window.
func (s *Service) Chart(ctx context.Context, token string, days int, state *resilience.SessionState) ([]domain.ChartPoint, error) {
	if days <= 0 {
		days = 30
	}

	raw, _, err := s.resolver.List(ctx, state,
		func(ctx context.Context) ([]map[string]any, error) {
			return s.backend.ChartData(ctx, token, days)
		},
		func() []map[string]any { return s.demo.ChartData(days) },
	)
	if err != nil {
		return nil, err
	}

	series := make([]domain.ChartPoint, 0, len(raw))
	for _, record := range raw {
		point, err := s.adapter.ChartPoint(record)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping malformed chart point", zap.Error(err))
			}
			continue
		}
		series = append(series, point)
	}
	return series, nil
}

// Activity returns the recent-activity feed.
func (s *Service) Activity(ctx context.Context, token string, state *resilience.SessionState) ([]domain.ActivityEntry, error) {
	raw, _, err := s.resolver.List(ctx, state,
		func(ctx context.Context) ([]map[string]any, error) {
			return s.backend.Activity(ctx, token)
		},
		s.demo.Activity,
	)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ActivityEntry, 0, len(raw))
	for _, record := range raw {
		entry, err := s.adapter.Activity(record)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping malformed activity entry", zap.Error(err))
			}
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
