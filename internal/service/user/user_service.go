// internal/service/user/user_service.go
package user

import (
	"context"
	"strings"

	"texttabs-service/internal/backend"
	domain "texttabs-service/internal/domain/user"
	"texttabs-service/internal/fallback"
	"texttabs-service/internal/normalize"
	"texttabs-service/internal/pkg/resilience"
	"texttabs-service/internal/service/content"

	"go.uber.org/zap"
)

// Service serves the console's user management operations: live from the
// content backend when it answers, from demo data when it does not.
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

// List returns the filtered, paged user list.
func (s *Service) List(ctx context.Context, token string, filter domain.ListFilter, state *resilience.SessionState) (*domain.ListResponse, error) {
	raw, fromFallback, err := s.resolver.List(ctx, state,
		func(ctx context.Context) ([]map[string]any, error) {
			return s.backend.ListUsers(ctx, token, filter)
		},
		s.demo.Users,
	)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(raw))
	for _, record := range raw {
		u, err := s.adapter.User(record)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping malformed user record", zap.Error(err))
			}
			continue
		}
		users = append(users, u)
	}

	// The backend filters server-side; demo data is filtered here so both
	// paths honor the same query.
	if fromFallback {
		users = filterUsers(users, filter)
	}

	total := len(users)
	users = paginate(users, filter.Page, filter.Limit)

	return &domain.ListResponse{
		Users: users,
		Total: total,
		Page:  pageOrDefault(filter.Page),
		Limit: limitOrDefault(filter.Limit),
	}, nil
}

// Create provisions a user. Backend-only: writes are rejected while the
// backend is down.
func (s *Service) Create(ctx context.Context, token string, req domain.CreateRequest, state *resilience.SessionState) (*domain.User, error) {
	var created domain.User
	err := s.resolver.Write(ctx, func(ctx context.Context) error {
		raw, err := s.backend.CreateUser(ctx, token, req)
		if err != nil {
			return err
		}
		created, err = s.adapter.User(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update modifies a user's email, role or status.
func (s *Service) Update(ctx context.Context, token string, id int64, req domain.UpdateRequest, state *resilience.SessionState) (*domain.User, error) {
	var updated domain.User
	err := s.resolver.Write(ctx, func(ctx context.Context) error {
		raw, err := s.backend.UpdateUser(ctx, token, id, req)
		if err != nil {
			return err
		}
		updated, err = s.adapter.User(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, token string, id int64, state *resilience.SessionState) error {
	return s.resolver.Write(ctx, func(ctx context.Context) error {
		return s.backend.DeleteUser(ctx, token, id)
	})
}

func filterUsers(users []domain.User, filter domain.ListFilter) []domain.User {
	out := users[:0]
	search := strings.ToLower(filter.Search)
	for _, u := range users {
		if search != "" && !strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out
}

func pageOrDefault(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func limitOrDefault(limit int) int {
	if limit < 1 || limit > 100 {
		return 20
	}
	return limit
}

func paginate(users []domain.User, page, limit int) []domain.User {
	page = pageOrDefault(page)
	limit = limitOrDefault(limit)

	start := (page - 1) * limit
	if start >= len(users) {
		return []domain.User{}
	}
	end := start + limit
	if end > len(users) {
		end = len(users)
	}
	return users[start:end]
}
