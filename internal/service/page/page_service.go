// internal/service/page/page_service.go
package page

import (
	"context"
	"strings"

	"texttabs-service/internal/backend"
	domain "texttabs-service/internal/domain/page"
	"texttabs-service/internal/fallback"
	"texttabs-service/internal/normalize"
	"texttabs-service/internal/pkg/resilience"
	"texttabs-service/internal/service/content"

	"go.uber.org/zap"
)

// Service serves user page management: listing, editing and removal of the
// text pages users publish.
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

// List returns the filtered, paged page list.
func (s *Service) List(ctx context.Context, token string, filter domain.ListFilter, state *resilience.SessionState) (*domain.ListResponse, error) {
	raw, fromFallback, err := s.resolver.List(ctx, state,
		func(ctx context.Context) ([]map[string]any, error) {
			return s.backend.ListPages(ctx, token, filter)
		},
		s.demo.Pages,
	)
	if err != nil {
		return nil, err
	}

	pages := make([]domain.Page, 0, len(raw))
	for _, record := range raw {
		p, err := s.adapter.Page(record)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping malformed page record", zap.Error(err))
			}
			continue
		}
		pages = append(pages, p)
	}

	if fromFallback {
		pages = filterPages(pages, filter)
	}

	total := len(pages)
	pages = paginate(pages, filter.Page, filter.Limit)

	return &domain.ListResponse{
		Pages: pages,
		Total: total,
		Page:  pageOrDefault(filter.Page),
		Limit: limitOrDefault(filter.Limit),
	}, nil
}

// Get returns one page with its full content.
func (s *Service) Get(ctx context.Context, token string, id int64, state *resilience.SessionState) (*domain.Page, error) {
	raw, _, err := s.resolver.Object(ctx, state,
		func(ctx context.Context) (map[string]any, error) {
			return s.backend.GetPage(ctx, token, id)
		},
		func() map[string]any {
			for _, record := range s.demo.Pages() {
				if rid, ok := record["id"].(int); ok && int64(rid) == id {
					return record
				}
			}
			return map[string]any{}
		},
	)
	if err != nil {
		return nil, err
	}

	p, err := s.adapter.Page(raw)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create publishes a new page for a user.
func (s *Service) Create(ctx context.Context, token string, req domain.CreateRequest, state *resilience.SessionState) (*domain.Page, error) {
	var created domain.Page
	err := s.resolver.Write(ctx, func(ctx context.Context) error {
		raw, err := s.backend.CreatePage(ctx, token, req)
		if err != nil {
			return err
		}
		created, err = s.adapter.Page(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update modifies a page's title, content or visibility.
func (s *Service) Update(ctx context.Context, token string, id int64, req domain.UpdateRequest, state *resilience.SessionState) (*domain.Page, error) {
	var updated domain.Page
	err := s.resolver.Write(ctx, func(ctx context.Context) error {
		raw, err := s.backend.UpdatePage(ctx, token, id, req)
		if err != nil {
			return err
		}
		updated, err = s.adapter.Page(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a page.
func (s *Service) Delete(ctx context.Context, token string, id int64, state *resilience.SessionState) error {
	return s.resolver.Write(ctx, func(ctx context.Context) error {
		return s.backend.DeletePage(ctx, token, id)
	})
}

func filterPages(pages []domain.Page, filter domain.ListFilter) []domain.Page {
	out := pages[:0]
	search := strings.ToLower(filter.Search)
	for _, p := range pages {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.UserEmail), search) {
			continue
		}
		if filter.UserID != 0 && p.UserID != filter.UserID {
			continue
		}
		out = append(out, p)
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

func paginate(pages []domain.Page, page, limit int) []domain.Page {
	page = pageOrDefault(page)
	limit = limitOrDefault(limit)

	start := (page - 1) * limit
	if start >= len(pages) {
		return []domain.Page{}
	}
	end := start + limit
	if end > len(pages) {
		end = len(pages)
	}
	return pages[start:end]
}
