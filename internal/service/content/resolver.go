// internal/service/content/resolver.go
package content

import (
	"context"
	"errors"

	"texttabs-service/internal/fallback"
	"texttabs-service/internal/pkg/availability"
	xerrors "texttabs-service/internal/pkg/errors"
	"texttabs-service/internal/pkg/resilience"
)

// Resolver decides, per operation, whether a content read is served live or
// from fallback data. The decision chain: probe says alive → try the backend;
// a transport failure mid-request flips the probe and falls back anyway. An
// application error from a reachable backend is returned as-is — a live
// backend rejecting a request is not unavailability.
//
// Writes never fall back. Accepting a write against demo data would silently
// drop it.
type Resolver struct {
	probe    *availability.Probe
	fallback *fallback.Provider
}

func NewResolver(probe *availability.Probe, fb *fallback.Provider) *Resolver {
	return &Resolver{probe: probe, fallback: fb}
}

// List resolves a list read. The bool reports whether fallback data was
// served.
func (r *Resolver) List(ctx context.Context, state *resilience.SessionState, live func(context.Context) ([]map[string]any, error), demo func() []map[string]any) ([]map[string]any, bool, error) {
	if r.probe.Check(ctx) {
		raw, err := live(ctx)
		if err == nil {
			return raw, false, nil
		}
		if !errors.Is(err, xerrors.ErrBackendUnavailable) {
			return nil, false, err
		}
		r.probe.Refresh(ctx)
	}

	r.fallback.NotifyUnavailable(state)
	return demo(), true, nil
}

// Object resolves a single-record read.
func (r *Resolver) Object(ctx context.Context, state *resilience.SessionState, live func(context.Context) (map[string]any, error), demo func() map[string]any) (map[string]any, bool, error) {
	if r.probe.Check(ctx) {
		raw, err := live(ctx)
		if err == nil {
			return raw, false, nil
		}
		if !errors.Is(err, xerrors.ErrBackendUnavailable) {
			return nil, false, err
		}
		r.probe.Refresh(ctx)
	}

	r.fallback.NotifyUnavailable(state)
	return demo(), true, nil
}

// Write gates a mutating operation on backend availability.
func (r *Resolver) Write(ctx context.Context, op func(context.Context) error) error {
	if !r.probe.Check(ctx) {
		return xerrors.ErrBackendUnavailable
	}
	err := op(ctx)
	if errors.Is(err, xerrors.ErrBackendUnavailable) {
		r.probe.Refresh(ctx)
	}
	return err
}

// Notify surfaces the demo-data notice for paths that bypass List/Object.
func (r *Resolver) Notify(state *resilience.SessionState) {
	r.fallback.NotifyUnavailable(state)
}
