// internal/pkg/availability/probe.go
package availability

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Status of the content backend as last observed by the probe.
type Status int

const (
	StatusUnknown Status = iota
	StatusAvailable
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// State is the probe's last observation.
type State struct {
	Status        Status    `json:"status"`
	LastCheckedAt time.Time `json:"last_checked_at"`
}

// Probe answers "is the backend process reachable" with a single bounded
// canary request. It never polls: checks happen on demand, once per logical
// operation, and concurrent callers share one in-flight request.
type Probe struct {
	client    *http.Client
	canaryURL string
	timeout   time.Duration
	debounce  time.Duration
	logger    *zap.Logger

	group singleflight.Group

	mu    sync.RWMutex
	state State
}

func NewProbe(canaryURL string, timeout, debounce time.Duration, logger *zap.Logger) *Probe {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Probe{
		client:    &http.Client{Timeout: timeout},
		canaryURL: canaryURL,
		timeout:   timeout,
		debounce:  debounce,
		logger:    logger,
	}
}

// Check reports whether the backend is reachable. Observations inside the
// debounce window are reused without a network call; the state only resets
// through Refresh.
func (p *Probe) Check(ctx context.Context) bool {
	p.mu.RLock()
	st := p.state
	p.mu.RUnlock()

	if st.Status != StatusUnknown && time.Since(st.LastCheckedAt) < p.debounce {
		return st.Status == StatusAvailable
	}
	return p.Refresh(ctx)
}

// Refresh issues a canary request regardless of the debounce window.
// Concurrent refreshes are deduplicated: callers arriving while a probe is in
// flight await that probe's result instead of issuing their own request.
func (p *Probe) Refresh(ctx context.Context) bool {
	v, _, _ := p.group.Do("canary", func() (interface{}, error) {
		alive := p.probe(ctx)

		status := StatusUnavailable
		if alive {
			status = StatusAvailable
		}

		p.mu.Lock()
		prev := p.state.Status
		p.state = State{Status: status, LastCheckedAt: time.Now()}
		p.mu.Unlock()

		if prev != status && p.logger != nil {
			p.logger.Info("backend availability changed",
				zap.String("from", prev.String()),
				zap.String("to", status.String()),
			)
		}
		return alive, nil
	})
	return v.(bool)
}

// State returns the last observation.
func (p *Probe) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// probe performs one canary request. Any HTTP response proves the backend
// process is alive: a 4xx means "reachable but rejecting this request",
// which is not the same as unreachable. Only transport errors and timeouts
// count as unavailable.
func (p *Probe) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.canaryURL, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("canary request failed", zap.Error(err))
		}
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return true
}
