// internal/service/content/resolver_test.go
package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"texttabs-service/internal/fallback"
	"texttabs-service/internal/pkg/availability"
	xerrors "texttabs-service/internal/pkg/errors"
	"texttabs-service/internal/pkg/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func aliveBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func newResolver(canaryURL string) (*Resolver, *fallback.Provider) {
	probe := availability.NewProbe(canaryURL, time.Second, 0, zap.NewNop())
	demo := fallback.NewProvider(zap.NewNop())
	return NewResolver(probe, demo), demo
}

func TestListServesLiveWhenBackendAnswers(t *testing.T) {
	srv := aliveBackend(t)
	defer srv.Close()

	r, _ := newResolver(srv.URL)
	state := &resilience.SessionState{}

	liveData := []map[string]any{{"id": 1}}
	raw, fromFallback, err := r.List(context.Background(), state,
		func(context.Context) ([]map[string]any, error) { return liveData, nil },
		func() []map[string]any { t.Fatal("fallback must not be consulted"); return nil },
	)
	require.NoError(t, err)
	assert.False(t, fromFallback)
	assert.Equal(t, liveData, raw)
	assert.False(t, state.Notified())
}

func TestListFallsBackWhenBackendIsDown(t *testing.T) {
	srv := aliveBackend(t)
	srv.Close()

	r, demo := newResolver(srv.URL)
	state := &resilience.SessionState{}

	raw, fromFallback, err := r.List(context.Background(), state,
		func(context.Context) ([]map[string]any, error) {
			t.Fatal("live path must not be attempted")
			return nil, nil
		},
		demo.Users,
	)
	require.NoError(t, err)
	assert.True(t, fromFallback)
	assert.NotEmpty(t, raw)
	assert.True(t, state.Notified())
}

func TestListPropagatesApplicationErrors(t *testing.T) {
	srv := aliveBackend(t)
	defer srv.Close()

	r, demo := newResolver(srv.URL)
	state := &resilience.SessionState{}

	appErr := errors.New("email already exists")
	_, _, err := r.List(context.Background(), state,
		func(context.Context) ([]map[string]any, error) { return nil, appErr },
		demo.Users,
	)
	assert.ErrorIs(t, err, appErr)
	// A live backend rejecting a request is not unavailability.
	assert.False(t, state.Notified())
}

func TestListFallsBackOnMidRequestTransportFailure(t *testing.T) {
	srv := aliveBackend(t)
	defer srv.Close()

	r, demo := newResolver(srv.URL)
	state := &resilience.SessionState{}

	raw, fromFallback, err := r.List(context.Background(), state,
		func(context.Context) ([]map[string]any, error) {
			return nil, fmt.Errorf("%w: connection reset", xerrors.ErrBackendUnavailable)
		},
		demo.Users,
	)
	require.NoError(t, err)
	assert.True(t, fromFallback)
	assert.NotEmpty(t, raw)
	assert.True(t, state.Notified())
}

func TestWriteRejectedWhileBackendIsDown(t *testing.T) {
	srv := aliveBackend(t)
	srv.Close()

	r, _ := newResolver(srv.URL)

	err := r.Write(context.Background(), func(context.Context) error {
		t.Fatal("write must not reach the backend")
		return nil
	})
	assert.ErrorIs(t, err, xerrors.ErrBackendUnavailable)
}

func TestWritePassesThroughWhenAlive(t *testing.T) {
	srv := aliveBackend(t)
	defer srv.Close()

	r, _ := newResolver(srv.URL)

	var called bool
	err := r.Write(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestNoticeFiresOnceAcrossMixedReads(t *testing.T) {
	srv := aliveBackend(t)
	srv.Close()

	r, demo := newResolver(srv.URL)
	state := &resilience.SessionState{}

	for i := 0; i < 5; i++ {
		_, _, err := r.Object(context.Background(), state,
			func(context.Context) (map[string]any, error) { return nil, nil },
			demo.Stats,
		)
		require.NoError(t, err)
	}
	assert.True(t, state.Notified())

	// A fresh session (new login) is eligible for the notice again.
	fresh := &resilience.SessionState{}
	_, _, err := r.Object(context.Background(), fresh,
		func(context.Context) (map[string]any, error) { return nil, nil },
		demo.Stats,
	)
	require.NoError(t, err)
	assert.True(t, fresh.Notified())
}
