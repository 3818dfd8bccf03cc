package availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe_StatusCodes(t *testing.T) {
	// Any HTTP response means the backend process is alive, including the
	// backend rejecting the ping with a 4xx or failing with a 5xx.
	for _, code := range []int{200, 400, 404, 500} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		p := NewProbe(srv.URL, time.Second, 0, nil)
		assert.True(t, p.Check(context.Background()), "status %d should mean alive", code)
		assert.Equal(t, StatusAvailable, p.State().Status)
		srv.Close()
	}
}

func TestProbe_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := NewProbe(srv.URL, time.Second, 0, nil)
	assert.False(t, p.Check(context.Background()))
	assert.Equal(t, StatusUnavailable, p.State().Status)
}

func TestProbe_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewProbe(srv.URL, 50*time.Millisecond, 0, nil)
	assert.False(t, p.Check(context.Background()))
}

func TestProbe_InitialStateUnknown(t *testing.T) {
	p := NewProbe("http://127.0.0.1:0", time.Second, 0, nil)
	assert.Equal(t, StatusUnknown, p.State().Status)
	assert.True(t, p.State().LastCheckedAt.IsZero())
}

func TestProbe_StateTransitions(t *testing.T) {
	var down atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			// Hijack and drop the connection to simulate a dead process.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProbe(srv.URL, time.Second, 0, nil)

	assert.True(t, p.Refresh(context.Background()))
	assert.Equal(t, StatusAvailable, p.State().Status)

	down.Store(true)
	assert.False(t, p.Refresh(context.Background()))
	assert.Equal(t, StatusUnavailable, p.State().Status)

	down.Store(false)
	assert.True(t, p.Refresh(context.Background()))
	assert.Equal(t, StatusAvailable, p.State().Status)
}

func TestProbe_ConcurrentChecksShareOneRequest(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProbe(srv.URL, 5*time.Second, 0, nil)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Refresh(context.Background())
		}(i)
	}

	// Let every goroutine reach the in-flight guard before the canary
	// responds.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for _, ok := range results {
		assert.True(t, ok)
	}
}

func TestProbe_DebounceReusesObservation(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProbe(srv.URL, time.Second, time.Minute, nil)

	for i := 0; i < 5; i++ {
		assert.True(t, p.Check(context.Background()))
	}
	assert.Equal(t, int64(1), calls.Load())

	// An explicit re-probe bypasses the window.
	p.Refresh(context.Background())
	assert.Equal(t, int64(2), calls.Load())
}
