package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestSimulatedLatencyWaitsBeforeHandler(t *testing.T) {
	var slept time.Duration
	sleep := func(ctx context.Context, d time.Duration) error {
		slept = d
		return nil
	}

	var called bool
	h := SimulatedLatency(2*time.Second, sleep)(okHandler(&called))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leads/scores", nil))

	assert.Equal(t, 2*time.Second, slept)
	assert.True(t, called)
}

func TestSimulatedLatencyZeroDelayPassesThrough(t *testing.T) {
	sleep := func(ctx context.Context, d time.Duration) error {
		t.Fatal("sleep must not be called")
		return nil
	}

	var called bool
	SimulatedLatency(0, sleep)(okHandler(&called)).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestSimulatedLatencyCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called bool
	req := httptest.NewRequest(http.MethodGet, "/leads/1", nil).WithContext(ctx)
	SimulatedLatency(time.Hour, nil)(okHandler(&called)).ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, called)
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogger(log))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, 2, entry.Data["bytes"])
	assert.NotEmpty(t, entry.Data["request_id"])

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	entry = hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, http.StatusBadGateway, entry.Data["status"])
}

func TestRoutePatternUsesChiTemplate(t *testing.T) {
	var pattern string
	r := chi.NewRouter()
	r.Get("/leads/{id}", func(w http.ResponseWriter, req *http.Request) {
		pattern = routePattern(req)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leads/42", nil))
	assert.Equal(t, "/leads/{id}", pattern)
}
