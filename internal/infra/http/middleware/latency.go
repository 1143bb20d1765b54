package middleware

import (
	"context"
	"net/http"
	"time"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SimulatedLatency delays the wrapped handler by d so the dashboard can show
// its loading state. A zero delay passes requests straight through. When the
// client goes away during the wait the handler is not called.
func SimulatedLatency(d time.Duration, sleep SleepFunc) func(http.Handler) http.Handler {
	if sleep == nil {
		sleep = Sleep
	}
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sleep(r.Context(), d); err != nil {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
