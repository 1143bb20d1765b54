package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-insights/internal/usecase"
)

type LeadHandler struct {
	PreviewUC   *usecase.PreviewLeadsUseCase
	ScoresUC    *usecase.ScoreSummaryUseCase
	DetailsUC   *usecase.GetLeadDetailsUseCase
	OutreachUC  *usecase.SendOutreachUseCase
	HistoryUC   *usecase.OutreachHistoryUseCase
	Log         logrus.FieldLogger
	rateLimiter *RateLimiter
}

func NewLeadHandler(
	preview *usecase.PreviewLeadsUseCase,
	scores *usecase.ScoreSummaryUseCase,
	details *usecase.GetLeadDetailsUseCase,
	outreach *usecase.SendOutreachUseCase,
	history *usecase.OutreachHistoryUseCase,
	log logrus.FieldLogger,
) *LeadHandler {
	return &LeadHandler{
		PreviewUC:   preview,
		ScoresUC:    scores,
		DetailsUC:   details,
		OutreachUC:  outreach,
		HistoryUC:   history,
		Log:         log,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

// Preview handles GET /leads?q=.
func (h *LeadHandler) Preview(w http.ResponseWriter, r *http.Request) {
	out, err := h.PreviewUC.Execute(usecase.PreviewLeadsInput{Query: r.URL.Query().Get("q")})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Scores handles GET /leads/scores.
func (h *LeadHandler) Scores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ScoresUC.Execute())
}

// Details handles GET /leads/{id}.
func (h *LeadHandler) Details(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	out, found, err := h.DetailsUC.Execute(id)
	if !found {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeLeadNotFound, "lead "+id+" not found")
		return
	}
	if err != nil {
		h.Log.WithError(err).WithField("lead_id", id).Error("lead details failed")
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SendOutreach handles POST /leads/{id}/outreach. An empty body sends the
// stored draft on the lead's preferred channel.
func (h *LeadHandler) SendOutreach(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later")
		return
	}

	var input usecase.SendOutreachInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	out, err := h.OutreachUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, out)
}

// OutreachHistory handles GET /leads/{id}/outreach.
func (h *LeadHandler) OutreachHistory(w http.ResponseWriter, r *http.Request) {
	out, err := h.HistoryUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// getClientIP keys the rate limiter on the peer address. Forwarding headers
// only count when the router runs chi's RealIP behind a trusted proxy, which
// rewrites RemoteAddr before this point.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimiter is a fixed-window counter per client key.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	now := rl.now()

	if !exists {
		rl.visitors[key] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		for key, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}
