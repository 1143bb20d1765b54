package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-insights/internal/infra/http/middleware"
)

type RouterConfig struct {
	Health      *HealthHandler
	DataSources *DataSourceHandler
	Leads       *LeadHandler
	Log         logrus.FieldLogger

	CORSOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool

	ScoreDelay   time.Duration
	DetailsDelay time.Duration
	// Sleep is used by the simulated latency middleware. Nil means a real timer.
	Sleep middleware.SleepFunc
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/data-sources", func(r chi.Router) {
		r.Get("/", cfg.DataSources.List)
		r.Post("/{id}/connect", cfg.DataSources.Connect)
	})

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", cfg.Leads.Preview)
		r.With(middleware.SimulatedLatency(cfg.ScoreDelay, cfg.Sleep)).Get("/scores", cfg.Leads.Scores)
		r.With(middleware.SimulatedLatency(cfg.DetailsDelay, cfg.Sleep)).Get("/{id}", cfg.Leads.Details)
		r.Post("/{id}/outreach", cfg.Leads.SendOutreach)
		r.Get("/{id}/outreach", cfg.Leads.OutreachHistory)
	})

	return r
}
