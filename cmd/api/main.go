package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-insights/internal/catalog"
	"github.com/xavierca1/lead-insights/internal/config"
	"github.com/xavierca1/lead-insights/internal/infra/http/handlers"
	"github.com/xavierca1/lead-insights/internal/infra/logging"
	"github.com/xavierca1/lead-insights/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logging configuration")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Catalog
	cat, err := loadCatalog(cfg.SeedFile)
	if err != nil {
		return err
	}
	store := catalog.NewStore(cat)
	log.WithFields(logrus.Fields{
		"leads":        len(cat.Leads),
		"data_sources": len(cat.DataSources),
	}).Info("catalog loaded")

	// 2. Outreach pipeline (optional)
	pipeline, err := startOutreach(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	// 3. UseCases
	listSourcesUC := usecase.NewListDataSourcesUseCase(store)
	connectSourceUC := usecase.NewConnectDataSourceUseCase(store, log)
	previewUC := usecase.NewPreviewLeadsUseCase(store)
	scoresUC := usecase.NewScoreSummaryUseCase(store)
	detailsUC := usecase.NewGetLeadDetailsUseCase(store)
	outreachUC, historyUC := pipeline.UseCases(store, log)

	// 4. Handlers
	healthHandler := handlers.NewHealthHandler(pipeline.Pinger(), pipeline.Connection(), map[string]bool{
		"smtp":     cfg.MailHost != "",
		"kommo":    cfg.KommoConfigured(),
		"whatsapp": cfg.WhatsAppConfigured(),
	})
	dataSourceHandler := handlers.NewDataSourceHandler(listSourcesUC, connectSourceUC)
	leadHandler := handlers.NewLeadHandler(previewUC, scoresUC, detailsUC, outreachUC, historyUC, log)

	// 5. Router
	router := handlers.NewRouter(handlers.RouterConfig{
		Health:       healthHandler,
		DataSources:  dataSourceHandler,
		Leads:        leadHandler,
		Log:          log,
		CORSOrigins:  cfg.CORSOrigins,
		TrustProxy:   cfg.TrustProxy,
		ScoreDelay:   cfg.ScoreDelay,
		DetailsDelay: cfg.DetailsDelay,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "environment": cfg.Environment}).Info("lead insights api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadCatalog(seedFile string) (catalog.Catalog, error) {
	if seedFile != "" {
		return catalog.LoadFile(seedFile)
	}
	return catalog.Default()
}
