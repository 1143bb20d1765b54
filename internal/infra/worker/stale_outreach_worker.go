package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type StaleOutreachRepository interface {
	FailStale(ctx context.Context, olderThanSeconds int) ([]string, error)
}

// StaleOutreachWorker fails outreach that stayed queued past the window,
// e.g. because the broker dropped it.
type StaleOutreachWorker struct {
	repo         StaleOutreachRepository
	staleAfter   time.Duration
	tickInterval time.Duration
	log          logrus.FieldLogger
}

func NewStaleOutreachWorker(repo StaleOutreachRepository, staleAfter time.Duration, log logrus.FieldLogger) *StaleOutreachWorker {
	return &StaleOutreachWorker{
		repo:         repo,
		staleAfter:   staleAfter,
		tickInterval: time.Minute,
		log:          log,
	}
}

func (w *StaleOutreachWorker) Start(ctx context.Context) {
	w.log.WithField("stale_after", w.staleAfter.String()).Info("stale outreach worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.failStale(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("stale outreach worker stopped")
			return
		case <-ticker.C:
			w.failStale(ctx)
		}
	}
}

func (w *StaleOutreachWorker) failStale(ctx context.Context) int {
	ids, err := w.repo.FailStale(ctx, int(w.staleAfter.Seconds()))
	if err != nil {
		w.log.WithError(err).Error("could not fail stale outreach")
		return 0
	}

	for _, id := range ids {
		w.log.WithField("outreach_id", id).Warn("outreach expired while queued")
	}
	if len(ids) > 0 {
		w.log.WithField("count", len(ids)).Info("stale outreach marked FAILED")
	}
	return len(ids)
}
