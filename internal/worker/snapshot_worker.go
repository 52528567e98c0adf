package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cruzaro/hpcollect/internal/service"
)

// SnapshotWorker periodically rebuilds the published snapshot so the system
// converges even when no write triggers a refresh.
type SnapshotWorker struct {
	refresher service.Refresher
	interval  time.Duration
}

// NewSnapshotWorker constructs a SnapshotWorker.
func NewSnapshotWorker(refresher service.Refresher, interval time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Start begins the periodic refresh loop and listens for context cancellation.
func (w *SnapshotWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting snapshot worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Snapshot worker stopped")
			return
		}
	}
}

func (w *SnapshotWorker) run(ctx context.Context) {
	start := time.Now()
	snap, err := w.refresher.Refresh(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Scheduled snapshot refresh failed")
		return
	}
	log.Info().
		Int64("version", snap.Version).
		Dur("duration", time.Since(start)).
		Msg("Scheduled snapshot refresh completed")
}
