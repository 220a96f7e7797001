package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iyhunko/sheets-storefront/internal/model"
)

// Refresher reloads the catalogue.
type Refresher interface {
	Refresh(ctx context.Context) (*model.Snapshot, error)
}

// RefreshWorker periodically reloads the catalogue from its source.
type RefreshWorker struct {
	refresher Refresher
	interval  time.Duration
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewRefreshWorker creates a new RefreshWorker. A non-positive interval disables it.
func NewRefreshWorker(refresher Refresher, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		refresher: refresher,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start refreshes the catalogue on every tick until stopped.
func (w *RefreshWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		slog.Info("Refresh worker disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Refresh worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Refresh worker stopped by context")
			return
		case <-w.stopChan:
			slog.Info("Refresh worker stopped")
			return
		case <-ticker.C:
			// failures are logged and counted by the refresher
			_, _ = w.refresher.Refresh(ctx)
		}
	}
}

// Stop stops the refresh worker. It is safe to call more than once.
func (w *RefreshWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
}
