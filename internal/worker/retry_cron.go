package worker

// retry_cron.go
// Background goroutine that re-renders pending reports whose next_retry_at
// has passed: failed renders and reports that could not be queued.

import (
	"context"
	"time"

	"koalgroup/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	defaultRetryInterval = 30 * time.Second
	retryBatchSize       = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	Reports  repository.ReportRepository
	Worker   *ReportWorker
	Interval time.Duration
	Now      func() time.Time
}

// StartRetryCron launches the sweeper. It returns when ctx is cancelled.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultRetryInterval
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("retry_cron: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

// processRetries runs one sweep and returns how many reports it attempted.
func processRetries(ctx context.Context, cfg RetryCronConfig) int {
	due, err := cfg.Reports.ListDueRetries(ctx, cfg.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return 0
	}
	if len(due) == 0 {
		return 0
	}
	log.Info().Int("count", len(due)).Msg("retry_cron: retrying reports")

	for i := range due {
		if ctx.Err() != nil {
			return i
		}
		// Render records its own failures on the report.
		_ = cfg.Worker.Render(ctx, due[i].ID)
	}
	return len(due)
}
