package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"fieldsync/internal/domain/submission"
	"fieldsync/internal/utils/retry"
)

// SyncConfig tunes the batch orchestrator.
type SyncConfig struct {
	Interval   time.Duration `json:"interval"`
	FanOut     int           `json:"fan_out"`
	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`
}

// SyncError is one failed record in a pass.
type SyncError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// SyncSummary aggregates one full pass. It is reported to the caller and
// never persisted.
type SyncSummary struct {
	Success   int           `json:"success"`
	Failed    int           `json:"failed"`
	Errors    []SyncError   `json:"errors,omitempty"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// SyncService drains the local queue against the remote store: one pass
// reads everything pending, commits each record through the submitter
// (retrying transients), and deletes confirmed records. The service holds
// no per-record retry schedule between passes; a failed record simply
// becomes eligible again on the next trigger.
type SyncService struct {
	queue     Queue
	submitter Submitter
	log       *slog.Logger
	config    SyncConfig

	mu          sync.RWMutex
	isSyncing   bool
	lastSync    time.Time
	lastSummary *SyncSummary
}

func NewSyncService(queue Queue, submitter Submitter, config SyncConfig, log *slog.Logger) *SyncService {
	if config.FanOut <= 0 {
		config.FanOut = 4
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if config.Interval <= 0 {
		config.Interval = 30 * time.Second
	}

	return &SyncService{
		queue:     queue,
		submitter: submitter,
		log:       log.With("component", "sync_service"),
		config:    config,
	}
}

// RunSyncPass performs one reconciliation pass. Per-record failures are
// aggregated in the summary, never raised; only a failure to read the
// queue itself aborts the pass. Concurrent invocations are serialized:
// the second caller gets ErrSyncInProgress and can rely on the running
// pass to drain the same queue.
func (s *SyncService) RunSyncPass(ctx context.Context) (*SyncSummary, error) {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	summary := &SyncSummary{StartTime: time.Now()}

	pending, err := s.queue.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	s.log.Info("sync pass started", "pending", len(pending))

	var resMu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(s.config.FanOut)

	for i := range pending {
		sub := pending[i]

		// Guard against stale entries; the queue should only ever hold
		// unsynced records.
		if sub.Synced {
			continue
		}

		g.Go(func() error {
			outcome := s.submitWithRetry(ctx, &sub)

			resMu.Lock()
			defer resMu.Unlock()

			switch outcome.Kind {
			case submission.OutcomeCommitted, submission.OutcomeAlreadyCommitted:
				if err := s.queue.Remove(ctx, sub.ID); err != nil {
					// The record stays queued; the next pass re-submits and
					// the server answers AlreadyCommitted.
					s.log.Warn("failed to remove committed submission",
						"id", sub.ID, "error", err)
				}
				summary.Success++

			case submission.OutcomeRejected:
				// Permanently invalid: drop it and surface the reason.
				if err := s.queue.Remove(ctx, sub.ID); err != nil {
					s.log.Warn("failed to remove rejected submission",
						"id", sub.ID, "error", err)
				}
				summary.Failed++
				summary.Errors = append(summary.Errors, SyncError{ID: sub.ID, Error: outcome.Reason})
				s.log.Warn("submission rejected", "id", sub.ID, "reason", outcome.Reason)

			case submission.OutcomeTransient:
				// Retries exhausted. Leave it queued for the next trigger.
				summary.Failed++
				summary.Errors = append(summary.Errors, SyncError{ID: sub.ID, Error: outcome.Reason})
				s.log.Debug("submission deferred", "id", sub.ID, "reason", outcome.Reason)
			}

			return nil
		})
	}

	// Workers never return errors; failures are aggregated above.
	_ = g.Wait()

	summary.Duration = time.Since(summary.StartTime)

	s.mu.Lock()
	s.lastSync = time.Now()
	s.lastSummary = summary
	s.mu.Unlock()

	s.log.Info("sync pass finished",
		"success", summary.Success,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)

	return summary, nil
}

// submitWithRetry wraps a single record's commit in the backoff executor.
// Only transients are retried; every terminal outcome exits immediately.
func (s *SyncService) submitWithRetry(ctx context.Context, sub *submission.Pending) submission.Outcome {
	// Seeded transient: if the executor bails before the submitter ever
	// runs (context already canceled), the record must read as not
	// delivered, never as committed.
	outcome := submission.Transient("not attempted")
	attempted := false

	err := retry.Do(ctx, s.config.MaxRetries, s.config.RetryDelay, func(ctx context.Context) error {
		attempted = true
		outcome = s.submitter.Submit(ctx, sub)
		if outcome.Terminal() {
			return nil
		}
		return errors.New(outcome.Reason)
	})

	if err != nil && !attempted {
		// Cancellation before the first attempt; carry the cause.
		outcome = submission.Transient(err.Error())
	}

	return outcome
}

// StartAutoSync runs periodic passes until the context is canceled.
func (s *SyncService) StartAutoSync(ctx context.Context) {
	s.log.Info("auto sync started", "interval", s.config.Interval)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("auto sync stopped")
			return
		case <-ticker.C:
			if _, err := s.RunSyncPass(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
				s.log.Error("periodic sync failed", "error", err)
			}
		}
	}
}

// IsSyncing reports whether a pass is currently running.
func (s *SyncService) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// LastSync returns the completion time of the most recent pass.
func (s *SyncService) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// LastSummary returns a copy of the most recent pass summary, or nil if
// no pass has run yet.
func (s *SyncService) LastSummary() *SyncSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastSummary == nil {
		return nil
	}
	copied := *s.lastSummary
	return &copied
}
