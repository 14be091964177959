package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// DefaultSyncInterval is used when Start receives a non-positive interval.
const DefaultSyncInterval = 30 * time.Second

type clientSyncJob struct {
	syncService SyncService

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewClientSyncJob creates a clientSyncJob that calls syncService.RunOnce on a
// ticker. The job is idle until Start is called.
func NewClientSyncJob(syncService SyncService, logger *logger.Logger) SyncJob {
	return &clientSyncJob{syncService: syncService, logger: logger}
}

// Start implements SyncJob. It stops any previously running job, then
// launches a background goroutine that runs a cycle immediately and then
// every interval. A tick that finds a cycle still in flight is skipped.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		j.tick(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.tick(jobCtx)
			}
		}
	}()
}

// Stop implements SyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is
// not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *clientSyncJob) tick(ctx context.Context) {
	_, err := j.syncService.RunOnce(ctx)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrSyncInProgress):
		j.logger.Debug().Str("func", "clientSyncJob.tick").Msg("previous cycle still running, tick skipped")
	case ctx.Err() != nil:
	default:
		j.logger.Warn().Err(err).Str("func", "clientSyncJob.tick").Msg("scheduled sync failed")
	}
}
