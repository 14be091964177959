package workers

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/server"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: logger}
}

// Add appends a worker. Nil workers are ignored.
func (w *Workers) Add(worker Worker) {
	if worker != nil {
		w.workers = append(w.workers, worker)
	}
}

// Run starts every worker and waits for all of them. The first worker
// error cancels the context passed to the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}

	err := g.Wait()
	if err != nil {
		w.logger.Err(err).Str("func", "*Workers.Run").Msg("worker stopped with error")
	}
	return err
}

// NewSyncWorker runs job on interval for as long as the worker context
// lives.
func NewSyncWorker(job service.SyncJob, interval time.Duration) Worker {
	return WorkerFunc(func(ctx context.Context) error {
		job.Start(ctx, interval)
		<-ctx.Done()
		job.Stop()
		return nil
	})
}

// NewServerWorker serves srv until the worker context is cancelled.
func NewServerWorker(srv server.Server) Worker {
	return WorkerFunc(srv.RunServer)
}
