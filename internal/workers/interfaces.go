// Package workers runs the long-lived background activities of the client
// process (scheduled sync, metrics listener) as one unit: they start
// together and the first failure stops the rest.
package workers

import "context"

// Worker is a background activity. Run blocks until ctx is cancelled or the
// worker fails.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
