package service

import (
	"context"
	"io"
	"iter"
	"time"

	"github.com/MKhiriev/go-quote-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// QuoteService is the use-case layer consumed by the CLI and the TUI. Every
// successful mutation is persisted before the call returns; when the save
// fails the in-memory change stays and a *models.PersistenceError is
// returned next to the result.
type QuoteService interface {
	// Add creates a local quote. Fails with *models.ValidationError on empty
	// text or category.
	Add(ctx context.Context, text, category string) (models.Quote, error)

	// Update edits an existing quote. Fails with *models.NotFoundError when
	// id is unknown.
	Update(ctx context.Context, id, text, category string) (models.Quote, error)

	// Remove deletes a quote. Fails with *models.NotFoundError when id is
	// unknown.
	Remove(ctx context.Context, id string) error

	// List returns a lazy sequence of quotes of category, or of every quote
	// for [models.CategoryAll].
	List(ctx context.Context, category string) iter.Seq[models.Quote]

	// Categories returns the distinct categories, sorted.
	Categories(ctx context.Context) []string

	// Random draws a quote from category. Fails with [ErrNoQuotes] when the
	// category is empty.
	Random(ctx context.Context, category string) (models.Quote, error)

	// Export writes the quotes of category to w as an indented JSON array.
	Export(ctx context.Context, w io.Writer, category string) error

	// Import reads a JSON array of quotes from r and adds the ones that are
	// valid and not yet present, by id or by content.
	Import(ctx context.Context, r io.Reader) (models.ImportResult, error)

	// SeedDefaults adds the starter quotes when the collection has never
	// been saved. It returns the number of quotes added.
	SeedDefaults(ctx context.Context) (int, error)
}

// SyncService reconciles the local store with the remote snapshot.
type SyncService interface {
	// RunOnce executes one sync cycle. It returns [models.ErrSyncInProgress]
	// when another cycle is in flight. A fetch failure or a malformed
	// payload fails the cycle without touching local state; persistence and
	// upload failures are reported in the returned report.
	RunOnce(ctx context.Context) (models.SyncReport, error)

	// Status returns a snapshot of the engine state.
	Status() models.SyncStatus
}

// SyncJob runs sync cycles on a schedule.
type SyncJob interface {
	// Start launches the background loop. A cycle runs immediately and then
	// on every tick. Any previously running loop is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the loop to exit and blocks until it has terminated.
	Stop()
}

// Notifier receives every phase transition of the sync engine. Notify is
// called synchronously from the cycle and must not block.
type Notifier interface {
	Notify(event models.SyncEvent)
}
