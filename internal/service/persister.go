package service

import (
	"context"
	"slices"
	"sync"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/quotes"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// Persister is the single path between the quote store and the state
// storage. It owns the persisted sync bookkeeping and serialises saves so
// that two writers never interleave.
type Persister struct {
	quotes  *quotes.Store
	storage store.StateStorage

	mu        sync.Mutex
	syncState models.SyncState

	logger *logger.Logger
}

// NewPersister binds a store to a storage backend.
func NewPersister(quotes *quotes.Store, storage store.StateStorage, logger *logger.Logger) *Persister {
	return &Persister{quotes: quotes, storage: storage, logger: logger}
}

// Load restores the store and the sync state from the backend. fresh is true
// when nothing has ever been saved.
func (p *Persister) Load(ctx context.Context) (fresh bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, err := p.storage.Load(ctx)
	if err != nil {
		p.logger.Err(err).Str("func", "Persister.Load").Msg("failed to load state")
		return false, &models.PersistenceError{Op: "load", Err: err}
	}

	p.quotes.Restore(state.Quotes, state.Tombstones)
	// lastSyncedAt may be ahead of every restored timestamp when the last
	// cycle observed a newer remote record.
	p.quotes.Clock().Observe(state.SyncState.LastSyncedAt)
	p.syncState = models.SyncState{
		LastSyncedAt:  state.SyncState.LastSyncedAt,
		PendingUpload: slices.Clone(state.SyncState.PendingUpload),
	}

	fresh = len(state.Quotes) == 0 && len(state.Tombstones) == 0 && state.SyncState.LastSyncedAt == 0
	p.logger.Debug().
		Str("func", "Persister.Load").
		Int("quotes", len(state.Quotes)).
		Int64("last_synced_at", state.SyncState.LastSyncedAt).
		Bool("fresh", fresh).
		Msg("state loaded")

	return fresh, nil
}

// Save writes the current store content and sync state.
func (p *Persister) Save(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.quotes.MarkClean()
	snap := p.quotes.Snapshot()

	err := p.storage.Save(ctx, models.PersistedState{
		Quotes:     snap.Quotes,
		Tombstones: snap.Tombstones,
		SyncState: models.SyncState{
			LastSyncedAt:  p.syncState.LastSyncedAt,
			PendingUpload: slices.Clone(p.syncState.PendingUpload),
		},
	})
	if err != nil {
		p.quotes.MarkDirty()
		p.logger.Err(err).Str("func", "Persister.Save").Msg("failed to save state")
		return &models.PersistenceError{Op: "save", Err: err}
	}

	return nil
}

// SyncState returns a copy of the sync bookkeeping.
func (p *Persister) SyncState() models.SyncState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return models.SyncState{
		LastSyncedAt:  p.syncState.LastSyncedAt,
		PendingUpload: slices.Clone(p.syncState.PendingUpload),
	}
}

// SetSyncState replaces the sync bookkeeping. It is persisted by the next
// Save.
func (p *Persister) SetSyncState(state models.SyncState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.syncState = models.SyncState{
		LastSyncedAt:  state.LastSyncedAt,
		PendingUpload: slices.Clone(state.PendingUpload),
	}
}

// Close releases the storage backend.
func (p *Persister) Close() error {
	return p.storage.Close()
}
