package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// sqliteStateStorage keeps the state in the quotes, tombstones and
// sync_state tables. Save rewrites all three inside one transaction.
type sqliteStateStorage struct {
	*DB
	logger *logger.Logger
}

// NewSQLiteStateStorage returns a [StateStorage] over an already migrated
// database.
func NewSQLiteStateStorage(db *DB, logger *logger.Logger) StateStorage {
	return &sqliteStateStorage{DB: db, logger: logger}
}

// Load implements [StateStorage].
func (s *sqliteStateStorage) Load(ctx context.Context) (models.PersistedState, error) {
	log := logger.FromContext(ctx)

	quotes, err := s.loadQuotes(ctx)
	if err != nil {
		log.Err(err).Str("func", "sqliteStateStorage.Load").Msg("failed to load quotes")
		return models.PersistedState{}, err
	}

	tombstones, err := s.loadTombstones(ctx)
	if err != nil {
		log.Err(err).Str("func", "sqliteStateStorage.Load").Msg("failed to load tombstones")
		return models.PersistedState{}, err
	}

	var (
		lastSyncedAt int64
		pending      string
	)
	err = s.DB.QueryRowContext(ctx, selectSyncState).Scan(&lastSyncedAt, &pending)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		log.Err(err).Str("func", "sqliteStateStorage.Load").Msg("failed to load sync state")
		return models.PersistedState{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	pendingIDs, err := decodePendingUpload(pending)
	if err != nil {
		return models.PersistedState{}, fmt.Errorf("%w: pending upload: %w", ErrCorruptedState, err)
	}

	return models.PersistedState{
		Quotes:     quotes,
		Tombstones: tombstones,
		SyncState: models.SyncState{
			LastSyncedAt:  lastSyncedAt,
			PendingUpload: pendingIDs,
		},
	}, nil
}

func (s *sqliteStateStorage) loadQuotes(ctx context.Context) ([]models.Quote, error) {
	query, args, err := buildSelectLocalQuotesQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	quotes := make([]models.Quote, 0, 64)
	for rows.Next() {
		var (
			q      models.Quote
			origin string
		)
		if err = rows.Scan(&q.ID, &q.Text, &q.Category, &q.ModifiedAt, &origin); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		q.Origin = models.Origin(origin)
		quotes = append(quotes, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return quotes, nil
}

func (s *sqliteStateStorage) loadTombstones(ctx context.Context) ([]models.Tombstone, error) {
	query, args, err := buildSelectTombstonesQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var tombstones []models.Tombstone
	for rows.Next() {
		var t models.Tombstone
		if err = rows.Scan(&t.ID, &t.Text, &t.Category, &t.RemovedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		tombstones = append(tombstones, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tombstones, nil
}

// Save implements [StateStorage].
func (s *sqliteStateStorage) Save(ctx context.Context, state models.PersistedState) error {
	log := logger.FromContext(ctx)

	quoteInserts, err := buildInsertLocalQuotesQueries(state.Quotes)
	if err != nil {
		return err
	}
	pending, err := encodePendingUpload(state.SyncState.PendingUpload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "sqliteStateStorage.Save").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{deleteAllQuotes, deleteAllTombstones} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			log.Err(err).Str("func", "sqliteStateStorage.Save").Msg("failed to clear table")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	for _, b := range quoteInserts {
		if _, err = b.RunWith(tx).ExecContext(ctx); err != nil {
			log.Err(err).Str("func", "sqliteStateStorage.Save").Msg("failed to insert quotes")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	for _, b := range buildInsertTombstonesQueries(state.Tombstones) {
		if _, err = b.RunWith(tx).ExecContext(ctx); err != nil {
			log.Err(err).Str("func", "sqliteStateStorage.Save").Msg("failed to insert tombstones")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if _, err = tx.ExecContext(ctx, upsertSyncState, state.SyncState.LastSyncedAt, pending); err != nil {
		log.Err(err).Str("func", "sqliteStateStorage.Save").Msg("failed to save sync state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "sqliteStateStorage.Save").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// Close implements [StateStorage].
func (s *sqliteStateStorage) Close() error {
	return s.DB.Close()
}
