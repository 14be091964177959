package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
)

// NewClientStorage opens the state backend selected by cfg.Driver. The
// SQLite backend is migrated before it is returned.
func NewClientStorage(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (StateStorage, error) {
	logger.Info().Str("driver", cfg.Driver).Str("path", cfg.Path).Msg("opening client storage...")

	switch cfg.Driver {
	case config.DriverFile:
		return NewFileStateStorage(cfg.Path, logger), nil
	case config.DriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}
		if err = db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		return NewSQLiteStateStorage(db, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// ServerStorages groups the repositories of the stand-in remote endpoint.
type ServerStorages struct {
	QuoteRepository QuoteRepository

	db *DB
}

// NewServerStorages connects to PostgreSQL and migrates it when dsn is set,
// otherwise it falls back to an in-memory repository.
func NewServerStorages(ctx context.Context, dsn string, logger *logger.Logger) (*ServerStorages, error) {
	if dsn == "" {
		logger.Info().Msg("no database configured, keeping quotes in memory")
		return &ServerStorages{QuoteRepository: NewMemoryQuoteRepository()}, nil
	}

	db, err := NewConnectPostgres(ctx, dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}
	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ServerStorages{QuoteRepository: NewQuoteRepository(db, logger), db: db}, nil
}

// Close releases the database connection, if any.
func (s *ServerStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
