package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

const createQuotesAttempts = 3

// quoteRepository is the PostgreSQL-backed implementation of
// [QuoteRepository]. The seq column doubles as the logical modification
// time handed out to clients.
type quoteRepository struct {
	*DB
	logger *logger.Logger
}

// NewQuoteRepository constructs a [QuoteRepository] backed by db.
func NewQuoteRepository(db *DB, logger *logger.Logger) QuoteRepository {
	logger.Debug().Msg("creating quote repository")
	return &quoteRepository{DB: db, logger: logger}
}

// ListQuotes implements [QuoteRepository].
func (r *quoteRepository) ListQuotes(ctx context.Context) ([]models.RemoteQuote, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectRemoteQuotesQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "quoteRepository.ListQuotes").Msg("failed to execute query for listing quotes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	quotes := make([]models.RemoteQuote, 0, 64)
	for rows.Next() {
		var q models.RemoteQuote
		if err = rows.Scan(&q.ID, &q.Text, &q.Category, &q.ModifiedAt); err != nil {
			log.Err(err).Str("func", "quoteRepository.ListQuotes").Msg("failed to scan quote row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		quotes = append(quotes, q)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "quoteRepository.ListQuotes").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return quotes, nil
}

// CreateQuotes implements [QuoteRepository]. Transient failures are retried;
// a duplicate identifier fails with [ErrQuoteAlreadyExists].
func (r *quoteRepository) CreateQuotes(ctx context.Context, quotes []models.RemoteQuote) (int, error) {
	log := logger.FromContext(ctx)

	if len(quotes) == 0 {
		return 0, nil
	}

	query, args, err := buildInsertRemoteQuotesQuery(quotes)
	if err != nil {
		return 0, err
	}

	for attempt := 1; ; attempt++ {
		res, execErr := r.DB.ExecContext(ctx, query, args...)
		if execErr == nil {
			affected, err := res.RowsAffected()
			if err != nil {
				return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			return int(affected), nil
		}

		switch r.classify(execErr) {
		case Duplicate:
			return 0, fmt.Errorf("%w: %w", ErrQuoteAlreadyExists, execErr)
		case Retryable:
			if attempt < createQuotesAttempts && ctx.Err() == nil {
				log.Warn().Err(execErr).
					Str("func", "quoteRepository.CreateQuotes").
					Int("attempt", attempt).
					Msg("transient database error, retrying")
				continue
			}
		}

		log.Err(execErr).Str("func", "quoteRepository.CreateQuotes").Msg("failed to insert quotes")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}
}

func (r *quoteRepository) classify(err error) ErrorClassification {
	if r.errorClassificator == nil {
		return NonRetryable
	}
	return r.errorClassificator.Classify(err)
}
