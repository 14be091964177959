package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/MKhiriev/go-quote-keeper/models"
)

// memoryQuoteRepository is the in-process [QuoteRepository] used when the
// server runs without a database.
type memoryQuoteRepository struct {
	mu     sync.RWMutex
	quotes []models.RemoteQuote
	ids    map[string]struct{}
	seq    int64
}

// NewMemoryQuoteRepository returns an empty in-memory repository.
func NewMemoryQuoteRepository() QuoteRepository {
	return &memoryQuoteRepository{ids: make(map[string]struct{})}
}

func (m *memoryQuoteRepository) ListQuotes(ctx context.Context) ([]models.RemoteQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.quotes), nil
}

func (m *memoryQuoteRepository) CreateQuotes(ctx context.Context, quotes []models.RemoteQuote) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	batch := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		if q.ID == "" {
			return 0, fmt.Errorf("%w: quote without id", ErrBuildingSQLQuery)
		}
		_, stored := m.ids[q.ID]
		_, repeated := batch[q.ID]
		if stored || repeated {
			return 0, fmt.Errorf("%w: %s", ErrQuoteAlreadyExists, q.ID)
		}
		batch[q.ID] = struct{}{}
	}

	for _, q := range quotes {
		m.seq++
		q.ModifiedAt = m.seq
		m.quotes = append(m.quotes, q)
		m.ids[q.ID] = struct{}{}
	}

	return len(quotes), nil
}
