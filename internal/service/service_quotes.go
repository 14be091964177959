package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/quotes"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/models"
)

type remoteQuoteService struct {
	repository store.QuoteRepository
	ids        quotes.IDGenerator

	logger *logger.Logger
}

// NewRemoteQuoteService serves the collection of the stand-in endpoint from
// repository. Pushed records get identifiers from ids.
func NewRemoteQuoteService(repository store.QuoteRepository, ids quotes.IDGenerator, logger *logger.Logger) RemoteQuoteService {
	return &remoteQuoteService{repository: repository, ids: ids, logger: logger}
}

func (s *remoteQuoteService) ListQuotes(ctx context.Context) ([]models.RemoteQuote, error) {
	list, err := s.repository.ListQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing quotes: %w", err)
	}
	if list == nil {
		list = []models.RemoteQuote{}
	}
	return list, nil
}

func (s *remoteQuoteService) CreateQuotes(ctx context.Context, records []models.PushRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch := make([]models.RemoteQuote, 0, len(records))
	for _, r := range records {
		batch = append(batch, models.RemoteQuote{
			ID:       s.ids.Generate(),
			Text:     quotes.Normalize(r.Text),
			Category: quotes.Normalize(r.Category),
		})
	}

	n, err := s.repository.CreateQuotes(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("error storing pushed quotes: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("func", "remoteQuoteService.CreateQuotes").Int("created", n).Msg("quotes stored")
	return n, nil
}
