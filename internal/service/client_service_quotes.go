package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"math/rand/v2"
	"sync"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/quotes"
	"github.com/MKhiriev/go-quote-keeper/internal/validators"
	"github.com/MKhiriev/go-quote-keeper/models"
)

var defaultQuotes = []models.ImportRecord{
	{Text: "Stay hungry, stay foolish.", Category: "Motivation"},
	{Text: "Life is what happens when you're busy making other plans.", Category: "Life"},
	{Text: "Simplicity is the ultimate sophistication.", Category: "Design"},
	{Text: "Be yourself; everyone else is already taken.", Category: "Inspiration"},
}

type clientQuoteService struct {
	quotes    *quotes.Store
	persister *Persister
	validator validators.Validator

	rndMu sync.Mutex
	rnd   *rand.Rand

	logger *logger.Logger
}

// NewClientQuoteService builds the quote use cases over a store. rnd may be
// nil, in which case the global source is used.
func NewClientQuoteService(store *quotes.Store, persister *Persister, validator validators.Validator, rnd *rand.Rand, logger *logger.Logger) QuoteService {
	return &clientQuoteService{
		quotes:    store,
		persister: persister,
		validator: validator,
		rnd:       rnd,
		logger:    logger,
	}
}

func (s *clientQuoteService) Add(ctx context.Context, text, category string) (models.Quote, error) {
	q, err := s.quotes.Add(text, category)
	if err != nil {
		return models.Quote{}, err
	}
	s.logger.Debug().Str("func", "clientQuoteService.Add").Str("id", q.ID).Str("category", q.Category).Msg("quote added")

	return q, s.persister.Save(ctx)
}

func (s *clientQuoteService) Update(ctx context.Context, id, text, category string) (models.Quote, error) {
	q, err := s.quotes.Update(id, text, category)
	if err != nil {
		return models.Quote{}, err
	}
	s.logger.Debug().Str("func", "clientQuoteService.Update").Str("id", q.ID).Msg("quote updated")

	return q, s.persister.Save(ctx)
}

func (s *clientQuoteService) Remove(ctx context.Context, id string) error {
	if err := s.quotes.Remove(id); err != nil {
		return err
	}
	s.logger.Debug().Str("func", "clientQuoteService.Remove").Str("id", id).Msg("quote removed")

	return s.persister.Save(ctx)
}

func (s *clientQuoteService) List(_ context.Context, category string) iter.Seq[models.Quote] {
	return s.quotes.AllByCategory(category)
}

func (s *clientQuoteService) Categories(_ context.Context) []string {
	return s.quotes.Categories()
}

func (s *clientQuoteService) Random(_ context.Context, category string) (models.Quote, error) {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()

	q, ok := s.quotes.Random(category, s.rnd)
	if !ok {
		return models.Quote{}, fmt.Errorf("%w: %q", ErrNoQuotes, category)
	}
	return q, nil
}

func (s *clientQuoteService) Export(_ context.Context, w io.Writer, category string) error {
	records := make([]models.ImportRecord, 0)
	for q := range s.quotes.AllByCategory(category) {
		records = append(records, models.ImportRecord{ID: q.ID, Text: q.Text, Category: q.Category})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("error encoding quotes: %w", err)
	}
	return nil
}

func (s *clientQuoteService) Import(ctx context.Context, r io.Reader) (models.ImportResult, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return models.ImportResult{}, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	seenIDs := make(map[string]struct{})
	seenKeys := make(map[models.ContentKey]struct{})
	for q := range s.quotes.AllByCategory(models.CategoryAll) {
		seenIDs[q.ID] = struct{}{}
		seenKeys[q.ContentKey()] = struct{}{}
	}

	var result models.ImportResult
	for i, item := range raw {
		var rec models.ImportRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			s.logger.Warn().Err(err).Str("func", "clientQuoteService.Import").Int("index", i).Msg("skipping undecodable record")
			result.Invalid++
			continue
		}
		rec.Text, rec.Category = quotes.Normalize(rec.Text), quotes.Normalize(rec.Category)
		if err := s.validator.Validate(ctx, rec); err != nil {
			s.logger.Warn().Err(err).Str("func", "clientQuoteService.Import").Int("index", i).Msg("skipping invalid record")
			result.Invalid++
			continue
		}

		key := models.ContentKey{Text: rec.Text, Category: rec.Category}
		_, dupID := seenIDs[rec.ID]
		_, dupKey := seenKeys[key]
		if (rec.ID != "" && dupID) || dupKey {
			result.Duplicates++
			continue
		}

		q, err := s.quotes.Add(rec.Text, rec.Category)
		if err != nil {
			result.Invalid++
			continue
		}
		if rec.ID != "" {
			seenIDs[rec.ID] = struct{}{}
		}
		seenIDs[q.ID] = struct{}{}
		seenKeys[key] = struct{}{}
		result.Added++
	}

	s.logger.Info().
		Str("func", "clientQuoteService.Import").
		Int("added", result.Added).
		Int("duplicates", result.Duplicates).
		Int("invalid", result.Invalid).
		Msg("import finished")

	if result.Added == 0 {
		return result, nil
	}
	return result, s.persister.Save(ctx)
}

func (s *clientQuoteService) SeedDefaults(ctx context.Context) (int, error) {
	if s.quotes.Len() > 0 {
		return 0, nil
	}

	var errs []error
	added := 0
	for _, rec := range defaultQuotes {
		if _, err := s.quotes.Add(rec.Text, rec.Category); err != nil {
			errs = append(errs, err)
			continue
		}
		added++
	}
	if err := errors.Join(errs...); err != nil {
		return added, err
	}

	return added, s.persister.Save(ctx)
}
