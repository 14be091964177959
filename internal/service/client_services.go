package service

import (
	"fmt"
	"math/rand/v2"

	"github.com/MKhiriev/go-quote-keeper/internal/adapter"
	"github.com/MKhiriev/go-quote-keeper/internal/codec"
	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/quotes"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/internal/validators"
)

// ClientServices groups the client use cases around one quote store.
type ClientServices struct {
	Store        *quotes.Store
	Persister    *Persister
	QuoteService QuoteService
	SyncService  SyncService
	SyncJob      SyncJob
}

// NewClientServices wires the client services. notifier receives sync
// events and may be nil.
func NewClientServices(cfg *config.ClientConfig, storage store.StateStorage, remote adapter.RemoteAdapter, notifier Notifier, logger *logger.Logger) (*ClientServices, error) {
	ids := utils.NewUUIDGenerator()
	validator := validators.NewQuoteValidator()

	quoteStore := quotes.NewStore(quotes.NewClock(), ids)
	persister := NewPersister(quoteStore, storage, logger)

	decoder, err := codec.NewDecoder(cfg.Adapter.Scheme, cfg.Adapter.PostsLimit, validator)
	if err != nil {
		return nil, fmt.Errorf("error creating record decoder: %w", err)
	}

	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	} else {
		notifier = MultiNotifier{LogNotifier{Logger: logger}, notifier}
	}

	syncSvc, err := NewClientSyncService(SyncDependencies{
		Quotes:    quoteStore,
		Persister: persister,
		Adapter:   remote,
		Decoder:   decoder,
		IDs:       ids,
		Notifier:  notifier,
	}, cfg.Workers.SyncDeadline, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating sync service: %w", err)
	}

	rnd := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	return &ClientServices{
		Store:        quoteStore,
		Persister:    persister,
		QuoteService: NewClientQuoteService(quoteStore, persister, validator, rnd, logger),
		SyncService:  syncSvc,
		SyncJob:      NewClientSyncJob(syncSvc, logger),
	}, nil
}
