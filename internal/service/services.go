package service

import (
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/internal/validators"
)

// Services groups the business logic of the stand-in server.
type Services struct {
	RemoteQuoteService RemoteQuoteService
	AppInfoService     AppInfoService
}

func NewServices(storages *store.ServerStorages, cfg config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(config.App{Version: cfg.Version}, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	quoteService := NewRemoteQuoteValidationService(validators.NewQuoteValidator()).
		Wrap(NewRemoteQuoteService(storages.QuoteRepository, utils.NewUUIDGenerator(), logger))

	return &Services{
		RemoteQuoteService: quoteService,
		AppInfoService:     appInfo,
	}, nil
}
