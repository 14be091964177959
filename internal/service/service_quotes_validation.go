package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/validators"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// RemoteQuoteValidationService rejects pushed batches that contain blank or
// oversized records before they reach the wrapped service.
type RemoteQuoteValidationService struct {
	inner     RemoteQuoteService
	validator validators.Validator
}

func NewRemoteQuoteValidationService(validator validators.Validator) RemoteQuoteServiceWrapper {
	return &RemoteQuoteValidationService{validator: validator}
}

func (v *RemoteQuoteValidationService) Wrap(inner RemoteQuoteService) RemoteQuoteService {
	return &RemoteQuoteValidationService{inner: inner, validator: v.validator}
}

func (v *RemoteQuoteValidationService) ListQuotes(ctx context.Context) ([]models.RemoteQuote, error) {
	return v.inner.ListQuotes(ctx)
}

func (v *RemoteQuoteValidationService) CreateQuotes(ctx context.Context, records []models.PushRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if err := v.validator.Validate(ctx, records); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRecords, err)
	}

	return v.inner.CreateQuotes(ctx, records)
}
