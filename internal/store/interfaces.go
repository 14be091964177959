// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the persistence backends.
//
// The client persists its whole state (quotes, tombstones and sync
// bookkeeping) through a [StateStorage]: either a JSON document written
// atomically to disk or a SQLite database managed by goose migrations. The
// stand-in remote endpoint keeps its collection behind a [QuoteRepository]
// backed by PostgreSQL or, when no DSN is configured, by memory.
package store

import (
	"context"

	"github.com/MKhiriev/go-quote-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// StateStorage loads and saves the complete client state.
type StateStorage interface {
	// Load returns the saved state. A backend that has never been written
	// returns an empty state and no error.
	Load(ctx context.Context) (models.PersistedState, error)
	// Save replaces the saved state. A failed Save leaves the previous state
	// readable.
	Save(ctx context.Context, state models.PersistedState) error
	// Close releases the backend.
	Close() error
}

// QuoteRepository is the collection served by the stand-in remote endpoint.
type QuoteRepository interface {
	// ListQuotes returns every quote in insertion order. ModifiedAt carries
	// the insertion sequence number.
	ListQuotes(ctx context.Context) ([]models.RemoteQuote, error)
	// CreateQuotes stores quotes, which must carry identifiers, and returns
	// how many were created.
	CreateQuotes(ctx context.Context, quotes []models.RemoteQuote) (int, error)
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
