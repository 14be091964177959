// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service contains the business logic of both binaries.
//
// Client side: [QuoteService] (the use cases behind the CLI and the TUI),
// [SyncService] (the sync engine state machine around the merge planner),
// [SyncJob] (the scheduler) and [Persister] (the single path to the state
// storage).
//
// Server side: [RemoteQuoteService], the collection served by the stand-in
// remote endpoint, optionally decorated through [RemoteQuoteServiceWrapper],
// and [AppInfoService].
package service

import (
	"context"

	"github.com/MKhiriev/go-quote-keeper/models"
)

// RemoteQuoteService is the collection exposed by the stand-in server.
type RemoteQuoteService interface {
	// ListQuotes returns every stored quote in insertion order.
	ListQuotes(ctx context.Context) ([]models.RemoteQuote, error)
	// CreateQuotes appends records with server-assigned identifiers and
	// returns how many were stored.
	CreateQuotes(ctx context.Context, records []models.PushRecord) (int, error)
}

// RemoteQuoteServiceWrapper defines middleware composition for
// RemoteQuoteService. Implementations wrap an existing service to add
// behaviour such as validation.
type RemoteQuoteServiceWrapper interface {
	Wrap(RemoteQuoteService) RemoteQuoteService
}

// AppInfoService exposes build information of the running binary.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
