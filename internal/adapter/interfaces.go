// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for talking to the remote
// quotes endpoint.
//
// The primary abstraction is [RemoteAdapter], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPRemoteAdapter]) built on resty.
//
// Every failure is reported as a *[models.TransportError]. HTTP status codes
// are additionally mapped by mapHTTPError to the sentinels in errors.go so that
// callers can use [errors.Is] (e.g. [ErrNotFound] for 404,
// [ErrInternalServerError] for 500).
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-quote-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_adapter_mock.go -package=mock

// RemoteAdapter defines transport-agnostic communication with the remote
// quotes endpoint.
type RemoteAdapter interface {
	// FetchRemote downloads the remote snapshot and returns its records
	// undecoded. The body must be a JSON array or an object whose "quotes"
	// member is one. An empty snapshot is not an error.
	FetchRemote(ctx context.Context) ([]json.RawMessage, error)

	// PushLocal sends records as one JSON array. The response body is
	// ignored.
	PushLocal(ctx context.Context, records []models.PushRecord) error
}
