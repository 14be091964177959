// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is. The typed errors below unwrap to them.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("quote not found")
	ErrTransport        = errors.New("transport failure")
	ErrMalformedRecord  = errors.New("malformed remote record")
	ErrMalformedPayload = errors.New("malformed remote payload")
	ErrPersistence      = errors.New("persistence failure")
	ErrSyncInProgress   = errors.New("sync cycle already in progress")
)

// ValidationError reports bad user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports an unknown quote identifier.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("quote %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// TransportError reports a failed exchange with the remote endpoint:
// network error, timeout, non-success status or an undecodable body.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// MalformedRecordError reports a single remote record that could not be
// decoded or validated. The record is skipped.
type MalformedRecordError struct {
	Index  int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("remote record #%d: %s", e.Index, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// PersistenceError reports a failed load or save of the local state.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s state: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
