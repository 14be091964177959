// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// humanizeError turns service errors into short messages for the status
// line.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrSyncInProgress):
		return "Sync is already running"
	case errors.Is(err, service.ErrNoQuotes):
		return "No quotes in this category"
	case errors.As(err, &validationErr):
		return err.Error()
	case errors.Is(err, models.ErrTransport):
		return humanizeServerUnavailableError(err)
	}
	return err.Error()
}

func humanizeServerUnavailableError(err error) string {
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "deadline exceeded") {
		return "Network is down or the remote endpoint is unavailable"
	}

	return err.Error()
}
