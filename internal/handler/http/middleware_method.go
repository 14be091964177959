// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// methodNotAllowed answers requests to a known path with an unsupported
// method.
func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: "method not allowed"}, http.StatusMethodNotAllowed)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: "not found"}, http.StatusNotFound)
}
