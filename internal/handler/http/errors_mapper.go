package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/models"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSON: http.StatusBadRequest,

	service.ErrInvalidRecords:        http.StatusBadRequest,
	service.ErrVersionIsNotSpecified: http.StatusInternalServerError,

	store.ErrQuoteAlreadyExists: http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError writes err as a JSON error body. Messages of server-side
// failures are not exposed.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: msg}, status)
}
