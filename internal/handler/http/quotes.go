package http

import (
	"net/http"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/models"
)

func (h *Handler) listQuotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	list, err := h.services.RemoteQuoteService.ListQuotes(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listQuotes").Msg("error listing quotes")
		writeError(w, err)
		return
	}

	if _, err = utils.WriteJSON(w, list, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.listQuotes").Msg("error writing response")
	}
}

func (h *Handler) createQuotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var records []models.PushRecord
	if err := utils.DecodeJSONBody(r, &records, maxPushBodyBytes); err != nil {
		log.Err(err).Str("func", "*Handler.createQuotes").Msg("invalid JSON was passed")
		writeError(w, ErrInvalidJSON)
		return
	}

	created, err := h.services.RemoteQuoteService.CreateQuotes(r.Context(), records)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createQuotes").Msg("error storing quotes")
		writeError(w, err)
		return
	}

	if _, err = utils.WriteJSON(w, models.PushResponse{Created: created}, http.StatusCreated); err != nil {
		log.Err(err).Str("func", "*Handler.createQuotes").Msg("error writing response")
	}
}
