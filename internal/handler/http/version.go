package http

import (
	"net/http"

	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, models.VersionResponse{
		Version: h.services.AppInfoService.GetAppVersion(r.Context()),
		Date:    h.buildInfo.BuildDate(),
		Commit:  h.buildInfo.BuildCommit(),
	}, http.StatusOK)
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
