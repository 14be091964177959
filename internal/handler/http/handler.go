package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// maxPushBodyBytes bounds the body of a push request.
const maxPushBodyBytes = 4 << 20

type Handler struct {
	services  *service.Services
	buildInfo models.AppBuildInfo

	registry    *prometheus.Registry
	httpMetrics *metrics.HTTPMetrics

	logger *logger.Logger
}

// NewHandler creates the HTTP handler. registry may be nil, in which case
// neither request metrics nor the /metrics endpoint are available.
func NewHandler(services *service.Services, buildInfo models.AppBuildInfo, registry *prometheus.Registry, logger *logger.Logger) (*Handler, error) {
	h := &Handler{
		services:  services,
		buildInfo: buildInfo,
		registry:  registry,
		logger:    logger,
	}

	if registry != nil {
		m, err := metrics.NewHTTPMetrics(registry)
		if err != nil {
			return nil, err
		}
		h.httpMetrics = m
	}

	logger.Info().Msg("http handler created")
	return h, nil
}
