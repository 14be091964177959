package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/go-quote-keeper/models"
)

var phases = []models.SyncPhase{
	models.SyncPhaseIdle,
	models.SyncPhaseFetching,
	models.SyncPhaseMerging,
	models.SyncPhasePersisting,
	models.SyncPhaseFailed,
}

// SyncMetrics turns sync events into Prometheus series. It satisfies the
// notifier contract of the sync engine.
type SyncMetrics struct {
	cycles      *prometheus.CounterVec
	records     *prometheus.CounterVec
	phase       *prometheus.GaugeVec
	pending     prometheus.Gauge
	failures    prometheus.Gauge
	lastSuccess prometheus.Gauge
	duration    prometheus.Histogram

	mu          sync.Mutex
	lastCounted time.Time
}

// NewSyncMetrics registers the sync collectors on reg.
func NewSyncMetrics(reg prometheus.Registerer) (*SyncMetrics, error) {
	m := &SyncMetrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "cycles_total",
			Help:      "Finished sync cycles by result.",
		}, []string{"result"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "records_total",
			Help:      "Records handled by sync cycles by outcome.",
		}, []string{"outcome"}),
		phase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "phase",
			Help:      "Current phase of the sync engine (1 for the active phase).",
		}, []string{"phase"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pending_uploads",
			Help:      "Local quotes waiting to be uploaded.",
		}),
		failures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "consecutive_failures",
			Help:      "Failed cycles since the last successful one.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful cycle.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of successful sync cycles.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	for _, c := range []prometheus.Collector{m.cycles, m.records, m.phase, m.pending, m.failures, m.lastSuccess, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("error registering sync collector: %w", err)
		}
	}
	m.setPhase(models.SyncPhaseIdle)

	return m, nil
}

// Notify records one sync event.
func (m *SyncMetrics) Notify(event models.SyncEvent) {
	m.setPhase(event.Phase)
	m.pending.Set(float64(event.Status.PendingUpload))
	m.failures.Set(float64(event.Status.ConsecutiveFailures))

	switch event.Phase {
	case models.SyncPhaseFailed:
		m.cycles.WithLabelValues("failed").Inc()
	case models.SyncPhaseIdle:
		report := event.Status.LastReport
		if report == nil || event.Status.InFlight {
			return
		}

		// Idle follows both Failed and a finished cycle; count each report once.
		m.mu.Lock()
		seen := !report.FinishedAt.After(m.lastCounted)
		if !seen {
			m.lastCounted = report.FinishedAt
		}
		m.mu.Unlock()
		if seen {
			return
		}

		result := "ok"
		if report.PersistError != "" || report.UploadError != "" {
			result = "partial"
		}
		m.cycles.WithLabelValues(result).Inc()
		m.duration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
		m.lastSuccess.Set(float64(report.FinishedAt.Unix()))

		m.records.WithLabelValues("inserted").Add(float64(report.Inserted))
		m.records.WithLabelValues("replaced").Add(float64(report.Replaced))
		m.records.WithLabelValues("kept_local").Add(float64(report.KeptLocal))
		m.records.WithLabelValues("suppressed").Add(float64(report.Suppressed))
		m.records.WithLabelValues("skipped").Add(float64(report.Skipped))
		m.records.WithLabelValues("uploaded").Add(float64(report.Uploaded))
	}
}

func (m *SyncMetrics) setPhase(active models.SyncPhase) {
	for _, p := range phases {
		v := 0.0
		if p == active {
			v = 1
		}
		m.phase.WithLabelValues(string(p)).Set(v)
	}
}
