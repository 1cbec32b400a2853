package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the service collectors. A nil *Metrics is a no-op, so
// components can be constructed in tests without a registry.
type Metrics struct {
	Registry *prometheus.Registry

	// Uploads counts upload attempts. Labels: type, result=[created, rejected, failed]
	Uploads *prometheus.CounterVec

	// UploadBytes observes the decoded payload size of stored blobs.
	UploadBytes prometheus.Histogram

	Listings prometheus.Counter

	// SessionChecks counts token verifications. Labels: result=[ok, unauthenticated, error]
	SessionChecks *prometheus.CounterVec

	SweeperRuns    prometheus.Counter
	SweeperRemoved prometheus.Counter
}

// NewMetrics creates a private registry with the Go and process collectors
// plus the service metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		Uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "files_manager_uploads_total",
				Help: "Upload requests by file type and result",
			},
			[]string{"type", "result"},
		),
		UploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "files_manager_upload_bytes",
			Help:    "Size of stored upload payloads",
			Buckets: prometheus.ExponentialBuckets(256, 4, 10),
		}),
		Listings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "files_manager_listings_total",
			Help: "Folder listing requests",
		}),
		SessionChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "files_manager_session_verifications_total",
				Help: "Session token verifications by result",
			},
			[]string{"result"},
		),
		SweeperRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "files_manager_sweeper_runs_total",
			Help: "Orphan blob sweeper runs",
		}),
		SweeperRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "files_manager_sweeper_removed_total",
			Help: "Orphan blobs removed from the storage root",
		}),
	}

	reg.MustRegister(m.Uploads, m.UploadBytes, m.Listings, m.SessionChecks, m.SweeperRuns, m.SweeperRemoved)
	return m
}

func (m *Metrics) RecordUpload(fileType, result string, size int) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(fileType, result).Inc()
	if size > 0 {
		m.UploadBytes.Observe(float64(size))
	}
}

func (m *Metrics) RecordListing() {
	if m == nil {
		return
	}
	m.Listings.Inc()
}

func (m *Metrics) RecordSessionCheck(result string) {
	if m == nil {
		return
	}
	m.SessionChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordSweep(removed int) {
	if m == nil {
		return
	}
	m.SweeperRuns.Inc()
	m.SweeperRemoved.Add(float64(removed))
}
