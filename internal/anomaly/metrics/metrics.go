// Package metrics exposes Prometheus instrumentation for the anomaly engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the anomaly engine.
type Metrics struct {
	ScansTotal        prometheus.Counter
	ScanDuration      prometheus.Histogram
	AnomaliesDetected *prometheus.CounterVec
	DetectorFailures  *prometheus.CounterVec
	PersistFailures   prometheus.Counter
}

// New creates and registers all anomaly engine metrics.
func New() *Metrics {
	return &Metrics{
		ScansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundwatch_anomaly_scans_total",
			Help: "Total number of anomaly scans run",
		}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundwatch_anomaly_scan_duration_seconds",
			Help:    "Duration of full anomaly scans",
			Buckets: prometheus.DefBuckets,
		}),
		AnomaliesDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fundwatch_anomalies_detected_total",
			Help: "Anomalies detected, by type and severity",
		}, []string{"type", "severity"}),
		DetectorFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fundwatch_anomaly_detector_failures_total",
			Help: "Detector runs that degraded to an empty result",
		}, []string{"detector"}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundwatch_anomaly_persist_failures_total",
			Help: "Scans whose anomaly bulk insert failed",
		}),
	}
}

// ObserveScan records one completed scan.
func (m *Metrics) ObserveScan(d time.Duration) {
	if m == nil {
		return
	}
	m.ScansTotal.Inc()
	m.ScanDuration.Observe(d.Seconds())
}

// CountAnomaly records one detected anomaly.
func (m *Metrics) CountAnomaly(anomalyType, severity string) {
	if m == nil {
		return
	}
	m.AnomaliesDetected.WithLabelValues(anomalyType, severity).Inc()
}

// CountDetectorFailure records a detector that returned an error.
func (m *Metrics) CountDetectorFailure(detector string) {
	if m == nil {
		return
	}
	m.DetectorFailures.WithLabelValues(detector).Inc()
}

// CountPersistFailure records a failed anomaly bulk insert.
func (m *Metrics) CountPersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}
