// Package metrics exposes recorder activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/danpilch/cpulog/pkg/health"
	"github.com/danpilch/cpulog/pkg/sample"
	"github.com/danpilch/cpulog/pkg/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics implements recorder.Observer on top of Prometheus collectors.
type Metrics struct {
	cpuPercent  prometheus.Gauge
	lastSample  prometheus.Gauge
	written     *prometheus.CounterVec
	failures    *prometheus.CounterVec
	measurement prometheus.Histogram
}

// New creates the cpulog metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cpuPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cpulog_cpu_usage_percent",
			Help: "CPU utilization of the most recent sample.",
		}),
		lastSample: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cpulog_last_sample_timestamp_seconds",
			Help: "Unix time of the most recent sample written to the log.",
		}),
		written: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpulog_samples_written_total",
			Help: "Samples appended to the log, by health status.",
		}, []string{"status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpulog_tick_failures_total",
			Help: "Ticks that failed, by error kind (measurement or io).",
		}, []string{"kind"}),
		measurement: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cpulog_measure_duration_seconds",
			Help:    "Wall time spent in a CPU measurement window.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}

	reg.MustRegister(m.cpuPercent, m.lastSample, m.written, m.failures, m.measurement)
	return m
}

// ObserveSample records a sample that was appended to the log.
func (m *Metrics) ObserveSample(s sample.Sample, status health.Status) {
	m.cpuPercent.Set(s.CPUPercent)
	m.lastSample.Set(float64(s.Timestamp.Unix()))
	m.written.WithLabelValues(string(status)).Inc()
}

// ObserveMeasurement records the duration of one measurement window.
func (m *Metrics) ObserveMeasurement(d time.Duration) {
	m.measurement.Observe(d.Seconds())
}

// ObserveFailure counts a failed tick.
func (m *Metrics) ObserveFailure(kind string) {
	m.failures.WithLabelValues(kind).Inc()
}

// StartServer serves /metrics from g at addr.
// Returns a stop function to gracefully shut down the server.
func StartServer(addr string, g prometheus.Gatherer, logger *logrus.Logger) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	s, err := server.Start("metrics", addr, mux, logger)
	if err != nil {
		return nil, err
	}
	return s.Stop, nil
}
