package monitor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

// Metrics holds the Prometheus collectors for the poll loop and the latest readings.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	ticks        prometheus.Counter
	measurements prometheus.Counter
	malformed    prometheus.Counter
	sinkErrors   *prometheus.CounterVec
	reading      *prometheus.GaugeVec
	lastReading  prometheus.Gauge
}

// NewMetrics registers all collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sensor_poll_ticks_total",
			Help: "Number of poll attempts.",
		}),
		measurements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sensor_measurements_total",
			Help: "Number of well-formed lines parsed into measurements.",
		}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sensor_malformed_lines_total",
			Help: "Number of serial lines dropped by the parser.",
		}),
		sinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensor_sink_errors_total",
			Help: "Number of failed sink deliveries by sink.",
		}, []string{"sink"}),
		reading: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sensor_reading",
			Help: "Latest value of each sensor metric.",
		}, []string{"metric"}),
		lastReading: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensor_last_reading_timestamp_seconds",
			Help: "Unix time of the latest measurement.",
		}),
	}
	reg.MustRegister(m.ticks, m.measurements, m.malformed, m.sinkErrors, m.reading, m.lastReading)
	return m
}

// Name identifies the metrics sink in logs.
func (m *Metrics) Name() string { return "metrics" }

// Record publishes the latest readings as gauges.
func (m *Metrics) Record(ms sensor.Measurement) error {
	if m == nil {
		return nil
	}
	for _, metric := range sensor.Metrics {
		m.reading.WithLabelValues(metric.Key()).Set(ms.Value(metric))
	}
	m.lastReading.Set(float64(ms.Timestamp.UnixNano()) / 1e9)
	return nil
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a /metrics endpoint on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	Infof("[metrics] listening on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (m *Metrics) observeTick() {
	if m != nil {
		m.ticks.Inc()
	}
}

func (m *Metrics) observeMeasurement() {
	if m != nil {
		m.measurements.Inc()
	}
}

func (m *Metrics) observeMalformed() {
	if m != nil {
		m.malformed.Inc()
	}
}

func (m *Metrics) observeSinkError(sink string) {
	if m != nil {
		m.sinkErrors.WithLabelValues(sink).Inc()
	}
}
