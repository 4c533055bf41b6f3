// Package metrics exposes Prometheus counters for upstream traffic,
// ingestion runs and reconciliation passes.
//
// Metrics are kept in a private registry. One-shot commands write it to a
// node_exporter textfile; the watch command can serve it over HTTP.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/hansard-cli/internal/connectors/hansard"
)

const namespace = "hansard"

// Ensure Metrics observes client requests.
var _ hansard.Observer = (*Metrics)(nil)

// Metrics holds the process collectors.
type Metrics struct {
	registry *prometheus.Registry

	responses *prometheus.CounterVec
	retries   *prometheus.CounterVec

	runs        *prometheus.CounterVec
	records     prometheus.Counter
	skipped     prometheus.Counter
	failed      prometheus.Counter
	lastSuccess prometheus.Gauge

	names         prometheus.Counter
	discrepancies prometheus.Counter
	candidates    prometheus.Counter
	lookupsFailed prometheus.Counter

	duration *prometheus.HistogramVec
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "upstream", Name: "responses_total",
			Help: "Upstream responses by HTTP status code; transport failures are code \"error\".",
		}, []string{"code"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "upstream", Name: "retries_total",
			Help: "Upstream requests retried, by the status that caused the retry.",
		}, []string{"code"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "runs_total",
			Help: "Ingestion runs by outcome.",
		}, []string{"outcome"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "records_total",
			Help: "Proceeding records ingested.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "skipped_total",
			Help: "Proceedings skipped because they were already stored.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "failed_total",
			Help: "Proceedings that could not be enriched.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "last_success_timestamp_seconds",
			Help: "Unix time of the last successful ingestion run.",
		}),
		names: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "reconcile", Name: "names_total",
			Help: "Speaker names checked against the member search.",
		}),
		discrepancies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "reconcile", Name: "discrepancies_total",
			Help: "Names whose best match differed from the recorded name.",
		}),
		candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "reconcile", Name: "candidates_saved_total",
			Help: "Match candidates persisted.",
		}),
		lookupsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "reconcile", Name: "lookups_failed_total",
			Help: "Member searches that failed.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "operation_duration_seconds",
			Help:    "Duration of ingestion runs and reconciliation passes.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		m.responses, m.retries,
		m.runs, m.records, m.skipped, m.failed, m.lastSuccess,
		m.names, m.discrepancies, m.candidates, m.lookupsFailed,
		m.duration,
	)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveResponse implements hansard.Observer.
func (m *Metrics) ObserveResponse(status int) {
	m.responses.WithLabelValues(codeLabel(status)).Inc()
}

// ObserveRetry implements hansard.Observer.
func (m *Metrics) ObserveRetry(status int) {
	m.retries.WithLabelValues(codeLabel(status)).Inc()
}

func codeLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

// WriteTextfile writes the current values in the text exposition format,
// atomically replacing path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
