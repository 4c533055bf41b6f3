package metrics

import (
	"context"
	"time"

	"github.com/custodia-labs/hansard-cli/internal/core/ports/driving"
)

// InstrumentIngest wraps svc so every run is counted and timed.
func (m *Metrics) InstrumentIngest(svc driving.IngestService) driving.IngestService {
	return &ingestService{next: svc, m: m, now: time.Now}
}

// InstrumentReconcile wraps svc so every pass is counted and timed.
func (m *Metrics) InstrumentReconcile(svc driving.ReconcileService) driving.ReconcileService {
	return &reconcileService{next: svc, m: m, now: time.Now}
}

type ingestService struct {
	next driving.IngestService
	m    *Metrics
	now  func() time.Time
}

func (s *ingestService) Ingest(ctx context.Context, opts driving.IngestOptions) (*driving.IngestResult, error) {
	start := s.now()
	result, err := s.next.Ingest(ctx, opts)
	end := s.now()
	s.m.duration.WithLabelValues("ingest").Observe(end.Sub(start).Seconds())

	if err != nil {
		s.m.runs.WithLabelValues("error").Inc()
		return result, err
	}

	if result == nil {
		result = &driving.IngestResult{}
	}
	outcome := "success"
	if result.Leaves == 0 {
		outcome = "empty"
	}
	s.m.runs.WithLabelValues(outcome).Inc()
	s.m.records.Add(float64(len(result.Records)))
	s.m.skipped.Add(float64(result.Skipped))
	s.m.failed.Add(float64(result.Failed))
	s.m.lastSuccess.Set(float64(end.Unix()))
	return result, nil
}

type reconcileService struct {
	next driving.ReconcileService
	m    *Metrics
	now  func() time.Time
}

func (s *reconcileService) Reconcile(ctx context.Context) (*driving.ReconcileReport, error) {
	start := s.now()
	report, err := s.next.Reconcile(ctx)
	s.m.duration.WithLabelValues("reconcile").Observe(s.now().Sub(start).Seconds())

	// A pass aborted part way still reports what it got through.
	if report != nil {
		s.m.names.Add(float64(report.Names))
		s.m.discrepancies.Add(float64(report.Discrepancies))
		s.m.candidates.Add(float64(report.Persisted))
		s.m.lookupsFailed.Add(float64(report.Failed))
	}
	return report, err
}
