package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driving"
)

type mockIngestService struct {
	opts   driving.IngestOptions
	result *driving.IngestResult
	err    error
}

func (m *mockIngestService) Ingest(_ context.Context, opts driving.IngestOptions) (*driving.IngestResult, error) {
	m.opts = opts
	return m.result, m.err
}

type mockReconcileService struct {
	report *driving.ReconcileReport
	err    error
}

func (m *mockReconcileService) Reconcile(_ context.Context) (*driving.ReconcileReport, error) {
	return m.report, m.err
}

type mockSittingService struct {
	chamber domain.Chamber
	date    string
	err     error
}

func (m *mockSittingService) LastSittingDate(_ context.Context, chamber domain.Chamber) (string, error) {
	m.chamber = chamber
	return m.date, m.err
}

type mockWatchService struct {
	opts driving.WatchOptions
	err  error
}

func (m *mockWatchService) Watch(_ context.Context, opts driving.WatchOptions) error {
	m.opts = opts
	return m.err
}

// setupServices installs s for the duration of the test.
func setupServices(t *testing.T, s Services) {
	t.Helper()
	oldIngest, oldReconcile, oldSitting := ingestService, reconcileService, sittingService
	oldWatch, oldSchedule, oldMetrics := watchService, watchSchedule, metricsServer
	oldFactory := serviceFactory
	SetServices(s)
	t.Cleanup(func() {
		ingestService, reconcileService, sittingService = oldIngest, oldReconcile, oldSitting
		watchService, watchSchedule, metricsServer = oldWatch, oldSchedule, oldMetrics
		serviceFactory = oldFactory
	})
}

// runCommand executes the root command with args and returns combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		ingestChamber, ingestRewind, ingestSkipExisting, ingestJSON = "", 0, true, false
		watchScheduleFlag, watchChamber, watchReconcile, watchNow, watchRuns = "", "", false, false, 0
		verbose = false
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
