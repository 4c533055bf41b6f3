package driving

import "context"

// ReconcileService matches stored speaker names against the registry.
type ReconcileService interface {
	// Reconcile runs one reconciliation pass over all stored speaker names.
	Reconcile(ctx context.Context) (*ReconcileReport, error)
}

// ReconcileReport summarises a reconciliation pass.
type ReconcileReport struct {
	Names         int
	Discrepancies int
	Persisted     int
	Failed        int
}
