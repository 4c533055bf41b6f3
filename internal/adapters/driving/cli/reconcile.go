package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Suggest canonical names for stored speakers",
	Long: `Searches the member registry for every distinct speaker name in the
local store. Close matches whose name differs are saved as candidates.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,

	Annotations: needsServices,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	if reconcileService == nil {
		return errors.New("reconcile service not configured")
	}

	cmd.Println("Reconciling speaker names...")

	report, err := reconcileService.Reconcile(cmd.Context())
	if err != nil {
		return fmt.Errorf("reconcile failed: %w", err)
	}

	cmd.Printf("Names checked: %d\n", report.Names)
	cmd.Printf("Discrepancies: %d\n", report.Discrepancies)
	cmd.Printf("Candidates saved: %d\n", report.Persisted)
	if report.Failed > 0 {
		cmd.Printf("Lookups failed: %d\n", report.Failed)
	}
	return nil
}
