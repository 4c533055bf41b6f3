package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hansard-cli/internal/logger"
)

var (
	watchScheduleFlag string
	watchChamber      string
	watchReconcile    bool
	watchNow          bool
	watchRuns         int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest new proceedings on a schedule",
	Long: `Runs ingestion of the last sitting day at every time matched by a
cron expression, skipping records that are already stored. With --reconcile
a reconciliation pass follows each successful run.

Runs until interrupted.`,
	Example: `  hansard watch --schedule "0 18 * * 1-5"
  hansard watch --now --reconcile`,
	Args: cobra.NoArgs,
	RunE: runWatch,

	Annotations: needsServices,
}

func init() {
	watchCmd.Flags().StringVarP(&watchScheduleFlag, "schedule", "s", "", "cron expression (defaults to the configured schedule)")
	watchCmd.Flags().StringVarP(&watchChamber, "chamber", "c", "", "restrict to one chamber (commons or lords)")
	watchCmd.Flags().BoolVar(&watchReconcile, "reconcile", false, "reconcile speaker names after each run")
	watchCmd.Flags().BoolVar(&watchNow, "now", false, "run once immediately before waiting")
	watchCmd.Flags().IntVar(&watchRuns, "runs", 0, "stop after this many runs (0 runs until interrupted)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if watchService == nil {
		return errors.New("watch service not configured")
	}

	chamber, err := domain.ParseChamber(watchChamber)
	if err != nil {
		return err
	}

	schedule := watchScheduleFlag
	if schedule == "" {
		schedule = watchSchedule
	}
	if schedule == "" {
		return errors.New("no schedule: pass --schedule or set watch.schedule in the config file")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if metricsServer != nil {
		go func() {
			if err := metricsServer(ctx); err != nil {
				logger.Error("metrics server: %v", err)
			}
		}()
	}

	cmd.Printf("Watching on schedule %q\n", schedule)
	err = watchService.Watch(ctx, driving.WatchOptions{
		Schedule:  schedule,
		Ingest:    driving.IngestOptions{Chamber: chamber, SkipExisting: true},
		Reconcile: watchReconcile,
		Immediate: watchNow,
		MaxRuns:   watchRuns,
	})
	if errors.Is(err, context.Canceled) {
		cmd.Println("Stopped.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
