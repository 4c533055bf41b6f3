// Package cli provides the cobra command tree for the hansard binary.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hansard-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hansard-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services wired in by the entry point. Commands fail with a
// "not configured" error when their service is nil.
var (
	ingestService    driving.IngestService
	reconcileService driving.ReconcileService
	sittingService   driving.SittingDateService
	watchService     driving.WatchService

	// watchSchedule is the configured schedule used when --schedule is empty.
	watchSchedule string

	// metricsServer, when set, is run alongside long-lived commands.
	metricsServer func(ctx context.Context) error

	// serviceFactory builds the services the first time a command annotated
	// with needsServices runs. It is cleared once called.
	serviceFactory func(ctx context.Context) (Services, error)
)

const servicesAnnotation = "hansard/services"

// needsServices annotates commands that open the store or reach upstream.
var needsServices = map[string]string{servicesAnnotation: "true"}

var rootCmd = &cobra.Command{
	Use:   "hansard",
	Short: "Ingest and reconcile parliamentary proceedings",
	Long: `hansard crawls the published record of parliamentary sittings,
attributes every contribution to a member, and stores the enriched
proceedings locally. The reconcile command suggests canonical names
for speakers whose recorded names differ from the member registry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return buildServices(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostic logging")
}

// Services groups the driving ports the commands depend on.
type Services struct {
	Ingest    driving.IngestService
	Reconcile driving.ReconcileService
	Sitting   driving.SittingDateService
	Watch     driving.WatchService

	// WatchSchedule is the default cron expression for the watch command.
	WatchSchedule string

	// MetricsServer serves metrics until its context is done.
	MetricsServer func(ctx context.Context) error
}

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	reconcileService = s.Reconcile
	sittingService = s.Sitting
	watchService = s.Watch
	watchSchedule = s.WatchSchedule
	metricsServer = s.MetricsServer
}

// SetServiceFactory defers building the services until a command needs
// them, so that version and help never touch the data directory.
func SetServiceFactory(f func(ctx context.Context) (Services, error)) {
	serviceFactory = f
}

func buildServices(cmd *cobra.Command) error {
	if serviceFactory == nil || cmd.Annotations[servicesAnnotation] == "" {
		return nil
	}
	factory := serviceFactory
	serviceFactory = nil

	s, err := factory(cmd.Context())
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
