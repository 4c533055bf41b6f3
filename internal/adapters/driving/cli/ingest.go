package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driving"
)

var (
	ingestChamber      string
	ingestRewind       int
	ingestSkipExisting bool
	ingestJSON         bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [date]",
	Short: "Ingest the proceedings of a sitting day",
	Long: `Crawls every section of a sitting day, attributes each contribution
to a member and stores the enriched proceedings.

The date is YYYY-MM-DD. Without a date the last sitting date is used.
When a day has no proceedings, earlier days are tried up to --rewind days.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,

	Annotations: needsServices,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestChamber, "chamber", "c", "", "restrict to one chamber (commons or lords)")
	ingestCmd.Flags().IntVar(&ingestRewind, "rewind", 0, "maximum number of days to try (0 uses the configured default)")
	ingestCmd.Flags().BoolVar(&ingestSkipExisting, "skip-existing", true, "skip records that are already stored")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	chamber, err := domain.ParseChamber(ingestChamber)
	if err != nil {
		return err
	}

	opts := driving.IngestOptions{
		Chamber:      chamber,
		RewindDays:   ingestRewind,
		SkipExisting: ingestSkipExisting,
	}
	if len(args) > 0 {
		opts.Date = args[0]
	}

	result, err := ingestService.Ingest(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(result.Records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if result.Leaves == 0 {
		cmd.Println("No proceedings found.")
		return nil
	}

	cmd.Printf("Sitting date: %s\n", result.Date)
	cmd.Printf("  Proceedings found: %d\n", result.Leaves)
	if result.Skipped > 0 {
		cmd.Printf("  Already stored:    %d\n", result.Skipped)
	}
	cmd.Printf("  Records ingested:  %d\n", len(result.Records))
	if result.Failed > 0 {
		cmd.Printf("  Failed:            %d\n", result.Failed)
	}
	return nil
}
