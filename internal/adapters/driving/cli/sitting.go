package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
)

var lastSittingCmd = &cobra.Command{
	Use:   "last-sitting [commons|lords]",
	Short: "Print the last sitting date",
	Long: `Prints the most recent sitting date of a chamber.
Without a chamber, the later date of both chambers is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLastSitting,

	Annotations: needsServices,
}

func init() {
	rootCmd.AddCommand(lastSittingCmd)
}

func runLastSitting(cmd *cobra.Command, args []string) error {
	if sittingService == nil {
		return errors.New("sitting date service not configured")
	}

	chamber := domain.ChamberAny
	if len(args) > 0 {
		c, err := domain.ParseChamber(args[0])
		if err != nil {
			return err
		}
		chamber = c
	}

	date, err := sittingService.LastSittingDate(cmd.Context(), chamber)
	if err != nil {
		return fmt.Errorf("resolving sitting date: %w", err)
	}

	cmd.Println(date)
	return nil
}
