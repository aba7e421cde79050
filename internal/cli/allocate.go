package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/room-allocation-backend/internal/application/service"
	"github.com/eshaffer321/room-allocation-backend/internal/domain/allocator"
	"github.com/eshaffer321/room-allocation-backend/internal/infrastructure/logging"
)

// AllocateFlags holds the CLI flags for the allocate command.
type AllocateFlags struct {
	PremiumRooms int
	EconomyRooms int
	Explain      bool
	ExplainLimit int
	JSON         bool
}

func newAllocateCommand(global *GlobalFlags) *cobra.Command {
	flags := &AllocateFlags{}

	cmd := &cobra.Command{
		Use:   "allocate [price...]",
		Short: "Allocate the given guest prices once and print the result",
		Example: `  occupancy allocate --premium 3 --economy 3 23 45 155 374 22 99.99 100 101 115 209
  occupancy allocate --premium 1 --economy 1 --explain --explain-limit 3 23 45 155 374`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := global.loadConfig()
			if !cmd.Flags().Changed("explain-limit") {
				flags.ExplainLimit = cfg.Limits.DefaultExplainLimit
			}

			logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "allocator")
			if !global.Verbose {
				logger = logging.Discard()
			}
			return RunAllocate(cmd, service.NewAllocationService(nil, nil, logger), flags, args)
		},
	}

	cmd.Flags().IntVar(&flags.PremiumRooms, "premium", 0, "Number of premium rooms")
	cmd.Flags().IntVar(&flags.EconomyRooms, "economy", 0, "Number of economy rooms")
	cmd.Flags().BoolVar(&flags.Explain, "explain", false, "Explain allocation decisions")
	cmd.Flags().IntVar(&flags.ExplainLimit, "explain-limit", 0, "Max entries per explanation list (default from config)")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the result as JSON")

	return cmd
}

// RunAllocate parses prices, allocates them and prints the result.
func RunAllocate(cmd *cobra.Command, svc *service.AllocationService, flags *AllocateFlags, prices []string) error {
	guests, err := allocator.ParsePrices(prices)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := svc.Process(ctx, service.Request{
		PremiumRooms: flags.PremiumRooms,
		EconomyRooms: flags.EconomyRooms,
		Guests:       guests,
		Explain:      flags.Explain,
		ExplainLimit: flags.ExplainLimit,
	})
	if err != nil {
		return fmt.Errorf("allocation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if flags.JSON {
		return PrintJSON(out, res)
	}
	PrintSummary(out, res.Summary)
	if res.Explanation != nil {
		PrintExplanation(out, *res.Explanation)
	}
	return nil
}
