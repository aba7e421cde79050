// Package cli implements the occupancy command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/eshaffer321/room-allocation-backend/internal/infrastructure/config"
)

// GlobalFlags are shared by every subcommand.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
}

// loadConfig reads the config file, falling back to environment variables.
func (f *GlobalFlags) loadConfig() *config.Config {
	cfg := config.LoadOrEnvWithPath(f.ConfigPath)
	if f.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	return cfg
}

// NewRootCommand builds the occupancy command tree.
func NewRootCommand() *cobra.Command {
	flags := &GlobalFlags{}

	root := &cobra.Command{
		Use:           "occupancy",
		Short:         "Allocate hotel guests to premium and economy rooms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to config file")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(newServeCommand(flags))
	root.AddCommand(newAllocateCommand(flags))

	return root
}
