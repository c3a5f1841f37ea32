package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/boada/mc-elo/internal/config"
	"github.com/boada/mc-elo/internal/logger"
	"github.com/boada/mc-elo/internal/registry"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagDataDir string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mc-elo",
		Short: "Club Elo ratings from scraped tournament pairings",
		Long: `mc-elo scrapes match results from the pairing site, keeps a local
registry of ingested events, and recomputes club Elo ratings from the full
match history.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
			}
		},
	}

	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (overrides config)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newRecomputeCmd())
	cmd.AddCommand(newRankingsCmd())
	cmd.AddCommand(newEventsCmd())

	return cmd
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		return ExitError
	}
	return ExitSuccess
}

// loadConfig layers file/env config with the --data-dir flag override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	return cfg, nil
}

func openRegistry(cfg *config.Config) (*registry.Registry, error) {
	reg, err := registry.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing registry: %w", err)
	}
	return reg, nil
}

func outputFormat() (OutputFormat, error) {
	switch OutputFormat(flagFormat) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
}
