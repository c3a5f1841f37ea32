package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagRankTop int

func newRankingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Display the current Elo rankings",
		Args:  cobra.NoArgs,
		RunE:  runRankings,
	}

	cmd.Flags().IntVar(&flagRankTop, "top", 0, "Number of players to display (0 for all)")

	return cmd
}

func runRankings(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	standings, err := reg.LoadRatings()
	if err != nil {
		return err
	}
	if len(standings) == 0 {
		return fmt.Errorf("no ratings found in %s; run 'mc-elo recompute' first", reg.DataDir())
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}

	return WriteRankings(cmd.OutOrStdout(), standings, flagRankTop, format)
}
