package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boada/mc-elo/internal/rating"
)

var flagTop int

func newRecomputeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute all ratings from the stored match history",
		Long: `Recompute concatenates every stored event's records into the combined
history file and recomputes all ratings from scratch. Nothing is updated
incrementally; a full rebuild is what keeps corrected or re-filtered
history from leaving stale entries behind.`,
		Args: cobra.NoArgs,
		RunE: runRecompute,
	}

	cmd.Flags().IntVar(&flagTop, "top", 10, "Number of players to display (0 for all)")

	return cmd
}

func runRecompute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	history, err := reg.WriteCombined()
	if err != nil {
		return fmt.Errorf("combining history: %w", err)
	}
	if len(history) == 0 {
		return fmt.Errorf("no match history found in %s; scrape an event first", reg.DataDir())
	}

	standings := rating.Compute(history)
	if err := reg.SaveRatings(standings); err != nil {
		return err
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recomputed ratings for %d players from %d matches\n\n",
		len(standings), len(history))
	return WriteRankings(cmd.OutOrStdout(), standings, flagTop, format)
}
