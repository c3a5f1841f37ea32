package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/boada/mc-elo/internal/fetch"
	"github.com/boada/mc-elo/internal/roster"
	"github.com/boada/mc-elo/internal/scrape"
)

var (
	flagTeam         string
	flagNoTeamFilter bool
	flagEventName    string
	flagOverwrite    bool
)

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape <event-id> <num-rounds>",
		Short: "Scrape an event's rounds and store its match records",
		Args:  cobra.ExactArgs(2),
		RunE:  runScrape,
	}

	cmd.Flags().StringVar(&flagTeam, "team", "", "Team filter (defaults to configured team)")
	cmd.Flags().BoolVar(&flagNoTeamFilter, "no-team-filter", false, "Keep all matches, not just the team's")
	cmd.Flags().StringVar(&flagEventName, "event-name", "", "Display name for the event")
	cmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "Replace an already-ingested event")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	eventID := args[0]
	numRounds, err := strconv.Atoi(args[1])
	if err != nil || numRounds < 1 {
		return fmt.Errorf("invalid num-rounds: %s", args[1])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	team := cfg.Team
	if flagTeam != "" {
		team = flagTeam
	}
	if flagNoTeamFilter {
		team = roster.NoTeam
	}

	// Ctrl-C discards the in-flight ingestion; stored events stay intact.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	scraper := scrape.New(
		fetch.NewClient(cfg.FetchTimeout()),
		cfg.BaseURL,
		fetch.NewPacer(cfg.PageDelay()),
		fetch.NewPacer(cfg.RoundDelay()),
	)

	evt, records, err := scraper.Ingest(ctx, reg, scrape.Options{
		EventID:   eventID,
		NumRounds: numRounds,
		Name:      flagEventName,
		Team:      team,
		Overwrite: flagOverwrite,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored event #%d (%s): %d matches across %d rounds\n",
		evt.EventNum, evt.EventID, len(records), evt.NumRounds)
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'mc-elo recompute' to update ratings.")
	return nil
}
