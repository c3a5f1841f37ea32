package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/boada/mc-elo/internal/rating"
	"github.com/boada/mc-elo/internal/registry"
)

// OutputFormat specifies the output format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteRankings renders standings sorted by rating. top limits the number of
// rows; 0 shows everyone.
func WriteRankings(w io.Writer, standings rating.Standings, top int, format OutputFormat) error {
	ranked := rating.Rank(standings)
	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("RANK", "PLAYER", "RATING", "W", "D", "L")
	for _, r := range ranked {
		table.Append(
			strconv.Itoa(r.Rank),
			r.Player,
			fmt.Sprintf("%.2f", r.Rating),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Draws),
			strconv.Itoa(r.Losses),
		)
	}
	table.Render()

	fmt.Fprintf(w, "\nTotal players: %d  |  Average rating: %.2f\n",
		len(standings), rating.Average(standings))
	return nil
}

// WriteEvents renders the event registry listing.
func WriteEvents(w io.Writer, events []registry.Event, format OutputFormat) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("#", "NAME", "EVENT ID", "ROUNDS", "SCRAPED", "FILE")
	for _, evt := range events {
		scraped := evt.ScrapedDate
		if len(scraped) > 10 {
			scraped = scraped[:10]
		}
		table.Append(
			fmt.Sprintf("%03d", evt.EventNum),
			evt.Name,
			evt.EventID,
			strconv.Itoa(evt.NumRounds),
			scraped,
			evt.CSVFile,
		)
	}
	table.Render()

	fmt.Fprintf(w, "\nTotal events: %d\n", len(events))
	return nil
}
