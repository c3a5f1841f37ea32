package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/boada/mc-elo/internal/rating"
	"github.com/boada/mc-elo/internal/registry"
)

func testStandings() rating.Standings {
	return rating.Standings{
		"Caelan Fulkerson": {Rating: 1532.5, Wins: 3, Draws: 1, Losses: 0},
		"Gregory Burban":   {Rating: 1489.25, Wins: 1, Draws: 1, Losses: 2},
		"Kevin Morrison":   {Rating: 1478.25, Wins: 0, Draws: 0, Losses: 2},
	}
}

func TestWriteRankingsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRankings(&buf, testStandings(), 0, FormatText); err != nil {
		t.Fatalf("WriteRankings failed: %v", err)
	}

	out := buf.String()
	for _, expected := range []string{"Caelan Fulkerson", "1532.50", "Total players: 3"} {
		if !strings.Contains(out, expected) {
			t.Errorf("output missing %q:\n%s", expected, out)
		}
	}

	// Leader appears before the others.
	if strings.Index(out, "Caelan Fulkerson") > strings.Index(out, "Gregory Burban") {
		t.Error("rankings not ordered by rating")
	}
}

func TestWriteRankingsTop(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRankings(&buf, testStandings(), 1, FormatText); err != nil {
		t.Fatalf("WriteRankings failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Caelan Fulkerson") {
		t.Error("expected top player in output")
	}
	if strings.Contains(out, "Kevin Morrison") {
		t.Error("expected only the top player, found more")
	}
}

func TestWriteRankingsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRankings(&buf, testStandings(), 0, FormatJSON); err != nil {
		t.Fatalf("WriteRankings failed: %v", err)
	}

	var ranked []rating.Ranked
	if err := json.Unmarshal(buf.Bytes(), &ranked); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ranked))
	}
	if ranked[0].Player != "Caelan Fulkerson" || ranked[0].Rank != 1 {
		t.Errorf("unexpected leader: %+v", ranked[0])
	}
}

func TestWriteEvents(t *testing.T) {
	events := []registry.Event{
		{EventNum: 1, EventID: "abc123", Name: "Watch Party GT", NumRounds: 3,
			ScrapedDate: "2026-08-29T12:00:00Z", CSVFile: "events/event_001.csv"},
	}

	var buf bytes.Buffer
	if err := WriteEvents(&buf, events, FormatText); err != nil {
		t.Fatalf("WriteEvents failed: %v", err)
	}
	out := buf.String()
	for _, expected := range []string{"001", "Watch Party GT", "abc123", "2026-08-29", "Total events: 1"} {
		if !strings.Contains(out, expected) {
			t.Errorf("output missing %q:\n%s", expected, out)
		}
	}

	buf.Reset()
	if err := WriteEvents(&buf, events, FormatJSON); err != nil {
		t.Fatalf("WriteEvents failed: %v", err)
	}
	var decoded []registry.Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].EventID != "abc123" {
		t.Errorf("unexpected decoded events: %+v", decoded)
	}
}
