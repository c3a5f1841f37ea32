package scrape

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/boada/mc-elo/internal/fetch"
	"github.com/boada/mc-elo/internal/registry"
	"github.com/boada/mc-elo/internal/roster"
	"github.com/boada/mc-elo/internal/rounds"
)

const testBaseURL = "https://pairings.test"

// fakeFetcher serves fixture content by URL, standing in for the browser
// collaborator.
type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("unexpected status code: 404")
	}
	return content, nil
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func placingsURL(eventID string) string {
	return fmt.Sprintf("%s/event/%s?active_tab=placings", testBaseURL, eventID)
}

func roundPageURL(eventID string, round int) string {
	return fmt.Sprintf("%s/event/%s?round=%d", testBaseURL, eventID, round)
}

func newTestScraper(t *testing.T, pages map[string]string) (*Scraper, *registry.Registry) {
	t.Helper()
	reg, err := registry.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	noDelay := fetch.NewPacer(0, 0)
	return New(&fakeFetcher{pages: pages}, testBaseURL, noDelay, noDelay), reg
}

func TestIngestWithTeamFilter(t *testing.T) {
	pages := map[string]string{
		placingsURL("evt1"):     loadFixture(t, "placings.html"),
		roundPageURL("evt1", 1): loadFixture(t, "round1.html"),
		roundPageURL("evt1", 2): loadFixture(t, "round2.html"),
	}
	scraper, reg := newTestScraper(t, pages)

	evt, records, err := scraper.Ingest(context.Background(), reg, Options{
		EventID:   "evt1",
		NumRounds: 2,
		Team:      "MORALE CHECK",
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if evt.EventNum != 1 {
		t.Errorf("event num = %d, expected 1", evt.EventNum)
	}

	// Round 1 has three decided matches but only Caelan vs Gregory pairs
	// two roster members; round 2 keeps Gregory vs Caelan the same way.
	if len(records) != 2 {
		t.Fatalf("expected 2 kept records, got %d: %+v", len(records), records)
	}

	first := records[0]
	if first.Player1 != "Caelan Fulkerson" || first.Player2 != "Gregory Burban" {
		t.Errorf("unexpected round 1 pairing: %+v", first)
	}
	if first.Player1Faction != "Adeptus Custodes" || first.Player2Faction != "Necrons" {
		t.Errorf("factions not attached: %+v", first)
	}
	if first.EventNum != 1 || first.EventID != "evt1" {
		t.Errorf("event metadata not stamped: %+v", first)
	}

	// Stored history must round-trip through the registry.
	history, err := reg.Combine()
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("expected 2 stored records, got %d", len(history))
	}
}

func TestIngestWithoutTeamFilter(t *testing.T) {
	pages := map[string]string{
		roundPageURL("evt1", 1): loadFixture(t, "round1.html"),
	}
	scraper, reg := newTestScraper(t, pages)

	_, records, err := scraper.Ingest(context.Background(), reg, Options{
		EventID:   "evt1",
		NumRounds: 1,
		Team:      roster.NoTeam,
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// No roster page fetched, no filtering, no factions.
	if len(records) != 3 {
		t.Fatalf("expected all 3 decided matches, got %d", len(records))
	}
	for _, rec := range records {
		if rec.HasFactions() {
			t.Errorf("unexpected faction data without team filter: %+v", rec)
		}
	}
}

func TestIngestRosterNotFoundAbortsBeforeAllocation(t *testing.T) {
	pages := map[string]string{
		placingsURL("evt1"): loadFixture(t, "placings.html"),
	}
	scraper, reg := newTestScraper(t, pages)

	_, _, err := scraper.Ingest(context.Background(), reg, Options{
		EventID:   "evt1",
		NumRounds: 1,
		Team:      "NO SUCH TEAM",
	})
	if !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("expected roster.ErrNotFound, got %v", err)
	}

	// The failed run must not have consumed an event number.
	num, err := reg.AllocateEventNum()
	if err != nil {
		t.Fatalf("AllocateEventNum failed: %v", err)
	}
	if num != 1 {
		t.Errorf("allocation after roster failure = %d, expected 1", num)
	}
}

func TestIngestRoundFailureBurnsEventNum(t *testing.T) {
	pages := map[string]string{
		roundPageURL("evt1", 1): loadFixture(t, "round1.html"),
		roundPageURL("evt1", 2): loadFixture(t, "round_nocards.html"),
	}
	scraper, reg := newTestScraper(t, pages)

	_, _, err := scraper.Ingest(context.Background(), reg, Options{
		EventID:   "evt1",
		NumRounds: 2,
		Team:      roster.NoTeam,
	})
	if !errors.Is(err, rounds.ErrNoMatchCards) {
		t.Fatalf("expected rounds.ErrNoMatchCards, got %v", err)
	}

	// Nothing stored, but the allocated number stays burned.
	events, err := reg.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("failed ingestion left registry entries: %+v", events)
	}
	num, err := reg.AllocateEventNum()
	if err != nil {
		t.Fatalf("AllocateEventNum failed: %v", err)
	}
	if num != 2 {
		t.Errorf("allocation after failed ingestion = %d, expected 2", num)
	}
}

func TestIngestDuplicateEvent(t *testing.T) {
	pages := map[string]string{
		roundPageURL("evt1", 1): loadFixture(t, "round1.html"),
	}
	scraper, reg := newTestScraper(t, pages)

	opts := Options{EventID: "evt1", NumRounds: 1, Team: roster.NoTeam}
	if _, _, err := scraper.Ingest(context.Background(), reg, opts); err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}

	_, _, err := scraper.Ingest(context.Background(), reg, opts)
	if !errors.Is(err, registry.ErrDuplicateEvent) {
		t.Fatalf("expected ErrDuplicateEvent, got %v", err)
	}

	opts.Overwrite = true
	evt, _, err := scraper.Ingest(context.Background(), reg, opts)
	if err != nil {
		t.Fatalf("overwrite Ingest failed: %v", err)
	}
	if evt.EventNum != 1 {
		t.Errorf("overwrite stored under #%d, expected original #1", evt.EventNum)
	}

	events, _ := reg.Events()
	if len(events) != 1 {
		t.Errorf("expected 1 registry entry after overwrite, got %d", len(events))
	}
}

func TestIngestCancelled(t *testing.T) {
	pages := map[string]string{
		roundPageURL("evt1", 1): loadFixture(t, "round1.html"),
	}
	scraper, reg := newTestScraper(t, pages)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := scraper.Ingest(ctx, reg, Options{
		EventID:   "evt1",
		NumRounds: 1,
		Team:      roster.NoTeam,
	})
	if err == nil {
		t.Fatal("expected error from cancelled ingestion")
	}

	events, _ := reg.Events()
	if len(events) != 0 {
		t.Errorf("cancelled ingestion stored events: %+v", events)
	}
}
