// Package scrape orchestrates a full event ingestion: roster page, then
// each round in sequence, producing one immutable stored event.
//
// Requests are strictly sequential with polite delays between them; nothing
// here fetches concurrently. A failure mid-ingestion discards all in-memory
// work for that event without touching previously stored events. The event
// number allocated for a failed ingestion stays burned.
package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/boada/mc-elo/internal/fetch"
	"github.com/boada/mc-elo/internal/filter"
	"github.com/boada/mc-elo/internal/logger"
	"github.com/boada/mc-elo/internal/match"
	"github.com/boada/mc-elo/internal/registry"
	"github.com/boada/mc-elo/internal/roster"
	"github.com/boada/mc-elo/internal/rounds"
)

// Scraper drives the page-by-page ingestion of one event.
type Scraper struct {
	fetcher    fetch.Fetcher
	baseURL    string
	pagePacer  *fetch.Pacer
	roundPacer *fetch.Pacer
}

// Options describes one ingestion run.
type Options struct {
	EventID   string
	NumRounds int
	Name      string

	// Team restricts records to matches between the team's roster members.
	// roster.NoTeam disables filtering and faction capture.
	Team string

	// Overwrite allows re-ingesting an already-registered event ID.
	Overwrite bool
}

// New creates a Scraper. The pagePacer runs after every page fetch, the
// roundPacer additionally between rounds.
func New(fetcher fetch.Fetcher, baseURL string, pagePacer, roundPacer *fetch.Pacer) *Scraper {
	return &Scraper{
		fetcher:    fetcher,
		baseURL:    baseURL,
		pagePacer:  pagePacer,
		roundPacer: roundPacer,
	}
}

func (s *Scraper) placingsURL(eventID string) string {
	return fmt.Sprintf("%s/event/%s?active_tab=placings", s.baseURL, eventID)
}

func (s *Scraper) roundURL(eventID string, round int) string {
	return fmt.Sprintf("%s/event/%s?round=%d", s.baseURL, eventID, round)
}

// FetchRoster scrapes the placings page and extracts the team's roster.
func (s *Scraper) FetchRoster(ctx context.Context, eventID, team string) (roster.Roster, error) {
	content, err := s.fetcher.Fetch(ctx, s.placingsURL(eventID))
	if err != nil {
		return nil, fmt.Errorf("fetching placings page: %w", err)
	}
	if err := s.pagePacer.Wait(ctx); err != nil {
		return nil, err
	}

	ros, err := roster.Parse(content, team)
	if err != nil {
		return nil, err
	}

	logger.Info("roster extracted", logger.Fields{
		"event_id": eventID,
		"team":     team,
		"players":  len(ros),
	})
	return ros, nil
}

// FetchRound scrapes one round page and parses its candidate records.
func (s *Scraper) FetchRound(ctx context.Context, eventID string, round int) ([]match.Record, error) {
	content, err := s.fetcher.Fetch(ctx, s.roundURL(eventID, round))
	if err != nil {
		return nil, fmt.Errorf("fetching round page: %w", err)
	}
	if err := s.pagePacer.Wait(ctx); err != nil {
		return nil, err
	}

	return rounds.Parse(content, round)
}

// Ingest scrapes a whole event and stores it in the registry. Returns the
// stored event metadata and its filtered records.
//
// Error behavior: a duplicate event ID (without Overwrite) and a missing
// roster both abort before an event number is allocated; a round parse
// failure aborts after allocation, burning the number but leaving prior
// stored events untouched.
func (s *Scraper) Ingest(ctx context.Context, reg *registry.Registry, opts Options) (*registry.Event, []match.Record, error) {
	if existing, err := reg.FindByID(opts.EventID); err != nil {
		return nil, nil, err
	} else if existing != nil && !opts.Overwrite {
		return nil, nil, fmt.Errorf("%w: %s is event #%d",
			registry.ErrDuplicateEvent, opts.EventID, existing.EventNum)
	}

	var ros roster.Roster
	if opts.Team != roster.NoTeam {
		var err error
		ros, err = s.FetchRoster(ctx, opts.EventID, opts.Team)
		if err != nil {
			return nil, nil, err
		}
	}

	eventNum, err := reg.AllocateEventNum()
	if err != nil {
		return nil, nil, err
	}

	var records []match.Record
	for round := 1; round <= opts.NumRounds; round++ {
		candidates, err := s.FetchRound(ctx, opts.EventID, round)
		if err != nil {
			return nil, nil, fmt.Errorf("round %d: %w", round, err)
		}

		kept := filter.Apply(candidates, ros)
		for i := range kept {
			kept[i].EventNum = eventNum
			kept[i].EventID = opts.EventID
			if ros != nil {
				kept[i].Player1Faction = factionOf(ros, kept[i].Player1)
				kept[i].Player2Faction = factionOf(ros, kept[i].Player2)
			}
		}
		records = append(records, kept...)

		logger.Info("round parsed", logger.Fields{
			"event_id":   opts.EventID,
			"round":      round,
			"candidates": len(candidates),
			"kept":       len(kept),
		})

		if round < opts.NumRounds {
			if err := s.roundPacer.Wait(ctx); err != nil {
				return nil, nil, err
			}
		}
	}

	evt := &registry.Event{
		EventNum:    eventNum,
		EventID:     opts.EventID,
		Name:        opts.Name,
		NumRounds:   opts.NumRounds,
		ScrapedDate: time.Now().UTC().Format(time.RFC3339),
	}
	if err := reg.StoreEvent(evt, records, opts.Overwrite); err != nil {
		return nil, nil, err
	}

	logger.Info("event stored", logger.Fields{
		"event_num": evt.EventNum,
		"event_id":  evt.EventID,
		"matches":   len(records),
	})
	return evt, records, nil
}

func factionOf(ros roster.Roster, player string) string {
	if faction, ok := ros[player]; ok {
		return faction
	}
	return roster.UnknownFaction
}
