// Package registry persists ingested events and their match records under a
// local data directory.
//
// Layout:
//
//	<data-dir>/events.json          event registry and number counter
//	<data-dir>/events/event_NNN.csv per-event match records
//	<data-dir>/all_events.csv       combined history (written on recompute)
//	<data-dir>/ratings.json         current standings
//
// Event numbers come from a persisted counter and are burned on allocation:
// an ingestion that fails after allocating never returns its number to the
// pool. Single-operator usage is assumed; concurrent invocations must be
// serialized by the caller.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/boada/mc-elo/internal/match"
	"github.com/boada/mc-elo/internal/rating"
)

const (
	registryFileName = "events.json"
	eventsDirName    = "events"
	combinedFileName = "all_events.csv"
	ratingsFileName  = "ratings.json"
)

// ErrDuplicateEvent indicates the event ID has already been ingested and
// overwrite was not requested.
var ErrDuplicateEvent = errors.New("event already ingested")

// Event is one registered event's metadata. Immutable once stored; a
// re-scrape replaces the whole entry via overwrite, never edits it.
type Event struct {
	EventNum    int    `json:"event_num"`
	EventID     string `json:"event_id"`
	Name        string `json:"name"`
	NumRounds   int    `json:"num_rounds"`
	ScrapedDate string `json:"scraped_date"`
	CSVFile     string `json:"csv_file"`
}

type registryFile struct {
	Events       []Event `json:"events"`
	NextEventNum int     `json:"next_event_num"`
}

// Registry handles event persistence under a data directory.
type Registry struct {
	dataDir string
}

// New creates a Registry rooted at dataDir, creating the directory tree if
// needed. A leading ~/ is expanded to the user's home directory.
func New(dataDir string) (*Registry, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(filepath.Join(dataDir, eventsDirName), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Registry{dataDir: dataDir}, nil
}

// DataDir returns the resolved data directory.
func (r *Registry) DataDir() string {
	return r.dataDir
}

func (r *Registry) load() (*registryFile, error) {
	data, err := os.ReadFile(filepath.Join(r.dataDir, registryFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &registryFile{NextEventNum: 1}, nil
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	var reg registryFile
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	if reg.NextEventNum < 1 {
		reg.NextEventNum = 1
	}

	return &reg, nil
}

func (r *Registry) save(reg *registryFile) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dataDir, registryFileName), data, 0644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	return nil
}

// AllocateEventNum returns the next event number and persists the advanced
// counter immediately, so the number stays burned even if the ingestion
// that requested it later fails.
func (r *Registry) AllocateEventNum() (int, error) {
	reg, err := r.load()
	if err != nil {
		return 0, err
	}

	num := reg.NextEventNum
	reg.NextEventNum = num + 1
	if err := r.save(reg); err != nil {
		return 0, err
	}

	return num, nil
}

// FindByID looks up a registered event by its external event ID.
func (r *Registry) FindByID(eventID string) (*Event, error) {
	reg, err := r.load()
	if err != nil {
		return nil, err
	}
	return findByID(reg, eventID), nil
}

func findByID(reg *registryFile, eventID string) *Event {
	for i := range reg.Events {
		if reg.Events[i].EventID == eventID {
			return &reg.Events[i]
		}
	}
	return nil
}

// StoreEvent persists the event metadata and its filtered match records.
// Re-ingesting an already-registered event ID fails with ErrDuplicateEvent
// unless overwrite is set, in which case the entry and records are replaced
// under the original event number (evt and records are re-stamped).
func (r *Registry) StoreEvent(evt *Event, records []match.Record, overwrite bool) error {
	reg, err := r.load()
	if err != nil {
		return err
	}

	existing := findByID(reg, evt.EventID)
	if existing != nil {
		if !overwrite {
			return fmt.Errorf("%w: %s is event #%d", ErrDuplicateEvent, evt.EventID, existing.EventNum)
		}
		evt.EventNum = existing.EventNum
		for i := range records {
			records[i].EventNum = existing.EventNum
		}
	}

	evt.CSVFile = filepath.Join(eventsDirName, fmt.Sprintf("event_%03d.csv", evt.EventNum))
	if evt.Name == "" {
		evt.Name = fmt.Sprintf("Event %d", evt.EventNum)
	}

	f, err := os.Create(filepath.Join(r.dataDir, evt.CSVFile))
	if err != nil {
		return fmt.Errorf("creating event file: %w", err)
	}
	if err := match.WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing event file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing event file: %w", err)
	}

	if existing != nil {
		*existing = *evt
	} else {
		reg.Events = append(reg.Events, *evt)
	}

	return r.save(reg)
}

// Events returns all registered events ordered by event number.
func (r *Registry) Events() ([]Event, error) {
	reg, err := r.load()
	if err != nil {
		return nil, err
	}

	events := append([]Event{}, reg.Events...)
	sort.Slice(events, func(i, j int) bool {
		return events[i].EventNum < events[j].EventNum
	})

	return events, nil
}

// Combine concatenates every stored event's records into one history in
// canonical (event number, round, encounter) order. Any unreadable event
// file fails the whole combine; ratings must never be computed from a
// silently partial history.
func (r *Registry) Combine() ([]match.Record, error) {
	events, err := r.Events()
	if err != nil {
		return nil, err
	}

	var history []match.Record
	for _, evt := range events {
		f, err := os.Open(filepath.Join(r.dataDir, evt.CSVFile))
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", evt.CSVFile, err)
		}
		records, err := match.ReadCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", evt.CSVFile, err)
		}
		history = append(history, records...)
	}

	match.Sort(history)
	return history, nil
}

// WriteCombined writes the combined history artifact and returns it.
func (r *Registry) WriteCombined() ([]match.Record, error) {
	history, err := r.Combine()
	if err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(r.dataDir, combinedFileName))
	if err != nil {
		return nil, fmt.Errorf("creating combined file: %w", err)
	}
	if err := match.WriteCSV(f, history); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing combined file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing combined file: %w", err)
	}

	return history, nil
}

// SaveRatings persists current standings to ratings.json.
func (r *Registry) SaveRatings(standings rating.Standings) error {
	data, err := json.MarshalIndent(standings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ratings: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dataDir, ratingsFileName), data, 0644); err != nil {
		return fmt.Errorf("writing ratings: %w", err)
	}
	return nil
}

// LoadRatings reads the persisted standings. Missing ratings.json yields an
// empty Standings, matching a club with no recomputed history yet.
func (r *Registry) LoadRatings() (rating.Standings, error) {
	data, err := os.ReadFile(filepath.Join(r.dataDir, ratingsFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return rating.Standings{}, nil
		}
		return nil, fmt.Errorf("reading ratings: %w", err)
	}

	var standings rating.Standings
	if err := json.Unmarshal(data, &standings); err != nil {
		return nil, fmt.Errorf("parsing ratings: %w", err)
	}

	return standings, nil
}
