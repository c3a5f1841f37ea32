// Package match defines the core match record model shared by the parsing,
// filtering, storage, and rating packages.
//
// A Record is one played game between two tracked players. Result is always
// expressed from player1's perspective: 1 is a win, 0 a loss, 0.5 a draw.
// Records are immutable once persisted; corrections happen by re-ingesting
// the event, never by editing rows in place.
package match

import "sort"

// Result values, from player1's perspective.
const (
	ResultLoss = 0.0
	ResultDraw = 0.5
	ResultWin  = 1.0
)

// Record represents a single match between two players.
type Record struct {
	EventNum       int
	EventID        string
	Round          int
	Player1        string
	Player2        string
	Result         float64
	Player1Faction string
	Player2Faction string
}

// ValidResult reports whether r is one of the three legal result values.
func ValidResult(r float64) bool {
	return r == ResultLoss || r == ResultDraw || r == ResultWin
}

// HasFactions reports whether the record carries faction data.
func (r Record) HasFactions() bool {
	return r.Player1Faction != "" || r.Player2Faction != ""
}

// Sort orders records by (event number, round), preserving in-page encounter
// order within a round. This is the canonical rating-input order.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].EventNum != records[j].EventNum {
			return records[i].EventNum < records[j].EventNum
		}
		return records[i].Round < records[j].Round
	})
}
