// Package filter decides which candidate match records enter the rating
// pool.
//
// A single false positive here silently injects an outside player into the
// club's ratings, so the rules are deliberately strict: with a roster in
// effect, both players must be members.
package filter

import (
	"github.com/boada/mc-elo/internal/match"
	"github.com/boada/mc-elo/internal/roster"
)

// Keep reports whether a record belongs in the rating pool. A nil roster
// means no team filter and keeps everything; otherwise both players must be
// roster members. Names must already be normalized.
func Keep(rec match.Record, ros roster.Roster) bool {
	if ros == nil {
		return true
	}
	return ros.Contains(rec.Player1) && ros.Contains(rec.Player2)
}

// Apply returns only the records that pass Keep, preserving order.
// With a nil roster the input slice is returned unchanged.
func Apply(records []match.Record, ros roster.Roster) []match.Record {
	if ros == nil {
		return records
	}

	kept := make([]match.Record, 0, len(records))
	for _, rec := range records {
		if Keep(rec, ros) {
			kept = append(kept, rec)
		}
	}
	return kept
}
