// Package roster extracts a team's player roster and factions from the
// placings tab of an event page.
//
// The placings page lists entrants as repeating triplets of visible text
// lines: a "Player Name - TEAM NAME" line, a separator, and the player's
// faction on the line after that. The extractor scans those lines
// sequentially and keeps rows whose team matches the target. This is
// text-pattern parsing and inherently brittle to site redesigns, which is
// why finding zero rows is a hard error rather than an empty roster.
package roster

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/boada/mc-elo/internal/logger"
	"github.com/boada/mc-elo/internal/name"
)

// NoTeam disables team matching: every entrant row is accepted.
const NoTeam = ""

// UnknownFaction is recorded when a roster row has no readable faction line.
const UnknownFaction = "Unknown"

// ErrNotFound indicates that no entrant rows matched the target team. It
// usually means the page layout changed or the team name is misspelled, so
// callers must surface it instead of treating it as an empty team.
var ErrNotFound = errors.New("no roster rows found")

// Roster maps normalized player names to their faction.
type Roster map[string]string

// Contains reports whether the (already normalized) player is on the roster.
func (r Roster) Contains(player string) bool {
	_, ok := r[player]
	return ok
}

// Members returns the roster's player names in sorted order.
func (r Roster) Members() []string {
	members := make([]string, 0, len(r))
	for player := range r {
		members = append(members, player)
	}
	sort.Strings(members)
	return members
}

// Parse extracts the roster for team from rendered placings-page content.
// Team comparison is case-insensitive; NoTeam accepts every entrant row.
// Rows that cannot be parsed are skipped individually. Returns ErrNotFound
// if no row matched.
func Parse(content, team string) (Roster, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing placings page: %w", err)
	}

	lines := strings.Split(doc.Text(), "\n")
	ros := make(Roster)

	for i, line := range lines {
		playerRaw, rowTeam, ok := splitEntrantRow(strings.TrimSpace(line))
		if !ok {
			continue
		}
		if team != NoTeam && !strings.EqualFold(rowTeam, team) {
			continue
		}

		player := name.Normalize(playerRaw)
		if player == "" {
			logger.Warn("skipping unparseable roster row", logger.Fields{
				"line": line,
			})
			logger.IncrCounter("roster.rows_skipped")
			continue
		}

		// Faction sits two lines below the entrant row, past a separator.
		faction := UnknownFaction
		if i+2 < len(lines) {
			if f := strings.TrimSpace(lines[i+2]); f != "" {
				faction = f
			}
		}

		ros[player] = faction
	}

	if len(ros) == 0 {
		return nil, fmt.Errorf("%w for team %q", ErrNotFound, team)
	}

	return ros, nil
}

// splitEntrantRow splits a "Player Name - TEAM NAME" line at its last " - "
// separator. Player names may themselves contain " - ", team names on the
// pairing site do not.
func splitEntrantRow(line string) (player, team string, ok bool) {
	idx := strings.LastIndex(line, " - ")
	if idx <= 0 {
		return "", "", false
	}

	player = strings.TrimSpace(line[:idx])
	team = strings.TrimSpace(line[idx+len(" - "):])
	if player == "" || team == "" {
		return "", "", false
	}

	return player, team, true
}
