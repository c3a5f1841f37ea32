// Package rating recomputes club Elo ratings from the full ordered match
// history.
//
// Ratings are never updated incrementally. Every recompute starts all
// players at the initial rating and folds over the entire history, so
// corrections to past events or to the team filter fully propagate and no
// stale "ghost" entries survive. Elo is path-dependent once three or more
// players share indirect history, which is why callers must pass records in
// canonical (event, round, encounter) order.
package rating

import (
	"math"
	"sort"

	"github.com/boada/mc-elo/internal/match"
)

const (
	// InitialRating is the rating assigned on a player's first recorded match.
	InitialRating = 1500.0

	// KFactor controls the rating swing per match.
	KFactor = 32.0
)

// Standing is a player's rating and record.
type Standing struct {
	Rating float64 `json:"rating"`
	Wins   int     `json:"wins"`
	Draws  int     `json:"draws"`
	Losses int     `json:"losses"`
}

// Standings maps player names to their standing.
type Standings map[string]Standing

// Expected returns the expected score of a player rated a against one
// rated b.
func Expected(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// Compute folds left-to-right over the ordered history and returns the
// final standings. Pure and deterministic: the same history always yields
// the same standings.
func Compute(history []match.Record) Standings {
	standings := make(Standings)

	get := func(player string) Standing {
		if s, ok := standings[player]; ok {
			return s
		}
		return Standing{Rating: InitialRating}
	}

	for _, rec := range history {
		s1 := get(rec.Player1)
		s2 := get(rec.Player2)

		// Both updates use the pre-match ratings so neither side of a
		// single record is order-biased.
		expected1 := Expected(s1.Rating, s2.Rating)
		s1.Rating += KFactor * (rec.Result - expected1)
		s2.Rating += KFactor * ((1 - rec.Result) - (1 - expected1))

		switch rec.Result {
		case match.ResultWin:
			s1.Wins++
			s2.Losses++
		case match.ResultLoss:
			s1.Losses++
			s2.Wins++
		case match.ResultDraw:
			s1.Draws++
			s2.Draws++
		}

		standings[rec.Player1] = s1
		standings[rec.Player2] = s2
	}

	return standings
}

// Ranked is a standing paired with its player name and rank position.
type Ranked struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Standing
}

// Rank orders standings by rating, highest first, breaking ties by player
// name for stable output.
func Rank(standings Standings) []Ranked {
	ranked := make([]Ranked, 0, len(standings))
	for player, s := range standings {
		ranked = append(ranked, Ranked{Player: player, Standing: s})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].Player < ranked[j].Player
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

// Average returns the mean rating across all standings, or 0 when empty.
func Average(standings Standings) float64 {
	if len(standings) == 0 {
		return 0
	}
	var sum float64
	for _, s := range standings {
		sum += s.Rating
	}
	return sum / float64(len(standings))
}
