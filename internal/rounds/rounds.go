// Package rounds parses one round's pairings page into candidate match
// records.
//
// A round page holds discrete match "cards", each an anchor element whose
// paragraph texts carry the table number, both player names, per-player
// scores, and a result token next to the first player. The parser walks the
// cards in page order and emits a record per decided match; candidate
// records are unfiltered and carry no event metadata, both are the
// orchestrator's job.
package rounds

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/boada/mc-elo/internal/logger"
	"github.com/boada/mc-elo/internal/match"
	"github.com/boada/mc-elo/internal/name"
)

// cardSelector matches the pairing cards on a round page. The class is
// emitted by the site's CSS-in-JS build and is the most stable hook the
// rendered markup offers.
const cardSelector = "a.css-1dgqwoj"

// Positions of the interesting texts inside a card's paragraph list.
const (
	player1Index = 1
	resultIndex  = 3
	player2Index = 5
	minCardTexts = 7
)

// ErrNoMatchCards indicates the page contained no match cards at all,
// meaning a bad round number or a broken page, never a legitimately empty
// round. A parsed round where every card was a bye succeeds with zero
// records instead.
var ErrNoMatchCards = errors.New("no match cards on page")

// Parse extracts candidate match records from rendered round-page content,
// in page-encounter order. Cards without a decipherable result are treated
// as byes and dropped; cards whose result token names neither participant
// are skipped and counted. Fails only when the page has no cards at all.
func Parse(content string, round int) ([]match.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing round page: %w", err)
	}

	cards := doc.Find(cardSelector)
	if cards.Length() == 0 {
		return nil, fmt.Errorf("%w: round %d", ErrNoMatchCards, round)
	}

	records := make([]match.Record, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		if rec, ok := parseCard(card, round); ok {
			records = append(records, rec)
		}
	})

	return records, nil
}

// parseCard turns one match card into a record. Returns ok=false for byes
// and malformed cards.
func parseCard(card *goquery.Selection, round int) (match.Record, bool) {
	var texts []string
	card.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			texts = append(texts, t)
		}
	})

	// Byes and unplayed pairings render as truncated cards.
	if len(texts) < minCardTexts {
		return match.Record{}, false
	}

	player1 := name.Normalize(texts[player1Index])
	player2 := name.Normalize(texts[player2Index])
	token := texts[resultIndex]

	if player1 == "" || player2 == "" {
		logger.Warn("skipping card with unparseable player name", logger.Fields{
			"round": round,
			"card":  strings.Join(texts, " | "),
		})
		logger.IncrCounter("rounds.cards_skipped")
		return match.Record{}, false
	}

	result, ok := resolveResult(token, player1, player2)
	if !ok {
		if isDecisionToken(token) {
			// A Win:/Loss: token naming neither participant means the card
			// text did not line up the way we expect.
			logger.Warn("skipping card with mismatched result token", logger.Fields{
				"round":   round,
				"token":   token,
				"player1": player1,
				"player2": player2,
			})
			logger.IncrCounter("rounds.cards_skipped")
		}
		// No recognizable token at all: bye, dropped without noise.
		return match.Record{}, false
	}

	return match.Record{
		Round:   round,
		Player1: player1,
		Player2: player2,
		Result:  result,
	}, true
}

const (
	winPrefix  = "Win:"
	lossPrefix = "Loss:"
)

// resolveResult maps a result token onto the two parsed players. The named
// winner (or loser) anchors the result to whichever player it matches; the
// other player gets the complement.
func resolveResult(token, player1, player2 string) (float64, bool) {
	switch {
	case strings.HasPrefix(token, winPrefix):
		winner := name.Normalize(strings.TrimPrefix(token, winPrefix))
		switch winner {
		case player1:
			return match.ResultWin, true
		case player2:
			return match.ResultLoss, true
		}
		return 0, false

	case strings.HasPrefix(token, lossPrefix):
		loser := name.Normalize(strings.TrimPrefix(token, lossPrefix))
		switch loser {
		case player1:
			return match.ResultLoss, true
		case player2:
			return match.ResultWin, true
		}
		return 0, false

	case isDrawToken(token):
		return match.ResultDraw, true
	}

	return 0, false
}

// isDrawToken recognizes the draw marker. Only Win:/Loss: tokens are
// documented for the pairing site; treat anything mentioning a draw or tie
// as a draw and everything else as a bye.
func isDrawToken(token string) bool {
	lower := strings.ToLower(token)
	return strings.Contains(lower, "draw") || strings.Contains(lower, "tie")
}

func isDecisionToken(token string) bool {
	return strings.HasPrefix(token, winPrefix) || strings.HasPrefix(token, lossPrefix)
}
