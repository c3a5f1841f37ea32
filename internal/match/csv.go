package match

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSV column sets. Faction columns are present only when the event was
// scraped with a team filter.
var (
	baseColumns    = []string{"event_num", "event_id", "round", "player1", "player2", "result"}
	factionColumns = append(append([]string{}, baseColumns...), "player1_faction", "player2_faction")
)

// WriteCSV writes records as CSV with a header row. Faction columns are
// included if any record carries faction data.
func WriteCSV(w io.Writer, records []Record) error {
	withFactions := false
	for _, rec := range records {
		if rec.HasFactions() {
			withFactions = true
			break
		}
	}

	cw := csv.NewWriter(w)

	header := baseColumns
	if withFactions {
		header = factionColumns
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.EventNum),
			rec.EventID,
			strconv.Itoa(rec.Round),
			rec.Player1,
			rec.Player2,
			formatResult(rec.Result),
		}
		if withFactions {
			row = append(row, rec.Player1Faction, rec.Player2Faction)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses records from CSV produced by WriteCSV. Any malformed row or
// illegal result value fails the whole read; history files are trusted input
// and a partial read would silently skew ratings.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty match file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, h := range baseColumns {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("missing column %q", h)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		rec, err := rowToRecord(row, col)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func rowToRecord(row []string, col map[string]int) (Record, error) {
	field := func(name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	eventNum, err := strconv.Atoi(field("event_num"))
	if err != nil {
		return Record{}, fmt.Errorf("bad event_num %q", field("event_num"))
	}
	round, err := strconv.Atoi(field("round"))
	if err != nil {
		return Record{}, fmt.Errorf("bad round %q", field("round"))
	}
	result, err := strconv.ParseFloat(field("result"), 64)
	if err != nil || !ValidResult(result) {
		return Record{}, fmt.Errorf("bad result %q", field("result"))
	}

	return Record{
		EventNum:       eventNum,
		EventID:        field("event_id"),
		Round:          round,
		Player1:        field("player1"),
		Player2:        field("player2"),
		Result:         result,
		Player1Faction: field("player1_faction"),
		Player2Faction: field("player2_faction"),
	}, nil
}

func formatResult(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
