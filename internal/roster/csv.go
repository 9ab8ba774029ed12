package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/jmcardoso/payplan/internal/encoding"
)

// header aliases accepted for each participant field, lowercased.
var csvColumns = map[string][]string{
	"name":  {"name", "participant", "full name"},
	"email": {"email", "e-mail", "mail"},
	"phone": {"phone", "telephone", "mobile"},
}

// ParseCSV reads a participant list from a CSV export. The file may come from
// arbitrary tools, so the encoding is detected and normalized to UTF-8 first.
// A header row naming at least one of name/email/phone is required; rows with
// no email or phone are skipped, since an unreachable participant is not
// worth keeping in the roster.
func ParseCSV(r io.Reader) ([]Participant, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	cols := mapColumns(rows[0])
	if len(cols) == 0 {
		return nil, fmt.Errorf("no participant columns found: expected a header with name, email, or phone")
	}

	var participants []Participant

	for _, row := range rows[1:] {
		p := Participant{
			Name:  cellValue(row, cols, "name"),
			Email: cellValue(row, cols, "email"),
			Phone: cellValue(row, cols, "phone"),
		}

		if p.Reachable() {
			participants = append(participants, p)
		}
	}

	return participants, nil
}

// mapColumns resolves header cells to field names via the alias table.
func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)

	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))

		for field, aliases := range csvColumns {
			for _, alias := range aliases {
				if name == alias {
					cols[field] = i
				}
			}
		}
	}

	return cols
}

func cellValue(row []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
