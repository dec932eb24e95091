package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// csvRowsPerSection groups rows so one huge file does not become one section.
// The header row is repeated in every section to keep rows self-describing.
const csvRowsPerSection = 50

// CSVExtractor extracts groups of rows as tab-joined text sections.
type CSVExtractor struct{}

func (e *CSVExtractor) Extract(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := strings.Join(records[0], "\t")
	rows := records[1:]
	if len(rows) == 0 {
		return []string{header}, nil
	}

	var sections []string
	for start := 0; start < len(rows); start += csvRowsPerSection {
		end := min(start+csvRowsPerSection, len(rows))
		var text strings.Builder
		text.WriteString(header)
		for _, row := range rows[start:end] {
			text.WriteString("\n")
			text.WriteString(strings.Join(row, "\t"))
		}
		sections = append(sections, text.String())
	}
	return sections, nil
}
