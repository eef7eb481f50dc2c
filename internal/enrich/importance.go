package enrich

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/pkg/validator"
)

// ImportanceTable maps a Wikidata id to its [0,1] importance score.
type ImportanceTable map[string]float64

// Lookup returns the score for id, or nil if id is unknown.
func (t ImportanceTable) Lookup(id string) *float64 {
	if id == "" {
		return nil
	}
	if v, ok := t[id]; ok {
		score := v
		return &score
	}
	return nil
}

// LoadImportanceCSV parses the §6 two-column CSV (wikidata_id, score). A
// header row is detected by attempting to parse the first row's score
// column as a float; on parse failure row 1 is treated as a header and
// skipped, matching the §6 contract ("header optional").
func LoadImportanceCSV(r io.Reader) (ImportanceTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	table := make(ImportanceTable)
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("enrich: read importance csv: %w", err)
		}

		wikidataID := strings.TrimSpace(record[0])
		scoreStr := strings.TrimSpace(record[1])
		score, parseErr := strconv.ParseFloat(scoreStr, 64)

		if first {
			first = false
			if parseErr != nil {
				continue // header row
			}
		}
		if parseErr != nil {
			return nil, fmt.Errorf("enrich: invalid score %q for %q: %w", scoreStr, wikidataID, parseErr)
		}

		row := domain.ImportanceRow{WikidataID: wikidataID, Score: clamp01(score)}
		if err := validator.Validate(row); err != nil {
			return nil, fmt.Errorf("enrich: invalid importance row %+v: %w", row, err)
		}
		table[row.WikidataID] = row.Score
	}
	return table, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
