// Package csvimport turns an uploaded prospect list into lead rows.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"leadqual_backend/platform/sanitize"
)

// Columns recognised in the header row. Unknown columns are ignored and
// missing ones yield empty values.
const (
	ColName     = "name"
	ColRole     = "role"
	ColCompany  = "company"
	ColIndustry = "industry"
	ColLocation = "location"
	ColBio      = "linkedin_bio"
)

var (
	// ErrEmpty is returned when the input has no header or no data rows.
	ErrEmpty = errors.New("csv has no data rows")
	// ErrTooManyRows is returned when the row limit is exceeded.
	ErrTooManyRows = errors.New("csv has too many rows")
)

// Row is one prospect from the file.
type Row struct {
	Name     string
	Role     string
	Company  string
	Industry string
	Location string
	Bio      *string
}

// Parse reads a CSV with a header row. Cells are trimmed and sanitized, and
// lines whose cells are all blank are skipped. maxRows <= 0 means no limit.
func Parse(r io.Reader, maxRows int) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	index := headerIndex(header)

	rows := make([]Row, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		if blank(record) {
			continue
		}
		if maxRows > 0 && len(rows) == maxRows {
			return nil, fmt.Errorf("%w: limit %d", ErrTooManyRows, maxRows)
		}

		rows = append(rows, Row{
			Name:     sanitize.Field(cell(record, index, ColName)),
			Role:     sanitize.Field(cell(record, index, ColRole)),
			Company:  sanitize.Field(cell(record, index, ColCompany)),
			Industry: sanitize.Field(cell(record, index, ColIndustry)),
			Location: sanitize.Field(cell(record, index, ColLocation)),
			Bio:      bio(cell(record, index, ColBio)),
		})
	}

	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	return index
}

func cell(record []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func bio(raw string) *string {
	return sanitize.TextPtr(&raw)
}
