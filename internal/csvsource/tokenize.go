// Package csvsource turns raw CSV exports into typed SourceRow values.
//
// Ragged rows are padded rather than rejected, and quote handling is a
// simple in/out toggle. A quoted field may contain commas but not newlines.
package csvsource

import (
	"fmt"
	"os"
	"strings"
)

// Tokenize splits text into header-keyed rows. Blank lines are dropped, the
// first remaining line is the header, and rows shorter than the header are
// padded with empty strings.
func Tokenize(text string) []SourceRow {
	var header []string

	var rows []SourceRow

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := SplitLine(line)

		if header == nil {
			header = make([]string, len(fields))
			for j, f := range fields {
				header[j] = strings.TrimSpace(f)
			}

			continue
		}

		rows = append(rows, newSourceRow(i+1, header, fields))
	}

	return rows
}

// SplitLine splits one CSV line on commas outside double quotes. Quote
// characters toggle the quoted state and are dropped from the output.
func SplitLine(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}

	return append(fields, strings.TrimSpace(cur.String()))
}

// ReadFile reads, decodes and tokenizes the CSV file at path.
func ReadFile(path string) ([]SourceRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return Tokenize(text), nil
}
