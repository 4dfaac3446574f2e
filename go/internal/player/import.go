package player

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is a players file encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ParseFile reads rows of name, position, team[, espn_id[, eligible]]. A
// leading header row whose first cell is "name" is skipped.
func ParseFile(r io.Reader, format Format) ([]UpsertPlayerParams, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		records, err = cr.ReadAll()
	case FormatXLSX:
		records, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return recordsToPlayers(records)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func recordsToPlayers(records [][]string) ([]UpsertPlayerParams, error) {
	if len(records) > 0 && len(records[0]) > 0 && strings.EqualFold(strings.TrimSpace(records[0][0]), "name") {
		records = records[1:]
	}

	out := make([]UpsertPlayerParams, 0, len(records))
	for i, rec := range records {
		if isBlank(rec) {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("row %d: want at least name, position and team", i+1)
		}
		p := UpsertPlayerParams{
			Name:     rec[0],
			Position: rec[1],
			Team:     rec[2],
		}
		if len(rec) > 3 && strings.TrimSpace(rec[3]) != "" {
			id := strings.TrimSpace(rec[3])
			p.ESPNID = &id
		}
		if len(rec) > 4 && strings.TrimSpace(rec[4]) != "" {
			eligible, err := strconv.ParseBool(strings.TrimSpace(rec[4]))
			if err != nil {
				return nil, fmt.Errorf("row %d: eligible: %w", i+1, err)
			}
			p.Eligible = &eligible
		}
		out = append(out, p)
	}
	return out, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
