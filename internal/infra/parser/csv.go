package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xavierca1/lead-engine/internal/entity"
)

const (
	ColumnName            = "name"
	ColumnPhone           = "phone"
	ColumnEmail           = "email"
	ColumnSource          = "source"
	ColumnServiceInterest = "service_interest"
	ColumnLocation        = "location"
	ColumnTimestamp       = "timestamp"
)

// RequiredColumns must all be present in the header. email may be absent.
var RequiredColumns = []string{
	ColumnName,
	ColumnPhone,
	ColumnSource,
	ColumnServiceInterest,
	ColumnLocation,
	ColumnTimestamp,
}

var (
	ErrEmptyFile      = errors.New("empty file: no header row found")
	ErrMissingColumns = errors.New("missing required columns")
)

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Row keeps the file line number so validation errors can point back at it.
type Row struct {
	Line int
	Lead entity.RawLead
}

type ParseResult struct {
	Rows   []Row
	Errors []RowError
}

// ParseLeads reads a header row followed by lead rows. Rows that fail CSV
// decoding are reported in Errors and skipped; the rest are returned as-is
// for validation.
func ParseLeads(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = normalizeHeader(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	result := &ParseResult{}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			row := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				row = perr.StartLine
			}
			result.Errors = append(result.Errors, RowError{
				Row:     row,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}
		line, _ := reader.FieldPos(0)

		if isBlank(record) {
			continue
		}

		field := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		result.Rows = append(result.Rows, Row{
			Line: line,
			Lead: entity.RawLead{
				Name:            field(ColumnName),
				Phone:           field(ColumnPhone),
				Email:           field(ColumnEmail),
				Source:          field(ColumnSource),
				ServiceInterest: field(ColumnServiceInterest),
				Location:        field(ColumnLocation),
				Timestamp:       field(ColumnTimestamp),
			},
		})
	}

	return result, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
