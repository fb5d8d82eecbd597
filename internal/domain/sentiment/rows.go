package sentiment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	ColumnID        = "id"
	ColumnText      = "text"
	ColumnTimestamp = "timestamp"
)

const utf8BOM = "\ufeff"

// Row is the typed schema of one data row.
type Row struct {
	ID        int64
	Text      string
	Timestamp string // empty when the column or cell is absent
}

// Table is a decoded upload: the header as sent and rows in input order.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasTimestamp reports whether the upload carried a timestamp column.
func (t *Table) HasTimestamp() bool {
	for _, c := range t.Columns {
		if c == ColumnTimestamp {
			return true
		}
	}
	return false
}

// ParseTable decodes a CSV upload into typed rows. The first record is the
// header. A missing text column yields a ValidationError; every other failure,
// including a single bad row, yields a ProcessingError and no rows.
func ParseTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ProcessingError{Err: ErrEmptyUpload}
	}
	if err != nil {
		return nil, &ProcessingError{Err: err}
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		columns[i] = name
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	textIdx, ok := index[ColumnText]
	if !ok {
		return nil, &ValidationError{Err: ErrMissingTextColumn}
	}
	idIdx, ok := index[ColumnID]
	if !ok {
		return nil, &ProcessingError{Err: ErrMissingIDColumn}
	}
	tsIdx, hasTS := index[ColumnTimestamp]

	table := &Table{Columns: columns}
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ProcessingError{Row: n, Err: err}
		}

		id, err := parseID(rec[idIdx])
		if err != nil {
			return nil, &ProcessingError{Row: n, Err: err}
		}
		text := rec[textIdx]
		if text == "" {
			return nil, &ProcessingError{Row: n, Err: ErrEmptyText}
		}
		row := Row{ID: id, Text: text}
		if hasTS {
			row.Timestamp = strings.TrimSpace(rec[tsIdx])
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// parseID accepts plain integers and integral floats ("7", "7.0").
func parseID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrEmptyID
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return int64(f), nil
}
