// Package table provides the rectangular recording model shared by the
// diagnostics and filter engines, together with delimiter-probed loading
// and delimited saving.
//
// A loaded file is first held as a RawTable of unparsed cells so content
// checks can distinguish non-numeric cells from genuinely missing ones;
// the Numeric view coerces every cell to float64 with NaN standing in for
// anything that does not parse.
package table

import (
	"math"
	"strconv"
	"strings"
)

// DefaultDelimiters is the prioritized list of candidate field delimiters.
// The first delimiter yielding more than one column wins; semicolon is the
// expected convention for this dataset.
var DefaultDelimiters = []rune{';', ',', '\t'}

// ExpectedDelimiter is the delimiter convention for both input and output
// files.
const ExpectedDelimiter = ';'

// RawTable holds a delimited table before numeric coercion. Rows may be
// ragged as read from disk; the numeric view pads and truncates to the
// header width.
type RawTable struct {
	Columns []string
	Cells   [][]string
}

// NumRows returns the number of data rows
func (t *RawTable) NumRows() int {
	return len(t.Cells)
}

// NumColumns returns the header width
func (t *RawTable) NumColumns() int {
	return len(t.Columns)
}

// DuplicateColumns returns the column names that appear more than once,
// each reported a single time.
func (t *RawTable) DuplicateColumns() []string {
	seen := make(map[string]int, len(t.Columns))
	for _, name := range t.Columns {
		seen[name]++
	}

	var dups []string
	reported := make(map[string]bool)
	for _, name := range t.Columns {
		if seen[name] > 1 && !reported[name] {
			dups = append(dups, name)
			reported[name] = true
		}
	}
	return dups
}

// Numeric converts the raw table into a Recording. Cells that are empty
// or fail numeric coercion become NaN; rows shorter than the header are
// padded with NaN and longer rows are truncated to the header width.
func (t *RawTable) Numeric() *Recording {
	cols := t.NumColumns()
	data := make([][]float64, t.NumRows())
	for i, row := range t.Cells {
		parsed := make([]float64, cols)
		for j := 0; j < cols; j++ {
			if j < len(row) {
				parsed[j] = ParseCell(row[j])
			} else {
				parsed[j] = math.NaN()
			}
		}
		data[i] = parsed
	}
	return &Recording{Columns: append([]string(nil), t.Columns...), Data: data}
}

// NonNumericCount returns, for the given column index, the number of cells
// that are present (non-empty) but fail numeric coercion.
func (t *RawTable) NonNumericCount(col int) int {
	count := 0
	for _, row := range t.Cells {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			count++
		}
	}
	return count
}

// ParseCell coerces a single cell to float64. Empty or unparseable cells
// yield NaN.
func ParseCell(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Recording is a rectangular numeric table: rows are time samples at a
// fixed sampling interval, columns are named channels. Column order is
// preserved on output.
type Recording struct {
	Columns []string
	Data    [][]float64
}

// NumRows returns the number of samples
func (r *Recording) NumRows() int {
	return len(r.Data)
}

// NumColumns returns the number of channels
func (r *Recording) NumColumns() int {
	return len(r.Columns)
}

// Column returns a copy of the values of channel j
func (r *Recording) Column(j int) []float64 {
	col := make([]float64, len(r.Data))
	for i, row := range r.Data {
		col[i] = row[j]
	}
	return col
}

// SetColumn writes values into channel j. The length of values must match
// the row count.
func (r *Recording) SetColumn(j int, values []float64) {
	for i := range r.Data {
		r.Data[i][j] = values[i]
	}
}

// Clone returns a deep copy of the recording
func (r *Recording) Clone() *Recording {
	data := make([][]float64, len(r.Data))
	for i, row := range r.Data {
		data[i] = append([]float64(nil), row...)
	}
	return &Recording{Columns: append([]string(nil), r.Columns...), Data: data}
}

// DropMissingRows returns a new recording containing only the rows where
// every channel holds a finite or infinite number, i.e. no NaN cell.
func (r *Recording) DropMissingRows() *Recording {
	var data [][]float64
	for _, row := range r.Data {
		complete := true
		for _, v := range row {
			if math.IsNaN(v) {
				complete = false
				break
			}
		}
		if complete {
			data = append(data, append([]float64(nil), row...))
		}
	}
	return &Recording{Columns: append([]string(nil), r.Columns...), Data: data}
}
