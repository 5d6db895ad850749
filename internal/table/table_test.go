package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		want    float64
		wantNaN bool
	}{
		{"plain number", "42.5", 42.5, false},
		{"negative", "-3.25", -3.25, false},
		{"scientific", "1.5e2", 150, false},
		{"whitespace padded", "  7 ", 7, false},
		{"empty", "", 0, true},
		{"whitespace only", "   ", 0, true},
		{"non-numeric", "abc", 0, true},
		{"mixed", "12x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCell(tt.cell)
			if tt.wantNaN {
				assert.True(t, math.IsNaN(got))
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRawTable_Numeric(t *testing.T) {
	raw := &RawTable{
		Columns: []string{"Fp1", "Fp2", "F3"},
		Cells: [][]string{
			{"1.5", "2.5", "3.5"},
			{"4", "bad", ""},
			{"7"},                       // short row is padded
			{"1", "2", "3", "ignored"},  // long row is truncated
		},
	}

	rec := raw.Numeric()
	require.Equal(t, 4, rec.NumRows())
	require.Equal(t, 3, rec.NumColumns())

	assert.Equal(t, []float64{1.5, 2.5, 3.5}, rec.Data[0])
	assert.Equal(t, 4.0, rec.Data[1][0])
	assert.True(t, math.IsNaN(rec.Data[1][1]))
	assert.True(t, math.IsNaN(rec.Data[1][2]))
	assert.True(t, math.IsNaN(rec.Data[2][1]))
	assert.Equal(t, []float64{1, 2, 3}, rec.Data[3])
}

func TestRawTable_NonNumericCount(t *testing.T) {
	raw := &RawTable{
		Columns: []string{"a", "b"},
		Cells: [][]string{
			{"1", "x"},
			{"", "y"},
			{"3", "2"},
		},
	}

	// Empty cells are missing, not non-numeric
	assert.Equal(t, 0, raw.NonNumericCount(0))
	assert.Equal(t, 2, raw.NonNumericCount(1))
}

func TestRawTable_DuplicateColumns(t *testing.T) {
	raw := &RawTable{Columns: []string{"Fp1", "Fp2", "Fp1", "Cz", "Fp1"}}
	assert.Equal(t, []string{"Fp1"}, raw.DuplicateColumns())

	raw = &RawTable{Columns: []string{"Fp1", "Fp2"}}
	assert.Empty(t, raw.DuplicateColumns())
}

func TestRecording_ColumnRoundTrip(t *testing.T) {
	rec := &Recording{
		Columns: []string{"a", "b"},
		Data:    [][]float64{{1, 2}, {3, 4}, {5, 6}},
	}

	assert.Equal(t, []float64{2, 4, 6}, rec.Column(1))

	rec.SetColumn(0, []float64{10, 30, 50})
	assert.Equal(t, []float64{10, 30, 50}, rec.Column(0))
	assert.Equal(t, []float64{2, 4, 6}, rec.Column(1))
}

func TestRecording_Clone(t *testing.T) {
	rec := &Recording{
		Columns: []string{"a"},
		Data:    [][]float64{{1}, {2}},
	}

	clone := rec.Clone()
	clone.Data[0][0] = 99
	clone.Columns[0] = "z"

	assert.Equal(t, 1.0, rec.Data[0][0])
	assert.Equal(t, "a", rec.Columns[0])
}

func TestRecording_DropMissingRows(t *testing.T) {
	nan := math.NaN()
	rec := &Recording{
		Columns: []string{"a", "b"},
		Data: [][]float64{
			{1, 2},
			{nan, 3},
			{4, 5},
			{6, nan},
		},
	}

	clean := rec.DropMissingRows()
	require.Equal(t, 2, clean.NumRows())
	assert.Equal(t, []float64{1, 2}, clean.Data[0])
	assert.Equal(t, []float64{4, 5}, clean.Data[1])
	// Original is untouched
	assert.Equal(t, 4, rec.NumRows())
}
