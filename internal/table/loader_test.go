package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "eegprep/internal/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_Load_SemicolonDelimiter(t *testing.T) {
	path := writeTempFile(t, "rec.csv", "Fp1;Fp2;F3\n1;2;3\n4;5;6\n")

	loader := NewLoader(nil)
	raw, delim, err := loader.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ';', int32(delim))
	assert.Equal(t, []string{"Fp1", "Fp2", "F3"}, raw.Columns)
	assert.Equal(t, 2, raw.NumRows())
}

func TestLoader_Load_FallsBackToComma(t *testing.T) {
	path := writeTempFile(t, "rec.csv", "Fp1,Fp2\n1,2\n")

	loader := NewLoader(nil)
	raw, delim, err := loader.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ',', int32(delim))
	assert.Equal(t, []string{"Fp1", "Fp2"}, raw.Columns)
}

func TestLoader_Load_TabDelimiter(t *testing.T) {
	path := writeTempFile(t, "rec.csv", "Fp1\tFp2\n1\t2\n")

	loader := NewLoader(nil)
	raw, delim, err := loader.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, '\t', int32(delim))
	assert.Equal(t, 2, raw.NumColumns())
}

func TestLoader_Load_DelimiterPriority(t *testing.T) {
	// Semicolon wins over comma when both would parse to multiple columns
	path := writeTempFile(t, "rec.csv", "a;b,c\n1;2,3\n")

	loader := NewLoader(nil)
	raw, delim, err := loader.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ';', int32(delim))
	assert.Equal(t, []string{"a", "b,c"}, raw.Columns)
}

func TestLoader_Load_SingleColumnFails(t *testing.T) {
	path := writeTempFile(t, "rec.csv", "Fp1\n1\n2\n")

	loader := NewLoader(nil)
	_, _, err := loader.Load(path, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFormat))
}

func TestLoader_Load_MissingFile(t *testing.T) {
	loader := NewLoader(nil)
	_, _, err := loader.Load(filepath.Join(t.TempDir(), "missing.csv"), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeAccess))
}

func TestWriter_SaveAndReload(t *testing.T) {
	rec := &Recording{
		Columns: []string{"Fp1", "Fp2"},
		Data: [][]float64{
			{1.25, -2.5},
			{0.0001220703125, 1e6},
		},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	writer := NewWriter(nil)
	require.NoError(t, writer.Save(path, rec, ';'))

	loader := NewLoader(nil)
	raw, delim, err := loader.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ';', int32(delim))
	assert.Equal(t, rec.Columns, raw.Columns)

	reloaded := raw.Numeric()
	require.Equal(t, rec.NumRows(), reloaded.NumRows())
	// Full-precision formatting makes the round trip exact
	assert.Equal(t, rec.Data, reloaded.Data)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"task1_memorize.csv", "task1_memorize_filtered.csv"},
		{filepath.Join("sub01", "task2_viewing.csv"), filepath.Join("sub01", "task2_viewing_filtered.csv")},
		{"noext", "noext_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, OutputPath(tt.input, "_filtered"))
		})
	}
}
