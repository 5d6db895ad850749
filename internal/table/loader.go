package table

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "eegprep/internal/errors"
)

// Loader reads delimited text tables and Excel workbooks into RawTables
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new table loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the table at path. Excel workbooks (.xlsx, .xls) are read from
// their first sheet; any other file is treated as delimited text and probed
// with the candidate delimiters in priority order. The winning delimiter is
// returned alongside the table; for Excel files it is the expected
// delimiter.
func (l *Loader) Load(path string, delimiters []rune) (*RawTable, rune, error) {
	if len(delimiters) == 0 {
		delimiters = DefaultDelimiters
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xls" {
		t, err := l.loadExcel(path)
		return t, ExpectedDelimiter, err
	}

	return l.loadDelimited(path, delimiters)
}

// loadDelimited probes the candidate delimiters in order and keeps the
// first parse that yields more than one column.
func (l *Loader) loadDelimited(path string, delimiters []rune) (*RawTable, rune, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, apperrors.NewAccessError(fmt.Sprintf("failed to read %s", path), err)
	}

	for _, delim := range delimiters {
		reader := csv.NewReader(strings.NewReader(string(data)))
		reader.Comma = delim
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		if len(records[0]) < 2 {
			continue
		}

		l.logger.Debug("Table parsed",
			slog.String("file", path),
			slog.String("delimiter", string(delim)),
			slog.Int("rows", len(records)-1),
			slog.Int("columns", len(records[0])))

		return &RawTable{
			Columns: records[0],
			Cells:   records[1:],
		}, delim, nil
	}

	return nil, 0, apperrors.NewFormatError(
		fmt.Sprintf("cannot parse %s with any candidate delimiter", path), nil)
}

// loadExcel reads the first sheet of an Excel workbook
func (l *Loader) loadExcel(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewAccessError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewFormatError(fmt.Sprintf("%s has no sheets", path), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewFormatError(fmt.Sprintf("failed to read sheet %s", sheets[0]), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewFormatError(fmt.Sprintf("%s sheet %s is empty", path, sheets[0]), nil)
	}

	l.logger.Debug("Excel table parsed",
		slog.String("file", path),
		slog.String("sheet", sheets[0]),
		slog.Int("rows", len(rows)-1),
		slog.Int("columns", len(rows[0])))

	return &RawTable{
		Columns: rows[0],
		Cells:   rows[1:],
	}, nil
}
