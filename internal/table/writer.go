package table

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	apperrors "eegprep/internal/errors"
)

// Writer persists recordings as delimited text tables
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a new table writer
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// Save writes the recording to path with the given delimiter. Values are
// rendered at full floating-point precision; NaN cells are written as the
// empty missing-value token.
func (w *Writer) Save(path string, rec *Recording, delimiter rune) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = delimiter
	defer writer.Flush()

	if err := writer.Write(rec.Columns); err != nil {
		return apperrors.NewStorageError("failed to write header", err)
	}

	record := make([]string, rec.NumColumns())
	for i, row := range rec.Data {
		for j, v := range row {
			if math.IsNaN(v) {
				record[j] = ""
			} else {
				record[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to flush %s", path), err)
	}

	w.logger.Debug("Table saved",
		slog.String("file", path),
		slog.Int("rows", rec.NumRows()),
		slog.Int("columns", rec.NumColumns()))

	return nil
}

// SaveRaw writes a raw table back to disk with the given delimiter,
// preserving the original cell text of every retained row.
func (w *Writer) SaveRaw(path string, raw *RawTable, delimiter rune) error {
	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = delimiter

	if err := writer.Write(raw.Columns); err != nil {
		return apperrors.NewStorageError("failed to write header", err)
	}
	for i, row := range raw.Cells {
		if err := writer.Write(row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to flush %s", path), err)
	}
	return nil
}

// OutputPath derives the filtered-output path from an input path by
// inserting the suffix before the extension.
func OutputPath(inputPath, suffix string) string {
	ext := filepath.Ext(inputPath)
	base := inputPath[:len(inputPath)-len(ext)]
	return base + suffix + ext
}
