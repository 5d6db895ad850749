package batch

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	apperrors "eegprep/internal/errors"
	"eegprep/internal/table"
)

// CleanResult is the outcome of cleaning a single file
type CleanResult struct {
	Path        string
	RowsBefore  int
	RowsRemoved int
	Err         error
}

// CleanSummary aggregates a clean run
type CleanSummary struct {
	Files       int
	RowsRemoved int
	Failed      int
	Results     []CleanResult
}

// CleanAll rewrites every CSV under root in place, dropping rows that are
// entirely empty and then rows containing any missing or non-numeric
// cell. The original delimiter of each file is preserved.
func (o *Orchestrator) CleanAll(ctx context.Context, root string) (*CleanSummary, error) {
	files, err := findCSVFiles(root)
	if err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "Starting clean batch",
		slog.String("root", root),
		slog.Int("files", len(files)))

	summary := &CleanSummary{Files: len(files)}
	for _, path := range files {
		result := o.cleanFile(path)
		if result.Err != nil {
			summary.Failed++
			o.logger.Error("Failed to clean file",
				slog.String("file", path),
				slog.String("error", result.Err.Error()))
		} else {
			summary.RowsRemoved += result.RowsRemoved
			o.logger.Info("File cleaned",
				slog.String("file", path),
				slog.Int("rows_removed", result.RowsRemoved))
		}
		summary.Results = append(summary.Results, result)
	}

	o.logger.InfoContext(ctx, "Clean batch complete",
		slog.Int("files", summary.Files),
		slog.Int("rows_removed", summary.RowsRemoved),
		slog.Int("failed", summary.Failed))

	return summary, nil
}

func (o *Orchestrator) cleanFile(path string) CleanResult {
	result := CleanResult{Path: path}

	raw, delimiter, err := o.loader.Load(path, table.DefaultDelimiters)
	if err != nil {
		result.Err = err
		return result
	}
	result.RowsBefore = raw.NumRows()

	cleaned := &table.RawTable{Columns: raw.Columns}
	for _, row := range raw.Cells {
		if rowIsEmpty(row) {
			continue
		}
		if rowHasMissing(row, raw.NumColumns()) {
			continue
		}
		cleaned.Cells = append(cleaned.Cells, row)
	}
	result.RowsRemoved = result.RowsBefore - len(cleaned.Cells)

	if result.RowsRemoved == 0 {
		return result
	}
	if err := o.writer.SaveRaw(path, cleaned, delimiter); err != nil {
		result.Err = err
	}
	return result
}

// rowIsEmpty reports whether every cell of the row is empty or whitespace
func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowHasMissing reports whether any of the first width cells is absent,
// empty or fails numeric coercion.
func rowHasMissing(row []string, width int) bool {
	for j := 0; j < width; j++ {
		if j >= len(row) {
			return true
		}
		cell := strings.TrimSpace(row[j])
		if cell == "" {
			return true
		}
		if math.IsNaN(table.ParseCell(cell)) {
			return true
		}
	}
	return false
}

// RenameSummary aggregates a rename run
type RenameSummary struct {
	Renamed int
	Skipped int
}

// RenameAll renames raw recording files in every immediate subdirectory
// of root according to the lookup map: a file <key>.csv whose key appears
// in the map becomes <value>.csv in the same directory. Files already
// carrying a canonical name, or whose target already exists, are left
// alone and counted as skipped.
func (o *Orchestrator) RenameAll(ctx context.Context, root string, renameMap map[string]string) (*RenameSummary, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, apperrors.NewAccessError(fmt.Sprintf("failed to read directory %s", root), err)
	}

	summary := &RenameSummary{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		subject := filepath.Join(root, entry.Name())
		files, err := os.ReadDir(subject)
		if err != nil {
			o.logger.Error("Failed to read subject folder",
				slog.String("folder", subject),
				slog.String("error", err.Error()))
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), ".csv") {
				continue
			}
			key := baseName(f.Name())
			canonical, ok := renameMap[key]
			if !ok {
				summary.Skipped++
				continue
			}
			src := filepath.Join(subject, f.Name())
			dst := filepath.Join(subject, canonical+filepath.Ext(f.Name()))
			if _, err := os.Stat(dst); err == nil {
				o.logger.Warn("Rename target already exists",
					slog.String("source", src),
					slog.String("target", dst))
				summary.Skipped++
				continue
			}
			if err := os.Rename(src, dst); err != nil {
				return summary, apperrors.NewStorageError(fmt.Sprintf("failed to rename %s", src), err)
			}
			o.logger.Info("File renamed",
				slog.String("source", src),
				slog.String("target", dst))
			summary.Renamed++
		}
	}

	o.logger.InfoContext(ctx, "Rename batch complete",
		slog.String("root", root),
		slog.Int("renamed", summary.Renamed),
		slog.Int("skipped", summary.Skipped))

	return summary, nil
}

// PruneMode selects which CSV files a prune run keeps
type PruneMode string

const (
	// PruneKeepTargets keeps only files whose base name is in the
	// configured target set
	PruneKeepTargets PruneMode = "keep_targets"
	// PruneKeepFiltered keeps only files whose base name ends with the
	// configured output suffix
	PruneKeepFiltered PruneMode = "keep_filtered"
)

// PruneSummary aggregates a prune run
type PruneSummary struct {
	Deleted int
	Kept    int
}

// Prune deletes CSV files under root that the selected mode does not
// keep. Deletion is destructive and refused unless force is set; there is
// no interactive confirmation.
func (o *Orchestrator) Prune(ctx context.Context, root string, mode PruneMode, force bool) (*PruneSummary, error) {
	if !force {
		return nil, apperrors.NewConfigError("prune deletes files permanently; pass --force to proceed", nil)
	}

	var keep func(base string) bool
	switch mode {
	case PruneKeepTargets:
		targetSet := make(map[string]bool, len(o.cfg.Batch.TargetFiles))
		for _, t := range o.cfg.Batch.TargetFiles {
			targetSet[baseName(t)] = true
		}
		keep = func(base string) bool { return targetSet[base] }
	case PruneKeepFiltered:
		keep = func(base string) bool {
			return strings.HasSuffix(base, o.cfg.Batch.OutputSuffix)
		}
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown prune mode %q", mode), nil)
	}

	files, err := findCSVFiles(root)
	if err != nil {
		return nil, err
	}

	summary := &PruneSummary{}
	for _, path := range files {
		if keep(baseName(path)) {
			summary.Kept++
			continue
		}
		if err := os.Remove(path); err != nil {
			return summary, apperrors.NewStorageError(fmt.Sprintf("failed to delete %s", path), err)
		}
		o.logger.Info("File deleted", slog.String("file", path))
		summary.Deleted++
	}

	o.logger.InfoContext(ctx, "Prune complete",
		slog.String("root", root),
		slog.String("mode", string(mode)),
		slog.Int("deleted", summary.Deleted),
		slog.Int("kept", summary.Kept))

	return summary, nil
}
