package batch

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"eegprep/internal/config"
	"eegprep/internal/diagnostics"
	"eegprep/internal/filter"
	"eegprep/internal/infrastructure"
	"eegprep/internal/table"
)

// Orchestrator runs the diagnostics and filter engines over every target
// file under a root directory
type Orchestrator struct {
	cfg    *config.Config
	loader *table.Loader
	writer *table.Writer
	doctor *diagnostics.Doctor
	engine *filter.Engine
	logger *slog.Logger
}

// New creates a batch orchestrator from the application configuration
func New(cfg *config.Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	loader := table.NewLoader(logger)
	return &Orchestrator{
		cfg:    cfg,
		loader: loader,
		writer: table.NewWriter(logger),
		doctor: diagnostics.NewDoctor(loader, cfg.Sampling, cfg.Batch.ExpectedChannels, logger),
		engine: filter.NewEngine(logger),
		logger: logger,
	}
}

// FileResult is the outcome of processing a single file
type FileResult struct {
	Path     string
	Output   string
	Statuses []filter.ChannelStatus
	Report   *diagnostics.Report
	Err      error
}

// Fallbacks counts the channels that did not survive the primary
// band-pass
func (r FileResult) Fallbacks() int {
	n := 0
	for _, s := range r.Statuses {
		if s.Outcome != filter.OutcomeFiltered {
			n++
		}
	}
	return n
}

// Summary aggregates a batch run
type Summary struct {
	Found       int
	Processed   int
	Problematic int
	Skipped     int
	Results     []FileResult
}

// FilterAll band-limits every target file under root and writes each
// result next to its input with the configured suffix. Files are
// processed independently, optionally in parallel; the summary is reduced
// from the per-file results after all workers return.
func (o *Orchestrator) FilterAll(ctx context.Context, root string) (*Summary, error) {
	candidates, skipped, err := findTargets(root, o.cfg.Batch.TargetFiles)
	if err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "Starting filter batch",
		slog.String("root", root),
		slog.Int("found", len(candidates)),
		slog.Int("skipped", skipped),
		slog.Int("workers", o.cfg.Batch.Workers))

	results := make([]FileResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Batch.Workers)
	for i, cand := range candidates {
		g.Go(func() error {
			results[i] = o.filterFile(gctx, cand)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Found: len(candidates), Skipped: skipped, Results: results}
	for _, r := range results {
		if r.Err != nil {
			summary.Problematic++
		} else {
			summary.Processed++
		}
	}

	o.logger.InfoContext(ctx, "Filter batch complete",
		slog.Int("found", summary.Found),
		slog.Int("processed", summary.Processed),
		slog.Int("problematic", summary.Problematic),
		slog.Int("skipped", summary.Skipped))

	return summary, nil
}

// filterFile loads, filters and persists one recording
func (o *Orchestrator) filterFile(ctx context.Context, cand Candidate) FileResult {
	logger := infrastructure.LoggerFromContext(ctx)
	result := FileResult{Path: cand.Path}

	raw, _, err := o.loader.Load(cand.Path, table.DefaultDelimiters)
	if err != nil {
		logger.Error("Failed to load recording",
			slog.String("file", cand.Path),
			slog.String("error", err.Error()))
		result.Err = err
		return result
	}

	rec := raw.Numeric()
	filtered, statuses, err := o.engine.ApplyBandlimit(rec, o.cfg.Sampling)
	if err != nil {
		logger.Error("Filtering failed",
			slog.String("file", cand.Path),
			slog.String("error", err.Error()))
		result.Err = err
		return result
	}
	result.Statuses = statuses

	outPath := table.OutputPath(cand.Path, o.cfg.Batch.OutputSuffix)
	if err := o.writer.Save(outPath, filtered, table.ExpectedDelimiter); err != nil {
		logger.Error("Failed to save filtered recording",
			slog.String("file", outPath),
			slog.String("error", err.Error()))
		result.Err = err
		return result
	}
	result.Output = outPath

	logger.Info("Recording filtered",
		slog.String("file", cand.Path),
		slog.String("output", outPath),
		slog.Int("channels", len(statuses)),
		slog.Int("fallbacks", result.Fallbacks()))

	return result
}

// DiagnoseAll runs the diagnostic battery over every target file under
// root. A file counts as problematic when its report holds at least one
// problem; diagnosis itself never fails a file.
func (o *Orchestrator) DiagnoseAll(ctx context.Context, root string) (*Summary, error) {
	candidates, skipped, err := findTargets(root, o.cfg.Batch.TargetFiles)
	if err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "Starting diagnostics batch",
		slog.String("root", root),
		slog.Int("found", len(candidates)),
		slog.Int("skipped", skipped))

	results := make([]FileResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Batch.Workers)
	for i, cand := range candidates {
		g.Go(func() error {
			report := o.doctor.Diagnose(cand.Path)
			results[i] = FileResult{Path: cand.Path, Report: report}
			infrastructure.LoggerFromContext(gctx).Debug("File diagnosed",
				slog.String("file", cand.Path),
				slog.Int("problems", len(report.Problems)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Found: len(candidates), Skipped: skipped, Results: results}
	for _, r := range results {
		if r.Report.HasProblems() {
			summary.Problematic++
		} else {
			summary.Processed++
		}
	}

	o.logger.InfoContext(ctx, "Diagnostics batch complete",
		slog.Int("found", summary.Found),
		slog.Int("clean", summary.Processed),
		slog.Int("problematic", summary.Problematic),
		slog.Int("skipped", summary.Skipped))

	return summary, nil
}
