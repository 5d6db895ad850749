package batch

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"eegprep/internal/table"
)

// SampleStats describes one inspected recording
type SampleStats struct {
	Path     string
	Rows     int
	Channels []string
	// Duration is the recording length in seconds at the configured
	// sampling rate
	Duration float64
	Min      float64
	Max      float64
	Mean     float64
}

// InspectReport is the result of surveying a tree for filtered recordings
type InspectReport struct {
	// Subjects maps each subject folder to the filtered files it holds
	Subjects map[string][]string
	Found    int
	Sample   *SampleStats
}

// InspectAll surveys the tree under root for filtered target files,
// groups them by subject folder and characterizes the first file found.
func (o *Orchestrator) InspectAll(ctx context.Context, root string) (*InspectReport, error) {
	filtered := make([]string, 0, len(o.cfg.Batch.TargetFiles))
	for _, t := range o.cfg.Batch.TargetFiles {
		filtered = append(filtered, table.OutputPath(t, o.cfg.Batch.OutputSuffix))
	}

	candidates, _, err := findTargets(root, filtered)
	if err != nil {
		return nil, err
	}

	report := &InspectReport{
		Subjects: make(map[string][]string),
		Found:    len(candidates),
	}
	for _, cand := range candidates {
		name := baseName(cand.Path) + ".csv"
		report.Subjects[cand.Subject] = append(report.Subjects[cand.Subject], name)
	}

	if len(candidates) > 0 {
		stats, err := o.sampleStats(candidates[0].Path)
		if err != nil {
			o.logger.Error("Failed to inspect sample file",
				slog.String("file", candidates[0].Path),
				slog.String("error", err.Error()))
		} else {
			report.Sample = stats
		}
	}

	o.logger.InfoContext(ctx, "Inspection complete",
		slog.String("root", root),
		slog.Int("found", report.Found),
		slog.Int("subjects", len(report.Subjects)))

	return report, nil
}

// sampleStats loads one recording and summarizes its shape and value range
func (o *Orchestrator) sampleStats(path string) (*SampleStats, error) {
	raw, _, err := o.loader.Load(path, table.DefaultDelimiters)
	if err != nil {
		return nil, err
	}
	rec := raw.Numeric()

	stats := &SampleStats{
		Path:     path,
		Rows:     rec.NumRows(),
		Channels: rec.Columns,
		Duration: float64(rec.NumRows()) / o.cfg.Sampling.SamplingRate,
		Min:      math.Inf(1),
		Max:      math.Inf(-1),
	}

	sum := 0.0
	count := 0
	for _, row := range rec.Data {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if v < stats.Min {
				stats.Min = v
			}
			if v > stats.Max {
				stats.Max = v
			}
			sum += v
			count++
		}
	}
	if count > 0 {
		stats.Mean = sum / float64(count)
	} else {
		stats.Min = math.NaN()
		stats.Max = math.NaN()
		stats.Mean = math.NaN()
	}

	return stats, nil
}

// Render formats the report for terminal display
func (r *InspectReport) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d filtered recordings across %d subjects\n", r.Found, len(r.Subjects))

	subjects := make([]string, 0, len(r.Subjects))
	for s := range r.Subjects {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	for _, s := range subjects {
		fmt.Fprintf(&b, "\n%s:\n", s)
		files := append([]string(nil), r.Subjects[s]...)
		sort.Strings(files)
		for _, f := range files {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
	}

	if r.Sample != nil {
		fmt.Fprintf(&b, "\nSample file: %s\n", r.Sample.Path)
		fmt.Fprintf(&b, "Shape: %d rows x %d channels\n", r.Sample.Rows, len(r.Sample.Channels))
		fmt.Fprintf(&b, "Duration: %.2f seconds\n", r.Sample.Duration)
		fmt.Fprintf(&b, "Channels: %s\n", strings.Join(r.Sample.Channels, ", "))
		fmt.Fprintf(&b, "Min: %.2f  Max: %.2f  Mean: %.2f\n", r.Sample.Min, r.Sample.Max, r.Sample.Mean)
	}

	return b.String()
}
