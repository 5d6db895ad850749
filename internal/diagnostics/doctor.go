package diagnostics

import (
	"log/slog"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"eegprep/internal/config"
	"eegprep/internal/filter"
	"eegprep/internal/table"
)

// Domain thresholds for the check groups.
const (
	// minFileBytes flags smaller files as possibly incomplete
	minFileBytes = 100
	// minRowsForStability is the sample count under which filtering is
	// expected to be unstable
	minRowsForStability = 100
	// minValidRowsForFilter is the minimum count of rows without any
	// missing value for a meaningful filter probe
	minValidRowsForFilter = 50
	// maxMissingRatio is the tolerated fraction of missing values per
	// column
	maxMissingRatio = 0.5
	// extremeMagnitude is the absolute value beyond which samples are
	// flagged as extreme for this domain
	extremeMagnitude = 10000
	// minNumericFraction is the required numeric-cell fraction of the
	// whole table
	minNumericFraction = 0.8
	// probeColumns and probeRows bound the filter probe
	probeColumns = 3
	probeRows    = 100
)

// Doctor runs the diagnostic check battery over recording files
type Doctor struct {
	loader           *table.Loader
	spec             config.SamplingSpec
	expectedChannels int
	logger           *slog.Logger
}

// NewDoctor creates a diagnostics engine for the given sampling spec and
// expected channel count
func NewDoctor(loader *table.Loader, spec config.SamplingSpec, expectedChannels int, logger *slog.Logger) *Doctor {
	if logger == nil {
		logger = slog.Default()
	}
	if loader == nil {
		loader = table.NewLoader(logger)
	}
	return &Doctor{
		loader:           loader,
		spec:             spec,
		expectedChannels: expectedChannels,
		logger:           logger,
	}
}

// Diagnose runs all check groups against the file at path and returns the
// collected report. Only an unreadable or missing file short-circuits the
// battery; every other finding is recorded and checking continues.
func (d *Doctor) Diagnose(path string) *Report {
	report := NewReport(path)

	if fatal := d.checkAccess(path, report); fatal {
		d.logger.Warn("File not accessible, skipping remaining checks",
			slog.String("file", path))
		return report
	}

	// One parse is shared by the structural, content and filter groups;
	// they all reason about the same delimiter-selected table.
	raw, delim, loadErr := d.loader.Load(path, table.DefaultDelimiters)

	d.checkStructure(raw, delim, loadErr, report)
	d.checkContent(raw, report)
	d.checkFilterCompatibility(raw, report)

	d.logger.Debug("Diagnosis complete",
		slog.String("file", path),
		slog.Int("problems", len(report.Problems)))

	return report
}

// checkAccess verifies existence, readability and plausible size. The
// returned flag is true when the file cannot be read at all.
func (d *Doctor) checkAccess(path string, report *Report) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		report.Add(CategoryAccess, "File does not exist")
		return true
	}
	if err != nil {
		report.Add(CategoryAccess, "File access error: %v", err)
		return true
	}
	if info.IsDir() {
		report.Add(CategoryAccess, "Path is a directory, not a file")
		return true
	}

	f, err := os.Open(path)
	if err != nil {
		report.Add(CategoryAccess, "File is not readable (permission issue)")
		return true
	}
	f.Close()

	switch size := info.Size(); {
	case size == 0:
		report.Add(CategoryAccess, "File is empty (0 bytes)")
	case size < minFileBytes:
		report.Add(CategoryAccess, "File is very small (%d bytes) - possibly incomplete", size)
	}

	return false
}

// checkStructure validates the delimited layout of the table
func (d *Doctor) checkStructure(raw *table.RawTable, delim rune, loadErr error, report *Report) {
	if loadErr != nil {
		report.Add(CategoryFormat, "Cannot parse table with any candidate delimiter")
		return
	}

	if delim != table.ExpectedDelimiter {
		report.Add(CategoryFormat, "Using delimiter %q instead of expected %q",
			string(delim), string(table.ExpectedDelimiter))
	}

	if raw.NumRows() == 0 {
		report.Add(CategoryFormat, "File has no data rows (only header)")
	}

	if raw.NumColumns() < 2 {
		report.Add(CategoryFormat, "Too few columns (%d) - expected multiple channels", raw.NumColumns())
	}

	if raw.NumColumns() != d.expectedChannels {
		report.Add(CategoryFormat, "Unexpected number of channels (%d) - expected %d",
			raw.NumColumns(), d.expectedChannels)
	}

	if dups := raw.DuplicateColumns(); len(dups) > 0 {
		report.Add(CategoryFormat, "Duplicate column names found: %v", dups)
	}
}

// checkContent validates the numeric quality of every column and of the
// table as a whole. A degenerate column never stops the checks on its
// neighbours.
func (d *Doctor) checkContent(raw *table.RawTable, report *Report) {
	if raw == nil {
		report.Add(CategoryContent, "Cannot read file for data analysis")
		return
	}

	rec := raw.Numeric()
	if rec.NumRows() == 0 {
		report.Add(CategoryContent, "Table is completely empty")
		return
	}

	numericCells := 0
	for j, name := range rec.Columns {
		if n := raw.NonNumericCount(j); n > 0 {
			report.Add(CategoryContent, "Column '%s' has %d non-numeric values", name, n)
		}

		col := rec.Column(j)
		valid := dropNaN(col)
		numericCells += len(valid)

		missing := len(col) - len(valid)
		if missing == len(col) {
			report.Add(CategoryContent, "Column '%s' is entirely NaN/missing", name)
			continue
		}

		if ratio := float64(missing) / float64(len(col)); ratio > maxMissingRatio {
			report.Add(CategoryContent, "Column '%s' is %.1f%% NaN/missing", name, ratio*100)
		}

		finite := dropInf(valid)
		if len(finite) > 1 && stat.Variance(finite, nil) == 0 {
			report.Add(CategoryContent, "Column '%s' has zero variance (all same value: %s)",
				name, strconv.FormatFloat(finite[0], 'g', -1, 64))
		}

		lo, hi := minMax(valid)
		if math.Abs(lo) > extremeMagnitude || math.Abs(hi) > extremeMagnitude {
			report.Add(CategoryContent, "Column '%s' has extreme values (range: %.2f to %.2f)",
				name, lo, hi)
		}

		if hasInf(valid) {
			report.Add(CategoryContent, "Column '%s' contains infinite values", name)
		}
	}

	totalCells := rec.NumRows() * rec.NumColumns()
	if totalCells > 0 && float64(numericCells) < float64(totalCells)*minNumericFraction {
		report.Add(CategoryContent, "Less than %.0f%% of data is numeric (%d/%d)",
			minNumericFraction*100, numericCells, totalCells)
	}

	if rec.NumRows() < minRowsForStability {
		report.Add(CategoryContent, "Very few data points (%d) - may cause filter instability",
			rec.NumRows())
	}
}

// checkFilterCompatibility verifies the configured band against the
// sampling rate and probes the actual filter on a bounded sample of the
// leading columns.
func (d *Doctor) checkFilterCompatibility(raw *table.RawTable, report *Report) {
	if raw == nil {
		report.Add(CategoryFilter, "Cannot read file for filter compatibility check")
		return
	}

	rec := raw.Numeric()
	valid := rec.DropMissingRows()
	if valid.NumRows() < minValidRowsForFilter {
		report.Add(CategoryFilter, "Insufficient valid data points for reliable filtering (%d, need %d)",
			valid.NumRows(), minValidRowsForFilter)
		return
	}

	nyquist := d.spec.Nyquist()
	lowNorm := d.spec.Lowcut / nyquist
	highNorm := d.spec.Highcut / nyquist

	if lowNorm >= 1 || highNorm >= 1 {
		report.Add(CategoryFilter, "Filter frequency bounds exceed Nyquist frequency")
	}
	if lowNorm >= highNorm {
		report.Add(CategoryFilter, "Low cutoff frequency >= High cutoff frequency")
	}

	b, a, err := filter.Bandpass(d.spec.Order, lowNorm, highNorm)
	if err != nil {
		report.Add(CategoryFilter, "Filter design error: %v", err)
		return
	}

	limit := probeColumns
	if rec.NumColumns() < limit {
		limit = rec.NumColumns()
	}

	for j := 0; j < limit; j++ {
		col := dropNaN(rec.Column(j))
		if len(col) < minValidRowsForFilter {
			continue
		}

		sample := col
		if len(sample) > probeRows {
			sample = sample[:probeRows]
		}

		filtered, err := filter.FiltFilt(b, a, sample)
		if err != nil {
			report.Add(CategoryFilter, "Filter fails on column '%s': %v", rec.Columns[j], err)
			continue
		}

		if isAllZero(filtered) {
			report.Add(CategoryFilter, "Filter produces all zeros for column '%s'", rec.Columns[j])
		} else if !isAllFinite(filtered) {
			report.Add(CategoryFilter, "Filter produces non-finite values for column '%s'", rec.Columns[j])
		}
	}
}

func dropNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func dropInf(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func hasInf(x []float64) bool {
	for _, v := range x {
		if math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func minMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi := x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func isAllZero(x []float64) bool {
	for _, v := range x {
		if v != 0 {
			return false
		}
	}
	return true
}

func isAllFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
