package filter

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"eegprep/internal/config"
	apperrors "eegprep/internal/errors"
	"eegprep/internal/table"
)

// ChannelOutcome tags how a channel made it through the filter engine
type ChannelOutcome string

const (
	// OutcomeFiltered means the band-pass filter produced a valid result
	OutcomeFiltered ChannelOutcome = "filtered"
	// OutcomeFallbackHighpass means the band-pass output was degenerate and
	// the high-pass-only fallback was used instead
	OutcomeFallbackHighpass ChannelOutcome = "fallback_highpass"
	// OutcomePassthroughOnError means every filtering attempt failed and
	// the sanitized input data was copied through unchanged
	OutcomePassthroughOnError ChannelOutcome = "passthrough_on_error"
)

// ChannelStatus records the per-channel outcome of a filtering pass
type ChannelStatus struct {
	Index   int
	Name    string
	Outcome ChannelOutcome
}

// fallbackOrder is the order of the high-pass-only fallback filter
const fallbackOrder = 2

// Floors applied to the normalized band edges: filter design is
// numerically undefined exactly at DC and at Nyquist.
const (
	minLowNorm  = 0.001
	maxHighNorm = 0.99
)

// Engine applies band-limiting filters to recordings
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a new filter engine
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// ApplyBandlimit band-limits every channel of the recording according to
// spec and reports the per-channel outcome. The input recording is never
// mutated; callers decide whether the returned recording replaces it.
//
// Channels are processed independently: a degenerate channel degrades
// through the fallback chain (band-pass, high-pass only, passthrough)
// without affecting its neighbours. The only fatal condition is a band
// that remains invalid after clamping into (0, Nyquist), which returns the
// sanitized input together with a FILTER_RANGE error.
func (e *Engine) ApplyBandlimit(rec *table.Recording, spec config.SamplingSpec) (*table.Recording, []ChannelStatus, error) {
	if rec.NumRows() == 0 || rec.NumColumns() == 0 {
		e.logger.Warn("Empty recording, nothing to filter",
			slog.Int("rows", rec.NumRows()),
			slog.Int("columns", rec.NumColumns()))
		return rec.Clone(), nil, nil
	}

	// A single corrupt sample must not poison the whole pipeline.
	sanitized, replaced := sanitize(rec)
	if replaced > 0 {
		e.logger.Warn("Recording contains non-finite values, replaced with zero",
			slog.Int("replaced", replaced))
	}

	nyquist := spec.Nyquist()
	lowNorm := math.Max(spec.Lowcut/nyquist, minLowNorm)
	highNorm := math.Min(spec.Highcut/nyquist, maxHighNorm)

	if lowNorm >= highNorm {
		err := apperrors.NewFilterRangeError(
			fmt.Sprintf("invalid frequency range %.2f-%.2f Hz at sampling rate %.0f Hz",
				spec.Lowcut, spec.Highcut, spec.SamplingRate))
		e.logger.Error("Band invalid after clamping",
			slog.Float64("low_norm", lowNorm),
			slog.Float64("high_norm", highNorm))
		return sanitized, nil, err
	}

	// One shared band-pass design for all channels.
	b, a, err := Bandpass(spec.Order, lowNorm, highNorm)
	if err != nil {
		e.logger.Error("Band-pass design failed, passing recording through",
			slog.String("error", err.Error()))
		statuses := make([]ChannelStatus, rec.NumColumns())
		for j, name := range rec.Columns {
			statuses[j] = ChannelStatus{Index: j, Name: name, Outcome: OutcomePassthroughOnError}
		}
		return sanitized, statuses, nil
	}

	out := sanitized.Clone()
	statuses := make([]ChannelStatus, rec.NumColumns())

	for j, name := range rec.Columns {
		channel := sanitized.Column(j)
		result, outcome := e.filterChannel(b, a, lowNorm, channel)
		out.SetColumn(j, result)
		statuses[j] = ChannelStatus{Index: j, Name: name, Outcome: outcome}

		if outcome != OutcomeFiltered {
			e.logger.Warn("Channel fell back",
				slog.Int("channel", j),
				slog.String("name", name),
				slog.String("outcome", string(outcome)))
		}
	}

	return out, statuses, nil
}

// filterChannel runs the fallback chain for a single channel and returns
// the surviving data together with its outcome tag. data is the sanitized
// channel and is returned unchanged in the passthrough case.
func (e *Engine) filterChannel(b, a []float64, lowNorm float64, data []float64) ([]float64, ChannelOutcome) {
	// Remove the DC offset before filtering.
	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	filtered, err := FiltFilt(b, a, centered)
	if err == nil && allFinite(filtered) && !allZero(filtered) {
		return filtered, OutcomeFiltered
	}
	if err != nil {
		e.logger.Debug("Band-pass application failed",
			slog.String("error", err.Error()))
	}

	// Fallback: lower-order high-pass at the low edge.
	hb, ha, hpErr := Highpass(fallbackOrder, lowNorm)
	if hpErr == nil {
		fallback := lfilter(hb, ha, centered, nil)
		// An all-zero fallback would silently erase the channel, so it
		// degrades to passthrough like a failed design does.
		if allFinite(fallback) && !allZero(fallback) {
			return fallback, OutcomeFallbackHighpass
		}
	}

	return data, OutcomePassthroughOnError
}

// sanitize clones the recording with every non-finite value replaced by
// zero, returning the clone and the number of replaced values.
func sanitize(rec *table.Recording) (*table.Recording, int) {
	out := rec.Clone()
	replaced := 0
	for _, row := range out.Data {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[j] = 0
				replaced++
			}
		}
	}
	return out, replaced
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func allZero(x []float64) bool {
	for _, v := range x {
		if v != 0 {
			return false
		}
	}
	return true
}
