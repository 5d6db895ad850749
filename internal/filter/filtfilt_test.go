package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "eegprep/internal/errors"
)

func genSine(n int, freqHz, rateHz, amp float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = amp * math.Sin(2*math.Pi*freqHz*float64(i)/rateHz)
	}
	return x
}

func TestFiltFilt_ZeroPhaseInPassband(t *testing.T) {
	b, a, err := Bandpass(4, 0.004, 0.32)
	require.NoError(t, err)

	x := genSine(2500, 10, 250, 1.0)
	y, err := FiltFilt(b, a, x)
	require.NoError(t, err)
	require.Len(t, y, len(x))

	// A pass-band sine comes through without phase shift or attenuation;
	// only compare away from the edges.
	for i := 200; i < len(x)-200; i++ {
		assert.InDelta(t, x[i], y[i], 0.05, "sample %d", i)
	}
}

func TestFiltFilt_Deterministic(t *testing.T) {
	b, a, err := Bandpass(4, 0.004, 0.32)
	require.NoError(t, err)

	x := genSine(500, 7, 250, 2.0)
	y1, err := FiltFilt(b, a, x)
	require.NoError(t, err)
	y2, err := FiltFilt(b, a, x)
	require.NoError(t, err)

	assert.Equal(t, y1, y2)
}

func TestFiltFilt_TooShortSignal(t *testing.T) {
	b, a, err := Bandpass(4, 0.004, 0.32)
	require.NoError(t, err)

	// padding length is 3*(9-1) = 24
	x := genSine(24, 10, 250, 1.0)
	_, err = FiltFilt(b, a, x)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFilterApply))
}

func TestLfilterZi_SuppressesStepTransient(t *testing.T) {
	b, a, err := Highpass(2, 0.004)
	require.NoError(t, err)

	zi, err := lfilterZi(b, a)
	require.NoError(t, err)
	require.Len(t, zi, 2)

	// With the steady-state initial conditions, a constant input produces
	// the DC response from the very first sample: zero for a high-pass.
	x := make([]float64, 100)
	for i := range x {
		x[i] = 5
	}
	scaled := []float64{zi[0] * 5, zi[1] * 5}
	y := lfilter(b, a, x, scaled)

	for i, v := range y {
		assert.InDelta(t, 0.0, v, 1e-9, "sample %d", i)
	}
}

func TestLfilter_IdentityFilter(t *testing.T) {
	x := []float64{1, -2, 3.5, 0}
	y := lfilter([]float64{1}, []float64{1}, x, nil)
	assert.Equal(t, x, y)
}

func TestOddExt(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	ext := oddExt(x, 2)

	// Odd reflection about the end points
	assert.Equal(t, []float64{-1, 0, 1, 2, 3, 4, 5, 6, 7}, ext)
}

func TestReverse(t *testing.T) {
	x := []float64{1, 2, 3}
	reverse(x)
	assert.Equal(t, []float64{3, 2, 1}, x)

	y := []float64{1, 2}
	reverse(y)
	assert.Equal(t, []float64{2, 1}, y)
}
