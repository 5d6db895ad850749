// Package filter implements the band-limiting filter engine: Butterworth
// filter design, zero-phase application, and the per-channel fallback
// chain that keeps a batch run alive when individual channels are
// numerically degenerate.
package filter

import (
	"fmt"
	"math"
	"math/cmplx"

	apperrors "eegprep/internal/errors"
)

// MaxOrder caps the requested filter order. Higher orders make the
// transfer-function representation numerically unstable at the narrow
// normalized bands this domain uses.
const MaxOrder = 4

// Bandpass designs a digital Butterworth band-pass filter and returns its
// transfer-function coefficients (b, a). lowNorm and highNorm are the band
// edges normalized to the Nyquist frequency and must satisfy
// 0 < lowNorm < highNorm < 1.
func Bandpass(order int, lowNorm, highNorm float64) ([]float64, []float64, error) {
	if err := checkNormalized(lowNorm); err != nil {
		return nil, nil, err
	}
	if err := checkNormalized(highNorm); err != nil {
		return nil, nil, err
	}
	if lowNorm >= highNorm {
		return nil, nil, apperrors.NewFilterRangeError(
			fmt.Sprintf("low edge %.4f must be below high edge %.4f", lowNorm, highNorm))
	}
	if order < 1 {
		return nil, nil, apperrors.NewFilterApplyError(fmt.Sprintf("invalid filter order %d", order), nil)
	}
	if order > MaxOrder {
		order = MaxOrder
	}

	// Pre-warp the band edges for the bilinear transform (fs = 2).
	warpedLow := 4 * math.Tan(math.Pi*lowNorm/2)
	warpedHigh := 4 * math.Tan(math.Pi*highNorm/2)
	bw := warpedHigh - warpedLow
	wo := math.Sqrt(warpedLow * warpedHigh)

	z, p, k := prototype(order)
	z, p, k = lp2bp(z, p, k, wo, bw)
	z, p, k = bilinear(z, p, k)

	b, a := zpk2tf(z, p, k)
	return b, a, nil
}

// Highpass designs a digital Butterworth high-pass filter at the given
// normalized cutoff and returns its transfer-function coefficients.
func Highpass(order int, cutNorm float64) ([]float64, []float64, error) {
	if err := checkNormalized(cutNorm); err != nil {
		return nil, nil, err
	}
	if order < 1 {
		return nil, nil, apperrors.NewFilterApplyError(fmt.Sprintf("invalid filter order %d", order), nil)
	}
	if order > MaxOrder {
		order = MaxOrder
	}

	warped := 4 * math.Tan(math.Pi*cutNorm/2)

	z, p, k := prototype(order)
	z, p, k = lp2hp(z, p, k, warped)
	z, p, k = bilinear(z, p, k)

	b, a := zpk2tf(z, p, k)
	return b, a, nil
}

func checkNormalized(w float64) error {
	if w <= 0 || w >= 1 {
		return apperrors.NewFilterRangeError(
			fmt.Sprintf("normalized frequency %.4f outside (0, 1)", w))
	}
	return nil
}

// prototype returns the zeros, poles and gain of the analog low-pass
// Butterworth prototype of the given order. The poles sit on the unit
// circle in the left half plane.
func prototype(order int) ([]complex128, []complex128, float64) {
	poles := make([]complex128, order)
	for i := 0; i < order; i++ {
		m := float64(-order + 1 + 2*i)
		theta := math.Pi * m / float64(2*order)
		poles[i] = -cmplx.Exp(complex(0, theta))
	}
	return nil, poles, 1.0
}

// lp2bp transforms an analog low-pass prototype to a band-pass filter with
// center frequency wo and bandwidth bw.
func lp2bp(z, p []complex128, k, wo, bw float64) ([]complex128, []complex128, float64) {
	degree := len(p) - len(z)
	half := complex(bw/2, 0)
	wo2 := complex(wo*wo, 0)

	scale := func(roots []complex128) []complex128 {
		out := make([]complex128, 0, 2*len(roots))
		for _, r := range roots {
			rs := r * half
			d := cmplx.Sqrt(rs*rs - wo2)
			out = append(out, rs+d, rs-d)
		}
		return out
	}

	zBP := scale(z)
	pBP := scale(p)
	for i := 0; i < degree; i++ {
		zBP = append(zBP, 0)
	}

	return zBP, pBP, k * math.Pow(bw, float64(degree))
}

// lp2hp transforms an analog low-pass prototype to a high-pass filter with
// cutoff frequency wo.
func lp2hp(z, p []complex128, k, wo float64) ([]complex128, []complex128, float64) {
	degree := len(p) - len(z)
	woC := complex(wo, 0)

	invert := func(roots []complex128) []complex128 {
		out := make([]complex128, len(roots))
		for i, r := range roots {
			out[i] = woC / r
		}
		return out
	}

	zHP := invert(z)
	pHP := invert(p)

	num := complex(1, 0)
	for _, r := range z {
		num *= -r
	}
	den := complex(1, 0)
	for _, r := range p {
		den *= -r
	}

	for i := 0; i < degree; i++ {
		zHP = append(zHP, 0)
	}

	return zHP, pHP, k * real(num/den)
}

// bilinear maps an analog filter to the digital domain with the bilinear
// transform at fs = 2.
func bilinear(z, p []complex128, k float64) ([]complex128, []complex128, float64) {
	const fs2 = 4.0 // 2 * fs
	degree := len(p) - len(z)

	warp := func(roots []complex128) []complex128 {
		out := make([]complex128, len(roots))
		for i, r := range roots {
			out[i] = (complex(fs2, 0) + r) / (complex(fs2, 0) - r)
		}
		return out
	}

	zD := warp(z)
	pD := warp(p)
	// Zeros moved to infinity by the analog design land at z = -1.
	for i := 0; i < degree; i++ {
		zD = append(zD, -1)
	}

	num := complex(1, 0)
	for _, r := range z {
		num *= complex(fs2, 0) - r
	}
	den := complex(1, 0)
	for _, r := range p {
		den *= complex(fs2, 0) - r
	}

	return zD, pD, k * real(num/den)
}

// zpk2tf expands zeros, poles and gain into polynomial transfer-function
// coefficients. The leading denominator coefficient is 1.
func zpk2tf(z, p []complex128, k float64) ([]float64, []float64) {
	bC := poly(z)
	aC := poly(p)

	b := make([]float64, len(bC))
	for i, c := range bC {
		b[i] = k * real(c)
	}
	a := make([]float64, len(aC))
	for i, c := range aC {
		a[i] = real(c)
	}
	return b, a
}

// poly expands a root list into monic polynomial coefficients, highest
// degree first.
func poly(roots []complex128) []complex128 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	return coeffs
}
