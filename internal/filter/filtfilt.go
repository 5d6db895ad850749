package filter

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	apperrors "eegprep/internal/errors"
)

// lfilter applies the transfer function (b, a) to x in a single forward
// pass using the direct form II transposed structure. zi supplies the
// initial delay-line state and may be nil for zero initial conditions.
func lfilter(b, a, x, zi []float64) []float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	bn := make([]float64, n)
	copy(bn, b)
	an := make([]float64, n)
	copy(an, a)

	// Normalize so a[0] == 1.
	if an[0] != 1 {
		a0 := an[0]
		for i := range bn {
			bn[i] /= a0
		}
		for i := range an {
			an[i] /= a0
		}
	}

	y := make([]float64, len(x))
	if n < 2 {
		for m, xv := range x {
			y[m] = bn[0] * xv
		}
		return y
	}

	z := make([]float64, n-1)
	if zi != nil {
		copy(z, zi)
	}

	for m, xv := range x {
		yv := bn[0]*xv + z[0]
		for i := 0; i < n-2; i++ {
			z[i] = bn[i+1]*xv + z[i+1] - an[i+1]*yv
		}
		z[n-2] = bn[n-1]*xv - an[n-1]*yv
		y[m] = yv
	}
	return y
}

// lfilterZi computes the initial delay-line state that makes lfilter start
// from the steady-state response to a unit step, which suppresses the
// startup transient when the pad value is propagated through the filter.
func lfilterZi(b, a []float64) ([]float64, error) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n < 2 {
		return nil, nil
	}

	bn := make([]float64, n)
	copy(bn, b)
	an := make([]float64, n)
	copy(an, a)
	if an[0] != 1 {
		a0 := an[0]
		for i := range bn {
			bn[i] /= a0
		}
		for i := range an {
			an[i] /= a0
		}
	}

	// Solve (I - A^T) zi = B, with A the companion matrix of the
	// denominator and B[i] = b[i+1] - a[i+1]*b[0].
	m := n - 1
	iminusA := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			var v float64
			if i == j {
				v = 1
			}
			// companion(a)[0][j] = -a[j+1]; companion[i][i-1] = 1
			var cij float64
			if j == 0 {
				cij = -an[i+1]
			} else if i == j-1 {
				cij = 1
			}
			iminusA.Set(i, j, v-cij)
		}
	}

	rhs := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		rhs.SetVec(i, bn[i+1]-an[i+1]*bn[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(iminusA, rhs); err != nil {
		return nil, apperrors.NewFilterApplyError("failed to compute filter initial state", err)
	}

	out := make([]float64, m)
	for i := 0; i < m; i++ {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}

// FiltFilt applies the filter (b, a) forward and backward so the output has
// zero phase shift relative to the input. The signal is extended at both
// ends with an odd reflection before filtering to suppress edge
// transients, matching the conventional zero-phase procedure.
func FiltFilt(b, a, x []float64) ([]float64, error) {
	ntaps := len(a)
	if len(b) > ntaps {
		ntaps = len(b)
	}
	edge := 3 * (ntaps - 1)

	if len(x) <= edge {
		return nil, apperrors.NewFilterApplyError(
			fmt.Sprintf("signal length %d too short for padding length %d", len(x), edge), nil)
	}

	ext := oddExt(x, edge)

	zi, err := lfilterZi(b, a)
	if err != nil {
		return nil, err
	}

	scaled := make([]float64, len(zi))

	// Forward pass.
	for i, v := range zi {
		scaled[i] = v * ext[0]
	}
	y := lfilter(b, a, ext, scaled)

	// Backward pass.
	reverse(y)
	for i, v := range zi {
		scaled[i] = v * y[0]
	}
	y = lfilter(b, a, y, scaled)
	reverse(y)

	return y[edge : len(y)-edge], nil
}

// oddExt extends x by n samples at each end using odd reflection about the
// end points.
func oddExt(x []float64, n int) []float64 {
	out := make([]float64, 0, len(x)+2*n)
	for i := n; i >= 1; i-- {
		out = append(out, 2*x[0]-x[i])
	}
	out = append(out, x...)
	last := len(x) - 1
	for i := 1; i <= n; i++ {
		out = append(out, 2*x[last]-x[last-i])
	}
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
