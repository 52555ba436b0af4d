package dft

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestTransformImpulse(t *testing.T) {
	x := []float64{1, 0, 0, 0, 0, 0, 0, 0}
	X := Transform(x)
	require.Len(t, X, len(x))
	for k, v := range X {
		assert.InDelta(t, 1.0, real(v), tol, "bin %d", k)
		assert.InDelta(t, 0.0, imag(v), tol, "bin %d", k)
	}
}

func TestTransformKnownValues(t *testing.T) {
	X := Transform([]float64{1, 2, 3, 4})
	want := []complex128{10, complex(-2, 2), -2, complex(-2, -2)}
	for k := range want {
		assert.InDelta(t, real(want[k]), real(X[k]), tol, "re bin %d", k)
		assert.InDelta(t, imag(want[k]), imag(X[k]), tol, "im bin %d", k)
	}
}

func TestTransformEmpty(t *testing.T) {
	assert.Empty(t, Transform(nil))
}

func TestHermitianSymmetryRandomSignals(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, n := range []int{1, 2, 3, 7, 16, 31, 64} {
		x := make([]float64, n)
		for i := range x {
			x[i] = rng.Float64()*2 - 1
		}
		X := Transform(x)
		for k := 1; k < n; k++ {
			diff := cmplx.Abs(X[n-k] - cmplx.Conj(X[k]))
			assert.Less(t, diff, 1e-9, "n=%d k=%d", n, k)
		}
		maxErr, meanErr := HermitianError(X)
		assert.Less(t, maxErr, 1e-9)
		assert.LessOrEqual(t, meanErr, maxErr)
	}
}

func TestNegativeBin(t *testing.T) {
	assert.Equal(t, 1, NegativeBin(1, 8))
	assert.Equal(t, 8, NegativeBin(2, 8))
	assert.Equal(t, 5, NegativeBin(5, 8))
	assert.Equal(t, 2, NegativeBin(8, 8))
}

func TestPairErrorOneBased(t *testing.T) {
	x := make([]float64, 32)
	for i := range x {
		x[i] = math.Sin(2*math.Pi*3*float64(i)/32) + 0.25*float64(i%5)
	}
	X := Transform(x)
	for k := 1; k <= len(X); k++ {
		assert.Less(t, PairError(X, k), 1e-9, "k=%d", k)
	}
}

func TestHalfSpectrumPeak(t *testing.T) {
	fs := 64.0
	x := make([]float64, 64)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * 8 * float64(i) / fs)
	}
	freqs, mags := HalfSpectrum(Transform(x), fs)
	require.Len(t, freqs, 32)
	peak := 0
	for i := range mags {
		if mags[i] > mags[peak] {
			peak = i
		}
	}
	assert.Equal(t, 8.0, freqs[peak])
	assert.InDelta(t, 32.0, mags[peak], 1e-9)
}

func TestHarmonicsAndReconstruct(t *testing.T) {
	n := 32
	x := make([]float64, n)
	for i := range x {
		th := 2 * math.Pi * float64(i) / float64(n)
		x[i] = 1.5 + 2*math.Cos(3*th) - 0.5*math.Sin(5*th)
	}
	dc, hs := Harmonics(Transform(x), 8)
	assert.InDelta(t, 1.5, dc, tol)
	require.Len(t, hs, 8)
	assert.InDelta(t, 2.0, hs[2].A, tol)
	assert.InDelta(t, 0.0, hs[2].B, tol)
	assert.InDelta(t, -0.5, hs[4].B, tol)
	assert.InDelta(t, 0.5, hs[4].Amplitude, tol)

	rebuilt := Reconstruct(dc, hs, n)
	_, rms, maxErr := Residual(x, rebuilt)
	assert.Less(t, rms, 1e-9)
	assert.Less(t, maxErr, 1e-9)
}

func TestHarmonicsNyquist(t *testing.T) {
	x := []float64{1, -1, 1, -1}
	dc, hs := Harmonics(Transform(x), 10)
	assert.InDelta(t, 0, dc, tol)
	require.Len(t, hs, 2)
	assert.InDelta(t, 1.0, hs[1].A, tol)
	_, rms, _ := Residual(x, Reconstruct(dc, hs, 4))
	assert.Less(t, rms, 1e-9)
}
