// Package dft provides the direct-definition discrete Fourier transform and
// the spectrum helpers the interpreter and the lab demonstrations build on.
//
// The kernel is the O(N²) textbook sum. It is not an FFT.
package dft

import (
	"math"
	"math/cmplx"
)

// Transform computes X[k] = Σ x[n]·e^(−2πikn/N) for k in [0, N).
func Transform(signal []float64) []complex128 {
	n := len(signal)
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var re, im float64
		for i, x := range signal {
			angle := -2 * math.Pi * float64(k) * float64(i) / float64(n)
			re += x * math.Cos(angle)
			im += x * math.Sin(angle)
		}
		out[k] = complex(re, im)
	}
	return out
}

// Magnitudes returns |X[k]| for every bin.
func Magnitudes(spectrum []complex128) []float64 {
	out := make([]float64, len(spectrum))
	for i, c := range spectrum {
		out[i] = cmplx.Abs(c)
	}
	return out
}

// Bins returns the frequencies i·fs/N for i in [0, N/2).
func Bins(n int, fs float64) []float64 {
	out := make([]float64, n/2)
	for i := range out {
		out[i] = float64(i) * fs / float64(n)
	}
	return out
}

// HalfSpectrum pairs Bins with the magnitudes of the first N/2 bins.
func HalfSpectrum(spectrum []complex128, fs float64) (freqs, mags []float64) {
	freqs = Bins(len(spectrum), fs)
	mags = Magnitudes(spectrum[:len(freqs)])
	return freqs, mags
}

// HermitianError checks X[N−k] = conj(X[k]) for k in [1, N−1] using 0-based
// indices, and reports the largest and mean deviation.
func HermitianError(spectrum []complex128) (maxErr, meanErr float64) {
	n := len(spectrum)
	if n < 2 {
		return 0, 0
	}
	var total float64
	for k := 1; k < n; k++ {
		e := cmplx.Abs(spectrum[n-k] - cmplx.Conj(spectrum[k]))
		total += e
		maxErr = math.Max(maxErr, e)
	}
	return maxErr, total / float64(n-1)
}

// NegativeBin is the 1-based partner of bin k in an N point spectrum, as the
// lab handouts write it: N−k+2. k=1 (DC) pairs with itself.
func NegativeBin(k, n int) int {
	kneg := n - k + 2
	if kneg > n {
		kneg -= n
	}
	return kneg
}

// At reads a spectrum with a 1-based index.
func At(spectrum []complex128, k int) complex128 {
	return spectrum[k-1]
}

// PairError is |X[k] − conj(X[k_neg])| for the 1-based pairing of NegativeBin.
func PairError(spectrum []complex128, k int) float64 {
	kneg := NegativeBin(k, len(spectrum))
	return cmplx.Abs(At(spectrum, k) - cmplx.Conj(At(spectrum, kneg)))
}
