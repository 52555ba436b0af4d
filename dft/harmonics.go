package dft

import (
	"math"
	"math/cmplx"
)

// Harmonic is bin k of a real signal's spectrum in trigonometric form:
// x contains A·cos(2πkn/N) + B·sin(2πkn/N), or equivalently
// Amplitude·cos(2πkn/N + Phase).
type Harmonic struct {
	K         int
	A         float64
	B         float64
	Amplitude float64
	Phase     float64
}

// Harmonics converts bins 1..count to trigonometric coefficients and returns
// them with the mean (DC) term. count is clamped to N/2.
func Harmonics(spectrum []complex128, count int) (dc float64, out []Harmonic) {
	n := len(spectrum)
	if n == 0 {
		return 0, nil
	}
	dc = real(spectrum[0]) / float64(n)
	count = min(count, n/2)
	for k := 1; k <= count; k++ {
		scale := 2 / float64(n)
		if 2*k == n {
			// The Nyquist bin has no negative-frequency partner.
			scale = 1 / float64(n)
		}
		x := spectrum[k]
		h := Harmonic{
			K: k,
			A: scale * real(x),
			B: -scale * imag(x),
		}
		h.Amplitude = math.Hypot(h.A, h.B)
		h.Phase = cmplx.Phase(x)
		out = append(out, h)
	}
	return dc, out
}

// Reconstruct rebuilds n samples from a DC term and a set of harmonics.
func Reconstruct(dc float64, harmonics []Harmonic, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		v := dc
		for _, h := range harmonics {
			angle := 2 * math.Pi * float64(h.K) * float64(i) / float64(n)
			v += h.A*math.Cos(angle) + h.B*math.Sin(angle)
		}
		out[i] = v
	}
	return out
}

// Residual returns the pointwise absolute error with its RMS and maximum.
func Residual(original, rebuilt []float64) (errs []float64, rms, maxErr float64) {
	n := min(len(original), len(rebuilt))
	errs = make([]float64, n)
	var sq float64
	for i := 0; i < n; i++ {
		e := math.Abs(original[i] - rebuilt[i])
		errs[i] = e
		sq += e * e
		maxErr = math.Max(maxErr, e)
	}
	if n > 0 {
		rms = math.Sqrt(sq / float64(n))
	}
	return errs, rms, maxErr
}
