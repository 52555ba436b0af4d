package demo

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/timewinder-dev/labrun/dft"
	"github.com/timewinder-dev/labrun/lab"
)

// SymmetryRows is how many bin pairs a demonstration prints.
const SymmetryRows = 5

// SymmetryTolerance is the pairing error, relative to the largest bin,
// under which the spectrum is reported as Hermitian.
const SymmetryTolerance = 1e-9

type tone struct {
	freq float64
	amp  float64
	cos  bool
}

// signal is a sampled sum of tones around a DC offset.
type signal struct {
	fs    float64
	n     int
	dc    float64
	tones []tone
}

func (s signal) sample() (t, x []float64) {
	t = make([]float64, s.n)
	x = make([]float64, s.n)
	for i := range t {
		t[i] = float64(i) / s.fs
		v := s.dc
		for _, tn := range s.tones {
			angle := 2 * math.Pi * tn.freq * t[i]
			if tn.cos {
				v += tn.amp * math.Cos(angle)
			} else {
				v += tn.amp * math.Sin(angle)
			}
		}
		x[i] = v
	}
	return t, x
}

func (s signal) describe() string {
	out := fmt.Sprintf("fs = %g Hz, N = %d", s.fs, s.n)
	if s.dc != 0 {
		out += fmt.Sprintf(", DC = %g", s.dc)
	}
	for _, tn := range s.tones {
		fn := "sin"
		if tn.cos {
			fn = "cos"
		}
		out += fmt.Sprintf(", %g·%s(2π·%g·t)", tn.amp, fn, tn.freq)
	}
	return out
}

// pairErrors is |X[k] − conj(X[k_neg])| for the 1-based bins k = 2..N.
func pairErrors(spectrum []complex128) (ks, errs []float64) {
	for k := 2; k <= len(spectrum); k++ {
		ks = append(ks, float64(k))
		errs = append(errs, dft.PairError(spectrum, k))
	}
	return ks, errs
}

func stats(xs []float64) (maxVal, mean float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var total float64
	for _, x := range xs {
		total += x
		maxVal = math.Max(maxVal, x)
	}
	return maxVal, total / float64(len(xs))
}

// symmetryReport prints the first SymmetryRows pairs and the error summary.
func symmetryReport(spectrum []complex128, fs float64) []string {
	n := len(spectrum)
	lines := []string{fmt.Sprintf("Bin pairs, k_neg = N - k + 2 (1-based, N = %d):", n)}
	for k := 2; k < 2+SymmetryRows && k <= n; k++ {
		kneg := dft.NegativeBin(k, n)
		lines = append(lines, fmt.Sprintf("  k = %3d (%7.2f Hz)  k_neg = %3d  |X[k] - conj(X[k_neg])| = %.3e",
			k, float64(k-1)*fs/float64(n), kneg, dft.PairError(spectrum, k)))
	}
	_, errs := pairErrors(spectrum)
	maxErr, meanErr := stats(errs)
	lines = append(lines,
		fmt.Sprintf("Max symmetry error: %.3e", maxErr),
		fmt.Sprintf("Mean symmetry error: %.3e", meanErr),
	)
	peak, _ := stats(dft.Magnitudes(spectrum))
	if maxErr <= SymmetryTolerance*math.Max(1, peak) {
		lines = append(lines, "Hermitian symmetry holds: X[k_neg] = conj(X[k])")
	} else {
		lines = append(lines, "Hermitian symmetry violated")
	}
	return lines
}

type peak struct {
	bin  int
	freq float64
	mag  float64
}

// peaks returns the count largest bins of the half spectrum above DC,
// ordered by frequency.
func peaks(spectrum []complex128, fs float64, count int) []peak {
	freqs, mags := dft.HalfSpectrum(spectrum, fs)
	var all []peak
	for i := 1; i < len(mags); i++ {
		all = append(all, peak{bin: i, freq: freqs[i], mag: mags[i]})
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].mag > all[b].mag })
	if len(all) > count {
		all = all[:count]
	}
	sort.Slice(all, func(a, b int) bool { return all[a].bin < all[b].bin })
	return all
}

func spectrumSeries(spectrum []complex128, fs float64) lab.Series {
	freqs, mags := dft.HalfSpectrum(spectrum, fs)
	return lab.NewSeries(freqs, mags, lab.Line, "|X(f)|")
}

func formatComplex(c complex128) string {
	return fmt.Sprintf("%.4f%+.4fi", real(c), imag(c))
}

func phaseDegrees(c complex128) float64 {
	return cmplx.Phase(c) * 180 / math.Pi
}
