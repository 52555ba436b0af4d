package demo

import (
	"fmt"

	"github.com/timewinder-dev/labrun/dft"
	"github.com/timewinder-dev/labrun/lab"
)

var (
	basicSignal = signal{fs: 100, n: 100, tones: []tone{{freq: 5, amp: 1}}}

	twoToneSignal = signal{fs: 1000, n: 500, tones: []tone{
		{freq: 50, amp: 1},
		{freq: 120, amp: 0.5},
	}}

	trigSignal = signal{fs: 64, n: 64, dc: 0.5, tones: []tone{
		{freq: 4, amp: 2, cos: true},
		{freq: 8, amp: 1.5},
	}}
)

const (
	squareSamples = 64
	// ReconstructionHarmonics is the number of harmonics used to rebuild the
	// square wave.
	ReconstructionHarmonics = 8
)

// output accumulates one demonstration's transcript and dataset.
type output struct {
	plots      bool
	transcript []string
	dataset    lab.Dataset
}

func newOutput(title string, cfg lab.Config) *output {
	return &output{
		plots:      cfg.Plots(),
		transcript: []string{title},
		dataset:    make(lab.Dataset),
	}
}

func (o *output) println(format string, args ...any) {
	o.transcript = append(o.transcript, fmt.Sprintf(format, args...))
}

func (o *output) lines(ls []string) {
	o.transcript = append(o.transcript, ls...)
}

func (o *output) series(name string, s lab.Series) {
	if o.plots {
		o.dataset[name] = s
	}
}

func (o *output) result() lab.Result {
	return lab.Succeeded(o.transcript, o.dataset)
}

func runBasic(cfg lab.Config) lab.Result {
	out := newOutput(Basic.Marker(), cfg)
	sig := basicSignal
	t, x := sig.sample()
	spectrum := dft.Transform(x)

	out.println("Signal: %s", sig.describe())
	out.lines(symmetryReport(spectrum, sig.fs))
	maxErr, meanErr := dft.HermitianError(spectrum)
	out.println("Standard check X[N-k] = conj(X[k]) (0-based): max %.3e, mean %.3e", maxErr, meanErr)

	ks, errs := pairErrors(spectrum)
	out.series(lab.TimeSeries, lab.NewSeries(t, x, lab.Line, "x(t)"))
	out.series(lab.FrequencySeries, spectrumSeries(spectrum, sig.fs))
	out.series(lab.ErrorSeries, lab.NewSeries(ks, errs, lab.Marker, "|X[k] - conj(X[k_neg])|"))
	return out.result()
}

func runTwoTone(cfg lab.Config) lab.Result {
	out := newOutput(TwoTone.Marker(), cfg)
	sig := twoToneSignal
	t, x := sig.sample()
	spectrum := dft.Transform(x)

	out.println("Signal: %s", sig.describe())
	out.println("Frequency resolution: %g Hz", sig.fs/float64(sig.n))
	for _, p := range peaks(spectrum, sig.fs, len(sig.tones)) {
		out.println("Peak at %.1f Hz (bin %d): |X| = %.2f, amplitude %.3f",
			p.freq, p.bin+1, p.mag, 2*p.mag/float64(sig.n))
	}
	out.lines(symmetryReport(spectrum, sig.fs))

	out.series(lab.TimeSeries, lab.NewSeries(t, x, lab.Line, "x(t)"))
	out.series(lab.FrequencySeries, spectrumSeries(spectrum, sig.fs))
	return out.result()
}

func runTrigonometric(cfg lab.Config) lab.Result {
	out := newOutput(Trigonometric.Marker(), cfg)
	sig := trigSignal
	t, x := sig.sample()
	spectrum := dft.Transform(x)

	out.println("Signal: %s", sig.describe())
	dc, harmonics := dft.Harmonics(spectrum, sig.n/2)
	out.println("DC term: X[1]/N = %.4f", dc)
	for _, h := range harmonics {
		if h.Amplitude < 1e-9 {
			continue
		}
		c := spectrum[h.K]
		out.println("k = %d (%g Hz): X = %s -> a = %.4f, b = %.4f, amplitude %.4f, phase %.2f deg",
			h.K+1, float64(h.K)*sig.fs/float64(sig.n), formatComplex(c), h.A, h.B, h.Amplitude, phaseDegrees(c))
	}
	out.lines(symmetryReport(spectrum, sig.fs))

	out.series(lab.TimeSeries, lab.NewSeries(t, x, lab.Line, "x(t)"))
	out.series(lab.FrequencySeries, spectrumSeries(spectrum, sig.fs))
	return out.result()
}

func squareWave(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		if i < n/2 {
			x[i] = 1
		} else {
			x[i] = -1
		}
	}
	return x
}

func runReconstruction(cfg lab.Config) lab.Result {
	out := newOutput(Reconstruction.Marker(), cfg)
	n := squareSamples
	x := squareWave(n)
	spectrum := dft.Transform(x)

	out.println("Signal: square wave, N = %d", n)
	dc, harmonics := dft.Harmonics(spectrum, ReconstructionHarmonics)
	out.println("Rebuilding from DC and %d harmonics", len(harmonics))
	rebuilt := dft.Reconstruct(dc, harmonics, n)
	errs, rms, maxErr := dft.Residual(x, rebuilt)
	out.println("RMS reconstruction error: %.4f", rms)
	out.println("Max reconstruction error: %.4f", maxErr)
	out.lines(symmetryReport(spectrum, float64(n)))

	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}
	out.series(lab.TimeSeries, lab.NewSeries(idx, x, lab.Line, "x[n]"))
	out.series(lab.ReconstructedSeries, lab.NewSeries(idx, rebuilt, lab.Line, "reconstructed"))
	out.series(lab.ErrorSeries, lab.NewSeries(idx, errs, lab.Line, "|x - x_rec|"))
	out.series(lab.FrequencySeries, spectrumSeries(spectrum, float64(n)))
	return out.result()
}
