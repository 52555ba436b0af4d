package demo

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/labrun/lab"
)

var strict = lab.Config{Strict: true}

// failing prefixes a program that fails under strict evaluation with a lab title.
func failing(kind DemoKind) string {
	return "% " + kind.Marker() + "\nX = fft(undefined_signal)"
}

func TestClassify(t *testing.T) {
	tests := []struct {
		program string
		want    DemoKind
	}{
		{"% Lab 4.1: Hermitian Symmetry\nx = 1", Basic},
		{"title('Lab 4.2: Two-Tone Spectrum')", TwoTone},
		{"% Lab 4.3: Complex to Trigonometric", Trigonometric},
		{"% Lab 4.4: Signal Reconstruction", Reconstruction},
		{"% Lab 4.4: Signal Reconstruction\n% Lab 4.2: Two-Tone Spectrum", TwoTone},
		{"% lab 4.1: hermitian symmetry", None},
		{"", None},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Classify(tc.program), tc.program)
	}
	assert.Equal(t, "Reconstruction", Reconstruction.String())
	assert.Equal(t, "", None.Marker())
}

func TestInterpreterSuccessPassesThrough(t *testing.T) {
	res := NewRunner().Run(context.Background(), "% "+Basic.Marker()+"\nfprintf('ok\\n')", lab.Config{})
	require.True(t, res.Success)
	assert.Equal(t, []string{"ok"}, res.Transcript)
	assert.Nil(t, res.Dataset)
}

func TestBasicDemonstration(t *testing.T) {
	res := NewRunner().Run(context.Background(), failing(Basic), strict)
	require.True(t, res.Success)
	assert.Equal(t, Basic.Marker(), res.Transcript[0])
	assert.Contains(t, res.Transcript, "Hermitian symmetry holds: X[k_neg] = conj(X[k])")

	rows := 0
	for _, line := range res.Transcript {
		if strings.HasPrefix(line, "  k = ") {
			rows++
		}
	}
	assert.Equal(t, SymmetryRows, rows)

	errs, ok := res.Dataset[lab.ErrorSeries]
	require.True(t, ok)
	assert.Equal(t, 99, errs.Len())
	assert.Equal(t, lab.Marker, errs.Kind)
	for _, e := range errs.Y {
		assert.Less(t, e, 1e-9)
	}

	assert.Equal(t, 100, res.Dataset[lab.TimeSeries].Len())
	freq := res.Dataset[lab.FrequencySeries]
	require.Equal(t, 50, freq.Len())
	assert.InDelta(t, 50, freq.Y[5], 1e-9)
	f, _ := freq.Float(5)
	assert.Equal(t, 5.0, f)
}

func TestTwoToneDemonstration(t *testing.T) {
	res := NewRunner().Run(context.Background(), failing(TwoTone), strict)
	require.True(t, res.Success)
	assert.Contains(t, res.Transcript, "Frequency resolution: 2 Hz")
	assert.Contains(t, res.Transcript, "Peak at 50.0 Hz (bin 26): |X| = 250.00, amplitude 1.000")
	assert.Contains(t, res.Transcript, "Peak at 120.0 Hz (bin 61): |X| = 125.00, amplitude 0.500")
	assert.Equal(t, 250, res.Dataset[lab.FrequencySeries].Len())
	assert.NotContains(t, res.Dataset, lab.ErrorSeries)
}

func TestTrigonometricDemonstration(t *testing.T) {
	res := NewRunner().Run(context.Background(), failing(Trigonometric), strict)
	require.True(t, res.Success)
	assert.Contains(t, res.Transcript, "DC term: X[1]/N = 0.5000")

	var harmonics []string
	for _, line := range res.Transcript {
		if strings.HasPrefix(line, "k = ") {
			harmonics = append(harmonics, line)
		}
	}
	require.Len(t, harmonics, 2)
	assert.True(t, strings.HasPrefix(harmonics[0], "k = 5 (4 Hz)"))
	assert.Contains(t, harmonics[0], "a = 2.0000")
	assert.Contains(t, harmonics[0], "amplitude 2.0000")
	assert.True(t, strings.HasPrefix(harmonics[1], "k = 9 (8 Hz)"))
	assert.Contains(t, harmonics[1], "b = 1.5000")
	assert.Contains(t, harmonics[1], "phase -90.00 deg")
}

func TestReconstructionDemonstration(t *testing.T) {
	res := NewRunner().Run(context.Background(), failing(Reconstruction), strict)
	require.True(t, res.Success)
	assert.Contains(t, res.Transcript, "Rebuilding from DC and 8 harmonics")
	assert.Contains(t, res.Transcript, "RMS reconstruction error: 0.2186")
	assert.Contains(t, res.Transcript, "Max reconstruction error: 0.7500")

	for _, key := range []string{lab.TimeSeries, lab.ReconstructedSeries, lab.ErrorSeries, lab.FrequencySeries} {
		assert.Contains(t, res.Dataset, key)
	}
	orig := res.Dataset[lab.TimeSeries]
	rebuilt := res.Dataset[lab.ReconstructedSeries]
	errs := res.Dataset[lab.ErrorSeries]
	require.Equal(t, 64, errs.Len())
	for i := range errs.Y {
		d := orig.Y[i] - rebuilt.Y[i]
		if d < 0 {
			d = -d
		}
		assert.InDelta(t, d, errs.Y[i], 1e-12)
	}
}

func TestDemonstrationWithoutPlots(t *testing.T) {
	res := Demonstrate(Basic, "", lab.Config{PlotOutput: lab.Bool(false)})
	require.True(t, res.Success)
	assert.Nil(t, res.Dataset)
	assert.NotEmpty(t, res.Transcript)
}

func TestGenericFallback(t *testing.T) {
	res := NewRunner().Run(context.Background(), "fs = 8000\ny = cos(t)\nY = fft(y)", strict)
	require.True(t, res.Success)
	assert.Equal(t, []string{
		FallbackNotice,
		"Sampling rate: 8000 Hz",
		"Trigonometric signal generation detected",
		"FFT computation detected",
	}, res.Transcript)
	assert.Nil(t, res.Dataset)
}

func TestCancelledRunSkipsDemonstration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := NewRunner().Run(ctx, failing(Basic), lab.Config{})
	require.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "canceled")
}
