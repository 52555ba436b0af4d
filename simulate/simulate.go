// Package simulate produces a plausible transcript and synthetic dataset for
// a program without interpreting it. Parameters come from regular
// expression detection over the source text.
package simulate

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/labrun/dft"
	"github.com/timewinder-dev/labrun/lab"
	"github.com/timewinder-dev/labrun/sanitize"
)

// ErrEmptyProgram is the one failure of the simulator.
var ErrEmptyProgram = errors.New("no code to execute")

var fprintfPattern = regexp.MustCompile(`\bfprintf\s*\(\s*(?:[12]\s*,\s*)?'((?:[^']|'')*)'`)

var verbPattern = regexp.MustCompile(`%[-+ 0#]*\d*(?:\.\d+)?[dicfeEgGsxX]`)

// Simulate never interprets the program. It echoes the literal text of
// fprintf calls, summarizes the detected signal and, when the program plots,
// returns the synthesized time series and its spectrum.
func Simulate(program string, cfg lab.Config) (res lab.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = lab.Failed(nil, fmt.Errorf("simulation failed: %v", r))
		}
	}()
	if strings.TrimSpace(program) == "" {
		return lab.Failed(nil, ErrEmptyProgram)
	}

	p := Detect(program)
	transcript := echo(program)
	transcript = append(transcript, summary(p)...)

	ds := make(lab.Dataset)
	if p.HasPlot && cfg.Plots() {
		t, x := p.Signal()
		ds[lab.TimeSeries] = lab.NewSeries(t, x, lab.Line, "x(t)")
		if p.HasFFT {
			freqs, mags := dft.HalfSpectrum(dft.Transform(x), p.SampleRate)
			ds[lab.FrequencySeries] = lab.NewSeries(freqs, mags, lab.Line, "|X(f)|")
		}
	}
	log.Debug().
		Float64("fs", p.SampleRate).
		Int("components", len(p.Components)).
		Int("samples", p.Samples).
		Int("series", len(ds)).
		Msg("Simulate: synthesized")
	return lab.Succeeded(transcript, ds)
}

// echo renders fprintf format strings in source order with every conversion
// blanked, and reports neutralized calls.
func echo(program string) []string {
	var out []string
	for _, line := range strings.Split(program, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "%") {
			if trimmed == sanitize.ShellEscapeMarker {
				out = append(out, "Blocked: shell escape")
			}
			continue
		}
		if strings.Contains(trimmed, sanitize.BlockedPrefix) {
			out = append(out, "Blocked: "+strings.TrimSuffix(trimmed, ";"))
			continue
		}
		for _, m := range fprintfPattern.FindAllStringSubmatch(line, -1) {
			text := strings.ReplaceAll(m[1], "''", "'")
			parts := strings.Split(text, "%%")
			for i := range parts {
				parts[i] = verbPattern.ReplaceAllString(parts[i], "")
			}
			text = strings.Join(parts, "%")
			text = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\\`, `\`).Replace(text)
			text = strings.TrimSuffix(text, "\n")
			out = append(out, strings.Split(text, "\n")...)
		}
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func summary(p Params) []string {
	lines := []string{
		fmt.Sprintf("Sampling rate: %s Hz", formatFloat(p.SampleRate)),
		fmt.Sprintf("Samples: %d", p.Samples),
	}
	tones := make([]string, len(p.Components))
	for i, c := range p.Components {
		tones[i] = fmt.Sprintf("%s Hz (A=%s)", formatFloat(c.Frequency), formatFloat(c.Amplitude))
	}
	lines = append(lines, "Signal components: "+strings.Join(tones, ", "))
	if p.HasFFT {
		res := p.SampleRate / float64(p.Samples)
		lines = append(lines, fmt.Sprintf("Frequency resolution: %s Hz", formatFloat(math.Round(res*1e6)/1e6)))
	}
	return lines
}
