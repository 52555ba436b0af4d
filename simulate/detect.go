package simulate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultSampleRate = 1000.0
	DefaultFrequency  = 50.0
	DefaultDuration   = 1.0
	// MaxSamples caps the synthetic signal so the O(N²) transform stays cheap.
	MaxSamples = 4096
)

const number = `([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)`

var (
	sampleRatePattern = regexp.MustCompile(`\bfs\s*=\s*` + number)
	freqPattern       = regexp.MustCompile(`\bf(\d*)\s*=\s*` + number)
	ampPattern        = regexp.MustCompile(`\bA(\d*)\s*=\s*` + number)
	inlineFreqPattern = regexp.MustCompile(`\b(?:sin|cos)\s*\(\s*2\s*\*\s*pi\s*\*\s*` + number + `\s*\*\s*t\b`)
	timePattern       = regexp.MustCompile(`\bt\s*=\s*\[?\s*` + number + `\s*:[^:;\n]+:\s*` + number)
	countPattern      = regexp.MustCompile(`(?m)\bN\s*=\s*(\d+)\s*(?:;|%|$)`)
	fftPattern        = regexp.MustCompile(`\bfft\s*\(`)
	trigPattern       = regexp.MustCompile(`\b(?:sin|cos)\s*\(`)
)

// Component is one detected sinusoid.
type Component struct {
	Frequency float64
	Amplitude float64
}

// Params are the signal parameters recovered from program text.
type Params struct {
	SampleRate float64
	Components []Component
	Samples    int
	// Detected records which values came from the program rather than a default.
	DetectedRate bool
	DetectedFreq bool
	HasFFT       bool
	HasTrig      bool
	HasPlot      bool
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Detect scans program for sample rate, tone frequencies and amplitudes,
// signal length and the keywords the simulator reacts to. Frequencies bound
// as f, f1, f2... pair with amplitudes A, A1, A2... by suffix.
func Detect(program string) Params {
	p := Params{
		SampleRate: DefaultSampleRate,
		HasFFT:     fftPattern.MatchString(program),
		HasTrig:    trigPattern.MatchString(program),
		HasPlot:    strings.Contains(program, "plot"),
	}
	if m := sampleRatePattern.FindStringSubmatch(program); m != nil {
		if fs, ok := parseNumber(m[1]); ok && fs > 0 {
			p.SampleRate = fs
			p.DetectedRate = true
		}
	}

	amps := make(map[string]float64)
	for _, m := range ampPattern.FindAllStringSubmatch(program, -1) {
		if a, ok := parseNumber(m[2]); ok {
			amps[m[1]] = a
		}
	}
	seen := make(map[float64]bool)
	add := func(f, a float64) {
		if f <= 0 || seen[f] {
			return
		}
		seen[f] = true
		p.Components = append(p.Components, Component{Frequency: f, Amplitude: a})
	}
	for _, m := range freqPattern.FindAllStringSubmatch(program, -1) {
		f, ok := parseNumber(m[2])
		if !ok {
			continue
		}
		a, ok := amps[m[1]]
		if !ok {
			a = 1
		}
		add(f, a)
	}
	for _, m := range inlineFreqPattern.FindAllStringSubmatch(program, -1) {
		if f, ok := parseNumber(m[1]); ok {
			add(f, 1)
		}
	}
	p.DetectedFreq = len(p.Components) > 0
	if !p.DetectedFreq {
		p.Components = []Component{{Frequency: DefaultFrequency, Amplitude: 1}}
	}

	duration := DefaultDuration
	if m := timePattern.FindStringSubmatch(program); m != nil {
		start, ok1 := parseNumber(m[1])
		end, ok2 := parseNumber(m[2])
		if ok1 && ok2 && end > start {
			duration = end - start
		}
	}
	p.Samples = int(math.Round(duration * p.SampleRate))
	if m := countPattern.FindStringSubmatch(program); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			p.Samples = n
		}
	}
	p.Samples = max(1, min(p.Samples, MaxSamples))
	return p
}

// Signal synthesizes the detected components over Samples points of 1/fs.
func (p Params) Signal() (t, x []float64) {
	t = make([]float64, p.Samples)
	x = make([]float64, p.Samples)
	for i := range t {
		t[i] = float64(i) / p.SampleRate
		for _, c := range p.Components {
			x[i] += c.Amplitude * math.Sin(2*math.Pi*c.Frequency*t[i])
		}
	}
	return t, x
}
