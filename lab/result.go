// Package lab holds the data shapes shared by every execution path: the
// caller supplied Config and the Result handed back to the presentation
// layer.
package lab

// SeriesKind tags how a series is meant to be drawn.
type SeriesKind string

const (
	Line    SeriesKind = "line"
	Marker  SeriesKind = "marker"
	Heatmap SeriesKind = "heatmap"
)

// Well known dataset keys. Consumers look series up by these names.
const (
	TimeSeries          = "time"
	FrequencySeries     = "frequency"
	ErrorSeries         = "error"
	ReconstructedSeries = "reconstructed"
)

// Series is a single plot-ready sequence. X holds either numbers or
// category labels, so it is typed as []any.
type Series struct {
	X     []any      `json:"x" yaml:"x" msgpack:"x"`
	Y     []float64  `json:"y" yaml:"y" msgpack:"y"`
	Kind  SeriesKind `json:"kind" yaml:"kind" msgpack:"kind"`
	Label string     `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label"`
}

// NewSeries builds a numeric series. The shorter of x and y decides the length.
func NewSeries(x, y []float64, kind SeriesKind, label string) Series {
	n := min(len(x), len(y))
	s := Series{
		X:     make([]any, n),
		Y:     make([]float64, n),
		Kind:  kind,
		Label: label,
	}
	for i := 0; i < n; i++ {
		s.X[i] = x[i]
		s.Y[i] = y[i]
	}
	return s
}

// Len is the number of points in the series.
func (s Series) Len() int {
	return len(s.Y)
}

// Float returns X[i] as a float64 when it is numeric.
func (s Series) Float(i int) (float64, bool) {
	switch v := s.X[i].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// Dataset maps a semantic series name to its series.
type Dataset map[string]Series

// Result is produced exactly once per execution call.
//
// Success=false always carries ErrorMessage; Success=true never does.
type Result struct {
	Success         bool     `json:"success" yaml:"success" msgpack:"success"`
	Transcript      []string `json:"transcript" yaml:"transcript" msgpack:"transcript"`
	Dataset         Dataset  `json:"dataset,omitempty" yaml:"dataset,omitempty" msgpack:"dataset"`
	ErrorMessage    string   `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty" msgpack:"errorMessage"`
	ExecutionTimeMs float64  `json:"executionTimeMs,omitempty" yaml:"executionTimeMs,omitempty" msgpack:"executionTimeMs"`
}

// Succeeded builds a successful result. An empty dataset is dropped.
func Succeeded(transcript []string, ds Dataset) Result {
	if len(ds) == 0 {
		ds = nil
	}
	if transcript == nil {
		transcript = []string{}
	}
	return Result{
		Success:    true,
		Transcript: transcript,
		Dataset:    ds,
	}
}

// Failed builds a failing result that keeps the partial transcript.
func Failed(transcript []string, err error) Result {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	if transcript == nil {
		transcript = []string{}
	}
	return Result{
		Success:      false,
		Transcript:   transcript,
		ErrorMessage: msg,
	}
}

// Normalize repairs a result received from an external backend so that the
// success/error invariant holds.
func (r *Result) Normalize() {
	if r.Success {
		r.ErrorMessage = ""
	} else if r.ErrorMessage == "" {
		r.ErrorMessage = "backend reported failure without a message"
	}
	if r.Transcript == nil {
		r.Transcript = []string{}
	}
	if len(r.Dataset) == 0 {
		r.Dataset = nil
	}
}
