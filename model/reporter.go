package model

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/timewinder-dev/labrun/lab"
)

// Reporter follows a program along the fallback chain.
type Reporter interface {
	Attempt(backend string)
	Fallback(backend string, err error)
	Finished(backend string, res lab.Result)
}

// SilentReporter does not output any progress
type SilentReporter struct{}

func (r *SilentReporter) Attempt(string)              {}
func (r *SilentReporter) Fallback(string, error)      {}
func (r *SilentReporter) Finished(string, lab.Result) {}

// ColorReporter writes one coloured line per event (typically to stderr).
type ColorReporter struct {
	Writer io.Writer
}

func (r *ColorReporter) Attempt(backend string) {
	if backend == LocalBackend {
		fmt.Fprintln(r.Writer, color.Gray.Sprintf("Running %s simulation", backend))
		return
	}
	fmt.Fprintln(r.Writer, color.Gray.Sprintf("Trying %s backend", backend))
}

func (r *ColorReporter) Fallback(backend string, err error) {
	fmt.Fprintln(r.Writer, color.Yellow.Sprintf("%s backend failed: %v", backend, err))
}

func (r *ColorReporter) Finished(backend string, res lab.Result) {
	if res.Success {
		fmt.Fprintln(r.Writer, color.Green.Sprintf("%s: done", backend))
		return
	}
	fmt.Fprintln(r.Writer, color.Red.Sprintf("%s: %s", backend, res.ErrorMessage))
}
