// Package demo runs the fixed lab demonstrations of DFT symmetry and
// reconstruction. A program is first given to the interpreter; only when
// that fails does its lab title select a hand-parameterized demonstration.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/labrun/interp"
	"github.com/timewinder-dev/labrun/lab"
	"github.com/timewinder-dev/labrun/simulate"
)

// FallbackNotice opens the transcript of the generic fallback.
const FallbackNotice = "Program could not be interpreted; showing detected parameters"

type Runner struct {
	Interpreter *interp.Interpreter
}

func NewRunner() *Runner {
	return &Runner{Interpreter: interp.New()}
}

// Run returns the interpreter's result when it succeeds. Otherwise it runs
// the demonstration named by the program, or the generic fallback.
func (r *Runner) Run(ctx context.Context, program string, cfg lab.Config) lab.Result {
	start := time.Now()
	in := r.Interpreter
	if in == nil {
		in = interp.New()
	}
	res := in.Run(ctx, program, cfg)
	if res.Success || ctx.Err() != nil {
		return res
	}

	kind := Classify(program)
	log.Debug().
		Str("demo", kind.String()).
		Str("interpreter_error", res.ErrorMessage).
		Msg("Demo: interpreter failed, running demonstration")
	out := Demonstrate(kind, program, cfg)
	out.ExecutionTimeMs = time.Since(start).Seconds() * 1000
	return out
}

// Demonstrate runs kind directly, skipping the interpreter.
func Demonstrate(kind DemoKind, program string, cfg lab.Config) lab.Result {
	switch kind {
	case Basic:
		return runBasic(cfg)
	case TwoTone:
		return runTwoTone(cfg)
	case Trigonometric:
		return runTrigonometric(cfg)
	case Reconstruction:
		return runReconstruction(cfg)
	default:
		return generic(program)
	}
}

// generic reports only what can be read off the program text.
func generic(program string) lab.Result {
	p := simulate.Detect(program)
	transcript := []string{FallbackNotice}
	if p.DetectedRate {
		transcript = append(transcript, fmt.Sprintf("Sampling rate: %g Hz", p.SampleRate))
	}
	if p.HasTrig {
		transcript = append(transcript, "Trigonometric signal generation detected")
	}
	if p.HasFFT {
		transcript = append(transcript, "FFT computation detected")
	}
	return lab.Succeeded(transcript, nil)
}
