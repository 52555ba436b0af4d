// Package model is the entry point for executing a program: the Executor
// walks the backend fallback chain and always hands back a Result.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/labrun/backend"
	"github.com/timewinder-dev/labrun/lab"
	"github.com/timewinder-dev/labrun/sanitize"
	"github.com/timewinder-dev/labrun/simulate"
	"github.com/timewinder-dev/labrun/vm"
)

// LocalBackend names the sanitize and simulate path in logs.
const LocalBackend = "local"

// An Executor is the context and entrypoint for running a program. It holds
// no per-call state and may be shared between goroutines.
type Executor struct {
	Native backend.Backend
	Remote backend.Backend
	// Latency delays the local simulation path to emulate a backend round trip.
	Latency  time.Duration
	Reporter Reporter
}

// NewExecutor wires the default backends. The native adapter has no runtime
// installed, so enabling it without one always falls back.
func NewExecutor() *Executor {
	return &Executor{
		Native:   &backend.Native{},
		Remote:   backend.NewRemote(""),
		Reporter: &SilentReporter{},
	}
}

// external picks at most one backend to try: native first, then docker.
func (e *Executor) external(cfg lab.Config) backend.Backend {
	switch {
	case cfg.EnableNativeRuntime && e.Native != nil:
		return e.Native
	case cfg.EnableDockerRuntime && e.Remote != nil:
		return e.Remote
	}
	return nil
}

func (e *Executor) reporter() Reporter {
	if e.Reporter == nil {
		return &SilentReporter{}
	}
	return e.Reporter
}

// Execute runs program on the first enabled external backend. Any failure
// there falls through to sanitized local simulation, whose own failure is
// final. Execute never panics and never returns an error.
func (e *Executor) Execute(ctx context.Context, program string, cfg lab.Config) (res lab.Result) {
	start := time.Now()
	id := uuid.NewString()
	ctx = backend.WithRequestID(ctx, id)
	logger := log.With().Str("execution", id).Logger()
	logger.Debug().
		Str("fingerprint", fmt.Sprintf("%016x", vm.Fingerprint(program))).
		Bool("native", cfg.EnableNativeRuntime).
		Bool("docker", cfg.EnableDockerRuntime).
		Msg("Executor: starting")

	defer func() {
		if r := recover(); r != nil {
			res = lab.Failed(nil, fmt.Errorf("internal error: %v", r))
		}
		res.ExecutionTimeMs = time.Since(start).Seconds() * 1000
		logger.Debug().Bool("success", res.Success).Float64("ms", res.ExecutionTimeMs).Msg("Executor: finished")
	}()

	if b := e.external(cfg); b != nil {
		e.reporter().Attempt(b.Name())
		out, err := attempt(ctx, b, program, cfg)
		if err == nil {
			out.Normalize()
			e.reporter().Finished(b.Name(), *out)
			return *out
		}
		logger.Warn().Str("backend", b.Name()).Err(err).Msg("Executor: backend failed, falling back to local simulation")
		e.reporter().Fallback(b.Name(), err)
	}
	res = e.local(ctx, program, cfg, logger)
	e.reporter().Finished(LocalBackend, res)
	return res
}

// attempt runs one external backend, turning a panic or an empty answer into
// an error.
func attempt(ctx context.Context, b backend.Backend, program string, cfg lab.Config) (out *lab.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%s backend panicked: %v", b.Name(), r)
		}
	}()
	out, err = b.Execute(ctx, program, cfg)
	if err == nil && out == nil {
		err = errors.New("backend returned no result")
	}
	return out, err
}

func (e *Executor) local(ctx context.Context, program string, cfg lab.Config, logger zerolog.Logger) lab.Result {
	e.reporter().Attempt(LocalBackend)
	if report := sanitize.Inspect(program); !report.Clean() {
		logger.Debug().
			Interface("blocked", report.Blocked).
			Int("shell_escapes", report.ShellEscapes).
			Msg("Executor: neutralized program")
	}
	clean := sanitize.Sanitize(program)

	if e.Latency > 0 {
		timer := time.NewTimer(e.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return lab.Failed(nil, fmt.Errorf("%s simulation: %w", LocalBackend, ctx.Err()))
		}
	}
	return simulate.Simulate(clean, cfg)
}
