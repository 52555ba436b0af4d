package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/timewinder-dev/labrun/lab"
)

// NativeOutput is what a native runtime hands back for one program.
type NativeOutput struct {
	Stdout  []string
	Stderr  string
	Dataset lab.Dataset
}

// NativeRuntime runs program text in a real numeric environment. A zero
// timeout means the runtime's own default.
type NativeRuntime interface {
	Run(ctx context.Context, program string, timeout time.Duration) (*NativeOutput, error)
}

// NativeRuntimeFunc adapts a function to NativeRuntime.
type NativeRuntimeFunc func(ctx context.Context, program string, timeout time.Duration) (*NativeOutput, error)

func (f NativeRuntimeFunc) Run(ctx context.Context, program string, timeout time.Duration) (*NativeOutput, error) {
	return f(ctx, program, timeout)
}

// Native is the production backend.
type Native struct {
	Runtime NativeRuntime
}

var _ Backend = (*Native)(nil)

func (n *Native) Name() string { return "native" }

func (n *Native) Execute(ctx context.Context, program string, cfg lab.Config) (*lab.Result, error) {
	if !cfg.EnableNativeRuntime {
		return nil, fmt.Errorf("native: %w", ErrDisabled)
	}
	if n == nil || n.Runtime == nil {
		return nil, fmt.Errorf("native: no runtime installed: %w", ErrUnavailable)
	}
	timeout := cfg.Timeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	out, err := n.Runtime.Run(ctx, program, timeout)
	if err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("native: runtime returned no output")
	}
	res := out.Result(cfg)
	return &res, nil
}

// Result converts runtime output: anything on stderr fails the run while the
// stdout lines remain the transcript.
func (o *NativeOutput) Result(cfg lab.Config) lab.Result {
	if stderr := strings.TrimSpace(o.Stderr); stderr != "" {
		return lab.Failed(o.Stdout, errors.New(stderr))
	}
	ds := o.Dataset
	if !cfg.Plots() {
		ds = nil
	}
	return lab.Succeeded(o.Stdout, ds)
}
