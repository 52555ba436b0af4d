package interp

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/labrun/lab"
	"github.com/timewinder-dev/labrun/vm"
)

// ErrBudget is returned when an execution exceeds one of its Limits.
var ErrBudget = errors.New("execution budget exceeded")

// Limits bound the work a single execution may do.
type Limits struct {
	MaxVectorLength    int
	MaxTransformLength int
}

var DefaultLimits = Limits{
	MaxVectorLength:    1 << 20,
	MaxTransformLength: 1 << 14,
}

// Interpreter evaluates a program one statement at a time, in source order.
// It is stateless between runs and safe for concurrent use.
type Interpreter struct {
	Builtins *vm.Table
	Limits   Limits
	// OnFinish, if set, sees the variable store just before it is discarded.
	OnFinish func(Status, *Store)
}

func New() *Interpreter {
	return &Interpreter{
		Builtins: vm.Builtins,
		Limits:   DefaultLimits,
	}
}

// execution is the state of one Run. It is never shared.
type execution struct {
	store      *Store
	eval       *vm.Evaluator
	rng        *rand.Rand
	limits     Limits
	cfg        lab.Config
	transcript []string
	dataset    lab.Dataset
	status     Status
	line       int
}

func (in *Interpreter) newExecution(program string, cfg lab.Config) *execution {
	policy := vm.ZeroOnFailure
	if cfg.Strict {
		policy = vm.Strict
	}
	limits := in.Limits
	if limits.MaxVectorLength <= 0 {
		limits.MaxVectorLength = DefaultLimits.MaxVectorLength
	}
	if limits.MaxTransformLength <= 0 {
		limits.MaxTransformLength = DefaultLimits.MaxTransformLength
	}
	ex := &execution{
		store:      NewStore(),
		rng:        vm.NewRand(vm.Seed(program, cfg.Seed, cfg.Deterministic)),
		limits:     limits,
		cfg:        cfg,
		transcript: []string{},
		dataset:    make(lab.Dataset),
		status:     Idle,
	}
	builtins := in.Builtins
	if builtins == nil {
		builtins = vm.Builtins
	}
	ex.eval = &vm.Evaluator{
		Builtins: builtins,
		Lookup:   ex.store.Get,
		Policy:   policy,
	}
	return ex
}

// Run executes program and never fails: errors and panics raised while
// processing a statement end the run with a failing Result that keeps the
// transcript produced so far.
func (in *Interpreter) Run(ctx context.Context, program string, cfg lab.Config) (res lab.Result) {
	start := time.Now()
	ex := in.newExecution(program, cfg)

	defer func() {
		if r := recover(); r != nil {
			ex.status = Failed
			res = lab.Failed(ex.transcript, fmt.Errorf("line %d: internal error: %v", ex.line, r))
		}
		log.Debug().
			Str("status", ex.status.String()).
			Int("lines", ex.line).
			Int("variables", ex.store.Len()).
			Msg("Interpreter: run finished")
		if in.OnFinish != nil {
			in.OnFinish(ex.status, ex.store)
		}
		res.ExecutionTimeMs = time.Since(start).Seconds() * 1000
	}()

	ex.status = Running
	if err := ex.run(ctx, program); err != nil {
		ex.status = Failed
		return lab.Failed(ex.transcript, err)
	}
	ex.status = Done
	return lab.Succeeded(ex.transcript, ex.dataset)
}

func (ex *execution) run(ctx context.Context, program string) error {
	for i, line := range strings.Split(program, "\n") {
		ex.line = i + 1
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("line %d: %w", ex.line, err)
		}
		for _, stmt := range statements(line) {
			if err := ex.step(stmt); err != nil {
				return fmt.Errorf("line %d: %w", ex.line, err)
			}
		}
	}
	return nil
}
