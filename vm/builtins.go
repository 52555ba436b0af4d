package vm

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrEvaluation marks a sub-expression that could not be computed.
var ErrEvaluation = errors.New("evaluation failed")

func evalErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEvaluation, fmt.Sprintf(format, args...))
}

// Builtin is a helper function callable from arithmetic expressions.
type Builtin func(args []Value) (Value, error)

// Table is a read-only registry of named constants and helper functions.
// It holds no per-execution state and is shared by every evaluator.
type Table struct {
	constants map[string]float64
	functions map[string]Builtin
}

func (t *Table) Constant(name string) (float64, bool) {
	v, ok := t.constants[name]
	return v, ok
}

func (t *Table) Function(name string) (Builtin, bool) {
	f, ok := t.functions[name]
	return f, ok
}

// Names lists every function in the table, sorted.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.functions))
	for k := range t.functions {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Builtins is the helper table injected into every evaluator.
var Builtins = &Table{
	constants: map[string]float64{
		"pi":  math.Pi,
		"e":   math.E,
		"Inf": math.Inf(1),
		"inf": math.Inf(1),
		"NaN": math.NaN(),
		"nan": math.NaN(),
		"eps": 0x1p-52,
	},
	functions: map[string]Builtin{
		"sqrt":   scalarFn("sqrt", math.Sqrt),
		"abs":    scalarFn("abs", math.Abs),
		"exp":    scalarFn("exp", math.Exp),
		"log":    scalarFn("log", math.Log),
		"log10":  scalarFn("log10", math.Log10),
		"log2":   scalarFn("log2", math.Log2),
		"floor":  scalarFn("floor", math.Floor),
		"ceil":   scalarFn("ceil", math.Ceil),
		"round":  scalarFn("round", math.Round),
		"fix":    scalarFn("fix", math.Trunc),
		"sin":    scalarFn("sin", math.Sin),
		"cos":    scalarFn("cos", math.Cos),
		"tan":    scalarFn("tan", math.Tan),
		"length": builtinLength,
		"numel":  builtinLength,
		"sum":    reduceFn("sum", sum),
		"mean":   reduceFn("mean", func(xs []float64) float64 { return sum(xs) / float64(len(xs)) }),
		"max":    reduceFn("max", slices.Max[[]float64]),
		"min":    reduceFn("min", slices.Min[[]float64]),
	},
}

func scalarFn(name string, f func(float64) float64) Builtin {
	return func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, evalErrorf("%s() takes exactly 1 argument, got %d", name, len(args))
		}
		x, ok := AsScalar(args[0])
		if !ok {
			return nil, evalErrorf("%s() argument must be a scalar, got %s", name, args[0].Kind())
		}
		return Scalar(f(x)), nil
	}
}

func reduceFn(name string, f func([]float64) float64) Builtin {
	return func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, evalErrorf("%s() takes exactly 1 argument, got %d", name, len(args))
		}
		if _, ok := args[0].(ComplexVector); ok {
			return nil, evalErrorf("%s() of a complex vector is unsupported", name)
		}
		xs := Floats(args[0])
		if len(xs) == 0 {
			return nil, evalErrorf("%s() of an empty vector", name)
		}
		return Scalar(f(xs)), nil
	}
}

// builtinLength returns the element count of any value.
func builtinLength(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, evalErrorf("length() takes exactly 1 argument, got %d", len(args))
	}
	return Scalar(args[0].Len()), nil
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
