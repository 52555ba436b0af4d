package interp

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/timewinder-dev/labrun/dft"
	"github.com/timewinder-dev/labrun/vm"
)

const (
	// DefaultTrigFrequency is used when no f is bound.
	DefaultTrigFrequency = 50.0
	// DefaultSampleRate labels the frequency axis when no fs is bound.
	DefaultSampleRate = 1000.0
)

var (
	trigPattern    = regexp.MustCompile(`\b(sin|cos)\s*\(`)
	fftPattern     = regexp.MustCompile(`\bfft\s*\(`)
	fftArgPattern  = regexp.MustCompile(`\bfft\s*\(\s*([A-Za-z_]\w*)\s*\)`)
	randomPattern  = regexp.MustCompile(`\b(randn|rand)\s*\(`)
	literalPattern = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)
	sizeArgPattern = regexp.MustCompile(`^size\s*\(\s*([A-Za-z_]\w*)\s*\)$`)
)

// classifyExpr picks the sub-evaluator by syntactic shape, highest
// precedence first.
func classifyExpr(rhs string) ExprKind {
	switch {
	case isRange(rhs):
		return RangeExpr
	case trigPattern.MatchString(rhs):
		return TrigExpr
	case fftPattern.MatchString(rhs):
		return FFTExpr
	case randomPattern.MatchString(rhs):
		return RandomExpr
	case strings.HasPrefix(strings.TrimSpace(rhs), "["):
		return VectorExpr
	case literalPattern.MatchString(rhs):
		return LiteralExpr
	default:
		return ArithmeticExpr
	}
}

// rangeParts splits a colon range at top level into 2 or 3 parts.
func rangeParts(rhs string) ([]string, bool) {
	body := strings.TrimSpace(rhs)
	if strings.HasPrefix(body, "[") && strings.HasSuffix(body, "]") {
		body = body[1 : len(body)-1]
	}
	parts := splitTopLevel(body, ':')
	if len(parts) != 2 && len(parts) != 3 {
		return nil, false
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, false
		}
	}
	return parts, true
}

func isRange(rhs string) bool {
	_, ok := rangeParts(rhs)
	return ok
}

// evalRange builds start:step:end by repeated addition of step, inclusive
// while the accumulator has not passed end. Boundary inclusion follows the
// accumulated floating point value.
func (ex *execution) evalRange(rhs string) (vm.Value, error) {
	parts, _ := rangeParts(rhs)
	var exprs [3]string
	if len(parts) == 2 {
		exprs = [3]string{parts[0], "1", parts[1]}
	} else {
		exprs = [3]string{parts[0], parts[1], parts[2]}
	}
	var nums [3]float64
	for i, e := range exprs {
		v, err := ex.eval.Scalar(e)
		if err != nil {
			return nil, err
		}
		nums[i] = v
	}
	start, step, end := nums[0], nums[1], nums[2]
	if math.IsNaN(start) || math.IsNaN(step) || math.IsNaN(end) || step == 0 {
		return vm.RealVector{}, nil
	}
	out := vm.RealVector{}
	within := func(cur float64) bool { return cur <= end }
	if step < 0 {
		within = func(cur float64) bool { return cur >= end }
	}
	for cur := start; within(cur); cur += step {
		if len(out) >= ex.limits.MaxVectorLength {
			return nil, fmt.Errorf("%w: range %s exceeds %d elements", ErrBudget, strings.TrimSpace(rhs), ex.limits.MaxVectorLength)
		}
		out = append(out, cur)
	}
	return out, nil
}

// evalTrig ignores the written argument: it always computes sin or cos of
// 2π·f·t over the bound t, with f defaulting to 50 Hz.
func (ex *execution) evalTrig(rhs string) (vm.Value, error) {
	t, ok := ex.store.RealVector("t")
	if !ok {
		return nil, fmt.Errorf("%w: %s needs a time vector t", vm.ErrEvaluation, strings.TrimSpace(rhs))
	}
	f := DefaultTrigFrequency
	if bound, ok := ex.store.Scalar("f"); ok {
		f = bound
	}
	fn := math.Sin
	if m := trigPattern.FindStringSubmatch(rhs); m != nil && m[1] == "cos" {
		fn = math.Cos
	}
	out := make(vm.RealVector, len(t))
	for i, ti := range t {
		out[i] = fn(2 * math.Pi * f * ti)
	}
	return out, nil
}

func (ex *execution) evalFFT(rhs string) (vm.Value, error) {
	m := fftArgPattern.FindStringSubmatch(rhs)
	if m == nil {
		return nil, fmt.Errorf("%w: fft expects a single variable argument", vm.ErrEvaluation)
	}
	signal, ok := ex.store.RealVector(m[1])
	if !ok {
		return nil, fmt.Errorf("%w: fft argument %s is not a real vector", vm.ErrEvaluation, m[1])
	}
	if len(signal) > ex.limits.MaxTransformLength {
		return nil, fmt.Errorf("%w: fft of %d samples exceeds %d", ErrBudget, len(signal), ex.limits.MaxTransformLength)
	}
	return vm.ComplexVector(dft.Transform(signal)), nil
}

// evalRandom draws uniform samples in [-1, 1). randn is served by the same
// uniform generator.
func (ex *execution) evalRandom(rhs string) (vm.Value, error) {
	loc := randomPattern.FindStringIndex(rhs)
	args, ok := callArgs(rhs, loc[1]-1)
	if !ok {
		return nil, fmt.Errorf("%w: unterminated random call", vm.ErrEvaluation)
	}
	size, err := ex.sampleCount(args)
	if err != nil {
		return nil, err
	}
	if size > ex.limits.MaxVectorLength {
		return nil, fmt.Errorf("%w: %d random samples exceeds %d", ErrBudget, size, ex.limits.MaxVectorLength)
	}
	out := make(vm.RealVector, size)
	for i := range out {
		out[i] = ex.rng.Float64()*2 - 1
	}
	return out, nil
}

// sampleCount is the product of the dimension arguments; size(v) counts v.
func (ex *execution) sampleCount(args string) (int, error) {
	if strings.TrimSpace(args) == "" {
		return 1, nil
	}
	if m := sizeArgPattern.FindStringSubmatch(strings.TrimSpace(args)); m != nil {
		v, ok := ex.store.Get(m[1])
		if !ok {
			return 0, fmt.Errorf("%w: size of unbound %s", vm.ErrEvaluation, m[1])
		}
		return v.Len(), nil
	}
	size := 1.0
	for _, a := range splitTopLevel(args, ',') {
		v, err := ex.eval.Eval(a)
		if err != nil {
			return 0, err
		}
		n, ok := vm.AsScalar(v)
		if !ok {
			return 0, fmt.Errorf("%w: sample count must be a scalar", vm.ErrEvaluation)
		}
		size *= math.Floor(n)
	}
	if size < 0 || math.IsNaN(size) {
		return 0, fmt.Errorf("%w: invalid sample count %g", vm.ErrEvaluation, size)
	}
	if size > float64(ex.limits.MaxVectorLength) {
		return ex.limits.MaxVectorLength + 1, nil
	}
	return int(size), nil
}

// evalVector evaluates a bracketed literal such as [1 2 3] or [x, 4].
func (ex *execution) evalVector(rhs string) (vm.Value, error) {
	v, err := ex.eval.Eval(rhs)
	if err != nil {
		return nil, err
	}
	if v.Len() > ex.limits.MaxVectorLength {
		return nil, fmt.Errorf("%w: vector of %d elements exceeds %d", ErrBudget, v.Len(), ex.limits.MaxVectorLength)
	}
	return v, nil
}

func evalLiteral(rhs string) (vm.Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(rhs), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vm.ErrEvaluation, err)
	}
	return vm.Scalar(f), nil
}
