package vm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(vars map[string]Value) Lookup {
	return func(name string) (Value, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestEvaluatorArithmetic(t *testing.T) {
	ev := NewEvaluator(lookupFrom(map[string]Value{
		"fs": Scalar(1000),
		"f1": Scalar(50),
		"x":  RealVector{1, 2, 3, 4},
	}), Strict)

	tests := []struct {
		expr string
		want float64
	}{
		{"1/fs", 0.001},
		{"2*pi*f1", 2 * math.Pi * 50},
		{"-(3 + 4) * 2", -14},
		{"10 - 4 - 3", 3},
		{"2 + 3 * 4", 14},
		{"1.5e3 / 3", 500},
		{"length(x)", 4},
		{"numel(x) / 2", 2},
		{"sqrt(16) + abs(-2)", 6},
		{"mean(x)", 2.5},
		{"max(x) - min(x)", 3},
		{"2.*3", 6},
		{"1./4", 0.25},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := ev.Scalar(tc.expr)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestEvaluatorFailuresStrict(t *testing.T) {
	ev := NewEvaluator(lookupFrom(map[string]Value{"x": RealVector{1, 2}}), Strict)
	for _, expr := range []string{
		"",
		"1 +",
		"y + 1",
		"x + 1",
		"1 / 0",
		"'text'",
		"nosuch(3)",
		"2 ^ 3",
		"sqrt(x)",
		"sqrt(a=1)",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := ev.Scalar(expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEvaluation), "got %v", err)
		})
	}
}

func TestEvaluatorZeroOnFailure(t *testing.T) {
	ev := NewEvaluator(nil, ZeroOnFailure)
	got, err := ev.Scalar("undefined_name * 3")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestBoundNameShadowsConstant(t *testing.T) {
	ev := NewEvaluator(lookupFrom(map[string]Value{"pi": Scalar(3)}), Strict)
	got, err := ev.Scalar("pi * 2")
	require.NoError(t, err)
	assert.Equal(t, 6.0, got)
}

func TestValueClone(t *testing.T) {
	v := RealVector{1, 2, 3}
	c := v.Clone().(RealVector)
	c[0] = 99
	assert.Equal(t, 1.0, v[0])

	cv := ComplexVector{complex(1, 2)}
	cc := cv.Clone().(ComplexVector)
	cc[0] = 0
	assert.Equal(t, complex(1, 2), cv[0])
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "2.5", Format(Scalar(2.5)))
	assert.Equal(t, "[1, 2]", Format(RealVector{1, 2}))
	assert.Equal(t, "[1, 2, 3, 4, 5, ... (2 more)]", Format(RealVector{1, 2, 3, 4, 5, 6, 7}))
	assert.Equal(t, "[1+2i]", Format(ComplexVector{complex(1, 2)}))
	assert.Equal(t, "[]", Format(RealVector{}))
}

func TestBuiltinsNames(t *testing.T) {
	names := Builtins.Names()
	assert.Contains(t, names, "length")
	assert.Contains(t, names, "sqrt")
	_, ok := Builtins.Function("system")
	assert.False(t, ok)
}

func TestVectorLiterals(t *testing.T) {
	ev := NewEvaluator(lookupFrom(map[string]Value{
		"x": RealVector{1, 2},
		"X": ComplexVector{complex(1, 1)},
	}), Strict)

	tests := []struct {
		expr string
		want RealVector
	}{
		{"[1 2 3]", RealVector{1, 2, 3}},
		{"[1, 2*2]", RealVector{1, 4}},
		{"[1;2]", RealVector{1, 2}},
		{"[1 -2]", RealVector{1, -2}},
		{"[1 - 2]", RealVector{-1}},
		{"[2* 3 4]", RealVector{6, 4}},
		{"[sqrt(4) 1]", RealVector{2, 1}},
		{"[x 3]", RealVector{1, 2, 3}},
		{"[[1 2] 3]", RealVector{1, 2, 3}},
		{"[]", RealVector{}},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := ev.Eval(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, expr := range []string{"[X 1]", "[1 2] + 1", "[1 nosuch]"} {
		t.Run(expr, func(t *testing.T) {
			_, err := ev.Eval(expr)
			assert.True(t, errors.Is(err, ErrEvaluation), "got %v", err)
		})
	}
}

func TestKeywordIdentifiers(t *testing.T) {
	ev := NewEvaluator(lookupFrom(map[string]Value{
		"in":   Scalar(5),
		"or":   Scalar(2),
		"pass": Scalar(3),
		"x_in": Scalar(7),
	}), Strict)
	got, err := ev.Scalar("in + 1")
	require.NoError(t, err)
	assert.Equal(t, 6.0, got)

	got, err = ev.Scalar("or * pass - x_in")
	require.NoError(t, err)
	assert.Equal(t, -1.0, got)

	_, err = ev.Scalar("lambda + 1")
	assert.ErrorContains(t, err, "unbound identifier lambda")
}
