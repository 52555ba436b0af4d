package vm

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"go.starlark.net/syntax"
)

// Policy decides what happens when a sub-expression cannot be evaluated.
type Policy int

const (
	// ZeroOnFailure swallows the failure and yields 0.
	ZeroOnFailure Policy = iota
	// Strict surfaces the failure to the caller.
	Strict
)

func (p Policy) String() string {
	switch p {
	case ZeroOnFailure:
		return "ZeroOnFailure"
	case Strict:
		return "Strict"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// Recover applies the policy to a failed evaluation: nil means carry on
// with a zero value.
func (p Policy) Recover(err error) error {
	if p == Strict {
		return err
	}
	return nil
}

// Lookup resolves a bound variable.
type Lookup func(name string) (Value, bool)

// Evaluator computes arithmetic expressions over + - * / ( ), numeric
// literals, bound variables, constants and calls into the helper table. The
// expression is parsed, never executed as code.
type Evaluator struct {
	Builtins *Table
	Lookup   Lookup
	Policy   Policy
}

// NewEvaluator binds the shared helper table to a variable lookup.
func NewEvaluator(lookup Lookup, policy Policy) *Evaluator {
	return &Evaluator{
		Builtins: Builtins,
		Lookup:   lookup,
		Policy:   policy,
	}
}

// Scalar evaluates src to a number. Failures go through the Policy: under
// ZeroOnFailure they yield (0, nil).
func (e *Evaluator) Scalar(src string) (float64, error) {
	v, err := e.Eval(src)
	if err == nil {
		if s, ok := AsScalar(v); ok {
			return s, nil
		}
		err = evalErrorf("%q is a %s, not a scalar", src, v.Kind())
	}
	log.Trace().Str("expr", src).Str("policy", e.Policy.String()).Err(err).Msg("Evaluator: failed")
	return 0, e.Policy.Recover(err)
}

// Eval evaluates src without applying the Policy.
func (e *Evaluator) Eval(src string) (Value, error) {
	src = strings.TrimSpace(normalizeOperators(src))
	if src == "" {
		return nil, evalErrorf("empty expression")
	}
	if body, ok := bracketed(src); ok {
		return e.vector(body)
	}
	opts := syntax.FileOptions{}
	expr, err := opts.ParseExpr("expr", escapeKeywords(src), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	return e.expr(expr)
}

// Words the starlark scanner reserves. Lab programs may use them as
// variable names.
var keywordPattern = regexp.MustCompile(`\b(and|as|assert|async|await|break|class|continue|def|del|elif|else|except|finally|for|from|global|if|import|in|is|lambda|load|nonlocal|not|or|pass|raise|return|try|while|with|yield)\b`)

// escapeKeywords prefixes reserved words with an underscore so they parse
// as identifiers. Lab identifiers cannot start with one, so the escape is
// unambiguous.
func escapeKeywords(src string) string {
	return keywordPattern.ReplaceAllString(src, "_$1")
}

func unescapeIdent(name string) string {
	if rest, ok := strings.CutPrefix(name, "_"); ok && rest != "" && keywordPattern.FindString(rest) == rest {
		return rest
	}
	return name
}

// normalizeOperators maps the element-wise operator spellings onto their
// scalar forms.
func normalizeOperators(src string) string {
	return strings.NewReplacer(".*", "*", "./", "/").Replace(src)
}

func (e *Evaluator) expr(x syntax.Expr) (Value, error) {
	switch v := x.(type) {
	case *syntax.Literal:
		switch n := v.Value.(type) {
		case int64:
			return Scalar(n), nil
		case float64:
			return Scalar(n), nil
		case *big.Int:
			f, _ := new(big.Float).SetInt(n).Float64()
			return Scalar(f), nil
		}
		return nil, evalErrorf("unsupported literal %s", v.Raw)
	case *syntax.Ident:
		return e.resolve(unescapeIdent(v.Name))
	case *syntax.ParenExpr:
		return e.expr(v.X)
	case *syntax.UnaryExpr:
		operand, err := e.scalarOperand(v.X)
		if err != nil {
			return nil, err
		}
		switch v.Op {
		case syntax.MINUS:
			return Scalar(-operand), nil
		case syntax.PLUS:
			return Scalar(operand), nil
		}
		return nil, evalErrorf("unsupported unary operator %s", v.Op)
	case *syntax.BinaryExpr:
		return e.binary(v)
	case *syntax.CallExpr:
		return e.call(v)
	default:
		return nil, evalErrorf("unsupported expression %T", x)
	}
}

func (e *Evaluator) resolve(name string) (Value, error) {
	if e.Lookup != nil {
		if v, ok := e.Lookup(name); ok {
			return v, nil
		}
	}
	if e.Builtins != nil {
		if c, ok := e.Builtins.Constant(name); ok {
			return Scalar(c), nil
		}
	}
	return nil, evalErrorf("unbound identifier %s", name)
}

func (e *Evaluator) scalarOperand(x syntax.Expr) (float64, error) {
	v, err := e.expr(x)
	if err != nil {
		return 0, err
	}
	s, ok := AsScalar(v)
	if !ok {
		return 0, evalErrorf("operand is a %s, not a scalar", v.Kind())
	}
	return s, nil
}

func (e *Evaluator) binary(v *syntax.BinaryExpr) (Value, error) {
	switch v.Op {
	case syntax.PLUS, syntax.MINUS, syntax.STAR, syntax.SLASH:
	default:
		return nil, evalErrorf("unsupported operator %s", v.Op)
	}
	a, err := e.scalarOperand(v.X)
	if err != nil {
		return nil, err
	}
	b, err := e.scalarOperand(v.Y)
	if err != nil {
		return nil, err
	}
	switch v.Op {
	case syntax.PLUS:
		return Scalar(a + b), nil
	case syntax.MINUS:
		return Scalar(a - b), nil
	case syntax.STAR:
		return Scalar(a * b), nil
	default:
		if b == 0 {
			return nil, evalErrorf("division by zero")
		}
		return Scalar(a / b), nil
	}
}

func (e *Evaluator) call(v *syntax.CallExpr) (Value, error) {
	fn, ok := v.Fn.(*syntax.Ident)
	if !ok {
		return nil, evalErrorf("call target must be a name")
	}
	name := unescapeIdent(fn.Name)
	if e.Builtins == nil {
		return nil, evalErrorf("unknown function %s", name)
	}
	impl, ok := e.Builtins.Function(name)
	if !ok {
		return nil, evalErrorf("unknown function %s", name)
	}
	args := make([]Value, 0, len(v.Args))
	for _, a := range v.Args {
		if b, ok := a.(*syntax.BinaryExpr); ok && b.Op == syntax.EQ {
			return nil, evalErrorf("keyword arguments are unsupported")
		}
		val, err := e.expr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return impl(args)
}
