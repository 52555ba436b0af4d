package vm

import "fmt"

// Value is the tagged union held by the variable store. Exactly one of
// Scalar, RealVector or ComplexVector.
type Value interface {
	isValue()
	Kind() string
	Len() int
	Clone() Value
}

type Scalar float64

func (Scalar) isValue()       {}
func (Scalar) Kind() string   { return "scalar" }
func (Scalar) Len() int       { return 1 }
func (s Scalar) Clone() Value { return s }

type RealVector []float64

func (RealVector) isValue()     {}
func (RealVector) Kind() string { return "real vector" }
func (v RealVector) Len() int   { return len(v) }
func (v RealVector) Clone() Value {
	out := make(RealVector, len(v))
	copy(out, v)
	return out
}

type ComplexVector []complex128

func (ComplexVector) isValue()     {}
func (ComplexVector) Kind() string { return "complex vector" }
func (v ComplexVector) Len() int   { return len(v) }
func (v ComplexVector) Clone() Value {
	out := make(ComplexVector, len(v))
	copy(out, v)
	return out
}

// AsScalar unwraps a Scalar.
func AsScalar(v Value) (float64, bool) {
	s, ok := v.(Scalar)
	return float64(s), ok
}

// IsVector is true for both vector tags.
func IsVector(v Value) bool {
	switch v.(type) {
	case RealVector, ComplexVector:
		return true
	}
	return false
}

// Floats flattens a value into its real components. Complex entries
// contribute their real part.
func Floats(v Value) []float64 {
	switch val := v.(type) {
	case Scalar:
		return []float64{float64(val)}
	case RealVector:
		return []float64(val)
	case ComplexVector:
		out := make([]float64, len(val))
		for i, c := range val {
			out[i] = real(c)
		}
		return out
	}
	return nil
}

// Format renders a value for transcripts and debug output, eliding long vectors.
func Format(v Value) string {
	switch val := v.(type) {
	case Scalar:
		return fmt.Sprintf("%g", float64(val))
	case RealVector:
		return formatList(len(val), func(i int) string { return fmt.Sprintf("%g", val[i]) })
	case ComplexVector:
		return formatList(len(val), func(i int) string {
			return fmt.Sprintf("%g%+gi", real(val[i]), imag(val[i]))
		})
	case nil:
		return "<unbound>"
	default:
		return fmt.Sprintf("<%T>", v)
	}
}

func formatList(n int, elem func(int) string) string {
	if n == 0 {
		return "[]"
	}
	result := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			result += ", "
		}
		if i >= 5 {
			result += fmt.Sprintf("... (%d more)", n-i)
			break
		}
		result += elem(i)
	}
	return result + "]"
}
