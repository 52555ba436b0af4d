package interp

import "fmt"

// Status is the lifecycle of one execution: Idle → Running → Done | Failed.
type Status int

const (
	Idle Status = iota
	Running
	Done
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// StatementKind is the syntactic class of one statement.
type StatementKind int

const (
	Blank StatementKind = iota
	Comment
	Assignment
	Print
	Plot
	Cleanup
	Generic
)

func (k StatementKind) String() string {
	switch k {
	case Blank:
		return "Blank"
	case Comment:
		return "Comment"
	case Assignment:
		return "Assignment"
	case Print:
		return "Print"
	case Plot:
		return "Plot"
	case Cleanup:
		return "Cleanup"
	case Generic:
		return "Generic"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// ExprKind is the sub-evaluator chosen for the right-hand side of an assignment.
type ExprKind int

const (
	RangeExpr ExprKind = iota
	TrigExpr
	FFTExpr
	RandomExpr
	LiteralExpr
	ArithmeticExpr
	VectorExpr
)

func (k ExprKind) String() string {
	switch k {
	case RangeExpr:
		return "Range"
	case TrigExpr:
		return "Trig"
	case FFTExpr:
		return "FFT"
	case RandomExpr:
		return "Random"
	case LiteralExpr:
		return "Literal"
	case ArithmeticExpr:
		return "Arithmetic"
	case VectorExpr:
		return "Vector"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}
