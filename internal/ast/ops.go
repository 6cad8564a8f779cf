package ast

import "fmt"

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryPos
	UnaryNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryPos:
		return "+"
	case UnaryNot:
		return "!"
	default:
		return fmt.Sprintf("UnaryOp(%d)", op)
	}
}

// BinaryOp enumerates infix operators.
type BinaryOp uint8

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryEq
	BinaryNe
	BinaryLt
	BinaryLe
	BinaryGt
	BinaryGe
	BinaryLAnd
	BinaryLOr
)

func (op BinaryOp) String() string {
	switch op {
	case BinaryAdd:
		return "+"
	case BinarySub:
		return "-"
	case BinaryMul:
		return "*"
	case BinaryDiv:
		return "/"
	case BinaryMod:
		return "%"
	case BinaryEq:
		return "=="
	case BinaryNe:
		return "!="
	case BinaryLt:
		return "<"
	case BinaryLe:
		return "<="
	case BinaryGt:
		return ">"
	case BinaryGe:
		return ">="
	case BinaryLAnd:
		return "&&"
	case BinaryLOr:
		return "||"
	default:
		return fmt.Sprintf("BinaryOp(%d)", op)
	}
}

// IsComparison reports whether the operator compares operands.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinaryEq, BinaryNe, BinaryLt, BinaryLe, BinaryGt, BinaryGe:
		return true
	default:
		return false
	}
}

// IsLogical reports whether the operator is && or ||.
func (op BinaryOp) IsLogical() bool {
	return op == BinaryLAnd || op == BinaryLOr
}

// IsEquality reports whether the operator is == or !=.
func (op BinaryOp) IsEquality() bool {
	return op == BinaryEq || op == BinaryNe
}
