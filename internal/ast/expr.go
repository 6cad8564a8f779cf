package ast

import (
	"fmt"

	"sift/internal/source"
)

// ExprKind is the closed set of node categories in a parsed snapshot.
type ExprKind uint8

const (
	// ExprBad marks a malformed region; it always resolves to the
	// unknown type.
	ExprBad ExprKind = iota

	ExprLitInt
	ExprLitFloat
	ExprLitString
	ExprLitBool
	ExprLitNil

	ExprVarName
	ExprFieldName
	// ExprPointer is an implicit predicate parameter: #, #index, #acc.
	ExprPointer

	ExprSelector
	ExprOptSelector

	ExprArray
	ExprMap
	ExprPair

	ExprIndex
	ExprSlice
	ExprRange

	ExprCall
	ExprPipe
	ExprArguments

	ExprUnary
	ExprBinary
	ExprTernary

	ExprLet
	ExprComment
	ExprBlock
)

func (k ExprKind) String() string {
	switch k {
	case ExprBad:
		return "bad"
	case ExprLitInt:
		return "int"
	case ExprLitFloat:
		return "float"
	case ExprLitString:
		return "string"
	case ExprLitBool:
		return "bool"
	case ExprLitNil:
		return "nil"
	case ExprVarName:
		return "var_name"
	case ExprFieldName:
		return "field_name"
	case ExprPointer:
		return "pointer"
	case ExprSelector:
		return "selector"
	case ExprOptSelector:
		return "opt_selector"
	case ExprArray:
		return "array"
	case ExprMap:
		return "map"
	case ExprPair:
		return "pair"
	case ExprIndex:
		return "index"
	case ExprSlice:
		return "slice"
	case ExprRange:
		return "range"
	case ExprCall:
		return "call"
	case ExprPipe:
		return "pipe"
	case ExprArguments:
		return "arguments"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprTernary:
		return "ternary"
	case ExprLet:
		return "let"
	case ExprComment:
		return "comment"
	case ExprBlock:
		return "block"
	default:
		return fmt.Sprintf("ExprKind(%d)", k)
	}
}

// Expr is the per-node header; payloads live in kind-specific arenas.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Parent  ExprID
	payload uint32
}
