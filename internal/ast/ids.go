package ast

// ExprID addresses a node in the expression arena (1-based).
type ExprID uint32

// NoExprID marks the absence of a node.
const NoExprID ExprID = 0

// IsValid reports whether the ID refers to a real node.
func (id ExprID) IsValid() bool {
	return id != NoExprID
}
