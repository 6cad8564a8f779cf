package ast

import "sift/internal/source"

// Builder owns one snapshot's node storage and keeps parent links
// consistent while the tree is assembled. A fresh Builder is created
// per parse; nothing is shared between snapshots.
type Builder struct {
	Exprs *Exprs
	Root  ExprID
}

// NewBuilder allocates an empty snapshot.
func NewBuilder(capHint uint) *Builder {
	return &Builder{Exprs: NewExprs(capHint)}
}

func (b *Builder) adopt(parent ExprID, children ...ExprID) {
	for _, child := range children {
		if !child.IsValid() {
			continue
		}
		if expr := b.Exprs.Get(child); expr != nil {
			expr.Parent = parent
		}
	}
}

// NewBad allocates a malformed-region node.
func (b *Builder) NewBad(span source.Span) ExprID {
	return b.Exprs.newNode(ExprBad, span, 0)
}

// NewLiteral allocates a literal node of the given literal kind.
func (b *Builder) NewLiteral(kind ExprKind, span source.Span, value string) ExprID {
	payload := b.Exprs.literals.Allocate(LiteralData{Value: value})
	return b.Exprs.newNode(kind, span, payload)
}

// NewName allocates a VarName, FieldName or Pointer node.
func (b *Builder) NewName(kind ExprKind, span source.Span, name string) ExprID {
	payload := b.Exprs.names.Allocate(NameData{Name: name})
	return b.Exprs.newNode(kind, span, payload)
}

// NewSelector allocates Target.Field; optional selects with ?.
func (b *Builder) NewSelector(span source.Span, optional bool, target, field ExprID) ExprID {
	kind := ExprSelector
	if optional {
		kind = ExprOptSelector
	}
	payload := b.Exprs.selectors.Allocate(SelectorData{Target: target, Field: field})
	id := b.Exprs.newNode(kind, span, payload)
	b.adopt(id, target, field)
	return id
}

// NewArray allocates an array literal.
func (b *Builder) NewArray(span source.Span, elements []ExprID) ExprID {
	payload := b.Exprs.arrays.Allocate(ArrayData{Elements: elements})
	id := b.Exprs.newNode(ExprArray, span, payload)
	b.adopt(id, elements...)
	return id
}

// NewMap allocates a map literal from pair nodes.
func (b *Builder) NewMap(span source.Span, pairs []ExprID) ExprID {
	payload := b.Exprs.maps.Allocate(MapData{Pairs: pairs})
	id := b.Exprs.newNode(ExprMap, span, payload)
	b.adopt(id, pairs...)
	return id
}

// NewPair allocates one map entry.
func (b *Builder) NewPair(span source.Span, key, value ExprID) ExprID {
	payload := b.Exprs.pairs.Allocate(PairData{Key: key, Value: value})
	id := b.Exprs.newNode(ExprPair, span, payload)
	b.adopt(id, key, value)
	return id
}

// NewIndex allocates Target[Index].
func (b *Builder) NewIndex(span source.Span, target, index ExprID) ExprID {
	payload := b.Exprs.indexes.Allocate(IndexData{Target: target, Index: index})
	id := b.Exprs.newNode(ExprIndex, span, payload)
	b.adopt(id, target, index)
	return id
}

// NewSlice allocates Target[Low:High].
func (b *Builder) NewSlice(span source.Span, target, low, high ExprID) ExprID {
	payload := b.Exprs.slices.Allocate(SliceData{Target: target, Low: low, High: high})
	id := b.Exprs.newNode(ExprSlice, span, payload)
	b.adopt(id, target, low, high)
	return id
}

// NewRange allocates Low..High.
func (b *Builder) NewRange(span source.Span, low, high ExprID) ExprID {
	payload := b.Exprs.ranges.Allocate(RangeData{Low: low, High: high})
	id := b.Exprs.newNode(ExprRange, span, payload)
	b.adopt(id, low, high)
	return id
}

// NewCall allocates Callee(args...); the argument list gets its own
// ExprArguments node so upward walks can detect the boundary.
func (b *Builder) NewCall(span source.Span, argsSpan source.Span, callee ExprID, args []ExprID) ExprID {
	argsPayload := b.Exprs.arguments.Allocate(ArgumentsData{List: args})
	argsID := b.Exprs.newNode(ExprArguments, argsSpan, argsPayload)
	b.adopt(argsID, args...)

	payload := b.Exprs.calls.Allocate(CallData{Callee: callee, Args: argsID})
	id := b.Exprs.newNode(ExprCall, span, payload)
	b.adopt(id, callee, argsID)
	return id
}

// NewPipe allocates Source | Target.
func (b *Builder) NewPipe(span source.Span, sourceExpr, target ExprID) ExprID {
	payload := b.Exprs.pipes.Allocate(PipeData{Source: sourceExpr, Target: target})
	id := b.Exprs.newNode(ExprPipe, span, payload)
	b.adopt(id, sourceExpr, target)
	return id
}

// NewUnary allocates a prefix operation.
func (b *Builder) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	payload := b.Exprs.unaries.Allocate(UnaryData{Op: op, Operand: operand})
	id := b.Exprs.newNode(ExprUnary, span, payload)
	b.adopt(id, operand)
	return id
}

// NewBinary allocates an infix operation.
func (b *Builder) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	payload := b.Exprs.binaries.Allocate(BinaryData{Op: op, Left: left, Right: right})
	id := b.Exprs.newNode(ExprBinary, span, payload)
	b.adopt(id, left, right)
	return id
}

// NewTernary allocates Cond ? Then : Else.
func (b *Builder) NewTernary(span source.Span, cond, then, els ExprID) ExprID {
	payload := b.Exprs.ternaries.Allocate(TernaryData{Cond: cond, Then: then, Else: els})
	id := b.Exprs.newNode(ExprTernary, span, payload)
	b.adopt(id, cond, then, els)
	return id
}

// NewLet allocates let Name = Value.
func (b *Builder) NewLet(span source.Span, name string, nameSpan source.Span, value ExprID) ExprID {
	payload := b.Exprs.lets.Allocate(LetData{Name: name, NameSpan: nameSpan, Value: value})
	id := b.Exprs.newNode(ExprLet, span, payload)
	b.adopt(id, value)
	return id
}

// NewComment allocates a comment node; text carries no delimiters.
func (b *Builder) NewComment(span source.Span, text string, block bool) ExprID {
	payload := b.Exprs.comments.Allocate(CommentData{Text: text, Block: block})
	return b.Exprs.newNode(ExprComment, span, payload)
}

// NewBlock allocates a block node and usually becomes the root.
func (b *Builder) NewBlock(span source.Span, list []ExprID) ExprID {
	payload := b.Exprs.blocks.Allocate(BlockData{List: list})
	id := b.Exprs.newNode(ExprBlock, span, payload)
	b.adopt(id, list...)
	return id
}

// SetRoot records the snapshot root.
func (b *Builder) SetRoot(id ExprID) {
	b.Root = id
}

// At returns the innermost node whose span contains offset. Comment
// and arguments nodes are skipped so editor queries land on
// expressions.
func (b *Builder) At(offset uint32) ExprID {
	best := NoExprID
	var bestLen uint32
	for raw := uint32(1); raw <= b.Exprs.Len(); raw++ {
		id := ExprID(raw)
		expr := b.Exprs.Get(id)
		if expr == nil || expr.Kind == ExprComment || expr.Kind == ExprArguments || expr.Kind == ExprBlock {
			continue
		}
		if !expr.Span.ContainsInclusive(offset) {
			continue
		}
		length := expr.Span.Len()
		if best == NoExprID || length < bestLen || (length == bestLen && id > best) {
			best = id
			bestLen = length
		}
	}
	return best
}

// Walk visits every allocated node in allocation order.
func (b *Builder) Walk(visit func(ExprID, *Expr)) {
	for raw := uint32(1); raw <= b.Exprs.Len(); raw++ {
		id := ExprID(raw)
		if expr := b.Exprs.Get(id); expr != nil {
			visit(id, expr)
		}
	}
}
