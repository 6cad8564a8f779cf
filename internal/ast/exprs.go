package ast

import "sift/internal/source"

// LiteralData holds the raw text of a literal node.
type LiteralData struct {
	Value string
}

// NameData holds the identifier of a VarName, FieldName or Pointer node.
// Pointer names include the leading hash: "#", "#index", "#acc".
type NameData struct {
	Name string
}

// SelectorData is member access: Target.Field or Target?.Field.
type SelectorData struct {
	Target ExprID
	Field  ExprID // ExprFieldName
}

// ArrayData is an array literal.
type ArrayData struct {
	Elements []ExprID
}

// MapData is a map literal; pairs keep source order.
type MapData struct {
	Pairs []ExprID // ExprPair
}

// PairData is one key: value entry of a map literal.
type PairData struct {
	Key   ExprID
	Value ExprID
}

// IndexData is Target[Index].
type IndexData struct {
	Target ExprID
	Index  ExprID
}

// SliceData is Target[Low:High]; either bound may be absent.
type SliceData struct {
	Target ExprID
	Low    ExprID
	High   ExprID
}

// RangeData is Low..High.
type RangeData struct {
	Low  ExprID
	High ExprID
}

// CallData is Callee(Args); Args is an ExprArguments node.
type CallData struct {
	Callee ExprID
	Args   ExprID
}

// ArgumentsData is the argument list of a call.
type ArgumentsData struct {
	List []ExprID
}

// PipeData feeds Source as the first argument of Target.
type PipeData struct {
	Source ExprID
	Target ExprID
}

// UnaryData is a prefix operation.
type UnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

// BinaryData is an infix operation.
type BinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

// TernaryData is Cond ? Then : Else.
type TernaryData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

// LetData is a local declaration: let Name = Value.
type LetData struct {
	Name     string
	NameSpan source.Span
	Value    ExprID
}

// CommentData is a line or block comment with delimiters stripped.
type CommentData struct {
	Text  string
	Block bool
}

// BlockData is an ordered sequence of declarations, comments and
// expressions; its type is the type of the last expression child.
type BlockData struct {
	List []ExprID
}

// Exprs stores every node of one snapshot plus kind-specific payloads.
type Exprs struct {
	arena *Arena[Expr]

	literals  *Arena[LiteralData]
	names     *Arena[NameData]
	selectors *Arena[SelectorData]
	arrays    *Arena[ArrayData]
	maps      *Arena[MapData]
	pairs     *Arena[PairData]
	indexes   *Arena[IndexData]
	slices    *Arena[SliceData]
	ranges    *Arena[RangeData]
	calls     *Arena[CallData]
	arguments *Arena[ArgumentsData]
	pipes     *Arena[PipeData]
	unaries   *Arena[UnaryData]
	binaries  *Arena[BinaryData]
	ternaries *Arena[TernaryData]
	lets      *Arena[LetData]
	comments  *Arena[CommentData]
	blocks    *Arena[BlockData]
}

// NewExprs allocates node storage with a capacity hint.
func NewExprs(capHint uint) *Exprs {
	return &Exprs{
		arena:     NewArena[Expr](capHint),
		literals:  NewArena[LiteralData](0),
		names:     NewArena[NameData](0),
		selectors: NewArena[SelectorData](0),
		arrays:    NewArena[ArrayData](0),
		maps:      NewArena[MapData](0),
		pairs:     NewArena[PairData](0),
		indexes:   NewArena[IndexData](0),
		slices:    NewArena[SliceData](0),
		ranges:    NewArena[RangeData](0),
		calls:     NewArena[CallData](0),
		arguments: NewArena[ArgumentsData](0),
		pipes:     NewArena[PipeData](0),
		unaries:   NewArena[UnaryData](0),
		binaries:  NewArena[BinaryData](0),
		ternaries: NewArena[TernaryData](0),
		lets:      NewArena[LetData](0),
		comments:  NewArena[CommentData](0),
		blocks:    NewArena[BlockData](0),
	}
}

// Get returns the node header for id.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.arena.Get(uint32(id))
}

// Len returns the number of allocated nodes.
func (e *Exprs) Len() uint32 {
	return e.arena.Len()
}

func (e *Exprs) newNode(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.arena.Allocate(Expr{Kind: kind, Span: span, payload: payload}))
}

// Literal returns the payload of a literal node.
func (e *Exprs) Literal(id ExprID) (*LiteralData, bool) {
	expr := e.Get(id)
	if expr == nil {
		return nil, false
	}
	switch expr.Kind {
	case ExprLitInt, ExprLitFloat, ExprLitString, ExprLitBool, ExprLitNil:
		data := e.literals.Get(expr.payload)
		return data, data != nil
	default:
		return nil, false
	}
}

// Name returns the payload of a VarName, FieldName or Pointer node.
func (e *Exprs) Name(id ExprID) (*NameData, bool) {
	expr := e.Get(id)
	if expr == nil {
		return nil, false
	}
	switch expr.Kind {
	case ExprVarName, ExprFieldName, ExprPointer:
		data := e.names.Get(expr.payload)
		return data, data != nil
	default:
		return nil, false
	}
}

// Selector returns the payload of a selector or optional selector.
func (e *Exprs) Selector(id ExprID) (*SelectorData, bool) {
	expr := e.Get(id)
	if expr == nil || (expr.Kind != ExprSelector && expr.Kind != ExprOptSelector) {
		return nil, false
	}
	data := e.selectors.Get(expr.payload)
	return data, data != nil
}

// Array returns the payload of an array literal.
func (e *Exprs) Array(id ExprID) (*ArrayData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprArray {
		return nil, false
	}
	data := e.arrays.Get(expr.payload)
	return data, data != nil
}

// Map returns the payload of a map literal.
func (e *Exprs) Map(id ExprID) (*MapData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMap {
		return nil, false
	}
	data := e.maps.Get(expr.payload)
	return data, data != nil
}

// Pair returns the payload of a map entry.
func (e *Exprs) Pair(id ExprID) (*PairData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprPair {
		return nil, false
	}
	data := e.pairs.Get(expr.payload)
	return data, data != nil
}

// Index returns the payload of an index expression.
func (e *Exprs) Index(id ExprID) (*IndexData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIndex {
		return nil, false
	}
	data := e.indexes.Get(expr.payload)
	return data, data != nil
}

// Slice returns the payload of a slice expression.
func (e *Exprs) Slice(id ExprID) (*SliceData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprSlice {
		return nil, false
	}
	data := e.slices.Get(expr.payload)
	return data, data != nil
}

// Range returns the payload of a range expression.
func (e *Exprs) Range(id ExprID) (*RangeData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprRange {
		return nil, false
	}
	data := e.ranges.Get(expr.payload)
	return data, data != nil
}

// Call returns the payload of a call expression.
func (e *Exprs) Call(id ExprID) (*CallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	data := e.calls.Get(expr.payload)
	return data, data != nil
}

// Arguments returns the payload of an argument list.
func (e *Exprs) Arguments(id ExprID) (*ArgumentsData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprArguments {
		return nil, false
	}
	data := e.arguments.Get(expr.payload)
	return data, data != nil
}

// Pipe returns the payload of a pipe expression.
func (e *Exprs) Pipe(id ExprID) (*PipeData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprPipe {
		return nil, false
	}
	data := e.pipes.Get(expr.payload)
	return data, data != nil
}

// Unary returns the payload of a unary expression.
func (e *Exprs) Unary(id ExprID) (*UnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	data := e.unaries.Get(expr.payload)
	return data, data != nil
}

// Binary returns the payload of a binary expression.
func (e *Exprs) Binary(id ExprID) (*BinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	data := e.binaries.Get(expr.payload)
	return data, data != nil
}

// Ternary returns the payload of a conditional expression.
func (e *Exprs) Ternary(id ExprID) (*TernaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprTernary {
		return nil, false
	}
	data := e.ternaries.Get(expr.payload)
	return data, data != nil
}

// Let returns the payload of a declaration.
func (e *Exprs) Let(id ExprID) (*LetData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLet {
		return nil, false
	}
	data := e.lets.Get(expr.payload)
	return data, data != nil
}

// Comment returns the payload of a comment node.
func (e *Exprs) Comment(id ExprID) (*CommentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprComment {
		return nil, false
	}
	data := e.comments.Get(expr.payload)
	return data, data != nil
}

// Block returns the payload of a block node.
func (e *Exprs) Block(id ExprID) (*BlockData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBlock {
		return nil, false
	}
	data := e.blocks.Get(expr.payload)
	return data, data != nil
}
