// Package infer computes structural types for sift expressions: the
// per-node resolver, member lookup with embedding promotion, generic
// signature instantiation, and the local/predicate scope rules. It
// supplies facts, never verdicts: anything it cannot interpret
// resolves to the unknown type, and diagnostics are someone else's job.
package infer

import (
	"strings"
	"sync"

	"sift/internal/ast"
	"sift/internal/source"
	"sift/internal/types"
)

// Resolver answers type queries against one immutable snapshot. The
// memo is keyed by node ID and shared across queries; a new snapshot
// needs a new Resolver.
type Resolver struct {
	builder *ast.Builder
	text    *source.Text
	scope   types.Scope

	mu   sync.Mutex
	memo map[ast.ExprID]*types.Definition
}

// maxDepth bounds recursion so malformed trees degrade to unknown
// instead of exhausting the stack.
const maxDepth = 512

// New creates a resolver for one snapshot. scope is the full query
// environment: built-ins already merged under host entries.
func New(builder *ast.Builder, text *source.Text, scope types.Scope) *Resolver {
	return &Resolver{
		builder: builder,
		text:    text,
		scope:   scope,
		memo:    make(map[ast.ExprID]*types.Definition),
	}
}

// Builder returns the snapshot tree.
func (r *Resolver) Builder() *ast.Builder {
	return r.builder
}

// Text returns the snapshot source.
func (r *Resolver) Text() *source.Text {
	return r.text
}

// Scope returns the query environment.
func (r *Resolver) Scope() types.Scope {
	return r.scope
}

// TypeOf computes the type of a node, memoized per snapshot.
func (r *Resolver) TypeOf(id ast.ExprID) *types.Definition {
	return r.typeOf(id, 0)
}

func (r *Resolver) typeOf(id ast.ExprID, depth int) *types.Definition {
	if !id.IsValid() || depth > maxDepth {
		return types.Any
	}
	r.mu.Lock()
	if cached, ok := r.memo[id]; ok {
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	def := r.resolve(id, depth)
	if def == nil {
		def = types.Any
	}
	r.mu.Lock()
	r.memo[id] = def
	r.mu.Unlock()
	return def
}

func (r *Resolver) resolve(id ast.ExprID, depth int) *types.Definition {
	expr := r.builder.Exprs.Get(id)
	if expr == nil {
		return types.Any
	}
	switch expr.Kind {
	case ast.ExprLitInt:
		return types.Int
	case ast.ExprLitFloat:
		return types.Float
	case ast.ExprLitString:
		return types.String
	case ast.ExprLitBool:
		return types.Bool
	case ast.ExprLitNil:
		return types.Nil
	case ast.ExprRange:
		return types.NewSlice(types.Int)
	case ast.ExprVarName:
		return r.resolveVar(id, expr, depth)
	case ast.ExprPointer:
		return r.resolvePointer(id, expr, depth)
	case ast.ExprFieldName:
		// A field name types as its owning selector.
		if parent := r.builder.Exprs.Get(expr.Parent); parent != nil {
			if sel, ok := r.builder.Exprs.Selector(expr.Parent); ok && sel.Field == id {
				return r.typeOf(expr.Parent, depth+1)
			}
		}
		return types.Any
	case ast.ExprSelector, ast.ExprOptSelector:
		return r.resolveSelector(id, depth)
	case ast.ExprUnary:
		if data, ok := r.builder.Exprs.Unary(id); ok {
			return r.typeOf(data.Operand, depth+1)
		}
	case ast.ExprArray:
		return r.resolveArray(id, depth)
	case ast.ExprMap:
		return r.resolveMap(id, depth)
	case ast.ExprPair:
		if data, ok := r.builder.Exprs.Pair(id); ok {
			return r.typeOf(data.Value, depth+1)
		}
	case ast.ExprIndex:
		return r.resolveIndex(id, depth)
	case ast.ExprSlice:
		if data, ok := r.builder.Exprs.Slice(id); ok {
			src := r.typeOf(data.Target, depth+1)
			if types.IsSlice(src) {
				// Slicing a fixed-size array still yields a slice.
				return types.NewSlice(src.Elem)
			}
		}
	case ast.ExprCall:
		return r.resolveCall(id, depth)
	case ast.ExprPipe:
		if data, ok := r.builder.Exprs.Pipe(id); ok {
			return r.typeOf(data.Target, depth+1)
		}
	case ast.ExprBinary:
		return r.resolveBinary(id, depth)
	case ast.ExprTernary:
		return r.resolveTernary(id, depth)
	case ast.ExprLet:
		if data, ok := r.builder.Exprs.Let(id); ok {
			return r.typeOf(data.Value, depth+1)
		}
	case ast.ExprBlock:
		if data, ok := r.builder.Exprs.Block(id); ok {
			for i := len(data.List) - 1; i >= 0; i-- {
				child := r.builder.Exprs.Get(data.List[i])
				if child == nil || child.Kind == ast.ExprComment {
					continue
				}
				return r.typeOf(data.List[i], depth+1)
			}
		}
	}
	// ExprBad, ExprComment, ExprArguments and anything unhandled.
	return types.Any
}

func (r *Resolver) resolveVar(id ast.ExprID, expr *ast.Expr, depth int) *types.Definition {
	data, ok := r.builder.Exprs.Name(id)
	if !ok {
		return types.Any
	}
	// The attached scope wins; local declarations only fill names the
	// host environment does not define.
	if v, ok := r.scope.Variable(data.Name); ok {
		return v.Type
	}
	locals := r.localScope(id, expr.Span.Start, depth)
	if v, ok := locals[data.Name]; ok {
		return v.Type
	}
	return types.Any
}

func (r *Resolver) resolvePointer(id ast.ExprID, _ *ast.Expr, depth int) *types.Definition {
	data, ok := r.builder.Exprs.Name(id)
	if !ok {
		return types.Any
	}
	pointers := r.pointers(id, depth)
	if v, ok := pointers[data.Name]; ok {
		return v.Type
	}
	return types.Any
}

func (r *Resolver) resolveSelector(id ast.ExprID, depth int) *types.Definition {
	data, ok := r.builder.Exprs.Selector(id)
	if !ok {
		return types.Any
	}
	field, ok := r.builder.Exprs.Name(data.Field)
	if !ok || field.Name == "" {
		return types.Any
	}
	src := r.typeOf(data.Target, depth+1)
	if member := LookupMember(r.scope, src, field.Name); member != nil {
		return member.Type
	}
	return types.Any
}

func (r *Resolver) resolveArray(id ast.ExprID, depth int) *types.Definition {
	data, ok := r.builder.Exprs.Array(id)
	if !ok || len(data.Elements) == 0 {
		return types.NewSlice(types.Any)
	}
	first := r.typeOf(data.Elements[0], depth+1)
	for _, elem := range data.Elements[1:] {
		if !types.Equal(first, r.typeOf(elem, depth+1)) {
			return types.NewSlice(types.Any)
		}
	}
	return types.NewSlice(first)
}

func (r *Resolver) resolveMap(id ast.ExprID, depth int) *types.Definition {
	data, ok := r.builder.Exprs.Map(id)
	if !ok || len(data.Pairs) == 0 {
		return types.NewMap(types.String, types.Any)
	}
	var first *types.Definition
	for _, pairID := range data.Pairs {
		pair, ok := r.builder.Exprs.Pair(pairID)
		if !ok {
			continue
		}
		vt := r.typeOf(pair.Value, depth+1)
		if first == nil {
			first = vt
			continue
		}
		if !types.Equal(first, vt) {
			return types.NewMap(types.String, types.Any)
		}
	}
	if first == nil {
		first = types.Any
	}
	// Keys are always treated as strings.
	return types.NewMap(types.String, first)
}

func (r *Resolver) resolveIndex(id ast.ExprID, depth int) *types.Definition {
	data, ok := r.builder.Exprs.Index(id)
	if !ok {
		return types.Any
	}
	src := r.typeOf(data.Target, depth+1)
	switch {
	case types.IsSlice(src):
		return src.Elem
	case src != nil && src.Kind == types.KindMap:
		return src.Value
	default:
		return types.Any
	}
}

func (r *Resolver) resolveCall(id ast.ExprID, depth int) *types.Definition {
	call, ok := r.builder.Exprs.Call(id)
	if !ok {
		return types.Any
	}
	callee := r.typeOf(call.Callee, depth+1)
	if callee == nil || callee.Kind != types.KindFunc {
		return types.Any
	}
	argTypes := r.effectiveArgs(id, call, depth, ast.NoExprID)
	inst := Instantiate(callee, r.calleeName(call.Callee), argTypes)
	if inst == nil || len(inst.Returns) == 0 {
		return types.Any
	}
	return inst.Returns[0]
}

// effectiveArgs builds the unification argument list for a call,
// prepending the pipe source when the call is pipe-fed. mask, when
// valid, replaces that argument's type with unknown (the predicate
// scope uses it to avoid self-reference).
func (r *Resolver) effectiveArgs(id ast.ExprID, call *ast.CallData, depth int, mask ast.ExprID) []*types.Definition {
	var out []*types.Definition
	if src := r.pipeSource(id); src.IsValid() {
		out = append(out, r.typeOf(src, depth+1))
	}
	if args, ok := r.builder.Exprs.Arguments(call.Args); ok {
		for _, argID := range args.List {
			if mask.IsValid() && argID == mask {
				out = append(out, types.Any)
				continue
			}
			out = append(out, r.typeOf(argID, depth+1))
		}
	}
	return out
}

// pipeSource returns the piped-in expression when callID is the
// right-hand side of a pipe.
func (r *Resolver) pipeSource(callID ast.ExprID) ast.ExprID {
	expr := r.builder.Exprs.Get(callID)
	if expr == nil {
		return ast.NoExprID
	}
	pipe, ok := r.builder.Exprs.Pipe(expr.Parent)
	if !ok || pipe.Target != callID {
		return ast.NoExprID
	}
	return pipe.Source
}

// calleeName names the called function for predicate-builtin
// detection: a bare variable or the final selector field.
func (r *Resolver) calleeName(callee ast.ExprID) string {
	if name, ok := r.builder.Exprs.Name(callee); ok {
		return name.Name
	}
	if sel, ok := r.builder.Exprs.Selector(callee); ok {
		if field, ok := r.builder.Exprs.Name(sel.Field); ok {
			return field.Name
		}
	}
	return ""
}

func (r *Resolver) resolveBinary(id ast.ExprID, depth int) *types.Definition {
	data, ok := r.builder.Exprs.Binary(id)
	if !ok {
		return types.Any
	}
	if data.Op.IsComparison() || data.Op.IsLogical() {
		return types.Bool
	}
	left := r.typeOf(data.Left, depth+1)
	right := r.typeOf(data.Right, depth+1)
	switch {
	case types.IsNumber(left) && types.IsNumber(right):
		// Numeric widening: arithmetic on numbers yields the float tag.
		return types.Float
	case types.Equal(left, right):
		return left
	default:
		return types.Any
	}
}

func (r *Resolver) resolveTernary(id ast.ExprID, depth int) *types.Definition {
	data, ok := r.builder.Exprs.Ternary(id)
	if !ok {
		return types.Any
	}
	thenType := r.typeOf(data.Then, depth+1)
	elseType := r.typeOf(data.Else, depth+1)
	if unwrapped := r.unwrapNilTernary(data, thenType, elseType); unwrapped != nil {
		return unwrapped
	}
	if types.Equal(thenType, elseType) {
		return thenType
	}
	return types.Any
}

// unwrapNilTernary handles `x == nil ? fallback : x` (and the != nil
// mirror): when the condition compares an operand against nil and the
// branch taken on "non-nil" has the same source text as that operand,
// an optional branch type unwraps to its element.
//
// The match is literal source-text equality, a deliberate
// approximation of "same value"; it is kept as-is rather than
// strengthened into alias analysis.
func (r *Resolver) unwrapNilTernary(data *ast.TernaryData, thenType, elseType *types.Definition) *types.Definition {
	cond, ok := r.builder.Exprs.Binary(data.Cond)
	if !ok || !cond.Op.IsEquality() {
		return nil
	}
	operand := ast.NoExprID
	switch {
	case r.isNilLiteral(cond.Right):
		operand = cond.Left
	case r.isNilLiteral(cond.Left):
		operand = cond.Right
	default:
		return nil
	}

	// == nil pairs with the false branch, != nil with the true branch.
	matched := data.Else
	matchedType, otherType := elseType, thenType
	if cond.Op == ast.BinaryNe {
		matched = data.Then
		matchedType, otherType = thenType, elseType
	}

	if matchedType == nil || matchedType.Kind != types.KindOptional {
		return nil
	}
	if r.nodeText(operand) == "" || r.nodeText(operand) != r.nodeText(matched) {
		return nil
	}
	if !types.Equal(matchedType.Elem, otherType) {
		return nil
	}
	return matchedType.Elem
}

func (r *Resolver) isNilLiteral(id ast.ExprID) bool {
	expr := r.builder.Exprs.Get(id)
	return expr != nil && expr.Kind == ast.ExprLitNil
}

func (r *Resolver) nodeText(id ast.ExprID) string {
	expr := r.builder.Exprs.Get(id)
	if expr == nil || r.text == nil {
		return ""
	}
	return strings.TrimSpace(r.text.Slice(expr.Span))
}
