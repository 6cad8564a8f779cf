package infer

import (
	"strings"

	"sift/internal/ast"
	"sift/internal/types"
)

// LocalScope collects the `let` declarations visible at the target
// node's start offset, layered over the implicit predicate-parameter
// scope. Later declarations shadow earlier ones of the same name.
func (r *Resolver) LocalScope(target ast.ExprID) map[string]types.Variable {
	pos := uint32(0)
	if expr := r.builder.Exprs.Get(target); expr != nil {
		pos = expr.Span.Start
	}
	return r.localScope(target, pos, 0)
}

// LocalScopeAt is LocalScope with an explicit cutoff offset; editor
// queries use the cursor position.
func (r *Resolver) LocalScopeAt(target ast.ExprID, pos uint32) map[string]types.Variable {
	return r.localScope(target, pos, 0)
}

func (r *Resolver) localScope(target ast.ExprID, pos uint32, depth int) map[string]types.Variable {
	out := r.pointers(target, depth)

	block, ok := r.builder.Exprs.Block(r.builder.Root)
	if !ok {
		return out
	}
	for i, itemID := range block.List {
		item := r.builder.Exprs.Get(itemID)
		if item == nil || item.Kind != ast.ExprLet {
			continue
		}
		// Only declarations completed strictly before the cutoff are
		// visible; this also keeps `let x = x` from seeing itself.
		if item.Span.End > pos {
			continue
		}
		data, ok := r.builder.Exprs.Let(itemID)
		if !ok || data.Name == "" || !data.Value.IsValid() {
			continue
		}
		out[data.Name] = types.Variable{
			Name:        data.Name,
			Type:        r.typeOf(data.Value, depth+1),
			Description: r.leadingComments(block.List, i),
		}
	}
	return out
}

// leadingComments concatenates the contiguous comment run immediately
// preceding item index i, oldest first.
func (r *Resolver) leadingComments(list []ast.ExprID, i int) string {
	var parts []string
	for k := i - 1; k >= 0; k-- {
		comment, ok := r.builder.Exprs.Comment(list[k])
		if !ok {
			break
		}
		parts = append(parts, comment.Text)
	}
	if len(parts) == 0 {
		return ""
	}
	for l, h := 0, len(parts)-1; l < h; l, h = l+1, h-1 {
		parts[l], parts[h] = parts[h], parts[l]
	}
	return strings.Join(parts, "\n")
}

// Pointers resolves the implicit predicate parameters (#, #index,
// #acc) visible at node. The walk stops at the innermost argument-list
// boundary that actually supplies parameters, so nested predicates see
// the nearest predicate's scope while calls like len(#) inside a
// predicate body stay transparent.
func (r *Resolver) Pointers(node ast.ExprID) map[string]types.Variable {
	return r.pointers(node, 0)
}

func (r *Resolver) pointers(node ast.ExprID, depth int) map[string]types.Variable {
	cur := node
	for cur.IsValid() {
		expr := r.builder.Exprs.Get(cur)
		if expr == nil || !expr.Parent.IsValid() {
			break
		}
		parent := r.builder.Exprs.Get(expr.Parent)
		if parent != nil && parent.Kind == ast.ExprArguments {
			scope := r.predicateScope(cur, depth)
			if _, ok := scope["#"]; ok {
				return scope
			}
		}
		cur = expr.Parent
	}
	return map[string]types.Variable{}
}

// PredicateScope computes the implicit-parameter scope for the
// predicate argument containing node, by instantiating the enclosing
// predicate builtin's signature against its sibling arguments.
func (r *Resolver) PredicateScope(node ast.ExprID) map[string]types.Variable {
	return r.predicateScope(node, 0)
}

func (r *Resolver) predicateScope(node ast.ExprID, depth int) map[string]types.Variable {
	empty := map[string]types.Variable{}

	// Ascend to the argument directly under the enclosing call's
	// argument list.
	argChild := node
	var argsID ast.ExprID
	for argChild.IsValid() {
		expr := r.builder.Exprs.Get(argChild)
		if expr == nil || !expr.Parent.IsValid() {
			return empty
		}
		if parent := r.builder.Exprs.Get(expr.Parent); parent != nil && parent.Kind == ast.ExprArguments {
			argsID = expr.Parent
			break
		}
		argChild = expr.Parent
	}
	if !argsID.IsValid() {
		return empty
	}

	callID := r.builder.Exprs.Get(argsID).Parent
	call, ok := r.builder.Exprs.Call(callID)
	if !ok {
		return empty
	}
	callee := r.calleeName(call.Callee)
	if !types.IsPredicative(callee) {
		return empty
	}

	args, ok := r.builder.Exprs.Arguments(call.Args)
	if !ok {
		return empty
	}
	position := -1
	for i, argID := range args.List {
		if argID == argChild {
			position = i
			break
		}
	}
	if position < 0 {
		return empty
	}
	if r.pipeSource(callID).IsValid() {
		position++
	}

	fn := r.typeOf(call.Callee, depth+1)
	if fn == nil || fn.Kind != types.KindFunc || len(fn.Args) == 0 {
		return empty
	}
	paramIdx := position
	if paramIdx >= len(fn.Args) {
		if last, ok := fn.LastArg(); !ok || !last.Variadic {
			return empty
		}
		paramIdx = len(fn.Args) - 1
	}
	if param := fn.Args[paramIdx].Type; param == nil || param.Kind != types.KindFunc {
		return empty
	}

	// Unify against the siblings with the predicate argument itself
	// masked as unknown to avoid self-reference.
	siblings := r.effectiveArgs(callID, call, depth, argChild)
	inst := Instantiate(fn, callee, siblings)
	if inst == nil || paramIdx >= len(inst.Args) {
		return empty
	}
	param := inst.Args[paramIdx].Type
	if param == nil || param.Kind != types.KindFunc {
		return empty
	}

	out := make(map[string]types.Variable, len(param.Args))
	for _, arg := range param.Args {
		if !strings.HasPrefix(arg.Name, "#") {
			continue
		}
		out[arg.Name] = types.Variable{
			Name:        arg.Name,
			Type:        arg.Type,
			Description: arg.Description,
		}
	}
	// reduce without an initial value: give the accumulator the
	// element's type instead of unknown.
	if acc, ok := out["#acc"]; ok && types.IsUnknown(acc.Type) {
		if elem, ok := out["#"]; ok {
			acc.Type = elem.Type
			out["#acc"] = acc
		}
	}
	return out
}
