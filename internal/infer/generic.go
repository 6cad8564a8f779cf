package infer

import (
	"sift/internal/types"
)

// Instantiate resolves the type variables of fn against the call-site
// argument types and returns a concrete, generics-free signature.
// callee is the called function's name; for the predicate-taking
// builtins a func-typed parameter with exactly one return contributes
// its return type to unification instead of the whole func type.
//
// Bindings merge with earliest-argument-wins: evidence from a later
// argument never overrides a binding an earlier argument established.
// Conflicts are not errors; later conflicting evidence is dropped.
// Unbound variables default to any, and a binding that satisfies none
// of its declared constraints is coerced to the first constraint.
func Instantiate(fn *types.Definition, callee string, args []*types.Definition) *types.Definition {
	if fn == nil || fn.Kind != types.KindFunc {
		return fn
	}
	if len(fn.Generics) == 0 {
		return fn
	}

	bindings := make(map[string]*types.Definition, len(fn.Generics))
	lastIdx := len(fn.Args) - 1
	for i, actual := range args {
		if lastIdx < 0 {
			break
		}
		j := i
		if j > lastIdx {
			if !fn.Args[lastIdx].Variadic {
				break
			}
			j = lastIdx
		}
		expected := fn.Args[j].Type
		if types.IsPredicative(callee) && expected != nil &&
			expected.Kind == types.KindFunc && len(expected.Returns) == 1 {
			expected = expected.Returns[0]
		}
		bind(expected, actual, bindings)
	}

	for _, g := range fn.Generics {
		bound, ok := bindings[g.Name]
		if !ok || bound == nil {
			bindings[g.Name] = types.Any
			continue
		}
		if len(g.Constraints) == 0 || types.IsUnknown(bound) {
			continue
		}
		satisfied := false
		for _, c := range g.Constraints {
			if types.IsUnknown(c) || types.Equal(bound, c) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			bindings[g.Name] = g.Constraints[0]
		}
	}

	return &types.Definition{
		Kind:    types.KindFunc,
		Args:    patchArgs(fn.Args, bindings),
		Returns: patchList(fn.Returns, bindings),
	}
}

// bind destructures expected against actual, recording generic
// bindings. Mismatched shapes bind nothing.
func bind(expected, actual *types.Definition, bindings map[string]*types.Definition) {
	if expected == nil || actual == nil {
		return
	}
	switch expected.Kind {
	case types.KindGeneric:
		// Unknown carries no evidence; leave the variable open for a
		// later argument.
		if types.IsUnknown(actual) {
			return
		}
		if _, exists := bindings[expected.Name]; !exists {
			bindings[expected.Name] = actual
		}
	case types.KindSlice, types.KindArray:
		if types.IsSlice(actual) {
			bind(expected.Elem, actual.Elem, bindings)
		}
	case types.KindChan:
		if actual.Kind == types.KindChan {
			bind(expected.Elem, actual.Elem, bindings)
		}
	case types.KindMap:
		if actual.Kind == types.KindMap {
			bind(expected.Key, actual.Key, bindings)
			bind(expected.Value, actual.Value, bindings)
		}
	case types.KindPointer:
		if actual.Kind == types.KindPointer {
			bind(expected.Elem, actual.Elem, bindings)
		}
	case types.KindOptional:
		if actual.Kind == types.KindOptional {
			bind(expected.Elem, actual.Elem, bindings)
		}
	case types.KindFunc:
		if actual.Kind != types.KindFunc {
			return
		}
		for i := range expected.Args {
			if i >= len(actual.Args) {
				break
			}
			bind(expected.Args[i].Type, actual.Args[i].Type, bindings)
		}
		for i := range expected.Returns {
			if i >= len(actual.Returns) {
				break
			}
			bind(expected.Returns[i], actual.Returns[i], bindings)
		}
	}
}

// patch substitutes resolved bindings for every generic occurrence,
// recursing through composite shapes.
func patch(def *types.Definition, bindings map[string]*types.Definition) *types.Definition {
	if def == nil {
		return nil
	}
	switch def.Kind {
	case types.KindGeneric:
		if resolved, ok := bindings[def.Name]; ok {
			return resolved
		}
		return def
	case types.KindSlice:
		return types.NewSlice(patch(def.Elem, bindings))
	case types.KindArray:
		return types.NewArray(patch(def.Elem, bindings), def.Count)
	case types.KindChan:
		return types.NewChan(patch(def.Elem, bindings))
	case types.KindPointer:
		return types.NewPointer(patch(def.Elem, bindings))
	case types.KindOptional:
		return types.NewOptional(patch(def.Elem, bindings))
	case types.KindMap:
		return types.NewMap(patch(def.Key, bindings), patch(def.Value, bindings))
	case types.KindFunc:
		out := &types.Definition{
			Kind:     types.KindFunc,
			Args:     patchArgs(def.Args, bindings),
			Returns:  patchList(def.Returns, bindings),
			Generics: def.Generics,
		}
		return out
	default:
		return def
	}
}

func patchArgs(args []types.Argument, bindings map[string]*types.Definition) []types.Argument {
	if args == nil {
		return nil
	}
	out := make([]types.Argument, len(args))
	for i, arg := range args {
		out[i] = arg
		out[i].Type = patch(arg.Type, bindings)
	}
	return out
}

func patchList(defs []*types.Definition, bindings map[string]*types.Definition) []*types.Definition {
	if defs == nil {
		return nil
	}
	out := make([]*types.Definition, len(defs))
	for i, def := range defs {
		out[i] = patch(def, bindings)
	}
	return out
}
