package types

// Equal is the structural equality used across the engine. It runs on
// post-substitution values, so generics never participate.
//
// Cross-kind pairs are equal when both sides are numeric, or when one
// side is optional/pointer and the other is nil. Same-kind pairs
// compare payloads where a payload exists: nominally for defined
// types, element-wise for chan/slice/array/map/pointer, arity plus
// pairwise args/returns for funcs. Remaining kinds (struct included)
// compare by tag alone.
func Equal(a, b *Definition) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		if IsNumber(a) && IsNumber(b) {
			return true
		}
		if nilable(a) && b.Kind == KindNil {
			return true
		}
		if nilable(b) && a.Kind == KindNil {
			return true
		}
		return false
	}
	switch a.Kind {
	case KindDefined:
		return a.Name == b.Name
	case KindChan, KindSlice, KindArray:
		return Equal(a.Elem, b.Elem)
	case KindMap:
		return Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case KindPointer:
		return Equal(a.Elem, b.Elem)
	case KindFunc:
		if len(a.Args) != len(b.Args) || len(a.Returns) != len(b.Returns) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i].Type, b.Args[i].Type) {
				return false
			}
		}
		for i := range a.Returns {
			if !Equal(a.Returns[i], b.Returns[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func nilable(d *Definition) bool {
	return d.Kind == KindOptional || d.Kind == KindPointer
}
