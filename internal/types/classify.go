package types

// IsNumber reports whether d is numeric: any int/uint/float width,
// byte, rune, or the inference-only number/float tags.
func IsNumber(d *Definition) bool {
	if d == nil {
		return false
	}
	switch d.Kind {
	case KindInt, KindUint, KindFloat, KindNumber, KindByte, KindRune:
		return true
	default:
		return false
	}
}

// IsSlice reports whether d is a slice or fixed-size array.
func IsSlice(d *Definition) bool {
	if d == nil {
		return false
	}
	return d.Kind == KindSlice || d.Kind == KindArray
}

// IsUnknown reports whether d is the unknown type. Callers must treat
// unknown as compatible with everything so diagnostics stay quiet on
// code the engine cannot interpret yet.
func IsUnknown(d *Definition) bool {
	return d != nil && d.Kind == KindAny
}

// predicative is the closed set of builtins whose func argument is a
// predicate evaluated with implicit #, #index and #acc parameters.
var predicative = map[string]struct{}{
	"all":           {},
	"any":           {},
	"one":           {},
	"none":          {},
	"filter":        {},
	"find":          {},
	"findIndex":     {},
	"findLast":      {},
	"findLastIndex": {},
	"groupBy":       {},
	"count":         {},
	"map":           {},
	"reduce":        {},
	"sortBy":        {},
	"sum":           {},
}

// IsPredicative reports whether name is a predicate-taking builtin.
func IsPredicative(name string) bool {
	_, ok := predicative[name]
	return ok
}
