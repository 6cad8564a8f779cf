// Package builtins declares the fixed base environment every query
// runs against: the built-in function registry and the named types it
// references. Host scopes are merged on top of this one.
package builtins

import (
	"sift/internal/types"
)

func arg(name string, def *types.Definition) types.Argument {
	return types.Argument{Variable: types.Variable{Name: name, Type: def}}
}

func opt(name string, def *types.Definition) types.Argument {
	return types.Argument{Variable: types.Variable{Name: name, Type: def}, Optional: true}
}

func variadic(name string, def *types.Definition) types.Argument {
	return types.Argument{Variable: types.Variable{Name: name, Type: def}, Variadic: true}
}

func gen(name string, constraints ...*types.Definition) types.GenericParam {
	return types.GenericParam{Name: name, Constraints: constraints}
}

var (
	genT = types.NewGeneric("T")
	genK = types.NewGeneric("K")
	genR = types.NewGeneric("R")
	genA = types.NewGeneric("A")
)

// predicate builds the func type of an implicit-parameter callback.
func predicate(returns *types.Definition, params ...types.Argument) *types.Definition {
	return types.NewFunc(params, []*types.Definition{returns})
}

type entry struct {
	name     string
	fn       *types.Definition
	doc      string
	deprecat bool
}

func register(scope *types.Scope, e entry) {
	scope.Variables[e.name] = types.Variable{
		Name:        e.name,
		Type:        e.fn,
		Description: e.doc,
		Deprecated:  e.deprecat,
	}
}

// Scope builds a fresh base scope. Callers may merge host entries over
// it; the registry itself is never mutated in place.
func Scope() types.Scope {
	scope := types.NewScope()
	registerTypes(&scope)
	registerArrayFuncs(&scope)
	registerMapFuncs(&scope)
	registerStringFuncs(&scope)
	registerNumberFuncs(&scope)
	registerDateFuncs(&scope)
	registerBitwiseFuncs(&scope)
	registerConversionFuncs(&scope)
	return scope
}

func registerTypes(scope *types.Scope) {
	timeFields := []types.Field{
		{Variable: types.Variable{Name: "Unix", Type: types.Int64, Description: "Seconds since the Unix epoch."}},
	}
	scope.Types["Time"] = types.TypeDef{
		Name:        "Time",
		Package:     "time",
		Type:        types.NewStruct(timeFields),
		Description: "An instant in time.",
		Methods: map[string]types.Method{
			"Year": {
				Name:        "Year",
				Fn:          types.NewFunc(nil, []*types.Definition{types.Int}),
				Receiver:    types.NewDefined("Time"),
				Description: "The calendar year.",
			},
			"Format": {
				Name:        "Format",
				Fn:          types.NewFunc([]types.Argument{arg("layout", types.String)}, []*types.Definition{types.String}),
				Receiver:    types.NewDefined("Time"),
				Description: "Formats the instant with a reference layout.",
			},
		},
	}
	scope.Types["Duration"] = types.TypeDef{
		Name:        "Duration",
		Package:     "time",
		Type:        types.Int64,
		Description: "A span of time in nanoseconds.",
		Methods: map[string]types.Method{
			"Seconds": {
				Name:        "Seconds",
				Fn:          types.NewFunc(nil, []*types.Definition{types.Float64}),
				Receiver:    types.NewDefined("Duration"),
				Description: "The duration as floating-point seconds.",
			},
		},
	}
}

func registerArrayFuncs(scope *types.Scope) {
	items := arg("items", types.NewSlice(genT))
	boolPred := arg("predicate", predicate(types.Bool, arg("#", genT), arg("#index", types.Int)))

	for _, e := range []entry{
		{name: "all", fn: types.NewFunc([]types.Argument{items, boolPred}, []*types.Definition{types.Bool}, gen("T")),
			doc: "Reports whether the predicate holds for every element."},
		{name: "any", fn: types.NewFunc([]types.Argument{items, boolPred}, []*types.Definition{types.Bool}, gen("T")),
			doc: "Reports whether the predicate holds for at least one element."},
		{name: "one", fn: types.NewFunc([]types.Argument{items, boolPred}, []*types.Definition{types.Bool}, gen("T")),
			doc: "Reports whether the predicate holds for exactly one element."},
		{name: "none", fn: types.NewFunc([]types.Argument{items, boolPred}, []*types.Definition{types.Bool}, gen("T")),
			doc: "Reports whether the predicate holds for no element."},
		{name: "filter", fn: types.NewFunc([]types.Argument{items, boolPred}, []*types.Definition{types.NewSlice(genT)}, gen("T")),
			doc: "Keeps the elements for which the predicate holds."},
		{name: "find", fn: types.NewFunc([]types.Argument{items, boolPred}, []*types.Definition{types.NewOptional(genT)}, gen("T")),
			doc: "Returns the first element matching the predicate."},
		{name: "findLast", fn: types.NewFunc([]types.Argument{items, boolPred}, []*types.Definition{types.NewOptional(genT)}, gen("T")),
			doc: "Returns the last element matching the predicate."},
		{name: "findIndex", fn: types.NewFunc([]types.Argument{items, boolPred}, []*types.Definition{types.Int}, gen("T")),
			doc: "Returns the index of the first match, or -1."},
		{name: "findLastIndex", fn: types.NewFunc([]types.Argument{items, boolPred}, []*types.Definition{types.Int}, gen("T")),
			doc: "Returns the index of the last match, or -1."},
		{name: "map", fn: types.NewFunc(
			[]types.Argument{items, arg("mapper", predicate(genR, arg("#", genT), arg("#index", types.Int)))},
			[]*types.Definition{types.NewSlice(genR)}, gen("T"), gen("R")),
			doc: "Transforms every element with the mapper."},
		{name: "groupBy", fn: types.NewFunc(
			[]types.Argument{items, arg("key", predicate(genK, arg("#", genT)))},
			[]*types.Definition{types.NewMap(genK, types.NewSlice(genT))}, gen("T"), gen("K")),
			doc: "Groups elements by the computed key."},
		{name: "count", fn: types.NewFunc([]types.Argument{items, opt("predicate", predicate(types.Bool, arg("#", genT)))},
			[]*types.Definition{types.Int}, gen("T")),
			doc: "Counts matching elements; without a predicate, all of them."},
		{name: "reduce", fn: types.NewFunc(
			[]types.Argument{items,
				arg("reducer", predicate(genA, arg("#acc", genA), arg("#", genT), arg("#index", types.Int))),
				opt("initial", genA)},
			[]*types.Definition{genA}, gen("T"), gen("A")),
			doc: "Folds the elements into an accumulator."},
		{name: "sortBy", fn: types.NewFunc(
			[]types.Argument{items, arg("key", predicate(genR, arg("#", genT))), opt("order", types.String)},
			[]*types.Definition{types.NewSlice(genT)}, gen("T"), gen("R")),
			doc: "Sorts elements by the computed key."},
		{name: "sum", fn: types.NewFunc([]types.Argument{items, opt("selector", predicate(types.Number, arg("#", genT)))},
			[]*types.Definition{types.Float}, gen("T")),
			doc: "Sums the elements, optionally through a selector."},

		{name: "len", fn: types.NewFunc([]types.Argument{arg("value", types.Any)}, []*types.Definition{types.Int}),
			doc: "The length of a string, slice, array or map."},
		{name: "first", fn: types.NewFunc([]types.Argument{items}, []*types.Definition{types.NewOptional(genT)}, gen("T")),
			doc: "The first element, if any."},
		{name: "last", fn: types.NewFunc([]types.Argument{items}, []*types.Definition{types.NewOptional(genT)}, gen("T")),
			doc: "The last element, if any."},
		{name: "take", fn: types.NewFunc([]types.Argument{items, arg("n", types.Int)}, []*types.Definition{types.NewSlice(genT)}, gen("T")),
			doc: "The first n elements."},
		{name: "concat", fn: types.NewFunc([]types.Argument{items, variadic("more", types.NewSlice(genT))},
			[]*types.Definition{types.NewSlice(genT)}, gen("T")),
			doc: "Concatenates slices."},
		{name: "flatten", fn: types.NewFunc([]types.Argument{arg("items", types.NewSlice(types.NewSlice(genT)))},
			[]*types.Definition{types.NewSlice(genT)}, gen("T")),
			doc: "Flattens one level of nesting."},
		{name: "join", fn: types.NewFunc([]types.Argument{arg("items", types.NewSlice(types.String)), opt("sep", types.String)},
			[]*types.Definition{types.String}),
			doc: "Joins strings with a separator."},
		{name: "indexOf", fn: types.NewFunc([]types.Argument{items, arg("value", genT)}, []*types.Definition{types.Int}, gen("T")),
			doc: "The index of the first occurrence, or -1."},
		{name: "lastIndexOf", fn: types.NewFunc([]types.Argument{items, arg("value", genT)}, []*types.Definition{types.Int}, gen("T")),
			doc: "The index of the last occurrence, or -1."},
		{name: "sort", fn: types.NewFunc([]types.Argument{items, opt("order", types.String)},
			[]*types.Definition{types.NewSlice(genT)}, gen("T")),
			doc: "Sorts elements in natural order."},
		{name: "mean", fn: types.NewFunc([]types.Argument{items}, []*types.Definition{types.Float}, gen("T", types.Int, types.Float)),
			doc: "The arithmetic mean."},
		{name: "median", fn: types.NewFunc([]types.Argument{items}, []*types.Definition{types.Float}, gen("T", types.Int, types.Float)),
			doc: "The median value."},
		{name: "min", fn: types.NewFunc([]types.Argument{variadic("values", genT)}, []*types.Definition{genT}, gen("T", types.Int, types.Float, types.String)),
			doc: "The smallest value."},
		{name: "max", fn: types.NewFunc([]types.Argument{variadic("values", genT)}, []*types.Definition{genT}, gen("T", types.Int, types.Float, types.String)),
			doc: "The largest value."},
	} {
		register(scope, e)
	}
}

func registerMapFuncs(scope *types.Scope) {
	m := arg("value", types.NewMap(genK, genT))
	for _, e := range []entry{
		{name: "keys", fn: types.NewFunc([]types.Argument{m}, []*types.Definition{types.NewSlice(genK)}, gen("K"), gen("T")),
			doc: "The map's keys."},
		{name: "values", fn: types.NewFunc([]types.Argument{m}, []*types.Definition{types.NewSlice(genT)}, gen("K"), gen("T")),
			doc: "The map's values."},
		{name: "get", fn: types.NewFunc([]types.Argument{m, arg("key", genK)}, []*types.Definition{types.NewOptional(genT)}, gen("K"), gen("T")),
			doc: "Looks up a key; missing keys yield nil."},
	} {
		register(scope, e)
	}
}

func registerStringFuncs(scope *types.Scope) {
	s := arg("s", types.String)
	for _, e := range []entry{
		{name: "trim", fn: types.NewFunc([]types.Argument{s, opt("cutset", types.String)}, []*types.Definition{types.String}),
			doc: "Trims leading and trailing characters (whitespace by default)."},
		{name: "trimPrefix", fn: types.NewFunc([]types.Argument{s, arg("prefix", types.String)}, []*types.Definition{types.String}),
			doc: "Removes the prefix if present."},
		{name: "trimSuffix", fn: types.NewFunc([]types.Argument{s, arg("suffix", types.String)}, []*types.Definition{types.String}),
			doc: "Removes the suffix if present."},
		{name: "upper", fn: types.NewFunc([]types.Argument{s}, []*types.Definition{types.String}),
			doc: "Uppercases the string."},
		{name: "lower", fn: types.NewFunc([]types.Argument{s}, []*types.Definition{types.String}),
			doc: "Lowercases the string."},
		{name: "split", fn: types.NewFunc([]types.Argument{s, arg("sep", types.String), opt("n", types.Int)},
			[]*types.Definition{types.NewSlice(types.String)}),
			doc: "Splits around the separator."},
		{name: "replace", fn: types.NewFunc([]types.Argument{s, arg("old", types.String), arg("new", types.String)},
			[]*types.Definition{types.String}),
			doc: "Replaces all occurrences of old with new."},
		{name: "repeat", fn: types.NewFunc([]types.Argument{s, arg("n", types.Int)}, []*types.Definition{types.String}),
			doc: "Repeats the string n times."},
		{name: "hasPrefix", fn: types.NewFunc([]types.Argument{s, arg("prefix", types.String)}, []*types.Definition{types.Bool}),
			doc: "Reports whether the string starts with prefix."},
		{name: "hasSuffix", fn: types.NewFunc([]types.Argument{s, arg("suffix", types.String)}, []*types.Definition{types.Bool}),
			doc: "Reports whether the string ends with suffix."},
	} {
		register(scope, e)
	}
}

func registerNumberFuncs(scope *types.Scope) {
	for _, e := range []entry{
		{name: "abs", fn: types.NewFunc([]types.Argument{arg("n", genT)}, []*types.Definition{genT}, gen("T", types.Int, types.Float)),
			doc: "The absolute value."},
		{name: "ceil", fn: types.NewFunc([]types.Argument{arg("n", types.Number)}, []*types.Definition{types.Float}),
			doc: "Rounds up to the nearest integer value."},
		{name: "floor", fn: types.NewFunc([]types.Argument{arg("n", types.Number)}, []*types.Definition{types.Float}),
			doc: "Rounds down to the nearest integer value."},
		{name: "round", fn: types.NewFunc([]types.Argument{arg("n", types.Number), opt("digits", types.Int)}, []*types.Definition{types.Float}),
			doc: "Rounds half away from zero."},
	} {
		register(scope, e)
	}
}

func registerDateFuncs(scope *types.Scope) {
	timeDef := types.NewDefined("Time")
	durationDef := types.NewDefined("Duration")
	for _, e := range []entry{
		{name: "now", fn: types.NewFunc(nil, []*types.Definition{timeDef}),
			doc: "The current instant."},
		{name: "date", fn: types.NewFunc([]types.Argument{arg("value", types.String), opt("layout", types.String), opt("tz", types.String)},
			[]*types.Definition{timeDef}),
			doc: "Parses an instant from text."},
		{name: "duration", fn: types.NewFunc([]types.Argument{arg("value", types.String)}, []*types.Definition{durationDef}),
			doc: "Parses a duration such as \"1h30m\"."},
		{name: "timezone", fn: types.NewFunc([]types.Argument{arg("name", types.String)}, []*types.Definition{types.String}),
			doc: "Validates and normalizes a timezone name."},
	} {
		register(scope, e)
	}
}

func registerBitwiseFuncs(scope *types.Scope) {
	binary := types.NewFunc([]types.Argument{arg("a", types.Int), arg("b", types.Int)}, []*types.Definition{types.Int})
	for _, e := range []entry{
		{name: "bitand", fn: binary, doc: "Bitwise AND."},
		{name: "bitor", fn: binary, doc: "Bitwise OR."},
		{name: "bitxor", fn: binary, doc: "Bitwise XOR."},
		{name: "bitshl", fn: binary, doc: "Shift left."},
		{name: "bitshr", fn: binary, doc: "Arithmetic shift right."},
		{name: "bitushr", fn: binary, doc: "Logical shift right."},
		{name: "bitnot", fn: types.NewFunc([]types.Argument{arg("a", types.Int)}, []*types.Definition{types.Int}),
			doc: "Bitwise complement."},
	} {
		register(scope, e)
	}
}

func registerConversionFuncs(scope *types.Scope) {
	v := arg("value", types.Any)
	for _, e := range []entry{
		{name: "int", fn: types.NewFunc([]types.Argument{v}, []*types.Definition{types.Int}),
			doc: "Converts to an integer."},
		{name: "float", fn: types.NewFunc([]types.Argument{v}, []*types.Definition{types.Float}),
			doc: "Converts to a float."},
		{name: "string", fn: types.NewFunc([]types.Argument{v}, []*types.Definition{types.String}),
			doc: "Converts to a string."},
		{name: "type", fn: types.NewFunc([]types.Argument{v}, []*types.Definition{types.String}),
			doc: "The type name of the value."},
		{name: "toJSON", fn: types.NewFunc([]types.Argument{v}, []*types.Definition{types.String}),
			doc: "Encodes the value as JSON."},
		{name: "fromJSON", fn: types.NewFunc([]types.Argument{arg("s", types.String)}, []*types.Definition{types.Any}),
			doc: "Decodes a JSON document."},
		{name: "toBase64", fn: types.NewFunc([]types.Argument{arg("s", types.String)}, []*types.Definition{types.String}),
			doc: "Encodes a string as base64."},
		{name: "fromBase64", fn: types.NewFunc([]types.Argument{arg("s", types.String)}, []*types.Definition{types.String}),
			doc: "Decodes a base64 string."},
	} {
		register(scope, e)
	}
}
