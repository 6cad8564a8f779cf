package infer

import (
	"testing"

	"sift/internal/types"
)

func genericFn(args []types.Argument, returns []*types.Definition, generics ...types.GenericParam) *types.Definition {
	return &types.Definition{Kind: types.KindFunc, Args: args, Returns: returns, Generics: generics}
}

func param(name string, def *types.Definition) types.Argument {
	return types.Argument{Variable: types.Variable{Name: name, Type: def}}
}

func TestInstantiateEarliestArgumentWins(t *testing.T) {
	genT := types.NewGeneric("T")
	fn := genericFn(
		[]types.Argument{param("a", genT), param("b", genT)},
		[]*types.Definition{genT},
		types.GenericParam{Name: "T"},
	)
	inst := Instantiate(fn, "pick", []*types.Definition{types.Int, types.String})
	if got := types.Details(inst.Returns[0]); got != "int" {
		t.Errorf("conflicting evidence: got %s, want int (first argument wins)", got)
	}
}

func TestInstantiateDestructuring(t *testing.T) {
	genK := types.NewGeneric("K")
	genV := types.NewGeneric("V")
	fn := genericFn(
		[]types.Argument{param("m", types.NewMap(genK, genV))},
		[]*types.Definition{types.NewSlice(genK), types.NewSlice(genV)},
		types.GenericParam{Name: "K"}, types.GenericParam{Name: "V"},
	)
	inst := Instantiate(fn, "entries", []*types.Definition{types.NewMap(types.String, types.Int)})
	if got := types.Details(inst.Returns[0]); got != "[]string" {
		t.Errorf("key binding: got %s", got)
	}
	if got := types.Details(inst.Returns[1]); got != "[]int" {
		t.Errorf("value binding: got %s", got)
	}
}

func TestInstantiateArrayBindsSliceParameter(t *testing.T) {
	genT := types.NewGeneric("T")
	fn := genericFn(
		[]types.Argument{param("items", types.NewSlice(genT))},
		[]*types.Definition{genT},
		types.GenericParam{Name: "T"},
	)
	inst := Instantiate(fn, "head", []*types.Definition{types.NewArray(types.String, 4)})
	if got := types.Details(inst.Returns[0]); got != "string" {
		t.Errorf("array actual against slice parameter: got %s, want string", got)
	}
}

func TestInstantiateUnboundDefaultsToAny(t *testing.T) {
	genT := types.NewGeneric("T")
	fn := genericFn(nil, []*types.Definition{genT}, types.GenericParam{Name: "T"})
	inst := Instantiate(fn, "make", nil)
	if got := types.Details(inst.Returns[0]); got != "any" {
		t.Errorf("unbound generic: got %s, want any", got)
	}
}

func TestInstantiateConstraintCoercion(t *testing.T) {
	genT := types.NewGeneric("T")
	fn := genericFn(
		[]types.Argument{param("n", genT)},
		[]*types.Definition{genT},
		types.GenericParam{Name: "T", Constraints: []*types.Definition{types.Int, types.Float}},
	)
	// bool satisfies neither constraint, so the binding coerces to the
	// first constraint.
	inst := Instantiate(fn, "clamp", []*types.Definition{types.Bool})
	if got := types.Details(inst.Returns[0]); got != "int" {
		t.Errorf("constraint coercion: got %s, want int", got)
	}
	// int satisfies the first constraint and stays.
	inst = Instantiate(fn, "clamp", []*types.Definition{types.String})
	if got := types.Details(inst.Returns[0]); got != "int" {
		t.Errorf("string violates constraints: got %s, want int", got)
	}
	inst = Instantiate(fn, "clamp", []*types.Definition{types.Float})
	if got := types.Details(inst.Returns[0]); got != "float" {
		t.Errorf("satisfied constraint: got %s, want float", got)
	}
}

func TestInstantiatePredicateReturnSubstitution(t *testing.T) {
	genT := types.NewGeneric("T")
	genR := types.NewGeneric("R")
	mapper := types.NewFunc([]types.Argument{param("#", genT)}, []*types.Definition{genR})
	fn := genericFn(
		[]types.Argument{param("items", types.NewSlice(genT)), param("mapper", mapper)},
		[]*types.Definition{types.NewSlice(genR)},
		types.GenericParam{Name: "T"}, types.GenericParam{Name: "R"},
	)
	// For a predicative callee the func parameter unifies through its
	// return type: the body's resolved type is the evidence.
	inst := Instantiate(fn, "map", []*types.Definition{types.NewSlice(types.Int), types.Bool})
	if got := types.Details(inst.Returns[0]); got != "[]bool" {
		t.Errorf("predicate return substitution: got %s, want []bool", got)
	}
	// A non-predicative callee unifies the whole func shape instead.
	inst = Instantiate(fn, "apply", []*types.Definition{types.NewSlice(types.Int), types.Bool})
	if got := types.Details(inst.Returns[0]); got != "[]any" {
		t.Errorf("non-predicative callee: got %s, want []any", got)
	}
}

func TestInstantiateVariadicTail(t *testing.T) {
	genT := types.NewGeneric("T")
	fn := genericFn(
		[]types.Argument{{Variable: types.Variable{Name: "values", Type: genT}, Variadic: true}},
		[]*types.Definition{genT},
		types.GenericParam{Name: "T"},
	)
	inst := Instantiate(fn, "max", []*types.Definition{types.Int, types.Int, types.Int})
	if got := types.Details(inst.Returns[0]); got != "int" {
		t.Errorf("variadic binding: got %s, want int", got)
	}
}

func TestInstantiateNonGenericPassthrough(t *testing.T) {
	fn := types.NewFunc([]types.Argument{param("s", types.String)}, []*types.Definition{types.Int})
	if inst := Instantiate(fn, "len", []*types.Definition{types.String}); inst != fn {
		t.Error("non-generic funcs must pass through unchanged")
	}
	if inst := Instantiate(nil, "x", nil); inst != nil {
		t.Error("nil func must pass through")
	}
}
