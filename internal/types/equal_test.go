package types

import "testing"

func TestEqualNumericCrossKind(t *testing.T) {
	cases := []struct {
		a, b *Definition
	}{
		{Int, Float},
		{Int, Number},
		{Float, Number},
		{Byte, Int},
		{Rune, Float},
		{Int8, Uint64},
	}
	for _, c := range cases {
		if !Equal(c.a, c.b) {
			t.Errorf("Equal(%s, %s) = false, want true", Details(c.a), Details(c.b))
		}
		if !Equal(c.b, c.a) {
			t.Errorf("Equal(%s, %s) = false, want true", Details(c.b), Details(c.a))
		}
	}
}

func TestEqualNilability(t *testing.T) {
	if !Equal(NewOptional(Int), Nil) {
		t.Error("optional should compare equal to nil")
	}
	if !Equal(Nil, NewOptional(Int)) {
		t.Error("nil should compare equal to optional")
	}
	if !Equal(NewPointer(Int), Nil) {
		t.Error("pointer should compare equal to nil")
	}
	if Equal(NewSlice(Int), Nil) {
		t.Error("slice must not compare equal to nil")
	}
	if Equal(String, Nil) {
		t.Error("string must not compare equal to nil")
	}
}

func TestEqualStructural(t *testing.T) {
	if !Equal(NewSlice(Int), NewSlice(Float)) {
		t.Error("slice elements compare with numeric widening")
	}
	if Equal(NewSlice(Int), NewSlice(String)) {
		t.Error("slice<int> and slice<string> must differ")
	}
	if !Equal(NewArray(Int, 3), NewArray(Int, 5)) {
		t.Error("array lengths do not participate in equality")
	}
	if Equal(NewSlice(Int), NewMap(String, Int)) {
		t.Error("slice and map must differ")
	}
	if !Equal(NewMap(String, Int), NewMap(String, Int)) {
		t.Error("identical maps must be equal")
	}
	if Equal(NewMap(String, Int), NewMap(Int, Int)) {
		t.Error("maps with different keys must differ")
	}
	if !Equal(NewChan(Int), NewChan(Int)) {
		t.Error("identical chans must be equal")
	}
}

func TestEqualDefinedIsNominal(t *testing.T) {
	if !Equal(NewDefined("Time"), NewDefined("Time")) {
		t.Error("same-named defined types must be equal")
	}
	if Equal(NewDefined("Time"), NewDefined("Duration")) {
		t.Error("differently-named defined types must differ")
	}
}

func TestEqualStructByTagOnly(t *testing.T) {
	a := NewStruct([]Field{{Variable: Variable{Name: "X", Type: Int}}})
	b := NewStruct([]Field{{Variable: Variable{Name: "Y", Type: String}}})
	if !Equal(a, b) {
		t.Error("structs compare by tag alone")
	}
}

func TestEqualFunc(t *testing.T) {
	f1 := NewFunc([]Argument{{Variable: Variable{Type: Int}}}, []*Definition{Bool})
	f2 := NewFunc([]Argument{{Variable: Variable{Type: Float}}}, []*Definition{Bool})
	f3 := NewFunc(nil, []*Definition{Bool})
	if !Equal(f1, f2) {
		t.Error("func params compare with numeric widening")
	}
	if Equal(f1, f3) {
		t.Error("funcs with different arity must differ")
	}
}

func TestClassifiers(t *testing.T) {
	if !IsNumber(Int) || !IsNumber(Float) || !IsNumber(Byte) || !IsNumber(Rune) || !IsNumber(Number) {
		t.Error("numeric kinds must classify as numbers")
	}
	if IsNumber(String) || IsNumber(nil) {
		t.Error("string and nil definitions are not numbers")
	}
	if !IsSlice(NewSlice(Int)) || !IsSlice(NewArray(Int, 2)) {
		t.Error("slices and arrays classify as slices")
	}
	if IsSlice(NewMap(String, Int)) {
		t.Error("maps are not slices")
	}
	if !IsUnknown(Any) || IsUnknown(Int) {
		t.Error("only the any kind is unknown")
	}
	if !IsPredicative("filter") || !IsPredicative("reduce") || IsPredicative("len") {
		t.Error("predicative set mismatch")
	}
}
