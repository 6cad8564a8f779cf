package infer

import (
	"testing"

	"sift/internal/ast"
	"sift/internal/builtins"
	"sift/internal/parser"
	"sift/internal/source"
	"sift/internal/types"
)

// analyze parses src against the built-in registry plus host entries.
func analyze(t *testing.T, src string, host types.Scope) *Resolver {
	t.Helper()
	builder := parser.Parse(src, nil)
	scope := builtins.Scope()
	if host.Variables != nil || host.Types != nil {
		scope = scope.Merge(host)
	}
	return New(builder, source.NewText(src), scope)
}

func hostVars(vars map[string]*types.Definition) types.Scope {
	scope := types.NewScope()
	for name, def := range vars {
		scope.Variables[name] = types.Variable{Name: name, Type: def}
	}
	return scope
}

func rootType(t *testing.T, src string, host types.Scope) string {
	t.Helper()
	r := analyze(t, src, host)
	return types.Details(r.TypeOf(r.Builder().Root))
}

func findKind(b *ast.Builder, kind ast.ExprKind) ast.ExprID {
	found := ast.NoExprID
	b.Walk(func(id ast.ExprID, expr *ast.Expr) {
		if expr.Kind == kind && !found.IsValid() {
			found = id
		}
	})
	return found
}

func TestLiteralTypes(t *testing.T) {
	cases := []struct{ src, want string }{
		{"42", "int"},
		{"4.2", "float"},
		{`"hello"`, "string"},
		{"true", "bool"},
		{"nil", "nil"},
	}
	for _, c := range cases {
		if got := rootType(t, c.src, types.Scope{}); got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestArrayLiteralHomogeneity(t *testing.T) {
	cases := []struct{ src, want string }{
		{"[1, 2, 3]", "[]int"},
		{"[1, 2.5]", "[]int"}, // numeric elements widen, first element wins
		{`[1, "a"]`, "[]any"},
		{"[]", "[]any"},
		{`["x", "y"]`, "[]string"},
	}
	for _, c := range cases {
		if got := rootType(t, c.src, types.Scope{}); got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestRangeType(t *testing.T) {
	if got := rootType(t, "1..5", types.Scope{}); got != "[]int" {
		t.Errorf("range: got %s, want []int", got)
	}
}

func TestMapLiteralHomogeneity(t *testing.T) {
	cases := []struct{ src, want string }{
		{"{a: 1, b: 2}", "map[string]int"},
		{`{a: 1, b: "x"}`, "map[string]any"},
		{"{}", "map[string]any"},
		{`{"quoted key": true}`, "map[string]bool"},
	}
	for _, c := range cases {
		if got := rootType(t, c.src, types.Scope{}); got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestIndexingAndSlicing(t *testing.T) {
	host := hostVars(map[string]*types.Definition{
		"arr":   types.NewSlice(types.Int),
		"fixed": types.NewArray(types.String, 3),
		"m":     types.NewMap(types.String, types.Bool),
	})
	cases := []struct{ src, want string }{
		{"arr[0]", "int"},
		{`m["k"]`, "bool"},
		{"fixed[0]", "string"},
		{"arr[1:]", "[]int"},
		{"arr[:2]", "[]int"},
		{"fixed[1:2]", "[]string"}, // slicing an array yields a slice
		{"42[0]", "any"},
	}
	for _, c := range cases {
		if got := rootType(t, c.src, host); got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestBinaryOperators(t *testing.T) {
	cases := []struct{ src, want string }{
		{"1 + 2", "float"}, // arithmetic on numbers widens to the float tag
		{"1 < 2", "bool"},
		{"1 == 2", "bool"},
		{"true and false", "bool"},
		{"true && false", "bool"},
		{`"a" + "b"`, "string"},
		{`"a" + 1`, "any"},
		{"-5", "int"},
		{"not true", "bool"},
	}
	for _, c := range cases {
		if got := rootType(t, c.src, types.Scope{}); got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestBuiltinCalls(t *testing.T) {
	cases := []struct{ src, want string }{
		{"sum([1, 2, 3])", "float"},
		{"len([1, 2])", "int"},
		{`upper("x")`, "string"},
		{"first([1, 2])", "int?"},
		{`split("a,b", ",")`, "[]string"},
		{"min(1, 2, 3)", "int"},
		{"keys({a: 1})", "[]string"},
		{"values({a: 1})", "[]int"},
		{`get({a: 1}, "a")`, "int?"},
		{"now()", "Time"},
	}
	for _, c := range cases {
		if got := rootType(t, c.src, types.Scope{}); got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestGenericUnification(t *testing.T) {
	host := hostVars(map[string]*types.Definition{
		"nums": types.NewSlice(types.Int),
	})
	cases := []struct{ src, want string }{
		{"filter(nums, # > 2)", "[]int"},
		{"map(nums, # > 2)", "[]bool"},
		{"map(nums, # * 2)", "[]float"},
		{"find(nums, # > 2)", "int?"},
		{"groupBy(nums, # % 2)", "map[float][]int"},
		{"sortBy(nums, #)", "[]int"},
		{"reduce(nums, #acc + #, 0)", "float"},
	}
	for _, c := range cases {
		if got := rootType(t, c.src, host); got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestPipeFeedsFirstArgument(t *testing.T) {
	host := hostVars(map[string]*types.Definition{
		"nums": types.NewSlice(types.Int),
	})
	direct := rootType(t, "filter(nums, # > 2)", host)
	piped := rootType(t, "nums | filter(# > 2)", host)
	if direct != piped {
		t.Fatalf("pipe form differs: direct %s, piped %s", direct, piped)
	}
	if piped != "[]int" {
		t.Errorf("piped filter: got %s, want []int", piped)
	}

	if got := rootType(t, "nums | filter(# > 2) | map(# * 2)", host); got != "[]float" {
		t.Errorf("chained pipe: got %s, want []float", got)
	}
	if got := rootType(t, `"a,b" | split(",")`, host); got != "[]string" {
		t.Errorf("piped split: got %s, want []string", got)
	}
}

func TestPointerTypesInsidePredicate(t *testing.T) {
	host := hostVars(map[string]*types.Definition{
		"words": types.NewSlice(types.String),
	})
	r := analyze(t, "filter(words, len(#) > 2)", host)
	ptr := findKind(r.Builder(), ast.ExprPointer)
	if !ptr.IsValid() {
		t.Fatal("no pointer node found")
	}
	if got := types.Details(r.TypeOf(ptr)); got != "string" {
		t.Errorf("# inside filter over []string: got %s, want string", got)
	}
}

func TestAccumulatorPointer(t *testing.T) {
	host := hostVars(map[string]*types.Definition{
		"nums": types.NewSlice(types.Int),
	})
	r := analyze(t, "reduce(nums, #acc + #)", host)
	var accID ast.ExprID
	r.Builder().Walk(func(id ast.ExprID, expr *ast.Expr) {
		if expr.Kind != ast.ExprPointer {
			return
		}
		if name, ok := r.Builder().Exprs.Name(id); ok && name.Name == "#acc" {
			accID = id
		}
	})
	if !accID.IsValid() {
		t.Fatal("no #acc node found")
	}
	// Without an initial value the accumulator falls back to the
	// element type.
	if got := types.Details(r.TypeOf(accID)); got != "int" {
		t.Errorf("#acc without initial: got %s, want int", got)
	}
}

func TestTernaryNilUnwrap(t *testing.T) {
	host := hostVars(map[string]*types.Definition{
		"x": types.NewOptional(types.Int),
		"y": types.NewOptional(types.Int),
	})
	cases := []struct{ src, want string }{
		{"x == nil ? 0 : x", "int"},
		{"x != nil ? x : 0", "int"},
		{"nil == x ? 0 : x", "int"},
		{"x == nil ? 0 : y", "any"}, // different operand text, no unwrap
		{"true ? 1 : 2", "int"},
		{`true ? 1 : "a"`, "any"},
	}
	for _, c := range cases {
		if got := rootType(t, c.src, host); got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestLetDeclarations(t *testing.T) {
	if got := rootType(t, "let a = [1, 2, 3]\na", types.Scope{}); got != "[]int" {
		t.Errorf("let binding: got %s, want []int", got)
	}
	if got := rootType(t, "let a = 1\nlet b = a + 1\nb", types.Scope{}); got != "float" {
		t.Errorf("chained lets: got %s, want float", got)
	}
}

func TestLetSelfReferenceIsUnknown(t *testing.T) {
	if got := rootType(t, "let x = x\nx", types.Scope{}); got != "any" {
		t.Errorf("self-referential let: got %s, want any", got)
	}
}

func TestHostVariableWinsOverLet(t *testing.T) {
	// The attached scope is consulted before local declarations, so a
	// let reusing a host name never changes the reference's type.
	host := hostVars(map[string]*types.Definition{"n": types.String})
	if got := rootType(t, "let n = 1\nn", host); got != "string" {
		t.Errorf("host-named let: got %s, want string", got)
	}
	// A builtin name behaves the same way.
	if got := rootType(t, "let len = 1\nlen", types.Scope{}); got != "func(any) int" {
		t.Errorf("builtin-named let: got %s, want func(any) int", got)
	}
}

func TestSelectorOnStruct(t *testing.T) {
	person := types.NewStruct([]types.Field{
		{Variable: types.Variable{Name: "Name", Type: types.String}},
		{Variable: types.Variable{Name: "Age", Type: types.Int}},
	})
	host := hostVars(map[string]*types.Definition{
		"p":  person,
		"mp": types.NewOptional(person),
	})
	cases := []struct{ src, want string }{
		{"p.Name", "string"},
		{"p.Age", "int"},
		{"p.Missing", "any"},
		{"mp?.Name", "string"},
	}
	for _, c := range cases {
		if got := rootType(t, c.src, host); got != c.want {
			t.Errorf("%s: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestDefinedTypeMethods(t *testing.T) {
	if got := rootType(t, "now().Year()", types.Scope{}); got != "int" {
		t.Errorf("method call on defined type: got %s, want int", got)
	}
	if got := rootType(t, `now().Format("2006")`, types.Scope{}); got != "string" {
		t.Errorf("method with args: got %s, want string", got)
	}
}

func TestMemoReturnsSameDefinition(t *testing.T) {
	r := analyze(t, "[1, 2, 3]", types.Scope{})
	first := r.TypeOf(r.Builder().Root)
	second := r.TypeOf(r.Builder().Root)
	if first != second {
		t.Error("memo must return the identical definition on repeat queries")
	}
}

func TestMalformedInputDegrades(t *testing.T) {
	// Parsing never panics and every node still answers queries.
	cases := []string{"", "let", "???", "foo(", "[1, 2", "a.b.", "x ?"}
	for _, src := range cases {
		r := analyze(t, src, types.Scope{})
		r.Builder().Walk(func(id ast.ExprID, _ *ast.Expr) {
			_ = r.TypeOf(id)
		})
	}
}
