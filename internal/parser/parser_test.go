package parser

import (
	"testing"

	"sift/internal/ast"
	"sift/internal/diag"
)

func parse(t *testing.T, src string) (*ast.Builder, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	builder := Parse(src, diag.BagReporter{Bag: bag})
	if !builder.Root.IsValid() {
		t.Fatal("no root block")
	}
	return builder, bag
}

func countKind(b *ast.Builder, kind ast.ExprKind) int {
	n := 0
	b.Walk(func(_ ast.ExprID, expr *ast.Expr) {
		if expr.Kind == kind {
			n++
		}
	})
	return n
}

func rootItems(t *testing.T, b *ast.Builder) []ast.ExprID {
	t.Helper()
	block, ok := b.Exprs.Block(b.Root)
	if !ok {
		t.Fatal("root is not a block")
	}
	return block.List
}

func TestParseLiteralKinds(t *testing.T) {
	cases := []struct {
		src  string
		kind ast.ExprKind
	}{
		{"42", ast.ExprLitInt},
		{"4.25", ast.ExprLitFloat},
		{`"hi"`, ast.ExprLitString},
		{"'hi'", ast.ExprLitString},
		{"true", ast.ExprLitBool},
		{"nil", ast.ExprLitNil},
		{"name", ast.ExprVarName},
		{"#", ast.ExprPointer},
		{"#index", ast.ExprPointer},
	}
	for _, c := range cases {
		builder, bag := parse(t, c.src)
		if bag.Len() != 0 {
			t.Errorf("%s: unexpected diagnostics", c.src)
		}
		items := rootItems(t, builder)
		if len(items) != 1 {
			t.Fatalf("%s: got %d items", c.src, len(items))
		}
		if expr := builder.Exprs.Get(items[0]); expr.Kind != c.kind {
			t.Errorf("%s: got kind %d, want %d", c.src, expr.Kind, c.kind)
		}
	}
}

func TestParseStringValueStripsQuotes(t *testing.T) {
	builder, _ := parse(t, `"hello"`)
	items := rootItems(t, builder)
	lit, ok := builder.Exprs.Literal(items[0])
	if !ok {
		t.Fatal("not a literal")
	}
	if lit.Value != "hello" {
		t.Errorf("got %q, want %q", lit.Value, "hello")
	}
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3).
	builder, bag := parse(t, "1 + 2 * 3")
	if bag.Len() != 0 {
		t.Fatal("unexpected diagnostics")
	}
	items := rootItems(t, builder)
	top, ok := builder.Exprs.Binary(items[0])
	if !ok || top.Op != ast.BinaryAdd {
		t.Fatal("top operator must be +")
	}
	right, ok := builder.Exprs.Binary(top.Right)
	if !ok || right.Op != ast.BinaryMul {
		t.Fatal("right operand must be the * node")
	}
}

func TestParseComparisonBindsRange(t *testing.T) {
	// a < 1..5 parses the range as the comparison operand.
	builder, _ := parse(t, "x < 1..5")
	items := rootItems(t, builder)
	cmp, ok := builder.Exprs.Binary(items[0])
	if !ok || cmp.Op != ast.BinaryLt {
		t.Fatal("top must be <")
	}
	if expr := builder.Exprs.Get(cmp.Right); expr.Kind != ast.ExprRange {
		t.Error("right operand must be a range")
	}
}

func TestParsePipeChain(t *testing.T) {
	builder, bag := parse(t, "xs | filter(# > 1) | map(# * 2)")
	if bag.Len() != 0 {
		t.Fatal("unexpected diagnostics")
	}
	if n := countKind(builder, ast.ExprPipe); n != 2 {
		t.Errorf("got %d pipe nodes, want 2", n)
	}
	items := rootItems(t, builder)
	top, ok := builder.Exprs.Pipe(items[0])
	if !ok {
		t.Fatal("root item must be a pipe")
	}
	// Left-associative: the source of the outer pipe is the inner pipe.
	if expr := builder.Exprs.Get(top.Source); expr.Kind != ast.ExprPipe {
		t.Error("pipe must associate left")
	}
}

func TestParseSelectorChain(t *testing.T) {
	builder, bag := parse(t, "user.address?.city")
	if bag.Len() != 0 {
		t.Fatal("unexpected diagnostics")
	}
	if countKind(builder, ast.ExprSelector) != 1 || countKind(builder, ast.ExprOptSelector) != 1 {
		t.Error("expected one plain and one optional selector")
	}
}

func TestParseCallArguments(t *testing.T) {
	builder, _ := parse(t, "f(1, x, true)")
	items := rootItems(t, builder)
	call, ok := builder.Exprs.Call(items[0])
	if !ok {
		t.Fatal("not a call")
	}
	args, ok := builder.Exprs.Arguments(call.Args)
	if !ok {
		t.Fatal("no arguments node")
	}
	if len(args.List) != 3 {
		t.Errorf("got %d arguments, want 3", len(args.List))
	}
	// Argument parents point at the arguments node, the predicate
	// boundary the scope walk depends on.
	for _, argID := range args.List {
		if expr := builder.Exprs.Get(argID); expr.Parent != call.Args {
			t.Error("argument parent must be the arguments node")
		}
	}
}

func TestParseIndexVersusSlice(t *testing.T) {
	builder, _ := parse(t, "xs[1]")
	if countKind(builder, ast.ExprIndex) != 1 {
		t.Error("xs[1] must be an index")
	}
	for _, src := range []string{"xs[1:]", "xs[:2]", "xs[1:2]", "xs[:]"} {
		builder, _ := parse(t, src)
		if countKind(builder, ast.ExprSlice) != 1 {
			t.Errorf("%s must be a slice expression", src)
		}
	}
}

func TestParseTernary(t *testing.T) {
	builder, bag := parse(t, "x == nil ? 0 : x")
	if bag.Len() != 0 {
		t.Fatal("unexpected diagnostics")
	}
	items := rootItems(t, builder)
	tern, ok := builder.Exprs.Ternary(items[0])
	if !ok {
		t.Fatal("not a ternary")
	}
	if cond, ok := builder.Exprs.Binary(tern.Cond); !ok || cond.Op != ast.BinaryEq {
		t.Error("condition must be the equality")
	}
}

func TestParseLet(t *testing.T) {
	builder, bag := parse(t, "let total = sum([1, 2])\ntotal")
	if bag.Len() != 0 {
		t.Fatal("unexpected diagnostics")
	}
	items := rootItems(t, builder)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	let, ok := builder.Exprs.Let(items[0])
	if !ok {
		t.Fatal("first item must be a let")
	}
	if let.Name != "total" {
		t.Errorf("let name %q", let.Name)
	}
	if expr := builder.Exprs.Get(let.Value); expr.Kind != ast.ExprCall {
		t.Error("let value must be the call")
	}
}

func TestParseMalformedLet(t *testing.T) {
	_, bag := parse(t, "let = 3")
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.ParseMalformedLet {
			found = true
		}
	}
	if !found {
		t.Error("expected a malformed-let diagnostic")
	}
}

func TestParseCommentsBecomeBlockItems(t *testing.T) {
	builder, bag := parse(t, "// leading\nlet a = 1\n/* inline */ a")
	if bag.Len() != 0 {
		t.Fatal("unexpected diagnostics")
	}
	if countKind(builder, ast.ExprComment) != 2 {
		t.Error("both comments must be block items")
	}
	comment := ast.NoExprID
	builder.Walk(func(id ast.ExprID, expr *ast.Expr) {
		if expr.Kind == ast.ExprComment && !comment.IsValid() {
			comment = id
		}
	})
	data, ok := builder.Exprs.Comment(comment)
	if !ok {
		t.Fatal("no comment payload")
	}
	if data.Text != "leading" {
		t.Errorf("comment text %q, want %q (delimiters stripped)", data.Text, "leading")
	}
}

func TestParseRecoversWithBadNodes(t *testing.T) {
	cases := []string{")", "f(,)", "let 3 = x", "a +", "{x}", "[1, , 2]"}
	for _, src := range cases {
		builder, bag := parse(t, src)
		if bag.Len() == 0 {
			t.Errorf("%s: expected diagnostics", src)
		}
		if countKind(builder, ast.ExprBad) == 0 {
			t.Errorf("%s: expected at least one bad node", src)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	builder, bag := parse(t, "")
	if bag.Len() != 0 {
		t.Error("empty input must parse clean")
	}
	if items := rootItems(t, builder); len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}
