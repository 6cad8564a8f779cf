package lexer

import (
	"testing"

	"sift/internal/diag"
	"sift/internal/token"
)

// kinds scans src and returns the token kinds without the trailing EOF.
func kinds(src string) []token.Kind {
	toks := Tokens(src, nil)
	out := make([]token.Kind, 0, len(toks)-1)
	for _, tok := range toks[:len(toks)-1] {
		out = append(out, tok.Kind)
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) {
	t.Helper()
	got := kinds(src)
	if len(got) != len(want) {
		t.Fatalf("%s: got %d tokens %v, want %d", src, len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: token %d is %s, want %s", src, i, got[i], want[i])
		}
	}
}

func TestScanBasics(t *testing.T) {
	expectKinds(t, "let x = 1", token.Let, token.Ident, token.Assign, token.Int)
	expectKinds(t, "a.b?.c", token.Ident, token.Dot, token.Ident, token.QuestionDot, token.Ident)
	expectKinds(t, "xs | f(#)", token.Ident, token.Pipe, token.Ident, token.LParen, token.Hash, token.RParen)
	expectKinds(t, "true false nil", token.True, token.False, token.Nil)
	expectKinds(t, "a == b != c <= d >= e", token.Ident, token.Eq, token.Ident, token.Ne,
		token.Ident, token.Le, token.Ident, token.Ge, token.Ident)
}

func TestScanNumbers(t *testing.T) {
	expectKinds(t, "42", token.Int)
	expectKinds(t, "4.25", token.Float)
	expectKinds(t, "1_000", token.Int)
	expectKinds(t, "1e3", token.Float)
	expectKinds(t, "2.5e-1", token.Float)
	// A range keeps both endpoints integral: the dots are an operator,
	// not a fraction.
	expectKinds(t, "1..5", token.Int, token.DotDot, token.Int)
}

func TestScanMalformedExponent(t *testing.T) {
	bag := diag.NewBag(0)
	toks := Tokens("1e+", diag.BagReporter{Bag: bag})
	if toks[0].Kind != token.Int {
		t.Errorf("mantissa must survive as an int, got %s", toks[0].Kind)
	}
	if bag.Len() == 0 {
		t.Error("expected a malformed-number diagnostic")
	}
}

func TestScanPointers(t *testing.T) {
	for _, src := range []string{"#", "#index", "#acc"} {
		toks := Tokens(src, nil)
		if len(toks) != 2 {
			t.Fatalf("%s: got %d tokens, want hash + eof", src, len(toks))
		}
		if toks[0].Kind != token.Hash {
			t.Errorf("%s: got %s, want hash", src, toks[0].Kind)
		}
		if toks[0].Text != src {
			t.Errorf("%s: token text %q", src, toks[0].Text)
		}
	}
}

func TestScanStrings(t *testing.T) {
	for _, src := range []string{`"hello"`, `'hello'`, `"with \" escape"`} {
		toks := Tokens(src, nil)
		if len(toks) != 2 || toks[0].Kind != token.String {
			t.Errorf("%s: expected a single string token", src)
		}
	}

	bag := diag.NewBag(0)
	Tokens(`"open`, diag.BagReporter{Bag: bag})
	if bag.Len() == 0 {
		t.Error("expected an unterminated-string diagnostic")
	}

	// A newline terminates the literal early.
	bag = diag.NewBag(0)
	toks := Tokens("\"a\nb\"", diag.BagReporter{Bag: bag})
	if bag.Len() == 0 {
		t.Error("newline inside a string must be reported")
	}
	if toks[0].Kind != token.String {
		t.Errorf("got %s, want string", toks[0].Kind)
	}
}

func TestScanWordOperators(t *testing.T) {
	expectKinds(t, "a and b or not c",
		token.Ident, token.LAnd, token.Ident, token.LOr, token.Not, token.Ident)
	expectKinds(t, "a && b || !c",
		token.Ident, token.LAnd, token.Ident, token.LOr, token.Not, token.Ident)
}

func TestScanComments(t *testing.T) {
	toks := Tokens("// line\nx /* block */", nil)
	if toks[0].Kind != token.LineComment || toks[0].Text != "// line" {
		t.Errorf("line comment: got %s %q", toks[0].Kind, toks[0].Text)
	}
	if toks[2].Kind != token.BlockComment {
		t.Errorf("block comment: got %s", toks[2].Kind)
	}

	bag := diag.NewBag(0)
	Tokens("/* open", diag.BagReporter{Bag: bag})
	if bag.Len() == 0 {
		t.Error("expected an unterminated-comment diagnostic")
	}
}

func TestScanUnicodeIdentifier(t *testing.T) {
	toks := Tokens("число + 1", nil)
	if toks[0].Kind != token.Ident || toks[0].Text != "число" {
		t.Errorf("got %s %q", toks[0].Kind, toks[0].Text)
	}
}

func TestScanInvalidMakesProgress(t *testing.T) {
	bag := diag.NewBag(0)
	toks := Tokens("a @ b", diag.BagReporter{Bag: bag})
	if toks[1].Kind != token.Invalid {
		t.Errorf("got %s, want invalid", toks[1].Kind)
	}
	if toks[2].Kind != token.Ident || toks[2].Text != "b" {
		t.Error("scanning must continue past the invalid character")
	}
	if bag.Len() != 1 {
		t.Errorf("got %d diagnostics, want 1", bag.Len())
	}
}

func TestScanSpans(t *testing.T) {
	toks := Tokens("ab + cd", nil)
	tok := toks[2]
	if tok.Text != "cd" {
		t.Fatalf("got %q", tok.Text)
	}
	if tok.Span.Start != 5 || tok.Span.End != 7 {
		t.Errorf("span [%d,%d), want [5,7)", tok.Span.Start, tok.Span.End)
	}
}

func TestScanEmptyInput(t *testing.T) {
	toks := Tokens("", nil)
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("got %v, want a lone eof", toks)
	}
	toks = Tokens("   \n\t", nil)
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Error("whitespace-only input must yield a lone eof")
	}
}
