// Package lexer turns a sift snippet into tokens. It never fails:
// unrecognized input becomes Invalid tokens and a diagnostic, and the
// stream always ends with EOF.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"sift/internal/diag"
	"sift/internal/source"
	"sift/internal/token"
)

// Lexer scans one snippet.
type Lexer struct {
	src      string
	offset   int
	reporter diag.Reporter
}

// New constructs a lexer over src. reporter may be nil.
func New(src string, reporter diag.Reporter) *Lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Lexer{src: src, reporter: reporter}
}

// Tokens scans the whole snippet including comments.
func Tokens(src string, reporter diag.Reporter) []token.Token {
	lx := New(src, reporter)
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) span(start int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		s = ^uint32(0)
	}
	e, err := safecast.Conv[uint32](lx.offset)
	if err != nil {
		e = ^uint32(0)
	}
	return source.Span{Start: s, End: e}
}

func (lx *Lexer) peek() byte {
	if lx.offset >= len(lx.src) {
		return 0
	}
	return lx.src[lx.offset]
}

func (lx *Lexer) peekAt(ahead int) byte {
	if lx.offset+ahead >= len(lx.src) {
		return 0
	}
	return lx.src[lx.offset+ahead]
}

func (lx *Lexer) make(kind token.Kind, start int) token.Token {
	return token.Token{Kind: kind, Span: lx.span(start), Text: lx.src[start:lx.offset]}
}

// Next returns the next token.
func (lx *Lexer) Next() token.Token {
	lx.skipSpace()
	start := lx.offset
	if lx.offset >= len(lx.src) {
		return token.Token{Kind: token.EOF, Span: lx.span(start)}
	}

	c := lx.src[lx.offset]
	switch {
	case c == '/' && lx.peekAt(1) == '/':
		return lx.scanLineComment(start)
	case c == '/' && lx.peekAt(1) == '*':
		return lx.scanBlockComment(start)
	case isDigit(c):
		return lx.scanNumber(start)
	case c == '"' || c == '\'':
		return lx.scanString(start, c)
	case c == '#':
		return lx.scanPointer(start)
	case isIdentStart(c):
		return lx.scanIdent(start)
	}
	return lx.scanOperator(start)
}

func (lx *Lexer) skipSpace() {
	for lx.offset < len(lx.src) {
		switch lx.src[lx.offset] {
		case ' ', '\t', '\r', '\n':
			lx.offset++
		default:
			return
		}
	}
}

func (lx *Lexer) scanLineComment(start int) token.Token {
	lx.offset += 2
	for lx.offset < len(lx.src) && lx.src[lx.offset] != '\n' {
		lx.offset++
	}
	return lx.make(token.LineComment, start)
}

func (lx *Lexer) scanBlockComment(start int) token.Token {
	lx.offset += 2
	for lx.offset < len(lx.src) {
		if lx.src[lx.offset] == '*' && lx.peekAt(1) == '/' {
			lx.offset += 2
			return lx.make(token.BlockComment, start)
		}
		lx.offset++
	}
	lx.reporter.Report(diag.ParseUnterminatedComment, diag.SevError, lx.span(start), "unterminated block comment", nil)
	return lx.make(token.BlockComment, start)
}

func (lx *Lexer) scanNumber(start int) token.Token {
	kind := token.Int
	for lx.offset < len(lx.src) && (isDigit(lx.src[lx.offset]) || lx.src[lx.offset] == '_') {
		lx.offset++
	}
	// A dot starts a fraction only when not part of a .. range.
	if lx.peek() == '.' && isDigit(lx.peekAt(1)) {
		kind = token.Float
		lx.offset++
		for lx.offset < len(lx.src) && isDigit(lx.src[lx.offset]) {
			lx.offset++
		}
	}
	if c := lx.peek(); c == 'e' || c == 'E' {
		mark := lx.offset
		lx.offset++
		if c := lx.peek(); c == '+' || c == '-' {
			lx.offset++
		}
		if !isDigit(lx.peek()) {
			lx.offset = mark
			lx.reporter.Report(diag.ParseMalformedNumber, diag.SevError, lx.span(start), "malformed exponent", nil)
		} else {
			kind = token.Float
			for lx.offset < len(lx.src) && isDigit(lx.src[lx.offset]) {
				lx.offset++
			}
		}
	}
	return lx.make(kind, start)
}

func (lx *Lexer) scanString(start int, quote byte) token.Token {
	lx.offset++
	for lx.offset < len(lx.src) {
		c := lx.src[lx.offset]
		if c == '\\' && lx.offset+1 < len(lx.src) {
			lx.offset += 2
			continue
		}
		if c == quote {
			lx.offset++
			return lx.make(token.String, start)
		}
		if c == '\n' {
			break
		}
		lx.offset++
	}
	lx.reporter.Report(diag.ParseUnterminatedString, diag.SevError, lx.span(start), "unterminated string literal", nil)
	return lx.make(token.String, start)
}

// scanPointer scans #, #index, #acc and friends as one token.
func (lx *Lexer) scanPointer(start int) token.Token {
	lx.offset++
	for lx.offset < len(lx.src) && isIdentPart(lx.src[lx.offset]) {
		lx.offset++
	}
	return lx.make(token.Hash, start)
}

func (lx *Lexer) scanIdent(start int) token.Token {
	for lx.offset < len(lx.src) {
		c := lx.src[lx.offset]
		if isIdentPart(c) {
			lx.offset++
			continue
		}
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(lx.src[lx.offset:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				lx.offset += size
				continue
			}
		}
		break
	}
	text := lx.src[start:lx.offset]
	switch text {
	case "let":
		return lx.make(token.Let, start)
	case "true":
		return lx.make(token.True, start)
	case "false":
		return lx.make(token.False, start)
	case "nil":
		return lx.make(token.Nil, start)
	case "and":
		return lx.make(token.LAnd, start)
	case "or":
		return lx.make(token.LOr, start)
	case "not":
		return lx.make(token.Not, start)
	}
	return lx.make(token.Ident, start)
}

func (lx *Lexer) scanOperator(start int) token.Token {
	two := func(kind token.Kind) token.Token {
		lx.offset += 2
		return lx.make(kind, start)
	}
	one := func(kind token.Kind) token.Token {
		lx.offset++
		return lx.make(kind, start)
	}

	c := lx.src[lx.offset]
	next := lx.peekAt(1)
	switch c {
	case '(':
		return one(token.LParen)
	case ')':
		return one(token.RParen)
	case '[':
		return one(token.LBracket)
	case ']':
		return one(token.RBracket)
	case '{':
		return one(token.LBrace)
	case '}':
		return one(token.RBrace)
	case ',':
		return one(token.Comma)
	case ':':
		return one(token.Colon)
	case ';':
		return one(token.Semicolon)
	case '.':
		if next == '.' {
			return two(token.DotDot)
		}
		return one(token.Dot)
	case '?':
		if next == '.' {
			return two(token.QuestionDot)
		}
		return one(token.Question)
	case '|':
		if next == '|' {
			return two(token.LOr)
		}
		return one(token.Pipe)
	case '&':
		if next == '&' {
			return two(token.LAnd)
		}
	case '+':
		return one(token.Plus)
	case '-':
		return one(token.Minus)
	case '*':
		return one(token.Star)
	case '/':
		return one(token.Slash)
	case '%':
		return one(token.Percent)
	case '=':
		if next == '=' {
			return two(token.Eq)
		}
		return one(token.Assign)
	case '!':
		if next == '=' {
			return two(token.Ne)
		}
		return one(token.Not)
	case '<':
		if next == '=' {
			return two(token.Le)
		}
		return one(token.Lt)
	case '>':
		if next == '=' {
			return two(token.Ge)
		}
		return one(token.Gt)
	}

	// Skip one full rune so we make progress on any input.
	_, size := utf8.DecodeRuneInString(lx.src[lx.offset:])
	lx.offset += size
	tok := lx.make(token.Invalid, start)
	lx.reporter.Report(diag.ParseUnexpectedToken, diag.SevError, tok.Span, fmt.Sprintf("unexpected character %q", tok.Text), nil)
	return tok
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
