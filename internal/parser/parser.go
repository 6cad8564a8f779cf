// Package parser builds a snapshot tree from a sift snippet. It is
// deliberately forgiving: malformed regions become ExprBad nodes (which
// resolve to the unknown type) and parsing always terminates with a
// usable tree.
package parser

import (
	"fmt"
	"strings"

	"sift/internal/ast"
	"sift/internal/diag"
	"sift/internal/lexer"
	"sift/internal/source"
	"sift/internal/token"
)

type parser struct {
	toks     []token.Token
	pos      int
	builder  *ast.Builder
	reporter diag.Reporter
	items    []ast.ExprID
}

// Parse builds the snapshot for src. reporter may be nil.
func Parse(src string, reporter diag.Reporter) *ast.Builder {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	p := &parser{
		toks:     lexer.Tokens(src, reporter),
		builder:  ast.NewBuilder(uint(len(src) / 4)),
		reporter: reporter,
	}
	p.parseBlock()
	return p.builder
}

// peek returns the next non-comment token, lifting any comments seen
// on the way into the current block's item list.
func (p *parser) peek() token.Token {
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		if tok.IsComment() {
			p.items = append(p.items, p.builder.NewComment(tok.Span, commentText(tok), tok.Kind == token.BlockComment))
			p.pos++
			continue
		}
		return tok
	}
	return p.toks[len(p.toks)-1] // EOF
}

func (p *parser) next() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) at(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *parser) expect(kind token.Kind) (token.Token, bool) {
	tok := p.peek()
	if tok.Kind != kind {
		p.reporter.Report(diag.ParseUnexpectedToken, diag.SevError, tok.Span,
			fmt.Sprintf("expected %s, found %s", kind, tok.Kind), nil)
		return tok, false
	}
	return p.next(), true
}

func commentText(tok token.Token) string {
	text := tok.Text
	if strings.HasPrefix(text, "//") {
		return strings.TrimPrefix(text[2:], " ")
	}
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	return strings.TrimSpace(text)
}

func (p *parser) parseBlock() {
	for {
		tok := p.peek()
		if tok.Kind == token.EOF {
			break
		}
		switch tok.Kind {
		case token.Semicolon:
			p.next()
		case token.Let:
			p.items = append(p.items, p.parseLet())
		default:
			before := p.pos
			p.items = append(p.items, p.parseExpr())
			if p.pos == before {
				// No progress on this token; drop it as a bad node.
				bad := p.next()
				p.items = append(p.items, p.builder.NewBad(bad.Span))
			}
		}
	}
	span := source.Span{}
	if len(p.toks) > 0 {
		span = source.Span{Start: 0, End: p.toks[len(p.toks)-1].Span.End}
	}
	p.builder.SetRoot(p.builder.NewBlock(span, p.items))
}

func (p *parser) parseLet() ast.ExprID {
	letTok := p.next()
	nameTok, ok := p.expect(token.Ident)
	if !ok {
		p.reporter.Report(diag.ParseMalformedLet, diag.SevError, letTok.Span, "malformed declaration", nil)
		return p.builder.NewBad(letTok.Span)
	}
	if _, ok := p.expect(token.Assign); !ok {
		p.reporter.Report(diag.ParseMalformedLet, diag.SevError, letTok.Span, "declaration is missing '='", nil)
		return p.builder.NewBad(source.Span{Start: letTok.Span.Start, End: nameTok.Span.End})
	}
	value := p.parseExpr()
	end := nameTok.Span.End
	if expr := p.builder.Exprs.Get(value); expr != nil {
		end = expr.Span.End
	}
	span := source.Span{Start: letTok.Span.Start, End: end}
	return p.builder.NewLet(span, nameTok.Text, nameTok.Span, value)
}

func (p *parser) spanOf(id ast.ExprID) source.Span {
	if expr := p.builder.Exprs.Get(id); expr != nil {
		return expr.Span
	}
	return source.Span{}
}

func join(a, b source.Span) source.Span {
	if b.End > a.End {
		a.End = b.End
	}
	if b.Start < a.Start {
		a.Start = b.Start
	}
	return a
}

// parseExpr parses at the lowest precedence: the conditional.
func (p *parser) parseExpr() ast.ExprID {
	cond := p.parsePipe()
	if !p.at(token.Question) {
		return cond
	}
	p.next()
	then := p.parseExpr()
	var els ast.ExprID
	if _, ok := p.expect(token.Colon); ok {
		els = p.parseExpr()
	} else {
		els = p.builder.NewBad(p.peek().Span)
	}
	span := join(p.spanOf(cond), p.spanOf(els))
	return p.builder.NewTernary(span, cond, then, els)
}

func (p *parser) parsePipe() ast.ExprID {
	left := p.parseOr()
	for p.at(token.Pipe) {
		p.next()
		right := p.parseOr()
		span := join(p.spanOf(left), p.spanOf(right))
		left = p.builder.NewPipe(span, left, right)
	}
	return left
}

func (p *parser) parseOr() ast.ExprID {
	left := p.parseAnd()
	for p.at(token.LOr) {
		p.next()
		right := p.parseAnd()
		left = p.builder.NewBinary(join(p.spanOf(left), p.spanOf(right)), ast.BinaryLOr, left, right)
	}
	return left
}

func (p *parser) parseAnd() ast.ExprID {
	left := p.parseComparison()
	for p.at(token.LAnd) {
		p.next()
		right := p.parseComparison()
		left = p.builder.NewBinary(join(p.spanOf(left), p.spanOf(right)), ast.BinaryLAnd, left, right)
	}
	return left
}

var comparisonOps = map[token.Kind]ast.BinaryOp{
	token.Eq: ast.BinaryEq,
	token.Ne: ast.BinaryNe,
	token.Lt: ast.BinaryLt,
	token.Le: ast.BinaryLe,
	token.Gt: ast.BinaryGt,
	token.Ge: ast.BinaryGe,
}

func (p *parser) parseComparison() ast.ExprID {
	left := p.parseRange()
	for {
		op, ok := comparisonOps[p.peek().Kind]
		if !ok {
			return left
		}
		p.next()
		right := p.parseRange()
		left = p.builder.NewBinary(join(p.spanOf(left), p.spanOf(right)), op, left, right)
	}
}

func (p *parser) parseRange() ast.ExprID {
	low := p.parseAdditive()
	if !p.at(token.DotDot) {
		return low
	}
	p.next()
	high := p.parseAdditive()
	return p.builder.NewRange(join(p.spanOf(low), p.spanOf(high)), low, high)
}

func (p *parser) parseAdditive() ast.ExprID {
	left := p.parseMultiplicative()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Plus:
			op = ast.BinaryAdd
		case token.Minus:
			op = ast.BinarySub
		default:
			return left
		}
		p.next()
		right := p.parseMultiplicative()
		left = p.builder.NewBinary(join(p.spanOf(left), p.spanOf(right)), op, left, right)
	}
}

func (p *parser) parseMultiplicative() ast.ExprID {
	left := p.parseUnary()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Star:
			op = ast.BinaryMul
		case token.Slash:
			op = ast.BinaryDiv
		case token.Percent:
			op = ast.BinaryMod
		default:
			return left
		}
		p.next()
		right := p.parseUnary()
		left = p.builder.NewBinary(join(p.spanOf(left), p.spanOf(right)), op, left, right)
	}
}

func (p *parser) parseUnary() ast.ExprID {
	var op ast.UnaryOp
	switch p.peek().Kind {
	case token.Minus:
		op = ast.UnaryNeg
	case token.Plus:
		op = ast.UnaryPos
	case token.Not:
		op = ast.UnaryNot
	default:
		return p.parsePostfix()
	}
	tok := p.next()
	operand := p.parseUnary()
	return p.builder.NewUnary(join(tok.Span, p.spanOf(operand)), op, operand)
}

func (p *parser) parsePostfix() ast.ExprID {
	expr := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case token.LParen:
			expr = p.parseCall(expr)
		case token.LBracket:
			expr = p.parseIndexOrSlice(expr)
		case token.Dot:
			expr = p.parseSelector(expr, false)
		case token.QuestionDot:
			expr = p.parseSelector(expr, true)
		default:
			return expr
		}
	}
}

func (p *parser) parseCall(callee ast.ExprID) ast.ExprID {
	open := p.next()
	var args []ast.ExprID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.parseExpr())
		if p.at(token.Comma) {
			p.next()
			continue
		}
		break
	}
	closeTok, _ := p.expect(token.RParen)
	argsSpan := source.Span{Start: open.Span.Start, End: closeTok.Span.End}
	span := join(p.spanOf(callee), closeTok.Span)
	return p.builder.NewCall(span, argsSpan, callee, args)
}

func (p *parser) parseIndexOrSlice(target ast.ExprID) ast.ExprID {
	p.next()
	var low ast.ExprID
	if !p.at(token.Colon) {
		low = p.parseExpr()
	}
	if p.at(token.Colon) {
		p.next()
		var high ast.ExprID
		if !p.at(token.RBracket) {
			high = p.parseExpr()
		}
		closeTok, _ := p.expect(token.RBracket)
		return p.builder.NewSlice(join(p.spanOf(target), closeTok.Span), target, low, high)
	}
	closeTok, _ := p.expect(token.RBracket)
	if !low.IsValid() {
		low = p.builder.NewBad(closeTok.Span)
	}
	return p.builder.NewIndex(join(p.spanOf(target), closeTok.Span), target, low)
}

func (p *parser) parseSelector(target ast.ExprID, optional bool) ast.ExprID {
	p.next()
	nameTok, ok := p.expect(token.Ident)
	if !ok {
		// Incomplete selector: keep a field node with an empty name so
		// completion can still anchor at this offset.
		field := p.builder.NewName(ast.ExprFieldName, nameTok.Span, "")
		return p.builder.NewSelector(join(p.spanOf(target), nameTok.Span), optional, target, field)
	}
	field := p.builder.NewName(ast.ExprFieldName, nameTok.Span, nameTok.Text)
	return p.builder.NewSelector(join(p.spanOf(target), nameTok.Span), optional, target, field)
}

func (p *parser) parsePrimary() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.Int:
		p.next()
		return p.builder.NewLiteral(ast.ExprLitInt, tok.Span, tok.Text)
	case token.Float:
		p.next()
		return p.builder.NewLiteral(ast.ExprLitFloat, tok.Span, tok.Text)
	case token.String:
		p.next()
		return p.builder.NewLiteral(ast.ExprLitString, tok.Span, stringValue(tok.Text))
	case token.True, token.False:
		p.next()
		return p.builder.NewLiteral(ast.ExprLitBool, tok.Span, tok.Text)
	case token.Nil:
		p.next()
		return p.builder.NewLiteral(ast.ExprLitNil, tok.Span, tok.Text)
	case token.Ident:
		p.next()
		return p.builder.NewName(ast.ExprVarName, tok.Span, tok.Text)
	case token.Hash:
		p.next()
		return p.builder.NewName(ast.ExprPointer, tok.Span, tok.Text)
	case token.LParen:
		p.next()
		inner := p.parseExpr()
		p.expect(token.RParen)
		return inner
	case token.LBracket:
		return p.parseArray()
	case token.LBrace:
		return p.parseMap()
	}
	p.reporter.Report(diag.ParseUnexpectedToken, diag.SevError, tok.Span,
		fmt.Sprintf("unexpected %s", tok.Kind), nil)
	if tok.Kind != token.EOF {
		p.next()
	}
	return p.builder.NewBad(tok.Span)
}

func stringValue(text string) string {
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func (p *parser) parseArray() ast.ExprID {
	open := p.next()
	var elems []ast.ExprID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		elems = append(elems, p.parseExpr())
		if p.at(token.Comma) {
			p.next()
			continue
		}
		break
	}
	closeTok, _ := p.expect(token.RBracket)
	return p.builder.NewArray(source.Span{Start: open.Span.Start, End: closeTok.Span.End}, elems)
}

func (p *parser) parseMap() ast.ExprID {
	open := p.next()
	var pairs []ast.ExprID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		pairs = append(pairs, p.parsePair())
		if p.at(token.Comma) {
			p.next()
			continue
		}
		break
	}
	closeTok, _ := p.expect(token.RBrace)
	return p.builder.NewMap(source.Span{Start: open.Span.Start, End: closeTok.Span.End}, pairs)
}

func (p *parser) parsePair() ast.ExprID {
	var key ast.ExprID
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.next()
		key = p.builder.NewName(ast.ExprFieldName, tok.Span, tok.Text)
	case token.String:
		p.next()
		key = p.builder.NewLiteral(ast.ExprLitString, tok.Span, stringValue(tok.Text))
	default:
		p.reporter.Report(diag.ParseUnexpectedToken, diag.SevError, tok.Span,
			fmt.Sprintf("expected map key, found %s", tok.Kind), nil)
		key = p.builder.NewBad(tok.Span)
		if tok.Kind != token.EOF {
			p.next()
		}
	}
	var value ast.ExprID
	if _, ok := p.expect(token.Colon); ok {
		value = p.parseExpr()
	} else {
		value = p.builder.NewBad(p.peek().Span)
	}
	return p.builder.NewPair(join(p.spanOf(key), p.spanOf(value)), key, value)
}
