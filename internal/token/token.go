package token

import (
	"fmt"

	"sift/internal/source"
)

// Kind enumerates all lexical token kinds of the sift grammar.
type Kind uint8

const (
	EOF Kind = iota
	Invalid

	Ident
	Int
	Float
	String
	True
	False
	Nil
	Let

	LineComment
	BlockComment

	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Colon
	Semicolon

	Dot
	QuestionDot
	Question
	Hash
	Pipe
	DotDot
	Assign

	Plus
	Minus
	Star
	Slash
	Percent

	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	LAnd
	LOr
	Not
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "eof"
	case Invalid:
		return "invalid"
	case Ident:
		return "identifier"
	case Int:
		return "int literal"
	case Float:
		return "float literal"
	case String:
		return "string literal"
	case True:
		return "true"
	case False:
		return "false"
	case Nil:
		return "nil"
	case Let:
		return "let"
	case LineComment:
		return "line comment"
	case BlockComment:
		return "block comment"
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case Comma:
		return ","
	case Colon:
		return ":"
	case Semicolon:
		return ";"
	case Dot:
		return "."
	case QuestionDot:
		return "?."
	case Question:
		return "?"
	case Hash:
		return "#"
	case Pipe:
		return "|"
	case DotDot:
		return ".."
	case Assign:
		return "="
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case Percent:
		return "%"
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case LAnd:
		return "&&"
	case LOr:
		return "||"
	case Not:
		return "!"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Token is one lexeme with its source span.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Kind == LineComment || t.Kind == BlockComment
}
