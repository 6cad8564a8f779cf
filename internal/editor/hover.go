// Package editor answers position-based queries for tooling: hover
// text and completion candidates. It sits on top of the resolver and
// never mutates the snapshot.
package editor

import (
	"strings"

	"sift/internal/ast"
	"sift/internal/infer"
	"sift/internal/source"
	"sift/internal/types"
)

// Hover is the result of a hover query: a signature or declaration
// line, an optional description, and the resolved type label.
type Hover struct {
	Signature   string
	Description string
	TypeLabel   string
	Span        source.Span
}

// Markdown renders the hover as the fenced-code-plus-prose block
// editors expect.
func (h *Hover) Markdown() string {
	lines := make([]string, 0, 3)
	if h.Signature != "" {
		lines = append(lines, "```sift\n"+h.Signature+"\n```")
	}
	if h.Description != "" {
		lines = append(lines, h.Description)
	}
	if h.TypeLabel != "" {
		lines = append(lines, "Type: `"+h.TypeLabel+"`")
	}
	return strings.Join(lines, "\n")
}

// HoverAt resolves the innermost node covering offset and describes it.
// Offsets that land on nothing (or on comments) yield nil.
func HoverAt(res *infer.Resolver, offset uint32) *Hover {
	if res == nil {
		return nil
	}
	id := res.Builder().At(offset)
	if !id.IsValid() {
		return nil
	}
	expr := res.Builder().Exprs.Get(id)
	if expr == nil {
		return nil
	}

	out := &Hover{Span: expr.Span}
	switch expr.Kind {
	case ast.ExprVarName:
		name, _ := res.Builder().Exprs.Name(id)
		if name == nil {
			return nil
		}
		// Same precedence as type resolution: the attached scope first,
		// then local declarations.
		v, ok := res.Scope().Variable(name.Name)
		if !ok {
			v, ok = res.LocalScopeAt(id, expr.Span.Start)[name.Name]
		}
		if ok {
			out.Signature = "let " + v.Name + ": " + types.Details(v.Type)
			out.Description = v.Description
		}
	case ast.ExprPointer:
		name, _ := res.Builder().Exprs.Name(id)
		if name == nil {
			return nil
		}
		if v, ok := res.Pointers(id)[name.Name]; ok {
			out.Signature = v.Name + ": " + types.Details(v.Type)
			out.Description = v.Description
		}
	case ast.ExprFieldName:
		if sig, desc := fieldHover(res, id, expr); sig != "" {
			out.Signature = sig
			out.Description = desc
		}
	}

	def := res.TypeOf(id)
	if !types.IsUnknown(def) {
		out.TypeLabel = types.Details(def)
	}
	if out.Signature == "" && out.TypeLabel == "" {
		return nil
	}
	return out
}

func fieldHover(res *infer.Resolver, id ast.ExprID, expr *ast.Expr) (string, string) {
	sel, ok := res.Builder().Exprs.Selector(expr.Parent)
	if !ok || sel.Field != id {
		return "", ""
	}
	name, ok := res.Builder().Exprs.Name(id)
	if !ok {
		return "", ""
	}
	member := infer.LookupMember(res.Scope(), res.TypeOf(sel.Target), name.Name)
	if member == nil {
		return "", ""
	}
	if member.Method {
		return name.Name + funcSignature(member.Type), member.Description
	}
	return name.Name + ": " + types.Details(member.Type), member.Description
}

// funcSignature renders a func type without the leading "func" keyword,
// for method-style display.
func funcSignature(def *types.Definition) string {
	if def == nil || def.Kind != types.KindFunc {
		return ""
	}
	full := types.Details(def)
	return strings.TrimPrefix(full, "func")
}
