package editor

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"sift/internal/ast"
	"sift/internal/infer"
	"sift/internal/types"
)

// ItemKind classifies a completion candidate for editor icons.
type ItemKind uint8

const (
	ItemVariable ItemKind = iota
	ItemField
	ItemMethod
	ItemFunction
	ItemPointer
)

// Item is one completion candidate.
type Item struct {
	Label      string
	Kind       ItemKind
	Detail     string
	Doc        string
	Deprecated bool
}

// CompleteAt returns the candidates for the cursor at offset, sorted by
// label. After `.` or `?.` it offers the target type's members; in any
// other position it offers scope variables, local declarations and the
// implicit predicate parameters. prefix filters case-insensitively
// after Unicode normalization; empty prefix keeps everything.
func CompleteAt(res *infer.Resolver, offset uint32, prefix string) []Item {
	if res == nil {
		return nil
	}
	id := res.Builder().At(offset)

	var items []Item
	if target, ok := memberTarget(res, id); ok {
		items = memberItems(res, target)
	} else {
		items = scopeItems(res, id, offset)
	}
	items = filterPrefix(items, prefix)
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

// memberTarget reports whether id sits in the field position of a
// selector and, if so, which expression the members come from.
func memberTarget(res *infer.Resolver, id ast.ExprID) (ast.ExprID, bool) {
	if !id.IsValid() {
		return ast.NoExprID, false
	}
	expr := res.Builder().Exprs.Get(id)
	if expr == nil {
		return ast.NoExprID, false
	}
	switch expr.Kind {
	case ast.ExprFieldName:
		if sel, ok := res.Builder().Exprs.Selector(expr.Parent); ok && sel.Field == id {
			return sel.Target, true
		}
	case ast.ExprSelector, ast.ExprOptSelector:
		if sel, ok := res.Builder().Exprs.Selector(id); ok {
			return sel.Target, true
		}
	}
	return ast.NoExprID, false
}

func memberItems(res *infer.Resolver, target ast.ExprID) []Item {
	def := res.TypeOf(target)
	if types.IsUnknown(def) {
		return nil
	}
	members := infer.VisibleMembers(res.Scope(), def)
	items := make([]Item, 0, len(members))
	for name, member := range members {
		kind := ItemField
		if member.Method {
			kind = ItemMethod
		}
		items = append(items, Item{
			Label:      name,
			Kind:       kind,
			Detail:     types.Details(member.Type),
			Doc:        member.Description,
			Deprecated: member.Deprecated,
		})
	}
	return items
}

func scopeItems(res *infer.Resolver, id ast.ExprID, offset uint32) []Item {
	seen := make(map[string]bool)
	var items []Item
	add := func(v types.Variable, kind ItemKind) {
		if v.Name == "" || seen[v.Name] {
			return
		}
		seen[v.Name] = true
		if v.Type != nil && v.Type.Kind == types.KindFunc && kind == ItemVariable {
			kind = ItemFunction
		}
		items = append(items, Item{
			Label:      v.Name,
			Kind:       kind,
			Detail:     types.Details(v.Type),
			Doc:        v.Description,
			Deprecated: v.Deprecated,
		})
	}

	anchor := id
	if !anchor.IsValid() {
		anchor = res.Builder().Root
	}
	// Predicate parameters first (their names never collide with
	// variables), then the attached scope, then local declarations, in
	// the same precedence type resolution uses.
	for _, v := range res.Pointers(anchor) {
		add(v, ItemPointer)
	}
	for _, v := range res.Scope().Variables {
		add(v, ItemVariable)
	}
	for _, v := range res.LocalScopeAt(anchor, offset) {
		add(v, ItemVariable)
	}
	return items
}

func filterPrefix(items []Item, prefix string) []Item {
	if prefix == "" {
		return items
	}
	want := strings.ToLower(norm.NFC.String(prefix))
	out := items[:0]
	for _, item := range items {
		label := strings.ToLower(norm.NFC.String(item.Label))
		if strings.HasPrefix(label, want) {
			out = append(out, item)
		}
	}
	return out
}
