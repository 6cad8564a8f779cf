// Package lint turns resolved types into diagnostics. The inference
// engine only states facts; this pass compares them against expected
// shapes and decides severity, message and span. Anything the engine
// resolved to unknown stays quiet.
package lint

import (
	"fmt"

	"sift/internal/ast"
	"sift/internal/diag"
	"sift/internal/infer"
	"sift/internal/source"
	"sift/internal/types"
)

// Check walks the snapshot and reports findings to reporter.
func Check(res *infer.Resolver, reporter diag.Reporter) {
	if res == nil || reporter == nil {
		return
	}
	c := &checker{res: res, reporter: reporter}
	res.Builder().Walk(c.visit)
}

type checker struct {
	res      *infer.Resolver
	reporter diag.Reporter
}

func (c *checker) visit(id ast.ExprID, expr *ast.Expr) {
	switch expr.Kind {
	case ast.ExprCall:
		c.checkCall(id, expr)
	case ast.ExprSelector, ast.ExprOptSelector:
		c.checkSelector(id, expr)
	case ast.ExprBinary:
		c.checkBinary(id, expr)
	case ast.ExprIndex:
		c.checkIndex(id, expr)
	case ast.ExprTernary:
		c.checkTernary(id)
	case ast.ExprVarName:
		c.checkVar(id, expr)
	}
}

func (c *checker) checkCall(id ast.ExprID, expr *ast.Expr) {
	call, ok := c.res.Builder().Exprs.Call(id)
	if !ok {
		return
	}
	callee := c.res.TypeOf(call.Callee)
	if types.IsUnknown(callee) {
		return
	}
	calleeExpr := c.res.Builder().Exprs.Get(call.Callee)
	if callee.Kind != types.KindFunc {
		span := expr.Span
		if calleeExpr != nil {
			span = calleeExpr.Span
		}
		c.reporter.Report(diag.CheckNotCallable, diag.SevError, span,
			fmt.Sprintf("%s is not callable", types.Details(callee)), nil)
		return
	}
	c.checkArguments(id, call, callee)
}

func (c *checker) checkArguments(id ast.ExprID, call *ast.CallData, fn *types.Definition) {
	args, ok := c.res.Builder().Exprs.Arguments(call.Args)
	if !ok {
		return
	}
	argIDs := args.List
	argTypes := make([]*types.Definition, 0, len(argIDs)+1)
	spans := make([]ast.ExprID, 0, len(argIDs)+1)
	if src := c.pipeSource(id); src.IsValid() {
		argTypes = append(argTypes, c.res.TypeOf(src))
		spans = append(spans, src)
	}
	for _, argID := range argIDs {
		argTypes = append(argTypes, c.res.TypeOf(argID))
		spans = append(spans, argID)
	}

	required := 0
	for _, arg := range fn.Args {
		if !arg.Optional && !arg.Variadic {
			required++
		}
	}
	last, _ := fn.LastArg()
	maxArgs := len(fn.Args)
	if last.Variadic {
		maxArgs = -1
	}
	argsSpan := c.nodeSpan(call.Args)
	if len(argTypes) < required || (maxArgs >= 0 && len(argTypes) > maxArgs) {
		c.reporter.Report(diag.CheckArgCount, diag.SevError, argsSpan,
			fmt.Sprintf("wrong number of arguments: have %d, want %d", len(argTypes), required), nil)
		return
	}

	callee := c.calleeName(call.Callee)
	inst := infer.Instantiate(fn, callee, argTypes)
	for i, actual := range argTypes {
		j := i
		if j >= len(inst.Args) {
			if !last.Variadic {
				break
			}
			j = len(inst.Args) - 1
		}
		// Variadic parameters declare their per-argument type, so no
		// unwrapping is needed for the absorbed tail.
		declared := inst.Args[j].Type
		if declared == nil || types.IsUnknown(declared) || types.IsUnknown(actual) {
			continue
		}
		if declared.Kind == types.KindFunc {
			// A func-typed argument only needs matching shape.
			if actual.Kind == types.KindFunc {
				continue
			}
			// Predicate bodies resolve to the value the body produces,
			// so they check against the declared return type.
			if types.IsPredicative(callee) && len(declared.Returns) == 1 {
				declared = declared.Returns[0]
				if declared == nil || types.IsUnknown(declared) {
					continue
				}
			} else {
				continue
			}
		}
		if !types.Equal(declared, actual) {
			c.reporter.Report(diag.CheckArgType, diag.SevError, c.nodeSpan(spans[i]),
				fmt.Sprintf("cannot use %s as %s", types.Details(actual), types.Details(declared)), nil)
		}
	}
}

func (c *checker) checkSelector(id ast.ExprID, _ *ast.Expr) {
	sel, ok := c.res.Builder().Exprs.Selector(id)
	if !ok {
		return
	}
	field, ok := c.res.Builder().Exprs.Name(sel.Field)
	if !ok || field.Name == "" {
		return
	}
	src := c.res.TypeOf(sel.Target)
	if types.IsUnknown(src) || src.Kind == types.KindNil {
		return
	}
	member := infer.LookupMember(c.res.Scope(), src, field.Name)
	if member == nil {
		// Only report on shapes that actually carry members.
		switch src.Kind {
		case types.KindStruct, types.KindDefined, types.KindPointer, types.KindOptional:
			c.reporter.Report(diag.CheckUnknownMember, diag.SevError, c.nodeSpan(sel.Field),
				fmt.Sprintf("%s has no member %q", types.Details(src), field.Name), nil)
		}
		return
	}
	if member.Deprecated {
		c.reporter.Report(diag.CheckDeprecated, diag.SevWarning, c.nodeSpan(sel.Field),
			fmt.Sprintf("%s is deprecated", field.Name), nil)
	}
}

func (c *checker) checkBinary(id ast.ExprID, expr *ast.Expr) {
	data, ok := c.res.Builder().Exprs.Binary(id)
	if !ok || data.Op.IsComparison() || data.Op.IsLogical() {
		return
	}
	left := c.res.TypeOf(data.Left)
	right := c.res.TypeOf(data.Right)
	if types.IsUnknown(left) || types.IsUnknown(right) {
		return
	}
	if types.IsNumber(left) && types.IsNumber(right) {
		return
	}
	if data.Op == ast.BinaryAdd && left.Kind == types.KindString && right.Kind == types.KindString {
		return
	}
	if types.Equal(left, right) {
		return
	}
	c.reporter.Report(diag.CheckBadOperands, diag.SevError, expr.Span,
		fmt.Sprintf("operator %s undefined for %s and %s", data.Op, types.Details(left), types.Details(right)), nil)
}

func (c *checker) checkIndex(id ast.ExprID, _ *ast.Expr) {
	data, ok := c.res.Builder().Exprs.Index(id)
	if !ok {
		return
	}
	src := c.res.TypeOf(data.Target)
	if types.IsUnknown(src) || types.IsSlice(src) || src.Kind == types.KindMap || src.Kind == types.KindString {
		return
	}
	c.reporter.Report(diag.CheckBadIndex, diag.SevError, c.nodeSpan(id),
		fmt.Sprintf("%s is not indexable", types.Details(src)), nil)
}

func (c *checker) checkTernary(id ast.ExprID) {
	data, ok := c.res.Builder().Exprs.Ternary(id)
	if !ok {
		return
	}
	cond := c.res.TypeOf(data.Cond)
	if types.IsUnknown(cond) || cond.Kind == types.KindBool {
		return
	}
	c.reporter.Report(diag.CheckCondNotBool, diag.SevWarning, c.nodeSpan(data.Cond),
		fmt.Sprintf("condition is %s, not bool", types.Details(cond)), nil)
}

func (c *checker) checkVar(id ast.ExprID, expr *ast.Expr) {
	name, ok := c.res.Builder().Exprs.Name(id)
	if !ok {
		return
	}
	if v, found := c.res.Scope().Variable(name.Name); found && v.Deprecated {
		c.reporter.Report(diag.CheckDeprecated, diag.SevWarning, expr.Span,
			fmt.Sprintf("%s is deprecated", name.Name), nil)
	}
}

func (c *checker) pipeSource(callID ast.ExprID) ast.ExprID {
	expr := c.res.Builder().Exprs.Get(callID)
	if expr == nil {
		return ast.NoExprID
	}
	pipe, ok := c.res.Builder().Exprs.Pipe(expr.Parent)
	if !ok || pipe.Target != callID {
		return ast.NoExprID
	}
	return pipe.Source
}

func (c *checker) calleeName(callee ast.ExprID) string {
	if name, ok := c.res.Builder().Exprs.Name(callee); ok {
		return name.Name
	}
	if sel, ok := c.res.Builder().Exprs.Selector(callee); ok {
		if field, ok := c.res.Builder().Exprs.Name(sel.Field); ok {
			return field.Name
		}
	}
	return ""
}

func (c *checker) nodeSpan(id ast.ExprID) source.Span {
	if expr := c.res.Builder().Exprs.Get(id); expr != nil {
		return expr.Span
	}
	return source.Span{}
}
