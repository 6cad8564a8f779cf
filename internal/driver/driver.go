// Package driver assembles the analysis pipeline: lex, parse, resolve
// and lint one query, or a directory of query files in parallel.
package driver

import (
	"sift/internal/builtins"
	"sift/internal/diag"
	"sift/internal/infer"
	"sift/internal/lint"
	"sift/internal/parser"
	"sift/internal/source"
	"sift/internal/types"
)

// Options tunes one analysis run.
type Options struct {
	// Scope is layered over the built-in registry; zero value means
	// built-ins only.
	Scope types.Scope
	// MaxDiagnostics caps the bag; <=0 uses the bag default.
	MaxDiagnostics int
	// SkipLint stops after type resolution.
	SkipLint bool
}

// Result is one analyzed snapshot.
type Result struct {
	Text     *source.Text
	Resolver *infer.Resolver
	Bag      *diag.Bag
}

// Analyze runs the full pipeline over src.
func Analyze(src string, opts Options) *Result {
	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}

	text := source.NewText(src)
	builder := parser.Parse(src, reporter)

	scope := builtins.Scope()
	if opts.Scope.Variables != nil || opts.Scope.Types != nil {
		scope = scope.Merge(opts.Scope)
	}
	res := infer.New(builder, text, scope)

	if !opts.SkipLint {
		lint.Check(res, reporter)
	}
	bag.Sort()
	return &Result{Text: text, Resolver: res, Bag: bag}
}

// TypeAt resolves the innermost expression at offset; editors call this
// on every hover.
func (r *Result) TypeAt(offset uint32) *types.Definition {
	id := r.Resolver.Builder().At(offset)
	if !id.IsValid() {
		return types.Any
	}
	return r.Resolver.TypeOf(id)
}

// RootType is the type of the whole query: the last expression of the
// top-level block.
func (r *Result) RootType() *types.Definition {
	return r.Resolver.TypeOf(r.Resolver.Builder().Root)
}
