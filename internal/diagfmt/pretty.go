// Package diagfmt renders diagnostics for humans and tools: a colored
// pretty printer with caret underlines, and a stable JSON form.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sift/internal/diag"
	"sift/internal/source"
)

// PrettyOpts configures the pretty printer.
type PrettyOpts struct {
	Color     bool
	Path      string // prepended to each location; empty for anonymous input
	ShowNotes bool
}

// Pretty writes every bag entry as
//
//	<path>:<line>:<col>: <severity> <code>: <message>
//
// followed by the source line with a caret underline. Call bag.Sort()
// first for positional order.
func Pretty(w io.Writer, bag *diag.Bag, text *source.Text, opts PrettyOpts) {
	if bag == nil {
		return
	}
	for _, d := range bag.Items() {
		writeDiagnostic(w, d, text, opts)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, text *source.Text, opts PrettyOpts) {
	pos := text.Resolve(d.Primary.Start)
	loc := fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	if opts.Path != "" {
		loc = opts.Path + ":" + loc
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		loc,
		severityLabel(d.Severity, opts.Color),
		codeLabel(d.Code, opts.Color),
		d.Message)
	writeUnderline(w, d.Primary, text, opts.Color)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			notePos := text.Resolve(note.Span.Start)
			fmt.Fprintf(w, "  note: %d:%d: %s\n", notePos.Line, notePos.Column, note.Msg)
		}
	}
}

// writeUnderline prints the offending line with ^~~~ under the span.
// Width math uses display columns so wide runes line up.
func writeUnderline(w io.Writer, span source.Span, text *source.Text, colored bool) {
	pos := text.Resolve(span.Start)
	line := text.Line(pos.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	prefixBytes := pos.Column - 1
	if prefixBytes > len(line) {
		prefixBytes = len(line)
	}
	pad := runewidth.StringWidth(line[:prefixBytes])

	spanLen := int(span.Len())
	if spanLen < 1 {
		spanLen = 1
	}
	end := prefixBytes + spanLen
	if end > len(line) {
		end = len(line)
	}
	markWidth := runewidth.StringWidth(line[prefixBytes:end])
	if markWidth < 1 {
		markWidth = 1
	}

	marker := "^" + strings.Repeat("~", markWidth-1)
	if colored {
		marker = color.New(color.FgHiRed, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), marker)
}

func severityLabel(sev diag.Severity, colored bool) string {
	label := sev.String()
	if !colored {
		return label
	}
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(label)
	default:
		return color.New(color.FgCyan).Sprint(label)
	}
}

func codeLabel(code diag.Code, colored bool) string {
	label := code.String()
	if !colored {
		return label
	}
	return color.New(color.Faint).Sprint(label)
}
