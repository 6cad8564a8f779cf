package diagfmt

import (
	"encoding/json"
	"io"

	"sift/internal/diag"
	"sift/internal/source"
)

// JSONOpts configures the machine-readable output.
type JSONOpts struct {
	Path         string
	IncludeNotes bool
}

type jsonDiagnostic struct {
	Path     string     `json:"path,omitempty"`
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	Line     int        `json:"line"`
	Column   int        `json:"column"`
	Start    uint32     `json:"start"`
	End      uint32     `json:"end"`
	Notes    []jsonNote `json:"notes,omitempty"`
}

type jsonNote struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// JSON writes the bag as one JSON array. The output is stable given a
// sorted bag.
func JSON(w io.Writer, bag *diag.Bag, text *source.Text, opts JSONOpts) error {
	out := make([]jsonDiagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		pos := text.Resolve(d.Primary.Start)
		entry := jsonDiagnostic{
			Path:     opts.Path,
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
			Line:     pos.Line,
			Column:   pos.Column,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				notePos := text.Resolve(note.Span.Start)
				entry.Notes = append(entry.Notes, jsonNote{
					Message: note.Msg,
					Line:    notePos.Line,
					Column:  notePos.Column,
				})
			}
		}
		out = append(out, entry)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
