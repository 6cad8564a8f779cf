package diag

// Severity orders diagnostics from informational to fatal. Anything at
// SevError or above makes a snippet fail `sift check`.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String renders the uppercase label used in pretty and JSON output.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
