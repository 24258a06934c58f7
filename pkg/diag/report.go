package diag

import (
	"strings"
)

// NoFaults is the whole report when no rule fired.
const NoFaults = "No faults"

// TextSource resolves a fault id to its explanation text.
type TextSource interface {
	Text(id string) (string, error)
}

// Render builds the text report, one block per fault separated by a blank
// line, in the order the faults were found.
func Render(r *Result, src TextSource) (string, error) {
	if len(r.Faults) == 0 {
		return NoFaults, nil
	}
	blocks := make([]string, 0, len(r.Faults))
	for _, f := range r.Faults {
		txt, err := src.Text(string(f))
		if err != nil {
			return "", &ReportError{Kind: MissingFaultText, Fault: f, Err: err}
		}
		blocks = append(blocks, strings.TrimRight(txt, " \t\r\n"))
	}
	return strings.Join(blocks, "\n\n"), nil
}
