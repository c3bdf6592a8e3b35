package diag

// Severity ranks a formula diagnostic. The evaluator only reports
// SevError.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError means the formula has no value.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

// String returns the upper-case label shown by the pretty and JSON
// renderers.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}
