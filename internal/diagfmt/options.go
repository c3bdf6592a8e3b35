package diagfmt

import "tagcalc/internal/observ"

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// ShowToken adds a line naming the token the failure belongs to.
	ShowToken bool
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	Indent bool
	// Timings is embedded in the output when set.
	Timings *observ.Report
}
