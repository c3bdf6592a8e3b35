package diag

import "fmt"

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool { return s.End <= s.Start }

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	Token    int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s at %s: %s", d.Severity, d.Code.ID(), d.Span, d.Message)
}
