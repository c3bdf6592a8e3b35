package complete

import (
	"context"
	"errors"
	"fmt"

	"tagcalc/internal/diag"
)

// LookupError wraps a failed or timed out lookup.
type LookupError struct {
	Query string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %q: %v", e.Query, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Timeout reports whether the lookup ran out of time.
func (e *LookupError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Code classifies the failure.
func (e *LookupError) Code() diag.Code {
	if e.Timeout() {
		return diag.CmpLookupTimeout
	}
	return diag.CmpLookupFailed
}

func wrapLookup(query string, err error) error {
	if err == nil {
		return nil
	}
	var le *LookupError
	if errors.As(err, &le) {
		return err
	}
	return &LookupError{Query: query, Err: err}
}
