package editor

import (
	"context"
	"strings"
	"unicode"

	"tagcalc/internal/complete"
	"tagcalc/internal/token"
)

// Feed types line into the editor without a UI: operator characters
// commit the pending text and insert themselves, and everything else
// accumulates. Pending text is resolved against the tracker's sources
// before it is committed: an exact (case-insensitive) name match becomes a
// tag token. Lookup failures fall back to a text token and are returned
// after the whole line has been fed.
func (e *Editor) Feed(ctx context.Context, line string) error {
	var lookupErr error
	flush := func() {
		if err := e.resolve(ctx); err != nil && lookupErr == nil {
			lookupErr = err
		}
	}
	for _, r := range line {
		if token.IsOperatorRune(r) {
			flush()
			e.Operator(string(r))
			continue
		}
		if unicode.IsSpace(r) && e.input == "" {
			continue
		}
		e.input += string(r)
	}
	flush()
	return lookupErr
}

// resolve commits the pending text, binding it to a tag when a source
// knows the name.
func (e *Editor) resolve(ctx context.Context) error {
	e.input = strings.TrimSpace(e.input)
	if e.input == "" || token.IsNumberLiteral(e.input) || e.tracker == nil {
		e.commit()
		return nil
	}
	res := e.tracker.Lookup(ctx, e.input)
	if res.Err != nil {
		e.commit()
		return res.Err
	}
	if s, ok := exactMatch(res.Suggestions, e.input); ok {
		e.store.InsertAtCursor(token.NewTag(s.Tag))
		e.clearInput()
		return nil
	}
	e.commit()
	return nil
}

func exactMatch(suggestions []complete.Suggestion, name string) (complete.Suggestion, bool) {
	for _, s := range suggestions {
		if strings.EqualFold(s.Tag.Name, name) {
			return s, true
		}
	}
	return complete.Suggestion{}, false
}
