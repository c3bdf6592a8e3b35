// Package editor implements the keyboard behaviour of the formula input on
// top of a token store, an autocomplete tracker and the evaluator.
//
// An Editor is driven by a single goroutine (the UI loop). Lookups started
// by SetInput run elsewhere and come back through ApplyResult.
package editor

import (
	"context"
	"errors"
	"strings"

	"tagcalc/internal/complete"
	"tagcalc/internal/eval"
	"tagcalc/internal/observ"
	"tagcalc/internal/store"
	"tagcalc/internal/token"
	"tagcalc/internal/trace"
)

// CalcErrorMessage is shown when a formula cannot be evaluated.
const CalcErrorMessage = "Error calculating formula. Please check your syntax."

// Editor is the state behind the formula input.
type Editor struct {
	ctx     context.Context
	store   *store.Store
	tracker *complete.Tracker
	tracer  trace.Tracer
	timer   *observ.Timer

	input       string
	suggestions []complete.Suggestion
	selected    int
	loading     bool

	result    *float64
	errMsg    string
	formErr   *eval.FormulaError
	lookupErr error
}

// Option configures an Editor.
type Option func(*Editor)

// WithStore uses s instead of a fresh store.
func WithStore(s *store.Store) Option {
	return func(e *Editor) {
		if s != nil {
			e.store = s
		}
	}
}

// WithTracer routes evaluation and lookup events to t.
func WithTracer(t trace.Tracer) Option {
	return func(e *Editor) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithContext sets the parent context of lookups.
func WithContext(ctx context.Context) Option {
	return func(e *Editor) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// WithTimer records evaluation phases into t.
func WithTimer(t *observ.Timer) Option {
	return func(e *Editor) { e.timer = t }
}

// New creates an editor. tracker may be nil, which disables suggestions.
func New(tracker *complete.Tracker, opts ...Option) *Editor {
	e := &Editor{
		ctx:     context.Background(),
		tracker: tracker,
		tracer:  trace.Nop,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = store.New(store.WithTracer(e.tracer))
	}
	e.ctx = trace.WithTracer(e.ctx, e.tracer)
	return e
}

// Store exposes the token sequence for rendering.
func (e *Editor) Store() *store.Store { return e.store }

// Input is the pending, uncommitted text.
func (e *Editor) Input() string { return e.input }

// Suggestions returns the suggestions to display; empty when the list is
// hidden.
func (e *Editor) Suggestions() []complete.Suggestion {
	if e.input == "" {
		return nil
	}
	return e.suggestions
}

// Selected is the highlighted suggestion index.
func (e *Editor) Selected() int { return e.selected }

// Loading reports whether a lookup for the current input is in flight.
func (e *Editor) Loading() bool { return e.loading && e.input != "" }

// Result returns the last successful evaluation.
func (e *Editor) Result() (float64, bool) {
	if e.result == nil {
		return 0, false
	}
	return *e.result, true
}

// Error is the message currently shown to the user, if any.
func (e *Editor) Error() string { return e.errMsg }

// FormulaError is the failure behind the last unsuccessful Calculate; nil
// after a success.
func (e *Editor) FormulaError() *eval.FormulaError { return e.formErr }

// LookupError is the failure of the last accepted lookup, if any.
func (e *Editor) LookupError() error { return e.lookupErr }

// SetInput replaces the pending text. A non-empty input starts a lookup;
// the returned request (nil when nothing was started) must be run and its
// result handed to ApplyResult.
func (e *Editor) SetInput(s string) *complete.Request {
	e.input = s
	e.selected = 0
	e.errMsg = ""
	e.suggestions = nil
	e.loading = false
	if e.tracker == nil {
		return nil
	}
	req := e.tracker.Begin(e.ctx, s)
	e.loading = req != nil
	return req
}

// ApplyResult installs the suggestions of a finished lookup. Results of
// superseded lookups are dropped and false is returned.
func (e *Editor) ApplyResult(res complete.Result) bool {
	if e.tracker == nil || !e.tracker.Accept(res) {
		return false
	}
	e.loading = false
	e.lookupErr = res.Err
	if res.Err != nil {
		e.suggestions = nil
		trace.Point(e.tracer, trace.ScopeOp, "suggestions.failed", res.Err.Error(), "query", res.Query)
		return true
	}
	e.suggestions = res.Suggestions
	if e.selected >= len(e.suggestions) {
		e.selected = 0
	}
	return true
}

func (e *Editor) suggesting() bool {
	return e.input != "" && len(e.suggestions) > 0
}

// Enter inserts the selected suggestion, or else commits the pending text
// as a number or text token.
func (e *Editor) Enter() {
	e.errMsg = ""
	if e.suggesting() {
		e.accept()
		return
	}
	e.commit()
}

// Tab inserts the selected suggestion. It reports whether the key was
// consumed.
func (e *Editor) Tab() bool {
	e.errMsg = ""
	if !e.suggesting() {
		return false
	}
	e.accept()
	return true
}

// Operator commits pending text and then inserts key as an operator. It
// returns false for keys that are not operators.
func (e *Editor) Operator(key string) bool {
	if !token.IsOperatorKey(key) {
		return false
	}
	e.errMsg = ""
	e.commit()
	e.store.InsertAtCursor(token.NewOperator(key))
	return true
}

// Backspace removes the token before the cursor when there is no pending
// text. It reports whether the key was consumed.
func (e *Editor) Backspace() bool {
	e.errMsg = ""
	if e.input != "" {
		return false
	}
	if c := e.store.Cursor(); c > 0 {
		e.store.RemoveAt(c - 1)
	}
	return true
}

// Left moves the cursor when there is no pending text.
func (e *Editor) Left() bool {
	e.errMsg = ""
	if e.input != "" {
		return false
	}
	e.store.MoveCursorLeft()
	return true
}

// Right moves the cursor when there is no pending text.
func (e *Editor) Right() bool {
	e.errMsg = ""
	if e.input != "" {
		return false
	}
	e.store.MoveCursorRight()
	return true
}

// Up selects the previous suggestion, wrapping around.
func (e *Editor) Up() bool {
	e.errMsg = ""
	if !e.suggesting() {
		return false
	}
	if e.selected > 0 {
		e.selected--
	} else {
		e.selected = len(e.suggestions) - 1
	}
	return true
}

// Down selects the next suggestion, wrapping around.
func (e *Editor) Down() bool {
	e.errMsg = ""
	if !e.suggesting() {
		return false
	}
	if e.selected < len(e.suggestions)-1 {
		e.selected++
	} else {
		e.selected = 0
	}
	return true
}

// Choose inserts suggestion i, as a click on the list would.
func (e *Editor) Choose(i int) bool {
	if !e.suggesting() || i < 0 || i >= len(e.suggestions) {
		return false
	}
	e.selected = i
	e.accept()
	return true
}

// SetCursor moves the cursor to index (clamped).
func (e *Editor) SetCursor(index int) {
	e.store.SetCursor(index)
}

// RemoveTag removes the tag token with the given id.
func (e *Editor) RemoveTag(id string) bool {
	tok, ok := e.store.Get(id)
	if !ok || tok.Kind != token.KindTag {
		return false
	}
	return e.store.RemoveByID(id)
}

// RenameTag changes the displayed name of a tag token. Its bound value is
// kept.
func (e *Editor) RenameTag(id, name string) bool {
	name = strings.TrimSpace(name)
	tok, ok := e.store.Get(id)
	if !ok || tok.Kind != token.KindTag || name == "" {
		return false
	}
	return e.store.UpdateLiteral(id, name)
}

// Calculate evaluates the sequence. On failure the previous result is
// kept and the error message is set.
func (e *Editor) Calculate() (float64, error) {
	v, err := eval.EvaluateWith(e.store.Tokens(), eval.Options{Timer: e.timer, Tracer: e.tracer})
	if err != nil {
		e.errMsg = CalcErrorMessage
		e.formErr = nil
		var fe *eval.FormulaError
		if errors.As(err, &fe) {
			e.formErr = fe
		}
		return 0, err
	}
	e.result = &v
	e.errMsg = ""
	e.formErr = nil
	return v, nil
}

// Clear empties the sequence and pending text; the last result stays.
func (e *Editor) Clear() {
	e.store.Reset()
	e.clearInput()
	e.errMsg = ""
}

func (e *Editor) accept() {
	s := e.suggestions[e.selected]
	e.store.InsertAtCursor(token.NewTag(s.Tag))
	e.clearInput()
}

func (e *Editor) commit() {
	if strings.TrimSpace(e.input) == "" {
		return
	}
	e.store.InsertAtCursor(token.Classify(e.input))
	e.clearInput()
}

func (e *Editor) clearInput() {
	e.input = ""
	e.suggestions = nil
	e.selected = 0
	e.loading = false
	if e.tracker != nil {
		e.tracker.Cancel()
	}
}
