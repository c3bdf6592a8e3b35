package editor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tagcalc/internal/complete"
	"tagcalc/internal/editor"
	"tagcalc/internal/testkit"
	"tagcalc/internal/token"
	"tagcalc/internal/trace"
)

func newEditor(t *testing.T, opts ...editor.Option) *editor.Editor {
	t.Helper()
	return editor.New(complete.NewTracker(complete.DefaultCatalog()), opts...)
}

// typeText sets the input and completes its lookup synchronously.
func typeText(t *testing.T, e *editor.Editor, s string) {
	t.Helper()
	req := e.SetInput(s)
	if req == nil {
		return
	}
	if !e.ApplyResult(req.Run()) {
		t.Fatalf("lookup for %q was rejected", s)
	}
}

func literals(e *editor.Editor) string {
	var parts []string
	for _, tok := range e.Store().Tokens() {
		parts = append(parts, tok.Literal)
	}
	return strings.Join(parts, " ")
}

func check(t *testing.T, e *editor.Editor, want string) {
	t.Helper()
	if got := literals(e); got != want {
		t.Fatalf("tokens = %q, want %q", got, want)
	}
	if err := testkit.CheckSequenceInvariants(e.Store()); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestEnterInsertsSuggestion(t *testing.T) {
	e := newEditor(t)
	req := e.SetInput("rev")
	if req == nil || !e.Loading() {
		t.Fatalf("typing must start a lookup")
	}
	if !e.ApplyResult(req.Run()) {
		t.Fatalf("current lookup rejected")
	}
	if e.Loading() || len(e.Suggestions()) != 1 {
		t.Fatalf("suggestions = %+v", e.Suggestions())
	}

	e.Enter()
	check(t, e, "Revenue")
	tok, _ := e.Store().At(0)
	if tok.Kind != token.KindTag || tok.Tag.ID != "rev1" || tok.Tag.Value != 5000 {
		t.Fatalf("inserted token = %+v (%+v)", tok, tok.Tag)
	}
	if e.Input() != "" || len(e.Suggestions()) != 0 {
		t.Fatalf("accepting must clear input and suggestions")
	}
}

func TestEnterCommitsInput(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"42", token.KindNumber},
		{"3.25", token.KindNumber},
		{"1.", token.KindText},
		{"abc", token.KindText},
		{"-5", token.KindText},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := newEditor(t)
			typeText(t, e, tt.input)
			e.Enter()
			check(t, e, tt.input)
			if tok, _ := e.Store().At(0); tok.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", tok.Kind, tt.kind)
			}
		})
	}

	e := newEditor(t)
	typeText(t, e, "   ")
	e.Enter()
	check(t, e, "")
}

func TestOperatorCommitsPendingInput(t *testing.T) {
	e := newEditor(t)
	typeText(t, e, "5")
	if !e.Operator("+") {
		t.Fatalf("+ must be consumed")
	}
	e.Operator("(")
	typeText(t, e, "2")
	e.Operator(")")
	check(t, e, "5 + ( 2 )")

	if e.Operator("x") {
		t.Fatalf("x is not an operator")
	}
	for _, key := range []string{"-", "*", "/", "^", "="} {
		if !e.Operator(key) {
			t.Fatalf("%s must be an operator", key)
		}
	}
	check(t, e, "5 + ( 2 ) - * / ^ =")
}

func TestStaleLookupIsDropped(t *testing.T) {
	e := newEditor(t)
	first := e.SetInput("re")
	second := e.SetInput("rev")

	if e.ApplyResult(first.Run()) {
		t.Fatalf("superseded lookup applied")
	}
	if len(e.Suggestions()) != 0 {
		t.Fatalf("stale suggestions leaked: %+v", e.Suggestions())
	}
	if !e.ApplyResult(second.Run()) || len(e.Suggestions()) != 1 {
		t.Fatalf("current lookup not applied")
	}

	// committing cancels whatever is still in flight
	third := e.SetInput("cost")
	e.Enter()
	if e.ApplyResult(third.Run()) {
		t.Fatalf("lookup applied after its input was committed")
	}
}

func TestSuggestionNavigation(t *testing.T) {
	e := newEditor(t)
	if e.Up() || e.Down() || e.Tab() {
		t.Fatalf("navigation without suggestions must not be consumed")
	}

	typeText(t, e, "e")
	var names []string
	for _, s := range e.Suggestions() {
		names = append(names, s.Tag.Name)
	}
	if strings.Join(names, ",") != "Revenue,Growth Rate,AVERAGE" {
		t.Fatalf("suggestions = %v", names)
	}

	e.Up()
	if e.Selected() != 2 {
		t.Fatalf("Up from the top must wrap, selected = %d", e.Selected())
	}
	e.Down()
	if e.Selected() != 0 {
		t.Fatalf("Down from the bottom must wrap, selected = %d", e.Selected())
	}
	e.Down()
	if !e.Tab() {
		t.Fatalf("Tab must accept")
	}
	check(t, e, "Growth Rate")

	typeText(t, e, "e")
	if e.Selected() != 0 {
		t.Fatalf("typing must reset the selection")
	}
	if !e.Choose(2) {
		t.Fatalf("Choose rejected")
	}
	check(t, e, "Growth Rate AVERAGE")
	if e.Choose(0) {
		t.Fatalf("Choose without suggestions must fail")
	}
}

func TestBackspaceAndCursorKeys(t *testing.T) {
	e := newEditor(t)
	if !e.Backspace() {
		t.Fatalf("Backspace on an empty editor must still be consumed")
	}

	typeText(t, e, "1")
	e.Operator("+")
	typeText(t, e, "2")
	if e.Backspace() || e.Left() || e.Right() {
		t.Fatalf("keys must fall through to the text input while typing")
	}
	e.Enter()
	check(t, e, "1 + 2")

	e.Left()
	e.Left()
	if e.Store().Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", e.Store().Cursor())
	}
	e.Backspace()
	check(t, e, "+ 2")
	if e.Store().Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", e.Store().Cursor())
	}
	e.Backspace()
	check(t, e, "+ 2")

	e.Right()
	e.Right()
	e.Right()
	if e.Store().Cursor() != 2 {
		t.Fatalf("cursor must stop at the end, got %d", e.Store().Cursor())
	}

	e.SetCursor(1)
	typeText(t, e, "3")
	e.Operator("*")
	check(t, e, "+ 3 * 2")
}

func TestRemoveAndRenameTag(t *testing.T) {
	e := newEditor(t)
	typeText(t, e, "profit")
	e.Enter()
	e.Operator("/")
	typeText(t, e, "2")
	e.Enter()

	tag, _ := e.Store().At(0)
	op, _ := e.Store().At(1)
	if e.RemoveTag(op.ID) {
		t.Fatalf("RemoveTag must only remove tags")
	}
	if e.RenameTag(op.ID, "x") || e.RenameTag(tag.ID, "  ") {
		t.Fatalf("RenameTag must only rename tags to non-empty names")
	}
	if !e.RenameTag(tag.ID, "Net Profit") {
		t.Fatalf("RenameTag failed")
	}
	check(t, e, "Net Profit / 2")
	renamed, _ := e.Store().Get(tag.ID)
	if renamed.Tag.Value != 2000 || renamed.Tag.ID != "profit1" {
		t.Fatalf("rename must keep the binding: %+v", renamed.Tag)
	}

	if !e.RemoveTag(tag.ID) || e.RemoveTag(tag.ID) {
		t.Fatalf("RemoveTag must succeed once")
	}
	check(t, e, "/ 2")
	if e.Store().Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", e.Store().Cursor())
	}
}

func TestCalculate(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelOp)
	e := newEditor(t, editor.WithTracer(ring))
	typeText(t, e, "rev")
	e.Enter()
	e.Operator("-")
	typeText(t, e, "cost")
	e.Enter()

	v, err := e.Calculate()
	if err != nil || v != 2000 {
		t.Fatalf("Calculate = %v, %v", v, err)
	}
	if got, ok := e.Result(); !ok || got != 2000 || e.Error() != "" {
		t.Fatalf("result = %v %v, error = %q", got, ok, e.Error())
	}

	e.Operator("+")
	if _, err := e.Calculate(); err == nil {
		t.Fatalf("dangling operator must fail")
	}
	if e.Error() != editor.CalcErrorMessage {
		t.Fatalf("error = %q", e.Error())
	}
	if got, ok := e.Result(); !ok || got != 2000 {
		t.Fatalf("failure must keep the previous result, got %v %v", got, ok)
	}
	fe := e.FormulaError()
	if fe == nil || fe.Token != 3 {
		t.Fatalf("formula error = %+v", fe)
	}

	e.Left()
	if e.Error() != "" {
		t.Fatalf("any key must clear the error")
	}

	var evals int
	for _, ev := range ring.Snapshot() {
		if ev.Name == "evaluate" && ev.Kind == trace.KindSpanEnd {
			evals++
		}
	}
	if evals != 2 {
		t.Fatalf("expected two evaluate spans, got %d", evals)
	}

	e.Clear()
	check(t, e, "")
	if v, err := e.Calculate(); err != nil || v != 0 {
		t.Fatalf("empty formula = %v, %v", v, err)
	}
}

func TestLookupFailureDegrades(t *testing.T) {
	src := complete.SourceFunc(func(context.Context, string) ([]complete.Candidate, error) {
		return nil, errors.New("unreachable")
	})
	e := editor.New(complete.NewTracker(src))
	typeText(t, e, "rev")

	var le *complete.LookupError
	if !errors.As(e.LookupError(), &le) {
		t.Fatalf("lookup error = %v", e.LookupError())
	}
	if len(e.Suggestions()) != 0 || e.Error() != "" {
		t.Fatalf("failed lookups must only hide suggestions")
	}
	e.Enter()
	check(t, e, "rev")
}

func TestWithoutTracker(t *testing.T) {
	e := editor.New(nil)
	if req := e.SetInput("rev"); req != nil {
		t.Fatalf("no tracker, no lookup")
	}
	e.Enter()
	check(t, e, "rev")
}
