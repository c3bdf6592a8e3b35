package store_test

import (
	"testing"

	"tagcalc/internal/store"
	"tagcalc/internal/testkit"
	"tagcalc/internal/token"
	"tagcalc/internal/trace"
)

// build inserts literals as number tokens and returns the store.
func build(t *testing.T, lits ...string) *store.Store {
	t.Helper()
	s := store.New()
	for _, lit := range lits {
		s.InsertAtCursor(token.NewNumber(lit))
	}
	return s
}

func literals(s *store.Store) []string {
	toks := s.Tokens()
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Literal
	}
	return out
}

func assertLiterals(t *testing.T, s *store.Store, want ...string) {
	t.Helper()
	got := literals(s)
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("tokens = %v, want %v", got, want)
		}
	}
}

func assertInvariants(t *testing.T, s *store.Store) {
	t.Helper()
	if err := testkit.CheckSequenceInvariants(s); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestInsertAtEveryIndex(t *testing.T) {
	for i := 0; i <= 3; i++ {
		s := build(t, "a", "b", "c")
		tok := s.Insert(token.NewText("x"), i)
		if s.Len() != 4 {
			t.Fatalf("len = %d, want 4", s.Len())
		}
		got, _ := s.At(i)
		if got.ID != tok.ID || got.Literal != "x" {
			t.Fatalf("insert at %d: token at %d = %+v", i, i, got)
		}
		if s.Cursor() != i+1 {
			t.Fatalf("insert at %d: cursor = %d, want %d", i, s.Cursor(), i+1)
		}
		assertInvariants(t, s)
	}
}

func TestInsertClampsIndex(t *testing.T) {
	s := build(t, "a", "b")
	s.Insert(token.NewText("end"), 99)
	assertLiterals(t, s, "a", "b", "end")
	if s.Cursor() != 3 {
		t.Fatalf("cursor = %d, want 3", s.Cursor())
	}
	s.Insert(token.NewText("start"), -5)
	assertLiterals(t, s, "start", "a", "b", "end")
	if s.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", s.Cursor())
	}
}

func TestInsertAssignsFreshIDs(t *testing.T) {
	s := store.New()
	tok := token.NewText("x")
	tok.ID = "caller-id"
	a := s.InsertAtCursor(tok)
	b := s.InsertAtCursor(tok)
	if a.ID == "caller-id" || a.ID == b.ID {
		t.Fatalf("ids must be store assigned and unique: %q %q", a.ID, b.ID)
	}
	s.RemoveByID(a.ID)
	c := s.InsertAtCursor(tok)
	if c.ID == a.ID {
		t.Fatalf("id %q reused after removal", a.ID)
	}
	assertInvariants(t, s)
}

func TestRemoveByIDAdjustsCursor(t *testing.T) {
	s := build(t, "a", "b", "c")
	s.SetCursor(2)
	first, _ := s.At(0)
	if !s.RemoveByID(first.ID) {
		t.Fatalf("RemoveByID returned false for present id")
	}
	assertLiterals(t, s, "b", "c")
	if s.Cursor() != 1 {
		t.Fatalf("remove before cursor: cursor = %d, want 1", s.Cursor())
	}

	// at the cursor: unchanged
	atCursor, _ := s.At(1)
	s.RemoveByID(atCursor.ID)
	if s.Cursor() != 1 {
		t.Fatalf("remove at cursor: cursor = %d, want 1", s.Cursor())
	}
	assertInvariants(t, s)
}

func TestRemoveByIDIsIdempotent(t *testing.T) {
	s := build(t, "a", "b", "c")
	s.SetCursor(2)
	mid, _ := s.At(1)
	s.RemoveByID(mid.ID)
	before := literals(s)
	cursor := s.Cursor()

	for range 2 {
		if s.RemoveByID(mid.ID) {
			t.Fatalf("second removal must be a no-op")
		}
		if s.RemoveByID("missing") {
			t.Fatalf("unknown id must be a no-op")
		}
	}
	assertLiterals(t, s, before...)
	if s.Cursor() != cursor {
		t.Fatalf("cursor moved on no-op removal: %d -> %d", cursor, s.Cursor())
	}
}

func TestRemoveAt(t *testing.T) {
	cases := []struct {
		name       string
		cursor     int
		index      int
		want       []string
		wantCursor int
	}{
		{"before cursor", 3, 0, []string{"b", "c"}, 2},
		{"just before cursor", 2, 1, []string{"a", "c"}, 1},
		{"at cursor", 1, 1, []string{"a", "c"}, 1},
		{"after cursor", 0, 2, []string{"a", "b"}, 0},
		{"last with cursor at end", 3, 2, []string{"a", "b"}, 2},
		{"negative", 2, -1, []string{"a", "b", "c"}, 2},
		{"past end", 2, 3, []string{"a", "b", "c"}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := build(t, "a", "b", "c")
			s.SetCursor(tc.cursor)
			s.RemoveAt(tc.index)
			assertLiterals(t, s, tc.want...)
			if s.Cursor() != tc.wantCursor {
				t.Fatalf("cursor = %d, want %d", s.Cursor(), tc.wantCursor)
			}
			assertInvariants(t, s)
		})
	}
}

func TestUpdateLiteral(t *testing.T) {
	s := store.New()
	num := s.InsertAtCursor(token.NewNumber("1"))
	tag := s.InsertAtCursor(token.NewTag(token.Tag{ID: "c", Name: "Cost", Value: 3000}))

	if !s.UpdateLiteral(num.ID, "12") {
		t.Fatalf("UpdateLiteral returned false")
	}
	got, _ := s.Get(num.ID)
	if got.Literal != "12" || got.Kind != token.KindNumber {
		t.Fatalf("unexpected token after update: %+v", got)
	}

	s.UpdateLiteral(tag.ID, "Spend")
	got, _ = s.Get(tag.ID)
	if got.Literal != "Spend" || got.Tag.Name != "Spend" {
		t.Fatalf("tag literal and name must stay in sync: %+v %+v", got, got.Tag)
	}
	if got.Tag.Value != 3000 || got.Tag.ID != "c" {
		t.Fatalf("tag binding must survive the rename: %+v", got.Tag)
	}
	if tag.Tag.Name != "Cost" {
		t.Fatalf("previously returned tag must not be mutated")
	}

	if s.UpdateLiteral("missing", "x") {
		t.Fatalf("unknown id must be a no-op")
	}
	if s.Cursor() != 2 {
		t.Fatalf("update must not move the cursor")
	}
	assertInvariants(t, s)
}

func TestCursorMovement(t *testing.T) {
	s := build(t, "a", "b", "c")

	s.SetCursor(-3)
	if s.Cursor() != 0 {
		t.Fatalf("SetCursor must clamp low: %d", s.Cursor())
	}
	s.SetCursor(42)
	if s.Cursor() != 3 {
		t.Fatalf("SetCursor must clamp high: %d", s.Cursor())
	}

	s.MoveCursorRight()
	if s.Cursor() != 3 {
		t.Fatalf("right at end must be a no-op: %d", s.Cursor())
	}

	for i := 1; i < 3; i++ {
		s.SetCursor(i)
		s.MoveCursorLeft()
		s.MoveCursorRight()
		if s.Cursor() != i {
			t.Fatalf("left then right from %d yields %d", i, s.Cursor())
		}
	}

	s.SetCursor(0)
	s.MoveCursorLeft()
	s.MoveCursorRight()
	if s.Cursor() != 1 {
		t.Fatalf("left then right from 0 yields %d, want 1", s.Cursor())
	}
}

func TestBeforeAfterSplitAtCursor(t *testing.T) {
	s := build(t, "a", "b", "c")
	s.SetCursor(1)
	if b, a := s.Before(), s.After(); len(b) != 1 || len(a) != 2 || b[0].Literal != "a" || a[0].Literal != "b" {
		t.Fatalf("unexpected split: %v | %v", b, a)
	}
	toks := s.Tokens()
	toks[0].Literal = "mutated"
	assertLiterals(t, s, "a", "b", "c")
}

func TestReadsDoNotShareTags(t *testing.T) {
	s := store.New()
	src := token.NewTag(token.Tag{ID: "rev1", Name: "Revenue", Value: 5000})
	ins := s.InsertAtCursor(src)
	src.Tag.Value = 1
	ins.Tag.Value = 2

	got, _ := s.Get(ins.ID)
	got.Tag.Name = "Loss"
	at, _ := s.At(0)
	at.Tag.Value = 3
	s.Tokens()[0].Tag.Value = 4
	s.Before()[0].Tag.Value = 5

	stored, _ := s.At(0)
	if stored.Tag.Name != "Revenue" || stored.Tag.Value != 5000 {
		t.Fatalf("stored tag changed through a returned token: %+v", stored.Tag)
	}
	assertInvariants(t, s)
}

func TestResetKeepsIDsConsumed(t *testing.T) {
	s := build(t, "a")
	first, _ := s.At(0)
	s.Reset()
	if s.Len() != 0 || s.Cursor() != 0 {
		t.Fatalf("reset must empty the store")
	}
	next := s.InsertAtCursor(token.NewText("b"))
	if next.ID == first.ID {
		t.Fatalf("id %q reused after reset", next.ID)
	}
}

type fixedIDs struct{ n int }

func (f *fixedIDs) NextID() string {
	f.n++
	return "id" + string(rune('0'+f.n))
}

func TestOptions(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelDetail)
	s := store.New(store.WithIDs(&fixedIDs{}), store.WithTracer(ring))
	tok := s.InsertAtCursor(token.NewOperator("+"))
	if tok.ID != "id1" {
		t.Fatalf("custom generator ignored: %q", tok.ID)
	}
	s.RemoveAt(0)
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "insert" || events[1].Name != "remove" {
		t.Fatalf("unexpected trace events: %+v", events)
	}
}
