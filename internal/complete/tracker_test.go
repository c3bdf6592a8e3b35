package complete_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tagcalc/internal/complete"
	"tagcalc/internal/diag"
	"tagcalc/internal/token"
	"tagcalc/internal/trace"
)

func TestTrackerLookup(t *testing.T) {
	tr := complete.NewTracker(complete.DefaultCatalog())
	res := tr.Lookup(context.Background(), "rev")
	if res.Err != nil {
		t.Fatalf("Lookup: %v", res.Err)
	}
	if len(res.Suggestions) != 1 {
		t.Fatalf("suggestions = %+v", res.Suggestions)
	}
	want := token.Tag{ID: "rev1", Name: "Revenue", Value: 5000, Kind: token.TagVariable}
	if res.Suggestions[0].Tag != want {
		t.Fatalf("tag = %+v, want %+v", res.Suggestions[0].Tag, want)
	}
	if res.Gen != tr.Current() {
		t.Fatalf("synchronous lookup must be current")
	}
}

func TestTrackerBlankQuery(t *testing.T) {
	tr := complete.NewTracker(complete.DefaultCatalog())
	before := tr.Current()
	if req := tr.Begin(context.Background(), "  "); req != nil {
		t.Fatalf("blank query must not start a lookup")
	}
	if tr.Current() != before+1 {
		t.Fatalf("blank query must still supersede earlier lookups")
	}
	res := tr.Lookup(context.Background(), "")
	if res.Err != nil || len(res.Suggestions) != 0 {
		t.Fatalf("blank lookup = %+v", res)
	}
}

func TestTrackerSupersede(t *testing.T) {
	tr := complete.NewTracker(complete.DefaultCatalog())
	ctx := context.Background()

	first := tr.Begin(ctx, "rev")
	second := tr.Begin(ctx, "cost")

	stale := first.Run()
	if !errors.Is(stale.Err, context.Canceled) {
		t.Fatalf("superseded lookup must be cancelled, got %v", stale.Err)
	}
	if tr.Accept(stale) {
		t.Fatalf("superseded result accepted")
	}

	fresh := second.Run()
	if fresh.Err != nil || !tr.Accept(fresh) {
		t.Fatalf("latest result rejected: %+v", fresh)
	}
	if fresh.Suggestions[0].Tag.Name != "Cost" {
		t.Fatalf("unexpected suggestion: %+v", fresh.Suggestions)
	}
}

func TestTrackerDropsLateResults(t *testing.T) {
	// ignores cancellation, so the late result carries data
	src := complete.SourceFunc(func(_ context.Context, q string) ([]complete.Candidate, error) {
		return []complete.Candidate{{Name: q}}, nil
	})
	tr := complete.NewTracker(src)
	ctx := context.Background()

	req := tr.Begin(ctx, "re")
	tr.Begin(ctx, "rev")
	res := req.Run()
	if res.Err != nil || len(res.Suggestions) != 1 {
		t.Fatalf("Run = %+v", res)
	}
	if tr.Accept(res) {
		t.Fatalf("result for %q accepted after the query changed", res.Query)
	}

	tr.Cancel()
	if got := tr.Lookup(ctx, "rev"); !tr.Accept(got) {
		t.Fatalf("fresh lookup rejected after Cancel")
	}
}

func TestTrackerTimeout(t *testing.T) {
	src := complete.SourceFunc(func(ctx context.Context, _ string) ([]complete.Candidate, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	tr := complete.NewTracker(src, complete.WithTimeout(10*time.Millisecond))
	res := tr.Lookup(context.Background(), "rev")

	var le *complete.LookupError
	if !errors.As(res.Err, &le) {
		t.Fatalf("err = %v, want *LookupError", res.Err)
	}
	if !le.Timeout() || le.Code() != diag.CmpLookupTimeout {
		t.Fatalf("timeout not classified: %v (%s)", le, le.Code().ID())
	}
	if len(res.Suggestions) != 0 {
		t.Fatalf("failed lookup must not carry suggestions")
	}
}

func TestTrackerFailure(t *testing.T) {
	src := complete.SourceFunc(func(context.Context, string) ([]complete.Candidate, error) {
		return nil, errors.New("503")
	})
	ring := trace.NewRingTracer(16, trace.LevelOp)
	ctx := trace.WithTracer(context.Background(), ring)

	res := complete.NewTracker(src).Lookup(ctx, "rev")
	var le *complete.LookupError
	if !errors.As(res.Err, &le) || le.Code() != diag.CmpLookupFailed || le.Query != "rev" {
		t.Fatalf("err = %v", res.Err)
	}

	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "lookup" || events[1].Kind != trace.KindSpanEnd {
		t.Fatalf("expected a lookup span, got %+v", events)
	}
	if events[1].Detail != le.Error() {
		t.Fatalf("span end detail = %q", events[1].Detail)
	}
}

func TestTrackerOptions(t *testing.T) {
	src := complete.SourceFunc(func(context.Context, string) ([]complete.Candidate, error) {
		return []complete.Candidate{{Name: "a"}, {Name: "b"}, {Name: "c"}}, nil
	})
	ids := &complete.TagIDs{Prefix: "t"}
	tr := complete.NewTracker(src, complete.WithLimit(2), complete.WithTagIDs(ids))
	res := tr.Lookup(context.Background(), "x")
	if len(res.Suggestions) != 2 {
		t.Fatalf("limit ignored: %d", len(res.Suggestions))
	}
	if res.Suggestions[0].Tag.ID != "t1" || res.Suggestions[1].Tag.ID != "t2" {
		t.Fatalf("shared id generator ignored: %+v", res.Suggestions)
	}
}
