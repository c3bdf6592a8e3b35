package complete

import (
	"context"
	"strconv"
	"sync"
	"time"

	"tagcalc/internal/trace"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 3 * time.Second

// Result is the outcome of one tracked lookup.
type Result struct {
	Gen         uint64
	Query       string
	Suggestions []Suggestion
	// Err is a *LookupError when the source failed; Suggestions is then
	// empty.
	Err error
}

// Request is one in-flight lookup. Run performs it; it may be called from
// any goroutine.
type Request struct {
	Gen   uint64
	Query string

	ctx    context.Context
	cancel context.CancelFunc
	t      *Tracker
}

// Tracker issues lookups keyed by the current query. Beginning a new
// lookup cancels the previous one, and results of superseded lookups are
// rejected by Accept.
type Tracker struct {
	src     Source
	timeout time.Duration
	limit   int
	ids     *TagIDs

	mu      sync.Mutex
	gen     uint64
	current *Request
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithLimit overrides DefaultLimit.
func WithLimit(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.limit = n
		}
	}
}

// WithTagIDs shares an id generator for synthesized tag ids.
func WithTagIDs(ids *TagIDs) TrackerOption {
	return func(t *Tracker) {
		if ids != nil {
			t.ids = ids
		}
	}
}

// NewTracker creates a tracker over src.
func NewTracker(src Source, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		src:     src,
		timeout: DefaultTimeout,
		limit:   DefaultLimit,
		ids:     &TagIDs{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Begin supersedes any in-flight lookup with one for query. A blank query
// only cancels and returns nil.
func (t *Tracker) Begin(ctx context.Context, query string) *Request {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.cancel()
		t.current = nil
	}
	t.gen++
	if Blank(query) || t.src == nil {
		return nil
	}

	rctx, cancel := context.WithTimeout(ctx, t.timeout)
	req := &Request{
		Gen:    t.gen,
		Query:  query,
		ctx:    rctx,
		cancel: cancel,
		t:      t,
	}
	t.current = req
	return req
}

// Cancel abandons the in-flight lookup, if any.
func (t *Tracker) Cancel() {
	t.Begin(context.Background(), "")
}

// Current returns the generation of the latest Begin.
func (t *Tracker) Current() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// Accept reports whether res belongs to the latest lookup. Results of
// superseded lookups must be dropped by the caller.
func (t *Tracker) Accept(res Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if res.Gen != t.gen {
		return false
	}
	if t.current != nil && t.current.Gen == res.Gen {
		t.current.cancel()
		t.current = nil
	}
	return true
}

// Run performs the lookup and normalizes the result. It never returns raw
// source errors: failures become a *LookupError in Result.Err.
func (r *Request) Run() Result {
	defer r.cancel()

	span, ctx := trace.Start(r.ctx, trace.ScopeOp, "lookup")
	span.WithExtra("gen", strconv.FormatUint(r.Gen, 10))

	cands, err := r.t.src.Lookup(ctx, r.Query)
	if err != nil {
		lerr := wrapLookup(r.Query, err)
		span.Fail(lerr)
		return Result{Gen: r.Gen, Query: r.Query, Err: lerr}
	}
	sugg := Normalize(cands, r.t.limit, r.t.ids)
	span.WithExtra("suggestions", strconv.Itoa(len(sugg))).End("ok")
	return Result{Gen: r.Gen, Query: r.Query, Suggestions: sugg}
}

// Lookup is the synchronous form used by the CLI: Begin, Run, Accept.
func (t *Tracker) Lookup(ctx context.Context, query string) Result {
	req := t.Begin(ctx, query)
	if req == nil {
		return Result{Gen: t.Current(), Query: query}
	}
	res := req.Run()
	t.Accept(res)
	return res
}
