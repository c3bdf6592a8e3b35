package complete

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"tagcalc/internal/trace"
)

// Multi queries every source concurrently and concatenates the results in
// source order. A lookup fails only when every source fails.
type Multi []Source

// Lookup fans out to all sources.
func (m Multi) Lookup(ctx context.Context, query string) ([]Candidate, error) {
	if Blank(query) || len(m) == 0 {
		return nil, nil
	}

	results := make([][]Candidate, len(m))
	errs := make([]error, len(m))

	// ошибки не отменяют соседей: частичный результат лучше пустого
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range m {
		g.Go(func() error {
			cands, err := src.Lookup(gctx, query)
			results[i], errs[i] = cands, err
			return nil
		})
	}
	_ = g.Wait()

	var (
		merged []Candidate
		merr   *multierror.Error
		ok     int
	)
	for i := range m {
		if errs[i] != nil {
			merr = multierror.Append(merr, errs[i])
			continue
		}
		ok++
		merged = append(merged, results[i]...)
	}
	if ok == 0 {
		return nil, wrapLookup(query, merr.ErrorOrNil())
	}
	if merr != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeOp, "lookup.partial", merr.Error(), "query", query)
	}
	return merged, nil
}
