// Package trace provides the tracing subsystem used as tagcalc's log.
//
// Store mutations, evaluations and autocomplete lookups emit events through
// a Tracer carried by the editor session or the request context.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	tagcalc edit --trace=session.ndjson --trace-level=detail
//
// # Architecture
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped when the editor exits abnormally
//   - MultiTracer: combines multiple tracers
//
// # Levels and scopes
//
//   - LevelOff: no tracing
//   - LevelError: only explicit dumps
//   - LevelOp: session and operation boundaries (evaluate, lookup)
//   - LevelDetail: everything, including every store mutation
//
// Events are tagged ScopeSession, ScopeOp or ScopeDetail.
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//
//	span, ctx := trace.Start(ctx, trace.ScopeOp, "lookup")
//	cands, err := src.Lookup(ctx, query) // nested spans name "lookup" as parent
//	span.Fail(err)
package trace
