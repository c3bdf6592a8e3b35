// Package complete is the autocomplete boundary of the editor.
//
// A Source answers Lookup(ctx, query) with raw candidates. Sources compose:
// Multi fans out to several sources, Cached adds a stale-time cache with
// in-flight de-duplication, and Tracker turns lookups into cancellable
// requests where a newer query supersedes older ones and stale results are
// discarded. Normalize turns raw candidates into tags ready for insertion.
//
// Lookup failures never reach evaluation: callers degrade to an empty
// suggestion list.
package complete
