package complete

import (
	"strconv"
	"strings"
	"sync/atomic"

	"tagcalc/internal/token"
)

const (
	// DefaultLimit bounds the number of suggestions shown.
	DefaultLimit = 10
	// FallbackValue is bound to candidates that arrive without a value.
	FallbackValue = 0.0
)

// Suggestion is a normalized candidate ready for insertion.
type Suggestion struct {
	Tag         token.Tag
	Description string
}

// TagIDs synthesizes ids for candidates that lack one. Safe for concurrent
// use.
type TagIDs struct {
	Prefix string
	n      atomic.Uint64
}

// NextID returns the next synthesized id.
func (g *TagIDs) NextID() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "tag-"
	}
	return prefix + strconv.FormatUint(g.n.Add(1), 10)
}

// Normalize de-duplicates candidates by name (first occurrence wins),
// truncates to limit, and fills in missing ids, values and kinds.
// Candidates with a blank name are dropped. limit <= 0 means DefaultLimit.
func Normalize(cands []Candidate, limit int, ids *TagIDs) []Suggestion {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if ids == nil {
		ids = &TagIDs{}
	}
	out := make([]Suggestion, 0, min(len(cands), limit))
	seen := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		if len(out) == limit {
			break
		}
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}

		tag := token.Tag{
			ID:    c.ID,
			Name:  c.Name,
			Value: FallbackValue,
			Kind:  token.TagKindOf(c.Kind),
		}
		if tag.ID == "" {
			tag.ID = ids.NextID()
		}
		if c.Value != nil {
			tag.Value = *c.Value
		}
		out = append(out, Suggestion{Tag: tag, Description: c.Description})
	}
	return out
}
