package complete

import (
	"context"
	"encoding/json"
	"strings"
)

// Candidate is a suggestion as returned by a source. Every field except
// Name is optional.
type Candidate struct {
	ID          string   `json:"id,omitempty" msgpack:"id,omitempty" toml:"id"`
	Name        string   `json:"name" msgpack:"name" toml:"name"`
	Value       *float64 `json:"value,omitempty" msgpack:"value,omitempty" toml:"value"`
	Kind        string   `json:"kind,omitempty" msgpack:"kind,omitempty" toml:"kind"`
	Description string   `json:"description,omitempty" msgpack:"description,omitempty" toml:"description"`
}

// UnmarshalJSON accepts "type" as an alias of "kind"; remote catalogs use
// either.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	type plain Candidate
	var aux struct {
		plain
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Candidate(aux.plain)
	if c.Kind == "" {
		c.Kind = aux.Type
	}
	return nil
}

// Source looks up candidates for a query.
type Source interface {
	Lookup(ctx context.Context, query string) ([]Candidate, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, query string) ([]Candidate, error)

// Lookup calls f.
func (f SourceFunc) Lookup(ctx context.Context, query string) ([]Candidate, error) {
	return f(ctx, query)
}

// Blank reports whether a query should not trigger a lookup at all.
func Blank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// Float returns a pointer to v, for literal candidates.
func Float(v float64) *float64 { return &v }
