package complete

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Catalog is an in-memory source matching names by case-insensitive
// substring.
type Catalog struct {
	mu      sync.RWMutex
	entries []Candidate
}

// NewCatalog creates a catalog holding entries in order.
func NewCatalog(entries ...Candidate) *Catalog {
	c := &Catalog{}
	c.Replace(entries)
	return c
}

// DefaultCatalog returns the built-in sample tags.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Candidate{ID: "rev1", Name: "Revenue", Value: Float(5000), Kind: "variable"},
		Candidate{ID: "cost1", Name: "Cost", Value: Float(3000), Kind: "variable"},
		Candidate{ID: "profit1", Name: "Profit", Value: Float(2000), Kind: "variable"},
		Candidate{ID: "growth1", Name: "Growth Rate", Value: Float(0.15), Kind: "variable"},
		Candidate{ID: "sum1", Name: "SUM", Value: Float(0), Kind: "function"},
		Candidate{ID: "avg1", Name: "AVERAGE", Value: Float(0), Kind: "function"},
	)
}

// Replace swaps the catalog contents.
func (c *Catalog) Replace(entries []Candidate) {
	cp := make([]Candidate, len(entries))
	copy(cp, entries)
	c.mu.Lock()
	c.entries = cp
	c.mu.Unlock()
}

// Entries returns a copy of the catalog.
func (c *Catalog) Entries() []Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := make([]Candidate, len(c.entries))
	copy(cp, c.entries)
	return cp
}

// Lookup returns the entries whose name contains query.
func (c *Catalog) Lookup(ctx context.Context, query string) ([]Candidate, error) {
	if Blank(query) {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Caser хранит состояние, поэтому новый на каждый вызов
	fold := cases.Fold()
	needle := fold.String(norm.NFC.String(query))

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Candidate
	for _, e := range c.entries {
		if strings.Contains(fold.String(norm.NFC.String(e.Name)), needle) {
			out = append(out, e)
		}
	}
	return out, nil
}
