// Package catalog holds the static commodity, process, and skill
// definitions the simulation runs against. Definitions are loaded once at
// startup and interned: every inventory line and market order references
// the same *Commodity, so identity comparisons are pointer comparisons.
package catalog

import (
	"fmt"
	"sort"
)

// Commodity is an immutable tradeable (or facility) good definition.
type Commodity struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Transportable bool   `yaml:"transportable"`
	Description   string `yaml:"description"`
}

func (c *Commodity) String() string {
	return c.Name
}

// CommodityRegistry interns commodity definitions by ID.
type CommodityRegistry struct {
	byID map[string]*Commodity
}

func NewCommodityRegistry() *CommodityRegistry {
	return &CommodityRegistry{byID: make(map[string]*Commodity)}
}

// Register adds a definition. Re-registering an ID is a configuration
// error since interned pointers may already be held elsewhere.
func (r *CommodityRegistry) Register(c *Commodity) error {
	if c.ID == "" {
		return fmt.Errorf("commodity has empty id")
	}
	if _, exists := r.byID[c.ID]; exists {
		return fmt.Errorf("duplicate commodity id %q", c.ID)
	}
	r.byID[c.ID] = c
	return nil
}

// Get returns the interned definition for an ID, or nil if unknown.
func (r *CommodityRegistry) Get(id string) *Commodity {
	return r.byID[id]
}

// MustGet is Get for IDs the caller knows are registered.
func (r *CommodityRegistry) MustGet(id string) *Commodity {
	c := r.byID[id]
	if c == nil {
		panic(fmt.Sprintf("catalog: unknown commodity id %q", id))
	}
	return c
}

// All returns every registered commodity, sorted by ID for stable
// iteration order.
func (r *CommodityRegistry) All() []*Commodity {
	out := make([]*Commodity, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *CommodityRegistry) Len() int {
	return len(r.byID)
}
