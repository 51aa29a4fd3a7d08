// Package score implements the snack scoring engine.
package score

import "sort"

// DefaultBaseValue is awarded for items missing from a catalog.
const DefaultBaseValue = 10

// Item is a catalog entry.
type Item struct {
	ID    string `yaml:"id"`
	Value int    `yaml:"value"`
}

// Catalog maps item identifiers to base point values. It is immutable once built.
type Catalog struct {
	values   map[string]int
	order    []string
	fallback int
}

var builtinItems = []Item{
	{ID: "🍟", Value: 10},
	{ID: "🍕", Value: 15},
	{ID: "🍰", Value: 20},
	{ID: "🍭", Value: 8},
	{ID: "🍪", Value: 12},
	{ID: "🍩", Value: 18},
	{ID: "🍫", Value: 14},
	{ID: "🍬", Value: 6},
	{ID: "🧁", Value: 25},
	{ID: "🥨", Value: 16},
	{ID: "🍯", Value: 22},
	{ID: "🧀", Value: 13},
	{ID: "🥞", Value: 11},
	{ID: "🍞", Value: 9},
	{ID: "🥖", Value: 7},
	{ID: "🥐", Value: 8},
}

// DefaultCatalog returns the built-in snack catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(builtinItems, DefaultBaseValue)
}

// NewCatalog builds a catalog. Later duplicates override earlier entries.
func NewCatalog(items []Item, fallback int) *Catalog {
	c := &Catalog{
		values:   make(map[string]int, len(items)),
		order:    make([]string, 0, len(items)),
		fallback: fallback,
	}
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, ok := c.values[it.ID]; !ok {
			c.order = append(c.order, it.ID)
		}
		c.values[it.ID] = it.Value
	}
	return c
}

// Value returns the base value for id, or the catalog default when id is unknown.
func (c *Catalog) Value(id string) int {
	if v, ok := c.values[id]; ok {
		return v
	}
	return c.fallback
}

// Known reports whether id is part of the catalog.
func (c *Catalog) Known(id string) bool {
	_, ok := c.values[id]
	return ok
}

// Default returns the fallback base value.
func (c *Catalog) Default() int {
	return c.fallback
}

// IDs returns item identifiers in insertion order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Items returns catalog entries sorted by value descending, then id.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Item{ID: id, Value: c.values[id]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value == out[j].Value {
			return out[i].ID < out[j].ID
		}
		return out[i].Value > out[j].Value
	})
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.order)
}
