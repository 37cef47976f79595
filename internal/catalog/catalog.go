// Package catalog holds the static table of byte signatures searched for in
// save files.
package catalog

import (
	"fmt"
	"slices"
)

// Category groups patterns by the game-state concept they indicate.
type Category string

const (
	CategoryQuest        Category = "quest"
	CategoryCharacter    Category = "character"
	CategoryPolitical    Category = "political"
	CategoryMoral        Category = "moral"
	CategorySaveMetadata Category = "save_metadata"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryQuest,
	CategoryCharacter,
	CategoryPolitical,
	CategoryMoral,
	CategorySaveMetadata,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if slices.Contains(Categories, c) {
		return c, nil
	}
	return "", fmt.Errorf("unknown pattern category %q", s)
}

// Pattern is a named byte signature believed to indicate a game-state concept.
// Confidence values are authorial estimates in [0,1], not learned.
type Pattern struct {
	Name        string
	Bytes       []byte
	Category    Category
	Titles      []string
	Confidence  float64
	Description string
}

// AppliesTo reports whether the pattern is known to occur in title.
func (p Pattern) AppliesTo(title string) bool {
	return slices.Contains(p.Titles, title)
}

// Catalog is an immutable, ordered list of patterns. The zero value is empty.
type Catalog struct {
	patterns []Pattern
	index    map[string]int
}

// New builds a catalog from patterns, preserving their order. Pattern names
// must be unique and non-empty, and byte sequences non-empty.
func New(patterns ...Pattern) (*Catalog, error) {
	c := &Catalog{
		patterns: make([]Pattern, 0, len(patterns)),
		index:    make(map[string]int, len(patterns)),
	}
	for _, p := range patterns {
		if p.Name == "" {
			return nil, fmt.Errorf("pattern name is empty")
		}
		if len(p.Bytes) == 0 {
			return nil, fmt.Errorf("pattern %q has no bytes", p.Name)
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			return nil, fmt.Errorf("pattern %q confidence %.2f outside [0,1]", p.Name, p.Confidence)
		}
		if _, dup := c.index[p.Name]; dup {
			return nil, fmt.Errorf("duplicate pattern %q", p.Name)
		}
		c.index[p.Name] = len(c.patterns)
		c.patterns = append(c.patterns, clonePattern(p))
	}
	return c, nil
}

// MustNew is like New but panics on error. Intended for static tables.
func MustNew(patterns ...Pattern) *Catalog {
	c, err := New(patterns...)
	if err != nil {
		panic(err)
	}
	return c
}

// With returns a new catalog containing the receiver's patterns followed by
// the given ones. The receiver is left untouched.
func (c *Catalog) With(patterns ...Pattern) (*Catalog, error) {
	return New(append(c.All(), patterns...)...)
}

// All returns a copy of every pattern in catalog order.
func (c *Catalog) All() []Pattern {
	if c == nil {
		return nil
	}
	out := make([]Pattern, len(c.patterns))
	for i, p := range c.patterns {
		out[i] = clonePattern(p)
	}
	return out
}

// PatternsForCategory returns the patterns of one category in catalog order.
func (c *Catalog) PatternsForCategory(category Category) []Pattern {
	var out []Pattern
	for _, p := range c.All() {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Lookup finds a pattern by exact name.
func (c *Catalog) Lookup(name string) (Pattern, bool) {
	if c == nil {
		return Pattern{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Pattern{}, false
	}
	return clonePattern(c.patterns[i]), true
}

// Contains reports whether a pattern with this name is in the catalog.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Names returns pattern names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.patterns))
	for i, p := range c.patterns {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of patterns.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.patterns)
}

func clonePattern(p Pattern) Pattern {
	p.Bytes = slices.Clone(p.Bytes)
	p.Titles = slices.Clone(p.Titles)
	return p
}
