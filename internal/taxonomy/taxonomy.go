// Package taxonomy maps discovered pattern names onto a static hierarchy of
// decision categories shared by the Witcher titles.
package taxonomy

import (
	"slices"
	"strings"
)

// Impact grades how much a decision changes the game.
type Impact string

const (
	ImpactMinor    Impact = "minor"
	ImpactMajor    Impact = "major"
	ImpactCritical Impact = "critical"
)

// Threshold is the score a candidate must exceed to be returned by Classify.
const Threshold = 0.3

// Scoring weights. Fixed for compatibility with previously recorded results.
const (
	exactMatchBonus   = 0.4
	partialMatchBonus = 0.2
	titleBonus        = 0.2
)

// Entry is one node of the decision taxonomy.
type Entry struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Description string   `json:"description"`
	Impact      Impact   `json:"impact"`
	Titles      []string `json:"titles"`
	Confidence  float64  `json:"confidence"`
	Patterns    []string `json:"patterns"`
}

// Context carries what is known about where a pattern was found.
type Context struct {
	Title string
}

// Classification is a successful Classify outcome.
type Classification struct {
	Pattern string  `json:"pattern"`
	Entry   Entry   `json:"entry"`
	Score   float64 `json:"score"`
}

// Taxonomy is an immutable ordered list of entries.
type Taxonomy struct {
	entries []Entry
}

// New builds a taxonomy; iteration order, and therefore tie-breaking,
// follows the order of entries.
func New(entries ...Entry) *Taxonomy {
	t := &Taxonomy{entries: make([]Entry, len(entries))}
	for i, e := range entries {
		t.entries[i] = cloneEntry(e)
	}
	return t
}

// Entries returns a copy of all entries in iteration order.
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

// Lookup finds an entry by ID.
func (t *Taxonomy) Lookup(id string) (Entry, bool) {
	for _, e := range t.entries {
		if e.ID == id {
			return cloneEntry(e), true
		}
	}
	return Entry{}, false
}

// Score computes the similarity of pattern to entry in the given context:
// +0.4 when pattern equals one of the entry's related names, +0.2 for every
// related name that contains or is contained in pattern, +0.2 when the title
// is one the entry applies to, all multiplied by the entry's confidence.
// The partial bonus deliberately stacks with the exact bonus and across names.
func Score(pattern string, ctx Context, entry Entry) float64 {
	score := 0.0

	if slices.Contains(entry.Patterns, pattern) {
		score += exactMatchBonus
	}

	for _, related := range entry.Patterns {
		if strings.Contains(pattern, related) || strings.Contains(related, pattern) {
			score += partialMatchBonus
		}
	}

	if ctx.Title != "" && slices.Contains(entry.Titles, ctx.Title) {
		score += titleBonus
	}

	return score * entry.Confidence
}

// Classify returns the best scoring entry for pattern. The first entry in
// iteration order wins ties. ok is false when no entry scores above
// Threshold, which is the explicit "unclassified" outcome.
func (t *Taxonomy) Classify(pattern string, ctx Context) (Classification, bool) {
	var best *Entry
	bestScore := 0.0

	for i := range t.entries {
		score := Score(pattern, ctx, t.entries[i])
		if score > bestScore {
			bestScore = score
			best = &t.entries[i]
		}
	}

	if best == nil || bestScore <= Threshold {
		return Classification{}, false
	}
	return Classification{
		Pattern: pattern,
		Entry:   cloneEntry(*best),
		Score:   bestScore,
	}, true
}

// Mapping describes a taxonomy entry that applies to more than one title.
type Mapping struct {
	Key        string   `json:"key"`
	Patterns   []string `json:"patterns"`
	Titles     []string `json:"titles"`
	Impact     Impact   `json:"impact"`
	Confidence float64  `json:"confidence"`
}

// CrossTitleMappings lists entries applicable to more than one title, keyed
// "category_subcategory", in iteration order.
func (t *Taxonomy) CrossTitleMappings() []Mapping {
	var out []Mapping
	for _, e := range t.entries {
		if len(e.Titles) <= 1 {
			continue
		}
		out = append(out, Mapping{
			Key:        e.Category + "_" + e.Subcategory,
			Patterns:   slices.Clone(e.Patterns),
			Titles:     slices.Clone(e.Titles),
			Impact:     e.Impact,
			Confidence: e.Confidence,
		})
	}
	return out
}

func cloneEntry(e Entry) Entry {
	e.Titles = slices.Clone(e.Titles)
	e.Patterns = slices.Clone(e.Patterns)
	return e
}
