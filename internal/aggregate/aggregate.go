// Package aggregate reports pattern names that recur across game titles.
package aggregate

import (
	"slices"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/witcherai/savescan/internal/scanner"
)

// TransferPotential grades how likely a recurring pattern carries a decision
// from one title into the next.
type TransferPotential string

const (
	TransferLow    TransferPotential = "low"
	TransferMedium TransferPotential = "medium"
	TransferHigh   TransferPotential = "high"
)

// CrossTitlePattern is a pattern name found in saves of at least two titles.
type CrossTitlePattern struct {
	PatternType       string            `json:"pattern_type"`
	Titles            []string          `json:"titles"`
	Occurrences       int               `json:"occurrences"`
	TransferPotential TransferPotential `json:"transfer_potential"`
}

type group struct {
	titles      []string
	occurrences int
}

// Aggregate groups matches by lowercase pattern name across titles. A group is
// reported once it appears in two distinct titles; three or more titles rate
// it high. When fewer than two titles produced any match the result is empty.
//
// Titles are walked in sorted order so output order is deterministic: groups
// appear in the order they were first seen.
func Aggregate(byTitle map[string][]scanner.PatternMatch) []CrossTitlePattern {
	result := []CrossTitlePattern{}

	contributing := 0
	for _, matches := range byTitle {
		if len(matches) > 0 {
			contributing++
		}
	}
	if contributing < 2 {
		return result
	}

	titles := make([]string, 0, len(byTitle))
	for title := range byTitle {
		titles = append(titles, title)
	}
	slices.Sort(titles)

	groups := orderedmap.NewOrderedMap[string, *group]()
	for _, title := range titles {
		for _, m := range byTitle[title] {
			key := strings.ToLower(m.PatternName)
			g, ok := groups.Get(key)
			if !ok {
				g = &group{}
				groups.Set(key, g)
			}
			if !slices.Contains(g.titles, title) {
				g.titles = append(g.titles, title)
			}
			g.occurrences += max(m.Count, 1)
		}
	}

	for el := groups.Front(); el != nil; el = el.Next() {
		g := el.Value
		if len(g.titles) < 2 {
			continue
		}
		result = append(result, CrossTitlePattern{
			PatternType:       el.Key,
			Titles:            g.titles,
			Occurrences:       g.occurrences,
			TransferPotential: potential(len(g.titles)),
		})
	}

	return result
}

func potential(titles int) TransferPotential {
	switch {
	case titles >= 3:
		return TransferHigh
	case titles == 2:
		return TransferMedium
	default:
		return TransferLow
	}
}
