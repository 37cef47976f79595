// Package scanner searches raw save bytes for catalog signatures.
package scanner

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/witcherai/savescan/internal/catalog"
)

// DefaultMaxPositions bounds how many offsets are kept per pattern.
const DefaultMaxPositions = 5

// PatternMatch records the occurrences of one catalog pattern in a buffer.
// Count is the total number of occurrences; Positions holds at most
// MaxPositions offsets in ascending order.
type PatternMatch struct {
	PatternName string           `json:"pattern_name"`
	Title       string           `json:"title"`
	Category    catalog.Category `json:"category"`
	Confidence  float64          `json:"confidence"`
	Description string           `json:"description,omitempty"`
	Positions   []int            `json:"positions"`
	Count       int              `json:"occurrence_count"`
}

// Scanner performs in-process signature search. It holds no mutable state and
// is safe for concurrent use.
type Scanner struct {
	maxPositions int
}

// New creates a Scanner keeping at most maxPositions offsets per pattern.
// Non-positive values fall back to DefaultMaxPositions.
func New(maxPositions int) *Scanner {
	if maxPositions <= 0 {
		maxPositions = DefaultMaxPositions
	}
	return &Scanner{maxPositions: maxPositions}
}

// MaxPositions returns the per-pattern offset cap.
func (s *Scanner) MaxPositions() int {
	return s.maxPositions
}

// Scan searches data for every pattern and returns one PatternMatch per
// pattern that occurs at least once, ordered by descending confidence with
// ties kept in the order patterns were given.
//
// Overlapping occurrences are all counted: after a hit at offset i the search
// resumes at i+1, so "aa" occurs three times in "aaaa".
func (s *Scanner) Scan(title string, data []byte, patterns []catalog.Pattern) []PatternMatch {
	matches := []PatternMatch{}
	if len(data) == 0 {
		return matches
	}

	for _, p := range patterns {
		positions, count := s.find(data, p.Bytes)
		if count == 0 {
			continue
		}
		matches = append(matches, PatternMatch{
			PatternName: p.Name,
			Title:       title,
			Category:    p.Category,
			Confidence:  p.Confidence,
			Description: p.Description,
			Positions:   positions,
			Count:       count,
		})
	}

	slices.SortStableFunc(matches, func(a, b PatternMatch) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})

	return matches
}

// find returns the first maxPositions offsets of needle in data and the total
// occurrence count.
func (s *Scanner) find(data, needle []byte) ([]int, int) {
	if len(needle) == 0 || len(needle) > len(data) {
		return nil, 0
	}

	var positions []int
	count := 0
	start := 0
	for start < len(data) {
		idx := bytes.Index(data[start:], needle)
		if idx < 0 {
			break
		}
		pos := start + idx
		count++
		if len(positions) < s.maxPositions {
			positions = append(positions, pos)
		}
		start = pos + 1
	}
	return positions, count
}
