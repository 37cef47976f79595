// Package legacy converts text reports of the old external analysis scripts
// into pattern matches.
//
// The scripts print "label: value" lines. A line contributes to a match when
// it names a catalog pattern as a whole word on either side of the colon;
// 0x-prefixed hex tokens on the line are read as byte offsets.
package legacy

import (
	"bufio"
	"cmp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/scanner"
)

type hit struct {
	count     int
	positions []int
}

// ParseOutput builds PatternMatch records from script output. Names that are
// not in cat are ignored. At most maxPositions offsets are kept per pattern;
// non-positive values use scanner.DefaultMaxPositions. The result is ordered
// like scanner output: descending confidence, ties in catalog order.
func ParseOutput(output, title string, cat *catalog.Catalog, maxPositions int) []scanner.PatternMatch {
	if maxPositions <= 0 {
		maxPositions = scanner.DefaultMaxPositions
	}

	hits := make(map[string]*hit)
	lines := bufio.NewScanner(strings.NewReader(output))
	lines.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for lines.Scan() {
		line := lines.Text()
		if !strings.Contains(line, ":") {
			continue
		}

		var name string
		var offsets []int
		for _, tok := range tokens(line) {
			if off, ok := parseOffset(tok); ok {
				offsets = append(offsets, off)
				continue
			}
			if name == "" && cat.Contains(tok) {
				name = tok
			}
		}
		if name == "" {
			continue
		}

		h, ok := hits[name]
		if !ok {
			h = &hit{}
			hits[name] = h
		}
		h.count += max(len(offsets), 1)
		h.positions = append(h.positions, offsets...)
	}

	matches := []scanner.PatternMatch{}
	for _, p := range cat.All() {
		h, ok := hits[p.Name]
		if !ok {
			continue
		}
		positions := slices.Compact(slices.Sorted(slices.Values(h.positions)))
		if len(positions) > maxPositions {
			positions = positions[:maxPositions]
		}
		if positions == nil {
			positions = []int{}
		}
		matches = append(matches, scanner.PatternMatch{
			PatternName: p.Name,
			Title:       title,
			Category:    p.Category,
			Confidence:  p.Confidence,
			Description: p.Description,
			Positions:   positions,
			Count:       h.count,
		})
	}

	slices.SortStableFunc(matches, func(a, b scanner.PatternMatch) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	return matches
}

// tokens splits a line into identifier-like words.
func tokens(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
}

func parseOffset(tok string) (int, bool) {
	if len(tok) < 3 || (tok[:2] != "0x" && tok[:2] != "0X") {
		return 0, false
	}
	v, err := strconv.ParseUint(tok[2:], 16, 31)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
