// Package rerank attaches a heuristic reliability score to classified
// patterns and orders them by it.
//
// The score is a fixed, hand-weighted blend of lexical features. It is not a
// trained model and never changes which taxonomy entry a pattern maps to.
package rerank

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/witcherai/savescan/internal/taxonomy"
)

// Output range of Score.
const (
	MinScore = 0.5
	MaxScore = 0.95
)

var (
	contextKeywords   = []string{"quest", "character", "decision", "act", "choice", "fact"}
	franchiseKeywords = []string{"quest", "aryan", "roche", "iorveth", "facts", "choice"}
)

// Features are the lexical signals extracted from one pattern.
type Features struct {
	Length            int  `json:"length"`
	HasUnderscore     bool `json:"has_underscore"`
	Frequency         int  `json:"frequency"`
	ContextRelevance  int  `json:"context_relevance"`
	FranchiseKeywords int  `json:"franchise_keywords"`
	Structural        int  `json:"structural"`
}

// Extract computes the features of pattern found frequency times in a save,
// with context describing where it was found.
func Extract(pattern, context string, frequency int) Features {
	return Features{
		Length:            len(pattern),
		HasUnderscore:     strings.Contains(pattern, "_"),
		Frequency:         frequency,
		ContextRelevance:  countContained(strings.ToLower(context), contextKeywords),
		FranchiseKeywords: countContained(strings.ToLower(pattern), franchiseKeywords),
		Structural:        structural(pattern),
	}
}

// Probability blends the features into [0, 1].
func (f Features) Probability() float64 {
	p := 0.25*ratio(f.FranchiseKeywords, 3) +
		0.20*ratio(f.ContextRelevance, 3) +
		0.20*ratio(f.Structural, 4) +
		0.15*ratio(f.Frequency, 10)
	if f.HasUnderscore {
		p += 0.10
	}
	if f.Length >= 4 && f.Length <= 32 {
		p += 0.10
	}
	return p
}

// Score maps the feature probability into [MinScore, MaxScore].
func Score(pattern, context string, frequency int) float64 {
	return MinScore + Extract(pattern, context, frequency).Probability()*(MaxScore-MinScore)
}

// Ranked is a classification with its heuristic score attached.
type Ranked struct {
	taxonomy.Classification
	Frequency      int     `json:"frequency"`
	HeuristicScore float64 `json:"heuristic_score"`
}

// Rerank scores each classification using its entry's category and
// description as context and returns them ordered by descending heuristic
// score. Ties keep input order.
func Rerank(classified []taxonomy.Classification, frequency map[string]int) []Ranked {
	ranked := make([]Ranked, len(classified))
	for i, c := range classified {
		freq := frequency[c.Pattern]
		context := c.Entry.Category + " " + c.Entry.Description
		ranked[i] = Ranked{
			Classification: c,
			Frequency:      freq,
			HeuristicScore: Score(c.Pattern, context, freq),
		}
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return cmp.Compare(b.HeuristicScore, a.HeuristicScore)
	})
	return ranked
}

func countContained(s string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(s, k) {
			n++
		}
	}
	return n
}

// structural scores shape hints: all-caps constants, "System" suffixes and
// four letter block tags such as DZIP.
func structural(pattern string) int {
	n := 0
	upper := isUpper(pattern)
	if upper {
		n++
	}
	if strings.Contains(pattern, "System") {
		n++
	}
	if upper && len(pattern) == 4 {
		n += 2
	}
	return n
}

// isUpper reports whether s has at least one letter and no lowercase letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func ratio(v, ceiling int) float64 {
	if v <= 0 {
		return 0
	}
	if v >= ceiling {
		return 1
	}
	return float64(v) / float64(ceiling)
}
