package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EntryOrder(t *testing.T) {
	entries := Default().Entries()
	require.Len(t, entries, 8)

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{
		"char_loyalty_path",
		"char_companion_fate",
		"pol_faction_choice",
		"pol_ruler_support",
		"mor_life_death",
		"mor_justice_mercy",
		"que_main_path",
		"que_side_completion",
	}, ids)
}

func TestDefault_EntriesAreCopies(t *testing.T) {
	entries := Default().Entries()
	entries[0].Patterns[0] = "mutated"
	entries[0].Titles = nil

	e, ok := Default().Lookup("char_loyalty_path")
	require.True(t, ok)
	assert.Equal(t, "roche_path", e.Patterns[0])
	assert.Len(t, e.Titles, 3)
}

func TestScore(t *testing.T) {
	entry, ok := Default().Lookup("que_main_path")
	require.True(t, ok)

	tests := []struct {
		name    string
		pattern string
		title   string
		want    float64
	}{
		{"exact plus self substring plus title", "questSystem", "Witcher 2", 0.8 * 0.96},
		{"exact without title", "questSystem", "", 0.6 * 0.96},
		{"partial bonuses stack", "quest", "Witcher 1", 0.6 * 0.96},
		{"title only", "zzz", "Witcher 3", 0.2 * 0.96},
		{"unknown title", "zzz", "Gwent", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.pattern, Context{Title: tt.title}, entry)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		title   string
		wantID  string
		wantOK  bool
	}{
		{"quest system in second title", "questSystem", "Witcher 2", "que_main_path", true},
		{"unrelated name", "zzz_random_unrelated", "Witcher 2", "", false},
		{"loyalty path", "roche_path", "Witcher 2", "char_loyalty_path", true},
		{"partial with title", "roche", "Witcher 3", "char_loyalty_path", true},
		{"partial without title below threshold", "roche", "", "", false},
		{"faction outside applicable title", "political_stance", "Witcher 1", "pol_faction_choice", true},
		{"broad quest substring", "quest", "Witcher 1", "que_main_path", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Default().Classify(tt.pattern, Context{Title: tt.title})
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Empty(t, c.Entry.ID)
				return
			}
			assert.Equal(t, tt.wantID, c.Entry.ID)
			assert.Equal(t, tt.pattern, c.Pattern)
			assert.Greater(t, c.Score, Threshold)
		})
	}
}

func TestClassify_QuestSystemScore(t *testing.T) {
	c, ok := Default().Classify("questSystem", Context{Title: "Witcher 2"})
	require.True(t, ok)
	assert.InDelta(t, 0.768, c.Score, 1e-9)
}

func TestClassify_FirstEntryWinsTies(t *testing.T) {
	tax := New(
		Entry{ID: "first", Titles: []string{"A"}, Confidence: 0.9, Patterns: []string{"shared"}},
		Entry{ID: "second", Titles: []string{"A"}, Confidence: 0.9, Patterns: []string{"shared"}},
	)

	c, ok := tax.Classify("shared", Context{Title: "A"})
	require.True(t, ok)
	assert.Equal(t, "first", c.Entry.ID)
}

func TestClassify_TitleBonusAloneIsBelowThreshold(t *testing.T) {
	for _, e := range Default().Entries() {
		assert.LessOrEqual(t, Score("zzz", Context{Title: "Witcher 2"}, e), Threshold, e.ID)
	}
}

func TestClassify_EmptyTaxonomy(t *testing.T) {
	_, ok := New().Classify("questSystem", Context{Title: "Witcher 2"})
	assert.False(t, ok)
}

func TestAnalyze(t *testing.T) {
	a := Default().Analyze([]string{"questSystem", "roche_path", "zzz", "side_quest_state"}, "Witcher 2")

	assert.Equal(t, "Witcher 2", a.Title)
	assert.Equal(t, 4, a.Total)
	require.Len(t, a.Classified, 3)
	assert.Equal(t, []string{"zzz"}, a.Unclassified)

	assert.Equal(t, "que_main_path", a.Classified[0].Entry.ID)
	assert.Equal(t, "char_loyalty_path", a.Classified[1].Entry.ID)
	assert.Equal(t, "que_side_completion", a.Classified[2].Entry.ID)

	assert.Equal(t, CategorySummary{Count: 2, Critical: 1, Minor: 1}, a.Summary["quest"])
	assert.Equal(t, CategorySummary{Count: 1, Critical: 1}, a.Summary["character"])
	assert.NotContains(t, a.Summary, "moral")
}

func TestAnalyze_Empty(t *testing.T) {
	a := Default().Analyze(nil, "Witcher 1")
	assert.Zero(t, a.Total)
	assert.NotNil(t, a.Classified)
	assert.NotNil(t, a.Unclassified)
	assert.Empty(t, a.Summary)
}

func TestCrossTitleMappings(t *testing.T) {
	mappings := Default().CrossTitleMappings()
	require.Len(t, mappings, 8)

	assert.Equal(t, "character_loyalty", mappings[0].Key)
	assert.Equal(t, ImpactCritical, mappings[0].Impact)

	assert.Equal(t, "political_faction", mappings[2].Key)
	assert.Equal(t, []string{"Witcher 2", "Witcher 3"}, mappings[2].Titles)

	single := New(Entry{ID: "only", Category: "x", Subcategory: "y", Titles: []string{"A"}})
	assert.Empty(t, single.CrossTitleMappings())
}
