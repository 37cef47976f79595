package scanner

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/witcherai/savescan/internal/catalog"
)

func pattern(name string, b []byte, confidence float64) catalog.Pattern {
	return catalog.Pattern{
		Name:       name,
		Bytes:      b,
		Category:   catalog.CategoryQuest,
		Titles:     []string{catalog.Witcher2},
		Confidence: confidence,
	}
}

func TestScan_OverlappingOccurrences(t *testing.T) {
	s := New(5)

	matches := s.Scan("Witcher 2", []byte("aaaa"), []catalog.Pattern{pattern("aa", []byte("aa"), 0.5)})

	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches[0].Count)
	assert.Equal(t, []int{0, 1, 2}, matches[0].Positions)
	assert.Equal(t, "Witcher 2", matches[0].Title)
}

func TestScan_PositionsCappedCountIsNot(t *testing.T) {
	s := New(2)
	data := []byte("quest quest quest quest")

	matches := s.Scan("Witcher 1", data, []catalog.Pattern{pattern("quest", []byte("quest"), 0.95)})

	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].Count)
	assert.Equal(t, []int{0, 6}, matches[0].Positions)
}

func TestScan_DefaultCap(t *testing.T) {
	s := New(0)
	assert.Equal(t, DefaultMaxPositions, s.MaxPositions())

	data := bytes.Repeat([]byte("x"), 10)
	matches := s.Scan("Witcher 3", data, []catalog.Pattern{pattern("x", []byte("x"), 0.1)})

	require.Len(t, matches, 1)
	assert.Equal(t, 10, matches[0].Count)
	assert.Len(t, matches[0].Positions, DefaultMaxPositions)
}

func TestScan_EmptyBuffer(t *testing.T) {
	matches := New(5).Scan("Witcher 2", nil, catalog.Default().All())

	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestScan_PatternLongerThanBuffer(t *testing.T) {
	matches := New(5).Scan("Witcher 2", []byte("DZ"), []catalog.Pattern{pattern("DZIP", []byte("DZIP"), 0.99)})

	assert.Empty(t, matches)
}

func TestScan_OrderedByConfidenceThenCatalogOrder(t *testing.T) {
	patterns := []catalog.Pattern{
		pattern("low", []byte("low"), 0.5),
		pattern("tie_first", []byte("tie1"), 0.9),
		pattern("high", []byte("high"), 0.99),
		pattern("tie_second", []byte("tie2"), 0.9),
	}
	data := []byte("low tie2 high tie1")

	matches := New(5).Scan("Witcher 2", data, patterns)

	require.Len(t, matches, 4)
	assert.Equal(t, "high", matches[0].PatternName)
	assert.Equal(t, "tie_first", matches[1].PatternName)
	assert.Equal(t, "tie_second", matches[2].PatternName)
	assert.Equal(t, "low", matches[3].PatternName)
}

func TestScan_IsDeterministic(t *testing.T) {
	s := New(5)
	data := []byte("DZIP....save_header..quest..active_quest..roche_path..faction..questquest")
	patterns := catalog.Default().All()

	first := s.Scan("Witcher 2", data, patterns)
	second := s.Scan("Witcher 2", data, patterns)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestScan_RoundTripAtOffset(t *testing.T) {
	added := catalog.Pattern{
		Name:       "kill_choice",
		Bytes:      []byte{0xde, 0xad, 'k', 'c'},
		Category:   catalog.CategoryMoral,
		Titles:     []string{catalog.Witcher2},
		Confidence: 0.8,
	}
	c, err := catalog.Default().With(added)
	require.NoError(t, err)

	const k = 37
	data := make([]byte, 128)
	copy(data[k:], added.Bytes)

	matches := New(5).Scan("Witcher 2", data, c.PatternsForCategory(catalog.CategoryMoral))

	require.Len(t, matches, 1)
	assert.Equal(t, "kill_choice", matches[0].PatternName)
	assert.Contains(t, matches[0].Positions, k)
	assert.True(t, c.Contains(matches[0].PatternName))
}

func TestScan_DefaultCatalogOnSyntheticSave(t *testing.T) {
	data := []byte("DZIP\x02\x00\x00\x00 save_header screenshot active_quest chapter triss")

	matches := New(5).Scan("Witcher 2", data, catalog.Default().All())

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.PatternName
	}
	// quest occurs inside active_quest
	assert.Equal(t, []string{"DZIP", "quest", "save_header", "active_quest", "chapter", "screenshot", "triss"}, names)
}

func TestScanFile_Unreadable(t *testing.T) {
	result := New(5).ScanFile("Witcher 2", filepath.Join(t.TempDir(), "missing.sav"), catalog.Default().All())

	assert.True(t, result.Failed)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Matches)
}

func TestScanBytes_Summary(t *testing.T) {
	data := []byte("DZIP\x01\x00\x00\x00quest roche_path triss geralt")

	result := New(5).ScanBytes("Witcher 2", "mem.sav", data, catalog.Default().All())

	assert.False(t, result.Failed)
	assert.Equal(t, "DZIP v1", result.Format)
	assert.Equal(t, len(data), result.Size)

	summary := result.Summary()
	assert.Equal(t, 4, summary.TotalPatterns)
	assert.Equal(t, 3, summary.HighConfidence) // DZIP, quest, roche_path
	assert.Equal(t, 1, summary.QuestPatterns)
	assert.Equal(t, 2, summary.CharacterPatterns)
	assert.True(t, summary.CrossTitle)

	assert.Equal(t, []string{"DZIP", "quest", "roche_path", "triss"}, result.PatternNames())
}
