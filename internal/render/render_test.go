package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/witcherai/savescan/internal/aggregate"
	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/discovery"
	"github.com/witcherai/savescan/internal/pipeline"
	"github.com/witcherai/savescan/internal/scanner"
	"github.com/witcherai/savescan/internal/taxonomy"
)

func TestMain(m *testing.M) {
	SetColor(false)
	m.Run()
}

func TestTable_AlignsColumns(t *testing.T) {
	tbl := NewTable(Column{Header: "NAME"}, Column{Header: "N", Right: true})
	tbl.Append("quest", "5")
	tbl.Append("roche_path", "12")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME         N", lines[0])
	assert.Equal(t, "──────────  ──", lines[1])
	assert.Equal(t, "quest        5", lines[2])
	assert.Equal(t, "roche_path  12", lines[3])
}

func TestTable_WideRunesAndTruncation(t *testing.T) {
	tbl := NewTable(Column{Header: "T", MaxWidth: 6}, Column{Header: "X"})
	tbl.Append("ウィッチャー", "a")
	tbl.Append("ab", "b")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ウィ…  a", lines[2])
	assert.Equal(t, "ab     b", lines[3])
}

func TestTable_MissingCells(t *testing.T) {
	tbl := NewTable(Column{Header: "A"}, Column{Header: "B"})
	tbl.Append("only")
	tbl.Append("x", "y", "dropped")
	assert.Equal(t, 2, tbl.Len())

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	assert.NotContains(t, buf.String(), "dropped")
}

func TestConfidenceColor(t *testing.T) {
	assert.Equal(t, color.Green, ConfidenceColor(0.95))
	assert.Equal(t, color.Yellow, ConfidenceColor(0.9))
	assert.Equal(t, color.Yellow, ConfidenceColor(0.85))
	assert.Equal(t, color.Red, ConfidenceColor(0.8))
	assert.Equal(t, "0.94", Confidence(0.94))
}

func TestConfidenceStyle_NonNumericPassesThrough(t *testing.T) {
	assert.Equal(t, "n/a ", ConfidenceStyle("n/a", "n/a "))
}

func TestMatches(t *testing.T) {
	var buf bytes.Buffer
	err := Matches(&buf, []scanner.PatternMatch{
		{PatternName: "DZIP", Category: catalog.CategorySaveMetadata, Confidence: 0.99, Count: 1, Positions: []int{0}},
		{PatternName: "triss", Category: catalog.CategoryCharacter, Confidence: 0.86, Count: 2, Positions: []int{}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "0x00000000")
	assert.Contains(t, out, "0.99")
	assert.Regexp(t, `triss\s+character\s+0\.86\s+2\s+-`, out)
}

func TestFileReport(t *testing.T) {
	data := []byte("DZIP\x02\x00\x00\x00quest geralt")
	r := scanner.New(5).ScanBytes("Witcher 2", "save.sav", data, catalog.Default().All())

	var buf bytes.Buffer
	require.NoError(t, FileReport(&buf, r, data, 16))

	out := buf.String()
	assert.Contains(t, out, "Format: DZIP v2")
	assert.Contains(t, out, "Patterns found: 2")
	assert.Contains(t, out, "character_system: geralt")
	assert.Contains(t, out, "Hex dump (first 16 bytes):")
	assert.Contains(t, out, "00000000: 44 5a 49 50")
	assert.Contains(t, out, "Cross-title compatible:  true")
}

func TestFileReport_Failed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FileReport(&buf, scanner.FileResult{Path: "x.sav", Failed: true, Error: "read x.sav: denied"}, nil, 0))
	assert.Contains(t, buf.String(), "FAILED: read x.sav: denied")
	assert.NotContains(t, buf.String(), "Summary")
}

func TestSaves(t *testing.T) {
	records := []discovery.SaveFileRecord{
		{Name: "a.sav", SizeBytes: 1048576, ModifiedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Name: "b.sav", SizeBytes: 10, ModifiedAt: time.Date(2024, 1, 3, 3, 4, 5, 0, time.UTC), ScreenshotPath: "b.bmp"},
	}
	var buf bytes.Buffer
	require.NoError(t, Saves(&buf, discovery.Summarize("Witcher 2", records), records))

	out := buf.String()
	assert.Contains(t, out, "Witcher 2: 2 save(s), 1.0MB")
	assert.Contains(t, out, "2024-01-02 03:04:05")
	assert.Regexp(t, `b\.sav\s+10\s+2024-01-03 03:04:05\s+yes`, out)
}

func TestAnalysis(t *testing.T) {
	a := taxonomy.Default().Analyze([]string{"questSystem", "zzz"}, "Witcher 2")

	var buf bytes.Buffer
	require.NoError(t, Analysis(&buf, a, nil))

	out := buf.String()
	assert.Contains(t, out, "Witcher 2: 2 pattern(s), 1 classified")
	assert.Regexp(t, `questSystem\s+que_main_path\s+quest/main_story\s+critical\s+0\.768`, out)
	assert.Contains(t, out, "Unclassified: zzz")
	assert.NotContains(t, out, "HEURISTIC")
}

func TestCrossTitle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CrossTitle(&buf, nil))
	assert.Equal(t, "No patterns shared across titles\n", buf.String())

	buf.Reset()
	require.NoError(t, CrossTitle(&buf, []aggregate.CrossTitlePattern{
		{PatternType: "quest", Titles: []string{"Witcher 1", "Witcher 2", "Witcher 3"}, Occurrences: 9, TransferPotential: aggregate.TransferHigh},
	}))
	assert.Regexp(t, `quest\s+Witcher 1, Witcher 2, Witcher 3\s+9\s+high`, buf.String())
}

func TestRun(t *testing.T) {
	r := &pipeline.RunResult{
		ID:       "run-1",
		Strategy: pipeline.StrategyNoAnalysis,
		Titles: []pipeline.TitleResult{
			{Name: "Witcher 3", Directory: "/saves/w3"},
		},
		Insights: []string{"something learned"},
	}

	var buf bytes.Buffer
	require.NoError(t, Run(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "Run run-1 (no_analysis)")
	assert.Contains(t, out, "no saves in /saves/w3")
	assert.Contains(t, out, "No patterns shared across titles")
	assert.Contains(t, out, "  - something learned")
}

func TestPatternsAndTaxonomy(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Patterns(&buf, catalog.Default().All()))
	assert.Equal(t, 14, strings.Count(buf.String(), "\n"))

	buf.Reset()
	require.NoError(t, Taxonomy(&buf, taxonomy.Default().Entries()))
	assert.Contains(t, buf.String(), "char_loyalty_path")
	assert.Equal(t, 10, strings.Count(buf.String(), "\n"))
}
