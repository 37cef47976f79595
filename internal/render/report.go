package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/witcherai/savescan/internal/aggregate"
	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/discovery"
	"github.com/witcherai/savescan/internal/pipeline"
	"github.com/witcherai/savescan/internal/rerank"
	"github.com/witcherai/savescan/internal/scanner"
	"github.com/witcherai/savescan/internal/taxonomy"
)

const timeLayout = "2006-01-02 15:04:05"

// Saves lists discovered saves, oldest first.
func Saves(w io.Writer, summary discovery.Summary, records []discovery.SaveFileRecord) error {
	fmt.Fprintf(w, "%s: %d save(s), %.1fMB\n\n", summary.Title, summary.FileCount, summary.TotalMB())
	if len(records) == 0 {
		return nil
	}

	t := NewTable(
		Column{Header: "#", Right: true},
		Column{Header: "FILE", MaxWidth: 40},
		Column{Header: "SIZE", Right: true},
		Column{Header: "MODIFIED"},
		Column{Header: "SCREENSHOT"},
	)
	for i, r := range records {
		shot := "-"
		if r.ScreenshotPath != "" {
			shot = "yes"
		}
		t.Append(strconv.Itoa(i+1), r.Name, strconv.FormatUint(r.SizeBytes, 10), r.ModifiedAt.Format(timeLayout), shot)
	}
	return t.Render(w)
}

// Matches renders scanner matches as a table.
func Matches(w io.Writer, matches []scanner.PatternMatch) error {
	t := NewTable(
		Column{Header: "PATTERN", MaxWidth: 24},
		Column{Header: "CATEGORY"},
		Column{Header: "CONFIDENCE", Right: true, Style: ConfidenceStyle},
		Column{Header: "COUNT", Right: true},
		Column{Header: "FIRST AT"},
		Column{Header: "DESCRIPTION", MaxWidth: 40},
	)
	for _, m := range matches {
		first := "-"
		if len(m.Positions) > 0 {
			first = fmt.Sprintf("0x%08X", m.Positions[0])
		}
		t.Append(m.PatternName, string(m.Category), fmt.Sprintf("%.2f", m.Confidence), strconv.Itoa(m.Count), first, m.Description)
	}
	return t.Render(w)
}

// FileReport prints the full analysis of one save file. A positive hexDump
// appends a dump of that many leading bytes read from data.
func FileReport(w io.Writer, r scanner.FileResult, data []byte, hexDump int) error {
	fmt.Fprintf(w, "File: %s\n", r.Path)
	if r.Failed {
		fmt.Fprintf(w, "  %s\n", ConfidenceColor(0).Sprint("FAILED: "+r.Error))
		return nil
	}
	fmt.Fprintf(w, "  Size:   %d bytes\n", r.Size)
	fmt.Fprintf(w, "  Format: %s\n\n", r.Format)

	fmt.Fprintf(w, "Patterns found: %d\n", len(r.Matches))
	if len(r.Matches) > 0 {
		if err := Matches(w, r.Matches); err != nil {
			return err
		}
	}

	if len(r.Systems) > 0 {
		fmt.Fprintln(w, "\nCross-title signature systems:")
		for _, s := range r.Systems {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}

	if hexDump > 0 && len(data) > 0 {
		fmt.Fprintf(w, "\nHex dump (first %d bytes):\n", min(hexDump, len(data)))
		fmt.Fprint(w, scanner.HexDump(data, hexDump))
	}

	s := r.Summary()
	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "  Total patterns detected: %d\n", s.TotalPatterns)
	fmt.Fprintf(w, "  High confidence (>0.9):  %d\n", s.HighConfidence)
	fmt.Fprintf(w, "  Quest patterns:          %d\n", s.QuestPatterns)
	fmt.Fprintf(w, "  Character patterns:      %d\n", s.CharacterPatterns)
	fmt.Fprintf(w, "  Cross-title compatible:  %t\n", s.CrossTitle)
	return nil
}

// Analysis prints classified and unclassified patterns. ranked may be nil;
// when given it supplies the heuristic score column and the row order.
func Analysis(w io.Writer, a taxonomy.Analysis, ranked []rerank.Ranked) error {
	fmt.Fprintf(w, "%s: %d pattern(s), %d classified\n\n", a.Title, a.Total, len(a.Classified))

	if len(a.Classified) > 0 {
		cols := []Column{
			{Header: "PATTERN", MaxWidth: 24},
			{Header: "ENTRY"},
			{Header: "CATEGORY"},
			{Header: "IMPACT"},
			{Header: "SCORE", Right: true},
		}
		if ranked != nil {
			cols = append(cols, Column{Header: "HEURISTIC", Right: true, Style: ConfidenceStyle})
		}
		t := NewTable(cols...)

		if ranked != nil {
			for _, r := range ranked {
				t.Append(r.Pattern, r.Entry.ID, r.Entry.Category+"/"+r.Entry.Subcategory, string(r.Entry.Impact),
					fmt.Sprintf("%.3f", r.Score), fmt.Sprintf("%.2f", r.HeuristicScore))
			}
		} else {
			for _, c := range a.Classified {
				t.Append(c.Pattern, c.Entry.ID, c.Entry.Category+"/"+c.Entry.Subcategory, string(c.Entry.Impact),
					fmt.Sprintf("%.3f", c.Score))
			}
		}
		if err := t.Render(w); err != nil {
			return err
		}
	}

	if len(a.Unclassified) > 0 {
		fmt.Fprintf(w, "\nUnclassified: %s\n", strings.Join(a.Unclassified, ", "))
	}
	return nil
}

// CrossTitle renders aggregated cross-title patterns.
func CrossTitle(w io.Writer, patterns []aggregate.CrossTitlePattern) error {
	if len(patterns) == 0 {
		_, err := fmt.Fprintln(w, "No patterns shared across titles")
		return err
	}
	t := NewTable(
		Column{Header: "PATTERN", MaxWidth: 24},
		Column{Header: "TITLES"},
		Column{Header: "OCCURRENCES", Right: true},
		Column{Header: "TRANSFER", Style: PotentialStyle},
	)
	for _, p := range patterns {
		t.Append(p.PatternType, strings.Join(p.Titles, ", "), strconv.Itoa(p.Occurrences), string(p.TransferPotential))
	}
	return t.Render(w)
}

// Run prints the outcome of a multi-title analysis run.
func Run(w io.Writer, r *pipeline.RunResult) error {
	fmt.Fprintf(w, "Run %s (%s)\n", r.ID, r.Strategy)

	t := NewTable(
		Column{Header: "TITLE"},
		Column{Header: "SAVES", Right: true},
		Column{Header: "SIZE MB", Right: true},
		Column{Header: "SCANNED", Right: true},
		Column{Header: "PATTERNS", Right: true},
		Column{Header: "CLASSIFIED", Right: true},
		Column{Header: "NOTE", MaxWidth: 40},
	)
	for _, tr := range r.Titles {
		note := tr.Error
		if note == "" && tr.Summary.FileCount == 0 {
			note = "no saves in " + tr.Directory
		}
		t.Append(tr.Name, strconv.Itoa(tr.Summary.FileCount), fmt.Sprintf("%.1f", tr.Summary.TotalMB()),
			strconv.Itoa(len(tr.Files)), strconv.Itoa(len(tr.Matches())), strconv.Itoa(len(tr.Analysis.Classified)), note)
	}
	if err := t.Render(w); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if err := CrossTitle(w, r.CrossTitle); err != nil {
		return err
	}

	if len(r.Insights) > 0 {
		fmt.Fprintln(w, "\nInsights:")
		for _, in := range r.Insights {
			fmt.Fprintf(w, "  - %s\n", in)
		}
	}
	return nil
}

// Patterns lists catalog signatures.
func Patterns(w io.Writer, patterns []catalog.Pattern) error {
	t := NewTable(
		Column{Header: "NAME", MaxWidth: 24},
		Column{Header: "CATEGORY"},
		Column{Header: "CONFIDENCE", Right: true, Style: ConfidenceStyle},
		Column{Header: "TITLES"},
		Column{Header: "DESCRIPTION", MaxWidth: 40},
	)
	for _, p := range patterns {
		t.Append(p.Name, string(p.Category), fmt.Sprintf("%.2f", p.Confidence), strings.Join(p.Titles, ", "), p.Description)
	}
	return t.Render(w)
}

// Taxonomy lists taxonomy entries in iteration order.
func Taxonomy(w io.Writer, entries []taxonomy.Entry) error {
	t := NewTable(
		Column{Header: "ID"},
		Column{Header: "CATEGORY"},
		Column{Header: "IMPACT"},
		Column{Header: "CONFIDENCE", Right: true, Style: ConfidenceStyle},
		Column{Header: "TITLES"},
		Column{Header: "PATTERNS", MaxWidth: 48},
	)
	for _, e := range entries {
		t.Append(e.ID, e.Category+"/"+e.Subcategory, string(e.Impact), fmt.Sprintf("%.2f", e.Confidence),
			strings.Join(e.Titles, ", "), strings.Join(e.Patterns, ", "))
	}
	return t.Render(w)
}
