package scanner

import (
	"fmt"
	"os"

	"github.com/witcherai/savescan/internal/catalog"
)

// highConfidence is the threshold above which a match counts as high confidence.
const highConfidence = 0.9

// FileResult is the outcome of scanning one save file. A file that cannot be
// read is reported with Failed set; it never aborts a batch.
type FileResult struct {
	Title   string         `json:"title"`
	Path    string         `json:"path"`
	Size    int            `json:"size"`
	Format  string         `json:"format,omitempty"`
	Matches []PatternMatch `json:"matches"`
	Systems []SystemMatch  `json:"systems,omitempty"`
	Failed  bool           `json:"failed"`
	Error   string         `json:"error,omitempty"`
}

// FileSummary condenses a FileResult.
type FileSummary struct {
	TotalPatterns     int  `json:"total_patterns"`
	HighConfidence    int  `json:"high_confidence"`
	QuestPatterns     int  `json:"quest_patterns"`
	CharacterPatterns int  `json:"character_patterns"`
	CrossTitle        bool `json:"cross_title_compatible"`
}

// ScanFile reads path and scans its bytes.
func (s *Scanner) ScanFile(title, path string, patterns []catalog.Pattern) FileResult {
	result := FileResult{
		Title:   title,
		Path:    path,
		Matches: []PatternMatch{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Failed = true
		result.Error = fmt.Sprintf("read %s: %v", path, err)
		return result
	}

	return s.ScanBytes(title, path, data, patterns)
}

// ScanBytes scans an in-memory buffer as if it had been read from path.
func (s *Scanner) ScanBytes(title, path string, data []byte, patterns []catalog.Pattern) FileResult {
	return FileResult{
		Title:   title,
		Path:    path,
		Size:    len(data),
		Format:  DetectFormat(data),
		Matches: s.Scan(title, data, patterns),
		Systems: SignatureSystems(data, catalog.Signatures()),
	}
}

// Summary computes the counters shown at the end of a file report.
func (r FileResult) Summary() FileSummary {
	summary := FileSummary{
		TotalPatterns: len(r.Matches),
		CrossTitle:    len(r.Systems) > 0,
	}
	for _, m := range r.Matches {
		if m.Confidence > highConfidence {
			summary.HighConfidence++
		}
		switch m.Category {
		case catalog.CategoryQuest:
			summary.QuestPatterns++
		case catalog.CategoryCharacter:
			summary.CharacterPatterns++
		}
	}
	return summary
}

// PatternNames returns the names of matched patterns in result order.
func (r FileResult) PatternNames() []string {
	names := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		names[i] = m.PatternName
	}
	return names
}
