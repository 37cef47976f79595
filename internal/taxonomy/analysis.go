package taxonomy

// CategorySummary counts classified decisions of one category by impact.
type CategorySummary struct {
	Count    int `json:"count"`
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
}

// Analysis is the classification of every pattern found in one save.
type Analysis struct {
	Title        string                     `json:"title"`
	Total        int                        `json:"total_patterns"`
	Classified   []Classification           `json:"classified"`
	Unclassified []string                   `json:"unclassified"`
	Summary      map[string]CategorySummary `json:"summary"`
}

// Analyze classifies each pattern name in the context of title.
func (t *Taxonomy) Analyze(patterns []string, title string) Analysis {
	analysis := Analysis{
		Title:        title,
		Total:        len(patterns),
		Classified:   []Classification{},
		Unclassified: []string{},
		Summary:      make(map[string]CategorySummary),
	}

	ctx := Context{Title: title}
	for _, p := range patterns {
		c, ok := t.Classify(p, ctx)
		if !ok {
			analysis.Unclassified = append(analysis.Unclassified, p)
			continue
		}
		analysis.Classified = append(analysis.Classified, c)

		s := analysis.Summary[c.Entry.Category]
		s.Count++
		switch c.Entry.Impact {
		case ImpactCritical:
			s.Critical++
		case ImpactMajor:
			s.Major++
		case ImpactMinor:
			s.Minor++
		}
		analysis.Summary[c.Entry.Category] = s
	}

	return analysis
}
