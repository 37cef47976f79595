// Package pipeline runs discovery, scanning and classification across all
// configured titles and joins the results for cross-title aggregation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/witcherai/savescan/internal/aggregate"
	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/config"
	"github.com/witcherai/savescan/internal/discovery"
	"github.com/witcherai/savescan/internal/logger"
	"github.com/witcherai/savescan/internal/scanner"
	"github.com/witcherai/savescan/internal/store"
	"github.com/witcherai/savescan/internal/taxonomy"
)

// Strategy describes what kind of analysis the available saves allow.
type Strategy string

const (
	StrategyNoAnalysis  Strategy = "no_analysis"
	StrategySingleTitle Strategy = "single_title"
	StrategyCrossTitle  Strategy = "cross_title"
)

// highDensity is the total match count above which a run is reported as
// having a rich save structure.
const highDensity = 10

// BatchRecorder is implemented by recorders that can write all matches of a
// title at once. Orchestrator prefers it over row-by-row Record calls.
type BatchRecorder interface {
	RecordMatches(ctx context.Context, title string, matches []scanner.PatternMatch) (int, error)
}

// Orchestrator runs one analysis pass over a set of titles.
type Orchestrator struct {
	catalog  *catalog.Catalog
	taxonomy *taxonomy.Taxonomy
	scanner  *scanner.Scanner
	logger   *logger.Logger

	recorder store.Recorder
	allFiles bool
	category catalog.Category
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder folds every run's matches into r after the join.
func WithRecorder(r store.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithAllFiles scans every discovered save instead of only the newest.
func WithAllFiles(all bool) Option {
	return func(o *Orchestrator) { o.allFiles = all }
}

// WithCategory restricts scanning to one catalog category.
func WithCategory(c catalog.Category) Option {
	return func(o *Orchestrator) { o.category = c }
}

// New creates an Orchestrator.
func New(cat *catalog.Catalog, tax *taxonomy.Taxonomy, scn *scanner.Scanner, log *logger.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	o := &Orchestrator{
		catalog:  cat,
		taxonomy: tax,
		scanner:  scn,
		logger:   log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TitleResult is everything found for one title.
type TitleResult struct {
	Key       string               `json:"key"`
	Name      string               `json:"name"`
	Directory string               `json:"directory"`
	Summary   discovery.Summary    `json:"summary"`
	Files     []scanner.FileResult `json:"files"`
	Analysis  taxonomy.Analysis    `json:"analysis"`
	Error     string               `json:"error,omitempty"`
	matches   []scanner.PatternMatch
}

// Matches returns the matches of every scanned file of this title.
func (r TitleResult) Matches() []scanner.PatternMatch {
	return r.matches
}

// RunResult is the immutable outcome of Orchestrator.Run.
type RunResult struct {
	ID         string                        `json:"id"`
	StartedAt  time.Time                     `json:"started_at"`
	Duration   time.Duration                 `json:"duration"`
	Strategy   Strategy                      `json:"strategy"`
	Titles     []TitleResult                 `json:"titles"`
	CrossTitle []aggregate.CrossTitlePattern `json:"cross_title_patterns"`
	Insights   []string                      `json:"insights"`
	Recorded   int                           `json:"recorded"`
}

// TotalMatches counts matches over all titles.
func (r *RunResult) TotalMatches() int {
	n := 0
	for _, t := range r.Titles {
		n += len(t.matches)
	}
	return n
}

// Run discovers and scans every title concurrently, one task per title, and
// aggregates once all tasks have finished. Per-title problems are reported in
// TitleResult.Error; only cancellation of ctx fails the run.
func (o *Orchestrator) Run(ctx context.Context, titles []config.TitleConfig) (*RunResult, error) {
	result := &RunResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Titles:    make([]TitleResult, len(titles)),
	}
	log := o.logger.WithRun(result.ID)
	log.Infof("Starting analysis of %d titles", len(titles))

	patterns := o.patterns()

	g, gctx := errgroup.WithContext(ctx)
	for i, title := range titles {
		g.Go(func() error {
			tr, err := o.runTitle(gctx, log, title, patterns)
			result.Titles[i] = tr
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	byTitle := make(map[string][]scanner.PatternMatch, len(result.Titles))
	for _, tr := range result.Titles {
		byTitle[tr.Name] = tr.matches
	}
	result.CrossTitle = aggregate.Aggregate(byTitle)
	result.Strategy = decideStrategy(result.Titles)

	if o.recorder != nil {
		result.Recorded = o.record(ctx, log, result.Titles)
	}

	result.Insights = insights(result)
	result.Duration = time.Since(result.StartedAt)

	log.Infof("Analysis complete: strategy=%s, %d matches, %d cross-title patterns, duration: %s",
		result.Strategy, result.TotalMatches(), len(result.CrossTitle), result.Duration)
	return result, nil
}

func (o *Orchestrator) patterns() []catalog.Pattern {
	if o.category != "" {
		return o.catalog.PatternsForCategory(o.category)
	}
	return o.catalog.All()
}

func (o *Orchestrator) runTitle(ctx context.Context, runLog *logger.Logger, title config.TitleConfig, patterns []catalog.Pattern) (TitleResult, error) {
	name := title.DisplayName()
	log := runLog.WithTitle(name)

	tr := TitleResult{
		Key:       title.Key,
		Name:      name,
		Directory: title.SavePath,
		Files:     []scanner.FileResult{},
		matches:   []scanner.PatternMatch{},
	}

	records, err := discovery.Discover(name, title.SavePath, title.EffectiveExtension())
	if err != nil {
		log.Warnf("Discovery failed: %v", err)
		tr.Error = err.Error()
		tr.Summary = discovery.Summarize(name, nil)
		tr.Analysis = o.taxonomy.Analyze(nil, name)
		return tr, nil
	}
	tr.Summary = discovery.Summarize(name, records)

	if len(records) == 0 {
		log.Infof("No saves found in %s", title.SavePath)
		tr.Analysis = o.taxonomy.Analyze(nil, name)
		return tr, nil
	}
	log.Infof("Found %d saves (%.1fMB)", tr.Summary.FileCount, tr.Summary.TotalMB())

	targets := records[len(records)-1:]
	if o.allFiles {
		targets = records
	}

	for _, rec := range targets {
		if err := ctx.Err(); err != nil {
			return tr, err
		}
		fr := o.scanner.ScanFile(name, rec.Path, patterns)
		if fr.Failed {
			log.WithFile(rec.Path).Warnf("Scan failed: %s", fr.Error)
		} else {
			log.WithFile(rec.Path).Debugf("Scanned %d bytes, %d patterns", fr.Size, len(fr.Matches))
		}
		tr.Files = append(tr.Files, fr)
		tr.matches = append(tr.matches, fr.Matches...)
	}

	tr.Analysis = o.taxonomy.Analyze(uniqueNames(tr.matches), name)
	return tr, nil
}

func (o *Orchestrator) record(ctx context.Context, log *logger.Logger, titles []TitleResult) int {
	total := 0
	for _, tr := range titles {
		if len(tr.matches) == 0 {
			continue
		}
		if batch, ok := o.recorder.(BatchRecorder); ok {
			n, err := batch.RecordMatches(ctx, tr.Key, tr.matches)
			if err != nil {
				log.WithTitle(tr.Name).Warnf("Failed to record patterns: %v", err)
				continue
			}
			total += n
			continue
		}
		for _, m := range tr.matches {
			if err := o.recorder.Record(ctx, m.PatternName, string(m.Category), tr.Key, m.Confidence); err != nil {
				log.WithTitle(tr.Name).Warnf("Failed to record pattern %q: %v", m.PatternName, err)
				continue
			}
			total++
		}
	}
	return total
}

func decideStrategy(titles []TitleResult) Strategy {
	withSaves := 0
	for _, t := range titles {
		if t.Summary.FileCount > 0 {
			withSaves++
		}
	}
	switch {
	case withSaves == 0:
		return StrategyNoAnalysis
	case withSaves == 1:
		return StrategySingleTitle
	default:
		return StrategyCrossTitle
	}
}

func insights(r *RunResult) []string {
	out := []string{}
	if len(r.CrossTitle) > 0 {
		out = append(out, fmt.Sprintf("Discovered %d pattern types shared across titles", len(r.CrossTitle)))
	}
	if r.TotalMatches() > highDensity {
		out = append(out, "High pattern density suggests rich save file structure")
	}
	if r.Recorded > 0 {
		out = append(out, "Patterns stored in knowledge database")
	}
	return out
}

func uniqueNames(matches []scanner.PatternMatch) []string {
	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		if seen[m.PatternName] {
			continue
		}
		seen[m.PatternName] = true
		names = append(names, m.PatternName)
	}
	return names
}
