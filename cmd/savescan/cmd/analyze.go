package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/database"
	"github.com/witcherai/savescan/internal/pipeline"
	"github.com/witcherai/savescan/internal/render"
	"github.com/witcherai/savescan/internal/rerank"
	"github.com/witcherai/savescan/internal/scanner"
	"github.com/witcherai/savescan/internal/store"
	"github.com/witcherai/savescan/internal/taxonomy"
)

var (
	analyzeAllFiles bool
	analyzeCategory string
	analyzeRerank   bool
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [title...]",
	Short: "Scan and classify saves of several titles and find shared patterns",
	Long: `Analyze discovers the saves of each title, scans the newest one (or all
with --all-files), classifies every pattern found and reports the patterns
shared between titles. Titles are processed concurrently.

Strategy reported for the run:
  - no_analysis   no title has any save
  - single_title  exactly one title has saves
  - cross_title   two or more titles have saves

With --record (or store.enabled in the config) every match is appended to
the pattern store after the run.

Example:
  savescan analyze
  savescan analyze witcher2 witcher3 --all-files --record`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeAllFiles, "all-files", false, "Scan every save instead of only the newest")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "Only scan one category")
	analyzeCmd.Flags().BoolVar(&analyzeRerank, "rerank", false, "Show the heuristic reliability score per classification")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print JSON instead of a report")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	titles, err := selectTitles(cfg, args)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{
		pipeline.WithAllFiles(analyzeAllFiles || cfg.Scan.AllFiles),
	}

	category := cfg.Scan.Category
	if analyzeCategory != "" {
		category = analyzeCategory
	}
	if category != "" {
		c, err := catalog.ParseCategory(category)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithCategory(c))
	}

	ctx := database.SetupSignalHandler()

	if cfg.Store.Enabled {
		s, err := store.Open(ctx, &cfg.Store, log)
		if err != nil {
			return fmt.Errorf("failed to open pattern store: %w", err)
		}
		defer s.Close()
		opts = append(opts, pipeline.WithRecorder(s))
		log.Infof("Recording patterns into %s store table %s", cfg.Store.Driver, cfg.Store.Table)
	}

	orch := pipeline.New(catalog.Default(), taxonomy.Default(), scanner.New(cfg.Scan.MaxPositions), log, opts...)
	result, err := orch.Run(ctx, titles)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		return writeJSON(out, result)
	}

	if err := render.Run(out, result); err != nil {
		return err
	}

	for _, tr := range result.Titles {
		if len(tr.Analysis.Classified) == 0 && len(tr.Analysis.Unclassified) == 0 {
			continue
		}
		fmt.Fprintln(out)

		var ranked []rerank.Ranked
		if analyzeRerank {
			ranked = rerank.Rerank(tr.Analysis.Classified, occurrences(tr.Matches()))
		}
		if err := render.Analysis(out, tr.Analysis, ranked); err != nil {
			return err
		}
	}

	if result.Recorded > 0 {
		fmt.Fprintf(out, "\nRecorded %d pattern(s) in the pattern store\n", result.Recorded)
	}
	return nil
}

func occurrences(matches []scanner.PatternMatch) map[string]int {
	freq := make(map[string]int, len(matches))
	for _, m := range matches {
		freq[m.PatternName] += m.Count
	}
	return freq
}
