package cmd

import (
	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/render"
	"github.com/witcherai/savescan/internal/rerank"
	"github.com/witcherai/savescan/internal/taxonomy"
)

var (
	classifyTitle  string
	classifyRerank bool
	classifyJSON   bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <pattern>...",
	Short: "Classify pattern names against the decision taxonomy",
	Long: `Classify maps each pattern name onto the best scoring decision taxonomy
entry. Names that score 0.3 or less against every entry are reported as
unclassified.

Scoring: +0.4 for an exact match with a related name, +0.2 for every related
name that contains or is contained in the pattern, +0.2 when the title is
one the entry applies to; the sum is multiplied by the entry's confidence.

--title accepts a configured key (witcher2) or a title name ("Witcher 2").

Example:
  savescan classify questSystem roche_path --title witcher2
  savescan classify questSystem --rerank`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyTitle, "title", "t", "", `Title the patterns were found in, e.g. "Witcher 2"`)
	classifyCmd.Flags().BoolVar(&classifyRerank, "rerank", false, "Add the heuristic reliability score and order by it")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print JSON instead of a table")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	analysis := taxonomy.Default().Analyze(args, resolveTitleName(classifyTitle))

	var ranked []rerank.Ranked
	if classifyRerank {
		ranked = rerank.Rerank(analysis.Classified, nil)
	}

	out := cmd.OutOrStdout()
	if classifyJSON {
		if ranked != nil {
			return writeJSON(out, struct {
				taxonomy.Analysis
				Ranked []rerank.Ranked `json:"ranked"`
			}{analysis, ranked})
		}
		return writeJSON(out, analysis)
	}
	return render.Analysis(out, analysis, ranked)
}

// resolveTitleName maps a configured title key to its display name. Anything
// else is returned unchanged so plain names keep working without a config.
func resolveTitleName(s string) string {
	if s == "" {
		return s
	}
	cfg, err := loadConfig()
	if err != nil {
		return s
	}
	title, err := cfg.GetTitle(s)
	if err != nil {
		return s
	}
	return title.DisplayName()
}
