package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/render"
	"github.com/witcherai/savescan/internal/taxonomy"
)

var (
	taxonomyMappings bool
	taxonomyJSON     bool
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "List the decision taxonomy",
	Long: `Taxonomy lists the decision taxonomy entries in classification order.
With --mappings only entries that apply to more than one title are shown,
keyed by category and subcategory.

Example:
  savescan taxonomy
  savescan taxonomy --mappings --json`,
	RunE: runTaxonomy,
}

func init() {
	taxonomyCmd.Flags().BoolVar(&taxonomyMappings, "mappings", false, "Show cross-title mappings")
	taxonomyCmd.Flags().BoolVar(&taxonomyJSON, "json", false, "Print JSON instead of a table")
	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomy(cmd *cobra.Command, args []string) error {
	tax := taxonomy.Default()
	out := cmd.OutOrStdout()

	if taxonomyMappings {
		mappings := tax.CrossTitleMappings()
		if taxonomyJSON {
			return writeJSON(out, mappings)
		}
		for _, m := range mappings {
			fmt.Fprintf(out, "%s (%s, %.2f): %v in %v\n", m.Key, m.Impact, m.Confidence, m.Patterns, m.Titles)
		}
		return nil
	}

	if taxonomyJSON {
		return writeJSON(out, tax.Entries())
	}
	return render.Taxonomy(out, tax.Entries())
}
