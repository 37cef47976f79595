package cmd

import (
	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/render"
)

var patternsCategory string

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the built-in byte signature catalog",
	Long: `Patterns lists every signature the scanner searches for, in catalog order.

Example:
  savescan patterns
  savescan patterns --category character`,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().StringVar(&patternsCategory, "category", "", "Only list one category")
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	cat := catalog.Default()
	patterns := cat.All()
	if patternsCategory != "" {
		c, err := catalog.ParseCategory(patternsCategory)
		if err != nil {
			return err
		}
		patterns = cat.PatternsForCategory(c)
	}
	return render.Patterns(cmd.OutOrStdout(), patterns)
}
