package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/discovery"
	"github.com/witcherai/savescan/internal/render"
)

var discoverJSON bool

var discoverCmd = &cobra.Command{
	Use:   "discover [title...]",
	Short: "List save files for configured titles",
	Long: `Discover lists the save files of each configured title, oldest first.
A missing save folder is reported as an empty list, not an error.

Without arguments every configured title is listed.

Example:
  savescan discover
  savescan discover witcher2 --json`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Print JSON instead of a table")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	titles, err := selectTitles(cfg, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	summaries := make([]discovery.Summary, 0, len(titles))
	listings := make(map[string][]discovery.SaveFileRecord, len(titles))

	for _, title := range titles {
		name := title.DisplayName()
		records, err := discovery.Discover(name, title.SavePath, title.EffectiveExtension())
		if err != nil {
			return fmt.Errorf("failed to discover %s saves: %w", name, err)
		}
		log.WithTitle(name).Debugf("Found %d saves in %s", len(records), title.SavePath)

		summaries = append(summaries, discovery.Summarize(name, records))
		listings[title.Key] = records
	}

	if discoverJSON {
		return writeJSON(out, listings)
	}

	for i, title := range titles {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := render.Saves(out, summaries[i], listings[title.Key]); err != nil {
			return err
		}
		if summaries[i].FileCount == 0 {
			fmt.Fprintf(out, "  (no saves in %s)\n", title.SavePath)
		}
	}
	return nil
}
