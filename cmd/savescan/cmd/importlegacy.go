package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/database"
	"github.com/witcherai/savescan/internal/legacy"
	"github.com/witcherai/savescan/internal/render"
	"github.com/witcherai/savescan/internal/store"
)

var (
	importTitle string
	importJSON  bool
)

var importLegacyCmd = &cobra.Command{
	Use:   "import-legacy <file|->",
	Short: "Convert output of the old analysis scripts into pattern matches",
	Long: `Import-legacy reads the text output of the old hex analysis scripts and
converts every "name: value" line naming a catalog signature into a pattern
match. 0x-prefixed tokens on the line are kept as offsets. Lines naming
unknown signatures are ignored. Use - to read from stdin.

With --record (or store.enabled in the config) the matches are appended to
the pattern store.

Example:
  savescan import-legacy hex_analysis.txt --title witcher2
  python analyzer.py | savescan import-legacy - --title witcher3 --record`,
	Args: cobra.ExactArgs(1),
	RunE: runImportLegacy,
}

func init() {
	importLegacyCmd.Flags().StringVarP(&importTitle, "title", "t", "witcher2", "Title key the output belongs to")
	importLegacyCmd.Flags().BoolVar(&importJSON, "json", false, "Print JSON instead of a table")
	rootCmd.AddCommand(importLegacyCmd)
}

func runImportLegacy(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	title, err := cfg.GetTitle(importTitle)
	if err != nil {
		return fmt.Errorf("%w (configured: %v)", err, cfg.ListTitles())
	}

	output, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	matches := legacy.ParseOutput(string(output), title.DisplayName(), catalog.Default(), cfg.Scan.MaxPositions)
	log.WithTitle(title.DisplayName()).Infof("Parsed %d pattern match(es) from %s", len(matches), args[0])

	if cfg.Store.Enabled && len(matches) > 0 {
		ctx := database.SetupSignalHandler()
		s, err := store.Open(ctx, &cfg.Store, log)
		if err != nil {
			return fmt.Errorf("failed to open pattern store: %w", err)
		}
		defer s.Close()

		n, err := s.RecordMatches(ctx, title.Key, matches)
		if err != nil {
			return fmt.Errorf("failed to record matches: %w", err)
		}
		log.Infof("Recorded %d pattern(s) in the pattern store", n)
	}

	if importJSON {
		return writeJSON(cmd.OutOrStdout(), matches)
	}
	return render.Matches(cmd.OutOrStdout(), matches)
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
