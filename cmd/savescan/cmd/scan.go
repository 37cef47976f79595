package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/discovery"
	"github.com/witcherai/savescan/internal/render"
	"github.com/witcherai/savescan/internal/scanner"
)

const defaultHexDump = 256

var (
	scanTitle    string
	scanCategory string
	scanHex      int
	scanJSON     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [save-file]",
	Short: "Scan a save file for known byte signatures",
	Long: `Scan reads one save file and reports every catalog signature found in it,
highest confidence first, with the detected container format, the
cross-title signature systems present and a hex dump of the first bytes.

Without a file argument the newest save of --title is scanned.

Example:
  savescan scan ~/saves/AutoSave_0042.sav --title witcher2
  savescan scan --title witcher3 --category quest --hex 0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanTitle, "title", "t", "", "Title key the save belongs to")
	scanCmd.Flags().StringVar(&scanCategory, "category", "", "Only scan one category (quest, character, political, moral, save_metadata)")
	scanCmd.Flags().IntVar(&scanHex, "hex", defaultHexDump, "Bytes to include in the hex dump (0 disables)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print JSON instead of a report")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	cat := catalog.Default()
	patterns := cat.All()
	if scanCategory != "" {
		category, err := catalog.ParseCategory(scanCategory)
		if err != nil {
			return err
		}
		patterns = cat.PatternsForCategory(category)
	}

	titleName := ""
	if scanTitle != "" {
		title, err := cfg.GetTitle(scanTitle)
		if err != nil {
			return err
		}
		titleName = title.DisplayName()

		if len(args) == 0 {
			records, err := discovery.Discover(titleName, title.SavePath, title.EffectiveExtension())
			if err != nil {
				return fmt.Errorf("failed to discover %s saves: %w", titleName, err)
			}
			if len(records) == 0 {
				return fmt.Errorf("no %s saves found in %s", titleName, title.SavePath)
			}
			args = []string{records[len(records)-1].Path}
		}
	}
	if len(args) == 0 {
		return errors.New("a save file or --title is required")
	}
	path := args[0]

	log.WithFile(path).Infof("Scanning with %d patterns", len(patterns))

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read save file: %w", err)
	}
	result := scanner.New(cfg.Scan.MaxPositions).ScanBytes(titleName, path, data, patterns)

	out := cmd.OutOrStdout()
	if scanJSON {
		return writeJSON(out, result)
	}
	return render.FileReport(out, result, data, scanHex)
}
