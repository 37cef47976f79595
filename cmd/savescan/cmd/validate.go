package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/database"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and check save directories",
	Long: `Validate checks the configuration file and the environment it points to.

Checks performed:
  - Configuration syntax and required fields
  - Save directory of every configured title
  - Pattern store connectivity (when store.enabled)

A missing save directory is reported but is not an error: the title simply
has no saves yet.

Example:
  savescan validate --config savescan.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("Starting validation checks...")

	cmd.Printf("\n=== Configuration Validation ===\n")
	cmd.Printf("Config file: %s\n", GetConfigFile())
	cmd.Printf("Titles found: %d\n\n", len(cfg.Titles))

	for _, title := range cfg.ResolvedTitles() {
		cmd.Printf("--- Title: %s (%s) ---\n", title.DisplayName(), title.Key)
		cmd.Printf("Save path: %s\n", title.SavePath)
		cmd.Printf("Extension: %s\n", title.EffectiveExtension())
		if info, err := os.Stat(title.SavePath); err == nil && info.IsDir() {
			cmd.Printf("✅ Save directory present\n\n")
		} else {
			cmd.Printf("⚠️  Save directory missing\n\n")
		}
	}

	if !cfg.Store.Enabled {
		cmd.Println("Pattern store: disabled")
	} else {
		dbManager := database.NewManager(&cfg.Store)
		ctx := context.Background()

		if err := dbManager.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to pattern store: %w", err)
		}
		defer dbManager.Close()

		if err := dbManager.Ping(ctx); err != nil {
			return fmt.Errorf("pattern store connection failed: %w", err)
		}
		cmd.Printf("✅ Pattern store reachable (%s, table %s)\n", dbManager.Driver(), cfg.Store.Table)
	}

	cmd.Println("\n=== Validation Complete ===")
	return nil
}
