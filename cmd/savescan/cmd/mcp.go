package cmd

import (
	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/mcpserver"
	"github.com/witcherai/savescan/internal/taxonomy"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP tool server on stdio",
	Long: `Mcp runs a Model Context Protocol server on stdin/stdout exposing the
save analysis as tools:

  list_saves             saves of a title, newest last
  scan_save              scan one save file for catalog signatures
  classify_pattern       classify a pattern name against the taxonomy
  cross_title_analysis   patterns shared by the configured titles

Logs are written to stderr so they never corrupt the protocol stream.

Example:
  savescan mcp --config savescan.yaml`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	s := mcpserver.New(cfg, catalog.Default(), taxonomy.Default(), log, Version)
	log.Infof("MCP server ready on stdio (%d title(s))", len(cfg.Titles))
	return mcpserver.ServeStdio(s)
}
