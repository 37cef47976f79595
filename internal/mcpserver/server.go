// Package mcpserver exposes save discovery, scanning and classification as
// MCP tools over stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/config"
	"github.com/witcherai/savescan/internal/logger"
	"github.com/witcherai/savescan/internal/taxonomy"
)

const serverName = "savescan"

// New builds the MCP server with every tool registered.
func New(cfg *config.Config, cat *catalog.Catalog, tax *taxonomy.Taxonomy, log *logger.Logger, version string) *server.MCPServer {
	if log == nil {
		log = logger.NewNop()
	}

	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	listSaves := NewListSavesTool(cfg)
	s.AddTool(listSaves.Definition(), listSaves.Handle)

	scanSave := NewScanSaveTool(cfg, cat)
	s.AddTool(scanSave.Definition(), scanSave.Handle)

	classify := NewClassifyTool(tax)
	s.AddTool(classify.Definition(), classify.Handle)

	crossTitle := NewCrossTitleTool(cfg, cat, tax, log)
	s.AddTool(crossTitle.Definition(), crossTitle.Handle)

	return s
}

// ServeStdio runs s on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
