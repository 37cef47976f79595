package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/witcherai/savescan/internal/catalog"
	"github.com/witcherai/savescan/internal/config"
	"github.com/witcherai/savescan/internal/discovery"
	"github.com/witcherai/savescan/internal/logger"
	"github.com/witcherai/savescan/internal/pipeline"
	"github.com/witcherai/savescan/internal/scanner"
	"github.com/witcherai/savescan/internal/taxonomy"
)

// ListSavesTool handles the list_saves MCP tool.
type ListSavesTool struct {
	cfg *config.Config
}

// NewListSavesTool creates a ListSavesTool.
func NewListSavesTool(cfg *config.Config) *ListSavesTool {
	return &ListSavesTool{cfg: cfg}
}

// Definition returns the MCP tool definition for list_saves.
func (t *ListSavesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_saves",
		mcp.WithDescription("List save files of a configured title, oldest first."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title key, e.g. witcher2"),
		),
	)
}

// Handle processes the list_saves tool call.
func (t *ListSavesTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := t.cfg.GetTitle(req.GetString("title", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, err := discovery.Discover(title.DisplayName(), title.SavePath, title.EffectiveExtension())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("discovery failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s saves\n\n", title.DisplayName())
	if len(records) == 0 {
		fmt.Fprintf(&sb, "No saves found in %s\n", title.SavePath)
		return mcp.NewToolResultText(sb.String()), nil
	}
	for _, r := range records {
		fmt.Fprintf(&sb, "- %s (%d bytes, %s)\n", r.Path, r.SizeBytes, r.ModifiedAt.Format("2006-01-02 15:04:05"))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ScanSaveTool handles the scan_save MCP tool.
type ScanSaveTool struct {
	cfg     *config.Config
	catalog *catalog.Catalog
}

// NewScanSaveTool creates a ScanSaveTool.
func NewScanSaveTool(cfg *config.Config, cat *catalog.Catalog) *ScanSaveTool {
	return &ScanSaveTool{cfg: cfg, catalog: cat}
}

// Definition returns the MCP tool definition for scan_save.
func (t *ScanSaveTool) Definition() mcp.Tool {
	return mcp.NewTool("scan_save",
		mcp.WithDescription("Scan one save file for known byte signatures."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the save file"),
		),
		mcp.WithString("title",
			mcp.Description("Title the save belongs to, e.g. Witcher 2"),
		),
		mcp.WithString("category",
			mcp.Description("Restrict to one category: quest, character, political, moral, save_metadata"),
		),
	)
}

// Handle processes the scan_save tool call.
func (t *ScanSaveTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := strings.TrimSpace(req.GetString("path", ""))
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	patterns := t.catalog.All()
	if c := req.GetString("category", ""); c != "" {
		category, err := catalog.ParseCategory(c)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		patterns = t.catalog.PatternsForCategory(category)
	}

	result := scanner.New(t.cfg.Scan.MaxPositions).ScanFile(req.GetString("title", ""), path, patterns)
	if result.Failed {
		return mcp.NewToolResultError(result.Error), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Scan of %s\n\n", path)
	fmt.Fprintf(&sb, "- **Size**: %d bytes\n", result.Size)
	fmt.Fprintf(&sb, "- **Format**: %s\n", result.Format)
	fmt.Fprintf(&sb, "- **Patterns**: %d\n\n", len(result.Matches))
	for _, m := range result.Matches {
		fmt.Fprintf(&sb, "- `%s` (%s, confidence %.2f): %d occurrences, first at 0x%08X\n",
			m.PatternName, m.Category, m.Confidence, m.Count, m.Positions[0])
	}
	for _, s := range result.Systems {
		fmt.Fprintf(&sb, "- system %s\n", s)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ClassifyTool handles the classify_pattern MCP tool.
type ClassifyTool struct {
	taxonomy *taxonomy.Taxonomy
}

// NewClassifyTool creates a ClassifyTool.
func NewClassifyTool(tax *taxonomy.Taxonomy) *ClassifyTool {
	return &ClassifyTool{taxonomy: tax}
}

// Definition returns the MCP tool definition for classify_pattern.
func (t *ClassifyTool) Definition() mcp.Tool {
	return mcp.NewTool("classify_pattern",
		mcp.WithDescription("Map a discovered pattern name onto the decision taxonomy."),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Pattern name, e.g. questSystem"),
		),
		mcp.WithString("title",
			mcp.Description("Title the pattern was found in, e.g. Witcher 2"),
		),
	)
}

// Handle processes the classify_pattern tool call.
func (t *ClassifyTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern := req.GetString("pattern", "")
	if pattern == "" {
		return mcp.NewToolResultError("pattern is required"), nil
	}

	c, ok := t.taxonomy.Classify(pattern, taxonomy.Context{Title: req.GetString("title", "")})
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("`%s` is unclassified (no entry scores above %.1f)", pattern, taxonomy.Threshold)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", c.Entry.ID)
	fmt.Fprintf(&sb, "- **Category**: %s/%s\n", c.Entry.Category, c.Entry.Subcategory)
	fmt.Fprintf(&sb, "- **Description**: %s\n", c.Entry.Description)
	fmt.Fprintf(&sb, "- **Impact**: %s\n", c.Entry.Impact)
	fmt.Fprintf(&sb, "- **Score**: %.3f\n", c.Score)
	fmt.Fprintf(&sb, "- **Titles**: %s\n", strings.Join(c.Entry.Titles, ", "))
	return mcp.NewToolResultText(sb.String()), nil
}

// CrossTitleTool handles the cross_title_analysis MCP tool.
type CrossTitleTool struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	taxonomy *taxonomy.Taxonomy
	logger   *logger.Logger
}

// NewCrossTitleTool creates a CrossTitleTool.
func NewCrossTitleTool(cfg *config.Config, cat *catalog.Catalog, tax *taxonomy.Taxonomy, log *logger.Logger) *CrossTitleTool {
	return &CrossTitleTool{cfg: cfg, catalog: cat, taxonomy: tax, logger: log}
}

// Definition returns the MCP tool definition for cross_title_analysis.
func (t *CrossTitleTool) Definition() mcp.Tool {
	return mcp.NewTool("cross_title_analysis",
		mcp.WithDescription("Scan the newest save of every configured title and report patterns shared between titles."),
	)
}

// Handle processes the cross_title_analysis tool call.
func (t *CrossTitleTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orch := pipeline.New(t.catalog, t.taxonomy, scanner.New(t.cfg.Scan.MaxPositions), t.logger,
		pipeline.WithAllFiles(t.cfg.Scan.AllFiles),
	)

	result, err := orch.Run(ctx, t.cfg.ResolvedTitles())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString("## Cross-title analysis\n\n")
	fmt.Fprintf(&sb, "- **Strategy**: %s\n", result.Strategy)
	for _, tr := range result.Titles {
		fmt.Fprintf(&sb, "- **%s**: %d saves, %d patterns\n", tr.Name, tr.Summary.FileCount, len(tr.Matches()))
	}

	sb.WriteString("\n### Shared patterns\n\n")
	if len(result.CrossTitle) == 0 {
		sb.WriteString("None\n")
	}
	for _, p := range result.CrossTitle {
		fmt.Fprintf(&sb, "- `%s` in %s (transfer potential: %s)\n", p.PatternType, strings.Join(p.Titles, ", "), p.TransferPotential)
	}

	if len(result.Insights) > 0 {
		sb.WriteString("\n### Insights\n\n")
		for _, in := range result.Insights {
			fmt.Fprintf(&sb, "- %s\n", in)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
