package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/averycrespi/tabserver/internal/outline"
	"github.com/averycrespi/tabserver/internal/results"
	"github.com/averycrespi/tabserver/pkg/types"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetTabOutlineTool handles tab outline requests
type GetTabOutlineTool struct {
	backend types.Backend
}

// NewGetTabOutlineTool creates a new get tab outline tool
func NewGetTabOutlineTool(backend types.Backend) *GetTabOutlineTool {
	return &GetTabOutlineTool{backend: backend}
}

// GetTool returns the MCP tool definition
func (t *GetTabOutlineTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolGetTabOutline,
		mcp.WithDescription("Get the symbol outline of an open tab. "+
			"Each line of the rendered outline reads '<Kind> <name> [startLine,startChar-endLine,endChar]' "+
			"with zero-based positions, indented two spaces per nesting level."),
		mcp.WithString("tabName", mcp.Required(), mcp.Description("Name of the tab, as returned by list_tabs")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// Handle processes the tool request
func (t *GetTabOutlineTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tabName := mcp.ParseString(req, "tabName", "")
	if tabName == "" {
		return mcp.NewToolResultError("tabName parameter is required"), nil
	}

	slog.Debug("Handling tool request", "tool", ToolGetTabOutline, "tab", tabName)

	symbols, err := t.backend.ResolveSymbols(ctx, tabName)
	if err != nil {
		slog.Error("Failed to get tab symbols", "tab", tabName, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get outline for tab %s: %v", tabName, err)), nil
	}

	nodes := outline.Flatten(symbols)
	toolResult := results.GetTabOutlineToolResult{
		TabName: tabName,
		Outline: outline.Render(nodes),
		Symbols: nodes,
	}
	if len(nodes) == 0 {
		toolResult.Message = "No symbols found in tab. " +
			"This could mean that the tab is empty or that no symbol provider supports its language."
	} else {
		toolResult.Message = fmt.Sprintf("Found %d symbols in tab.", outline.Count(nodes))
	}

	return jsonResult(toolResult), nil
}
