package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/averycrespi/tabserver/internal/results"
	"github.com/averycrespi/tabserver/pkg/types"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListTabsTool handles list tabs requests
type ListTabsTool struct {
	backend types.Backend
}

// NewListTabsTool creates a new list tabs tool
func NewListTabsTool(backend types.Backend) *ListTabsTool {
	return &ListTabsTool{backend: backend}
}

// GetTool returns the MCP tool definition
func (t *ListTabsTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolListTabs,
		mcp.WithDescription("List the tabs open in the editor session, returning each tab's name and workspace-relative path"),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// Handle processes the tool request
func (t *ListTabsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slog.Debug("Handling tool request", "tool", ToolListTabs)

	tabs := t.backend.Tabs()
	toolResult := results.ListTabsToolResult{Tabs: tabs}
	if len(tabs) == 0 {
		toolResult.Message = "No tabs are open."
		toolResult.Tabs = []types.Tab{}
	} else {
		toolResult.Message = fmt.Sprintf("Found %d open tabs.", len(tabs))
	}

	return jsonResult(toolResult), nil
}
