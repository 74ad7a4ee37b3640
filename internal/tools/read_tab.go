package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/internal/results"
	"github.com/averycrespi/tabserver/pkg/types"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReadTabTool handles read tab requests
type ReadTabTool struct {
	backend types.Backend
}

// NewReadTabTool creates a new read tab tool
func NewReadTabTool(backend types.Backend) *ReadTabTool {
	return &ReadTabTool{backend: backend}
}

// GetTool returns the MCP tool definition
func (t *ReadTabTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolReadTab,
		mcp.WithDescription("Read the current text of an open tab, including unsaved changes"),
		mcp.WithString("tabName", mcp.Required(), mcp.Description("Name of the tab, as returned by list_tabs")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// Handle processes the tool request
func (t *ReadTabTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tabName := mcp.ParseString(req, "tabName", "")
	if tabName == "" {
		return mcp.NewToolResultError("tabName parameter is required"), nil
	}

	slog.Debug("Handling tool request", "tool", ToolReadTab, "tab", tabName)

	doc, err := t.backend.ResolveDocument(ctx, tabName)
	if err != nil {
		slog.Error("Failed to read tab", "tab", tabName, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read tab %s: %v", tabName, err)), nil
	}

	return jsonResult(results.ReadTabToolResult{
		TabName:   doc.Label,
		Path:      doc.Path,
		Version:   doc.Version,
		LineCount: patch.LineCount(doc.Text),
		Text:      doc.Text,
	}), nil
}
