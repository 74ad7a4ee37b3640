package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/internal/results"
	"github.com/averycrespi/tabserver/internal/workspace"
	"github.com/averycrespi/tabserver/pkg/types"

	"github.com/mark3labs/mcp-go/mcp"
)

// ProposeTabEditTool handles proposed edit requests
type ProposeTabEditTool struct {
	backend  types.Backend
	encoding patch.Encoding
}

// NewProposeTabEditTool creates a new propose tab edit tool
func NewProposeTabEditTool(backend types.Backend, encoding patch.Encoding) *ProposeTabEditTool {
	return &ProposeTabEditTool{backend: backend, encoding: encoding}
}

// GetTool returns the MCP tool definition
func (t *ProposeTabEditTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolProposeTabEdit,
		mcp.WithDescription("Propose replacing a range of an open tab with new text. "+
			"The change is shown as a diff for review and is never written to the tab."),
		mcp.WithString("tabName", mcp.Required(), mcp.Description("Name of the tab, as returned by list_tabs")),
		mcp.WithNumber("startLine", mcp.Required(), mcp.Description("Zero-based start line")),
		mcp.WithNumber("startCharacter", mcp.Required(), mcp.Description("Zero-based start character")),
		mcp.WithNumber("endLine", mcp.Required(), mcp.Description("Zero-based end line")),
		mcp.WithNumber("endCharacter", mcp.Required(), mcp.Description("Zero-based end character")),
		mcp.WithString("newText", mcp.Required(), mcp.Description("Replacement text; empty to delete the range")),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

// Handle processes the tool request
func (t *ProposeTabEditTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := t.parseArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	slog.Debug("Handling tool request", "tool", ToolProposeTabEdit, "tab", args.TabName, "range", args.Range().String())

	proposal, doc, err := workspace.ProposeEdit(ctx, t.backend, args.TabName, args.EditRequest(), t.encoding)
	if err != nil {
		var rangeErr *patch.RangeError
		if errors.As(err, &rangeErr) {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid range %s: %v", args.Range(), rangeErr)), nil
		}
		slog.Error("Failed to propose edit", "tab", args.TabName, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to propose edit for tab %s: %v", args.TabName, err)), nil
	}

	// The range was validated by ProposeEdit
	oldText, _ := patch.Extract(doc.Text, args.Range(), t.encoding)

	toolResult := results.ProposeTabEditToolResult{
		Arguments:    args,
		ProposedFile: proposal.Path,
		OldText:      oldText,
		Diff:         proposal.Diff,
		Source:       results.NewSourceContext(doc.Text, args.StartLine, args.EndLine, editContextLines),
	}
	if proposal.Diff == "" {
		toolResult.Message = "The proposed edit does not change the tab."
	} else {
		toolResult.Message = "Diff view opened successfully"
	}

	return jsonResult(toolResult), nil
}

func (t *ProposeTabEditTool) parseArgs(req mcp.CallToolRequest) (results.ProposeTabEditToolArgs, error) {
	args := results.ProposeTabEditToolArgs{
		TabName: mcp.ParseString(req, "tabName", ""),
		NewText: mcp.ParseString(req, "newText", ""),
	}
	if args.TabName == "" {
		return args, errors.New("tabName parameter is required")
	}

	var err error
	if args.StartLine, err = getInt(req, "startLine"); err != nil {
		return args, err
	}
	if args.StartCharacter, err = getInt(req, "startCharacter"); err != nil {
		return args, err
	}
	if args.EndLine, err = getInt(req, "endLine"); err != nil {
		return args, err
	}
	if args.EndCharacter, err = getInt(req, "endCharacter"); err != nil {
		return args, err
	}
	return args, nil
}
