package results

import (
	"github.com/averycrespi/tabserver/internal/outline"
	"github.com/averycrespi/tabserver/pkg/types"
)

// ListTabsToolResult represents the result of the list_tabs tool
type ListTabsToolResult struct {
	Message string      `json:"message"`
	Tabs    []types.Tab `json:"tabs"`
}

// ReadTabToolResult represents the result of the read_tab tool
type ReadTabToolResult struct {
	TabName   string `json:"tabName"`
	Path      string `json:"path"`
	Version   int    `json:"version"`
	LineCount int    `json:"line_count"`
	Text      string `json:"text"`
}

// GetTabOutlineToolResult represents the result of the get_tab_outline tool
type GetTabOutlineToolResult struct {
	TabName string               `json:"tabName"`
	Message string               `json:"message"`
	Outline string               `json:"outline"`
	Symbols []outline.SymbolNode `json:"symbols"`
}

// ProposeTabEditToolResult represents the result of the propose_tab_edit tool
type ProposeTabEditToolResult struct {
	Message      string                 `json:"message"`
	Arguments    ProposeTabEditToolArgs `json:"arguments"`
	ProposedFile string                 `json:"proposed_file,omitempty"`
	OldText      string                 `json:"old_text"`
	Diff         string                 `json:"diff"`
	Source       *SourceContext         `json:"source,omitempty"`
}

// ProposeTabEditToolArgs represents the input arguments for the propose tab edit tool
type ProposeTabEditToolArgs struct {
	TabName        string `json:"tabName"`
	StartLine      int    `json:"startLine"`      // Zero-based
	StartCharacter int    `json:"startCharacter"` // Zero-based, in position encoding units
	EndLine        int    `json:"endLine"`
	EndCharacter   int    `json:"endCharacter"`
	NewText        string `json:"newText"`
}

// Range returns the edited range
func (a ProposeTabEditToolArgs) Range() types.Range {
	return types.Range{
		Start: types.Position{Line: a.StartLine, Character: a.StartCharacter},
		End:   types.Position{Line: a.EndLine, Character: a.EndCharacter},
	}
}

// EditRequest converts the arguments into an edit request
func (a ProposeTabEditToolArgs) EditRequest() types.EditRequest {
	return types.EditRequest{Range: a.Range(), ReplacementText: a.NewText}
}
