package tools

// Tool names
const (
	ToolListTabs       = "list_tabs"
	ToolReadTab        = "read_tab"
	ToolGetTabOutline  = "get_tab_outline"
	ToolProposeTabEdit = "propose_tab_edit"
)

// Lines of unchanged text shown around a proposed edit
const editContextLines = 2
