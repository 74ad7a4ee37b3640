package outline

import (
	"strings"

	"github.com/averycrespi/tabserver/pkg/types"
)

// SymbolNode is a normalized symbol in a document outline
type SymbolNode struct {
	Name     string       `json:"name"`
	Kind     SymbolKind   `json:"kind"`
	Range    types.Range  `json:"range"`
	Children []SymbolNode `json:"children"`
}

// Flatten converts backend symbols into SymbolNodes with the same shape and order.
// Unknown kind codes become SymbolKindUnknown; nothing is dropped or re-sorted.
func Flatten(symbols []types.DocumentSymbol) []SymbolNode {
	nodes := make([]SymbolNode, len(symbols))
	for i, sym := range symbols {
		nodes[i] = SymbolNode{
			Name:     sym.Name,
			Kind:     NewSymbolKind(sym.Kind),
			Range:    sym.Range,
			Children: Flatten(sym.Children),
		}
	}
	return nodes
}

// Render renders nodes as an indented outline, one line per node in pre-order
func Render(nodes []SymbolNode) string {
	return RenderIndent(nodes, "")
}

// RenderIndent is Render with a prefix applied to the top level.
// Each nesting level adds two spaces.
func RenderIndent(nodes []SymbolNode, indent string) string {
	type frame struct {
		node   *SymbolNode
		indent string
	}

	var b strings.Builder
	stack := make([]frame, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: &nodes[i], indent: indent})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b.WriteString(top.indent)
		b.WriteString(top.node.Kind.String())
		b.WriteByte(' ')
		b.WriteString(top.node.Name)
		b.WriteByte(' ')
		b.WriteString(top.node.Range.String())
		b.WriteByte('\n')

		children := top.node.Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: &children[i], indent: top.indent + "  "})
		}
	}

	return b.String()
}

// Count returns the total number of nodes in the tree
func Count(nodes []SymbolNode) int {
	total := len(nodes)
	for _, n := range nodes {
		total += Count(n.Children)
	}
	return total
}
