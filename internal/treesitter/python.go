package treesitter

import (
	"github.com/averycrespi/tabserver/internal/outline"
	"github.com/averycrespi/tabserver/pkg/types"
	sitter "github.com/smacker/go-tree-sitter"
)

func walkPython(w *walker, root *sitter.Node) []types.DocumentSymbol {
	return pyBlock(w, root, false)
}

// pyBlock collects definitions in a module or class body. Functions
// defined directly in a class body are methods.
func pyBlock(w *walker, block *sitter.Node, inClass bool) []types.DocumentSymbol {
	symbols := []types.DocumentSymbol{}
	for _, stmt := range namedChildren(block) {
		if sym, ok := pyStatement(w, stmt, stmt, inClass); ok {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}

// pyStatement converts a definition; outer is the node whose range is
// reported, which includes decorators
func pyStatement(w *walker, outer, n *sitter.Node, inClass bool) (types.DocumentSymbol, bool) {
	switch n.Type() {
	case "decorated_definition":
		if def := n.ChildByFieldName("definition"); def != nil {
			return pyStatement(w, outer, def, inClass)
		}
	case "function_definition":
		name := w.text(n.ChildByFieldName("name"))
		kind := outline.SymbolKindFunction.Code()
		if inClass {
			kind = outline.SymbolKindMethod.Code()
			if name == "__init__" {
				kind = outline.SymbolKindConstructor.Code()
			}
		}
		return w.symbol(outer, name, kind, []types.DocumentSymbol{}), true
	case "class_definition":
		name := w.text(n.ChildByFieldName("name"))
		return w.symbol(outer, name, outline.SymbolKindClass.Code(), pyBlock(w, n.ChildByFieldName("body"), true)), true
	case "expression_statement":
		for _, child := range namedChildren(n) {
			if child.Type() != "assignment" {
				continue
			}
			left := child.ChildByFieldName("left")
			if left == nil || left.Type() != "identifier" {
				continue
			}
			kind := outline.SymbolKindVariable.Code()
			if inClass {
				kind = outline.SymbolKindProperty.Code()
			}
			return w.symbol(n, w.text(left), kind, []types.DocumentSymbol{}), true
		}
	}
	return types.DocumentSymbol{}, false
}
