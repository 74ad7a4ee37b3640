package treesitter

import (
	"github.com/averycrespi/tabserver/internal/outline"
	"github.com/averycrespi/tabserver/pkg/types"
	sitter "github.com/smacker/go-tree-sitter"
)

func walkJavaScript(w *walker, root *sitter.Node) []types.DocumentSymbol {
	var symbols []types.DocumentSymbol
	for _, stmt := range namedChildren(root) {
		symbols = append(symbols, jsStatement(w, stmt)...)
	}
	return symbols
}

func jsStatement(w *walker, n *sitter.Node) []types.DocumentSymbol {
	switch n.Type() {
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			return jsStatement(w, decl)
		}
	case "function_declaration", "generator_function_declaration":
		name := w.text(n.ChildByFieldName("name"))
		return []types.DocumentSymbol{w.symbol(n, name, outline.SymbolKindFunction.Code(), []types.DocumentSymbol{})}
	case "class_declaration":
		name := w.text(n.ChildByFieldName("name"))
		return []types.DocumentSymbol{w.symbol(n, name, outline.SymbolKindClass.Code(), jsClassBody(w, n.ChildByFieldName("body")))}
	case "lexical_declaration", "variable_declaration":
		var symbols []types.DocumentSymbol
		for _, decl := range namedChildren(n) {
			if decl.Type() != "variable_declarator" {
				continue
			}
			kind := outline.SymbolKindVariable.Code()
			switch value := decl.ChildByFieldName("value"); {
			case value == nil:
			case value.Type() == "arrow_function", value.Type() == "function", value.Type() == "function_expression":
				kind = outline.SymbolKindFunction.Code()
			case value.Type() == "class":
				kind = outline.SymbolKindClass.Code()
			}
			symbols = append(symbols, w.symbol(decl, w.text(decl.ChildByFieldName("name")), kind, []types.DocumentSymbol{}))
		}
		return symbols
	}
	return nil
}

func jsClassBody(w *walker, body *sitter.Node) []types.DocumentSymbol {
	members := []types.DocumentSymbol{}
	for _, member := range namedChildren(body) {
		switch member.Type() {
		case "method_definition":
			name := w.text(member.ChildByFieldName("name"))
			kind := outline.SymbolKindMethod.Code()
			if name == "constructor" {
				kind = outline.SymbolKindConstructor.Code()
			}
			members = append(members, w.symbol(member, name, kind, []types.DocumentSymbol{}))
		case "field_definition", "public_field_definition":
			prop := member.ChildByFieldName("property")
			if prop == nil {
				prop = member.ChildByFieldName("name")
			}
			members = append(members, w.symbol(member, w.text(prop), outline.SymbolKindProperty.Code(), []types.DocumentSymbol{}))
		}
	}
	return members
}
