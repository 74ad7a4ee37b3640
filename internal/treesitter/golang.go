package treesitter

import (
	"github.com/averycrespi/tabserver/internal/outline"
	"github.com/averycrespi/tabserver/pkg/types"
	sitter "github.com/smacker/go-tree-sitter"
)

func walkGo(w *walker, root *sitter.Node) []types.DocumentSymbol {
	var symbols []types.DocumentSymbol
	for _, decl := range namedChildren(root) {
		switch decl.Type() {
		case "function_declaration":
			name := w.text(decl.ChildByFieldName("name"))
			symbols = append(symbols, w.symbol(decl, name, outline.SymbolKindFunction.Code(), []types.DocumentSymbol{}))
		case "method_declaration":
			name := w.text(decl.ChildByFieldName("name"))
			if recv := goReceiverType(w, decl.ChildByFieldName("receiver")); recv != "" {
				name = "(" + recv + ")." + name
			}
			symbols = append(symbols, w.symbol(decl, name, outline.SymbolKindMethod.Code(), []types.DocumentSymbol{}))
		case "type_declaration":
			for _, spec := range namedChildren(decl) {
				if spec.Type() == "type_spec" || spec.Type() == "type_alias" {
					symbols = append(symbols, goTypeSpec(w, spec))
				}
			}
		case "const_declaration":
			symbols = append(symbols, goValueSpecs(w, decl, "const_spec", outline.SymbolKindConstant.Code())...)
		case "var_declaration":
			symbols = append(symbols, goValueSpecs(w, decl, "var_spec", outline.SymbolKindVariable.Code())...)
		}
	}
	return symbols
}

// goReceiverType returns the receiver's type as written, such as *Calculator
func goReceiverType(w *walker, params *sitter.Node) string {
	for _, param := range namedChildren(params) {
		if param.Type() == "parameter_declaration" {
			return w.text(param.ChildByFieldName("type"))
		}
	}
	return ""
}

func goTypeSpec(w *walker, spec *sitter.Node) types.DocumentSymbol {
	name := w.text(spec.ChildByFieldName("name"))
	typ := spec.ChildByFieldName("type")
	if typ == nil {
		return w.symbol(spec, name, outline.SymbolKindClass.Code(), []types.DocumentSymbol{})
	}

	switch typ.Type() {
	case "struct_type":
		var fields []types.DocumentSymbol
		for _, list := range namedChildren(typ) {
			if list.Type() != "field_declaration_list" {
				continue
			}
			for _, field := range namedChildren(list) {
				if field.Type() == "field_declaration" {
					fields = append(fields, goFields(w, field)...)
				}
			}
		}
		return w.symbol(spec, name, outline.SymbolKindStruct.Code(), nonNil(fields))
	case "interface_type":
		var methods []types.DocumentSymbol
		for _, elem := range namedChildren(typ) {
			if elem.Type() == "method_spec" || elem.Type() == "method_elem" {
				methods = append(methods, w.symbol(elem, w.text(elem.ChildByFieldName("name")), outline.SymbolKindMethod.Code(), []types.DocumentSymbol{}))
			}
		}
		return w.symbol(spec, name, outline.SymbolKindInterface.Code(), nonNil(methods))
	default:
		return w.symbol(spec, name, outline.SymbolKindClass.Code(), []types.DocumentSymbol{})
	}
}

// goFields returns one symbol per name in a field declaration; an
// embedded field is named after its type
func goFields(w *walker, field *sitter.Node) []types.DocumentSymbol {
	var fields []types.DocumentSymbol
	for _, child := range namedChildren(field) {
		if child.Type() == "field_identifier" {
			fields = append(fields, w.symbol(field, w.text(child), outline.SymbolKindField.Code(), []types.DocumentSymbol{}))
		}
	}
	if len(fields) == 0 {
		fields = append(fields, w.symbol(field, w.text(field.ChildByFieldName("type")), outline.SymbolKindField.Code(), []types.DocumentSymbol{}))
	}
	return fields
}

// goValueSpecs returns one symbol per identifier declared by a const or var block
func goValueSpecs(w *walker, decl *sitter.Node, specType string, kind int) []types.DocumentSymbol {
	var symbols []types.DocumentSymbol
	specs := []*sitter.Node{decl}
	for len(specs) > 0 {
		n := specs[0]
		specs = specs[1:]
		for _, child := range namedChildren(n) {
			switch child.Type() {
			case specType:
				for _, ident := range namedChildren(child) {
					if ident.Type() == "identifier" {
						symbols = append(symbols, w.symbol(child, w.text(ident), kind, []types.DocumentSymbol{}))
					}
				}
			case "var_spec_list":
				specs = append(specs, child)
			}
		}
	}
	return symbols
}

func nonNil(symbols []types.DocumentSymbol) []types.DocumentSymbol {
	if symbols == nil {
		return []types.DocumentSymbol{}
	}
	return symbols
}
