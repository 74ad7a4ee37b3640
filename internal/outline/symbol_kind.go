package outline

// SymbolKind represents the type of a symbol as an enum
type SymbolKind string

const (
	SymbolKindFile          SymbolKind = "File"
	SymbolKindModule        SymbolKind = "Module"
	SymbolKindNamespace     SymbolKind = "Namespace"
	SymbolKindPackage       SymbolKind = "Package"
	SymbolKindClass         SymbolKind = "Class"
	SymbolKindMethod        SymbolKind = "Method"
	SymbolKindProperty      SymbolKind = "Property"
	SymbolKindField         SymbolKind = "Field"
	SymbolKindConstructor   SymbolKind = "Constructor"
	SymbolKindEnum          SymbolKind = "Enum"
	SymbolKindInterface     SymbolKind = "Interface"
	SymbolKindFunction      SymbolKind = "Function"
	SymbolKindVariable      SymbolKind = "Variable"
	SymbolKindConstant      SymbolKind = "Constant"
	SymbolKindString        SymbolKind = "String"
	SymbolKindNumber        SymbolKind = "Number"
	SymbolKindBoolean       SymbolKind = "Boolean"
	SymbolKindArray         SymbolKind = "Array"
	SymbolKindObject        SymbolKind = "Object"
	SymbolKindKey           SymbolKind = "Key"
	SymbolKindNull          SymbolKind = "Null"
	SymbolKindEnumMember    SymbolKind = "EnumMember"
	SymbolKindStruct        SymbolKind = "Struct"
	SymbolKindEvent         SymbolKind = "Event"
	SymbolKindOperator      SymbolKind = "Operator"
	SymbolKindTypeParameter SymbolKind = "TypeParameter"
	SymbolKindUnknown       SymbolKind = "Unknown"
)

// symbolKinds is indexed by the editor's zero-based kind code.
// LSP codes are the same list shifted by one.
// See: https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#symbolKind
var symbolKinds = [...]SymbolKind{
	SymbolKindFile,
	SymbolKindModule,
	SymbolKindNamespace,
	SymbolKindPackage,
	SymbolKindClass,
	SymbolKindMethod,
	SymbolKindProperty,
	SymbolKindField,
	SymbolKindConstructor,
	SymbolKindEnum,
	SymbolKindInterface,
	SymbolKindFunction,
	SymbolKindVariable,
	SymbolKindConstant,
	SymbolKindString,
	SymbolKindNumber,
	SymbolKindBoolean,
	SymbolKindArray,
	SymbolKindObject,
	SymbolKindKey,
	SymbolKindNull,
	SymbolKindEnumMember,
	SymbolKindStruct,
	SymbolKindEvent,
	SymbolKindOperator,
	SymbolKindTypeParameter,
}

var symbolKindCodes = func() map[SymbolKind]int {
	codes := make(map[SymbolKind]int, len(symbolKinds))
	for code, kind := range symbolKinds {
		codes[kind] = code
	}
	return codes
}()

// NewSymbolKind returns the SymbolKind for an editor kind code (File = 0)
func NewSymbolKind(code int) SymbolKind {
	if code < 0 || code >= len(symbolKinds) {
		return SymbolKindUnknown
	}
	return symbolKinds[code]
}

// NewSymbolKindFromLSP returns the SymbolKind for an LSP kind code (File = 1)
func NewSymbolKindFromLSP(code int) SymbolKind {
	return NewSymbolKind(code - 1)
}

// Code returns the editor kind code, or -1 for SymbolKindUnknown
func (k SymbolKind) Code() int {
	code, ok := symbolKindCodes[k]
	if !ok {
		return -1
	}
	return code
}

// String returns the label of the kind
func (k SymbolKind) String() string {
	return string(k)
}
