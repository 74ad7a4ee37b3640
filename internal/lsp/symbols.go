package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/pkg/types"
)

// unknownKind is an editor kind code no label maps to
const unknownKind = -1

// wireSymbol covers both DocumentSymbol and SymbolInformation. Fields are
// kept raw so one malformed field does not reject the whole response.
type wireSymbol struct {
	Name     json.RawMessage   `json:"name"`
	Detail   json.RawMessage   `json:"detail"`
	Kind     json.RawMessage   `json:"kind"`
	Range    json.RawMessage   `json:"range"`
	Location *wireLocation     `json:"location"`
	Children []json.RawMessage `json:"children"`
}

type wireLocation struct {
	Range json.RawMessage `json:"range"`
}

// decodeSymbols decodes a textDocument/documentSymbol result, which can be
// null, DocumentSymbol[] or SymbolInformation[]
func decodeSymbols(raw json.RawMessage) ([]types.DocumentSymbol, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []types.DocumentSymbol{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document symbols response: %w", err)
	}

	return decodeSymbolList(items), nil
}

func decodeSymbolList(items []json.RawMessage) []types.DocumentSymbol {
	symbols := make([]types.DocumentSymbol, len(items))
	for i, item := range items {
		symbols[i] = decodeSymbol(item)
	}
	return symbols
}

func decodeSymbol(raw json.RawMessage) types.DocumentSymbol {
	sym := types.DocumentSymbol{Kind: unknownKind}

	var w wireSymbol
	if err := json.Unmarshal(raw, &w); err != nil {
		return sym
	}

	_ = json.Unmarshal(w.Name, &sym.Name)
	_ = json.Unmarshal(w.Detail, &sym.Detail)
	sym.Kind = decodeKind(w.Kind)

	switch {
	case len(w.Range) > 0:
		sym.Range = decodeRange(w.Range)
	case w.Location != nil:
		sym.Range = decodeRange(w.Location.Range)
	}

	sym.Children = decodeSymbolList(w.Children)
	return sym
}

// decodeKind converts a 1-based LSP kind into the editor's 0-based code
func decodeKind(raw json.RawMessage) int {
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return unknownKind
	}
	if n != float64(int(n)) || n < 1 {
		return unknownKind
	}
	return int(n) - 1
}

func decodeRange(raw json.RawMessage) types.Range {
	var r types.Range
	if err := json.Unmarshal(raw, &r); err != nil {
		return types.Range{}
	}
	return r
}

// convertRanges rewrites UTF-16 columns in symbols into enc, measured
// against the text the server was given. Positions the text cannot
// resolve are left as reported.
func convertRanges(symbols []types.DocumentSymbol, text string, enc patch.Encoding) {
	if enc == patch.EncodingUTF16 {
		return
	}
	for i := range symbols {
		symbols[i].Range.Start = convertPosition(text, symbols[i].Range.Start, enc)
		symbols[i].Range.End = convertPosition(text, symbols[i].Range.End, enc)
		convertRanges(symbols[i].Children, text, enc)
	}
}

func convertPosition(text string, pos types.Position, enc patch.Encoding) types.Position {
	offset, err := patch.Offset(text, pos, patch.EncodingUTF16)
	if err != nil {
		return pos
	}
	lineStart, err := patch.Offset(text, types.Position{Line: pos.Line}, patch.EncodingUTF16)
	if err != nil {
		return pos
	}
	return types.Position{Line: pos.Line, Character: enc.Units(text[lineStart:offset])}
}
