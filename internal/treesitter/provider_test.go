package treesitter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/averycrespi/tabserver/internal/outline"
	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, path, text string) []outline.SymbolNode {
	t.Helper()
	p := NewProvider(patch.EncodingUTF16)
	symbols, err := p.DocumentSymbols(context.Background(), path, text)
	require.NoError(t, err)
	return outline.Flatten(symbols)
}

func find(nodes []outline.SymbolNode, name string) (outline.SymbolNode, bool) {
	for _, n := range nodes {
		if n.Name == name {
			return n, true
		}
	}
	return outline.SymbolNode{}, false
}

func TestProvider_GoFixture(t *testing.T) {
	text, err := os.ReadFile(filepath.Join("..", "..", "testdata", "example", "calculator.go"))
	require.NoError(t, err)

	nodes := parse(t, "calculator.go", string(text))

	calc, ok := find(nodes, "Calculator")
	require.True(t, ok)
	assert.Equal(t, outline.SymbolKindStruct, calc.Kind)
	require.Len(t, calc.Children, 1)
	assert.Equal(t, "Value", calc.Children[0].Name)
	assert.Equal(t, outline.SymbolKindField, calc.Children[0].Kind)

	ctor, ok := find(nodes, "NewCalculator")
	require.True(t, ok)
	assert.Equal(t, outline.SymbolKindFunction, ctor.Kind)
	assert.Equal(t, 10, ctor.Range.Start.Line)

	add, ok := find(nodes, "(*Calculator).Add")
	require.True(t, ok)
	assert.Equal(t, outline.SymbolKindMethod, add.Kind)
}

func TestProvider_GoDeclarations(t *testing.T) {
	text := `package main

type Operation int

type Processor interface {
	Process(x, y float64) (float64, error)
}

const (
	Addition Operation = iota
	Subtraction
)

var limit, floor = 10, 0

func main() {}
`
	nodes := parse(t, "types.go", text)

	tests := []struct {
		name string
		kind outline.SymbolKind
	}{
		{name: "Operation", kind: outline.SymbolKindClass},
		{name: "Processor", kind: outline.SymbolKindInterface},
		{name: "Addition", kind: outline.SymbolKindConstant},
		{name: "Subtraction", kind: outline.SymbolKindConstant},
		{name: "limit", kind: outline.SymbolKindVariable},
		{name: "floor", kind: outline.SymbolKindVariable},
		{name: "main", kind: outline.SymbolKindFunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := find(nodes, tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, node.Kind)
		})
	}

	processor, _ := find(nodes, "Processor")
	require.Len(t, processor.Children, 1)
	assert.Equal(t, "Process", processor.Children[0].Name)
}

func TestProvider_JavaScript(t *testing.T) {
	text := `function f() {
  return 1;
}

export class Counter {
  constructor() { this.n = 0; }
  increment() { this.n++; }
}

const double = (x) => x * 2;
let total = 0;
`
	nodes := parse(t, "app.js", text)

	require.Len(t, nodes, 4)
	assert.Equal(t, "Function f [0,0-2,1]\n", outline.Render(nodes[:1]))

	counter := nodes[1]
	assert.Equal(t, "Counter", counter.Name)
	assert.Equal(t, outline.SymbolKindClass, counter.Kind)
	require.Len(t, counter.Children, 2)
	assert.Equal(t, outline.SymbolKindConstructor, counter.Children[0].Kind)
	assert.Equal(t, "increment", counter.Children[1].Name)
	assert.Equal(t, outline.SymbolKindMethod, counter.Children[1].Kind)

	assert.Equal(t, "double", nodes[2].Name)
	assert.Equal(t, outline.SymbolKindFunction, nodes[2].Kind)
	assert.Equal(t, "total", nodes[3].Name)
	assert.Equal(t, outline.SymbolKindVariable, nodes[3].Kind)
}

func TestProvider_Python(t *testing.T) {
	text := `RATE = 3

@dataclass
class Point:
    x = 0

    def __init__(self):
        pass

    def norm(self):
        return 0

def main():
    pass
`
	nodes := parse(t, "point.py", text)

	require.Len(t, nodes, 3)
	assert.Equal(t, "RATE", nodes[0].Name)
	assert.Equal(t, outline.SymbolKindVariable, nodes[0].Kind)

	point := nodes[1]
	assert.Equal(t, "Point", point.Name)
	assert.Equal(t, outline.SymbolKindClass, point.Kind)
	assert.Equal(t, 2, point.Range.Start.Line, "range includes the decorator")
	require.Len(t, point.Children, 3)
	assert.Equal(t, outline.SymbolKindProperty, point.Children[0].Kind)
	assert.Equal(t, outline.SymbolKindConstructor, point.Children[1].Kind)
	assert.Equal(t, outline.SymbolKindMethod, point.Children[2].Kind)

	assert.Equal(t, "main", nodes[2].Name)
	assert.Equal(t, outline.SymbolKindFunction, nodes[2].Kind)
}

func TestProvider_ColumnsUseEncoding(t *testing.T) {
	text := "const s = \"é😀\"; function g() {}\n"

	utf16 := NewProvider(patch.EncodingUTF16)
	symbols, err := utf16.DocumentSymbols(context.Background(), "g.js", text)
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, 17, symbols[1].Range.Start.Character)

	utf8 := NewProvider(patch.EncodingUTF8)
	symbols, err = utf8.DocumentSymbols(context.Background(), "g.js", text)
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, 20, symbols[1].Range.Start.Character)
}

func TestProvider_Unsupported(t *testing.T) {
	p := NewProvider(patch.EncodingUTF16)

	assert.False(t, p.Supports("notes.txt"))
	assert.True(t, p.Supports("Main.GO"))

	_, err := p.DocumentSymbols(context.Background(), "notes.txt", "hello")
	assert.True(t, errors.Is(err, types.ErrUnsupported))
}

func TestProvider_EmptyDocument(t *testing.T) {
	p := NewProvider(patch.EncodingUTF16)

	symbols, err := p.DocumentSymbols(context.Background(), "empty.py", "")

	require.NoError(t, err)
	assert.NotNil(t, symbols)
	assert.Empty(t, symbols)
}
