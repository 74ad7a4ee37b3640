// Package treesitter produces document outlines by parsing source text
// locally, for tabs no language server is configured for.
package treesitter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/pkg/types"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

var _ types.SymbolProvider = &Provider{}

// grammar pairs a tree-sitter language with the walker that turns its
// syntax tree into symbols
type grammar struct {
	name string
	lang *sitter.Language
	walk func(w *walker, root *sitter.Node) []types.DocumentSymbol
}

// Provider parses Go, JavaScript and Python documents
type Provider struct {
	grammars map[string]grammar
	encoding patch.Encoding
}

// NewProvider creates a provider reporting columns in the given encoding
func NewProvider(encoding patch.Encoding) *Provider {
	goGrammar := grammar{name: "go", lang: golang.GetLanguage(), walk: walkGo}
	jsGrammar := grammar{name: "javascript", lang: javascript.GetLanguage(), walk: walkJavaScript}
	pyGrammar := grammar{name: "python", lang: python.GetLanguage(), walk: walkPython}

	return &Provider{
		grammars: map[string]grammar{
			".go":  goGrammar,
			".js":  jsGrammar,
			".mjs": jsGrammar,
			".cjs": jsGrammar,
			".jsx": jsGrammar,
			".py":  pyGrammar,
		},
		encoding: encoding,
	}
}

// Name identifies the provider in logs
func (p *Provider) Name() string {
	return "tree-sitter"
}

// Supports reports whether a grammar is registered for path
func (p *Provider) Supports(path string) bool {
	_, ok := p.grammars[strings.ToLower(filepath.Ext(path))]
	return ok
}

// DocumentSymbols parses text and returns its declarations.
// It returns types.ErrUnsupported for extensions without a grammar.
func (p *Provider) DocumentSymbols(ctx context.Context, path string, text string) ([]types.DocumentSymbol, error) {
	g, ok := p.grammars[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("no grammar for %s: %w", filepath.Base(path), types.ErrUnsupported)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(g.lang)

	content := []byte(text)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	defer tree.Close()

	w := &walker{content: content, encoding: p.encoding}
	symbols := g.walk(w, tree.RootNode())
	if symbols == nil {
		symbols = []types.DocumentSymbol{}
	}

	slog.Debug("Parsed document symbols", "grammar", g.name, "path", path, "count", len(symbols))
	return symbols, nil
}

// walker holds the source being walked and converts tree-sitter points,
// whose columns count bytes, into editor positions
type walker struct {
	content  []byte
	encoding patch.Encoding
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.content)
}

func (w *walker) position(offset uint32, point sitter.Point) types.Position {
	lineStart := offset - point.Column
	return types.Position{
		Line:      int(point.Row),
		Character: w.encoding.Units(string(w.content[lineStart:offset])),
	}
}

func (w *walker) rangeOf(n *sitter.Node) types.Range {
	return types.Range{
		Start: w.position(n.StartByte(), n.StartPoint()),
		End:   w.position(n.EndByte(), n.EndPoint()),
	}
}

func (w *walker) symbol(n *sitter.Node, name string, kind int, children []types.DocumentSymbol) types.DocumentSymbol {
	return types.DocumentSymbol{
		Name:     name,
		Kind:     kind,
		Range:    w.rangeOf(n),
		Children: children,
	}
}

// namedChildren returns the named children of n
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if child := n.NamedChild(i); child != nil {
			children = append(children, child)
		}
	}
	return children
}
