package types

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a tab label does not match any open document
	ErrNotFound = errors.New("no such tab")

	// ErrUnsupported is returned by a SymbolProvider that cannot handle a file
	ErrUnsupported = errors.New("unsupported document")
)

// Position represents a zero-based position in a text document
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Less reports whether p sorts before other, comparing line then character
func (p Position) Less(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// Range represents a half-open range [Start, End) in a text document
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsValid reports whether the range is non-negative and Start does not come after End
func (r Range) IsValid() bool {
	if r.Start.Line < 0 || r.Start.Character < 0 || r.End.Line < 0 || r.End.Character < 0 {
		return false
	}
	return !r.End.Less(r.Start)
}

// String formats the range as [startLine,startChar-endLine,endChar]
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d-%d,%d]", r.Start.Line, r.Start.Character, r.End.Line, r.End.Character)
}

// DocumentSymbol is a backend-native symbol as returned by a symbol provider.
// Kind holds the editor's zero-based symbol kind code; it is not validated.
type DocumentSymbol struct {
	Name     string           `json:"name"`
	Detail   string           `json:"detail,omitempty"`
	Kind     int              `json:"kind"`
	Range    Range            `json:"range"`
	Children []DocumentSymbol `json:"children,omitempty"`
}

// EditRequest replaces the text covered by Range with ReplacementText
type EditRequest struct {
	Range           Range  `json:"range"`
	ReplacementText string `json:"replacementText"`
}

// Document is a snapshot of a tab's text at the time of a request
type Document struct {
	Label   string `json:"label"`
	Path    string `json:"path"`
	Version int    `json:"version"`
	Text    string `json:"text"`
}

// Tab describes an open document in the editor session
type Tab struct {
	Label   string `json:"tabName"`
	Path    string `json:"path"`
	AbsPath string `json:"-"`
}

// Proposal is the result of presenting a before/after pair for review
type Proposal struct {
	Label string `json:"tabName"`
	Path  string `json:"proposed_file,omitempty"`
	Diff  string `json:"diff"`
}

// Backend resolves open tabs to their text and symbols
type Backend interface {
	Tabs() []Tab
	ResolveDocument(ctx context.Context, label string) (Document, error)
	ResolveSymbols(ctx context.Context, label string) ([]DocumentSymbol, error)
	PresentDiff(ctx context.Context, label, original, proposed string) (Proposal, error)
}

// SymbolProvider produces the symbol tree for a document
type SymbolProvider interface {
	Name() string
	DocumentSymbols(ctx context.Context, path string, text string) ([]DocumentSymbol, error)
}

// DiffPresenter hands a before/after pair to whatever shows the change
type DiffPresenter interface {
	Present(ctx context.Context, label, original, proposed string) (Proposal, error)
}

// Server defines a long-running transport surface
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
