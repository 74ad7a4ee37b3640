// Package workspace models an editor session: an ordered set of open
// tabs, each backed by an in-memory buffer loaded from disk.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/averycrespi/tabserver/pkg/types"
)

var _ types.Backend = &Workspace{}

type buffer struct {
	tab     types.Tab
	version int
	text    string
}

// Workspace holds the open tabs and resolves them to text, symbols and diffs
type Workspace struct {
	root      string
	providers []types.SymbolProvider
	presenter types.DiffPresenter

	mu      sync.RWMutex
	buffers []*buffer
}

// New creates an empty workspace rooted at root. Providers are asked for
// symbols in order until one supports the document.
func New(root string, presenter types.DiffPresenter, providers ...types.SymbolProvider) (*Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	return &Workspace{
		root:      absRoot,
		providers: providers,
		presenter: presenter,
	}, nil
}

// Root returns the absolute workspace root
func (w *Workspace) Root() string {
	return w.root
}

// Open loads a file into a new tab and returns it. Opening a file that is
// already open returns the existing tab.
func (w *Workspace) Open(path string) (types.Tab, error) {
	absPath := path
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(w.root, path)
	}
	absPath = filepath.Clean(absPath)

	content, err := os.ReadFile(absPath)
	if err != nil {
		return types.Tab{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, b := range w.buffers {
		if b.tab.AbsPath == absPath {
			return b.tab, nil
		}
	}

	relPath, err := filepath.Rel(w.root, absPath)
	if err != nil {
		relPath = absPath
	}

	tab := types.Tab{
		Label:   w.labelFor(absPath),
		Path:    filepath.ToSlash(relPath),
		AbsPath: absPath,
	}
	w.buffers = append(w.buffers, &buffer{tab: tab, version: 1, text: string(content)})

	slog.Debug("Opened tab", "tab", tab.Label, "path", tab.Path)
	return tab, nil
}

// labelFor returns the file's base name, qualified with its parent
// directory's name when another tab already uses that name. Labels never
// contain a slash so they fit in a URL path segment; w.mu must be held.
func (w *Workspace) labelFor(absPath string) string {
	label := filepath.Base(absPath)
	if !w.labelTaken(label) {
		return label
	}

	dir := filepath.Base(filepath.Dir(absPath))
	qualified := fmt.Sprintf("%s (%s)", label, dir)
	for i := 2; w.labelTaken(qualified); i++ {
		qualified = fmt.Sprintf("%s (%s %d)", label, dir, i)
	}
	return qualified
}

func (w *Workspace) labelTaken(label string) bool {
	for _, b := range w.buffers {
		if b.tab.Label == label {
			return true
		}
	}
	return false
}

// Close removes a tab
func (w *Workspace) Close(label string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, b := range w.buffers {
		if b.tab.Label == label {
			w.buffers = append(w.buffers[:i], w.buffers[i+1:]...)
			slog.Debug("Closed tab", "tab", label)
			return nil
		}
	}
	return fmt.Errorf("failed to close %q: %w", label, types.ErrNotFound)
}

// Tabs returns the open tabs in the order they were opened
func (w *Workspace) Tabs() []types.Tab {
	w.mu.RLock()
	defer w.mu.RUnlock()

	tabs := make([]types.Tab, len(w.buffers))
	for i, b := range w.buffers {
		tabs[i] = b.tab
	}
	return tabs
}

// find returns the buffer for label; w.mu must be held
func (w *Workspace) find(label string) (*buffer, error) {
	for _, b := range w.buffers {
		if b.tab.Label == label {
			return b, nil
		}
	}
	return nil, fmt.Errorf("tab %q: %w", label, types.ErrNotFound)
}

// ResolveDocument returns a snapshot of a tab's buffer
func (w *Workspace) ResolveDocument(ctx context.Context, label string) (types.Document, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	b, err := w.find(label)
	if err != nil {
		return types.Document{}, err
	}
	return types.Document{
		Label:   b.tab.Label,
		Path:    b.tab.AbsPath,
		Version: b.version,
		Text:    b.text,
	}, nil
}

// SetText replaces a tab's buffer without touching the file on disk
func (w *Workspace) SetText(label, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, err := w.find(label)
	if err != nil {
		return err
	}
	b.text = text
	b.version++
	return nil
}

// Reload re-reads a tab's buffer from disk
func (w *Workspace) Reload(label string) error {
	w.mu.RLock()
	b, err := w.find(label)
	var absPath string
	if err == nil {
		absPath = b.tab.AbsPath
	}
	w.mu.RUnlock()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to reload %q: %w", label, err)
	}

	if err := w.SetText(label, string(content)); err != nil {
		return err
	}
	slog.Debug("Reloaded tab", "tab", label)
	return nil
}

// ResolveSymbols returns the symbol tree of a tab's buffer. A tab no
// provider supports has an empty outline.
func (w *Workspace) ResolveSymbols(ctx context.Context, label string) ([]types.DocumentSymbol, error) {
	doc, err := w.ResolveDocument(ctx, label)
	if err != nil {
		return nil, err
	}

	for _, provider := range w.providers {
		symbols, err := provider.DocumentSymbols(ctx, doc.Path, doc.Text)
		if errors.Is(err, types.ErrUnsupported) {
			slog.Debug("Symbol provider does not support tab", "provider", provider.Name(), "tab", label)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get symbols from %s: %w", provider.Name(), err)
		}
		return symbols, nil
	}

	slog.Debug("No symbol provider for tab", "tab", label)
	return []types.DocumentSymbol{}, nil
}

// PresentDiff hands a proposed change for a tab to the diff presenter
func (w *Workspace) PresentDiff(ctx context.Context, label, original, proposed string) (types.Proposal, error) {
	w.mu.RLock()
	_, err := w.find(label)
	w.mu.RUnlock()
	if err != nil {
		return types.Proposal{}, err
	}

	if w.presenter == nil {
		return types.Proposal{Label: label}, nil
	}
	return w.presenter.Present(ctx, label, original, proposed)
}
