package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/averycrespi/tabserver/internal/diff"
	"github.com/averycrespi/tabserver/internal/lsp"
	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/internal/treesitter"
	"github.com/averycrespi/tabserver/internal/workspace"
	"github.com/averycrespi/tabserver/pkg/types"
)

// app holds the pieces shared by every command
type app struct {
	encoding  patch.Encoding
	manager   *lsp.Manager
	workspace *workspace.Workspace
}

func newApp(cfg types.Config) (*app, error) {
	encoding, err := patch.ParseEncoding(cfg.PositionEncoding)
	if err != nil {
		return nil, err
	}

	root, err := filepath.Abs(cfg.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	if stat, err := os.Stat(root); err != nil || !stat.IsDir() {
		return nil, fmt.Errorf("invalid workspace root: %s", cfg.WorkspaceRoot)
	}

	manager := lsp.NewManager(cfg.LanguageServers, root, cfg.LSPTimeout, encoding)
	providers := []types.SymbolProvider{manager}
	if cfg.TreeSitterEnabled() {
		providers = append(providers, treesitter.NewProvider(encoding))
	}

	ws, err := workspace.New(root, diff.NewPresenter(""), providers...)
	if err != nil {
		return nil, err
	}

	slog.Debug("Workspace ready", "root", root, "encoding", encoding.String(), "language_servers", len(cfg.LanguageServers))
	return &app{encoding: encoding, manager: manager, workspace: ws}, nil
}

// openTabs opens each path as a tab, in order
func (a *app) openTabs(paths []string) error {
	for _, path := range paths {
		tab, err := a.workspace.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		slog.Info("Opened tab", "tab", tab.Label, "path", tab.Path)
	}
	return nil
}

// shutdown stops any language servers that were started
func (a *app) shutdown(ctx context.Context) {
	if err := a.manager.Shutdown(ctx); err != nil {
		slog.Warn("Failed to shut down language servers", "error", err)
	}
}
