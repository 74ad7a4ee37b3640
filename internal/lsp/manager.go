package lsp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/pkg/types"
)

var _ types.SymbolProvider = &Manager{}

// Manager routes documents to language servers by file extension and
// starts each server on first use
type Manager struct {
	servers  []types.LanguageServer
	rootDir  string
	timeout  time.Duration
	encoding patch.Encoding

	mu      sync.Mutex
	clients map[string]*Client
}

// NewManager creates a manager for the configured servers, reporting
// columns in encoding
func NewManager(servers []types.LanguageServer, rootDir string, timeout time.Duration, encoding patch.Encoding) *Manager {
	return &Manager{
		servers:  servers,
		rootDir:  rootDir,
		timeout:  timeout,
		encoding: encoding,
		clients:  make(map[string]*Client),
	}
}

// Name identifies the provider in logs
func (m *Manager) Name() string {
	return "lsp"
}

// ServerFor returns the language server configured for path
func (m *Manager) ServerFor(path string) (types.LanguageServer, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, server := range m.servers {
		for _, candidate := range server.Extensions {
			if strings.ToLower(candidate) == ext {
				return server, true
			}
		}
	}
	return types.LanguageServer{}, false
}

// DocumentSymbols asks the language server configured for path.
// It returns types.ErrUnsupported when no server handles the extension.
func (m *Manager) DocumentSymbols(ctx context.Context, path string, text string) ([]types.DocumentSymbol, error) {
	server, ok := m.ServerFor(path)
	if !ok {
		return nil, fmt.Errorf("no language server for %s: %w", filepath.Base(path), types.ErrUnsupported)
	}
	return m.client(server).DocumentSymbols(ctx, path, text)
}

func (m *Manager) client(server types.LanguageServer) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[server.Name]
	if !ok {
		c = NewClient(server, m.rootDir, m.timeout, m.encoding)
		m.clients[server.Name] = c
	}
	return c
}

// Shutdown stops every started language server
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	clients := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	m.clients = make(map[string]*Client)
	m.mu.Unlock()

	var errs []error
	for _, c := range clients {
		if err := c.Stop(ctx); err != nil {
			slog.Error("Failed to stop language server", "server", c.Name(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
