package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/averycrespi/tabserver/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingOptionalFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName), true)

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.TreeSitterEnabled())
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName), false)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
addr: 127.0.0.1:8080
workspace_root: /src/project
log_level: debug
assets_dir: /srv/assets
tabs:
  - main.go
  - README.md
cors:
  allowed_origins: ["*"]
lsp_timeout: 3s
position_encoding: utf-8
tree_sitter: false
language_servers:
  - name: gopls
    command: gopls
    args: ["serve"]
    extensions: [".go"]
`)

	cfg, err := Load(path, false)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, "/src/project", cfg.WorkspaceRoot)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/srv/assets", cfg.AssetsDir)
	assert.Equal(t, []string{"main.go", "README.md"}, cfg.Tabs)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, Default().CORS.AllowedMethods, cfg.CORS.AllowedMethods, "unset nested fields keep defaults")
	assert.Equal(t, 3*time.Second, cfg.LSPTimeout)
	assert.Equal(t, "utf-8", cfg.PositionEncoding)
	assert.False(t, cfg.TreeSitterEnabled())
	require.Len(t, cfg.LanguageServers, 1)
	assert.Equal(t, types.LanguageServer{
		Name:       "gopls",
		Command:    "gopls",
		Args:       []string{"serve"},
		LanguageID: "gopls",
		Extensions: []string{".go"},
	}, cfg.LanguageServers[0])
}

func TestLoad_InvalidFiles(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{name: "Malformed YAML", content: "addr: [", contains: "failed to parse config"},
		{name: "Unknown log level", content: "log_level: loud", contains: "unknown log level"},
		{name: "Unknown encoding", content: "position_encoding: latin-1", contains: "latin-1"},
		{
			name:     "Server without command",
			content:  "language_servers:\n  - name: pyright\n    extensions: [\".py\"]\n",
			contains: "has no command",
		},
		{
			name:     "Extension without dot",
			content:  "language_servers:\n  - name: gopls\n    command: gopls\n    extensions: [\"go\"]\n",
			contains: "must start with a dot",
		},
		{
			name:     "Duplicate server",
			content:  "language_servers:\n  - {name: gopls, command: gopls, extensions: [\".go\"]}\n  - {name: gopls, command: gopls, extensions: [\".go\"]}\n",
			contains: "configured twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := types.Config{}

	ApplyDefaults(&cfg)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, ".", cfg.WorkspaceRoot)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLSPTimeout, cfg.LSPTimeout)
	assert.Equal(t, "utf-16", cfg.PositionEncoding)
	assert.NoError(t, Validate(cfg))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/src", "tabserver.yaml"), DefaultPath("/src"))
}
