package types

import "time"

// Config represents the configuration for the tabserver
type Config struct {
	Addr             string           `yaml:"addr"`
	WorkspaceRoot    string           `yaml:"workspace_root"`
	LogLevel         string           `yaml:"log_level"`
	AssetsDir        string           `yaml:"assets_dir"`
	Tabs             []string         `yaml:"tabs"`
	CORS             CORSConfig       `yaml:"cors"`
	LanguageServers  []LanguageServer `yaml:"language_servers"`
	LSPTimeout       time.Duration    `yaml:"lsp_timeout"`
	PositionEncoding string           `yaml:"position_encoding"`
	TreeSitter       *bool            `yaml:"tree_sitter"`
}

// CORSConfig lists what cross-origin callers may do
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// LanguageServer configures an external language server process
type LanguageServer struct {
	Name       string   `yaml:"name"`
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	LanguageID string   `yaml:"language_id"`
	Extensions []string `yaml:"extensions"`
}

// TreeSitterEnabled reports whether the tree-sitter fallback is on (default true)
func (c *Config) TreeSitterEnabled() bool {
	return c.TreeSitter == nil || *c.TreeSitter
}
