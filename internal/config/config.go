package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/pkg/types"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the workspace root
const FileName = "tabserver.yaml"

const (
	DefaultAddr       = ":3000"
	DefaultLogLevel   = "info"
	DefaultLSPTimeout = 10 * time.Second
)

// Default returns the configuration used when no file is present
func Default() types.Config {
	return types.Config{
		Addr:             DefaultAddr,
		WorkspaceRoot:    ".",
		LogLevel:         DefaultLogLevel,
		LSPTimeout:       DefaultLSPTimeout,
		PositionEncoding: patch.EncodingUTF16.String(),
		CORS: types.CORSConfig{
			AllowedOrigins: []string{"https://chat.openai.com"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"content-type", "openai-conversation-id", "openai-ephemeral-user-id"},
		},
	}
}

// DefaultPath returns the config file path within the workspace root
func DefaultPath(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, FileName)
}

// Load reads the config file at path over the defaults. A missing file
// yields the defaults when optional is true.
func Load(path string, optional bool) (types.Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return types.Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	ApplyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return types.Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyDefaults fills fields left empty
func ApplyDefaults(cfg *types.Config) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.WorkspaceRoot == "" {
		cfg.WorkspaceRoot = "."
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LSPTimeout <= 0 {
		cfg.LSPTimeout = DefaultLSPTimeout
	}
	if cfg.PositionEncoding == "" {
		cfg.PositionEncoding = patch.EncodingUTF16.String()
	}
	for i := range cfg.LanguageServers {
		if cfg.LanguageServers[i].LanguageID == "" {
			cfg.LanguageServers[i].LanguageID = cfg.LanguageServers[i].Name
		}
	}
}

// Validate rejects unknown log levels and encodings and incomplete
// language server entries
func Validate(cfg types.Config) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	if _, err := patch.ParseEncoding(cfg.PositionEncoding); err != nil {
		return err
	}

	names := make(map[string]bool)
	for i, server := range cfg.LanguageServers {
		if server.Name == "" {
			return fmt.Errorf("language server %d has no name", i)
		}
		if names[server.Name] {
			return fmt.Errorf("language server %q is configured twice", server.Name)
		}
		names[server.Name] = true
		if server.Command == "" {
			return fmt.Errorf("language server %q has no command", server.Name)
		}
		if len(server.Extensions) == 0 {
			return fmt.Errorf("language server %q has no extensions", server.Name)
		}
		for _, ext := range server.Extensions {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("language server %q: extension %q must start with a dot", server.Name, ext)
			}
		}
	}
	return nil
}
