package diff

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/averycrespi/tabserver/pkg/project"
	"github.com/averycrespi/tabserver/pkg/types"
	"github.com/pmezard/go-difflib/difflib"
)

var _ types.DiffPresenter = &Presenter{}

const contextLines = 3

// Unified renders a unified diff between original and proposed
func Unified(name, original, proposed string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(proposed),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  contextLines,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to render diff for %s: %w", name, err)
	}
	return text, nil
}

// Presenter writes proposed text next to a unified diff so it can be
// reviewed before anything touches the real file
type Presenter struct {
	dir string
}

// NewPresenter creates a presenter writing under dir; empty dir uses the
// system temp directory
func NewPresenter(dir string) *Presenter {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), project.Name)
	}
	return &Presenter{dir: dir}
}

// Dir returns where proposed files are written
func (p *Presenter) Dir() string {
	return p.dir
}

// Present writes the proposed text to <dir>/<label> and returns the diff
func (p *Presenter) Present(ctx context.Context, label, original, proposed string) (types.Proposal, error) {
	text, err := Unified(label, original, proposed)
	if err != nil {
		return types.Proposal{}, err
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return types.Proposal{}, fmt.Errorf("failed to create proposal directory: %w", err)
	}

	path := filepath.Join(p.dir, sanitizeLabel(label))
	if err := os.WriteFile(path, []byte(proposed), 0o644); err != nil {
		return types.Proposal{}, fmt.Errorf("failed to write proposed file: %w", err)
	}

	slog.Debug("Proposed changes written", "tab", label, "path", path, "diff_bytes", len(text))

	return types.Proposal{
		Label: label,
		Path:  path,
		Diff:  text,
	}, nil
}

// sanitizeLabel keeps a tab label from escaping the proposal directory
func sanitizeLabel(label string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", "(", "", ")", "")
	name := replacer.Replace(label)
	if name == "" || name == "." || name == ".." {
		name = "untitled"
	}
	return name
}
