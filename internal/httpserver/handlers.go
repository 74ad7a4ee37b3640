package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/averycrespi/tabserver/internal/outline"
	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/internal/results"
	"github.com/averycrespi/tabserver/internal/workspace"
	"github.com/averycrespi/tabserver/pkg/types"
	"github.com/spf13/cast"
)

// maxBodyBytes bounds POST bodies
const maxBodyBytes = 8 << 20

type handlers struct {
	backend   types.Backend
	assetsDir string
	encoding  patch.Encoding
}

func (h *handlers) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeText(w, http.StatusOK, "Hello World!")
}

func (h *handlers) ServeAsset(w http.ResponseWriter, r *http.Request) {
	if h.assetsDir == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.assetsDir, filepath.FromSlash(r.URL.Path)))
}

func (h *handlers) ServeTabs(w http.ResponseWriter, r *http.Request) {
	tabs := h.backend.Tabs()
	if tabs == nil {
		tabs = []types.Tab{}
	}
	writeJSON(w, http.StatusOK, tabs)
}

func (h *handlers) ServeTab(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get(":tabName")

	doc, err := h.backend.ResolveDocument(r.Context(), label)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, doc.Text)
}

func (h *handlers) ServeSymbols(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get(":tabName")

	symbols, err := h.backend.ResolveSymbols(r.Context(), label)
	if err != nil {
		writeError(w, r, err)
		return
	}

	nodes := outline.Flatten(symbols)
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, nodes)
		return
	}
	writeText(w, http.StatusOK, outline.Render(nodes))
}

func (h *handlers) ServeModify(w http.ResponseWriter, r *http.Request) {
	args, err := parseModifyBody(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, err)
		return
	}

	proposal, doc, err := workspace.ProposeEdit(r.Context(), h.backend, args.TabName, args.EditRequest(), h.encoding)
	if err != nil {
		writeError(w, r, err)
		return
	}

	oldText, _ := patch.Extract(doc.Text, args.Range(), h.encoding)

	slog.Debug("Proposed edit", "tab", args.TabName, "range", args.Range().String(), "proposed_file", proposal.Path)
	writeJSON(w, http.StatusOK, results.ProposeTabEditToolResult{
		Message:      "Diff view opened successfully",
		Arguments:    args,
		ProposedFile: proposal.Path,
		OldText:      oldText,
		Diff:         proposal.Diff,
	})
}

// badRequestError marks a malformed request body
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...interface{}) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

// parseModifyBody decodes a modify request. Positions may be JSON numbers
// or numeric strings but must be whole numbers.
func parseModifyBody(body io.Reader) (results.ProposeTabEditToolArgs, error) {
	var raw map[string]interface{}
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return results.ProposeTabEditToolArgs{}, badRequest("invalid JSON body: %v", err)
	}

	var args results.ProposeTabEditToolArgs

	tabName, ok := raw["tabName"].(string)
	if !ok || tabName == "" {
		return args, badRequest("tabName must be a non-empty string")
	}
	args.TabName = tabName

	newText, ok := raw["newText"].(string)
	if !ok {
		return args, badRequest("newText must be a string")
	}
	args.NewText = newText

	fields := []struct {
		name string
		dst  *int
	}{
		{"startLine", &args.StartLine},
		{"startCharacter", &args.StartCharacter},
		{"endLine", &args.EndLine},
		{"endCharacter", &args.EndCharacter},
	}
	for _, field := range fields {
		n, err := wholeNumber(raw, field.name)
		if err != nil {
			return args, err
		}
		*field.dst = n
	}
	return args, nil
}

func wholeNumber(raw map[string]interface{}, name string) (int, error) {
	v, ok := raw[name]
	if !ok || v == nil {
		return 0, badRequest("%s is required", name)
	}
	switch v.(type) {
	case float64, string:
	default:
		return 0, badRequest("%s must be a number", name)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, badRequest("%s must be a number", name)
	}
	n := cast.ToInt(f)
	if float64(n) != f {
		return 0, badRequest("%s must be a whole number, got %v", name, v)
	}
	return n, nil
}

// writeError maps err onto a status code: unknown tabs are 404, bad
// ranges and malformed bodies are 400, everything else is 500
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	id, _ := RequestIDFromContext(r.Context())

	var rangeErr *patch.RangeError
	var badReq *badRequestError
	switch {
	case errors.Is(err, types.ErrNotFound):
		writeText(w, http.StatusNotFound, "No such tab")
	case errors.As(err, &rangeErr):
		writeText(w, http.StatusBadRequest, rangeErr.Error())
	case errors.As(err, &badReq):
		writeText(w, http.StatusBadRequest, badReq.Error())
	default:
		slog.Error("Request failed", "request_id", id, "method", r.Method, "url", r.URL.Path, "error", err)
		writeText(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
