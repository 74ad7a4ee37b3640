package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/pkg/project"
	"github.com/averycrespi/tabserver/pkg/types"
	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

const defaultRequestTimeout = 10 * time.Second

var _ types.SymbolProvider = &Client{}

// Client talks to one language server process over stdio
type Client struct {
	cfg      types.LanguageServer
	rootDir  string
	timeout  time.Duration
	encoding patch.Encoding

	mu     sync.Mutex
	cmd    *exec.Cmd
	conn   *jsonrpc2.Conn
	cancel context.CancelFunc
	opened map[protocol.DocumentURI]openDocument
}

type openDocument struct {
	version int32
	text    string
}

// NewClient creates a client for the configured language server. Symbol
// ranges are reported with columns in encoding.
func NewClient(cfg types.LanguageServer, rootDir string, timeout time.Duration, encoding patch.Encoding) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		cfg:      cfg,
		rootDir:  rootDir,
		timeout:  timeout,
		encoding: encoding,
		opened:   make(map[protocol.DocumentURI]openDocument),
	}
}

// Name returns the configured server name
func (c *Client) Name() string {
	return c.cfg.Name
}

// Start launches the language server and performs the initialize handshake
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}
	if c.cfg.Command == "" {
		return fmt.Errorf("language server %q has no command", c.cfg.Name)
	}

	slog.Debug("Starting language server", "server", c.cfg.Name, "command", c.cfg.Command, "args", c.cfg.Args)

	procCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(procCtx, c.cfg.Command, c.cfg.Args...)
	cmd.Dir = c.rootDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start language server %q: %w", c.cfg.Name, err)
	}
	slog.Debug("Language server process started", "server", c.cfg.Name, "pid", cmd.Process.Pid)

	stream := jsonrpc2.NewBufferedStream(&stdioReadWriteCloser{reader: stdout, writer: stdin}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(procCtx, stream, jsonrpc2.HandlerWithError(c.handle))

	c.cmd = cmd
	c.conn = conn
	c.cancel = cancel

	if err := c.initialize(ctx); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize language server %q: %w", c.cfg.Name, err)
	}

	slog.Debug("Language server initialized", "server", c.cfg.Name)
	return nil
}

func (c *Client) initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &protocol.InitializeParams{
		ProcessID: int32(os.Getpid()),
		RootURI:   protocol.DocumentURI(uri.File(c.rootDir)),
		ClientInfo: &protocol.ClientInfo{
			Name:    project.Name,
			Version: project.Version,
		},
		Capabilities: protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				DocumentSymbol: &protocol.DocumentSymbolClientCapabilities{
					HierarchicalDocumentSymbolSupport: true,
				},
			},
		},
	}

	var result json.RawMessage
	if err := c.conn.Call(ctx, "initialize", params, &result); err != nil {
		return fmt.Errorf("failed to send initialization request: %w", err)
	}
	if err := c.conn.Notify(ctx, "initialized", &protocol.InitializedParams{}); err != nil {
		return fmt.Errorf("failed to send initialization notification: %w", err)
	}
	return nil
}

// handle answers the server-to-client requests servers commonly send
func (c *Client) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	if req.Notif {
		return nil, nil
	}
	switch req.Method {
	case "window/workDoneProgress/create", "client/registerCapability", "client/unregisterCapability":
		return nil, nil
	case "workspace/configuration":
		var params struct {
			Items []json.RawMessage `json:"items"`
		}
		if req.Params != nil {
			_ = json.Unmarshal(*req.Params, &params)
		}
		return make([]interface{}, len(params.Items)), nil
	default:
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not handled: " + req.Method}
	}
}

// DocumentSymbols syncs text with the server and returns its symbol tree
func (c *Client) DocumentSymbols(ctx context.Context, path string, text string) ([]types.DocumentSymbol, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}

	docURI := protocol.DocumentURI(uri.File(path))
	slog.Debug("Getting document symbols", "server", c.cfg.Name, "uri", docURI)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.sync(ctx, docURI, text); err != nil {
		return nil, err
	}

	params := &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	}

	var raw json.RawMessage
	if err := c.connection().Call(ctx, "textDocument/documentSymbol", params, &raw); err != nil {
		return nil, fmt.Errorf("failed to get document symbols: %w", err)
	}

	symbols, err := decodeSymbols(raw)
	if err != nil {
		return nil, err
	}
	// No position encoding is offered in initialize, so servers answer in UTF-16
	convertRanges(symbols, text, c.encoding)

	slog.Debug("Found document symbols", "server", c.cfg.Name, "count", len(symbols), "uri", docURI)
	return symbols, nil
}

// sync opens the document, or reopens it when its text changed since the last request
func (c *Client) sync(ctx context.Context, docURI protocol.DocumentURI, text string) error {
	c.mu.Lock()
	prev, isOpen := c.opened[docURI]
	conn := c.conn
	c.mu.Unlock()

	if isOpen && prev.text == text {
		return nil
	}

	if isOpen {
		closeParams := &protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		}
		if err := conn.Notify(ctx, "textDocument/didClose", closeParams); err != nil {
			return fmt.Errorf("failed to close stale document: %w", err)
		}
	}

	version := prev.version + 1
	openParams := &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        docURI,
			LanguageID: protocol.LanguageIdentifier(c.cfg.LanguageID),
			Version:    version,
			Text:       text,
		},
	}
	if err := conn.Notify(ctx, "textDocument/didOpen", openParams); err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}

	c.mu.Lock()
	c.opened[docURI] = openDocument{version: version, text: text}
	c.mu.Unlock()
	return nil
}

func (c *Client) connection() *jsonrpc2.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// Stop sends shutdown and exit, then terminates the process
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var errs []error
	if err := c.conn.Call(ctx, "shutdown", nil, nil); err != nil {
		errs = append(errs, fmt.Errorf("failed to send shutdown request: %w", err))
	}
	if err := c.conn.Notify(ctx, "exit", nil); err != nil {
		errs = append(errs, fmt.Errorf("failed to send exit notification: %w", err))
	}
	c.teardown()

	slog.Debug("Language server stopped", "server", c.cfg.Name)
	return errors.Join(errs...)
}

// teardown releases the connection and process; c.mu must be held
func (c *Client) teardown() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
	if c.cancel != nil {
		c.cancel()
	}
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_ = c.cmd.Wait()
	}
	c.conn = nil
	c.cmd = nil
	c.cancel = nil
	c.opened = make(map[protocol.DocumentURI]openDocument)
}

type stdioReadWriteCloser struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error)  { return s.reader.Read(p) }
func (s *stdioReadWriteCloser) Write(p []byte) (int, error) { return s.writer.Write(p) }
func (s *stdioReadWriteCloser) Close() error {
	_ = s.reader.Close()
	return s.writer.Close()
}
