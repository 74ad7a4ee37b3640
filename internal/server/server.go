package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/internal/tools"
	"github.com/averycrespi/tabserver/pkg/project"
	"github.com/averycrespi/tabserver/pkg/types"

	"github.com/mark3labs/mcp-go/server"
)

var _ types.Server = &TabServer{}

// TabServer exposes the editor session as MCP tools over stdio
type TabServer struct {
	mcpServer *server.MCPServer
	backend   types.Backend
	encoding  patch.Encoding
}

// NewTabServer creates a new MCP server for the backend
func NewTabServer(backend types.Backend, encoding patch.Encoding) *TabServer {
	mcpServer := server.NewMCPServer(project.Name, project.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &TabServer{
		mcpServer: mcpServer,
		backend:   backend,
		encoding:  encoding,
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server
func (s *TabServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Start serves MCP over stdin and stdout until ctx is cancelled or stdin closes
func (s *TabServer) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve speaks MCP over the given streams
func (s *TabServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	slog.Info("Starting MCP server", "name", project.Name, "version", project.Version, "encoding", s.encoding.String())

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError))

	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to serve MCP server: %w", err)
	}
	return nil
}

// Stop is a no-op; the stdio server stops when its context is cancelled
func (s *TabServer) Stop(ctx context.Context) error {
	return nil
}

func (s *TabServer) registerTools() {
	listTabsTool := tools.NewListTabsTool(s.backend)
	s.mcpServer.AddTool(listTabsTool.GetTool(), listTabsTool.Handle)

	readTabTool := tools.NewReadTabTool(s.backend)
	s.mcpServer.AddTool(readTabTool.GetTool(), readTabTool.Handle)

	outlineTool := tools.NewGetTabOutlineTool(s.backend)
	s.mcpServer.AddTool(outlineTool.GetTool(), outlineTool.Handle)

	proposeTool := tools.NewProposeTabEditTool(s.backend, s.encoding)
	s.mcpServer.AddTool(proposeTool.GetTool(), proposeTool.Handle)
}
