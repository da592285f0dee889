package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/agentberlin/bluespider/internal/app"
	"github.com/agentberlin/bluespider/internal/version"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const ServerName = "bluespider"

// MCPServer wraps the core bluespider app and exposes it via MCP protocol
type MCPServer struct {
	server *mcp.Server
	app    *app.App
	logger *slog.Logger
}

// NewMCPServer creates a new MCP server instance. Tools that need crawl
// history are only registered when the app has a store.
func NewMCPServer(coreApp *app.App, logger *slog.Logger) (*MCPServer, error) {
	if coreApp == nil {
		return nil, errors.New("mcp: app is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "mcp")

	s := &MCPServer{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    ServerName,
			Version: version.CurrentVersion,
		}, nil),
		app:    coreApp,
		logger: logger,
	}
	s.registerTools()

	logger.Info("MCP server initialized", "history", coreApp.Store() != nil)
	return s, nil
}

// GetServer returns the internal MCP server instance
func (s *MCPServer) GetServer() *mcp.Server {
	return s.server
}

// RunStdio serves MCP on stdin/stdout until ctx is done or the client leaves
func (s *MCPServer) RunStdio(ctx context.Context) error {
	s.logger.Info("serving MCP on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server with HTTP transport using StreamableHTTPHandler
func (s *MCPServer) RunHTTP(addr string) (*http.Server, error) {
	handler := mcp.NewStreamableHTTPHandler(
		func(req *http.Request) *mcp.Server {
			return s.server
		},
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "err", err)
		}
	}()

	s.logger.Info("MCP HTTP server started", "addr", addr)
	return httpServer, nil
}

// Close stops active crawls and releases the store, if any
func (s *MCPServer) Close() error {
	s.logger.Info("shutting down MCP server")
	for _, c := range s.app.GetActiveCrawls() {
		_ = s.app.StopCrawl(c.ProjectID)
	}
	if st := s.app.Store(); st != nil {
		return st.Close()
	}
	return nil
}
