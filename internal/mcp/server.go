// Package mcp serves the practice tools over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"

	mcplocal "github.com/felixgeelhaar/mindful/adapter/mcp"
	"github.com/felixgeelhaar/mindful/internal/app"
	"github.com/felixgeelhaar/mindful/pkg/config"
)

// ServerName identifies the server to MCP clients.
const ServerName = "mindful-mcp"

// Server is an MCP endpoint bound to one container.
type Server struct {
	mcp    *mcpgo.Server
	chain  []middleware.Middleware
	addr   string
	logger *slog.Logger
}

// New registers tools, resources and prompts against the container. When
// cfg.MCPAuthToken is set every request must carry it as a bearer token.
func New(cfg *config.Config, container *app.Container, logger *slog.Logger) (*Server, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("mcp: config is required")
	case container == nil:
		return nil, errors.New("mcp: container is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "mcp")

	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    ServerName,
		Version: "1.0.0",
		Capabilities: mcpgo.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})

	deps := mcplocal.ToolDependencies{Container: container}
	if err := mcplocal.RegisterTools(srv, deps); err != nil {
		return nil, err
	}
	// Resources and prompts are optional extras for clients.
	if err := mcplocal.RegisterResources(srv, deps); err != nil {
		logger.Warn("mcp resources unavailable", "error", err)
	}
	if err := mcplocal.RegisterPrompts(srv); err != nil {
		logger.Warn("mcp prompts unavailable", "error", err)
	}

	return &Server{
		mcp:    srv,
		chain:  buildChain(cfg.MCPAuthToken, logger),
		addr:   cfg.MCPAddr,
		logger: logger,
	}, nil
}

// Run serves HTTP on the configured address until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server listening", "addr", s.addr, "middleware", len(s.chain))
	err := mcpgo.ServeHTTPWithMiddleware(ctx, s.mcp, s.addr, nil, mcpgo.WithMiddleware(s.chain...))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Serve builds a Server and runs it.
func Serve(ctx context.Context, cfg *config.Config, container *app.Container, logger *slog.Logger) error {
	s, err := New(cfg, container, logger)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

func buildChain(token string, logger *slog.Logger) []middleware.Middleware {
	log := slogFields{logger}
	chain := middleware.DefaultStack(log)
	if token == "" {
		logger.Warn("MCP_AUTH_TOKEN not set; mcp requests are unauthenticated")
		return chain
	}
	auth := middleware.Auth(
		middleware.BearerTokenAuthenticator(middleware.StaticTokens(map[string]*middleware.Identity{
			token: {ID: "mcp", Name: "mcp"},
		})),
		middleware.WithAuthLogger(log),
	)
	return append([]middleware.Middleware{auth}, chain...)
}

// slogFields lets the mcp-go middleware log through slog.
type slogFields struct{ l *slog.Logger }

func (s slogFields) Debug(msg string, fields ...middleware.Field) {
	s.log(slog.LevelDebug, msg, fields)
}

func (s slogFields) Info(msg string, fields ...middleware.Field) {
	s.log(slog.LevelInfo, msg, fields)
}

func (s slogFields) Warn(msg string, fields ...middleware.Field) {
	s.log(slog.LevelWarn, msg, fields)
}

func (s slogFields) Error(msg string, fields ...middleware.Field) {
	s.log(slog.LevelError, msg, fields)
}

func (s slogFields) log(level slog.Level, msg string, fields []middleware.Field) {
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	s.l.LogAttrs(context.Background(), level, msg, attrs...)
}
