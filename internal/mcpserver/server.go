package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/ryanmoran/docker-mcp/internal"
	"github.com/ryanmoran/docker-mcp/internal/tools"
)

// Server exposes a tool group and the container resources over MCP.
type Server struct {
	mcp       *server.MCPServer
	tools     tools.Group
	resources Resources
	logger    zerolog.Logger
}

// New registers every tool of group and the container resource templates.
func New(group tools.Group, resources Resources, logger zerolog.Logger, version string) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			internal.ServerName,
			version,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
		tools:     group,
		resources: resources,
		logger:    logger,
	}

	for _, tool := range group.Tools() {
		s.mcp.AddTool(tool, s.CallTool)
	}

	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			logsURITemplate,
			"Container logs",
			mcp.WithTemplateDescription("The most recent log lines of a container"),
			mcp.WithTemplateMIMEType("text/plain"),
		),
		s.ReadLogs,
	)
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			statsURITemplate,
			"Container stats",
			mcp.WithTemplateDescription("A one-shot resource usage sample of a container"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.ReadStats,
	)

	return s
}

// CallTool runs one tool call. Handler errors become tool error results so the
// client sees the message; the returned error is always nil.
func (s *Server) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := internal.NewCallID()
	name := request.Params.Name
	logger := s.logger.With().Str("call_id", id.Short()).Str("tool", name).Logger()

	logger.Debug().Interface("arguments", request.GetArguments()).Msg("tool call started")
	start := time.Now()

	value, err := s.tools.Handle(logger.WithContext(ctx), name, request.GetArguments())
	duration := time.Since(start)
	if err != nil {
		logger.Warn().Err(err).Dur("duration", duration).Msg("tool call failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		logger.Error().Err(err).Dur("duration", duration).Msg("tool result could not be encoded")
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result of %s: %v", name, err)), nil
	}

	logger.Info().Dur("duration", duration).Msg("tool call finished")
	return mcp.NewToolResultText(string(text)), nil
}

// Serve speaks MCP over stdin and stdout until stdin closes or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(s.logger.With().Str("component", "stdio").Logger(), "", 0))

	s.logger.Info().Int("tools", len(s.tools.Tools())).Msg("serving MCP over stdio")
	err := stdio.Listen(ctx, stdin, stdout)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to serve MCP over stdio: %w", err)
	}
	return nil
}
