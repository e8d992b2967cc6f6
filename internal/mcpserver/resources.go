package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ryanmoran/docker-mcp/internal/docker"
)

const (
	logsURITemplate  = "docker://containers/{id}/logs"
	statsURITemplate = "docker://containers/{id}/stats"

	containersURIPrefix = "docker://containers/"
)

// Resources is the engine surface read by the container resource templates.
type Resources interface {
	ContainerLogs(ctx context.Context, id string, tail string) ([]string, error)
	ContainerStats(ctx context.Context, id string) (docker.StatsSummary, error)
}

func (s *Server) ReadLogs(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id, err := containerFromURI(uri, "logs")
	if err != nil {
		return nil, err
	}

	lines, err := s.resources.ContainerLogs(ctx, id, docker.DefaultLogTail)
	if err != nil {
		s.logger.Warn().Err(err).Str("uri", uri).Msg("resource read failed")
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     strings.Join(lines, "\n"),
		},
	}, nil
}

func (s *Server) ReadStats(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id, err := containerFromURI(uri, "stats")
	if err != nil {
		return nil, err
	}

	stats, err := s.resources.ContainerStats(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("uri", uri).Msg("resource read failed")
		return nil, err
	}

	text, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode stats of container %q: %w", id, err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(text),
		},
	}, nil
}

// containerFromURI extracts the container id from docker://containers/{id}/{kind}.
func containerFromURI(uri, kind string) (string, error) {
	rest, ok := strings.CutPrefix(uri, containersURIPrefix)
	if ok {
		id, suffix, found := strings.Cut(rest, "/")
		if found && suffix == kind && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("invalid resource URI %q: expected docker://containers/{id}/%s", uri, kind)
}
