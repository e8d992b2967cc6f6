package docker_test

import (
	"github.com/docker/docker/client"
	"github.com/ryanmoran/docker-mcp/internal/docker"
)

// Compile-time check that *client.Client implements DockerClient interface
var _ docker.DockerClient = (*client.Client)(nil)
