// Package internal contains shared types and utilities for docker-mcp.
//
// It provides configuration parsing, logger construction, per-call
// identifiers, and cleanup orchestration used by the docker, sshhost,
// tools, and mcpserver packages.
package internal
