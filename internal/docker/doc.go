// Package docker adapts the Docker engine client for docker-mcp.
//
// Client wraps the engine API and exposes one method per tool operation.
// Listing methods call the raw list endpoints and project each record into a
// compact summary (12-character ids, stripped container names); lifecycle
// methods look the resource up first so that missing resources surface as
// NotFound errors (see IsNotFound). RecreateContainer runs an explicit
// inspect, stop, remove, run sequence with a rollback when the final run fails.
package docker
