// Package tools turns MCP tool calls into Docker engine operations.
//
// Four groups (containers, images, networks, volumes) each own a fixed set of
// tool names. A group binds the argument mapping of a call into a typed
// request, validates it, and calls the Engine. The Router dispatches a tool
// name to the group that owns it.
package tools
