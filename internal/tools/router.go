package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Group is a set of tools sharing one handler.
type Group interface {
	Tools() []mcp.Tool
	Handle(ctx context.Context, name string, args map[string]any) (any, error)
}

// Router dispatches a tool name to the group that owns it.
type Router struct {
	tools  []mcp.Tool
	owners map[string]Group
}

// NewRouter indexes the tools of each group. A tool name claimed by two groups is an error.
func NewRouter(groups ...Group) (*Router, error) {
	router := &Router{owners: make(map[string]Group)}
	for _, group := range groups {
		for _, tool := range group.Tools() {
			if _, ok := router.owners[tool.Name]; ok {
				return nil, fmt.Errorf("tool %q is registered twice", tool.Name)
			}
			router.owners[tool.Name] = group
			router.tools = append(router.tools, tool)
		}
	}
	return router, nil
}

// NewDefaultRouter routes the container, image, network, and volume tools to engine.
func NewDefaultRouter(engine Engine) *Router {
	router, err := NewRouter(
		NewContainerHandler(engine),
		NewImageHandler(engine),
		NewNetworkHandler(engine),
		NewVolumeHandler(engine),
	)
	if err != nil {
		panic(err)
	}
	return router
}

// Tools returns every routed tool in registration order.
func (r *Router) Tools() []mcp.Tool {
	return append([]mcp.Tool(nil), r.tools...)
}

func (r *Router) Handle(ctx context.Context, name string, args map[string]any) (any, error) {
	group, ok := r.owners[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return group.Handle(ctx, name, args)
}
