package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ryanmoran/docker-mcp/internal/docker"
)

type ListRequest struct {
	Filters Filters `json:"filters"`
}

type CreateNetworkRequest struct {
	Name       string            `json:"name"`
	Driver     string            `json:"driver"`
	Internal   bool              `json:"internal"`
	Labels     map[string]string `json:"labels"`
	Attachable bool              `json:"attachable"`
}

type RemoveNetworkRequest struct {
	NetworkID string `json:"network_id"`
}

// NetworkHandler owns the network tools.
type NetworkHandler struct {
	engine Engine
}

func NewNetworkHandler(engine Engine) NetworkHandler {
	return NetworkHandler{engine: engine}
}

func (h NetworkHandler) Tools() []mcp.Tool {
	driver := stringProp("Network driver")
	driver["default"] = docker.DefaultNetworkDriver

	return []mcp.Tool{
		newTool("list_networks", "List networks", nil, map[string]property{
			"filters": filtersProp(),
		}),
		newTool("create_network", "Create a network", []string{"name"}, map[string]property{
			"name":       stringProp("Network name"),
			"driver":     driver,
			"internal":   boolProp("Restrict external access to the network", false),
			"labels":     stringMapProp("Network labels"),
			"attachable": boolProp("Allow standalone containers to attach", false),
		}),
		newTool("remove_network", "Remove a network", []string{"network_id"}, map[string]property{
			"network_id": stringProp("Network ID or name"),
		}),
	}
}

func (h NetworkHandler) Handle(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "list_networks":
		var req ListRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		return result(h.engine.ListNetworks(ctx, docker.ListOptions{Filters: req.Filters}))

	case "create_network":
		var req CreateNetworkRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("name", req.Name); err != nil {
			return nil, err
		}
		return result(h.engine.CreateNetwork(ctx, docker.NetworkSpec{
			Name:       req.Name,
			Driver:     req.Driver,
			Internal:   req.Internal,
			Attachable: req.Attachable,
			Labels:     req.Labels,
		}))

	case "remove_network":
		var req RemoveNetworkRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("network_id", req.NetworkID); err != nil {
			return nil, err
		}
		return result(h.engine.RemoveNetwork(ctx, req.NetworkID))
	}

	return nil, fmt.Errorf("%w: %q is not a network operation", ErrUnknownOperation, name)
}
