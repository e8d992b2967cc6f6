package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ryanmoran/docker-mcp/internal/docker"
)

type CreateVolumeRequest struct {
	Name       string            `json:"name"`
	Driver     string            `json:"driver"`
	Labels     map[string]string `json:"labels"`
	DriverOpts map[string]string `json:"driver_opts"`
}

type RemoveVolumeRequest struct {
	VolumeName string `json:"volume_name"`
	Force      bool   `json:"force"`
}

// VolumeHandler owns the volume tools.
type VolumeHandler struct {
	engine Engine
}

func NewVolumeHandler(engine Engine) VolumeHandler {
	return VolumeHandler{engine: engine}
}

func (h VolumeHandler) Tools() []mcp.Tool {
	driver := stringProp("Volume driver")
	driver["default"] = docker.DefaultVolumeDriver

	return []mcp.Tool{
		newTool("list_volumes", "List volumes", nil, map[string]property{
			"filters": filtersProp(),
		}),
		newTool("create_volume", "Create a volume", []string{"name"}, map[string]property{
			"name":        stringProp("Volume name"),
			"driver":      driver,
			"labels":      stringMapProp("Volume labels"),
			"driver_opts": stringMapProp("Driver-specific options"),
		}),
		newTool("remove_volume", "Remove a volume", []string{"volume_name"}, map[string]property{
			"volume_name": stringProp("Volume name"),
			"force":       boolProp("Remove the volume even if it is in use", false),
		}),
	}
}

func (h VolumeHandler) Handle(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "list_volumes":
		var req ListRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		return result(h.engine.ListVolumes(ctx, docker.ListOptions{Filters: req.Filters}))

	case "create_volume":
		var req CreateVolumeRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("name", req.Name); err != nil {
			return nil, err
		}
		return result(h.engine.CreateVolume(ctx, docker.VolumeSpec{
			Name:       req.Name,
			Driver:     req.Driver,
			Labels:     req.Labels,
			DriverOpts: req.DriverOpts,
		}))

	case "remove_volume":
		var req RemoveVolumeRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("volume_name", req.VolumeName); err != nil {
			return nil, err
		}
		return result(h.engine.RemoveVolume(ctx, req.VolumeName, req.Force))
	}

	return nil, fmt.Errorf("%w: %q is not a volume operation", ErrUnknownOperation, name)
}
