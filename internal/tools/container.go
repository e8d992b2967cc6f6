package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ryanmoran/docker-mcp/internal/docker"
)

type ListContainersRequest struct {
	All     bool    `json:"all"`
	Filters Filters `json:"filters"`
}

// ContainerRequest holds the arguments of create_container and run_container.
type ContainerRequest struct {
	Image       string            `json:"image"`
	Name        string            `json:"name"`
	Command     Command           `json:"command"`
	Entrypoint  Command           `json:"entrypoint"`
	Environment Environment       `json:"environment"`
	Ports       PortMap           `json:"ports"`
	Volumes     VolumeBinds       `json:"volumes"`
	Labels      map[string]string `json:"labels"`
	Network     string            `json:"network"`
	WorkingDir  string            `json:"working_dir"`
	User        string            `json:"user"`
	AutoRemove  bool              `json:"auto_remove"`
}

func (r ContainerRequest) validate() error {
	return required("image", r.Image)
}

func (r ContainerRequest) spec() docker.ContainerSpec {
	return docker.ContainerSpec{
		Image:       r.Image,
		Name:        r.Name,
		Command:     r.Command,
		Entrypoint:  r.Entrypoint,
		Environment: r.Environment,
		Ports:       r.Ports,
		Volumes:     r.Volumes,
		Labels:      r.Labels,
		Network:     r.Network,
		WorkingDir:  r.WorkingDir,
		User:        r.User,
		AutoRemove:  r.AutoRemove,
	}
}

type RecreateContainerRequest struct {
	ContainerID string `json:"container_id"`
	ContainerRequest
}

type ContainerIDRequest struct {
	ContainerID string `json:"container_id"`
}

type StopContainerRequest struct {
	ContainerID string `json:"container_id"`
	Timeout     *int   `json:"timeout"`
}

type RemoveContainerRequest struct {
	ContainerID string `json:"container_id"`
	Force       bool   `json:"force"`
}

type ContainerLogsRequest struct {
	ContainerID string `json:"container_id"`
	Tail        Tail   `json:"tail"`
}

// LogResult is the result of fetch_container_logs.
type LogResult struct {
	Logs []string `json:"logs"`
}

// ContainerHandler owns the container tools.
type ContainerHandler struct {
	engine Engine
}

func NewContainerHandler(engine Engine) ContainerHandler {
	return ContainerHandler{engine: engine}
}

func (h ContainerHandler) Tools() []mcp.Tool {
	recreate := containerProps()
	recreate["container_id"] = stringProp("Container ID or name to replace")

	return []mcp.Tool{
		newTool("list_containers", "List containers", nil, map[string]property{
			"all":     boolProp("Include stopped containers", false),
			"filters": filtersProp(),
		}),
		newTool("create_container", "Create a new container without starting it", []string{"image"}, containerProps()),
		newTool("run_container", "Create and start a container", []string{"image"}, containerProps()),
		newTool("recreate_container", "Stop and remove a container, then run a new one with the given configuration. The previous container is restored if the new one fails", []string{"container_id", "image"}, recreate),
		newTool("start_container", "Start a container", []string{"container_id"}, map[string]property{
			"container_id": stringProp("Container ID or name"),
		}),
		newTool("stop_container", "Stop a running container", []string{"container_id"}, map[string]property{
			"container_id": stringProp("Container ID or name"),
			"timeout":      integerProp("Seconds to wait before killing the container"),
		}),
		newTool("remove_container", "Remove a container", []string{"container_id"}, map[string]property{
			"container_id": stringProp("Container ID or name"),
			"force":        boolProp("Kill the container first if it is running", false),
		}),
		newTool("fetch_container_logs", "Fetch the most recent log lines of a container", []string{"container_id"}, map[string]property{
			"container_id": stringProp("Container ID or name"),
			"tail": {
				"type":        []string{"integer", "string"},
				"description": `Number of lines from the end of the logs, or "all"`,
				"default":     100,
			},
		}),
	}
}

func (h ContainerHandler) Handle(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "list_containers":
		var req ListContainersRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		return result(h.engine.ListContainers(ctx, docker.ListOptions{All: req.All, Filters: req.Filters}))

	case "create_container", "run_container":
		var req ContainerRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := req.validate(); err != nil {
			return nil, err
		}
		if name == "create_container" {
			return result(h.engine.CreateContainer(ctx, req.spec()))
		}
		return result(h.engine.RunContainer(ctx, req.spec()))

	case "recreate_container":
		var req RecreateContainerRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("container_id", req.ContainerID); err != nil {
			return nil, err
		}
		if err := req.validate(); err != nil {
			return nil, err
		}
		return result(h.engine.RecreateContainer(ctx, req.ContainerID, req.spec()))

	case "start_container":
		var req ContainerIDRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("container_id", req.ContainerID); err != nil {
			return nil, err
		}
		return result(h.engine.StartContainer(ctx, req.ContainerID))

	case "stop_container":
		var req StopContainerRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("container_id", req.ContainerID); err != nil {
			return nil, err
		}
		if req.Timeout != nil && *req.Timeout < 0 {
			return nil, fmt.Errorf("%w: timeout must not be negative", ErrInvalidArguments)
		}
		return result(h.engine.StopContainer(ctx, req.ContainerID, req.Timeout))

	case "remove_container":
		var req RemoveContainerRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("container_id", req.ContainerID); err != nil {
			return nil, err
		}
		return result(h.engine.RemoveContainer(ctx, req.ContainerID, req.Force))

	case "fetch_container_logs":
		var req ContainerLogsRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("container_id", req.ContainerID); err != nil {
			return nil, err
		}
		lines, err := h.engine.ContainerLogs(ctx, req.ContainerID, string(req.Tail))
		if err != nil {
			return nil, err
		}
		return LogResult{Logs: lines}, nil
	}

	return nil, fmt.Errorf("%w: %q is not a container operation", ErrUnknownOperation, name)
}
