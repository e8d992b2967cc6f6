package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
)

// DefaultLogTail is the number of log lines returned when no tail is given.
const DefaultLogTail = "100"

// ListOptions narrows a list call. Filters use the engine's filter names, for example
// {"status": ["running"]} or {"label": ["app=web"]}.
type ListOptions struct {
	All     bool
	Filters map[string][]string
}

func (o ListOptions) args() filters.Args {
	args := filters.NewArgs()
	keys := make([]string, 0, len(o.Filters))
	for key := range o.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, value := range o.Filters[key] {
			args.Add(key, value)
		}
	}
	return args
}

// ContainerSpec describes a container to create.
type ContainerSpec struct {
	Image       string
	Name        string
	Command     []string
	Entrypoint  []string
	Environment map[string]string
	// Ports maps a container port ("80" or "80/udp") to host bindings: "8080",
	// "127.0.0.1:8080", or "" for an ephemeral host port.
	Ports      map[string][]string
	Volumes    []string
	Labels     map[string]string
	Network    string
	WorkingDir string
	User       string
	AutoRemove bool
}

func (s ContainerSpec) configs() (*container.Config, *container.HostConfig, error) {
	if s.Image == "" {
		return nil, nil, fmt.Errorf("%w: image is required", ErrInvalidSpec)
	}

	exposed, bindings, err := portBindings(s.Ports)
	if err != nil {
		return nil, nil, err
	}

	env := make([]string, 0, len(s.Environment))
	for key, value := range s.Environment {
		env = append(env, key+"="+value)
	}
	sort.Strings(env)

	config := &container.Config{
		Image:        s.Image,
		Cmd:          s.Command,
		Entrypoint:   s.Entrypoint,
		Env:          env,
		Labels:       s.Labels,
		ExposedPorts: exposed,
		WorkingDir:   s.WorkingDir,
		User:         s.User,
	}

	hostConfig := &container.HostConfig{
		Binds:        s.Volumes,
		PortBindings: bindings,
		NetworkMode:  container.NetworkMode(s.Network),
		AutoRemove:   s.AutoRemove,
	}

	return config, hostConfig, nil
}

func portBindings(ports map[string][]string) (nat.PortSet, nat.PortMap, error) {
	if len(ports) == 0 {
		return nil, nil, nil
	}

	exposed := nat.PortSet{}
	bindings := nat.PortMap{}

	for raw, hosts := range ports {
		proto, number := nat.SplitProtoPort(raw)
		port, err := nat.NewPort(proto, number)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: container port %q: %v", ErrInvalidSpec, raw, err)
		}
		exposed[port] = struct{}{}

		if len(hosts) == 0 {
			hosts = []string{""}
		}

		for _, host := range hosts {
			binding, err := hostBinding(host)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: host binding %q for port %q: %v", ErrInvalidSpec, host, raw, err)
			}
			bindings[port] = append(bindings[port], binding)
		}
	}

	return exposed, bindings, nil
}

func hostBinding(host string) (nat.PortBinding, error) {
	ip, port := "", host
	if strings.Contains(host, ":") {
		var err error
		ip, port, err = net.SplitHostPort(host)
		if err != nil {
			return nat.PortBinding{}, err
		}
	}

	if _, err := nat.ParsePort(port); err != nil {
		return nat.PortBinding{}, err
	}

	return nat.PortBinding{HostIP: ip, HostPort: port}, nil
}

// ListContainers lists containers through the raw list endpoint and projects each record,
// preserving the engine's order. No per-container inspect is performed.
func (c Client) ListContainers(ctx context.Context, options ListOptions) ([]ContainerSummary, error) {
	items, err := c.client.ContainerList(ctx, container.ListOptions{
		All:     options.All,
		Filters: options.args(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	summaries := make([]ContainerSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, summarizeContainer(item))
	}
	return summaries, nil
}

// CreateContainer creates a container without starting it.
func (c Client) CreateContainer(ctx context.Context, spec ContainerSpec) (ContainerRef, error) {
	config, hostConfig, err := spec.configs()
	if err != nil {
		return ContainerRef{}, err
	}

	response, err := c.client.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return ContainerRef{}, fmt.Errorf("failed to create container from image %q: %w\nEnsure image exists and container config is valid", spec.Image, err)
	}

	return ContainerRef{
		ID:     truncate(response.ID),
		Name:   spec.Name,
		Status: "created",
	}, nil
}

// RunContainer creates a container and starts it. A container that fails to start is
// left in the created state.
func (c Client) RunContainer(ctx context.Context, spec ContainerSpec) (ContainerRef, error) {
	config, hostConfig, err := spec.configs()
	if err != nil {
		return ContainerRef{}, err
	}

	response, err := c.client.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return ContainerRef{}, fmt.Errorf("failed to create container from image %q: %w\nEnsure image exists and container config is valid", spec.Image, err)
	}

	err = c.client.ContainerStart(ctx, response.ID, container.StartOptions{})
	if err != nil {
		return ContainerRef{}, fmt.Errorf("failed to start container %q: %w\nContainer may be misconfigured or Docker daemon may be unhealthy", truncate(response.ID), err)
	}

	return c.describe(ctx, response.ID, ContainerRef{
		ID:     truncate(response.ID),
		Name:   spec.Name,
		Status: "running",
	}), nil
}

// StartContainer looks the container up and starts it.
func (c Client) StartContainer(ctx context.Context, id string) (ContainerRef, error) {
	info, err := c.get(ctx, id)
	if err != nil {
		return ContainerRef{}, err
	}

	err = c.client.ContainerStart(ctx, info.ID, container.StartOptions{})
	if err != nil {
		return ContainerRef{}, fmt.Errorf("failed to start container %q: %w\nContainer may be misconfigured or Docker daemon may be unhealthy", id, err)
	}

	return c.describe(ctx, info.ID, inspectRef(info)), nil
}

// StopContainer looks the container up and stops it. A nil timeout uses the
// container's configured stop timeout.
func (c Client) StopContainer(ctx context.Context, id string, timeout *int) (ContainerRef, error) {
	info, err := c.get(ctx, id)
	if err != nil {
		return ContainerRef{}, err
	}

	err = c.client.ContainerStop(ctx, info.ID, container.StopOptions{Timeout: timeout})
	if err != nil {
		return ContainerRef{}, fmt.Errorf("failed to stop container %q: %w", id, err)
	}

	return c.describe(ctx, info.ID, inspectRef(info)), nil
}

// RemoveContainer looks the container up and removes it, forwarding force unchanged.
func (c Client) RemoveContainer(ctx context.Context, id string, force bool) (Removal, error) {
	info, err := c.get(ctx, id)
	if err != nil {
		return Removal{}, err
	}

	err = c.client.ContainerRemove(ctx, info.ID, container.RemoveOptions{Force: force})
	if err != nil {
		return Removal{}, fmt.Errorf("failed to remove container %q: %w\nContainer may still be running - use force if needed", id, err)
	}

	ref := inspectRef(info)
	return Removal{Status: "removed", ID: ref.ID, Name: ref.Name}, nil
}

// ContainerLogs returns the last tail lines of the container's stdout and stderr, split on
// newlines. tail is a line count or "all". Output of containers without a TTY is
// demultiplexed; invalid UTF-8 is replaced.
func (c Client) ContainerLogs(ctx context.Context, id string, tail string) ([]string, error) {
	info, err := c.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if tail == "" {
		tail = DefaultLogTail
	}

	rc, err := c.client.ContainerLogs(ctx, info.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       tail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs for container %q: %w", id, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if info.Config != nil && info.Config.Tty {
		_, err = io.Copy(&buf, rc)
	} else {
		_, err = stdcopy.StdCopy(&buf, &buf, rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read logs for container %q: %w", id, err)
	}

	return splitLines(buf.Bytes()), nil
}

// splitLines decodes b and splits it on newlines. A trailing newline produces a
// trailing empty element.
func splitLines(b []byte) []string {
	return strings.Split(strings.ToValidUTF8(string(b), "\uFFFD"), "\n")
}

func (c Client) get(ctx context.Context, id string) (container.InspectResponse, error) {
	info, err := c.client.ContainerInspect(ctx, id)
	if err != nil {
		return container.InspectResponse{}, fmt.Errorf("failed to get container %q: %w", id, err)
	}
	if info.ContainerJSONBase == nil {
		return container.InspectResponse{}, fmt.Errorf("failed to get container %q: engine returned an empty record", id)
	}
	return info, nil
}

// describe re-inspects a container to report its state after an operation. Inspection
// errors are not fatal: the operation already happened, so fallback is returned.
func (c Client) describe(ctx context.Context, id string, fallback ContainerRef) ContainerRef {
	info, err := c.client.ContainerInspect(ctx, id)
	if err != nil || info.ContainerJSONBase == nil {
		return fallback
	}
	return inspectRef(info)
}
