package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/network"
)

// DefaultNetworkDriver is used when a network is created without a driver.
const DefaultNetworkDriver = "bridge"

// NetworkSpec describes a network to create.
type NetworkSpec struct {
	Name       string
	Driver     string
	Internal   bool
	Attachable bool
	Labels     map[string]string
}

// ListNetworks lists networks, projecting each record.
func (c Client) ListNetworks(ctx context.Context, options ListOptions) ([]NetworkSummary, error) {
	items, err := c.client.NetworkList(ctx, network.ListOptions{Filters: options.args()})
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}

	summaries := make([]NetworkSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, summarizeNetwork(item))
	}
	return summaries, nil
}

// CreateNetwork creates a network. The engine's warning, if any, is passed through.
func (c Client) CreateNetwork(ctx context.Context, spec NetworkSpec) (NetworkRef, error) {
	if spec.Name == "" {
		return NetworkRef{}, fmt.Errorf("%w: network name is required", ErrInvalidSpec)
	}

	driver := spec.Driver
	if driver == "" {
		driver = DefaultNetworkDriver
	}

	response, err := c.client.NetworkCreate(ctx, spec.Name, network.CreateOptions{
		Driver:     driver,
		Internal:   spec.Internal,
		Attachable: spec.Attachable,
		Labels:     spec.Labels,
	})
	if err != nil {
		return NetworkRef{}, fmt.Errorf("failed to create network %q: %w\nA network with this name may already exist", spec.Name, err)
	}

	return NetworkRef{
		ID:      truncate(response.ID),
		Name:    spec.Name,
		Warning: response.Warning,
	}, nil
}

// RemoveNetwork looks the network up and removes it.
func (c Client) RemoveNetwork(ctx context.Context, id string) (Removal, error) {
	info, err := c.client.NetworkInspect(ctx, id, network.InspectOptions{})
	if err != nil {
		return Removal{}, fmt.Errorf("failed to get network %q: %w", id, err)
	}

	err = c.client.NetworkRemove(ctx, info.ID)
	if err != nil {
		return Removal{}, fmt.Errorf("failed to remove network %q: %w\nContainers may still be connected to it", id, err)
	}

	return Removal{Status: "removed", ID: truncate(info.ID), Name: info.Name}, nil
}
