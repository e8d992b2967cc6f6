package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/volume"
)

// DefaultVolumeDriver is used when a volume is created without a driver.
const DefaultVolumeDriver = "local"

// VolumeSpec describes a volume to create.
type VolumeSpec struct {
	Name       string
	Driver     string
	Labels     map[string]string
	DriverOpts map[string]string
}

// ListVolumes lists volumes. The engine wraps the list in a response object; only the
// volumes are returned.
func (c Client) ListVolumes(ctx context.Context, options ListOptions) ([]VolumeSummary, error) {
	response, err := c.client.VolumeList(ctx, volume.ListOptions{Filters: options.args()})
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	summaries := make([]VolumeSummary, 0, len(response.Volumes))
	for _, item := range response.Volumes {
		if item == nil {
			continue
		}
		summaries = append(summaries, summarizeVolume(*item))
	}
	return summaries, nil
}

// CreateVolume creates a volume.
func (c Client) CreateVolume(ctx context.Context, spec VolumeSpec) (VolumeSummary, error) {
	if spec.Name == "" {
		return VolumeSummary{}, fmt.Errorf("%w: volume name is required", ErrInvalidSpec)
	}

	driver := spec.Driver
	if driver == "" {
		driver = DefaultVolumeDriver
	}

	created, err := c.client.VolumeCreate(ctx, volume.CreateOptions{
		Name:       spec.Name,
		Driver:     driver,
		Labels:     spec.Labels,
		DriverOpts: spec.DriverOpts,
	})
	if err != nil {
		return VolumeSummary{}, fmt.Errorf("failed to create volume %q: %w", spec.Name, err)
	}

	return summarizeVolume(created), nil
}

// RemoveVolume looks the volume up and removes it, forwarding force unchanged.
func (c Client) RemoveVolume(ctx context.Context, name string, force bool) (Removal, error) {
	info, err := c.client.VolumeInspect(ctx, name)
	if err != nil {
		return Removal{}, fmt.Errorf("failed to get volume %q: %w", name, err)
	}

	err = c.client.VolumeRemove(ctx, info.Name, force)
	if err != nil {
		return Removal{}, fmt.Errorf("failed to remove volume %q: %w\nVolume may be in use - use force if needed", name, err)
	}

	return Removal{Status: "removed", Name: info.Name}, nil
}
