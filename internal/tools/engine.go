package tools

import (
	"context"

	"github.com/ryanmoran/docker-mcp/internal/docker"
)

// Engine is the set of engine operations the tool groups call. docker.Client implements it.
type Engine interface {
	ListContainers(ctx context.Context, options docker.ListOptions) ([]docker.ContainerSummary, error)
	CreateContainer(ctx context.Context, spec docker.ContainerSpec) (docker.ContainerRef, error)
	RunContainer(ctx context.Context, spec docker.ContainerSpec) (docker.ContainerRef, error)
	RecreateContainer(ctx context.Context, id string, spec docker.ContainerSpec) (docker.RecreateResult, error)
	StartContainer(ctx context.Context, id string) (docker.ContainerRef, error)
	StopContainer(ctx context.Context, id string, timeout *int) (docker.ContainerRef, error)
	RemoveContainer(ctx context.Context, id string, force bool) (docker.Removal, error)
	ContainerLogs(ctx context.Context, id string, tail string) ([]string, error)
	ContainerStats(ctx context.Context, id string) (docker.StatsSummary, error)

	ListImages(ctx context.Context, options docker.ImageListOptions) ([]docker.ImageSummary, error)
	PullImage(ctx context.Context, repository, tag string) (docker.ImageRef, error)
	PushImage(ctx context.Context, repository, tag string) (docker.PushResult, error)
	BuildImage(ctx context.Context, spec docker.BuildSpec) (docker.BuildResult, error)
	RemoveImage(ctx context.Context, ref string, force bool) (docker.ImageRemoval, error)

	ListNetworks(ctx context.Context, options docker.ListOptions) ([]docker.NetworkSummary, error)
	CreateNetwork(ctx context.Context, spec docker.NetworkSpec) (docker.NetworkRef, error)
	RemoveNetwork(ctx context.Context, id string) (docker.Removal, error)

	ListVolumes(ctx context.Context, options docker.ListOptions) ([]docker.VolumeSummary, error)
	CreateVolume(ctx context.Context, spec docker.VolumeSpec) (docker.VolumeSummary, error)
	RemoveVolume(ctx context.Context, name string, force bool) (docker.Removal, error)
}
