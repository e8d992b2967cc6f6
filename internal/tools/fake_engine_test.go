package tools_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ryanmoran/docker-mcp/internal/docker"
	"github.com/ryanmoran/docker-mcp/internal/tools"
)

var _ tools.Engine = docker.Client{}

var errNotImplemented = errors.New("not implemented")

type fakeEngine struct {
	mu    sync.Mutex
	calls []string

	listContainersFunc    func(ctx context.Context, options docker.ListOptions) ([]docker.ContainerSummary, error)
	createContainerFunc   func(ctx context.Context, spec docker.ContainerSpec) (docker.ContainerRef, error)
	runContainerFunc      func(ctx context.Context, spec docker.ContainerSpec) (docker.ContainerRef, error)
	recreateContainerFunc func(ctx context.Context, id string, spec docker.ContainerSpec) (docker.RecreateResult, error)
	startContainerFunc    func(ctx context.Context, id string) (docker.ContainerRef, error)
	stopContainerFunc     func(ctx context.Context, id string, timeout *int) (docker.ContainerRef, error)
	removeContainerFunc   func(ctx context.Context, id string, force bool) (docker.Removal, error)
	containerLogsFunc     func(ctx context.Context, id string, tail string) ([]string, error)
	containerStatsFunc    func(ctx context.Context, id string) (docker.StatsSummary, error)

	listImagesFunc  func(ctx context.Context, options docker.ImageListOptions) ([]docker.ImageSummary, error)
	pullImageFunc   func(ctx context.Context, repository, tag string) (docker.ImageRef, error)
	pushImageFunc   func(ctx context.Context, repository, tag string) (docker.PushResult, error)
	buildImageFunc  func(ctx context.Context, spec docker.BuildSpec) (docker.BuildResult, error)
	removeImageFunc func(ctx context.Context, ref string, force bool) (docker.ImageRemoval, error)

	listNetworksFunc  func(ctx context.Context, options docker.ListOptions) ([]docker.NetworkSummary, error)
	createNetworkFunc func(ctx context.Context, spec docker.NetworkSpec) (docker.NetworkRef, error)
	removeNetworkFunc func(ctx context.Context, id string) (docker.Removal, error)

	listVolumesFunc  func(ctx context.Context, options docker.ListOptions) ([]docker.VolumeSummary, error)
	createVolumeFunc func(ctx context.Context, spec docker.VolumeSpec) (docker.VolumeSummary, error)
	removeVolumeFunc func(ctx context.Context, name string, force bool) (docker.Removal, error)
}

func (f *fakeEngine) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeEngine) ListContainers(ctx context.Context, options docker.ListOptions) ([]docker.ContainerSummary, error) {
	f.record("ListContainers")
	if f.listContainersFunc != nil {
		return f.listContainersFunc(ctx, options)
	}
	return nil, errNotImplemented
}

func (f *fakeEngine) CreateContainer(ctx context.Context, spec docker.ContainerSpec) (docker.ContainerRef, error) {
	f.record("CreateContainer")
	if f.createContainerFunc != nil {
		return f.createContainerFunc(ctx, spec)
	}
	return docker.ContainerRef{}, errNotImplemented
}

func (f *fakeEngine) RunContainer(ctx context.Context, spec docker.ContainerSpec) (docker.ContainerRef, error) {
	f.record("RunContainer")
	if f.runContainerFunc != nil {
		return f.runContainerFunc(ctx, spec)
	}
	return docker.ContainerRef{}, errNotImplemented
}

func (f *fakeEngine) RecreateContainer(ctx context.Context, id string, spec docker.ContainerSpec) (docker.RecreateResult, error) {
	f.record("RecreateContainer")
	if f.recreateContainerFunc != nil {
		return f.recreateContainerFunc(ctx, id, spec)
	}
	return docker.RecreateResult{}, errNotImplemented
}

func (f *fakeEngine) StartContainer(ctx context.Context, id string) (docker.ContainerRef, error) {
	f.record("StartContainer")
	if f.startContainerFunc != nil {
		return f.startContainerFunc(ctx, id)
	}
	return docker.ContainerRef{}, errNotImplemented
}

func (f *fakeEngine) StopContainer(ctx context.Context, id string, timeout *int) (docker.ContainerRef, error) {
	f.record("StopContainer")
	if f.stopContainerFunc != nil {
		return f.stopContainerFunc(ctx, id, timeout)
	}
	return docker.ContainerRef{}, errNotImplemented
}

func (f *fakeEngine) RemoveContainer(ctx context.Context, id string, force bool) (docker.Removal, error) {
	f.record("RemoveContainer")
	if f.removeContainerFunc != nil {
		return f.removeContainerFunc(ctx, id, force)
	}
	return docker.Removal{}, errNotImplemented
}

func (f *fakeEngine) ContainerLogs(ctx context.Context, id string, tail string) ([]string, error) {
	f.record("ContainerLogs")
	if f.containerLogsFunc != nil {
		return f.containerLogsFunc(ctx, id, tail)
	}
	return nil, errNotImplemented
}

func (f *fakeEngine) ContainerStats(ctx context.Context, id string) (docker.StatsSummary, error) {
	f.record("ContainerStats")
	if f.containerStatsFunc != nil {
		return f.containerStatsFunc(ctx, id)
	}
	return docker.StatsSummary{}, errNotImplemented
}

func (f *fakeEngine) ListImages(ctx context.Context, options docker.ImageListOptions) ([]docker.ImageSummary, error) {
	f.record("ListImages")
	if f.listImagesFunc != nil {
		return f.listImagesFunc(ctx, options)
	}
	return nil, errNotImplemented
}

func (f *fakeEngine) PullImage(ctx context.Context, repository, tag string) (docker.ImageRef, error) {
	f.record("PullImage")
	if f.pullImageFunc != nil {
		return f.pullImageFunc(ctx, repository, tag)
	}
	return docker.ImageRef{}, errNotImplemented
}

func (f *fakeEngine) PushImage(ctx context.Context, repository, tag string) (docker.PushResult, error) {
	f.record("PushImage")
	if f.pushImageFunc != nil {
		return f.pushImageFunc(ctx, repository, tag)
	}
	return docker.PushResult{}, errNotImplemented
}

func (f *fakeEngine) BuildImage(ctx context.Context, spec docker.BuildSpec) (docker.BuildResult, error) {
	f.record("BuildImage")
	if f.buildImageFunc != nil {
		return f.buildImageFunc(ctx, spec)
	}
	return docker.BuildResult{}, errNotImplemented
}

func (f *fakeEngine) RemoveImage(ctx context.Context, ref string, force bool) (docker.ImageRemoval, error) {
	f.record("RemoveImage")
	if f.removeImageFunc != nil {
		return f.removeImageFunc(ctx, ref, force)
	}
	return docker.ImageRemoval{}, errNotImplemented
}

func (f *fakeEngine) ListNetworks(ctx context.Context, options docker.ListOptions) ([]docker.NetworkSummary, error) {
	f.record("ListNetworks")
	if f.listNetworksFunc != nil {
		return f.listNetworksFunc(ctx, options)
	}
	return nil, errNotImplemented
}

func (f *fakeEngine) CreateNetwork(ctx context.Context, spec docker.NetworkSpec) (docker.NetworkRef, error) {
	f.record("CreateNetwork")
	if f.createNetworkFunc != nil {
		return f.createNetworkFunc(ctx, spec)
	}
	return docker.NetworkRef{}, errNotImplemented
}

func (f *fakeEngine) RemoveNetwork(ctx context.Context, id string) (docker.Removal, error) {
	f.record("RemoveNetwork")
	if f.removeNetworkFunc != nil {
		return f.removeNetworkFunc(ctx, id)
	}
	return docker.Removal{}, errNotImplemented
}

func (f *fakeEngine) ListVolumes(ctx context.Context, options docker.ListOptions) ([]docker.VolumeSummary, error) {
	f.record("ListVolumes")
	if f.listVolumesFunc != nil {
		return f.listVolumesFunc(ctx, options)
	}
	return nil, errNotImplemented
}

func (f *fakeEngine) CreateVolume(ctx context.Context, spec docker.VolumeSpec) (docker.VolumeSummary, error) {
	f.record("CreateVolume")
	if f.createVolumeFunc != nil {
		return f.createVolumeFunc(ctx, spec)
	}
	return docker.VolumeSummary{}, errNotImplemented
}

func (f *fakeEngine) RemoveVolume(ctx context.Context, name string, force bool) (docker.Removal, error) {
	f.record("RemoveVolume")
	if f.removeVolumeFunc != nil {
		return f.removeVolumeFunc(ctx, name, force)
	}
	return docker.Removal{}, errNotImplemented
}
