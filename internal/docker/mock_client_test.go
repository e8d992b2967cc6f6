package docker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// mockDockerClient is a mock implementation of docker.DockerClient for testing.
// Every call is recorded by method name in calls.
type mockDockerClient struct {
	containerListFunc    func(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	containerCreateFunc  func(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	containerStartFunc   func(ctx context.Context, containerID string, options container.StartOptions) error
	containerStopFunc    func(ctx context.Context, containerID string, options container.StopOptions) error
	containerRemoveFunc  func(ctx context.Context, containerID string, options container.RemoveOptions) error
	containerInspectFunc func(ctx context.Context, containerID string) (container.InspectResponse, error)
	containerLogsFunc    func(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	containerStatsFunc   func(ctx context.Context, containerID string) (container.StatsResponseReader, error)

	imageListFunc    func(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	imagePullFunc    func(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	imagePushFunc    func(ctx context.Context, ref string, options image.PushOptions) (io.ReadCloser, error)
	imageBuildFunc   func(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error)
	imageRemoveFunc  func(ctx context.Context, imageID string, options image.RemoveOptions) ([]image.DeleteResponse, error)
	imageInspectFunc func(ctx context.Context, imageID string) (image.InspectResponse, error)

	networkListFunc    func(ctx context.Context, options network.ListOptions) ([]network.Summary, error)
	networkCreateFunc  func(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error)
	networkInspectFunc func(ctx context.Context, networkID string, options network.InspectOptions) (network.Inspect, error)
	networkRemoveFunc  func(ctx context.Context, networkID string) error

	volumeListFunc    func(ctx context.Context, options volume.ListOptions) (volume.ListResponse, error)
	volumeCreateFunc  func(ctx context.Context, options volume.CreateOptions) (volume.Volume, error)
	volumeInspectFunc func(ctx context.Context, volumeID string) (volume.Volume, error)
	volumeRemoveFunc  func(ctx context.Context, volumeID string, force bool) error

	pingFunc  func(ctx context.Context) (types.Ping, error)
	closeFunc func() error

	mu    sync.Mutex
	calls []string
}

func (m *mockDockerClient) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockDockerClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockDockerClient) count(name string) int {
	n := 0
	for _, call := range m.Calls() {
		if call == name {
			n++
		}
	}
	return n
}

var errNotImplemented = errors.New("not implemented")

func (m *mockDockerClient) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	m.record("ContainerList")
	if m.containerListFunc != nil {
		return m.containerListFunc(ctx, options)
	}
	return nil, errNotImplemented
}

func (m *mockDockerClient) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error) {
	m.record("ContainerCreate")
	if m.containerCreateFunc != nil {
		return m.containerCreateFunc(ctx, config, hostConfig, networkingConfig, platform, containerName)
	}
	return container.CreateResponse{}, errNotImplemented
}

func (m *mockDockerClient) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	m.record("ContainerStart")
	if m.containerStartFunc != nil {
		return m.containerStartFunc(ctx, containerID, options)
	}
	return errNotImplemented
}

func (m *mockDockerClient) ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error {
	m.record("ContainerStop")
	if m.containerStopFunc != nil {
		return m.containerStopFunc(ctx, containerID, options)
	}
	return errNotImplemented
}

func (m *mockDockerClient) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	m.record("ContainerRemove")
	if m.containerRemoveFunc != nil {
		return m.containerRemoveFunc(ctx, containerID, options)
	}
	return errNotImplemented
}

func (m *mockDockerClient) ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error) {
	m.record("ContainerInspect")
	if m.containerInspectFunc != nil {
		return m.containerInspectFunc(ctx, containerID)
	}
	return container.InspectResponse{}, errNotImplemented
}

func (m *mockDockerClient) ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error) {
	m.record("ContainerLogs")
	if m.containerLogsFunc != nil {
		return m.containerLogsFunc(ctx, containerID, options)
	}
	return nil, errNotImplemented
}

func (m *mockDockerClient) ContainerStatsOneShot(ctx context.Context, containerID string) (container.StatsResponseReader, error) {
	m.record("ContainerStatsOneShot")
	if m.containerStatsFunc != nil {
		return m.containerStatsFunc(ctx, containerID)
	}
	return container.StatsResponseReader{}, errNotImplemented
}

func (m *mockDockerClient) ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
	m.record("ImageList")
	if m.imageListFunc != nil {
		return m.imageListFunc(ctx, options)
	}
	return nil, errNotImplemented
}

func (m *mockDockerClient) ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error) {
	m.record("ImagePull")
	if m.imagePullFunc != nil {
		return m.imagePullFunc(ctx, ref, options)
	}
	return nil, errNotImplemented
}

func (m *mockDockerClient) ImagePush(ctx context.Context, ref string, options image.PushOptions) (io.ReadCloser, error) {
	m.record("ImagePush")
	if m.imagePushFunc != nil {
		return m.imagePushFunc(ctx, ref, options)
	}
	return nil, errNotImplemented
}

func (m *mockDockerClient) ImageBuild(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error) {
	m.record("ImageBuild")
	if m.imageBuildFunc != nil {
		return m.imageBuildFunc(ctx, buildContext, options)
	}
	return build.ImageBuildResponse{}, errNotImplemented
}

func (m *mockDockerClient) ImageRemove(ctx context.Context, imageID string, options image.RemoveOptions) ([]image.DeleteResponse, error) {
	m.record("ImageRemove")
	if m.imageRemoveFunc != nil {
		return m.imageRemoveFunc(ctx, imageID, options)
	}
	return nil, errNotImplemented
}

func (m *mockDockerClient) ImageInspect(ctx context.Context, imageID string, _ ...client.ImageInspectOption) (image.InspectResponse, error) {
	m.record("ImageInspect")
	if m.imageInspectFunc != nil {
		return m.imageInspectFunc(ctx, imageID)
	}
	return image.InspectResponse{}, errNotImplemented
}

func (m *mockDockerClient) NetworkList(ctx context.Context, options network.ListOptions) ([]network.Summary, error) {
	m.record("NetworkList")
	if m.networkListFunc != nil {
		return m.networkListFunc(ctx, options)
	}
	return nil, errNotImplemented
}

func (m *mockDockerClient) NetworkCreate(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error) {
	m.record("NetworkCreate")
	if m.networkCreateFunc != nil {
		return m.networkCreateFunc(ctx, name, options)
	}
	return network.CreateResponse{}, errNotImplemented
}

func (m *mockDockerClient) NetworkInspect(ctx context.Context, networkID string, options network.InspectOptions) (network.Inspect, error) {
	m.record("NetworkInspect")
	if m.networkInspectFunc != nil {
		return m.networkInspectFunc(ctx, networkID, options)
	}
	return network.Inspect{}, errNotImplemented
}

func (m *mockDockerClient) NetworkRemove(ctx context.Context, networkID string) error {
	m.record("NetworkRemove")
	if m.networkRemoveFunc != nil {
		return m.networkRemoveFunc(ctx, networkID)
	}
	return errNotImplemented
}

func (m *mockDockerClient) VolumeList(ctx context.Context, options volume.ListOptions) (volume.ListResponse, error) {
	m.record("VolumeList")
	if m.volumeListFunc != nil {
		return m.volumeListFunc(ctx, options)
	}
	return volume.ListResponse{}, errNotImplemented
}

func (m *mockDockerClient) VolumeCreate(ctx context.Context, options volume.CreateOptions) (volume.Volume, error) {
	m.record("VolumeCreate")
	if m.volumeCreateFunc != nil {
		return m.volumeCreateFunc(ctx, options)
	}
	return volume.Volume{}, errNotImplemented
}

func (m *mockDockerClient) VolumeInspect(ctx context.Context, volumeID string) (volume.Volume, error) {
	m.record("VolumeInspect")
	if m.volumeInspectFunc != nil {
		return m.volumeInspectFunc(ctx, volumeID)
	}
	return volume.Volume{}, errNotImplemented
}

func (m *mockDockerClient) VolumeRemove(ctx context.Context, volumeID string, force bool) error {
	m.record("VolumeRemove")
	if m.volumeRemoveFunc != nil {
		return m.volumeRemoveFunc(ctx, volumeID, force)
	}
	return errNotImplemented
}

func (m *mockDockerClient) Ping(ctx context.Context) (types.Ping, error) {
	m.record("Ping")
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return types.Ping{}, errNotImplemented
}

func (m *mockDockerClient) Close() error {
	m.record("Close")
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

// notFound mimics the engine's classified 404 error.
func notFound(kind, id string) error {
	return fmt.Errorf("No such %s: %s: %w", kind, id, cerrdefs.ErrNotFound)
}

// inspected builds an inspect response for a running or exited container.
func inspected(id, name string, running bool) container.InspectResponse {
	state := &container.State{Status: "exited"}
	if running {
		state = &container.State{Status: "running", Running: true}
	}

	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:         id,
			Name:       "/" + name,
			State:      state,
			HostConfig: &container.HostConfig{NetworkMode: "bridge"},
		},
		Config: &container.Config{Image: "alpine:latest"},
	}
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}
