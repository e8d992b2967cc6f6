package docker

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
)

// RecreateResult reports a successful RecreateContainer.
type RecreateResult struct {
	Previous  ContainerRef    `json:"previous"`
	Container ContainerRef    `json:"container"`
	Stages    []RecreateStage `json:"stages"`
}

// snapshot is the configuration of a container captured before it is removed.
type snapshot struct {
	id         string
	name       string
	running    bool
	config     *container.Config
	hostConfig *container.HostConfig
	networking *network.NetworkingConfig
}

func capture(info container.InspectResponse) snapshot {
	s := snapshot{
		id:         info.ID,
		name:       strings.TrimPrefix(info.Name, "/"),
		config:     info.Config,
		hostConfig: info.HostConfig,
	}
	if info.State != nil {
		s.running = info.State.Running
	}

	if info.NetworkSettings != nil && len(info.NetworkSettings.Networks) > 0 {
		endpoints := make(map[string]*network.EndpointSettings, len(info.NetworkSettings.Networks))
		for name, endpoint := range info.NetworkSettings.Networks {
			if endpoint == nil {
				continue
			}
			endpoints[name] = &network.EndpointSettings{
				Aliases:    endpoint.Aliases,
				IPAMConfig: endpoint.IPAMConfig,
				Links:      endpoint.Links,
			}
		}
		s.networking = &network.NetworkingConfig{EndpointsConfig: endpoints}
	}

	return s
}

// RecreateContainer replaces a container with one built from spec. The steps run in the
// order inspect, stop, remove, run. When spec has no name the previous name is reused.
//
// If the run step fails after the previous container was removed, the previous container
// is created again from the configuration captured at inspect and started if it was
// running. Any failure is returned as a *RecreateError.
func (c Client) RecreateContainer(ctx context.Context, id string, spec ContainerSpec) (RecreateResult, error) {
	var stages []RecreateStage
	fail := func(stage RecreateStage, err error) *RecreateError {
		return &RecreateError{Stage: stage, Container: id, Err: err}
	}

	config, hostConfig, err := spec.configs()
	if err != nil {
		return RecreateResult{}, fail(StageInspect, err)
	}

	info, err := c.get(ctx, id)
	if err != nil {
		return RecreateResult{}, fail(StageInspect, err)
	}
	stages = append(stages, StageInspect)
	previous := capture(info)
	if spec.Name == "" {
		spec.Name = previous.name
	}

	// An auto-remove container is deleted by the engine once stopped, so NotFound from
	// either step means the previous container is already gone.
	gone := false
	err = c.client.ContainerStop(ctx, previous.id, container.StopOptions{})
	if err != nil {
		if !IsNotFound(err) {
			return RecreateResult{}, fail(StageStop, err)
		}
		gone = true
	}
	stages = append(stages, StageStop)

	if !gone {
		err = c.client.ContainerRemove(ctx, previous.id, container.RemoveOptions{})
		if err != nil && !IsNotFound(err) {
			return RecreateResult{}, fail(StageRemove, err)
		}
	}
	stages = append(stages, StageRemove)

	created, err := c.client.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return RecreateResult{}, c.rollback(ctx, fail(StageRun, err), previous)
	}

	err = c.client.ContainerStart(ctx, created.ID, container.StartOptions{})
	if err != nil {
		// The new container holds the name; it has to go before the old one can come back.
		if rmErr := c.client.ContainerRemove(ctx, created.ID, container.RemoveOptions{Force: true}); rmErr != nil {
			failure := fail(StageRun, err)
			failure.Removed = true
			failure.RollbackErr = rmErr
			return RecreateResult{}, failure
		}
		return RecreateResult{}, c.rollback(ctx, fail(StageRun, err), previous)
	}
	stages = append(stages, StageRun, StageDone)

	return RecreateResult{
		Previous: ContainerRef{ID: truncate(previous.id), Name: previous.name, Status: "removed"},
		Container: c.describe(ctx, created.ID, ContainerRef{
			ID:     truncate(created.ID),
			Name:   spec.Name,
			Status: "running",
		}),
		Stages: stages,
	}, nil
}

func (c Client) rollback(ctx context.Context, failure *RecreateError, previous snapshot) *RecreateError {
	failure.Removed = true

	restored, err := c.client.ContainerCreate(ctx, previous.config, previous.hostConfig, previous.networking, nil, previous.name)
	if err != nil {
		failure.RollbackErr = err
		return failure
	}

	if previous.running {
		if err := c.client.ContainerStart(ctx, restored.ID, container.StartOptions{}); err != nil {
			failure.RollbackErr = err
			return failure
		}
	}

	failure.RolledBack = true
	return failure
}
