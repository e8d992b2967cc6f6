package docker_test

import (
	"context"
	"testing"
	"time"

	"github.com/docker/docker/api/types/network"
	"github.com/ryanmoran/docker-mcp/internal/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNetworks(t *testing.T) {
	t.Run("projects records including IPAM pools", func(t *testing.T) {
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		mock := &mockDockerClient{
			networkListFunc: func(ctx context.Context, options network.ListOptions) ([]network.Summary, error) {
				assert.Equal(t, []string{"bridge"}, options.Filters.Get("driver"))
				return []network.Summary{{
					ID:      "0123456789abcdef0123",
					Name:    "backend",
					Driver:  "bridge",
					Scope:   "local",
					Created: created,
					Labels:  map[string]string{"env": "dev"},
					IPAM: network.IPAM{
						Driver: "default",
						Config: []network.IPAMConfig{{Subnet: "172.18.0.0/16", Gateway: "172.18.0.1"}},
					},
				}}, nil
			},
		}

		summaries, err := docker.NewClient(mock).ListNetworks(context.Background(), docker.ListOptions{
			Filters: map[string][]string{"driver": {"bridge"}},
		})
		require.NoError(t, err)
		require.Len(t, summaries, 1)

		assert.Equal(t, "0123456789ab", summaries[0].ID)
		assert.Equal(t, "backend", summaries[0].Name)
		assert.Equal(t, "2024-05-01T12:00:00Z", summaries[0].Created)
		assert.Equal(t, "default", summaries[0].IPAM.Driver)
		assert.Equal(t, []docker.IPAMPool{{Subnet: "172.18.0.0/16", Gateway: "172.18.0.1"}}, summaries[0].IPAM.Config)
	})
}

func TestCreateNetwork(t *testing.T) {
	t.Run("defaults to the bridge driver", func(t *testing.T) {
		mock := &mockDockerClient{
			networkCreateFunc: func(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error) {
				assert.Equal(t, "backend", name)
				assert.Equal(t, "bridge", options.Driver)
				assert.True(t, options.Internal)
				assert.True(t, options.Attachable)
				assert.Equal(t, map[string]string{"env": "dev"}, options.Labels)
				return network.CreateResponse{ID: "0123456789abcdef0123"}, nil
			},
		}

		ref, err := docker.NewClient(mock).CreateNetwork(context.Background(), docker.NetworkSpec{
			Name:       "backend",
			Internal:   true,
			Attachable: true,
			Labels:     map[string]string{"env": "dev"},
		})
		require.NoError(t, err)
		assert.Equal(t, docker.NetworkRef{ID: "0123456789ab", Name: "backend"}, ref)
	})

	t.Run("requires a name", func(t *testing.T) {
		mock := &mockDockerClient{}
		_, err := docker.NewClient(mock).CreateNetwork(context.Background(), docker.NetworkSpec{Driver: "overlay"})
		require.ErrorIs(t, err, docker.ErrInvalidSpec)
		assert.Empty(t, mock.Calls())
	})
}

func TestRemoveNetwork(t *testing.T) {
	t.Run("inspects then removes by the full id", func(t *testing.T) {
		mock := &mockDockerClient{
			networkInspectFunc: func(ctx context.Context, networkID string, options network.InspectOptions) (network.Inspect, error) {
				assert.Equal(t, "backend", networkID)
				return network.Inspect{ID: "0123456789abcdef0123", Name: "backend"}, nil
			},
			networkRemoveFunc: func(ctx context.Context, networkID string) error {
				assert.Equal(t, "0123456789abcdef0123", networkID)
				return nil
			},
		}

		removal, err := docker.NewClient(mock).RemoveNetwork(context.Background(), "backend")
		require.NoError(t, err)
		assert.Equal(t, docker.Removal{Status: "removed", ID: "0123456789ab", Name: "backend"}, removal)
		assert.Equal(t, []string{"NetworkInspect", "NetworkRemove"}, mock.Calls())
	})

	t.Run("propagates not found without removing", func(t *testing.T) {
		mock := &mockDockerClient{
			networkInspectFunc: func(ctx context.Context, networkID string, options network.InspectOptions) (network.Inspect, error) {
				return network.Inspect{}, notFound("network", networkID)
			},
		}

		_, err := docker.NewClient(mock).RemoveNetwork(context.Background(), "ghost")
		assert.True(t, docker.IsNotFound(err))
		assert.Equal(t, 0, mock.count("NetworkRemove"))
	})
}
