package docker_test

import (
	"context"
	"testing"

	"github.com/docker/docker/api/types/volume"
	"github.com/ryanmoran/docker-mcp/internal/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListVolumes(t *testing.T) {
	t.Run("unwraps the list response", func(t *testing.T) {
		mock := &mockDockerClient{
			volumeListFunc: func(ctx context.Context, options volume.ListOptions) (volume.ListResponse, error) {
				assert.Equal(t, []string{"true"}, options.Filters.Get("dangling"))
				return volume.ListResponse{
					Volumes: []*volume.Volume{
						{Name: "data", Driver: "local", Mountpoint: "/var/lib/docker/volumes/data/_data", Scope: "local"},
						nil,
						{Name: "cache", Driver: "local"},
					},
					Warnings: []string{"ignored"},
				}, nil
			},
		}

		summaries, err := docker.NewClient(mock).ListVolumes(context.Background(), docker.ListOptions{
			Filters: map[string][]string{"dangling": {"true"}},
		})
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "data", summaries[0].Name)
		assert.Equal(t, "/var/lib/docker/volumes/data/_data", summaries[0].Mountpoint)
		assert.Equal(t, "cache", summaries[1].Name)
	})
}

func TestCreateVolume(t *testing.T) {
	t.Run("defaults to the local driver", func(t *testing.T) {
		mock := &mockDockerClient{
			volumeCreateFunc: func(ctx context.Context, options volume.CreateOptions) (volume.Volume, error) {
				assert.Equal(t, "data", options.Name)
				assert.Equal(t, "local", options.Driver)
				assert.Equal(t, map[string]string{"type": "tmpfs"}, options.DriverOpts)
				return volume.Volume{Name: options.Name, Driver: options.Driver, Options: options.DriverOpts, Scope: "local"}, nil
			},
		}

		summary, err := docker.NewClient(mock).CreateVolume(context.Background(), docker.VolumeSpec{
			Name:       "data",
			DriverOpts: map[string]string{"type": "tmpfs"},
		})
		require.NoError(t, err)
		assert.Equal(t, docker.VolumeSummary{
			Name:    "data",
			Driver:  "local",
			Options: map[string]string{"type": "tmpfs"},
			Scope:   "local",
		}, summary)
	})
}

func TestRemoveVolume(t *testing.T) {
	t.Run("forwards force to a single remove call", func(t *testing.T) {
		for _, force := range []bool{true, false} {
			var forced []bool
			mock := &mockDockerClient{
				volumeInspectFunc: func(ctx context.Context, volumeID string) (volume.Volume, error) {
					assert.Equal(t, "data", volumeID)
					return volume.Volume{Name: "data"}, nil
				},
				volumeRemoveFunc: func(ctx context.Context, volumeID string, f bool) error {
					forced = append(forced, f)
					return nil
				},
			}

			removal, err := docker.NewClient(mock).RemoveVolume(context.Background(), "data", force)
			require.NoError(t, err)
			assert.Equal(t, []bool{force}, forced)
			assert.Equal(t, docker.Removal{Status: "removed", Name: "data"}, removal)
		}
	})

	t.Run("propagates not found without removing", func(t *testing.T) {
		mock := &mockDockerClient{
			volumeInspectFunc: func(ctx context.Context, volumeID string) (volume.Volume, error) {
				return volume.Volume{}, notFound("volume", volumeID)
			},
		}

		_, err := docker.NewClient(mock).RemoveVolume(context.Background(), "ghost", true)
		assert.True(t, docker.IsNotFound(err))
		assert.Equal(t, []string{"VolumeInspect"}, mock.Calls())
	})
}
