package docker

import (
	"context"
	"fmt"
	"net/http"

	"github.com/docker/cli/cli/connhelper"
	"github.com/docker/docker/client"
)

type Client struct {
	client      DockerClient
	credentials Credentials
}

// NewClient creates a Client that wraps the provided Docker client interface.
func NewClient(dockerClient DockerClient) Client {
	return Client{
		client: dockerClient,
	}
}

// NewDefaultClient creates a Client with a real Docker client. The environment (DOCKER_HOST,
// DOCKER_CERT_PATH, DOCKER_TLS_VERIFY) configures the client; a non-empty host overrides
// DOCKER_HOST. ssh:// hosts are reached through the docker CLI's SSH connection helper,
// which runs the local ssh binary. The API version is negotiated on first use. Pulls and
// pushes authenticate with the credentials of the user's docker config.
func NewDefaultClient(host string) (Client, error) {
	opts, err := clientOptions(host)
	if err != nil {
		return Client{}, err
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return Client{}, fmt.Errorf("failed to create docker client: %w\nEnsure Docker is running and DOCKER_HOST is set correctly", err)
	}

	return NewClient(cli).WithCredentials(DockerConfigCredentials("")), nil
}

func clientOptions(host string) ([]client.Opt, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host == "" {
		return opts, nil
	}

	helper, err := connhelper.GetConnectionHelper(host)
	if err != nil {
		return nil, fmt.Errorf("failed to set up connection to %q: %w\nCheck the docker host address", host, err)
	}

	if helper == nil {
		return append(opts, client.WithHost(host)), nil
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext: helper.Dialer,
		},
	}

	return append(opts,
		client.WithHTTPClient(httpClient),
		client.WithHost(helper.Host),
		client.WithDialContext(helper.Dialer),
	), nil
}

// Close closes the underlying Docker client connection.
func (c Client) Close() error {
	return c.client.Close()
}

// Ping pings the Docker daemon and returns the API version if successful.
func (c Client) Ping(ctx context.Context) (string, error) {
	ping, err := c.client.Ping(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to ping docker daemon: %w\nMake sure Docker is installed and running (try 'docker ps')", err)
	}
	return ping.APIVersion, nil
}
