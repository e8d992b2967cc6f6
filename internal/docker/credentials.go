package docker

import (
	"fmt"
	"io"

	"github.com/distribution/reference"
	"github.com/docker/cli/cli/config"
	"github.com/docker/cli/cli/config/configfile"
	"github.com/docker/docker/api/types/registry"
)

// indexServer is the key Docker Hub credentials are stored under in the docker config file.
const indexServer = "https://index.docker.io/v1/"

// Credentials looks up the registry credentials for a registry hostname.
type Credentials func(hostname string) (registry.AuthConfig, error)

// DockerConfigCredentials reads credentials the way the docker CLI does, from config.json
// and any credential helpers it names. An empty dir selects the default location
// ($DOCKER_CONFIG or ~/.docker).
func DockerConfigCredentials(dir string) Credentials {
	return func(hostname string) (registry.AuthConfig, error) {
		var file *configfile.ConfigFile
		if dir == "" {
			file = config.LoadDefaultConfigFile(io.Discard)
		} else {
			var err error
			file, err = config.Load(dir)
			if err != nil {
				return registry.AuthConfig{}, fmt.Errorf("failed to load docker config from %q: %w", dir, err)
			}
		}

		auth, err := file.GetAuthConfig(hostname)
		if err != nil {
			return registry.AuthConfig{}, fmt.Errorf("failed to read credentials for %q: %w", hostname, err)
		}

		return registry.AuthConfig{
			Username:      auth.Username,
			Password:      auth.Password,
			Auth:          auth.Auth,
			ServerAddress: auth.ServerAddress,
			IdentityToken: auth.IdentityToken,
			RegistryToken: auth.RegistryToken,
		}, nil
	}
}

// WithCredentials returns a copy of c that sends credentials from creds on pull and push.
func (c Client) WithCredentials(creds Credentials) Client {
	c.credentials = creds
	return c
}

// registryAuth encodes the credentials for the registry of named. Without a credential
// source, or when the lookup fails, the request is anonymous and the engine reports any
// authorization error itself.
func (c Client) registryAuth(named reference.Named) (string, error) {
	var auth registry.AuthConfig
	if c.credentials != nil {
		hostname := reference.Domain(named)
		if hostname == "docker.io" {
			hostname = indexServer
		}

		found, err := c.credentials(hostname)
		if err == nil {
			auth = found
		}
	}

	encoded, err := registry.EncodeAuthConfig(auth)
	if err != nil {
		return "", fmt.Errorf("failed to encode registry auth: %w", err)
	}
	return encoded, nil
}
