package sshhost

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"
)

const defaultPort = 22

var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)

// Target is a concrete SSH endpoint.
type Target struct {
	User     string
	Hostname string
	Port     int
}

// Address returns host:port.
func (t Target) Address() string {
	return net.JoinHostPort(t.Hostname, strconv.Itoa(t.Port))
}

// Validate reports ErrInvalidTarget unless the hostname is made of letters, digits, dots
// and dashes only, does not start with a dash, and the port is within 1-65535. Only validated targets are handed to
// external commands.
func (t Target) Validate() error {
	if !hostnamePattern.MatchString(t.Hostname) || strings.HasPrefix(t.Hostname, "-") {
		return fmt.Errorf("%w: hostname %q", ErrInvalidTarget, t.Hostname)
	}
	if t.Port < 1 || t.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidTarget, t.Port)
	}
	return nil
}

// IsSSH reports whether dockerHost uses the ssh scheme.
func IsSSH(dockerHost string) bool {
	return strings.HasPrefix(dockerHost, "ssh://")
}

// Resolver looks up SSH aliases in an SSH client configuration file.
type Resolver struct {
	ConfigPath string
}

// Resolve rewrites an ssh:// address whose host is an alias into an explicit address built
// from the alias' HostName, User and Port settings. Addresses that are not ssh://, that
// already carry a user, or whose alias has no settings are returned unchanged. When the
// configuration cannot be read the original address is returned together with the error.
func (r Resolver) Resolve(dockerHost string) (string, error) {
	if !IsSSH(dockerHost) {
		return dockerHost, nil
	}

	u, err := url.Parse(dockerHost)
	if err != nil {
		return dockerHost, fmt.Errorf("failed to parse docker host %q: %w", dockerHost, err)
	}

	if u.User != nil {
		return dockerHost, nil
	}

	alias := u.Hostname()
	if alias == "" {
		return dockerHost, nil
	}

	cfg, err := r.load()
	if err != nil {
		return dockerHost, err
	}

	hostname := lookup(cfg, alias, "HostName")
	if hostname == "" {
		hostname = alias
	}
	hostname = strings.ReplaceAll(hostname, "%h", alias)

	port := lookup(cfg, alias, "Port")
	if port == "" {
		port = u.Port()
	}

	if port != "" && port != strconv.Itoa(defaultPort) {
		u.Host = net.JoinHostPort(hostname, port)
	} else if strings.Contains(hostname, ":") {
		u.Host = "[" + hostname + "]"
	} else {
		u.Host = hostname
	}

	if user := lookup(cfg, alias, "User"); user != "" {
		u.User = url.User(user)
	}

	return u.String(), nil
}

// Target extracts the SSH endpoint of an ssh:// address. When the host is still an alias
// in the SSH configuration, its HostName and Port settings are applied. A missing
// configuration file is not an error here.
func (r Resolver) Target(dockerHost string) (Target, error) {
	u, err := url.Parse(dockerHost)
	if err != nil {
		return Target{}, fmt.Errorf("failed to parse docker host %q: %w", dockerHost, err)
	}

	target := Target{Hostname: u.Hostname(), Port: defaultPort}
	if u.User != nil {
		target.User = u.User.Username()
	}

	if p := u.Port(); p != "" {
		target.Port, err = strconv.Atoi(p)
		if err != nil {
			return Target{}, fmt.Errorf("%w: port %q", ErrInvalidTarget, p)
		}
	}

	if target.Hostname == "" {
		return Target{}, fmt.Errorf("%w: docker host %q has no hostname", ErrInvalidTarget, dockerHost)
	}

	cfg, err := r.load()
	switch {
	case errors.Is(err, ErrNoSSHConfig):
	case err != nil:
		return Target{}, err
	default:
		alias := target.Hostname
		if hostname := lookup(cfg, alias, "HostName"); hostname != "" {
			target.Hostname = strings.ReplaceAll(hostname, "%h", alias)
		}
		if port := lookup(cfg, alias, "Port"); port != "" {
			target.Port, err = strconv.Atoi(port)
			if err != nil {
				return Target{}, fmt.Errorf("%w: port %q configured for %q", ErrInvalidTarget, port, alias)
			}
		}
	}

	return target, target.Validate()
}

func (r Resolver) load() (*ssh_config.Config, error) {
	f, err := os.Open(r.ConfigPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoSSHConfig, r.ConfigPath)
		}
		return nil, fmt.Errorf("failed to open ssh config %q: %w", r.ConfigPath, err)
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ssh config %q: %w", r.ConfigPath, err)
	}

	return cfg, nil
}

func lookup(cfg *ssh_config.Config, alias, key string) string {
	value, err := cfg.Get(alias, key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
