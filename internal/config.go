package internal

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultKeyscanTimeout bounds the ssh-keyscan run performed once at startup
	// for ssh:// engine hosts.
	DefaultKeyscanTimeout = 10 * time.Second

	// DefaultLogLevel is used when neither --log-level nor MCP_DOCKER_LOG_LEVEL is set.
	DefaultLogLevel LogLevel = "info"

	// ServerName is the implementation name announced to MCP clients.
	ServerName = "docker-mcp"
)

type Config struct {
	DockerHost DockerHost
	LogLevel   LogLevel
	LogFile    string

	SSHConfigPath   string
	KnownHostsPath  string
	KeyscanTimeout  time.Duration
	SkipHostKeyScan bool

	ShowVersion bool
}

// ParseConfig parses command-line arguments and environment variables into the server
// configuration. Flags take precedence over the environment: --docker-host over DOCKER_HOST,
// --log-level over MCP_DOCKER_LOG_LEVEL, --log-file over MCP_DOCKER_LOG_FILE. SSH paths default
// to files under $HOME/.ssh. Returns an error for unknown flags or malformed values.
func ParseConfig(args []string, environment []string) (Config, error) {
	lookup := make(map[string]string)
	for _, variable := range environment {
		key, value, ok := strings.Cut(variable, "=")
		if ok {
			lookup[key] = value
		}
	}

	home := lookup["HOME"]
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	level := string(DefaultLogLevel)
	if value, ok := lookup["MCP_DOCKER_LOG_LEVEL"]; ok && value != "" {
		level = value
	}

	var (
		config     Config
		dockerHost string
		logLevel   string
	)

	fs := flag.NewFlagSet(ServerName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&dockerHost, "docker-host", lookup["DOCKER_HOST"], "Docker engine address")
	fs.StringVar(&logLevel, "log-level", level, "log level (debug, info, warn, error)")
	fs.StringVar(&config.LogFile, "log-file", lookup["MCP_DOCKER_LOG_FILE"], "also write logs to this file")
	fs.StringVar(&config.SSHConfigPath, "ssh-config", filepath.Join(home, ".ssh", "config"), "SSH client configuration used to resolve ssh:// aliases")
	fs.StringVar(&config.KnownHostsPath, "known-hosts", filepath.Join(home, ".ssh", "known_hosts"), "known_hosts file to seed for ssh:// hosts")
	fs.DurationVar(&config.KeyscanTimeout, "keyscan-timeout", DefaultKeyscanTimeout, "timeout for ssh-keyscan")
	fs.BoolVar(&config.SkipHostKeyScan, "skip-host-key-scan", isTruthy(lookup["MCP_DOCKER_SKIP_KEYSCAN"]), "do not seed known_hosts for ssh:// hosts")
	fs.BoolVar(&config.ShowVersion, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("failed to parse arguments: %w\nRun with --help to list the supported flags", err)
	}

	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments %q\nThe server takes flags only", fs.Args())
	}

	switch LogLevel(strings.ToLower(logLevel)) {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("invalid log level %q\nUse one of debug, info, warn, error", logLevel)
	}

	if config.KeyscanTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid keyscan timeout %s\nThe timeout must be positive", config.KeyscanTimeout)
	}

	config.DockerHost = DockerHost(dockerHost)
	config.LogLevel = LogLevel(strings.ToLower(logLevel))

	return config, nil
}

func isTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
