package internal

// DockerHost is the engine address, for example unix:///var/run/docker.sock
// or ssh://user@host. An empty value selects the engine client's default.
type DockerHost string

// CallID identifies a single tool call in the logs.
type CallID string

// LogLevel is a textual log level: debug, info, warn, or error.
type LogLevel string
