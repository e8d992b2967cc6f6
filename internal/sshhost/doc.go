// Package sshhost prepares ssh:// Docker engine addresses before the engine
// client is constructed.
//
// Resolve rewrites an SSH alias into an explicit user@host:port target using
// the SSH client configuration. Trust seeds the known_hosts file with the
// keys reported by ssh-keyscan. Bootstrap runs both as a best-effort step and
// returns a Report describing what happened; it never prevents the client
// from being built.
package sshhost
