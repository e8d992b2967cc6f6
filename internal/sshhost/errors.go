package sshhost

import "errors"

// ErrInvalidTarget is returned when a hostname or port is not safe to pass to ssh-keyscan.
var ErrInvalidTarget = errors.New("invalid ssh target")

// ErrNoSSHConfig is returned when the SSH client configuration file does not exist.
var ErrNoSSHConfig = errors.New("ssh config not found")

// ErrNoKeys is returned when ssh-keyscan succeeds but reports no keys.
var ErrNoKeys = errors.New("ssh-keyscan returned no keys")
