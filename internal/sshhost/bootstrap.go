package sshhost

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Options configures Bootstrap.
type Options struct {
	ConfigPath      string
	KnownHostsPath  string
	Scanner         Scanner
	SkipHostKeyScan bool
}

// Report is the inspectable outcome of Bootstrap.
type Report struct {
	Original   string
	Host       string
	Target     Target
	Trust      TrustStatus
	ResolveErr error
	TrustErr   error
}

// Changed reports whether alias resolution rewrote the address.
func (r Report) Changed() bool {
	return r.Host != r.Original
}

// OK reports whether every attempted step succeeded. A missing SSH configuration
// file does not count as a failure.
func (r Report) OK() bool {
	resolved := r.ResolveErr == nil || errors.Is(r.ResolveErr, ErrNoSSHConfig)
	return resolved && r.TrustErr == nil
}

// MarshalZerologObject adds the report fields to a log event.
func (r Report) MarshalZerologObject(e *zerolog.Event) {
	e.Str("docker_host", r.Host).
		Bool("rewritten", r.Changed()).
		Str("host_key", string(r.Trust))

	if r.Target.Hostname != "" {
		e.Str("ssh_target", r.Target.Address())
	}
	if r.ResolveErr != nil {
		e.AnErr("resolve_error", r.ResolveErr)
	}
	if r.TrustErr != nil {
		e.AnErr("trust_error", r.TrustErr)
	}
}

// Bootstrap prepares dockerHost for use by the engine client. For ssh:// addresses it
// resolves SSH aliases and seeds known_hosts with the target's host keys. Every failure
// is recorded in the Report rather than returned: the Report's Host is always usable,
// falling back to the original address.
func Bootstrap(ctx context.Context, dockerHost string, opts Options) Report {
	report := Report{Original: dockerHost, Host: dockerHost, Trust: TrustSkipped}
	if !IsSSH(dockerHost) {
		return report
	}

	resolver := Resolver{ConfigPath: opts.ConfigPath}

	report.Host, report.ResolveErr = resolver.Resolve(dockerHost)

	if opts.SkipHostKeyScan || opts.Scanner == nil {
		return report
	}

	target, err := resolver.Target(report.Host)
	if err != nil {
		report.Trust, report.TrustErr = TrustFailed, err
		return report
	}
	report.Target = target

	trust := Trust{KnownHostsPath: opts.KnownHostsPath, Scanner: opts.Scanner}
	report.Trust, report.TrustErr = trust.Ensure(ctx, target)

	return report
}
