package sshhost

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh/knownhosts"
)

// Scanner fetches the public host keys of a target in known_hosts format.
type Scanner interface {
	Scan(ctx context.Context, target Target) ([]byte, error)
}

// KeyScanner runs ssh-keyscan.
type KeyScanner struct {
	Binary  string
	Timeout time.Duration
}

// Scan runs `ssh-keyscan -p <port> <hostname>` with the configured timeout. The target is
// validated first, so nothing is executed for unsafe hostnames or ports.
func (k KeyScanner) Scan(ctx context.Context, target Target) ([]byte, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	binary := k.Binary
	if binary == "" {
		binary = "ssh-keyscan"
	}

	if k.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.Timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "-p", strconv.Itoa(target.Port), target.Hostname)
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("ssh-keyscan for %s timed out after %s", target.Address(), k.Timeout)
		}
		return nil, fmt.Errorf("failed to scan host keys for %s: %w\n%s", target.Address(), err, strings.TrimSpace(stderr.String()))
	}

	if len(bytes.TrimSpace(output)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoKeys, target.Address())
	}

	return output, nil
}

// TrustStatus describes the outcome of a host key trust attempt.
type TrustStatus string

const (
	TrustSkipped TrustStatus = "skipped"
	TrustPresent TrustStatus = "already-trusted"
	TrustAdded   TrustStatus = "added"
	TrustFailed  TrustStatus = "failed"
)

// Trust seeds a known_hosts file.
type Trust struct {
	KnownHostsPath string
	Scanner        Scanner
}

// Ensure makes sure the known_hosts file has an entry for target. Existing entries are
// matched on the normalised address ("host" for port 22, "[host]:port" otherwise). When no
// entry exists, the scanned keys are appended and the file is created with 0600
// permissions inside a 0700 directory if needed. Hashed entries are not recognised.
func (t Trust) Ensure(ctx context.Context, target Target) (TrustStatus, error) {
	if err := target.Validate(); err != nil {
		return TrustFailed, err
	}

	known, err := knownHosts(t.KnownHostsPath)
	if err != nil {
		return TrustFailed, err
	}

	if known[knownhosts.Normalize(target.Address())] {
		return TrustPresent, nil
	}

	keys, err := t.Scanner.Scan(ctx, target)
	if err != nil {
		return TrustFailed, err
	}

	if err := os.MkdirAll(filepath.Dir(t.KnownHostsPath), 0o700); err != nil {
		return TrustFailed, fmt.Errorf("failed to create directory for %q: %w", t.KnownHostsPath, err)
	}

	f, err := os.OpenFile(t.KnownHostsPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return TrustFailed, fmt.Errorf("failed to open known_hosts %q: %w", t.KnownHostsPath, err)
	}
	defer f.Close()

	if !bytes.HasSuffix(keys, []byte("\n")) {
		keys = append(keys, '\n')
	}

	if _, err := f.Write(keys); err != nil {
		return TrustFailed, fmt.Errorf("failed to write known_hosts %q: %w", t.KnownHostsPath, err)
	}

	return TrustAdded, nil
}

func knownHosts(path string) (map[string]bool, error) {
	hosts := make(map[string]bool)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return hosts, nil
		}
		return nil, fmt.Errorf("failed to read known_hosts %q: %w", path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		// @cert-authority / @revoked markers precede the host list
		if strings.HasPrefix(fields[0], "@") {
			if len(fields) < 2 {
				continue
			}
			fields = fields[1:]
		}

		for _, host := range strings.Split(fields[0], ",") {
			hosts[host] = true
		}
	}

	return hosts, scanner.Err()
}
