package sshhost_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ryanmoran/docker-mcp/internal/sshhost"
	"github.com/stretchr/testify/require"
)

// mockScanner is a test double for sshhost.Scanner
type mockScanner struct {
	scanFunc func(ctx context.Context, target sshhost.Target) ([]byte, error)
	calls    []sshhost.Target
}

func (m *mockScanner) Scan(ctx context.Context, target sshhost.Target) ([]byte, error) {
	m.calls = append(m.calls, target)
	if m.scanFunc != nil {
		return m.scanFunc(ctx, target)
	}
	return []byte(target.Hostname + " ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIFake\n"), nil
}

const sampleConfig = `Host prod
  HostName prod.example.com
  User deploy
  Port 2222

Host staging
  HostName 10.0.0.5

Host jump
  HostName %h.internal.example.com
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
