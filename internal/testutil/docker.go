// Package testutil holds helpers for tests that need a Docker daemon.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// CleanupLabel marks containers created by tests.
const CleanupLabel = "formassist-test"

// RequireDocker returns a Docker client, skipping the test in -short mode or
// when no daemon answers. Containers labelled for this test are removed when
// it finishes.
func RequireDocker(t *testing.T) *client.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Docker test in short mode")
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Skipf("docker client unavailable: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		t.Skipf("docker is not running: %v", err)
	}

	t.Cleanup(func() {
		cleanupTestContainers(t, cli)
		cli.Close()
	})
	return cli
}

// UniqueContainerName returns formassist-test-<prefix>-<test>-<random>.
func UniqueContainerName(t *testing.T, prefix string) string {
	t.Helper()
	return fmt.Sprintf("%s-%s-%s-%s", CleanupLabel, prefix, sanitizeName(t.Name()), randString(4))
}

// ContainerLabels returns the labels cleanup looks for.
func ContainerLabels(t *testing.T) map[string]string {
	return map[string]string{CleanupLabel: sanitizeName(t.Name())}
}

// FindFreePort returns an unused localhost TCP port.
func FindFreePort() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	return fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port), nil
}

func cleanupTestContainers(t *testing.T, cli *client.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	args := filters.NewArgs(filters.Arg("label", CleanupLabel+"="+sanitizeName(t.Name())))
	containers, err := cli.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		t.Logf("failed to list containers for cleanup: %v", err)
		return
	}
	for _, c := range containers {
		if err := cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true, RemoveVolumes: true}); err != nil {
			t.Logf("failed to remove container %s: %v", strings.Join(c.Names, ","), err)
		}
	}
}

func randString(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// sanitizeName keeps characters Docker accepts in names and label values.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '/' || r == '_' || r == '-':
			b.WriteByte('-')
		}
		if b.Len() >= 30 {
			break
		}
	}
	return b.String()
}
