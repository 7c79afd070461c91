package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/jackzampolin/formassist/internal/defra"
	"github.com/jackzampolin/formassist/internal/providers"
	"github.com/jackzampolin/formassist/internal/server/endpoints"
	"github.com/jackzampolin/formassist/internal/testutil"
)

func waitForServer(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	return errors.New("timed out waiting for server")
}

func TestServer_FullLifecycle(t *testing.T) {
	cases := []struct {
		backend string
		docker  bool
	}{
		{backend: BackendSQLite},
		{backend: BackendDefra, docker: true},
	}
	for _, tc := range cases {
		t.Run(tc.backend, func(t *testing.T) {
			if tc.docker {
				testutil.RequireDocker(t)
			}

			port, err := testutil.FindFreePort()
			if err != nil {
				t.Fatalf("FindFreePort() error = %v", err)
			}
			defraPort, err := testutil.FindFreePort()
			if err != nil {
				t.Fatalf("FindFreePort() error = %v", err)
			}
			containerName := testutil.UniqueContainerName(t, "server")

			srv, err := New(Config{
				Host:       "127.0.0.1",
				Port:       port,
				Backend:    tc.backend,
				SQLitePath: t.TempDir() + "/formassist.db",
				DefraConfig: defra.DockerConfig{
					ContainerName: containerName,
					DataPath:      t.TempDir(),
					HostPort:      defraPort,
					Labels:        testutil.ContainerLabels(t),
				},
				Providers: providers.NewRegistry(),
				Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
			})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			serverErr := make(chan error, 1)
			serverCtx, serverCancel := context.WithCancel(ctx)
			go func() {
				serverErr <- srv.Start(serverCtx)
			}()

			baseURL := fmt.Sprintf("http://127.0.0.1:%s", port)
			if err := waitForServer(baseURL, 60*time.Second); err != nil {
				serverCancel()
				t.Fatalf("server did not start: %v", err)
			}

			t.Run("ready_endpoint", func(t *testing.T) {
				resp, err := http.Get(baseURL + "/ready")
				if err != nil {
					t.Fatalf("ready check failed: %v", err)
				}
				defer resp.Body.Close()

				var health endpoints.HealthResponse
				if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.StatusCode != http.StatusOK || health.Store != "ok" {
					t.Errorf("ready = %d %+v", resp.StatusCode, health)
				}
			})

			t.Run("status_endpoint", func(t *testing.T) {
				resp, err := http.Get(baseURL + "/status")
				if err != nil {
					t.Fatalf("status check failed: %v", err)
				}
				defer resp.Body.Close()

				var status endpoints.StatusResponse
				if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if status.Store.Backend != tc.backend {
					t.Errorf("status.Store.Backend = %q, want %q", status.Store.Backend, tc.backend)
				}
				if status.Store.Health != "healthy" {
					t.Errorf("status.Store.Health = %q, want healthy", status.Store.Health)
				}
				if status.Store.Templates == 0 {
					t.Error("expected seeded templates")
				}
				if tc.docker && status.Store.Container != string(defra.StatusRunning) {
					t.Errorf("status.Store.Container = %q, want running", status.Store.Container)
				}
			})

			t.Run("is_running", func(t *testing.T) {
				if !srv.IsRunning() {
					t.Error("IsRunning() = false, want true")
				}
			})

			serverCancel()
			select {
			case err := <-serverErr:
				if err != nil {
					t.Logf("server returned error (expected during shutdown): %v", err)
				}
			case <-time.After(30 * time.Second):
				t.Fatal("server did not shut down within timeout")
			}

			if srv.IsRunning() {
				t.Error("IsRunning() = true after shutdown, want false")
			}

			if tc.docker {
				mgr, err := defra.NewDockerManager(defra.DockerConfig{ContainerName: containerName})
				if err != nil {
					t.Fatalf("failed to create manager: %v", err)
				}
				defer mgr.Close()
				status, err := mgr.Status(ctx)
				if err != nil {
					t.Fatalf("failed to get status: %v", err)
				}
				if status == defra.StatusRunning {
					t.Error("DefraDB still running after server shutdown")
					_ = mgr.Stop(ctx)
				}
			}
		})
	}
}
