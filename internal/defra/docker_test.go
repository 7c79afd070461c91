package defra

import (
	"context"
	"testing"
	"time"

	"github.com/jackzampolin/formassist/internal/testutil"
)

func TestStateOf(t *testing.T) {
	tests := map[string]ContainerStatus{
		"running":    StatusRunning,
		"exited":     StatusStopped,
		"dead":       StatusStopped,
		"created":    StatusStarting,
		"restarting": StatusStarting,
		"paused":     ContainerStatus("paused"),
	}
	for in, want := range tests {
		if got := stateOf(in); got != want {
			t.Errorf("stateOf(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestDockerManager_Integration(t *testing.T) {
	_ = testutil.RequireDocker(t)

	ctx := context.Background()
	port, err := testutil.FindFreePort()
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}

	mgr, err := NewDockerManager(DockerConfig{
		ContainerName: testutil.UniqueContainerName(t, "defra"),
		DataPath:      t.TempDir(),
		HostPort:      port,
		Labels:        testutil.ContainerLabels(t),
	})
	if err != nil {
		t.Fatalf("NewDockerManager() error = %v", err)
	}
	defer mgr.Close()

	if mgr.URL() != "http://localhost:"+port {
		t.Errorf("URL() = %s", mgr.URL())
	}

	t.Run("Start", func(t *testing.T) {
		if err := mgr.Start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if status, _ := mgr.Status(ctx); status != StatusRunning {
			t.Errorf("status = %s, want running", status)
		}
		if err := NewClient(mgr.URL()).HealthCheck(ctx); err != nil {
			t.Errorf("HealthCheck() error = %v", err)
		}
	})

	t.Run("Start_AlreadyRunning", func(t *testing.T) {
		if err := mgr.Start(ctx); err != nil {
			t.Errorf("Start() on running container: %v", err)
		}
	})

	t.Run("Stop_And_Restart", func(t *testing.T) {
		if err := mgr.Stop(ctx); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}
		if status, _ := mgr.Status(ctx); status != StatusStopped {
			t.Errorf("status = %s, want stopped", status)
		}
		if err := mgr.Start(ctx); err != nil {
			t.Fatalf("restart error = %v", err)
		}
	})

	t.Run("Logs", func(t *testing.T) {
		logs, err := mgr.Logs(ctx, "10")
		if err != nil {
			t.Fatalf("Logs() error = %v", err)
		}
		if logs == "" {
			t.Error("expected some log output")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := mgr.Remove(ctx); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if status, _ := mgr.Status(ctx); status != StatusNotFound {
			t.Errorf("status = %s, want not_found", status)
		}
		if err := mgr.Remove(ctx); err != nil {
			t.Errorf("Remove() on missing container: %v", err)
		}
		if _, err := mgr.Logs(ctx, "10"); err == nil {
			t.Error("expected error for missing container logs")
		}
	})

	t.Run("WaitReady_Timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if err := mgr.WaitReady(ctx, time.Second); err == nil {
			t.Error("expected timeout error")
		}
	})
}
