package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-formassist")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-formassist" {
			t.Errorf("expected path /tmp/test-formassist, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/fa")

	tests := []struct {
		name, got, want string
	}{
		{"DataPath", dir.DataPath(), "/tmp/fa/defradb"},
		{"ConfigPath", dir.ConfigPath(), "/tmp/fa/config.yaml"},
		{"SQLitePath", dir.SQLitePath(), "/tmp/fa/formassist.db"},
		{"UploadsPath", dir.UploadsPath(), "/tmp/fa/uploads"},
		{"UploadPath strips directories", dir.UploadPath("abc", "../../etc/passwd"), "/tmp/fa/uploads/abc-passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, tt.got)
			}
		})
	}
}

func TestDir_EnsureExists(t *testing.T) {
	dir, err := New(filepath.Join(t.TempDir(), "formassist-test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir.Exists() {
		t.Fatal("directory should not exist yet")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}
	for _, p := range []string{dir.Path(), dir.DataPath(), dir.UploadsPath()} {
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", p)
		}
	}

	// Second call is a no-op.
	if err := dir.EnsureExists(); err != nil {
		t.Errorf("second EnsureExists failed: %v", err)
	}
	if dir.ConfigExists() {
		t.Error("config should not exist")
	}
}
