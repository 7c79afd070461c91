// Package home resolves the formassist home directory and the files kept in it.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the home directory created under the user's home.
	DefaultDirName = ".formassist"

	// DataDirName holds DefraDB's data volume.
	DataDirName = "defradb"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// SQLiteFileName is the database used by the sqlite storage backend.
	SQLiteFileName = "formassist.db"

	// UploadsDirName keeps copies of ingested documents when enabled.
	UploadsDirName = "uploads"
)

// Dir is the formassist home directory.
type Dir struct {
	path string
}

// New returns the Dir rooted at path, or at ~/.formassist when path is empty.
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}
	return &Dir{path: path}, nil
}

// Path returns the root path.
func (d *Dir) Path() string {
	return d.path
}

// DataPath is mounted into the DefraDB container.
func (d *Dir) DataPath() string {
	return filepath.Join(d.path, DataDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// SQLitePath returns the default sqlite database path.
func (d *Dir) SQLitePath() string {
	return filepath.Join(d.path, SQLiteFileName)
}

// UploadsPath returns the directory for saved uploads.
func (d *Dir) UploadsPath() string {
	return filepath.Join(d.path, UploadsDirName)
}

// UploadPath returns the path a saved upload is written to.
func (d *Dir) UploadPath(id, filename string) string {
	return filepath.Join(d.UploadsPath(), id+"-"+filepath.Base(filename))
}

// EnsureExists creates the home directory and its subdirectories.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.DataPath(), d.UploadsPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists reports whether the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists reports whether the config file exists.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
