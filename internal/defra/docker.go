package defra

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

const (
	DefaultImage         = "sourcenetwork/defradb:latest"
	DefaultContainerName = "formassist-defra"
	DefaultPort          = "9181"
	ContainerPort        = "9181/tcp"
	DataDir              = "/data"
	Label                = "formassist-defra"

	// defaultReadyTimeout bounds how long Start waits for the health check.
	defaultReadyTimeout = 30 * time.Second
)

// ContainerStatus represents the state of the DefraDB container.
type ContainerStatus string

const (
	StatusRunning  ContainerStatus = "running"
	StatusStopped  ContainerStatus = "stopped"
	StatusNotFound ContainerStatus = "not_found"
	StatusStarting ContainerStatus = "starting"
)

// DockerManager runs DefraDB in a local Docker container. Form templates and
// responses live in it when storage.backend is "defra".
type DockerManager struct {
	cli           *client.Client
	containerName string
	imageName     string
	dataPath      string // host path bound to /data, usually ~/.formassist/defradb
	hostPort      string
	labels        map[string]string
	logger        *slog.Logger
}

// DockerConfig holds configuration for the Docker manager.
type DockerConfig struct {
	ContainerName string
	Image         string
	DataPath      string
	HostPort      string
	Labels        map[string]string // extra labels, used by tests for cleanup
	Logger        *slog.Logger
}

// NewDockerManager creates a new Docker manager for DefraDB.
func NewDockerManager(cfg DockerConfig) (*DockerManager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	if cfg.ContainerName == "" {
		cfg.ContainerName = DefaultContainerName
	}
	if cfg.Image == "" {
		cfg.Image = DefaultImage
	}
	if cfg.HostPort == "" {
		cfg.HostPort = DefaultPort
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	labels := map[string]string{Label: "true"}
	for k, v := range cfg.Labels {
		labels[k] = v
	}

	return &DockerManager{
		cli:           cli,
		containerName: cfg.ContainerName,
		imageName:     cfg.Image,
		dataPath:      cfg.DataPath,
		hostPort:      cfg.HostPort,
		labels:        labels,
		logger:        cfg.Logger,
	}, nil
}

// Close closes the Docker client.
func (m *DockerManager) Close() error {
	return m.cli.Close()
}

// ContainerName returns the managed container's name.
func (m *DockerManager) ContainerName() string {
	return m.containerName
}

// URL returns the DefraDB API URL.
func (m *DockerManager) URL() string {
	return "http://localhost:" + m.hostPort
}

// Start ensures the container exists, is running and answers health checks.
// A container left over from an earlier run is reused when its port and data
// mount match.
func (m *DockerManager) Start(ctx context.Context) error {
	if _, err := m.cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker is not running: %w", err)
	}

	c, err := m.find(ctx)
	if err != nil {
		return err
	}
	if c == nil {
		return m.createAndStart(ctx)
	}
	if err := m.validate(ctx, c.ID); err != nil {
		return fmt.Errorf("existing container %s is incompatible (remove it with `formassist defra remove`): %w", m.containerName, err)
	}

	switch stateOf(c.State) {
	case StatusRunning:
		m.logger.Debug("defra container already running", "container", m.containerName)
	case StatusStopped, StatusStarting:
		m.logger.Info("starting existing defra container", "container", m.containerName)
		if err := m.cli.ContainerStart(ctx, c.ID, container.StartOptions{}); err != nil {
			return fmt.Errorf("failed to start existing container: %w", err)
		}
	default:
		return fmt.Errorf("container in unexpected state: %s", c.State)
	}
	return m.WaitReady(ctx, defaultReadyTimeout)
}

// Stop stops the container if it exists.
func (m *DockerManager) Stop(ctx context.Context) error {
	c, err := m.find(ctx)
	if err != nil || c == nil {
		return err
	}
	timeout := 10
	if err := m.cli.ContainerStop(ctx, c.ID, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// Remove force-removes the container. Data on the host mount is kept.
func (m *DockerManager) Remove(ctx context.Context) error {
	c, err := m.find(ctx)
	if err != nil || c == nil {
		return err
	}
	if err := m.cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true, RemoveVolumes: true}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}

// Status returns the current status of the container.
func (m *DockerManager) Status(ctx context.Context) (ContainerStatus, error) {
	c, err := m.find(ctx)
	if err != nil {
		return "", err
	}
	if c == nil {
		return StatusNotFound, nil
	}
	return stateOf(c.State), nil
}

// Logs returns the last tail lines of container output.
func (m *DockerManager) Logs(ctx context.Context, tail string) (string, error) {
	c, err := m.find(ctx)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", fmt.Errorf("container %s not found", m.containerName)
	}

	logs, err := m.cli.ContainerLogs(ctx, c.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       tail,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get logs: %w", err)
	}
	defer logs.Close()

	b, err := io.ReadAll(logs)
	if err != nil {
		return "", fmt.Errorf("failed to read logs: %w", err)
	}
	return string(b), nil
}

// WaitReady polls the health endpoint once a second until it answers 200.
func (m *DockerManager) WaitReady(ctx context.Context, timeout time.Duration) error {
	attempts := uint(timeout / time.Second)
	if attempts == 0 {
		attempts = 1
	}
	return retry.Do(
		func() error { return NewClient(m.URL()).HealthCheck(ctx) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

func (m *DockerManager) createAndStart(ctx context.Context) error {
	if err := m.ensureImage(ctx); err != nil {
		return err
	}

	cfg := &container.Config{
		Image: m.imageName,
		Cmd: []string{
			"start",
			"--no-keyring",
			"--url", "0.0.0.0:9181",
			"--store", "badger",
			"--rootdir", DataDir,
		},
		Labels:       m.labels,
		ExposedPorts: nat.PortSet{ContainerPort: struct{}{}},
		Healthcheck: &container.HealthConfig{
			Test:        []string{"CMD", "curl", "-sf", "http://localhost:9181/health-check"},
			Interval:    2 * time.Second,
			Timeout:     5 * time.Second,
			Retries:     10,
			StartPeriod: 5 * time.Second,
		},
	}
	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{
			ContainerPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: m.hostPort}},
		},
	}
	if m.dataPath != "" {
		hostCfg.Mounts = []mount.Mount{{Type: mount.TypeBind, Source: m.dataPath, Target: DataDir}}
	}

	m.logger.Info("creating defra container", "container", m.containerName, "image", m.imageName, "port", m.hostPort)
	resp, err := m.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, m.containerName)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	if err := m.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = m.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return fmt.Errorf("failed to start container: %w", err)
	}
	return m.WaitReady(ctx, defaultReadyTimeout)
}

// validate checks that an existing container binds our port and data path.
func (m *DockerManager) validate(ctx context.Context, id string) error {
	info, err := m.cli.ContainerInspect(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to inspect container: %w", err)
	}

	bindings := info.HostConfig.PortBindings[ContainerPort]
	if len(bindings) == 0 {
		return fmt.Errorf("no port binding for %s", ContainerPort)
	}
	if bindings[0].HostPort != m.hostPort {
		return fmt.Errorf("bound to port %s, expected %s", bindings[0].HostPort, m.hostPort)
	}

	if m.dataPath == "" {
		return nil
	}
	for _, mnt := range info.Mounts {
		if mnt.Destination == DataDir {
			if mnt.Source != m.dataPath {
				return fmt.Errorf("mounts %s, expected %s", mnt.Source, m.dataPath)
			}
			return nil
		}
	}
	return fmt.Errorf("no mount for %s", DataDir)
}

// find returns the container with our name, or nil.
func (m *DockerManager) find(ctx context.Context) (*container.Summary, error) {
	args := filters.NewArgs(filters.Arg("name", "^/"+m.containerName+"$"))
	list, err := m.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func stateOf(state string) ContainerStatus {
	switch state {
	case "running":
		return StatusRunning
	case "exited", "dead":
		return StatusStopped
	case "created", "restarting":
		return StatusStarting
	default:
		return ContainerStatus(state)
	}
}

func (m *DockerManager) ensureImage(ctx context.Context) error {
	if _, err := m.cli.ImageInspect(ctx, m.imageName); err == nil {
		return nil
	}
	m.logger.Info("pulling defra image", "image", m.imageName)
	reader, err := m.cli.ImagePull(ctx, m.imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer reader.Close()
	_, err = io.Copy(io.Discard, reader)
	return err
}
