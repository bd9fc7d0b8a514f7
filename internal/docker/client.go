package docker

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"

	"github.com/odooghost/odooghost/internal/model"
)

// EngineClient is the narrow slice of the Docker Engine API odooghost
// needs. *client.Client satisfies it; tests substitute a fake
// (see the mocks package).
//
// Keeping the surface this small lets the appctx package own the client's
// lifetime without depending on the full SDK type.
//
// Usage:
//
//	cli, err := docker.NewEngineClient()
//	if err != nil { /* Docker not configured */ }
//	defer cli.Close()
//	info, found, err := docker.FindNetwork(ctx, cli, constant.CommonNetworkName)
type EngineClient interface {
	// NetworkInspect fetches a network by ID or name. A missing network
	// yields an error for which IsNotFound reports true.
	NetworkInspect(ctx context.Context, networkID string, options network.InspectOptions) (network.Inspect, error)

	// NetworkCreate creates a network with the given name.
	NetworkCreate(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error)

	// ContainerList lists containers; see ListStackContainers.
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)

	// Close releases the underlying HTTP transport.
	Close() error
}

var _ EngineClient = (*client.Client)(nil)

// windowsPipe is the fixed Docker Desktop named pipe on Windows. Named
// pipes cannot be probed with os.Stat, so it is returned without checking.
const windowsPipe = "npipe:////./pipe/docker_engine"

// NewEngineClient creates a Docker client configured from the environment.
//
// The host is chosen in this order:
//  1. DOCKER_HOST (with DOCKER_API_VERSION, DOCKER_CERT_PATH and
//     DOCKER_TLS_VERIFY), honored by client.FromEnv as-is
//  2. Platform-specific socket paths:
//     - Linux: /var/run/docker.sock
//     - macOS: /var/run/docker.sock, ~/.docker/run/docker.sock (Docker
//     Desktop 4.x+), ~/.colima/docker.sock
//     - Windows: npipe:////./pipe/docker_engine
//  3. The SDK default host, when nothing above matched
//
// API version negotiation is enabled so an older daemon is spoken to in
// the highest API version both sides support.
//
// No connection is made here: an unreachable daemon surfaces on the first
// request, not at construction.
func NewEngineClient() (EngineClient, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}

	if os.Getenv("DOCKER_HOST") == "" {
		home, _ := os.UserHomeDir()
		if host, err := detectDockerHost(runtime.GOOS, home); err == nil {
			opts = append(opts, client.WithHost(host))
		}
		// On detection failure keep the SDK default host; the first
		// request reports the daemon as unreachable.
	}

	c, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to create Docker client",
			err,
		)
	}
	return c, nil
}

// detectDockerHost determines the Docker host URI for goos by probing the
// known socket paths. goos and home are parameters rather than read from
// runtime and the environment so every platform branch can be tested on
// any host.
func detectDockerHost(goos, home string) (string, error) {
	switch goos {
	case "linux":
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
		})

	case "darwin":
		// Newer Docker Desktop versions may only create the per-user
		// socket; colima uses its own.
		paths := []string{"/var/run/docker.sock"}
		if home != "" {
			paths = append(paths,
				home+"/.docker/run/docker.sock",
				home+"/.colima/docker.sock",
			)
		}
		return detectUnixSocket(paths)

	case "windows":
		// os.Stat does not work on named pipes; the pipe path is fixed.
		return windowsPipe, nil

	default:
		return "", fmt.Errorf("unsupported platform: %s", goos)
	}
}

// detectUnixSocket returns the Docker host URI for the first existing
// socket in paths, which are listed from most to least preferred.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf(
		"Docker socket not found at any of: %v (is Docker running?)",
		paths,
	)
}
