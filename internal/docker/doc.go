// Package docker provides the Docker Engine capability used by odooghost.
//
// This package handles:
//   - Docker client construction from the environment (DOCKER_HOST and
//     friends) with platform socket detection as fallback
//   - The EngineClient interface, the subset of the SDK client odooghost
//     calls, so tests can substitute a fake
//   - Network lookup and creation, with not-found and conflict
//     classification of engine errors via github.com/containerd/errdefs
//   - Label and filter helpers for tagging resources with the odooghost
//     label namespace
//   - Read-only listing of stack containers, grouped per stack
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
