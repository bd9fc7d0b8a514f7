package docker

import (
	"context"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/network"
)

// NetworkSpec describes a network to create.
type NetworkSpec struct {
	Name       string
	Driver     string
	Attachable bool
	Scope      string
	Labels     map[string]string
}

// CreateOptions converts the spec to the Docker SDK create options.
//
// There is no duplicate-check flag here: the SDK sends CheckDuplicate=true
// to daemons older than API 1.44, and newer daemons always reject a
// duplicate name with a conflict.
func (s NetworkSpec) CreateOptions() network.CreateOptions {
	return network.CreateOptions{
		Driver:     s.Driver,
		Attachable: s.Attachable,
		Scope:      s.Scope,
		Labels:     s.Labels,
	}
}

// FindNetwork fetches a network by name. found is false, with a nil error,
// when the engine reports the network does not exist; any other engine
// error is returned as is.
func FindNetwork(ctx context.Context, cli EngineClient, name string) (info network.Inspect, found bool, err error) {
	info, err = cli.NetworkInspect(ctx, name, network.InspectOptions{})
	if err != nil {
		if IsNotFound(err) {
			return network.Inspect{}, false, nil
		}
		return network.Inspect{}, false, err
	}
	return info, true, nil
}

// CreateNetwork asks the engine to create the network described by spec
// and returns the new network's ID. Engine rejections, including a name
// conflict, are returned unchanged; use IsConflict to tell them apart.
func CreateNetwork(ctx context.Context, cli EngineClient, spec NetworkSpec) (string, error) {
	resp, err := cli.NetworkCreate(ctx, spec.Name, spec.CreateOptions())
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// IsNotFound reports whether err is an engine "not found" response.
func IsNotFound(err error) bool {
	return cerrdefs.IsNotFound(err)
}

// IsConflict reports whether err is an engine rejection caused by an
// object that already exists, e.g. a network name taken by a concurrent
// creation.
func IsConflict(err error) bool {
	return cerrdefs.IsConflict(err) || cerrdefs.IsAlreadyExists(err)
}
