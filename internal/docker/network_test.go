package docker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/odooghost/odooghost/internal/docker/mocks"
)

func TestNetworkSpec_CreateOptions(t *testing.T) {
	spec := NetworkSpec{
		Name:       "odooghost_bridge",
		Driver:     "bridge",
		Attachable: true,
		Scope:      "local",
		Labels:     map[string]string{"odooghost": "true"},
	}

	opts := spec.CreateOptions()
	assert.Equal(t, "bridge", opts.Driver)
	assert.True(t, opts.Attachable)
	assert.Equal(t, "local", opts.Scope)
	assert.Equal(t, map[string]string{"odooghost": "true"}, opts.Labels)
}

func TestFindNetwork(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		cli := new(mocks.MockEngineClient)
		cli.On("NetworkInspect", ctx, "odooghost_bridge", network.InspectOptions{}).
			Return(network.Inspect{ID: "abc", Name: "odooghost_bridge"}, nil)

		info, found, err := FindNetwork(ctx, cli, "odooghost_bridge")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "abc", info.ID)
		cli.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		cli := new(mocks.MockEngineClient)
		cli.On("NetworkInspect", ctx, "odooghost_bridge", network.InspectOptions{}).
			Return(nil, fmt.Errorf("network odooghost_bridge: %w", cerrdefs.ErrNotFound))

		_, found, err := FindNetwork(ctx, cli, "odooghost_bridge")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("engine error", func(t *testing.T) {
		boom := errors.New("Cannot connect to the Docker daemon")
		cli := new(mocks.MockEngineClient)
		cli.On("NetworkInspect", ctx, "odooghost_bridge", network.InspectOptions{}).
			Return(nil, boom)

		_, found, err := FindNetwork(ctx, cli, "odooghost_bridge")
		assert.ErrorIs(t, err, boom)
		assert.False(t, found)
	})
}

func TestCreateNetwork(t *testing.T) {
	ctx := context.Background()
	spec := NetworkSpec{Name: "n", Driver: "bridge", Attachable: true, Scope: "local"}

	cli := new(mocks.MockEngineClient)
	cli.On("NetworkCreate", ctx, "n", mock.MatchedBy(func(o network.CreateOptions) bool {
		return o.Driver == "bridge" && o.Attachable && o.Scope == "local"
	})).Return(network.CreateResponse{ID: "net-1"}, nil).Once()

	id, err := CreateNetwork(ctx, cli, spec)
	require.NoError(t, err)
	assert.Equal(t, "net-1", id)
	cli.AssertExpectations(t)
}

func TestCreateNetwork_Rejected(t *testing.T) {
	ctx := context.Background()
	rejected := fmt.Errorf("network with name n already exists: %w", cerrdefs.ErrConflict)

	cli := new(mocks.MockEngineClient)
	cli.On("NetworkCreate", ctx, "n", mock.Anything).Return(nil, rejected)

	_, err := CreateNetwork(ctx, cli, NetworkSpec{Name: "n"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(cerrdefs.ErrConflict))
	assert.True(t, IsConflict(fmt.Errorf("x: %w", cerrdefs.ErrAlreadyExists)))
	assert.False(t, IsConflict(errors.New("plain")))
	assert.False(t, IsConflict(cerrdefs.ErrNotFound))
}
