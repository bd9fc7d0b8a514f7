package mocks

import (
	"context"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/stretchr/testify/mock"
)

// MockEngineClient is a mock implementation of docker.EngineClient
type MockEngineClient struct {
	mock.Mock
}

func (m *MockEngineClient) NetworkInspect(ctx context.Context, networkID string, options network.InspectOptions) (network.Inspect, error) {
	args := m.Called(ctx, networkID, options)
	if args.Get(0) == nil {
		return network.Inspect{}, args.Error(1)
	}
	return args.Get(0).(network.Inspect), args.Error(1)
}

func (m *MockEngineClient) NetworkCreate(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error) {
	args := m.Called(ctx, name, options)
	if args.Get(0) == nil {
		return network.CreateResponse{}, args.Error(1)
	}
	return args.Get(0).(network.CreateResponse), args.Error(1)
}

func (m *MockEngineClient) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	args := m.Called(ctx, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]container.Summary), args.Error(1)
}

func (m *MockEngineClient) Close() error {
	args := m.Called()
	return args.Error(0)
}
