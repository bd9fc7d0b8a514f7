package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/odooghost/odooghost/internal/appctx"
	"github.com/odooghost/odooghost/internal/docker"
	"github.com/odooghost/odooghost/internal/docker/mocks"
	"github.com/odooghost/odooghost/internal/model"
)

// useTestContext points every command at a temp application directory
// and the given engine (nil means Docker is unreachable). It returns the
// application directory path.
func useTestContext(t *testing.T, engine docker.EngineClient) string {
	t.Helper()

	appDir := filepath.Join(t.TempDir(), ".odooghost")
	orig := newAppContext
	newAppContext = func() *appctx.Context {
		return appctx.New(
			appctx.WithAppDir(appDir),
			appctx.WithLogger(log.New(io.Discard)),
			appctx.WithEngineFactory(func() (docker.EngineClient, error) {
				if engine == nil {
					return nil, errors.New("Cannot connect to the Docker daemon")
				}
				return engine, nil
			}),
		)
	}
	t.Cleanup(func() {
		newAppContext = orig
		jsonOutput, verbose = false, false
	})
	return appDir
}

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// newEngine returns a mock engine on which the common network does not
// exist and can be created once. The engine's Close is allowed.
func newEngine() *mocks.MockEngineClient {
	engine := new(mocks.MockEngineClient)
	engine.On("NetworkInspect", mock.Anything, "odooghost_bridge", network.InspectOptions{}).
		Return(nil, fmt.Errorf("not found: %w", cerrdefs.ErrNotFound)).Once()
	engine.On("NetworkCreate", mock.Anything, "odooghost_bridge", mock.Anything).
		Return(network.CreateResponse{ID: "net-1"}, nil).Once()
	engine.On("Close").Return(nil)
	return engine
}

func TestSetupCommand(t *testing.T) {
	engine := newEngine()
	appDir := useTestContext(t, engine)
	workDir := t.TempDir()

	out, err := runCommand(t, "setup", "--working-dir", workDir)
	require.NoError(t, err)

	assert.Contains(t, out, "setup in")
	assert.Contains(t, out, `Docker network "odooghost_bridge" ready`)
	for _, p := range []string{"config.yml", "data", "plugins"} {
		_, statErr := os.Stat(filepath.Join(appDir, p))
		assert.NoError(t, statErr, "%s should exist", p)
	}
	engine.AssertNumberOfCalls(t, "NetworkCreate", 1)
}

func TestSetupCommand_NoNetwork(t *testing.T) {
	engine := new(mocks.MockEngineClient)
	useTestContext(t, engine)

	out, err := runCommand(t, "setup", "--no-network", "-w", t.TempDir())
	require.NoError(t, err)
	assert.NotContains(t, out, "Docker network")
	engine.AssertNotCalled(t, "NetworkInspect", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetupCommand_JSON(t *testing.T) {
	useTestContext(t, newEngine())
	workDir := t.TempDir()

	out, err := runCommand(t, "--json", "setup", "-w", workDir)
	require.NoError(t, err)

	var result setupResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, Version, result.Version)
	assert.Equal(t, "odooghost_bridge", result.CommonNetwork)

	want, err := filepath.EvalSymlinks(workDir)
	require.NoError(t, err)
	assert.Equal(t, want, result.WorkingDir)
}

func TestSetupCommand_AlreadySetup(t *testing.T) {
	useTestContext(t, newEngine())

	_, err := runCommand(t, "setup", "-w", t.TempDir())
	require.NoError(t, err)

	_, err = runCommand(t, "setup", "-w", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, model.ExitAlreadySetup, exitCode(err))
	assert.ErrorIs(t, err, model.ErrAlreadySetup)
}

// TestSetupCommand_DockerDown: setup itself succeeds, the network step
// fails with the Docker exit code and the installation stays initialized.
func TestSetupCommand_DockerDown(t *testing.T) {
	appDir := useTestContext(t, nil)

	_, err := runCommand(t, "setup", "-w", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, model.ExitDockerNotRunning, exitCode(err))
	assert.ErrorIs(t, err, model.ErrCommonNetworkEnsure)

	_, statErr := os.Stat(appDir)
	assert.NoError(t, statErr)
}

// TestSetupCommand_ReportsPersistedRecord: environment overrides apply to
// later reads, not to what setup says it wrote.
func TestSetupCommand_ReportsPersistedRecord(t *testing.T) {
	appDir := useTestContext(t, nil)
	t.Setenv("ODOOGHOST_VERSION", "9.9.9")

	out, err := runCommand(t, "setup", "--no-network", "-w", "/srv/stacks")
	require.NoError(t, err)
	assert.Contains(t, out, "odooghost "+Version+" setup in")
	assert.NotContains(t, out, "9.9.9")

	data, err := os.ReadFile(filepath.Join(appDir, "config.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: "+Version+"\n")
}

func TestStatusCommand_FlagsEnvOverrides(t *testing.T) {
	useTestContext(t, nil)

	_, err := runCommand(t, "setup", "--no-network", "-w", "/srv/stacks")
	require.NoError(t, err)

	t.Setenv("ODOOGHOST_VERSION", "9.9.9")

	out, err := runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:        "+Version+"\n")
	assert.Contains(t, out, "Override:       ODOOGHOST_VERSION=9.9.9")

	out, err = runCommand(t, "--json", "status")
	require.NoError(t, err)

	var result statusResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Config)
	assert.Equal(t, Version, result.Config.Version)
	assert.Equal(t, map[string]string{"ODOOGHOST_VERSION": "9.9.9"}, result.Overrides)
}

func TestStatusCommand_MissingConfig(t *testing.T) {
	appDir := useTestContext(t, nil)
	require.NoError(t, os.Mkdir(appDir, 0o755))

	_, err := runCommand(t, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
	assert.Equal(t, model.ExitGeneralError, exitCode(err))
}

func TestNetworkEnsureCommand_NotSetup(t *testing.T) {
	engine := new(mocks.MockEngineClient)
	useTestContext(t, engine)

	_, err := runCommand(t, "network", "ensure")
	require.Error(t, err)
	assert.Equal(t, model.ExitNotSetup, exitCode(err))
	engine.AssertNotCalled(t, "NetworkInspect", mock.Anything, mock.Anything, mock.Anything)
}

func TestNetworkEnsureCommand(t *testing.T) {
	engine := newEngine()
	useTestContext(t, engine)

	_, err := runCommand(t, "setup", "--no-network", "-w", t.TempDir())
	require.NoError(t, err)

	out, err := runCommand(t, "network", "ensure")
	require.NoError(t, err)
	assert.Contains(t, out, "ready")
	engine.AssertNumberOfCalls(t, "NetworkCreate", 1)
}

func TestStatusCommand_Uninitialized(t *testing.T) {
	useTestContext(t, nil)

	out, err := runCommand(t, "--json", "status")
	require.NoError(t, err)

	var result statusResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, model.StateUninitialized, result.State)
	assert.Nil(t, result.Config)
	assert.Equal(t, networkUnreachable, result.NetworkState)
	assert.NotEmpty(t, result.NetworkError)
	assert.Empty(t, result.Stacks)
}

func TestStatusCommand_NetworkMissingNoStacks(t *testing.T) {
	engine := new(mocks.MockEngineClient)
	engine.On("NetworkInspect", mock.Anything, "odooghost_bridge", network.InspectOptions{}).
		Return(nil, fmt.Errorf("not found: %w", cerrdefs.ErrNotFound))
	engine.On("ContainerList", mock.Anything, mock.Anything).Return([]container.Summary{}, nil)
	engine.On("Close").Return(nil)
	useTestContext(t, engine)

	out, err := runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "uninitialized")
	assert.Contains(t, out, "odooghost_bridge (missing)")
	assert.Contains(t, out, "Stacks:         none")
	engine.AssertNotCalled(t, "NetworkCreate", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatusCommand_Initialized(t *testing.T) {
	engine := new(mocks.MockEngineClient)
	engine.On("NetworkInspect", mock.Anything, "odooghost_bridge", network.InspectOptions{}).
		Return(network.Inspect{ID: "net-1"}, nil)
	engine.On("ContainerList", mock.Anything, mock.Anything).
		Return([]container.Summary{{
			ID:     "c1",
			Names:  []string{"/demo-odoo"},
			State:  "running",
			Labels: docker.BuildLabels(model.StackRef{Stack: "demo", ServiceType: "odoo"}),
		}}, nil)
	engine.On("Close").Return(nil)
	useTestContext(t, engine)

	_, err := runCommand(t, "setup", "--no-network", "-w", "/srv/stacks")
	require.NoError(t, err)

	out, err := runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "State:          initialized")
	assert.Contains(t, out, "Version:        "+Version)
	assert.Contains(t, out, "odooghost_bridge (present)")
	assert.Regexp(t, `demo\s+running\s+1/1 running`, out)
	assert.NotContains(t, out, "Override:")
	engine.AssertNotCalled(t, "NetworkCreate", mock.Anything, mock.Anything, mock.Anything)
}

func TestPrintError(t *testing.T) {
	t.Cleanup(func() { jsonOutput = false })
	err := model.WrapCLIError(model.ExitNotSetup, "not setup", model.ErrNotSetup)

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Equal(t, "Error: not setup: app is not setup\n", buf.String())

	buf.Reset()
	jsonOutput = true
	printError(&buf, err)

	var payload map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "not setup", payload["error"]["message"])
	assert.Equal(t, "not-setup", payload["error"]["kind"])
	assert.Equal(t, float64(model.ExitNotSetup), payload["error"]["code"])
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, model.ExitAlreadySetup, exitCode(model.ErrAlreadySetup))
	assert.Equal(t, model.ExitGeneralError, exitCode(errors.New("x")))
	assert.Equal(t, model.ExitNotSetup,
		exitCode(model.NewCLIError(model.ExitNotSetup, "x")))
}
