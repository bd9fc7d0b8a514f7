// Package appctx owns the odooghost installation: the application
// directory and its layout, first-run setup, the lazily created Docker
// engine client and the shared network every managed stack attaches to.
//
// A Context is created explicitly with New and handed to collaborators;
// there is no package-level instance. The only state transition is
// Uninitialized -> Initialized through a successful Setup. Callers are
// expected to check CheckSetupState first, run Setup once, and only then
// call EnsureCommonNetwork or Engine; the Context does not enforce that
// order beyond refusing a second Setup.
package appctx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/odooghost/odooghost/internal/config"
	"github.com/odooghost/odooghost/internal/constant"
	"github.com/odooghost/odooghost/internal/docker"
	"github.com/odooghost/odooghost/internal/model"
)

const (
	dataDirName    = "data"
	pluginsDirName = "plugins"
)

// EngineFactory constructs an engine client on first use.
type EngineFactory func() (docker.EngineClient, error)

// Context holds the contextual state of one odooghost installation.
type Context struct {
	appDir     string
	configPath string
	dataDir    string
	pluginsDir string

	newEngine EngineFactory
	logger    *log.Logger

	mu     sync.Mutex
	engine docker.EngineClient
}

// Option configures a Context.
type Option func(*Context)

// WithAppDir overrides the application directory (constant.AppDir by default).
// An empty dir keeps the default: resolving "" would yield the current
// directory, which nearly always exists and would read as set up.
func WithAppDir(dir string) Option {
	return func(c *Context) {
		if dir == "" {
			return
		}
		c.appDir = dir
	}
}

// WithEngineFactory replaces environment-based Docker client discovery.
func WithEngineFactory(f EngineFactory) Option {
	return func(c *Context) {
		c.newEngine = f
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *log.Logger) Option {
	return func(c *Context) {
		c.logger = l
	}
}

// New creates a Context. No filesystem or engine access happens here.
func New(opts ...Option) *Context {
	c := &Context{
		appDir:    constant.AppDir,
		newEngine: docker.NewEngineClient,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.appDir = constant.ResolvePath(c.appDir)
	c.configPath = filepath.Join(c.appDir, config.FileName)
	c.dataDir = filepath.Join(c.appDir, dataDirName)
	c.pluginsDir = filepath.Join(c.appDir, pluginsDirName)
	return c
}

// AppDir returns the application directory.
func (c *Context) AppDir() string { return c.appDir }

// ConfigPath returns the configuration file path.
func (c *Context) ConfigPath() string { return c.configPath }

// DataDir returns the stack data directory.
func (c *Context) DataDir() string { return c.dataDir }

// PluginsDir returns the plugins directory.
func (c *Context) PluginsDir() string { return c.pluginsDir }

// CheckSetupState reports whether the application directory exists.
// It has no side effects and may be called any number of times.
func (c *Context) CheckSetupState() bool {
	_, err := os.Stat(c.appDir)
	return err == nil
}

// LoadConfig reads the configuration record written by Setup, with the
// ODOOGHOST_* environment overrides applied (see config.Load). It returns model.ErrNotSetup when the installation is not initialized.
func (c *Context) LoadConfig() (*model.Config, error) {
	if !c.CheckSetupState() {
		return nil, model.ErrNotSetup
	}
	return config.Load(c.configPath)
}

// ReadConfig returns the configuration record as persisted by Setup,
// without environment overrides. It returns model.ErrNotSetup when the
// installation is not initialized.
func (c *Context) ReadConfig() (*model.Config, error) {
	if !c.CheckSetupState() {
		return nil, model.ErrNotSetup
	}
	return config.Read(c.configPath)
}

// Engine returns the Docker engine client, creating it on first call.
// The same client is returned for the lifetime of the Context. A factory
// error is returned as is and not cached, so a later call retries.
func (c *Context) Engine() (docker.EngineClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != nil {
		return c.engine, nil
	}
	cli, err := c.newEngine()
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Docker client created")
	c.engine = cli
	return c.engine, nil
}

// Close releases the engine client if one was created. The Context can
// still be used afterwards; the next Engine call creates a new client.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine == nil {
		return nil
	}
	err := c.engine.Close()
	c.engine = nil
	return err
}

// EnsureCommonNetwork guarantees the shared network exists, creating it
// when the engine reports it missing. Calling it repeatedly is safe:
// once the network exists no further creation is requested.
func (c *Context) EnsureCommonNetwork(ctx context.Context) error {
	cli, err := c.Engine()
	if err != nil {
		return model.NewError(model.KindCommonNetworkEnsure, "failed to ensure common network", err)
	}

	info, found, err := docker.FindNetwork(ctx, cli, constant.CommonNetworkName)
	if err != nil {
		return model.NewError(model.KindCommonNetworkEnsure, "failed to ensure common network", err)
	}
	if found {
		c.logger.Debug("Common network found", "network", constant.CommonNetworkName, "id", info.ID)
		return nil
	}

	c.logger.Debug("Common network not found", "network", constant.CommonNetworkName)
	return c.CreateCommonNetwork(ctx)
}

// CommonNetworkSpec describes the shared network: an attachable,
// locally scoped bridge labelled as odooghost's.
func CommonNetworkSpec() docker.NetworkSpec {
	return docker.NetworkSpec{
		Name:       constant.CommonNetworkName,
		Driver:     "bridge",
		Attachable: true,
		Scope:      "local",
		Labels:     docker.ManagedLabels(),
	}
}

// CreateCommonNetwork asks the engine to create the shared network.
//
// A name conflict means another process created the network between
// lookup and creation; the network then exists and this returns nil.
// Any other rejection is a model.KindCommonNetworkEnsure error.
func (c *Context) CreateCommonNetwork(ctx context.Context) error {
	cli, err := c.Engine()
	if err != nil {
		return model.NewError(model.KindCommonNetworkEnsure, "failed to create common network", err)
	}

	id, err := docker.CreateNetwork(ctx, cli, CommonNetworkSpec())
	if err != nil {
		if docker.IsConflict(err) {
			c.logger.Debug("Common network created concurrently", "network", constant.CommonNetworkName)
			return nil
		}
		return model.NewError(model.KindCommonNetworkEnsure, "failed to create common network", err)
	}

	c.logger.Info("Common network created", "network", constant.CommonNetworkName, "id", id)
	return nil
}

// IsAlreadySetup reports whether err is the error Setup returns for an
// initialized installation.
func IsAlreadySetup(err error) bool {
	return errors.Is(err, model.ErrAlreadySetup)
}
