package appctx

import (
	"os"

	"github.com/odooghost/odooghost/internal/config"
	"github.com/odooghost/odooghost/internal/constant"
	"github.com/odooghost/odooghost/internal/model"
)

// Filesystem operations used by Setup, replaced in tests to inject failures.
var (
	mkdir       = os.Mkdir
	writeConfig = config.Write
)

// Setup initializes the installation: it creates the application
// directory, then its data and plugins subdirectories, and writes the
// configuration record holding version and the resolved workingDir.
//
// Setup is single-shot. When the application directory already exists it
// returns model.ErrAlreadySetup and touches nothing.
//
// On success it returns the record as written, before any environment
// override LoadConfig would apply.
//
// A filesystem failure is returned as a *model.SetupError naming the
// failed step. Directories created by this call are removed before
// returning, so a failed setup leaves the installation Uninitialized.
func (c *Context) Setup(version string, workingDir string) (*model.Config, error) {
	if c.CheckSetupState() {
		return nil, model.ErrAlreadySetup
	}

	cfg := &model.Config{
		Version:    version,
		WorkingDir: constant.ResolvePath(workingDir),
	}
	if err := cfg.Validate(); err != nil {
		return nil, &model.SetupError{Step: "validate config", Path: c.configPath, Err: err}
	}

	var created []string
	fail := func(step, path string, err error) error {
		setupErr := &model.SetupError{Step: step, Path: path, Created: created, Err: err}
		setupErr.RolledBack = c.rollback(created)
		return setupErr
	}

	dirs := []struct {
		step string
		path string
	}{
		{"create application directory", c.appDir},
		{"create data directory", c.dataDir},
		{"create plugins directory", c.pluginsDir},
	}
	for _, d := range dirs {
		// Mkdir, not MkdirAll: an application directory that appeared since
		// the state check must fail rather than be adopted.
		if err := mkdir(d.path, 0o755); err != nil {
			return nil, fail(d.step, d.path, err)
		}
		created = append(created, d.path)
		c.logger.Debug("Directory created", "path", d.path)
	}

	if err := writeConfig(c.configPath, cfg); err != nil {
		return nil, fail("write config", c.configPath, err)
	}

	c.logger.Debug("Config written", "path", c.configPath, "version", cfg.Version, "working_dir", cfg.WorkingDir)
	return cfg, nil
}

// rollback removes the directories created by a failed Setup, newest
// first, and reports whether all of them are gone.
func (c *Context) rollback(created []string) bool {
	ok := true
	for i := len(created) - 1; i >= 0; i-- {
		if err := os.RemoveAll(created[i]); err != nil {
			c.logger.Warn("Rollback failed", "path", created[i], "err", err)
			ok = false
		}
	}
	return ok
}
