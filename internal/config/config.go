// Package config reads and writes the odooghost configuration record
// (<app_dir>/config.yml).
//
// The record is written exactly once, at setup, with gopkg.in/yaml.v3.
// It is read back through viper. Load lets ODOOGHOST_-prefixed environment
// variables override the persisted values for a single invocation
// (e.g. ODOOGHOST_WORKING_DIR=/tmp/other odooghost ...); Read returns the
// record as persisted.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/odooghost/odooghost/internal/model"
)

// FileName is the configuration file name inside the application directory.
const FileName = "config.yml"

// EnvPrefix is the environment variable prefix honored by Load.
const EnvPrefix = "ODOOGHOST"

// Marshal serializes cfg to its YAML document form.
func Marshal(cfg *model.Config) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Write creates the configuration file at path. It refuses to replace an
// existing file: the record has no update path.
func Write(path string, cfg *model.Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads the configuration file at path. Values found in ODOOGHOST_VERSION
// and ODOOGHOST_WORKING_DIR take precedence over the file.
//
// A missing file is reported as an error wrapping fs.ErrNotExist.
func Load(path string) (*model.Config, error) {
	return load(path, true)
}

// Read reads the configuration file at path exactly as persisted, ignoring
// the environment. Use it to report what setup wrote.
func Read(path string) (*model.Config, error) {
	return load(path, false)
}

// Overrides lists the keys whose value in loaded differs from persisted,
// keyed by the environment variable responsible.
func Overrides(persisted, loaded *model.Config) map[string]string {
	overrides := make(map[string]string)
	if loaded.Version != persisted.Version {
		overrides[envVar("version")] = loaded.Version
	}
	if loaded.WorkingDir != persisted.WorkingDir {
		overrides[envVar("working_dir")] = loaded.WorkingDir
	}
	return overrides
}

// envVar returns the environment variable viper consults for key.
func envVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

func load(path string, withEnv bool) (*model.Config, error) {
	// viper reports a missing file with its own error type; stat first so
	// callers can rely on fs.ErrNotExist.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		// BindEnv registers the keys even when the file omits them, so the
		// environment can still supply a value.
		for _, key := range []string{"version", "working_dir"} {
			if err := v.BindEnv(key); err != nil {
				return nil, fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg model.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// IsNotExist reports whether err means the configuration file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
