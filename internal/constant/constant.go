// Package constant holds the fixed naming conventions and the resolved
// application directory shared by every odooghost component.
//
// Everything here is computed once at package initialization from the
// host platform and the application name; nothing in this package touches
// the filesystem beyond resolving symlinks of an already existing path.
package constant

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the fixed application name used for the application
// directory and as the Docker label namespace.
const AppName = "odooghost"

// Label keys tag Docker resources as belonging to odooghost. All keys
// share the LabelName prefix so they can be filtered server-side.
const (
	// LabelName is the namespace prefix of every odooghost label. It is
	// also used on its own to mark resources created by odooghost.
	LabelName = AppName

	// LabelStackName stores the name of the stack a container belongs to.
	LabelStackName = LabelName + "_stackname"

	// LabelStackServiceType stores the stack service type (e.g. "odoo", "db").
	LabelStackServiceType = LabelName + "_stack_type"

	// LabelOneOff marks short-lived containers that are not part of a
	// stack's long-running services.
	LabelOneOff = LabelName + "_one_off"
)

// CommonNetworkName is the bridge network every managed stack attaches to.
const CommonNetworkName = LabelName + "_bridge"

// IsWindowsPlatform distinguishes Windows directory and path conventions
// from POSIX-like hosts.
var IsWindowsPlatform = runtime.GOOS == "windows"

// AppDir is the absolute application directory for this host.
var AppDir = mustResolveAppDir()

func mustResolveAppDir() string {
	// os.UserHomeDir only fails when $HOME (or %USERPROFILE%) is unset;
	// fall back to the working directory so the path stays absolute.
	home, err := os.UserHomeDir()
	if err != nil {
		home, _ = os.Getwd()
	}
	return ResolveAppDir(runtime.GOOS, os.Getenv, home)
}

// ResolveAppDir computes the per-user application directory for goos.
//
// Windows uses %APPDATA%\odooghost (or <home>\odooghost when APPDATA is
// unset). Every other platform, macOS included, uses the POSIX dotted form
// <home>/.odooghost. The result is absolute, with symlinks resolved when
// the path already exists.
func ResolveAppDir(goos string, getenv func(string) string, home string) string {
	var dir string
	if goos == "windows" {
		base := getenv("APPDATA")
		if base == "" {
			base = home
		}
		dir = filepath.Join(base, AppName)
	} else {
		dir = filepath.Join(home, "."+AppName)
	}
	return ResolvePath(dir)
}

// ResolvePath returns path as an absolute, cleaned path. Symlinks are
// resolved when the path exists; a missing path is returned in its
// absolute form unchanged.
func ResolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
