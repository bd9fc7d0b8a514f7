// Package model defines the domain types and error kinds shared by the
// odooghost packages.
//
// This package contains pure data structures with no external dependencies:
// the persisted configuration record (Config), the setup state, the tagged
// domain errors (Error, SetupError) and the CLI exit codes (ExitCode,
// CLIError) they map to.
package model
