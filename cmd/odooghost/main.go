// Package main is the entry point for the odooghost CLI.
//
// All commands live in internal/cli. Build-time variables (version,
// commit, date) are injected via ldflags; setup records
// version in config.yml.
package main

import (
	"github.com/odooghost/odooghost/internal/cli"
)

// Set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
