// Package cli implements the cobra-based CLI commands for odooghost.
//
// Each subcommand (setup, status, network) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags, logging and
// exit codes.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/odooghost/odooghost/internal/appctx"
	"github.com/odooghost/odooghost/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to persistent flags on the root command, making them
// available to every subcommand without re-declaration.
var (
	// jsonOutput switches command output to JSON for machine consumption.
	// Errors are then printed as {"error": {...}} on stderr as well.
	jsonOutput bool

	// verbose lowers the log level to debug, tracing each setup step and
	// engine call on stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	// It is also the version recorded by setup.
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// logger writes diagnostics to stderr; stdout is reserved for command
// output so --json results stay parseable. The level is set per invocation
// in PersistentPreRun.
var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "odooghost"})

// newAppContext builds the Context commands operate on. Tests replace it
// to point at a temporary application directory and a fake engine.
var newAppContext = func() *appctx.Context {
	return appctx.New(appctx.WithLogger(logger))
}

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action; it only provides
// help text and global flags.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "odooghost",
		Short: "Local Odoo stack manager",
		Long: `odooghost manages local Odoo stacks running on Docker.

Run "odooghost setup" once to create the application directory and the
shared Docker network every stack attaches to.`,

		// Errors are formatted by Execute (text or JSON based on --json).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			} else {
				logger.SetLevel(log.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewSetupCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewNetworkCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code carried by the
// returned error.
//
// Because the root command silences cobra's own error printing, this is
// the single place where errors reach the user. Exit codes follow
// model.ExitCode, so scripts can tell "already setup" (8) from "Docker not
// running" (3) without parsing messages.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(int(exitCode(err)))
	}
}

// exitCode returns the code carried by a CLIError, or the code mapped
// from the domain error kind otherwise.
func exitCode(err error) model.ExitCode {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return model.ExitCodeOf(err)
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, err error) {
	message, underlying := err.Error(), error(nil)
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		message, underlying = cliErr.Message, cliErr.Err
	}

	if jsonOutput {
		errObj := map[string]any{
			"message": message,
			"code":    int(exitCode(err)),
		}
		if kind := model.KindOf(err); kind != "" {
			errObj["kind"] = string(kind)
		}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(map[string]any{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// requireSetup returns a CLIError when the installation is not initialized.
func requireSetup(c *appctx.Context) error {
	if !c.CheckSetupState() {
		return model.WrapCLIError(model.ExitNotSetup,
			`odooghost is not setup, run "odooghost setup" first`, model.ErrNotSetup)
	}
	return nil
}
