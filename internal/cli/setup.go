// Package cli - setup.go implements the "odooghost setup" command.
//
// Setup runs once per installation: it creates the application directory
// with its config.yml, data/ and plugins/ entries, then makes sure the
// shared Docker network exists. The reported record is the one written to
// disk; ODOOGHOST_* environment overrides never show up in it.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/odooghost/odooghost/internal/appctx"
	"github.com/odooghost/odooghost/internal/constant"
	"github.com/odooghost/odooghost/internal/model"
)

// setupFlags holds the flag values for the setup command.
type setupFlags struct {
	workingDir string // --working-dir: directory holding stack definitions
	noNetwork  bool   // --no-network: skip the common network
}

// NewSetupCommand creates the "setup" cobra command.
func NewSetupCommand() *cobra.Command {
	flags := &setupFlags{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Initialize odooghost",
		Long: `Initialize odooghost on this machine.

Creates the application directory (` + constant.AppDir + `) holding
config.yml, data/ and plugins/, and the "` + constant.CommonNetworkName + `" Docker network.
Setup can only run once.

Examples:
  odooghost setup
  odooghost setup --working-dir ~/odoo-stacks
  odooghost setup --no-network`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.workingDir, "working-dir", "w", "", "Directory holding stack definitions (default: current directory)")
	cmd.Flags().BoolVar(&flags.noNetwork, "no-network", false, "Do not create the common Docker network")

	return cmd
}

// setupResult is the JSON form of a successful setup.
type setupResult struct {
	AppDir        string `json:"appDir"`
	Version       string `json:"version"`
	WorkingDir    string `json:"workingDir"`
	CommonNetwork string `json:"commonNetwork,omitempty"`
}

func runSetup(ctx context.Context, out io.Writer, flags *setupFlags) error {
	c := newAppContext()
	defer func() { _ = c.Close() }()

	workingDir := flags.workingDir
	if workingDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		workingDir = cwd
	}

	logger.Debug("Setting up", "app_dir", c.AppDir(), "version", Version, "working_dir", workingDir)
	cfg, err := c.Setup(Version, workingDir)
	if err != nil {
		if appctx.IsAlreadySetup(err) {
			return model.WrapCLIError(model.ExitAlreadySetup,
				fmt.Sprintf("odooghost is already setup in %s", c.AppDir()), err)
		}
		return model.WrapCLIError(model.ExitCodeOf(err), "setup failed", err)
	}

	result := setupResult{
		AppDir:     c.AppDir(),
		Version:    cfg.Version,
		WorkingDir: cfg.WorkingDir,
	}

	if !flags.noNetwork {
		if err := ensureNetwork(ctx, c); err != nil {
			return err
		}
		result.CommonNetwork = constant.CommonNetworkName
	}

	printSetupResult(out, result)
	return nil
}

// ensureNetwork wraps EnsureCommonNetwork errors for the CLI.
func ensureNetwork(ctx context.Context, c *appctx.Context) error {
	if err := c.EnsureCommonNetwork(ctx); err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to ensure Docker network %q", constant.CommonNetworkName), err)
	}
	return nil
}

func printSetupResult(w io.Writer, r setupResult) {
	if IsJSONOutput() {
		printJSON(w, r)
		return
	}
	fmt.Fprintf(w, "odooghost %s setup in %s\n", r.Version, r.AppDir)
	fmt.Fprintf(w, "Working directory: %s\n", r.WorkingDir)
	if r.CommonNetwork != "" {
		fmt.Fprintf(w, "Docker network %q ready\n", r.CommonNetwork)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
