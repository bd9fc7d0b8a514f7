// Package cli - status.go implements the "odooghost status" command.
//
// Status reports the setup state, the configuration record as persisted,
// the ODOOGHOST_* environment variables currently overriding it, the
// common network and the stacks found on the engine. It never modifies
// anything.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/odooghost/odooghost/internal/appctx"
	"github.com/odooghost/odooghost/internal/config"
	"github.com/odooghost/odooghost/internal/constant"
	"github.com/odooghost/odooghost/internal/docker"
	"github.com/odooghost/odooghost/internal/model"
)

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show setup state, configuration and Docker resources",
		Long: `Show whether odooghost is setup, its configuration, whether the
common Docker network exists and which stacks have containers.

Status never modifies anything. Docker being unreachable is reported,
not treated as an error.

Examples:
  odooghost status
  odooghost status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// networkStatus values.
const (
	networkPresent     = "present"
	networkMissing     = "missing"
	networkUnreachable = "unreachable"
)

// statusResult is the JSON form of the status command.
type statusResult struct {
	State         model.SetupState     `json:"state"`
	AppDir        string               `json:"appDir"`
	Config        *model.Config        `json:"config,omitempty"`
	Overrides     map[string]string    `json:"overrides,omitempty"`
	CommonNetwork string               `json:"commonNetwork"`
	NetworkState  string               `json:"networkState"`
	NetworkID     string               `json:"networkId,omitempty"`
	NetworkError  string               `json:"networkError,omitempty"`
	Stacks        []model.StackSummary `json:"stacks,omitempty"`
}

func runStatus(ctx context.Context, out io.Writer) error {
	c := newAppContext()
	defer func() { _ = c.Close() }()

	result := statusResult{
		State:         model.SetupStateOf(c.CheckSetupState()),
		AppDir:        c.AppDir(),
		CommonNetwork: constant.CommonNetworkName,
	}

	if result.State == model.StateInitialized {
		if err := readStatusConfig(c, &result); err != nil {
			return err
		}
	}

	inspectCommonNetwork(ctx, c, &result)
	if result.NetworkState != networkUnreachable {
		listStacks(ctx, c, &result)
	}

	printStatusResult(out, result)
	return nil
}

// readStatusConfig fills the persisted record and the environment
// overrides in effect for this invocation.
func readStatusConfig(c *appctx.Context, r *statusResult) error {
	persisted, err := c.ReadConfig()
	if err != nil {
		if config.IsNotExist(err) {
			return model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("%s is missing, the installation in %s is incomplete", c.ConfigPath(), c.AppDir()))
		}
		return model.WrapCLIError(model.ExitGeneralError, "failed to read config", err)
	}
	r.Config = persisted

	loaded, err := c.LoadConfig()
	if err != nil {
		logger.Debug("Config with overrides unreadable", "err", err)
		return nil
	}
	if overrides := config.Overrides(persisted, loaded); len(overrides) > 0 {
		r.Overrides = overrides
	}
	return nil
}

// inspectCommonNetwork fills the network fields of r without creating
// anything.
func inspectCommonNetwork(ctx context.Context, c *appctx.Context, r *statusResult) {
	cli, err := c.Engine()
	if err != nil {
		r.NetworkState, r.NetworkError = networkUnreachable, err.Error()
		return
	}

	info, found, err := docker.FindNetwork(ctx, cli, constant.CommonNetworkName)
	switch {
	case err != nil:
		logger.Debug("Network inspect failed", "err", err)
		r.NetworkState, r.NetworkError = networkUnreachable, err.Error()
	case found:
		r.NetworkState, r.NetworkID = networkPresent, info.ID
	default:
		r.NetworkState = networkMissing
	}
}

// listStacks fills r.Stacks from the managed containers. A listing
// failure is logged and leaves r.Stacks empty.
func listStacks(ctx context.Context, c *appctx.Context, r *statusResult) {
	cli, err := c.Engine()
	if err != nil {
		return
	}
	containers, err := docker.ListStackContainers(ctx, cli, docker.ManagedFilter())
	if err != nil {
		logger.Debug("Container list failed", "err", err)
		return
	}
	r.Stacks = docker.SummarizeStacks(containers)
}

func printStatusResult(w io.Writer, r statusResult) {
	if IsJSONOutput() {
		printJSON(w, r)
		return
	}

	fmt.Fprintf(w, "State:          %s\n", r.State)
	fmt.Fprintf(w, "App directory:  %s\n", r.AppDir)
	if r.Config != nil {
		fmt.Fprintf(w, "Version:        %s\n", r.Config.Version)
		fmt.Fprintf(w, "Working dir:    %s\n", r.Config.WorkingDir)
	}
	for _, env := range sortedKeys(r.Overrides) {
		fmt.Fprintf(w, "Override:       %s=%s\n", env, r.Overrides[env])
	}
	fmt.Fprintf(w, "Network:        %s (%s)\n", r.CommonNetwork, r.NetworkState)
	if r.NetworkError != "" {
		fmt.Fprintf(w, "Network error:  %s\n", r.NetworkError)
		return
	}
	if len(r.Stacks) == 0 {
		fmt.Fprintln(w, "Stacks:         none")
		return
	}
	fmt.Fprintln(w, "Stacks:")
	for _, s := range r.Stacks {
		state := "stopped"
		if s.IsRunning() {
			state = "running"
		}
		fmt.Fprintf(w, "  %-20s %-8s %d/%d running\n", s.Name, state, s.Running, s.Containers)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
