// Package cli - network.go implements the "odooghost network" command group.
//
// "network ensure" creates the common Docker network when it is missing.
// It needs an initialized installation and is safe to run repeatedly.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odooghost/odooghost/internal/constant"
)

// NewNetworkCommand creates the "network" cobra command group.
func NewNetworkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Manage the common Docker network",
	}
	cmd.AddCommand(newNetworkEnsureCommand())
	return cmd
}

func newNetworkEnsureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure",
		Short: "Create the common Docker network if it does not exist",
		Long: `Make sure the "` + constant.CommonNetworkName + `" Docker network exists, creating it
when missing. Running it again is harmless.

Examples:
  odooghost network ensure`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runNetworkEnsure(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runNetworkEnsure(ctx context.Context, out io.Writer) error {
	c := newAppContext()
	defer func() { _ = c.Close() }()

	if err := requireSetup(c); err != nil {
		return err
	}
	if err := ensureNetwork(ctx, c); err != nil {
		return err
	}

	if IsJSONOutput() {
		printJSON(out, map[string]any{
			"network": constant.CommonNetworkName,
			"action":  "ensured",
		})
		return nil
	}
	fmt.Fprintf(out, "Docker network %q ready\n", constant.CommonNetworkName)
	return nil
}
