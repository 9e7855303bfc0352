package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command.
func NewResetCommand(global *GlobalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove all bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear bookmarks without --yes")
			}
			return runReset(cmd, global)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm removal")

	return cmd
}

func runReset(cmd *cobra.Command, global *GlobalOptions) error {
	application, cleanup, err := openApp(cmd, global, false)
	if err != nil {
		return err
	}
	defer cleanup()

	n := len(application.Bookmarks().Users())
	if err := application.Bookmarks().Reset(application.Context(cmd.Context())); err != nil {
		return fmt.Errorf("failed to reset bookmarks: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d bookmarks\n", n)
	return nil
}
