package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add LOGIN...",
		Short: "Bookmark GitHub users",
		Long:  "Look up each login on GitHub and append the profiles to the bookmarks in the order given.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, global, args)
		},
	}
}

func runAdd(cmd *cobra.Command, global *GlobalOptions, logins []string) error {
	application, cleanup, err := openApp(cmd, global, false)
	if err != nil {
		return err
	}
	defer cleanup()

	// added comes back in argument order
	known := make([]bool, len(logins))
	for i, login := range logins {
		known[i] = application.Bookmarks().Contains(login)
	}

	added, err := application.AddBookmarks(cmd.Context(), logins...)
	if err != nil {
		return fmt.Errorf("failed to add bookmarks: %w", err)
	}

	out := cmd.OutOrStdout()
	for i, user := range added {
		note := ""
		if known[i] {
			note = " (already bookmarked)"
		}
		fmt.Fprintf(out, "Added %s%s\n", describeUser(user.Login, user.Name), note)
	}
	return nil
}

func describeUser(login, name string) string {
	if name == "" || name == login {
		return login
	}
	return fmt.Sprintf("%s (%s)", login, name)
}
