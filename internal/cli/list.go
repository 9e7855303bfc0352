package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/artpar/gitfav/internal/core"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	JSON bool
	YAML bool
}

// NewListCommand creates the list command.
func NewListCommand(global *GlobalOptions) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show bookmarked users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, global, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "Output as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}

func runList(cmd *cobra.Command, global *GlobalOptions, opts *ListOptions) error {
	application, cleanup, err := openApp(cmd, global, false)
	if err != nil {
		return err
	}
	defer cleanup()

	users := application.Bookmarks().Users()
	out := cmd.OutOrStdout()

	switch {
	case opts.JSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(users)
	case opts.YAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(users); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return encoder.Close()
	}

	if len(users) == 0 {
		fmt.Fprintln(out, "No bookmarks yet. Add one with: gitfav add LOGIN")
		return nil
	}
	for i, user := range users {
		outputUser(cmd, i+1, user)
	}
	return nil
}

func outputUser(cmd *cobra.Command, n int, user core.BookmarkedUser) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%3d. %s\n", n, describeUser(user.Login, user.Name))
	if user.Bio != "" {
		fmt.Fprintf(out, "     %s\n", user.Bio)
	}
}
