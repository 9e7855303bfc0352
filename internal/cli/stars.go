package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artpar/gitfav/internal/core"
)

// StarsOptions holds options for the stars command.
type StarsOptions struct {
	Page int
	All  bool
	JSON bool
}

// NewStarsCommand creates the stars command.
func NewStarsCommand(global *GlobalOptions) *cobra.Command {
	opts := &StarsOptions{}

	cmd := &cobra.Command{
		Use:   "stars LOGIN",
		Short: "Show repositories a user starred",
		Long:  "Print one page of a user's starred repositories, or every page with --all.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStars(cmd, global, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page to fetch")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Fetch pages until the list is exhausted")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("page", "all")

	return cmd
}

func runStars(cmd *cobra.Command, global *GlobalOptions, login string, opts *StarsOptions) error {
	if err := core.ValidateLogin(login); err != nil {
		return err
	}
	if opts.Page < 1 {
		return errors.New("page must be at least 1")
	}

	application, cleanup, err := openApp(cmd, global, false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := application.Context(cmd.Context())

	var repos []core.StarredRepository
	if opts.All {
		ctrl := application.NewStarsController()
		defer ctrl.Close()

		if err := ctrl.Open(ctx, login); err != nil {
			return fmt.Errorf("failed to fetch stars: %w", err)
		}
		for !ctrl.State().Exhausted {
			if err := ctrl.LoadMore(ctx); err != nil {
				return fmt.Errorf("failed to fetch page %d: %w", ctrl.State().CurrentPage+1, err)
			}
		}
		repos = ctrl.State().Items
	} else {
		repos, err = application.Client().FetchStarredRepositories(ctx, login, opts.Page)
		if err != nil {
			return fmt.Errorf("failed to fetch stars: %w", err)
		}
	}

	if opts.JSON {
		if repos == nil {
			repos = []core.StarredRepository{}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(repos)
	}
	return outputRepos(cmd, login, repos)
}

func outputRepos(cmd *cobra.Command, login string, repos []core.StarredRepository) error {
	out := cmd.OutOrStdout()
	if len(repos) == 0 {
		fmt.Fprintf(out, "%s has no starred repositories on this page\n", login)
		return nil
	}
	for _, repo := range repos {
		fmt.Fprintf(out, "%s\t%s\n", repo.Title(), repo.HTMLURL)
	}
	return nil
}
