package cli_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/gitfav/e2e/harness"
	"github.com/artpar/gitfav/internal/core"
	"github.com/artpar/gitfav/internal/github/githubtest"
)

func TestCLI_Commands(t *testing.T) {
	h := harness.New(t, harness.Config{})
	h.GitHub().AddUser(core.BookmarkedUser{Login: "octocat", Name: "The Octocat", AvatarURL: "https://avatars.example/octocat"})
	h.GitHub().SetStarred("octocat",
		[]core.StarredRepository{githubtest.Repo(1, "golang", "go")},
		[]core.StarredRepository{githubtest.Repo(2, "spf13", "viper")},
	)

	t.Run("add then list", func(t *testing.T) {
		_, err := h.CLI().Add("octocat")
		require.NoError(t, err)

		result, err := h.CLI().ListJSON()
		require.NoError(t, err)

		check := harness.NewAssertions(t)
		check.OutputContains(result.Stdout, `"login": "octocat"`, `"name": "The Octocat"`)
		check.OutputNotContains(result.Stdout, `"bio"`)
	})

	t.Run("stars pages", func(t *testing.T) {
		result, err := h.CLI().Stars("octocat", "--all")
		require.NoError(t, err)

		check := harness.NewAssertions(t)
		check.OutputContains(result.Stdout, "golang/go", "spf13/viper")
	})

	t.Run("api failure exits non-zero", func(t *testing.T) {
		h.GitHub().FailNext("/users/octocat/starred", http.StatusInternalServerError)

		result, err := h.CLI().Stars("octocat")
		assert.Error(t, err)
		assert.Equal(t, 1, result.ExitCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := h.CLI().Add("nobody")
		assert.ErrorIs(t, err, core.ErrUserNotFound)
	})
}
