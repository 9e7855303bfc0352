package journeys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/gitfav/e2e/harness"
	"github.com/artpar/gitfav/internal/core"
	"github.com/artpar/gitfav/internal/github/githubtest"
	"github.com/artpar/gitfav/internal/tui/views"
)

func seed(h *harness.E2EHarness) {
	gh := h.GitHub()
	gh.AddUser(core.BookmarkedUser{Login: "octocat", Name: "The Octocat", Bio: "GitHub mascot", AvatarURL: "https://avatars.example/octocat"})
	gh.AddUser(core.BookmarkedUser{Login: "rocketseat", Name: "Rocketseat", AvatarURL: "https://avatars.example/rocketseat"})

	page1 := make([]core.StarredRepository, 0, 10)
	for i := 1; i <= 10; i++ {
		page1 = append(page1, githubtest.Repo(int64(i), "golang", "repo-a"))
	}
	gh.SetStarred("octocat", page1, []core.StarredRepository{githubtest.Repo(11, "spf13", "cobra")})
}

// TestFullWorkflow_BookmarkAndBrowse adds users from the CLI, then browses
// them in the TUI: open a profile, page through stars to the end, refresh
// and go back.
func TestFullWorkflow_BookmarkAndBrowse(t *testing.T) {
	h := harness.New(t, harness.Config{})
	seed(h)

	t.Log("Step 1: bookmark users from the CLI")
	result, err := h.CLI().Add("octocat", "rocketseat")
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "Added octocat")

	t.Log("Step 2: TUI shows the persisted bookmarks in order")
	session := h.TUI().Start(t)
	check := harness.NewAssertions(t)
	check.OutputContains(session.Output(), "Bookmarked users (2)", "octocat", "rocketseat")
	assert.Less(t,
		strings.Index(session.Output(), "octocat"),
		strings.Index(session.Output(), "rocketseat"))

	t.Log("Step 3: open the first profile")
	session.SendKey("enter")
	user, ok := session.Model().Top().(*views.UserView)
	require.True(t, ok)
	check.OutputContains(session.Output(), "The Octocat", "GitHub mascot", "repo-a")
	assert.Len(t, user.State().Items, 10)

	t.Log("Step 4: scroll to the end until the list is exhausted")
	session.SendKey("G")
	assert.Len(t, user.State().Items, 11)
	session.SendKey("G")
	assert.True(t, user.State().Exhausted)
	check.OutputContains(session.Output(), "End of list")
	check.NoError(session.Output())

	t.Log("Step 5: refresh returns to page one")
	session.SendKey("r")
	assert.Len(t, user.State().Items, 10)
	assert.False(t, user.State().Exhausted)

	t.Log("Step 6: back to the bookmark list")
	session.SendKey("esc")
	assert.Equal(t, 1, session.Model().Depth())

	t.Log("Step 7: help overlay")
	session.SendKey("?")
	check.HelpVisible(session.Output())
	session.SendKey("esc")
	check.HelpNotVisible(session.Output())
}

// TestFullWorkflow_AddFromTUI adds a bookmark through the form and checks
// the CLI sees it.
func TestFullWorkflow_AddFromTUI(t *testing.T) {
	h := harness.New(t, harness.Config{})
	seed(h)

	session := h.TUI().Start(t)
	session.SendKey("a").Type("rocketseat").SendKey("enter")

	check := harness.NewAssertions(t)
	check.OutputContains(session.Output(), "Bookmarked users (1)", "Rocketseat")
	assert.True(t, session.App().Bookmarks().Contains("rocketseat"))

	result, err := h.CLI().ListJSON()
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, `"login": "rocketseat"`)
	assert.Contains(t, result.Stdout, `"avatar": "https://avatars.example/rocketseat"`)
}
