package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/gitfav/internal/core"
	"github.com/artpar/gitfav/internal/stars"
	"github.com/artpar/gitfav/internal/tui"
)

// starsOp names the controller call behind a starsMsg.
type starsOp int

const (
	opOpen starsOp = iota
	opLoadMore
	opRefresh
)

// starsMsg reports that a controller call finished.
type starsMsg struct {
	view *UserView
	op   starsOp
	err  error
}

// UserView shows a bookmarked user's profile and starred repositories.
type UserView struct {
	*tui.BaseComponent
	backend Backend
	keys    tui.KeyMap
	styles  tui.Styles
	user    core.BookmarkedUser
	ctrl    *stars.Controller
	state   stars.State
	cursor  int
	offset  int
	failed  starsOp
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewUserView creates the screen for req. Stars load on Init.
func NewUserView(backend Backend, keys tui.KeyMap, req core.UserDetailRequest) *UserView {
	ctx, cancel := context.WithCancel(backend.Context(context.Background()))
	return &UserView{
		BaseComponent: tui.NewBaseComponent(req.User.DisplayName()),
		backend:       backend,
		keys:          keys,
		styles:        tui.DefaultStyles(),
		user:          req.User,
		ctrl:          backend.NewStarsController(),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Init starts loading the first page.
func (v *UserView) Init() tea.Cmd {
	v.state = stars.State{Login: v.user.Login, Loading: true}
	login := v.user.Login
	return v.run(opOpen, func(ctx context.Context) error {
		return v.ctrl.Open(ctx, login)
	})
}

func (v *UserView) run(op starsOp, fn func(context.Context) error) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		// the screen may have been closed before the command ran
		if err := ctx.Err(); err != nil {
			return starsMsg{view: v, op: op, err: err}
		}
		return starsMsg{view: v, op: op, err: fn(ctx)}
	}
}

// Update handles messages.
func (v *UserView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case starsMsg:
		if msg.view != v {
			return v, nil
		}
		v.sync()
		if msg.err == nil || errors.Is(msg.err, stars.ErrSuperseded) {
			return v, nil
		}
		v.failed = msg.op
		if !v.state.Loaded || len(v.state.Items) == 0 {
			return v, nil
		}
		if msg.op == opRefresh {
			return v, notify("✗ Could not refresh stars")
		}
		return v, notify("✗ Could not load more stars")

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *UserView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.moveCursor(-1)
	case key.Matches(msg, v.keys.Down):
		v.moveCursor(1)
		return v, v.maybeLoadMore()
	case key.Matches(msg, v.keys.Top):
		v.moveCursor(-len(v.state.Items))
	case key.Matches(msg, v.keys.Bottom):
		v.moveCursor(len(v.state.Items))
		return v, v.maybeLoadMore()
	case key.Matches(msg, v.keys.Refresh):
		return v, v.refresh()
	case key.Matches(msg, v.keys.Select):
		if repo, ok := v.selected(); ok {
			return v, push(NewRepositoryView(v.backend, v.keys, core.NewRepositoryViewRequest(repo)))
		}
	case key.Matches(msg, v.keys.Open):
		if repo, ok := v.selected(); ok {
			if err := v.backend.OpenInBrowser(repo.HTMLURL); err != nil {
				return v, notify("✗ " + err.Error())
			}
			return v, notify("✓ Opened " + repo.Title())
		}
	case key.Matches(msg, v.keys.Copy):
		if repo, ok := v.selected(); ok {
			return v, func() tea.Msg { return CopyMsg{Content: repo.HTMLURL} }
		}
	}
	return v, nil
}

// maybeLoadMore requests the next page once the cursor nears the end.
func (v *UserView) maybeLoadMore() tea.Cmd {
	st := v.ctrl.State()
	if !st.Loaded || st.Exhausted || st.Busy() || v.state.Busy() {
		return nil
	}
	if !tui.NearEnd(v.cursor, len(st.Items), tui.LoadMoreThreshold) {
		return nil
	}
	v.state.LoadingMore = true
	v.state.Err = nil
	return v.run(opLoadMore, v.ctrl.LoadMore)
}

// refresh reloads page 1. It also retries a failed first load.
func (v *UserView) refresh() tea.Cmd {
	if v.state.Refreshing {
		return nil
	}
	v.state.Refreshing = true
	v.state.Err = nil
	return v.run(opRefresh, v.ctrl.Refresh)
}

func (v *UserView) sync() {
	v.state = v.ctrl.State()
	v.cursor = tui.MoveCursor(v.cursor, 0, len(v.state.Items))
	v.offset = tui.AdjustOffset(v.cursor, v.offset, v.visibleRows())
}

func (v *UserView) selected() (core.StarredRepository, bool) {
	if len(v.state.Items) == 0 {
		return core.StarredRepository{}, false
	}
	return v.state.Items[v.cursor], true
}

func (v *UserView) moveCursor(delta int) {
	v.cursor = tui.MoveCursor(v.cursor, delta, len(v.state.Items))
	v.offset = tui.AdjustOffset(v.cursor, v.offset, v.visibleRows())
}

// headerRows is the profile block plus the footer line.
const headerRows = 5

func (v *UserView) visibleRows() int {
	return max(v.Height()-headerRows, 1)
}

// View renders the view.
func (v *UserView) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Accent.Render(v.user.DisplayName()))
	b.WriteString(v.styles.Muted.Render("  @" + v.user.Login))
	b.WriteString("\n")
	if v.user.Bio != "" {
		b.WriteString(tui.Truncate(v.user.Bio, max(v.Width(), 10)))
	}
	b.WriteString("\n\n")

	switch {
	case v.state.Loading && len(v.state.Items) == 0:
		b.WriteString(v.styles.Muted.Render("Loading starred repositories..."))
		return b.String()
	case !v.state.Loaded && v.state.Err != nil:
		b.WriteString(v.styles.Error.Render("✗ Could not load stars: " + v.state.Err.Error()))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Press r to retry."))
		return b.String()
	case v.state.Loaded && len(v.state.Items) == 0:
		b.WriteString(v.styles.Muted.Render(v.user.Login + " has not starred anything yet."))
		return b.String()
	}

	end := min(v.offset+v.visibleRows(), len(v.state.Items))
	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderRow(i))
		b.WriteString("\n")
	}
	b.WriteString(v.renderFooter())
	return b.String()
}

func (v *UserView) renderRow(i int) string {
	repo := v.state.Items[i]
	width := max(v.Width()-2, 10)
	name := "★ " + repo.Name
	owner := repo.Owner.Login

	if i == v.cursor && v.Focused() {
		return v.styles.Selected.Render(tui.PadRight(tui.Truncate(name+"  "+owner, width), width))
	}
	if len([]rune(name))+2+len([]rune(owner)) > width {
		return tui.Truncate(name, width)
	}
	return name + "  " + v.styles.Muted.Render(owner)
}

func (v *UserView) renderFooter() string {
	switch {
	case v.state.Refreshing:
		return v.styles.Muted.Render("Refreshing...")
	case v.state.LoadingMore:
		return v.styles.Muted.Render("Loading more...")
	case v.state.Err != nil && v.failed == opRefresh:
		return v.styles.Error.Render("✗ " + v.state.Err.Error() + " (press r to retry)")
	case v.state.Err != nil:
		return v.styles.Error.Render("✗ " + v.state.Err.Error() + " (move down to retry)")
	case v.state.Exhausted:
		return v.styles.Muted.Render("End of list")
	}
	return ""
}

// Close drops the pagination session and cancels in-flight requests.
func (v *UserView) Close() {
	v.cancel()
	v.ctrl.Close()
}

// Capturing is always false; the screen has no text input.
func (v *UserView) Capturing() bool {
	return false
}

// Bindings lists the keys shown in the help bar.
func (v *UserView) Bindings() []key.Binding {
	return []key.Binding{v.keys.Up, v.keys.Down, v.keys.Select, v.keys.Refresh, v.keys.Open, v.keys.Copy}
}

// State returns the pagination state last seen by the screen.
func (v *UserView) State() stars.State {
	return v.state
}

// Cursor returns the selected row.
func (v *UserView) Cursor() int {
	return v.cursor
}

// User returns the profile shown.
func (v *UserView) User() core.BookmarkedUser {
	return v.user
}
