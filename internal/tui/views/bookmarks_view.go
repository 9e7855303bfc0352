package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/gitfav/internal/core"
	"github.com/artpar/gitfav/internal/tui"
)

// bookmarkAddedMsg carries the result of an add request.
type bookmarkAddedMsg struct {
	view  *BookmarksView
	login string
	users []core.BookmarkedUser
	err   error
}

// BookmarksView lists bookmarked users and hosts the add form.
type BookmarksView struct {
	*tui.BaseComponent
	backend Backend
	keys    tui.KeyMap
	styles  tui.Styles
	users   []core.BookmarkedUser
	cursor  int
	offset  int
	adding  bool
	loading bool
	input   textinput.Model
	err     error
	warning string
}

// NewBookmarksView creates the bookmark list from the loaded store.
func NewBookmarksView(backend Backend, keys tui.KeyMap) *BookmarksView {
	input := textinput.New()
	input.Placeholder = "GitHub login"
	input.Prompt = "› "
	input.CharLimit = 39
	input.Cursor.SetMode(cursor.CursorStatic)

	return &BookmarksView{
		BaseComponent: tui.NewBaseComponent("Bookmarks"),
		backend:       backend,
		keys:          keys,
		styles:        tui.DefaultStyles(),
		users:         backend.Bookmarks().Users(),
		input:         input,
	}
}

// Init initializes the view.
func (v *BookmarksView) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (v *BookmarksView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case bookmarkAddedMsg:
		if msg.view != v {
			return v, nil
		}
		return v.handleAdded(msg)

	case tea.KeyMsg:
		if v.adding {
			return v.handleFormKey(msg)
		}
		return v.handleListKey(msg)
	}

	if v.adding {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *BookmarksView) handleAdded(msg bookmarkAddedMsg) (tui.Component, tea.Cmd) {
	v.loading = false
	if msg.err != nil {
		// keep the typed login so the user can fix it and retry
		v.err = msg.err
		return v, nil
	}

	v.users = msg.users
	v.cursor = len(v.users) - 1
	v.offset = tui.AdjustOffset(v.cursor, v.offset, v.visibleRows())
	v.closeForm()
	return v, notify("✓ Added " + msg.login)
}

func (v *BookmarksView) handleFormKey(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Cancel):
		v.closeForm()
		return v, nil

	case key.Matches(msg, v.keys.Submit):
		if v.loading {
			return v, nil
		}
		login := strings.TrimSpace(v.input.Value())
		if login == "" {
			v.err = errors.New("type a GitHub login first")
			return v, nil
		}
		if err := core.ValidateLogin(login); err != nil {
			v.err = err
			return v, nil
		}
		v.err = nil
		v.warning = ""
		if v.backend.Bookmarks().Contains(login) {
			v.warning = login + " is already bookmarked; adding it again"
		}
		v.loading = true
		return v, v.addBookmark(login)
	}

	if v.loading {
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.err = nil
	return v, cmd
}

func (v *BookmarksView) handleListKey(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.moveCursor(-1)
	case key.Matches(msg, v.keys.Down):
		v.moveCursor(1)
	case key.Matches(msg, v.keys.Top):
		v.moveCursor(-len(v.users))
	case key.Matches(msg, v.keys.Bottom):
		v.moveCursor(len(v.users))
	case key.Matches(msg, v.keys.Add):
		v.adding = true
		v.err = nil
		v.warning = ""
		return v, v.input.Focus()
	case key.Matches(msg, v.keys.Select):
		if len(v.users) == 0 {
			return v, nil
		}
		req := core.UserDetailRequest{User: v.users[v.cursor]}
		return v, push(NewUserView(v.backend, v.keys, req))
	}
	return v, nil
}

func (v *BookmarksView) addBookmark(login string) tea.Cmd {
	return func() tea.Msg {
		users, err := v.backend.AddBookmark(v.backend.Context(context.Background()), login)
		return bookmarkAddedMsg{view: v, login: login, users: users, err: err}
	}
}

func (v *BookmarksView) closeForm() {
	v.adding = false
	v.err = nil
	v.warning = ""
	v.input.Reset()
	v.input.Blur()
}

func (v *BookmarksView) moveCursor(delta int) {
	v.cursor = tui.MoveCursor(v.cursor, delta, len(v.users))
	v.offset = tui.AdjustOffset(v.cursor, v.offset, v.visibleRows())
}

// formRows is the space taken by the add form when open.
func (v *BookmarksView) formRows() int {
	if !v.adding {
		return 0
	}
	return 4
}

func (v *BookmarksView) visibleRows() int {
	return max(v.Height()-2-v.formRows(), 1)
}

// View renders the view.
func (v *BookmarksView) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Bookmarked users (%d)", len(v.users))))
	b.WriteString("\n\n")

	if v.adding {
		b.WriteString(v.input.View())
		b.WriteString("\n")
		switch {
		case v.loading:
			b.WriteString(v.styles.Muted.Render("Looking up " + strings.TrimSpace(v.input.Value()) + "..."))
		case v.err != nil:
			b.WriteString(v.styles.Error.Render("✗ " + v.err.Error()))
		}
		b.WriteString("\n")
		if v.warning != "" {
			b.WriteString(v.styles.Muted.Render(v.warning))
		}
		b.WriteString("\n\n")
	}

	if len(v.users) == 0 {
		b.WriteString(v.styles.Muted.Render("No bookmarks yet. Press a to add a GitHub user."))
		return b.String()
	}

	end := min(v.offset+v.visibleRows(), len(v.users))
	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderRow(i))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *BookmarksView) renderRow(i int) string {
	user := v.users[i]
	width := max(v.Width()-2, 10)

	row := tui.PadRight(user.Login, 20) + " " + user.Name
	if user.Bio != "" {
		row += " · " + user.Bio
	}
	row = tui.Truncate(row, width)

	if i == v.cursor && v.Focused() && !v.adding {
		return v.styles.Selected.Render(tui.PadRight(row, width))
	}
	return row
}

// Close releases nothing; the bookmark list lives as long as the program.
func (v *BookmarksView) Close() {}

// Capturing is true while the add form has focus.
func (v *BookmarksView) Capturing() bool {
	return v.adding
}

// Bindings lists the keys shown in the help bar.
func (v *BookmarksView) Bindings() []key.Binding {
	if v.adding {
		return []key.Binding{v.keys.Submit, v.keys.Cancel}
	}
	return []key.Binding{v.keys.Up, v.keys.Down, v.keys.Select, v.keys.Add}
}

// --- State accessors for tests ---

// Users returns the displayed bookmarks.
func (v *BookmarksView) Users() []core.BookmarkedUser {
	return v.users
}

// Cursor returns the selected row.
func (v *BookmarksView) Cursor() int {
	return v.cursor
}

// Adding reports whether the add form is open.
func (v *BookmarksView) Adding() bool {
	return v.adding
}

// Loading reports whether an add request is in flight.
func (v *BookmarksView) Loading() bool {
	return v.loading
}

// Err returns the last add error.
func (v *BookmarksView) Err() error {
	return v.err
}

// Warning returns the duplicate warning, if any.
func (v *BookmarksView) Warning() string {
	return v.warning
}

// InputValue returns the text in the add form.
func (v *BookmarksView) InputValue() string {
	return v.input.Value()
}
