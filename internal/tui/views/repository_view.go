package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/gitfav/internal/browser"
	"github.com/artpar/gitfav/internal/core"
	"github.com/artpar/gitfav/internal/tui"
)

// pageLoadedMsg carries a fetched repository page.
type pageLoadedMsg struct {
	view *RepositoryView
	page *browser.Page
	err  error
}

// RepositoryView renders the readable text of a repository page.
type RepositoryView struct {
	*tui.BaseComponent
	backend  Backend
	keys     tui.KeyMap
	styles   tui.Styles
	req      core.RepositoryViewRequest
	viewport viewport.Model
	page     *browser.Page
	loading  bool
	err      error
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewRepositoryView creates the screen for req. The page loads on Init.
func NewRepositoryView(backend Backend, keys tui.KeyMap, req core.RepositoryViewRequest) *RepositoryView {
	ctx, cancel := context.WithCancel(backend.Context(context.Background()))
	return &RepositoryView{
		BaseComponent: tui.NewBaseComponent(req.Title),
		backend:       backend,
		keys:          keys,
		styles:        tui.DefaultStyles(),
		req:           req,
		viewport:      viewport.New(0, 0),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Init starts fetching the page.
func (v *RepositoryView) Init() tea.Cmd {
	return v.load()
}

func (v *RepositoryView) load() tea.Cmd {
	v.loading = true
	v.err = nil
	ctx, url := v.ctx, v.req.URL
	return func() tea.Msg {
		page, err := v.backend.Reader().Fetch(ctx, url)
		return pageLoadedMsg{view: v, page: page, err: err}
	}
}

// Update handles messages.
func (v *RepositoryView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		if msg.view != v {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.page != nil {
			v.page = msg.page
			v.render()
			v.viewport.GotoTop()
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Refresh):
			if v.loading {
				return v, nil
			}
			return v, v.load()
		case key.Matches(msg, v.keys.Open):
			if err := v.backend.OpenInBrowser(v.req.URL); err != nil {
				return v, notify("✗ " + err.Error())
			}
			return v, notify("✓ Opened in browser")
		case key.Matches(msg, v.keys.Copy):
			url := v.req.URL
			return v, func() tea.Msg { return CopyMsg{Content: url} }
		case key.Matches(msg, v.keys.Top):
			v.viewport.GotoTop()
			return v, nil
		case key.Matches(msg, v.keys.Bottom):
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// render lays the page text out at the current width.
func (v *RepositoryView) render() {
	if v.page == nil {
		return
	}
	width := max(v.viewport.Width, 20)
	wrap := lipgloss.NewStyle().Width(width)

	lines := make([]string, 0, len(v.page.Lines))
	for _, line := range v.page.Lines {
		if strings.HasPrefix(line, "#") {
			lines = append(lines, "", v.styles.Accent.Render(wrap.Render(line)))
			continue
		}
		lines = append(lines, wrap.Render(line))
	}
	v.viewport.SetContent(strings.TrimLeft(strings.Join(lines, "\n"), "\n"))
}

// SetSize sets dimensions.
func (v *RepositoryView) SetSize(width, height int) {
	v.BaseComponent.SetSize(width, height)
	v.viewport.Width = width
	v.viewport.Height = max(height-3, 1)
	v.render()
}

// View renders the view.
func (v *RepositoryView) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Accent.Render(v.req.Title))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(tui.Truncate(v.req.URL, max(v.Width(), 10))))
	b.WriteString("\n\n")

	switch {
	case v.loading && v.page == nil:
		b.WriteString(v.styles.Muted.Render("Loading page..."))
	case v.err != nil && v.page == nil:
		b.WriteString(v.styles.Error.Render("✗ Could not load page: " + v.err.Error()))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Press r to retry or o to open it in your browser."))
	default:
		b.WriteString(v.viewport.View())
	}
	return b.String()
}

// Close cancels a page fetch still in flight.
func (v *RepositoryView) Close() {
	v.cancel()
}

// Capturing is always false; the screen has no text input.
func (v *RepositoryView) Capturing() bool {
	return false
}

// Bindings lists the keys shown in the help bar.
func (v *RepositoryView) Bindings() []key.Binding {
	return []key.Binding{v.keys.Up, v.keys.Down, v.keys.Refresh, v.keys.Open, v.keys.Copy}
}

// Page returns the loaded page, or nil.
func (v *RepositoryView) Page() *browser.Page {
	return v.page
}

// Loading reports whether the page is being fetched.
func (v *RepositoryView) Loading() bool {
	return v.loading
}

// Err returns the last fetch error.
func (v *RepositoryView) Err() error {
	return v.err
}

// Request returns the navigation request the screen was opened with.
func (v *RepositoryView) Request() core.RepositoryViewRequest {
	return v.req
}
