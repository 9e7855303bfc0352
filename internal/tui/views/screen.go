package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/gitfav/internal/bookmarks"
	"github.com/artpar/gitfav/internal/browser"
	"github.com/artpar/gitfav/internal/core"
	"github.com/artpar/gitfav/internal/stars"
	"github.com/artpar/gitfav/internal/tui"
)

// Backend is what the screens need from the application.
type Backend interface {
	Context(ctx context.Context) context.Context
	Bookmarks() *bookmarks.Store
	AddBookmark(ctx context.Context, login string) ([]core.BookmarkedUser, error)
	NewStarsController() *stars.Controller
	Reader() *browser.Reader
	OpenInBrowser(url string) error
}

// Screen is one entry of the navigation stack.
type Screen interface {
	tui.Component

	// Close is called once the screen leaves the stack.
	Close()

	// Capturing reports whether the screen wants every key, e.g. while a
	// text input has focus.
	Capturing() bool

	// Bindings lists the keys shown in the help bar.
	Bindings() []key.Binding
}

// PushMsg opens a screen on top of the stack.
type PushMsg struct {
	Screen Screen
}

// PopMsg returns to the previous screen.
type PopMsg struct{}

// CopyMsg asks the main view to put content on the clipboard.
type CopyMsg struct {
	Content string
}

// NotifyMsg shows a transient message in the status bar.
type NotifyMsg struct {
	Text string
}

// clearNotificationMsg clears the notification it was scheduled for.
type clearNotificationMsg struct {
	seq int
}

func push(s Screen) tea.Cmd {
	return func() tea.Msg {
		return PushMsg{Screen: s}
	}
}

func notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Text: text}
	}
}
