package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/gitfav/internal/tui"
)

// notificationTTL is how long status bar notifications stay visible.
const notificationTTL = 2 * time.Second

// MainView hosts the navigation stack. The bookmark list is always at the
// bottom; user and repository screens are pushed on top of it.
type MainView struct {
	backend      Backend
	keys         tui.KeyMap
	stack        []Screen
	width        int
	height       int
	showHelp     bool
	notification string
	notifySeq    int
	copyFn       func(string) error
}

// NewMainView creates the main view with the bookmark list as root screen.
func NewMainView(backend Backend) *MainView {
	keys := tui.DefaultKeyMap()
	root := NewBookmarksView(backend, keys)
	root.Focus()

	return &MainView{
		backend: backend,
		keys:    keys,
		stack:   []Screen{root},
		copyFn:  clipboard.WriteAll,
	}
}

// Init initializes the view.
func (v *MainView) Init() tea.Cmd {
	return v.top().Init()
}

// Update handles messages.
func (v *MainView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case PushMsg:
		return v, v.push(msg.Screen)

	case PopMsg:
		v.pop()
		return v, nil

	case CopyMsg:
		return v.handleCopy(msg.Content)

	case NotifyMsg:
		return v, v.notify(msg.Text)

	case clearNotificationMsg:
		if msg.seq == v.notifySeq {
			v.notification = ""
		}
		return v, nil
	}

	// results of background work go to whichever screen started it,
	// even when it is not on top
	return v, v.broadcast(msg)
}

func (v *MainView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return v, tea.Quit
	}

	if v.showHelp {
		if key.Matches(msg, v.keys.Help) || msg.Type == tea.KeyEsc {
			v.showHelp = false
		}
		return v, nil
	}

	top := v.top()
	if !top.Capturing() {
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Help):
			v.showHelp = true
			return v, nil
		case key.Matches(msg, v.keys.Back) && len(v.stack) > 1:
			v.pop()
			return v, nil
		}
	}

	updated, cmd := top.Update(msg)
	v.stack[len(v.stack)-1] = updated.(Screen)
	return v, cmd
}

func (v *MainView) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, s := range v.stack {
		updated, cmd := s.Update(msg)
		v.stack[i] = updated.(Screen)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (v *MainView) push(s Screen) tea.Cmd {
	if s == nil {
		return nil
	}
	v.top().Blur()
	s.SetSize(v.width, v.contentHeight())
	s.Focus()
	v.stack = append(v.stack, s)
	return s.Init()
}

func (v *MainView) pop() {
	if len(v.stack) <= 1 {
		return
	}
	top := v.top()
	top.Blur()
	top.Close()
	v.stack = v.stack[:len(v.stack)-1]
	v.top().Focus()
}

func (v *MainView) top() Screen {
	return v.stack[len(v.stack)-1]
}

func (v *MainView) handleCopy(content string) (tui.Component, tea.Cmd) {
	if err := v.copyFn(content); err != nil {
		return v, v.notify("✗ Copy failed")
	}
	return v, v.notify("✓ Copied " + content)
}

func (v *MainView) notify(text string) tea.Cmd {
	v.notifySeq++
	v.notification = text
	seq := v.notifySeq
	return tea.Tick(notificationTTL, func(time.Time) tea.Msg {
		return clearNotificationMsg{seq: seq}
	})
}

// contentHeight leaves room for the title, status and help bars.
func (v *MainView) contentHeight() int {
	return max(v.height-3, 1)
}

// View renders the view.
func (v *MainView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}
	if v.showHelp {
		return v.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		tui.RenderTitle(v.breadcrumb(), v.width),
		lipgloss.NewStyle().Height(v.contentHeight()).MaxHeight(v.contentHeight()).Render(v.top().View()),
		v.renderStatusBar(),
		v.renderHelpBar(),
	)
}

func (v *MainView) breadcrumb() string {
	titles := make([]string, len(v.stack))
	for i, s := range v.stack {
		titles[i] = s.Title()
	}
	return tui.Truncate(strings.Join(titles, " › "), v.width)
}

func (v *MainView) bindings() []key.Binding {
	bindings := v.top().Bindings()
	if len(v.stack) > 1 && !v.top().Capturing() {
		bindings = append(bindings, v.keys.Back)
	}
	return append(bindings, v.keys.Help, v.keys.Quit)
}

func (v *MainView) renderHelpBar() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))
	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(" │ ")

	var hints []string
	for _, b := range v.bindings() {
		help := b.Help()
		hints = append(hints, keyStyle.Render(help.Key)+descStyle.Render(" "+help.Desc))
	}

	barStyle := lipgloss.NewStyle().
		Width(v.width).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	return barStyle.Render(strings.Join(hints, sep))
}

func (v *MainView) renderStatusBar() string {
	depthStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("229")).
		Bold(true).
		Padding(0, 1)
	items := []string{depthStyle.Render(fmt.Sprintf("%d bookmarked", len(v.backend.Bookmarks().Users())))}

	if v.notification != "" {
		notifyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true).
			Padding(0, 1)
		if strings.HasPrefix(v.notification, "✗") {
			notifyStyle = notifyStyle.Foreground(lipgloss.Color("160"))
		}
		items = append(items, notifyStyle.Render(tui.Truncate(v.notification, max(v.width-20, 1))))
	}

	barStyle := lipgloss.NewStyle().
		Width(v.width).
		Background(lipgloss.Color("236"))

	return barStyle.Render(strings.Join(items, " "))
}

func (v *MainView) renderHelp() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)

	lines := []string{
		tui.DefaultStyles().Title.Render("gitfav help"),
		"",
	}
	for _, b := range v.bindings() {
		help := b.Help()
		lines = append(lines, keyStyle.Render(tui.PadRight(help.Key, 10))+help.Desc)
	}
	lines = append(lines, "", "Press ? or Esc to close")

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}

// Title returns the view title.
func (v *MainView) Title() string {
	return "gitfav"
}

// Focused returns true if focused.
func (v *MainView) Focused() bool {
	return true
}

// Focus sets focus.
func (v *MainView) Focus() {}

// Blur removes focus.
func (v *MainView) Blur() {}

// SetSize sets dimensions.
func (v *MainView) SetSize(width, height int) {
	v.width = width
	v.height = height
	for _, s := range v.stack {
		s.SetSize(width, v.contentHeight())
	}
}

// Width returns the width.
func (v *MainView) Width() int {
	return v.width
}

// Height returns the height.
func (v *MainView) Height() int {
	return v.height
}

// --- State accessors for tests ---

// Depth returns the number of screens on the stack.
func (v *MainView) Depth() int {
	return len(v.stack)
}

// Top returns the visible screen.
func (v *MainView) Top() Screen {
	return v.top()
}

// Notification returns the current notification message.
func (v *MainView) Notification() string {
	return v.notification
}

// ShowingHelp returns true if help is showing.
func (v *MainView) ShowingHelp() bool {
	return v.showHelp
}
