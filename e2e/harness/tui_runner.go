package harness

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/gitfav/internal/app"
	"github.com/artpar/gitfav/internal/config"
	"github.com/artpar/gitfav/internal/tui/views"
)

// TUIRunner provides TUI testing capabilities.
type TUIRunner struct {
	harness *E2EHarness
}

// TUISession represents an active TUI test session.
type TUISession struct {
	app   *app.App
	model *views.MainView
}

// Start opens the harness data directory and starts a session at 120x40.
func (r *TUIRunner) Start(t *testing.T) *TUISession {
	return r.StartWithSize(t, 120, 40)
}

// StartWithSize starts a TUI session with custom dimensions.
func (r *TUIRunner) StartWithSize(t *testing.T, width, height int) *TUISession {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = r.harness.tmpDir
	cfg.APIURL = r.harness.server.BaseURL()

	application, err := app.New(context.Background(),
		app.WithConfig(cfg),
		app.WithOpener(func(string) error { return nil }),
	)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(func() { application.Close() })

	model := views.NewMainView(application)
	model.SetSize(width, height)

	s := &TUISession{
		app:   application,
		model: model,
	}
	s.executeCmd(model.Init())
	return s
}

// SendKey sends a key press.
func (s *TUISession) SendKey(key string) *TUISession {
	msg := parseKeyMsg(key)
	updated, cmd := s.model.Update(msg)
	s.model = updated.(*views.MainView)

	if cmd != nil {
		s.executeCmd(cmd)
	}
	return s
}

// executeCmd executes a tea.Cmd and processes the resulting message.
// Notifications are applied but their clearing timers are not waited on.
func (s *TUISession) executeCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	msg := cmd()
	switch msg := msg.(type) {
	case nil, tea.QuitMsg:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			s.executeCmd(c)
		}
		return
	case views.NotifyMsg, views.CopyMsg:
		updated, _ := s.model.Update(msg)
		s.model = updated.(*views.MainView)
		return
	}

	updated, nextCmd := s.model.Update(msg)
	s.model = updated.(*views.MainView)

	if nextCmd != nil {
		s.executeCmd(nextCmd)
	}
}

// Type sends a sequence of rune keys. Commands they return, such as cursor
// blinks, are not run.
func (s *TUISession) Type(text string) *TUISession {
	for _, r := range text {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		updated, _ := s.model.Update(msg)
		s.model = updated.(*views.MainView)
	}
	return s
}

// Output returns the current TUI output.
func (s *TUISession) Output() string {
	return s.model.View()
}

// Model returns the underlying MainView for direct assertions.
func (s *TUISession) Model() *views.MainView {
	return s.model
}

// App returns the application behind the session.
func (s *TUISession) App() *app.App {
	return s.app
}

// parseKeyMsg converts key string to tea.KeyMsg.
func parseKeyMsg(key string) tea.KeyMsg {
	switch strings.ToLower(key) {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc", "escape":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
