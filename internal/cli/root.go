package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/artpar/gitfav/internal/app"
	"github.com/artpar/gitfav/internal/config"
	"github.com/artpar/gitfav/internal/logging"
	"github.com/artpar/gitfav/internal/tui/views"
)

// GlobalOptions holds flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	DataDir    string
	LogLevel   string
	APIURL     string
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:           "gitfav",
		Short:         "gitfav - bookmark GitHub users and browse their stars",
		Long:          "gitfav keeps a list of GitHub users and lets you page through the repositories they starred.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Config file (default ~/.config/gitfav/config.yml)")
	flags.StringVar(&opts.DataDir, "data-dir", "", "Directory holding bookmarks and logs")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.APIURL, "api-url", "", "GitHub API base URL")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewStarsCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}

// loadConfig reads configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command, opts *GlobalOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = opts.DataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.LogLevel
	}
	if flags.Changed("api-url") {
		cfg.APIURL = opts.APIURL
	}
	return cfg, cfg.Validate()
}

// openApp builds the application for a command. Interactive sessions log
// to the log file, everything else to stderr unless a log file is set.
func openApp(cmd *cobra.Command, opts *GlobalOptions, interactive bool) (*app.App, func(), error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, nil, err
	}

	logCfg := logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogFile}
	if interactive {
		logCfg.Output = cfg.LogPath()
	} else if logCfg.Output == "" {
		logCfg.Output = "stderr"
		logCfg.Format = "console"
	}

	logger, closeLog, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}

	application, err := app.New(cmd.Context(), app.WithConfig(cfg), app.WithLogger(logger))
	if err != nil {
		closeLog()
		return nil, nil, err
	}

	cleanup := func() {
		if err := application.Close(); err != nil {
			logger.Error().Err(err).Msg("close failed")
		}
		closeLog()
	}
	return application, cleanup, nil
}

// tuiModel wraps the MainView for bubbletea
type tuiModel struct {
	view *views.MainView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.MainView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// runTUI starts the TUI application
func runTUI(cmd *cobra.Command, opts *GlobalOptions) error {
	application, cleanup, err := openApp(cmd, opts, true)
	if err != nil {
		return err
	}
	defer cleanup()

	model := tuiModel{
		view: views.NewMainView(application),
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}
