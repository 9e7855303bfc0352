// Package app wires configuration, persistence and the GitHub client into
// one container shared by the CLI and the TUI.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/artpar/gitfav/internal/bookmarks"
	"github.com/artpar/gitfav/internal/browser"
	"github.com/artpar/gitfav/internal/config"
	"github.com/artpar/gitfav/internal/core"
	"github.com/artpar/gitfav/internal/github"
	"github.com/artpar/gitfav/internal/kv"
	"github.com/artpar/gitfav/internal/kv/filesystem"
	"github.com/artpar/gitfav/internal/kv/sqlite"
	"github.com/artpar/gitfav/internal/logging"
	"github.com/artpar/gitfav/internal/stars"
)

// App is the main application container with dependency injection.
type App struct {
	config    config.Config
	logger    zerolog.Logger
	slots     kv.Store
	client    *github.Client
	bookmarks *bookmarks.Store
	reader    *browser.Reader
	opener    browser.Opener
}

// Option is a function that configures the App.
type Option func(*App)

// WithConfig sets the application configuration.
func WithConfig(cfg config.Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithLogger sets the logger handed to every core call.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithSlotStore replaces the configured persistence backend.
func WithSlotStore(store kv.Store) Option {
	return func(a *App) {
		a.slots = store
	}
}

// WithOpener replaces the system browser launcher.
func WithOpener(opener browser.Opener) Option {
	return func(a *App) {
		a.opener = opener
	}
}

// New builds the container and loads the persisted bookmarks.
func New(ctx context.Context, opts ...Option) (*App, error) {
	a := &App{
		config: config.Default(),
		logger: logging.Nop,
		opener: browser.SystemOpener,
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if a.slots == nil {
		slots, err := openSlots(a.config)
		if err != nil {
			return nil, err
		}
		a.slots = slots
	}

	a.client = github.NewClient(
		github.WithBaseURL(a.config.APIURL),
		github.WithTimeout(a.config.Timeout),
		github.WithUserAgent(a.config.UserAgent),
		github.WithLogger(a.logger),
	)
	a.reader = browser.NewReader(
		browser.WithTimeout(a.config.Timeout),
		browser.WithUserAgent(a.config.UserAgent),
	)
	a.bookmarks = bookmarks.NewStore(a.slots)

	if _, err := a.bookmarks.Load(a.Context(ctx)); err != nil {
		a.slots.Close()
		return nil, err
	}
	return a, nil
}

func openSlots(cfg config.Config) (kv.Store, error) {
	switch cfg.Storage {
	case config.StorageFile:
		store, err := filesystem.New(cfg.StoragePath())
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageSQLite, "":
		store, err := sqlite.New(cfg.StoragePath())
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// Config returns the application configuration.
func (a *App) Config() config.Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Context attaches the application logger to ctx.
func (a *App) Context(ctx context.Context) context.Context {
	if logging.HasLogger(ctx) {
		return ctx
	}
	return logging.WithLogger(ctx, a.logger)
}

func (a *App) Client() *github.Client {
	return a.client
}

func (a *App) Bookmarks() *bookmarks.Store {
	return a.bookmarks
}

func (a *App) Reader() *browser.Reader {
	return a.reader
}

// OpenInBrowser hands url to the system browser.
func (a *App) OpenInBrowser(url string) error {
	return a.opener(url)
}

// NewStarsController returns a pagination controller backed by the
// GitHub client. Each user screen owns its own controller.
func (a *App) NewStarsController() *stars.Controller {
	return stars.NewController(a.client)
}

// LookupUser validates login and fetches its profile.
func (a *App) LookupUser(ctx context.Context, login string) (core.BookmarkedUser, error) {
	login = strings.TrimSpace(login)
	if err := core.ValidateLogin(login); err != nil {
		return core.BookmarkedUser{}, err
	}
	return a.client.FetchUserProfile(a.Context(ctx), login)
}

// AddBookmark looks up login and appends the profile to the bookmarks.
// It returns the new list.
func (a *App) AddBookmark(ctx context.Context, login string) ([]core.BookmarkedUser, error) {
	user, err := a.LookupUser(ctx, login)
	if err != nil {
		return nil, err
	}
	return a.bookmarks.Add(a.Context(ctx), user)
}

// AddBookmarks looks up every login concurrently and appends the profiles
// in argument order. Nothing is stored unless every lookup succeeds.
func (a *App) AddBookmarks(ctx context.Context, logins ...string) ([]core.BookmarkedUser, error) {
	for _, login := range logins {
		if err := core.ValidateLogin(login); err != nil {
			return nil, err
		}
	}

	users := make([]core.BookmarkedUser, len(logins))
	g, gctx := errgroup.WithContext(a.Context(ctx))
	g.SetLimit(max(a.config.AddConcurrency, 1))
	for i, login := range logins {
		g.Go(func() error {
			user, err := a.client.FetchUserProfile(gctx, strings.TrimSpace(login))
			if err != nil {
				return err
			}
			users[i] = user
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if _, err := a.bookmarks.Add(a.Context(ctx), users...); err != nil {
		return nil, err
	}
	return users, nil
}

// Close releases the persistence backend.
func (a *App) Close() error {
	if err := a.slots.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
