// Package stars drives incremental loading of a user's starred repositories.
//
// A Controller holds the pagination state for the profile currently on
// screen. Fetches run without the lock held, so a refresh and a load-more
// may overlap; each fetch remembers the generation it started under and its
// result is applied only if that generation is still current. Open, Refresh
// and Close start a new generation.
package stars

import (
	"context"
	"errors"
	"sync"

	"github.com/artpar/gitfav/internal/core"
	"github.com/artpar/gitfav/internal/logging"
)

var (
	// ErrSuperseded is returned when a fetch completed after the state it
	// was meant for had been replaced. The result was dropped.
	ErrSuperseded = errors.New("stars: result superseded")

	// ErrNoLogin is returned by Refresh before any login was opened.
	ErrNoLogin = errors.New("stars: no login open")
)

// Fetcher returns one page of starred repositories. An empty page means
// there is nothing more to load.
type Fetcher interface {
	FetchStarredRepositories(ctx context.Context, login string, page int) ([]core.StarredRepository, error)
}

// State is a snapshot of the pagination state.
type State struct {
	Login       string
	CurrentPage int
	Items       []core.StarredRepository
	Exhausted   bool
	Loading     bool
	LoadingMore bool
	Refreshing  bool

	// Loaded is set once page 1 has been fetched for this login.
	Loaded bool

	// Generation identifies the session the snapshot belongs to.
	Generation uint64

	// Err is the failure of the most recent fetch, cleared by the next
	// successful one.
	Err error
}

// Busy reports whether any fetch is in flight.
func (s State) Busy() bool {
	return s.Loading || s.LoadingMore || s.Refreshing
}

// Controller is the pagination state machine for one profile view.
type Controller struct {
	mu      sync.Mutex
	fetcher Fetcher
	gen     uint64
	state   State
}

// NewController creates an idle controller.
func NewController(fetcher Fetcher) *Controller {
	return &Controller{fetcher: fetcher}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Open discards any previous state and loads page 1 for login.
func (c *Controller) Open(ctx context.Context, login string) error {
	c.mu.Lock()
	gen := c.next()
	c.state = State{
		Login:       login,
		CurrentPage: 1,
		Loading:     true,
		Generation:  gen,
	}
	c.mu.Unlock()

	log := logging.FromContext(ctx).With().Str("login", login).Uint64("generation", gen).Logger()
	log.Debug().Msg("loading starred repositories")

	items, err := c.fetcher.FetchStarredRepositories(ctx, login, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		log.Debug().Msg("initial load superseded")
		return ErrSuperseded
	}

	c.state.Loading = false
	if err != nil {
		c.state.Err = err
		return err
	}

	c.state.Items = items
	c.state.CurrentPage = 1
	c.state.Exhausted = false
	c.state.Loaded = true
	c.state.Err = nil
	return nil
}

// LoadMore appends the next page. It does nothing once the list is
// exhausted, before page 1 has loaded, or while another fetch is in flight.
// An empty page marks the list exhausted and leaves items and page as they
// were.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.Loaded || c.state.Exhausted || c.state.Busy() {
		c.mu.Unlock()
		return nil
	}
	c.state.LoadingMore = true
	gen := c.gen
	login := c.state.Login
	page := c.state.CurrentPage + 1
	c.mu.Unlock()

	log := logging.FromContext(ctx).With().Str("login", login).Int("page", page).Logger()

	items, err := c.fetcher.FetchStarredRepositories(ctx, login, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		log.Debug().Msg("load more superseded")
		return ErrSuperseded
	}

	c.state.LoadingMore = false
	if err != nil {
		c.state.Err = err
		return err
	}
	c.state.Err = nil

	if len(items) == 0 {
		log.Debug().Msg("starred repositories exhausted")
		c.state.Exhausted = true
		return nil
	}

	merged := make([]core.StarredRepository, 0, len(c.state.Items)+len(items))
	merged = append(merged, c.state.Items...)
	merged = append(merged, items...)
	c.state.Items = merged
	c.state.CurrentPage = page
	return nil
}

// Refresh reloads page 1, replacing the items and clearing the exhausted
// flag. It supersedes any fetch already in flight. On failure the previous
// items, page and exhausted flag are kept.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Login == "" {
		c.mu.Unlock()
		return ErrNoLogin
	}
	gen := c.next()
	c.state.Generation = gen
	c.state.Refreshing = true
	c.state.Loading = false
	c.state.LoadingMore = false
	login := c.state.Login
	c.mu.Unlock()

	log := logging.FromContext(ctx).With().Str("login", login).Uint64("generation", gen).Logger()
	log.Debug().Msg("refreshing starred repositories")

	items, err := c.fetcher.FetchStarredRepositories(ctx, login, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		log.Debug().Msg("refresh superseded")
		return ErrSuperseded
	}

	c.state.Refreshing = false
	if err != nil {
		c.state.Err = err
		return err
	}

	c.state.Items = items
	c.state.CurrentPage = 1
	c.state.Exhausted = false
	c.state.Loaded = true
	c.state.Err = nil
	return nil
}

// Close ends the session. Fetches still in flight are dropped when they
// complete.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.next()
	c.state = State{Generation: gen}
}

// next starts a new generation. Callers hold mu.
func (c *Controller) next() uint64 {
	c.gen++
	return c.gen
}

func (c *Controller) snapshot() State {
	s := c.state
	s.Items = make([]core.StarredRepository, len(c.state.Items))
	copy(s.Items, c.state.Items)
	return s
}
