package stars

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/artpar/gitfav/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	login string
	page  int
}

// fakeFetcher serves canned pages per login. Page n is pages[login][n-1];
// pages past the end are empty. A gate blocks a page until it is closed.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string][][]core.StarredRepository
	errs    map[int]error
	gates   map[int]chan struct{}
	started chan int
	calls   []call
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:   make(map[string][][]core.StarredRepository),
		errs:    make(map[int]error),
		gates:   make(map[int]chan struct{}),
		started: make(chan int, 16),
	}
}

func (f *fakeFetcher) set(login string, pages ...[]core.StarredRepository) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[login] = pages
}

// failOnce makes the next fetch of page fail.
func (f *fakeFetcher) failOnce(page int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[page] = err
}

// hold blocks fetches of page until the returned release func is called.
func (f *fakeFetcher) hold(page int) func() {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[page] = gate
	f.mu.Unlock()
	return func() { close(gate) }
}

func (f *fakeFetcher) FetchStarredRepositories(ctx context.Context, login string, page int) ([]core.StarredRepository, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{login: login, page: page})
	gate := f.gates[page]
	delete(f.gates, page)
	f.mu.Unlock()

	f.started <- page
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.errs[page]; ok {
		delete(f.errs, page)
		return nil, err
	}
	pages := f.pages[login]
	if page > len(pages) {
		return []core.StarredRepository{}, nil
	}
	return append([]core.StarredRepository{}, pages[page-1]...), nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeFetcher) waitStarted(t *testing.T, page int) {
	t.Helper()
	select {
	case got := <-f.started:
		require.Equal(t, page, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("fetch of page %d never started", page)
	}
}

func repo(id int64) core.StarredRepository {
	return core.StarredRepository{
		ID:      id,
		Name:    "repo",
		HTMLURL: "https://github.com/owner/repo",
		Owner:   core.Owner{Login: "owner"},
	}
}

func ids(items []core.StarredRepository) []int64 {
	out := make([]int64, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func TestController_Open(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat", []core.StarredRepository{repo(1), repo(2)})
	ctrl := NewController(fetcher)

	require.NoError(t, ctrl.Open(context.Background(), "octocat"))

	state := ctrl.State()
	assert.Equal(t, "octocat", state.Login)
	assert.Equal(t, 1, state.CurrentPage)
	assert.Equal(t, []int64{1, 2}, ids(state.Items))
	assert.True(t, state.Loaded)
	assert.False(t, state.Exhausted)
	assert.False(t, state.Busy())
	assert.NoError(t, state.Err)
	assert.Equal(t, call{"octocat", 1}, fetcher.lastCall())
}

func TestController_LoadingFlagDuringOpen(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat", []core.StarredRepository{repo(1)})
	release := fetcher.hold(1)
	ctrl := NewController(fetcher)

	done := make(chan error, 1)
	go func() { done <- ctrl.Open(context.Background(), "octocat") }()
	fetcher.waitStarted(t, 1)

	state := ctrl.State()
	assert.True(t, state.Loading)
	assert.False(t, state.Loaded)

	release()
	require.NoError(t, <-done)
	assert.False(t, ctrl.State().Loading)
}

func TestController_LoadMoreGrowsMonotonically(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat",
		[]core.StarredRepository{repo(1), repo(2)},
		[]core.StarredRepository{repo(3)},
		[]core.StarredRepository{repo(4), repo(5), repo(6)},
		[]core.StarredRepository{repo(7)},
	)
	ctrl := NewController(fetcher)
	ctx := context.Background()
	require.NoError(t, ctrl.Open(ctx, "octocat"))

	prev := ctrl.State()
	for _, pageLen := range []int{1, 3, 1} {
		require.NoError(t, ctrl.LoadMore(ctx))
		state := ctrl.State()

		assert.Equal(t, prev.CurrentPage+1, state.CurrentPage)
		assert.Len(t, state.Items, len(prev.Items)+pageLen)
		assert.Equal(t, ids(prev.Items), ids(state.Items[:len(prev.Items)]))
		assert.False(t, state.LoadingMore)
		prev = state
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, ids(prev.Items))
}

func TestController_OctocatScenario(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat",
		[]core.StarredRepository{repo(1)},
		[]core.StarredRepository{repo(2)},
	)
	ctrl := NewController(fetcher)
	ctx := context.Background()

	require.NoError(t, ctrl.Open(ctx, "octocat"))
	state := ctrl.State()
	assert.Equal(t, []int64{1}, ids(state.Items))
	assert.Equal(t, 1, state.CurrentPage)
	assert.False(t, state.Exhausted)

	require.NoError(t, ctrl.LoadMore(ctx))
	state = ctrl.State()
	assert.Equal(t, []int64{1, 2}, ids(state.Items))
	assert.Equal(t, 2, state.CurrentPage)
	assert.Equal(t, call{"octocat", 2}, fetcher.lastCall())

	require.NoError(t, ctrl.LoadMore(ctx))
	state = ctrl.State()
	assert.Equal(t, []int64{1, 2}, ids(state.Items))
	assert.Equal(t, 2, state.CurrentPage)
	assert.True(t, state.Exhausted)
	assert.Equal(t, call{"octocat", 3}, fetcher.lastCall())

	calls := fetcher.callCount()
	require.NoError(t, ctrl.LoadMore(ctx))
	require.NoError(t, ctrl.LoadMore(ctx))
	assert.Equal(t, calls, fetcher.callCount(), "exhausted list must not fetch")
	assert.Equal(t, state, ctrl.State())
}

func TestController_RefreshResets(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat",
		[]core.StarredRepository{repo(1)},
		[]core.StarredRepository{repo(2)},
	)
	ctrl := NewController(fetcher)
	ctx := context.Background()

	require.NoError(t, ctrl.Open(ctx, "octocat"))
	require.NoError(t, ctrl.LoadMore(ctx))
	require.NoError(t, ctrl.LoadMore(ctx))
	require.True(t, ctrl.State().Exhausted)

	fetcher.set("octocat",
		[]core.StarredRepository{repo(10), repo(11)},
		[]core.StarredRepository{repo(12)},
	)
	require.NoError(t, ctrl.Refresh(ctx))

	state := ctrl.State()
	assert.Equal(t, 1, state.CurrentPage)
	assert.False(t, state.Exhausted)
	assert.False(t, state.Refreshing)
	assert.Equal(t, []int64{10, 11}, ids(state.Items))

	// pagination resumes after the refresh
	require.NoError(t, ctrl.LoadMore(ctx))
	assert.Equal(t, call{"octocat", 2}, fetcher.lastCall())
	assert.Equal(t, []int64{10, 11, 12}, ids(ctrl.State().Items))
}

func TestController_RefreshBeforeOpen(t *testing.T) {
	ctrl := NewController(newFakeFetcher())
	assert.ErrorIs(t, ctrl.Refresh(context.Background()), ErrNoLogin)
}

func TestController_LoadMoreBeforeOpenIsNoop(t *testing.T) {
	fetcher := newFakeFetcher()
	ctrl := NewController(fetcher)

	require.NoError(t, ctrl.LoadMore(context.Background()))
	assert.Zero(t, fetcher.callCount())
}

func TestController_LoadMoreFailureKeepsState(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat",
		[]core.StarredRepository{repo(1)},
		[]core.StarredRepository{repo(2)},
	)
	ctrl := NewController(fetcher)
	ctx := context.Background()
	require.NoError(t, ctrl.Open(ctx, "octocat"))

	netErr := core.NewNetworkError("GET", "starred", 502, nil)
	fetcher.failOnce(2, netErr)

	err := ctrl.LoadMore(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNetwork)

	state := ctrl.State()
	assert.Equal(t, []int64{1}, ids(state.Items))
	assert.Equal(t, 1, state.CurrentPage)
	assert.False(t, state.Exhausted)
	assert.False(t, state.LoadingMore)
	assert.ErrorIs(t, state.Err, core.ErrNetwork)

	// the same action can be retried
	require.NoError(t, ctrl.LoadMore(ctx))
	state = ctrl.State()
	assert.Equal(t, []int64{1, 2}, ids(state.Items))
	assert.NoError(t, state.Err)
}

func TestController_OpenFailure(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat", []core.StarredRepository{repo(1)})
	fetcher.failOnce(1, errors.New("connection reset"))
	ctrl := NewController(fetcher)
	ctx := context.Background()

	require.Error(t, ctrl.Open(ctx, "octocat"))
	state := ctrl.State()
	assert.False(t, state.Loaded)
	assert.False(t, state.Loading)
	assert.Error(t, state.Err)

	calls := fetcher.callCount()
	require.NoError(t, ctrl.LoadMore(ctx))
	assert.Equal(t, calls, fetcher.callCount(), "load more needs a loaded first page")

	require.NoError(t, ctrl.Refresh(ctx))
	state = ctrl.State()
	assert.True(t, state.Loaded)
	assert.Equal(t, []int64{1}, ids(state.Items))
}

func TestController_RefreshFailureKeepsState(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat",
		[]core.StarredRepository{repo(1)},
		[]core.StarredRepository{repo(2)},
	)
	ctrl := NewController(fetcher)
	ctx := context.Background()
	require.NoError(t, ctrl.Open(ctx, "octocat"))
	require.NoError(t, ctrl.LoadMore(ctx))

	fetcher.failOnce(1, errors.New("timeout"))
	require.Error(t, ctrl.Refresh(ctx))

	state := ctrl.State()
	assert.Equal(t, []int64{1, 2}, ids(state.Items))
	assert.Equal(t, 2, state.CurrentPage)
	assert.False(t, state.Refreshing)
	assert.Error(t, state.Err)
}

func TestController_RefreshWinsOverInFlightLoadMore(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat",
		[]core.StarredRepository{repo(1)},
		[]core.StarredRepository{repo(2)},
	)
	ctrl := NewController(fetcher)
	ctx := context.Background()
	require.NoError(t, ctrl.Open(ctx, "octocat"))
	fetcher.waitStarted(t, 1)

	release := fetcher.hold(2)
	loadMore := make(chan error, 1)
	go func() { loadMore <- ctrl.LoadMore(ctx) }()
	fetcher.waitStarted(t, 2)
	assert.True(t, ctrl.State().LoadingMore)

	// a second load-more while one is in flight does nothing
	calls := fetcher.callCount()
	require.NoError(t, ctrl.LoadMore(ctx))
	assert.Equal(t, calls, fetcher.callCount())

	fetcher.set("octocat",
		[]core.StarredRepository{repo(20), repo(21)},
		[]core.StarredRepository{repo(2)},
	)
	require.NoError(t, ctrl.Refresh(ctx))
	fetcher.waitStarted(t, 1)

	release()
	assert.ErrorIs(t, <-loadMore, ErrSuperseded)

	state := ctrl.State()
	assert.Equal(t, []int64{20, 21}, ids(state.Items))
	assert.Equal(t, 1, state.CurrentPage)
	assert.False(t, state.Exhausted)
	assert.False(t, state.Busy())
}

func TestController_CloseDropsInFlightResult(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat", []core.StarredRepository{repo(1)})
	release := fetcher.hold(1)
	ctrl := NewController(fetcher)

	done := make(chan error, 1)
	go func() { done <- ctrl.Open(context.Background(), "octocat") }()
	fetcher.waitStarted(t, 1)

	ctrl.Close()
	release()

	assert.ErrorIs(t, <-done, ErrSuperseded)
	state := ctrl.State()
	assert.Empty(t, state.Login)
	assert.Empty(t, state.Items)
	assert.False(t, state.Busy())
}

func TestController_LoginChangeDiscardsState(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("alice",
		[]core.StarredRepository{repo(1)},
		[]core.StarredRepository{repo(2)},
	)
	fetcher.set("bob", []core.StarredRepository{repo(100)})
	ctrl := NewController(fetcher)
	ctx := context.Background()

	require.NoError(t, ctrl.Open(ctx, "alice"))
	require.NoError(t, ctrl.LoadMore(ctx))
	require.NoError(t, ctrl.LoadMore(ctx))
	require.True(t, ctrl.State().Exhausted)
	firstGen := ctrl.State().Generation

	require.NoError(t, ctrl.Open(ctx, "bob"))
	state := ctrl.State()
	assert.Equal(t, "bob", state.Login)
	assert.Equal(t, []int64{100}, ids(state.Items))
	assert.Equal(t, 1, state.CurrentPage)
	assert.False(t, state.Exhausted)
	assert.Greater(t, state.Generation, firstGen)

	require.NoError(t, ctrl.LoadMore(ctx))
	assert.Equal(t, call{"bob", 2}, fetcher.lastCall())
}

func TestController_StaleOpenAfterLoginChange(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("alice", []core.StarredRepository{repo(1)})
	fetcher.set("bob", []core.StarredRepository{repo(2)})
	ctrl := NewController(fetcher)
	ctx := context.Background()

	release := fetcher.hold(1)
	first := make(chan error, 1)
	go func() { first <- ctrl.Open(ctx, "alice") }()
	fetcher.waitStarted(t, 1)

	require.NoError(t, ctrl.Open(ctx, "bob"))
	release()

	assert.ErrorIs(t, <-first, ErrSuperseded)
	assert.Equal(t, []int64{2}, ids(ctrl.State().Items))
	assert.Equal(t, "bob", ctrl.State().Login)
}

func TestController_StateIsACopy(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set("octocat", []core.StarredRepository{repo(1)})
	ctrl := NewController(fetcher)
	require.NoError(t, ctrl.Open(context.Background(), "octocat"))

	state := ctrl.State()
	state.Items[0].ID = 999

	assert.Equal(t, int64(1), ctrl.State().Items[0].ID)
}
