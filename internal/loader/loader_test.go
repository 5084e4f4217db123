package loader

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/dummyjson"
)

type listResult struct {
	page dummyjson.ProductPage
	err  error
}

// fakeRemote answers each ListProducts call from its own channel so tests
// control completion order.
type fakeRemote struct {
	mu       sync.Mutex
	lists    []chan listResult
	started  chan struct{}
	getCalls atomic.Int32
	get      func(ctx context.Context, id string) (dummyjson.Product, error)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{started: make(chan struct{}, 16)}
}

func (f *fakeRemote) ListProducts(ctx context.Context, limit, skip int) (dummyjson.ProductPage, error) {
	ch := make(chan listResult, 1)
	f.mu.Lock()
	f.lists = append(f.lists, ch)
	f.mu.Unlock()
	f.started <- struct{}{}
	res := <-ch
	return res.page, res.err
}

func (f *fakeRemote) GetProduct(ctx context.Context, id string) (dummyjson.Product, error) {
	f.getCalls.Add(1)
	if f.get == nil {
		return dummyjson.Product{}, errors.Wrap(dummyjson.ErrNotFound, "product "+id)
	}
	return f.get(ctx, id)
}

func (f *fakeRemote) respond(i int, res listResult) {
	f.mu.Lock()
	ch := f.lists[i]
	f.mu.Unlock()
	ch <- res
}

func (f *fakeRemote) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(2 * time.Second):
		t.Fatal("remote call never started")
	}
}

func page(total int, ids ...int64) dummyjson.ProductPage {
	p := dummyjson.ProductPage{Total: total}
	for _, id := range ids {
		p.Products = append(p.Products, dummyjson.Product{ID: id, Title: "p"})
	}
	return p
}

func TestLoadProductsSuccess(t *testing.T) {
	store := catalog.NewStore()
	store.SetPerPage(6)
	store.SetPage(2)
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())

	done := make(chan struct{})
	go func() {
		l.LoadProducts(context.Background())
		close(done)
	}()
	remote.waitStarted(t)
	assert.Equal(t, catalog.StatusLoading, store.Snapshot().Status)

	remote.respond(0, listResult{page: page(194, 7, 8)})
	<-done

	snap := store.Snapshot()
	assert.Equal(t, catalog.StatusSucceeded, snap.Status)
	assert.Empty(t, snap.Error)
	assert.Equal(t, 194, snap.Total)
	assert.Equal(t, []catalog.ID{"7", "8"}, snap.IDs)
}

func TestLoadProductsLastIssuedWins(t *testing.T) {
	store := catalog.NewStore()
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())

	doneA := make(chan struct{})
	go func() {
		l.LoadProducts(context.Background())
		close(doneA)
	}()
	remote.waitStarted(t)

	doneB := make(chan struct{})
	go func() {
		l.LoadProducts(context.Background())
		close(doneB)
	}()
	remote.waitStarted(t)

	// B (issued last) finishes first, then the slow A arrives.
	remote.respond(1, listResult{page: page(20, 1, 2)})
	<-doneB
	remote.respond(0, listResult{page: page(15, 3)})
	<-doneA

	snap := store.Snapshot()
	assert.Equal(t, 20, snap.Total)
	assert.Equal(t, []catalog.ID{"1", "2"}, snap.IDs)
	assert.Equal(t, catalog.StatusSucceeded, snap.Status)
}

func TestLoadProductsSupersededFailureIsSwallowed(t *testing.T) {
	store := catalog.NewStore()
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())

	doneA := make(chan struct{})
	go func() {
		l.LoadProducts(context.Background())
		close(doneA)
	}()
	remote.waitStarted(t)

	doneB := make(chan struct{})
	go func() {
		l.LoadProducts(context.Background())
		close(doneB)
	}()
	remote.waitStarted(t)

	remote.respond(0, listResult{err: errors.Wrap(dummyjson.ErrCancelled, "context canceled")})
	<-doneA
	assert.Equal(t, catalog.StatusLoading, store.Snapshot().Status)

	remote.respond(1, listResult{page: page(3, 1)})
	<-doneB
	assert.Equal(t, catalog.StatusSucceeded, store.Snapshot().Status)
}

func TestLoadProductsCancelledCurrentRequestWritesNothing(t *testing.T) {
	store := catalog.NewStore()
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())

	done := make(chan struct{})
	go func() {
		l.LoadProducts(context.Background())
		close(done)
	}()
	remote.waitStarted(t)
	remote.respond(0, listResult{err: errors.Wrap(dummyjson.ErrCancelled, "context canceled")})
	<-done

	snap := store.Snapshot()
	assert.Equal(t, catalog.StatusLoading, snap.Status)
	assert.Empty(t, snap.Error)
}

func TestLoadProductsFailureRecordsError(t *testing.T) {
	store := catalog.NewStore()
	store.UpsertOne(catalog.Product{ID: "1", Title: "Chair"})
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())

	done := make(chan struct{})
	go func() {
		l.LoadProducts(context.Background())
		close(done)
	}()
	remote.waitStarted(t)
	remote.respond(0, listResult{err: &dummyjson.StatusError{Path: "/products", Code: 500}})
	<-done

	snap := store.Snapshot()
	assert.Equal(t, catalog.StatusFailed, snap.Status)
	assert.Contains(t, snap.Error, "status 500")
	assert.Equal(t, []catalog.ID{"1"}, snap.IDs, "failure keeps previous data")
}

func TestLoadProductsKeepsLocalOverlays(t *testing.T) {
	store := catalog.NewStore()
	store.UpsertOne(catalog.Product{ID: "1", Title: "Chair"})
	title := "My chair"
	store.UpdateLocal("1", catalog.Patch{Title: &title})
	store.ToggleLiked("1")
	store.CreateLocal(catalog.Draft{Title: "Lamp", Description: "Brass desk lamp"})
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())

	done := make(chan struct{})
	go func() {
		l.LoadProducts(context.Background())
		close(done)
	}()
	remote.waitStarted(t)
	remote.respond(0, listResult{page: page(30, 1, 2)})
	<-done

	snap := store.Snapshot()
	assert.Equal(t, "My chair", snap.Entities["1"].Title)
	assert.True(t, snap.Liked["1"])
	assert.Equal(t, 31, snap.Total)
}

func TestLoadProductsIsIdempotent(t *testing.T) {
	store := catalog.NewStore()
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())

	for i := range 2 {
		done := make(chan struct{})
		go func() {
			l.LoadProducts(context.Background())
			close(done)
		}()
		remote.waitStarted(t)
		remote.respond(i, listResult{page: page(2, 1, 2)})
		<-done
	}

	snap := store.Snapshot()
	assert.Equal(t, []catalog.ID{"1", "2"}, snap.IDs)
	assert.Equal(t, 2, snap.Total)
}

func TestLoadProductByIDSkipsKnownProducts(t *testing.T) {
	store := catalog.NewStore()
	store.UpsertOne(catalog.Product{ID: "5", Title: "Known"})
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())

	l.LoadProductByID(context.Background(), "5")

	assert.Zero(t, remote.getCalls.Load())
	assert.Equal(t, catalog.StatusIdle, store.Snapshot().Status)
}

func TestLoadProductByIDFetchesUnknownProducts(t *testing.T) {
	store := catalog.NewStore()
	remote := newFakeRemote()
	rating := 4.2
	remote.get = func(_ context.Context, id string) (dummyjson.Product, error) {
		return dummyjson.Product{ID: 9, Title: "Remote", Rating: &rating}, nil
	}
	l := New(store, remote, zap.NewNop())

	l.LoadProductByID(context.Background(), "9")

	assert.Equal(t, int32(1), remote.getCalls.Load())
	got, ok := store.Get("9")
	require.True(t, ok)
	assert.Equal(t, "Remote", got.Title)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 4.2, *got.Rating, 0.0001)
	assert.Equal(t, catalog.StatusSucceeded, store.Snapshot().Status)
}

func TestLoadProductByIDNotFound(t *testing.T) {
	store := catalog.NewStore()
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())

	l.LoadProductByID(context.Background(), "404")

	snap := store.Snapshot()
	assert.Equal(t, catalog.StatusFailed, snap.Status)
	assert.Contains(t, snap.Error, "not found")
	assert.False(t, store.Has("404"))
}

func TestLoadProductByIDStaleResultDiscarded(t *testing.T) {
	store := catalog.NewStore()
	remote := newFakeRemote()
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	remote.get = func(ctx context.Context, id string) (dummyjson.Product, error) {
		if id == "1" {
			entered <- struct{}{}
			<-release
			return dummyjson.Product{ID: 1, Title: "Slow"}, nil
		}
		return dummyjson.Product{ID: 2, Title: "Fast"}, nil
	}
	l := New(store, remote, zap.NewNop())

	done := make(chan struct{})
	go func() {
		l.LoadProductByID(context.Background(), "1")
		close(done)
	}()
	<-entered

	l.LoadProductByID(context.Background(), "2")
	close(release)
	<-done

	assert.True(t, store.Has("2"))
	assert.False(t, store.Has("1"))
}

func TestCancelDiscardsInFlightResults(t *testing.T) {
	store := catalog.NewStore()
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())

	done := make(chan struct{})
	go func() {
		l.LoadProducts(context.Background())
		close(done)
	}()
	remote.waitStarted(t)

	l.Cancel()
	assert.Equal(t, catalog.StatusIdle, store.Snapshot().Status, "a cancelled load does not stay loading")
	remote.respond(0, listResult{page: page(5, 1)})
	<-done

	assert.Empty(t, store.Snapshot().IDs)
	assert.Equal(t, catalog.StatusIdle, store.Snapshot().Status)
}

func TestCancelWithNothingInFlightKeepsStatus(t *testing.T) {
	store := catalog.NewStore()
	store.SetStatus(catalog.StatusSucceeded)
	l := New(store, newFakeRemote(), zap.NewNop())

	l.Cancel()

	assert.Equal(t, catalog.StatusSucceeded, store.Snapshot().Status)
}

func pageRange(total int, first int64, n int) dummyjson.ProductPage {
	ids := make([]int64, 0, n)
	for i := range int64(n) {
		ids = append(ids, first+i)
	}
	return page(total, ids...)
}

func TestSupersededPageLeavesLaterPageIntact(t *testing.T) {
	store := catalog.NewStore()
	remote := newFakeRemote()
	l := New(store, remote, zap.NewNop())
	load := func() chan struct{} {
		done := make(chan struct{})
		go func() {
			l.LoadProducts(context.Background())
			close(done)
		}()
		remote.waitStarted(t)
		return done
	}

	done := load()
	remote.respond(0, listResult{page: pageRange(100, 1, 12)})
	<-done

	// Page 2 is still in flight when the user moves on to page 3.
	store.SetPage(2)
	doneA := load()
	store.SetPage(3)
	doneB := load()
	remote.respond(2, listResult{page: pageRange(100, 25, 12)})
	<-doneB
	remote.respond(1, listResult{page: pageRange(100, 13, 12)})
	<-doneA

	p := catalog.NewProjector()
	view := p.Project(store.Snapshot())
	assert.Equal(t, catalog.StatusSucceeded, view.Status)
	assert.Equal(t, 3, view.Page)
	assert.Equal(t, 9, view.LastPage)
	require.Len(t, view.Items, 12)
	assert.Equal(t, catalog.ID("25"), view.Items[0].ID)
	assert.Equal(t, catalog.ID("36"), view.Items[11].ID)

	store.SetPage(2)
	view = p.Project(store.Snapshot())
	assert.Empty(t, view.Items, "page 2 was never stored and shows nothing until fetched")

	done = load()
	remote.respond(3, listResult{page: pageRange(100, 13, 12)})
	<-done
	view = p.Project(store.Snapshot())
	require.Len(t, view.Items, 12)
	assert.Equal(t, catalog.ID("13"), view.Items[0].ID)
}

func TestFromRemote(t *testing.T) {
	price := 12.5
	p := FromRemote(dummyjson.Product{ID: 42, Title: "Mug", Description: "Big mug", Price: &price, Thumbnail: "https://x/y.png"})

	assert.Equal(t, catalog.ID("42"), p.ID)
	assert.Equal(t, "Mug", p.Title)
	require.True(t, p.HasPrice())
	assert.Equal(t, "12.5", p.Price.Decimal.String())
	assert.Nil(t, p.Rating)

	assert.False(t, FromRemote(dummyjson.Product{ID: 1}).HasPrice())
}
