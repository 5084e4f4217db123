package loader

import (
	"context"
	"strconv"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/dummyjson"
)

// Loader bridges the catalog store and the remote catalog. Each operation
// kind has at most one current request: issuing a new one cancels the
// previous context and makes its result stale. Results are written to the
// store only while their request is still current.
type Loader struct {
	store  *catalog.Store
	remote dummyjson.Catalog
	lg     *zap.Logger

	mu   sync.Mutex
	list slot
	byID slot
}

// slot tracks the current request of one operation kind.
type slot struct {
	gen    uint64
	cancel context.CancelFunc
}

// New returns a Loader writing into store. A nil logger disables logging.
func New(store *catalog.Store, remote dummyjson.Catalog, lg *zap.Logger) *Loader {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Loader{store: store, remote: remote, lg: lg}
}

// LoadProducts fetches the store's current page. Outcomes are recorded in
// the store's status and error fields; nothing is returned.
func (l *Loader) LoadProducts(ctx context.Context) {
	l.mu.Lock()
	snap := l.store.Snapshot()
	ctx, gen := l.list.begin(ctx)
	l.store.BeginLoad()
	l.mu.Unlock()

	limit := snap.PerPage
	skip := (snap.Page - 1) * snap.PerPage
	lg := l.lg.With(zap.Uint64("gen", gen), zap.Int("limit", limit), zap.Int("skip", skip))
	lg.Debug("Loading products")

	page, err := l.remote.ListProducts(ctx, limit, skip)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.list.current(gen) {
		lg.Debug("Discarding superseded product page")
		return
	}
	l.list.done()
	if err != nil {
		l.fail(lg, err)
		return
	}

	overlay := l.store.Overlay()
	products := make([]catalog.Product, 0, len(page.Products))
	for _, rp := range page.Products {
		p := FromRemote(rp)
		products = append(products, overlay.Edited[p.ID].Apply(p))
	}
	l.store.UpsertPage(skip, products)
	l.store.SetTotal(page.Total + len(overlay.Created))
	l.store.SetStatus(catalog.StatusSucceeded)
	l.store.SetError("")
	lg.Debug("Loaded products", zap.Int("count", len(products)), zap.Int("total", page.Total))
}

// LoadProductByID fetches a single product unless the store already has it.
func (l *Loader) LoadProductByID(ctx context.Context, id catalog.ID) {
	if l.store.Has(id) {
		return
	}

	l.mu.Lock()
	ctx, gen := l.byID.begin(ctx)
	l.store.BeginLoad()
	l.mu.Unlock()

	lg := l.lg.With(zap.Uint64("gen", gen), zap.String("id", string(id)))
	lg.Debug("Loading product")

	rp, err := l.remote.GetProduct(ctx, string(id))

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.byID.current(gen) {
		lg.Debug("Discarding superseded product")
		return
	}
	l.byID.done()
	if err != nil {
		l.fail(lg, err)
		return
	}

	p := FromRemote(rp)
	p = l.store.Overlay().Edited[p.ID].Apply(p)
	l.store.UpsertOne(p)
	l.store.SetStatus(catalog.StatusSucceeded)
	l.store.SetError("")
	lg.Debug("Loaded product")
}

// Cancel aborts every in-flight request. Their results are discarded and
// a load that was running leaves the store idle.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	list := l.list.abort()
	byID := l.byID.abort()
	if list || byID {
		l.store.SetStatus(catalog.StatusIdle)
	}
}

// fail records a remote failure. Cancellations never reach the store.
func (l *Loader) fail(lg *zap.Logger, err error) {
	if errors.Is(err, dummyjson.ErrCancelled) || errors.Is(err, context.Canceled) {
		lg.Debug("Request cancelled", zap.Error(err))
		return
	}
	lg.Warn("Request failed", zap.Error(err))
	l.store.SetStatus(catalog.StatusFailed)
	l.store.SetError(err.Error())
}

func (s *slot) begin(parent context.Context) (context.Context, uint64) {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.gen++
	s.cancel = cancel
	return ctx, s.gen
}

func (s *slot) current(gen uint64) bool {
	return s.gen == gen
}

// abort makes the current request stale and reports whether one was live.
func (s *slot) abort() bool {
	live := s.cancel != nil
	s.gen++
	s.done()
	return live
}

func (s *slot) done() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// FromRemote maps a DummyJSON product onto the catalog shape.
func FromRemote(rp dummyjson.Product) catalog.Product {
	p := catalog.Product{
		ID:          catalog.ID(strconv.FormatInt(rp.ID, 10)),
		Title:       rp.Title,
		Description: rp.Description,
		Thumbnail:   rp.Thumbnail,
	}
	if rp.Price != nil {
		p.Price = decimal.NewNullDecimal(decimal.NewFromFloat(*rp.Price))
	}
	if rp.Rating != nil {
		r := *rp.Rating
		p.Rating = &r
	}
	return p
}
