package catalog

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// View is the render-ready projection of a State.
type View struct {
	Items          []Product
	VisibleCount   int
	FavoritesCount int
	Page           int
	PerPage        int
	LastPage       int
	PagingTotal    int
	Status         Status
	Error          string
}

// Filter returns the visible products in collection order, before paging:
// soft-deleted items are dropped, favorites-only keeps liked items and a
// non-blank query keeps items whose title or description contains it,
// ignoring case.
func Filter(s State) []Product {
	needle := foldQuery(s.Query)
	caser := cases.Fold()

	out := make([]Product, 0, len(s.IDs))
	for _, id := range s.IDs {
		p, ok := s.Entities[id]
		if !ok || s.Deleted[id] {
			continue
		}
		if s.FavoritesOnly && !s.Liked[id] {
			continue
		}
		if needle != "" &&
			!strings.Contains(caser.String(p.Title), needle) &&
			!strings.Contains(caser.String(p.Description), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Window returns the page-th slice of perPage items. Pages past the end
// yield an empty window.
func Window(list []Product, page, perPage int) []Product {
	if perPage <= 0 {
		return nil
	}
	start := (max(page, 1) - 1) * perPage
	if start >= len(list) {
		return nil
	}
	end := min(start+perPage, len(list))
	return list[start:end:end]
}

// Arrange assigns each product in list its slot in the paged listing and
// returns the listing size. With a query or the favorites filter active,
// or before any page load recorded an offset, slots follow list order.
// Otherwise products sit at their remote offset and locally created ones
// follow the remote collection in list order; products fetched on their
// own get slot -1 until a page load places them.
func Arrange(s State, list []Product) (slots []int, size int) {
	slots = make([]int, len(list))
	if !positional(s) {
		for i := range slots {
			slots[i] = i
		}
		return slots, len(list)
	}

	next := max(s.Total-len(s.CreatedLocal), 0)
	for _, off := range s.Offsets {
		next = max(next, off+1)
	}
	for i, p := range list {
		if off, ok := s.Offsets[p.ID]; ok {
			slots[i] = off
			continue
		}
		if _, local := s.CreatedLocal[p.ID]; local {
			slots[i] = next
			next++
			continue
		}
		slots[i] = -1
	}
	return slots, next
}

// SlotWindow returns the products whose slot falls on page, in slot order.
func SlotWindow(list []Product, slots []int, page, perPage int) []Product {
	if perPage <= 0 {
		return nil
	}
	lo := (max(page, 1) - 1) * perPage
	hi := lo + perPage

	type placed struct {
		slot int
		p    Product
	}
	var hits []placed
	for i, slot := range slots {
		if slot >= lo && slot < hi {
			hits = append(hits, placed{slot: slot, p: list[i]})
		}
	}
	slices.SortFunc(hits, func(a, b placed) int { return a.slot - b.slot })

	out := make([]Product, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.p)
	}
	return out
}

// FavoritesCount counts liked entities whether or not they are visible.
func FavoritesCount(s State) int {
	n := 0
	for id, liked := range s.Liked {
		if _, ok := s.Entities[id]; ok && liked {
			n++
		}
	}
	return n
}

// PagingTotal is the item count the page count is derived from. With a
// query or favorites filter active only the matching local items count,
// otherwise the larger of the remote total and the arranged listing size.
func PagingTotal(s State, size int) int {
	if filtering(s) {
		return size
	}
	return max(s.Total, size)
}

// LastPage returns the number of pages needed for total items, at least 1.
func LastPage(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

func filtering(s State) bool {
	return s.FavoritesOnly || strings.TrimSpace(s.Query) != ""
}

// positional reports whether pages map onto remote offsets.
func positional(s State) bool {
	return !filtering(s) && len(s.Offsets) > 0
}

func foldQuery(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}
	return cases.Fold().String(q)
}

type filterKey struct {
	entities      uint64
	deleted       uint64
	liked         uint64
	favoritesOnly bool
	query         string
}

type arrangeKey struct {
	filter filterKey
	total  int
}

type pageKey struct {
	arrange arrangeKey
	page    int
	perPage int
}

// Projector memoizes View computation for one store. Unchanged inputs
// return the identical cached slices.
type Projector struct {
	mu sync.Mutex

	haveFilter bool
	filterKey  filterKey
	filtered   []Product

	haveArrange bool
	arrangeKey  arrangeKey
	slots       []int
	size        int

	havePage bool
	pageKey  pageKey
	window   []Product

	haveFavs bool
	favsKey  [2]uint64
	favs     int
}

// NewProjector returns a projector with an empty cache.
func NewProjector() *Projector {
	return &Projector{}
}

// Project derives the view for s. The page is clamped to the last page for
// rendering; callers should feed View.LastPage back into Store.ClampPage.
func (p *Projector) Project(s State) View {
	p.mu.Lock()
	defer p.mu.Unlock()

	fk := filterKey{
		entities:      s.Rev.Entities,
		deleted:       s.Rev.Deleted,
		favoritesOnly: s.FavoritesOnly,
		query:         foldQuery(s.Query),
	}
	// Liked only affects filtering when favorites-only is on.
	if s.FavoritesOnly {
		fk.liked = s.Rev.Liked
	}
	if !p.haveFilter || p.filterKey != fk {
		p.filtered = Filter(s)
		p.filterKey = fk
		p.haveFilter = true
	}

	ak := arrangeKey{filter: fk, total: s.Total}
	if !p.haveArrange || p.arrangeKey != ak {
		p.slots, p.size = Arrange(s, p.filtered)
		p.arrangeKey = ak
		p.haveArrange = true
	}

	visible := len(p.filtered)
	pagingTotal := PagingTotal(s, p.size)
	last := LastPage(pagingTotal, s.PerPage)
	page := min(max(s.Page, 1), last)

	pk := pageKey{arrange: ak, page: page, perPage: s.PerPage}
	if !p.havePage || p.pageKey != pk {
		if positional(s) {
			p.window = SlotWindow(p.filtered, p.slots, page, s.PerPage)
		} else {
			p.window = Window(p.filtered, page, s.PerPage)
		}
		p.pageKey = pk
		p.havePage = true
	}

	favKey := [2]uint64{s.Rev.Entities, s.Rev.Liked}
	if !p.haveFavs || p.favsKey != favKey {
		p.favs = FavoritesCount(s)
		p.favsKey = favKey
		p.haveFavs = true
	}

	return View{
		Items:          p.window,
		VisibleCount:   visible,
		FavoritesCount: p.favs,
		Page:           page,
		PerPage:        s.PerPage,
		LastPage:       last,
		PagingTotal:    pagingTotal,
		Status:         s.Status,
		Error:          s.Error,
	}
}

// Reset drops every cached result.
func (p *Projector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.haveFilter, p.haveArrange, p.havePage, p.haveFavs = false, false, false, false
	p.filtered, p.window = nil, nil
}
