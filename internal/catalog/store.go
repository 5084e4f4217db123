package catalog

import (
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Status reflects the most recent fetch operation.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// DefaultPerPage is the page size used until the user picks another one.
const DefaultPerPage = 12

// PerPageOptions lists the allowed page sizes in ascending order.
var PerPageOptions = []int{6, 12, 24}

// Revisions count changes per input group. A projection keyed on these
// values only needs recomputing when one of them moves.
type Revisions struct {
	Entities uint64
	Liked    uint64
	Deleted  uint64
	// Overlay moves whenever a persisted field changes.
	Overlay uint64
}

// State is a point-in-time copy of the store.
type State struct {
	Entities     map[ID]Product
	IDs          []ID
	Liked        map[ID]bool
	Deleted      map[ID]bool
	CreatedLocal map[ID]Product
	EditedLocal  map[ID]Patch
	// Offsets holds the remote listing position of products that arrived
	// through UpsertPage.
	Offsets map[ID]int

	Query         string
	FavoritesOnly bool
	Page          int
	PerPage       int
	Total         int

	Status Status
	Error  string

	Rev Revisions
}

// Overlay is the persisted subset of the store: client-local annotations
// plus filter preferences.
type Overlay struct {
	Liked         map[ID]bool  `json:"liked,omitempty"`
	Deleted       map[ID]bool  `json:"deleted,omitempty"`
	Created       []Product    `json:"created,omitempty"`
	Edited        map[ID]Patch `json:"edited,omitempty"`
	Query         string       `json:"query,omitempty"`
	FavoritesOnly bool         `json:"favoritesOnly,omitempty"`
	PerPage       int          `json:"perPage,omitempty"`
}

// Store owns the catalog state. Reducer methods are the only way to change
// it; each one is atomic and never fails.
type Store struct {
	mu           sync.RWMutex
	state        State
	createdOrder []ID
	newID        func() ID
}

// NewStore returns an empty store on page 1 with the default page size.
func NewStore() *Store {
	return &Store{
		state: State{
			Entities:     make(map[ID]Product),
			Liked:        make(map[ID]bool),
			Deleted:      make(map[ID]bool),
			CreatedLocal: make(map[ID]Product),
			EditedLocal:  make(map[ID]Patch),
			Offsets:      make(map[ID]int),
			Page:         1,
			PerPage:      DefaultPerPage,
			Status:       StatusIdle,
		},
		newID: func() ID { return ID(uuid.NewString()) },
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Entities = maps.Clone(s.state.Entities)
	snap.IDs = slices.Clone(s.state.IDs)
	snap.Liked = maps.Clone(s.state.Liked)
	snap.Deleted = maps.Clone(s.state.Deleted)
	snap.CreatedLocal = maps.Clone(s.state.CreatedLocal)
	snap.EditedLocal = maps.Clone(s.state.EditedLocal)
	snap.Offsets = maps.Clone(s.state.Offsets)
	return snap
}

// Has reports whether id is a known entity.
func (s *Store) Has(id ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.state.Entities[id]
	return ok
}

// Get returns the entity stored under id.
func (s *Store) Get(id ID) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.Entities[id]
	return p, ok
}

// Revisions returns the current change counters without copying state.
func (s *Store) Revisions() Revisions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Rev
}

// UpsertMany merges products into the collection. Known ids are shallow
// merged, new ids are appended in arrival order. Overlays are untouched.
func (s *Store) UpsertMany(products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(products...)
}

// UpsertOne is the single-item form of UpsertMany.
func (s *Store) UpsertOne(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(p)
}

// UpsertPage merges one remote page starting at offset skip and records
// where each product sits in the remote listing. The page is authoritative
// for its positions: products previously seen there lose their offset.
func (s *Store) UpsertPage(skip int, products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	skip = max(skip, 0)
	rev := s.state.Rev.Entities
	s.upsertLocked(products...)

	page := make(map[ID]int, len(products))
	for i, p := range products {
		if p.ID != "" {
			page[p.ID] = skip + i
		}
	}
	end := skip + len(products)
	moved := false
	for id, off := range s.state.Offsets {
		if _, ok := page[id]; !ok && off >= skip && off < end {
			delete(s.state.Offsets, id)
			moved = true
		}
	}
	for id, off := range page {
		if cur, ok := s.state.Offsets[id]; !ok || cur != off {
			s.state.Offsets[id] = off
			moved = true
		}
	}
	if moved && s.state.Rev.Entities == rev {
		s.state.Rev.Entities++
	}
}

func (s *Store) upsertLocked(products ...Product) {
	changed := false
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		existing, ok := s.state.Entities[p.ID]
		if !ok {
			s.state.Entities[p.ID] = p
			s.state.IDs = append(s.state.IDs, p.ID)
			changed = true
			continue
		}
		merged := mergeProduct(existing, p)
		if !sameProduct(existing, merged) {
			s.state.Entities[p.ID] = merged
			changed = true
		}
	}
	if changed {
		s.state.Rev.Entities++
	}
}

// CreateLocal stores a new product under a fresh unique id, records it as
// locally created and increments the total.
func (s *Store) CreateLocal(d Draft) Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for {
		if _, taken := s.state.Entities[id]; !taken {
			break
		}
		id = s.newID()
	}
	p := d.Product(id)
	s.state.Entities[id] = p
	s.state.IDs = append(s.state.IDs, id)
	s.state.CreatedLocal[id] = p
	s.createdOrder = append(s.createdOrder, id)
	s.state.Total++
	s.state.Rev.Entities++
	s.state.Rev.Overlay++
	return p
}

// UpdateLocal merges patch into the entity and records it as locally
// edited. Unknown ids are ignored.
func (s *Store) UpdateLocal(id ID, patch Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.state.Entities[id]
	if !ok {
		return
	}
	s.state.Entities[id] = patch.Apply(existing)
	s.state.EditedLocal[id] = s.state.EditedLocal[id].Merge(patch)
	s.state.Rev.Entities++
	s.state.Rev.Overlay++
}

// ToggleLiked flips the liked flag for id.
func (s *Store) ToggleLiked(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Liked[id] {
		delete(s.state.Liked, id)
	} else {
		s.state.Liked[id] = true
	}
	s.state.Rev.Liked++
	s.state.Rev.Overlay++
}

// SoftDelete hides id from every view. Repeated calls change nothing.
func (s *Store) SoftDelete(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Deleted[id] {
		return
	}
	s.state.Deleted[id] = true
	s.state.Rev.Deleted++
	s.state.Rev.Overlay++
}

// SetQuery updates the search text and returns to page 1.
func (s *Store) SetQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Query = text
	s.state.Page = 1
	s.state.Rev.Overlay++
}

// SetFavoritesOnly toggles the favorites filter and returns to page 1.
func (s *Store) SetFavoritesOnly(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.FavoritesOnly = on
	s.state.Page = 1
	s.state.Rev.Overlay++
}

// SetPage moves to page n; values below 1 select page 1.
func (s *Store) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Page = max(n, 1)
}

// SetPerPage changes the page size and returns to page 1. Sizes outside
// PerPageOptions snap to the closest allowed value.
func (s *Store) SetPerPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.PerPage = NormalizePerPage(n)
	s.state.Page = 1
	s.state.Rev.Overlay++
}

// ClampPage lowers the current page to last when it points past the end.
func (s *Store) ClampPage(last int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last = max(last, 1)
	if s.state.Page > last {
		s.state.Page = last
	}
}

// SetStatus records the state of the latest fetch.
func (s *Store) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = status
}

// SetError records the latest error message; empty clears it.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = msg
}

// SetTotal records the remote total count.
func (s *Store) SetTotal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Total = max(n, 0)
}

// BeginLoad marks a fetch as in flight and clears the previous error.
func (s *Store) BeginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = StatusLoading
	s.state.Error = ""
}

// Overlay returns a copy of the persisted fields.
func (s *Store) Overlay() Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()

	created := make([]Product, 0, len(s.createdOrder))
	for _, id := range s.createdOrder {
		if p, ok := s.state.CreatedLocal[id]; ok {
			created = append(created, p)
		}
	}
	return Overlay{
		Liked:         maps.Clone(s.state.Liked),
		Deleted:       maps.Clone(s.state.Deleted),
		Created:       created,
		Edited:        maps.Clone(s.state.EditedLocal),
		Query:         s.state.Query,
		FavoritesOnly: s.state.FavoritesOnly,
		PerPage:       s.state.PerPage,
	}
}

// Hydrate restores a persisted overlay. Locally created products are put
// back into the collection with their edits applied.
func (s *Store) Hydrate(o Overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, liked := range o.Liked {
		if liked {
			s.state.Liked[id] = true
		}
	}
	for id, deleted := range o.Deleted {
		if deleted {
			s.state.Deleted[id] = true
		}
	}
	for id, patch := range o.Edited {
		s.state.EditedLocal[id] = s.state.EditedLocal[id].Merge(patch)
	}
	for _, p := range o.Created {
		if p.ID == "" {
			continue
		}
		if _, dup := s.state.CreatedLocal[p.ID]; dup {
			continue
		}
		s.state.CreatedLocal[p.ID] = p
		s.createdOrder = append(s.createdOrder, p.ID)
		if _, ok := s.state.Entities[p.ID]; !ok {
			s.state.Entities[p.ID] = s.state.EditedLocal[p.ID].Apply(p)
			s.state.IDs = append(s.state.IDs, p.ID)
			s.state.Total++
		}
	}

	s.state.Query = o.Query
	s.state.FavoritesOnly = o.FavoritesOnly
	if o.PerPage > 0 {
		s.state.PerPage = NormalizePerPage(o.PerPage)
	}
	s.state.Page = 1
	s.state.Rev.Entities++
	s.state.Rev.Liked++
	s.state.Rev.Deleted++
}

// NormalizePerPage snaps n to the closest allowed page size.
func NormalizePerPage(n int) int {
	best := PerPageOptions[0]
	for _, opt := range PerPageOptions {
		if abs(opt-n) < abs(best-n) {
			best = opt
		}
	}
	return best
}

// NextPerPage returns the page size following current, wrapping around.
func NextPerPage(current int) int {
	idx := slices.Index(PerPageOptions, NormalizePerPage(current))
	return PerPageOptions[(idx+1)%len(PerPageOptions)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// mergeProduct overlays the fields present in next onto base.
func mergeProduct(base, next Product) Product {
	if next.Title != "" {
		base.Title = next.Title
	}
	if next.Description != "" {
		base.Description = next.Description
	}
	if next.Price.Valid {
		base.Price = next.Price
	}
	if next.Rating != nil {
		r := *next.Rating
		base.Rating = &r
	}
	if next.Thumbnail != "" {
		base.Thumbnail = next.Thumbnail
	}
	return base
}

func sameProduct(a, b Product) bool {
	if a.ID != b.ID || a.Title != b.Title || a.Description != b.Description || a.Thumbnail != b.Thumbnail {
		return false
	}
	if a.Price.Valid != b.Price.Valid || (a.Price.Valid && !a.Price.Decimal.Equal(b.Price.Decimal)) {
		return false
	}
	if (a.Rating == nil) != (b.Rating == nil) {
		return false
	}
	return a.Rating == nil || *a.Rating == *b.Rating
}
