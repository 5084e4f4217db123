// Package catalog holds the client-side product collection and the derived
// view the UI renders.
//
// # Overview
//
// The Store keeps normalized products (an id-keyed map plus an ordered id
// list) together with client-local overlays: liked flags, soft-deletions,
// locally created products and locally edited fields. Remote data and
// overlays never mix; a refetch upserts products but leaves every overlay
// untouched.
//
//	Loader (fetch results):        UI (user actions):
//	┌──────────────────┐           ┌──────────────────┐
//	│ UpsertPage()     │           │ ToggleLiked()    │
//	│ SetTotal()       │──────┐    │ SoftDelete()     │
//	│ SetStatus()      │      │    │ CreateLocal()    │
//	└──────────────────┘      ↓    └────────┬─────────┘
//	                     ┌─────────┐        │
//	                     │  Store  │←───────┘
//	                     └────┬────┘
//	                          │ Snapshot()
//	                          ↓
//	                  Projector.Project() → View
//
// # Reducers
//
// Every mutation is a method on Store that takes the write lock, applies
// one change and returns. Reducers never fail: unknown ids are ignored and
// out-of-range values are normalized (SetPage below 1 becomes 1, SetPerPage
// snaps to PerPageOptions).
//
// Changes to the query, the favorites filter or the page size return to
// page 1. SetPage itself never clamps against the last page; the UI feeds
// View.LastPage back through ClampPage after each projection.
//
// # Projection
//
// Filter applies the visibility rules in order: drop soft-deleted items,
// keep only liked items when favorites-only is set, then keep items whose
// title or description contains the trimmed query under Unicode case
// folding.
//
// Paging depends on the filter. With a query or favorites-only active,
// Window slices the filtered list and only matching local items count
// toward the page count. Without a filter, pages map onto the remote
// listing: UpsertPage records each product's remote offset, Arrange places
// products at those offsets and locally created products after the remote
// collection, and SlotWindow picks the products on the current page. Pages
// load in any order without shifting each other. PagingTotal is the
// larger of the remote total and the arranged size, so pages that have not
// been fetched yet remain reachable.
//
// Projector caches each stage keyed on the store's revision counters and
// the filter inputs. Projecting an unchanged state returns the same
// backing slices, so callers can compare by identity to skip work.
//
// # Persistence
//
// Overlay extracts the persisted subset (liked, deleted, created, edited,
// query, favorites-only, page size) and Hydrate restores it at startup.
// Revisions.Overlay moves on every change to that subset and drives
// autosave.
package catalog
