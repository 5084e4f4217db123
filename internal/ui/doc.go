// Package ui provides the terminal user interface for shelf.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns no catalog data itself: every
// user action calls a reducer on catalog.Store, then refresh re-projects
// the store through catalog.Projector and keeps the resulting View for
// rendering. Fetches run as tea.Cmds that call loader.Loader and report
// back with a message, after which the model refreshes again.
//
// # Package Structure
//
//   - app.go: Model, message routing, key handling and Run
//   - catalog.go: product list and preview panes
//   - detail.go: full-screen product detail and the shared detail viewport
//   - form.go: create/edit form and delete confirmation modals
//   - header.go: status bar and command bar
//   - logs.go: application log viewer backed by logtail
//   - help.go: help overlay and command hints
//   - keys.go, theme.go, style_helpers.go: bindings and styling
//
// # Paging
//
// After every projection the model feeds View.LastPage back through
// Store.ClampPage. A list fetch is issued whenever the (page, page size)
// pair differs from the last one requested; "r" forces a refetch. The
// loader cancels superseded fetches, so stepping quickly through pages
// only ever applies the newest result.
//
// # Key Bindings
//
//   - j/k, g/G: Move selection
//   - [ and ], p: Previous/next page, cycle page size
//   - /: Live search (enter keeps, esc restores)
//   - f: Favorites only
//   - space: Like/unlike
//   - n, e, d: New, edit, delete
//   - enter, ":": Open selected product, open product by id
//   - L: Log view
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Exit
package ui
