// Package app is the composition root for shelf.
//
// # Overview
//
// Open builds a Session: configuration, the zap file logger, a catalog
// store hydrated from the persisted overlay, the DummyJSON client and the
// loader that feeds the store. The CLI subcommands work on a Session
// directly; Run adds the TUI and autosave on top.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> Open()             config, logging, persist, store, loader
//	       ├─────> prefs.Load()       theme
//	       │
//	       ├─ errgroup ─┬─> ui.Run()          TUI (blocks until quit)
//	       │            └─> autosave()        save overlay on change
//	       │
//	       └─────> Save()             final save on shutdown
//
// # Persistence
//
// Save compares Store.Revisions().Overlay against the revision last
// written and does nothing when they match, so the autosave tick is cheap
// while the user is idle. When the database cannot be opened the session
// still works; changes simply live in memory for the life of the process.
//
// # Error Handling
//
// Fatal (returned from Open or Run):
//   - Invalid configuration file or environment overrides
//   - Log file cannot be created
//   - Invalid API base URL
//
// Recoverable (logged):
//   - Database unavailable at startup
//   - Autosave failures, retried on the next tick
//   - Remote failures, which the loader records in the store
package app
