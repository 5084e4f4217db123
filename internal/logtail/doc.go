// Package logtail reads the tail of shelf's log file for the TUI log view.
//
// # Reading
//
// Read keeps a ring buffer of the last maxLines lines while scanning the
// file once, so memory stays O(maxLines) regardless of file size. Lines
// come back in file order. A missing file is not an error; the logger may
// simply not have written anything yet.
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//
// # Formatting
//
// shelf logs JSON, one object per line. Parse decodes the encoder's own
// keys (ts, level, logger, msg) and keeps everything else as Fields.
// Format turns a line into a compact single-line form:
//
//	{"level":"warn","ts":"2026-01-02T15:04:05.000Z","logger":"loader","msg":"Request failed","gen":3}
//	15:04:05 WARN  [loader] Request failed gen=3
//
// Non-JSON lines pass through untouched.
package logtail
