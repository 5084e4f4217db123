package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the detail pane is
	// hidden and the header drops secondary fields.
	LayoutCompactWidth = 90

	// LayoutExtraWideWidth is the threshold for a narrower list pane.
	LayoutExtraWideWidth = 160
)

// Log view limits.
const (
	// LogBufferLimit is the maximum number of log lines read from disk.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is the default refresh interval for the log view.
	DefaultUIInterval = time.Second
)
