// Package ui implements an interactive terminal interface for batch runs using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [RunningView] : spinner, progress bar and a live list of matched songs
//  2. [ResultView] : success metrics, failed queries and the browsable record list
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the BatchRunner, providing non-blocking status reporting during a run.
//
// Pressing q (or ctrl+c) while running cancels the run: queries in flight finish and the partial result
// is shown. Keyboard navigation uses vim-style bindings (j/k, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
