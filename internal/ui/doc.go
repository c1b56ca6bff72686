// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI browses the world-record changelist and can trigger an update run:
//  1. [ChangelistView] : Browse record changes, newest first, with filtering
//  2. [DetailView] : Inspect every field of one change
//  3. [UpdateView] : Monitor real-time progress of an update run
//  4. [ResultView] : Display fetch counts and the records the run appended
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the UpdateEngine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, u, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
