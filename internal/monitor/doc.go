// Package monitor implements the full-screen status dashboard.
//
// The dashboard is a Bubble Tea model that never polls on its own. A
// poller.Coordinator runs on its own goroutine and forwards events over a
// channel; the model waits on that channel with a command and folds each
// event into its state:
//
//  1. EventStarted sets the busy state and shows the spinner.
//  2. EventOutcome with a result replaces the section cards.
//  3. EventOutcome with an error keeps the previous cards, marks them
//     stale and shows the error in the footer.
//
// Pressing r calls Refresher.Refresh, which the coordinator coalesces with
// any poll already pending.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C      - Quit
//	r              - Refresh now
//	j/k, ↑/↓       - Scroll
//	PgUp/PgDn      - Scroll a page
//	Home/End       - Jump to top / bottom
//	?              - Toggle help overlay
package monitor
