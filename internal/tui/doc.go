// Package tui implements the interactive terminal interface: the advice list
// with search and retrying load, the details screen with reply flows, and the
// login/registration screen.
//
// AppModel coordinates screen transitions; each screen is a self-contained
// bubbletea model. Destructive actions are confirmed with a modal here, so
// the action helpers are constructed without their own confirm hook. List
// loading is driven by the advice package's Loader: its effects are mapped
// onto tea.Tick commands whose messages carry the loader's sequence numbers,
// which is how timers scheduled for an abandoned load are ignored instead of
// cancelled.
package tui
