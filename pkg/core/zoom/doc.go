// Package zoom tracks which subtree of a treemap is on display.
//
// A [Navigator] owns a stack of nodes: the bottom is the tree's true root and
// the top is the node currently laid out into the viewport. Zooming in
// replaces the stack with the target's ancestor chain, zooming out pops one
// level, and a full zoom pops back to the root. Every change re-runs the
// layout processor on the new top and then notifies registered observers.
//
// # Observers
//
// Observers are notified synchronously in registration order. A panicking
// observer does not stop the others: every observer is called, and the
// failures are returned afterwards as one error with code
// [errors.ErrCodeObserver]. The navigation itself has already taken effect
// when such an error is returned.
//
// # Concurrency
//
// A Navigator is not safe for concurrent use. Layout mutates the tree in
// place, so callers that share one across goroutines must serialize calls,
// as the HTTP server does with a per-session mutex.
package zoom
