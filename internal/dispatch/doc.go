// Package dispatch runs tile computations on a fixed-size pool of worker
// goroutines.
//
// Tiles are queued up front and drained by the workers; each tile is computed
// to completion on one worker and its result is owned by the caller from then
// on. Results come back in completion order. The first failure cancels
// everything still queued or running, and no partial result set is returned.
package dispatch
