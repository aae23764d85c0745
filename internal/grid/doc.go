// Package grid holds the sample lattice over the complex plane and the
// bookkeeping needed to cut it into square tiles and glue per-tile results
// back together.
//
// The Grid itself is immutable once built and is shared read-only by every
// worker. Tiles are pure index ranges; they own no data. Output grids are
// freshly allocated by Assemble, which is the only place tile results are
// written into a full-size array.
package grid
