// Package grid implements the interval-by-behavior editing engine.
//
// A Grid holds a dense IntervalsPerDay x len(behaviors) matrix of cell values
// plus an explicitly stored status per row. Row status is seeded from the
// cells when a grid is loaded and is afterwards changed only by the named
// mutation operations; it is never recomputed from the cells on the fly.
//
// The one invariant every operation preserves: a row holding an ind cell is
// checked. An ind cell is evidence the interval was observed, so marking one
// behavior as occurring also marks every empty or skipped behavior in the same
// row as err.
//
// Controller turns pointer gestures into Grid operations. A press picks up a
// brush from the cell under the pointer, entering further cells paints that
// brush, and a release without movement is a click that toggles the cell.
//
// The engine is not safe for concurrent use. All mutation is expected to
// happen on the goroutine that handles input events.
package grid
