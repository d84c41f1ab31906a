// Package types defines the cell and row-status domains, the entity types
// (clients, behaviors, sessions, interval records), the Store interfaces the
// grid editor consumes, and the standard error values for scatterplot data
// collection.
//
// An observation day is split into IntervalsPerDay fixed slots. Each slot is
// a row; each active behavior of a client is a column. Only non-empty cells
// are ever persisted, as IntervalRecord values.
package types
