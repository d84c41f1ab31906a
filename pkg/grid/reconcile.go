package grid

import "github.com/mesh-intelligence/scatterplot/pkg/types"

// Load builds a clean grid from stored interval records. Records naming a
// behavior that is not in behaviors (archived, or another client's), records
// with an interval index out of range, and records with an unrecognized
// value are ignored. Row statuses are seeded with DeriveInitialStatus.
//
// The records that land in the grid become its baseline: if one of those
// cells is later emptied, SavePayload reports it as a deletion.
func Load(behaviors []types.Behavior, records []types.IntervalRecord) *Grid {
	g := New(behaviors)
	for _, rec := range records {
		c, ok := g.ColOf(rec.BehaviorID)
		if !ok {
			continue
		}
		r, ok := g.RowAt(rec.IntervalIndex)
		if !ok {
			continue
		}
		if !rec.Value.Valid() {
			continue
		}
		g.cells[r.i][c.j] = rec.Value
	}
	for i := range g.cells {
		g.status[i] = DeriveInitialStatus(g.cells[i])
	}
	g.resetBaseline()
	return g
}

// SparseRecords flattens the grid to one record per non-empty cell, in row
// then column order.
func (g *Grid) SparseRecords() []types.IntervalRecord {
	var out []types.IntervalRecord
	for i := range g.cells {
		for j, v := range g.cells[i] {
			if v == types.CellEmpty {
				continue
			}
			out = append(out, types.IntervalRecord{
				BehaviorID:    g.behaviors[j].BehaviorID,
				IntervalIndex: i,
				Value:         v,
			})
		}
	}
	return out
}

// SavePayload is the list handed to a PersistenceSink: every non-empty cell,
// followed by an empty-valued record for every baseline cell that is now
// empty. Applying it makes storage hold exactly the grid's non-empty cells.
func (g *Grid) SavePayload() []types.IntervalRecord {
	out := g.SparseRecords()
	for i := range g.cells {
		for j, v := range g.cells[i] {
			if v != types.CellEmpty {
				continue
			}
			if _, ok := g.baseline[cellKey{i, j}]; !ok {
				continue
			}
			out = append(out, types.IntervalRecord{
				BehaviorID:    g.behaviors[j].BehaviorID,
				IntervalIndex: i,
				Value:         types.CellEmpty,
			})
		}
	}
	return out
}

// Commit records that payload was persisted: its non-empty cells become the
// new baseline. It does not touch cells or the dirty flag, because edits may
// have happened after payload was captured.
func (g *Grid) Commit(payload []types.IntervalRecord) {
	g.baseline = make(map[cellKey]types.CellValue, len(payload))
	for _, rec := range payload {
		if rec.Value == types.CellEmpty {
			continue
		}
		c, ok := g.ColOf(rec.BehaviorID)
		if !ok {
			continue
		}
		if _, ok := g.RowAt(rec.IntervalIndex); !ok {
			continue
		}
		g.baseline[cellKey{rec.IntervalIndex, c.j}] = rec.Value
	}
}

func (g *Grid) resetBaseline() {
	g.baseline = make(map[cellKey]types.CellValue)
	for i := range g.cells {
		for j, v := range g.cells[i] {
			if v != types.CellEmpty {
				g.baseline[cellKey{i, j}] = v
			}
		}
	}
}
