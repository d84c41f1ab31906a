package grid

import (
	"fmt"
	"iter"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// Row identifies one interval of a grid. Rows are obtained from Grid.Row,
// Grid.RowAt or Grid.Rows and are always in range.
type Row struct{ i int }

// Index returns the interval index.
func (r Row) Index() int { return r.i }

// Col identifies one behavior column of a grid. Cols are obtained from
// Grid.Col, Grid.ColAt, Grid.ColOf or Grid.Cols.
type Col struct{ j int }

// Index returns the column index into the grid's behavior list.
func (c Col) Index() int { return c.j }

// Totals summarizes one behavior column for the footer.
type Totals struct {
	Observed int `json:"observed"` // Cells equal to ind or err.
	Ind      int `json:"ind"`
	Err      int `json:"err"`
}

// Grid is the dense in-memory state of one observation day.
type Grid struct {
	behaviors []types.Behavior
	cells     [types.IntervalsPerDay][]types.CellValue
	status    [types.IntervalsPerDay]types.RowStatus

	dirty      bool
	generation uint64
	listeners  []func(dirty bool)

	// baseline holds the cells known to be persisted, keyed by position.
	// It drives deletion entries in SavePayload.
	baseline map[cellKey]types.CellValue
}

type cellKey struct {
	row, col int
}

// New returns an empty, clean grid with one column per behavior.
func New(behaviors []types.Behavior) *Grid {
	g := &Grid{
		behaviors: append([]types.Behavior(nil), behaviors...),
		baseline:  make(map[cellKey]types.CellValue),
	}
	for i := range g.cells {
		g.cells[i] = make([]types.CellValue, len(behaviors))
		g.status[i] = types.RowEmpty
	}
	return g
}

// Behaviors returns a copy of the column definitions.
func (g *Grid) Behaviors() []types.Behavior {
	return append([]types.Behavior(nil), g.behaviors...)
}

// Behavior returns the behavior shown in column c.
func (g *Grid) Behavior(c Col) types.Behavior {
	return g.behaviors[c.j]
}

// NumCols returns the number of behavior columns.
func (g *Grid) NumCols() int {
	return len(g.behaviors)
}

// Row returns the row for interval i. It panics if i is out of range.
func (g *Grid) Row(i int) Row {
	r, ok := g.RowAt(i)
	if !ok {
		panic(fmt.Sprintf("grid: row %d out of range [0,%d)", i, types.IntervalsPerDay))
	}
	return r
}

// RowAt converts an untrusted interval index, reporting whether it is in range.
func (g *Grid) RowAt(i int) (Row, bool) {
	if i < 0 || i >= types.IntervalsPerDay {
		return Row{}, false
	}
	return Row{i}, true
}

// Col returns column j. It panics if j is out of range.
func (g *Grid) Col(j int) Col {
	c, ok := g.ColAt(j)
	if !ok {
		panic(fmt.Sprintf("grid: column %d out of range [0,%d)", j, len(g.behaviors)))
	}
	return c
}

// ColAt converts an untrusted column index, reporting whether it is in range.
func (g *Grid) ColAt(j int) (Col, bool) {
	if j < 0 || j >= len(g.behaviors) {
		return Col{}, false
	}
	return Col{j}, true
}

// ColOf returns the column showing behaviorID.
func (g *Grid) ColOf(behaviorID string) (Col, bool) {
	for j, b := range g.behaviors {
		if b.BehaviorID == behaviorID {
			return Col{j}, true
		}
	}
	return Col{}, false
}

// Rows iterates every interval in order.
func (g *Grid) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i := 0; i < types.IntervalsPerDay; i++ {
			if !yield(Row{i}) {
				return
			}
		}
	}
}

// Cols iterates every behavior column in order.
func (g *Grid) Cols() iter.Seq[Col] {
	return func(yield func(Col) bool) {
		for j := range g.behaviors {
			if !yield(Col{j}) {
				return
			}
		}
	}
}

// Cell returns the value at (r, c).
func (g *Grid) Cell(r Row, c Col) types.CellValue {
	return g.cells[r.i][c.j]
}

// RowCells returns a copy of the values in row r, in column order.
func (g *Grid) RowCells(r Row) []types.CellValue {
	return append([]types.CellValue(nil), g.cells[r.i]...)
}

// Status returns the stored status of row r.
func (g *Grid) Status(r Row) types.RowStatus {
	return g.status[r.i]
}

// SetCell overwrites one cell. Writing ind forces the row to checked.
func (g *Grid) SetCell(r Row, c Col, v types.CellValue) {
	g.cells[r.i][c.j] = v
	if v == types.CellInd {
		g.status[r.i] = types.RowChecked
	}
	g.touch()
}

// SetRow overwrites every cell in row r with v and sets the row status.
// Filling a row with ind always leaves it checked.
func (g *Grid) SetRow(r Row, v types.CellValue, status types.RowStatus) {
	g.fillRow(r.i, v, status)
	g.touch()
}

// MarkInd records that behavior c occurred in interval r. The row becomes
// checked, and every other column of the row that is empty or skip becomes
// err: an observed interval with no mark means the behavior did not occur.
func (g *Grid) MarkInd(r Row, c Col) {
	row := g.cells[r.i]
	row[c.j] = types.CellInd
	for j, v := range row {
		if j != c.j && (v == types.CellEmpty || v == types.CellSkip) {
			row[j] = types.CellErr
		}
	}
	g.status[r.i] = types.RowChecked
	g.touch()
}

// UnmarkInd flips an ind cell back to err. The row stays observed, so the
// cell does not return to empty. Cells holding anything else are unchanged.
func (g *Grid) UnmarkInd(r Row, c Col) {
	if g.cells[r.i][c.j] != types.CellInd {
		return
	}
	g.cells[r.i][c.j] = types.CellErr
	g.touch()
}

// ToggleRowStatus cycles a row between observed and not observed. A checked
// row is filled with skip and becomes skipped; any other row is filled with
// err and becomes checked. Rows holding an ind cell are left unchanged.
func (g *Grid) ToggleRowStatus(r Row) {
	if g.HasAnyObservedOccurrence(r) {
		return
	}
	if g.status[r.i] == types.RowChecked {
		g.fillRow(r.i, types.CellSkip, types.RowSkipped)
	} else {
		g.fillRow(r.i, types.CellErr, types.RowChecked)
	}
	g.touch()
}

// FillAll sets every cell to v and every row status to status.
func (g *Grid) FillAll(v types.CellValue, status types.RowStatus) {
	for i := range g.cells {
		g.fillRow(i, v, status)
	}
	g.touch()
}

// ClearAll resets every cell to empty and every row status to empty.
func (g *Grid) ClearAll() {
	g.FillAll(types.CellEmpty, types.RowEmpty)
}

// HasAnyObservedOccurrence reports whether any cell in row r is ind.
func (g *Grid) HasAnyObservedOccurrence(r Row) bool {
	for _, v := range g.cells[r.i] {
		if v == types.CellInd {
			return true
		}
	}
	return false
}

// Totals counts column c. It is recomputed from the matrix on every call.
func (g *Grid) Totals(c Col) Totals {
	var t Totals
	for i := range g.cells {
		switch g.cells[i][c.j] {
		case types.CellInd:
			t.Ind++
			t.Observed++
		case types.CellErr:
			t.Err++
			t.Observed++
		}
	}
	return t
}

// Filled returns the number of non-empty cells.
func (g *Grid) Filled() int {
	n := 0
	for i := range g.cells {
		for _, v := range g.cells[i] {
			if v != types.CellEmpty {
				n++
			}
		}
	}
	return n
}

// Size returns the total number of cells.
func (g *Grid) Size() int {
	return types.IntervalsPerDay * len(g.behaviors)
}

// Dirty reports whether the grid has changes not yet saved.
func (g *Grid) Dirty() bool {
	return g.dirty
}

// Generation counts mutations since the grid was created. A save compares
// the generation it captured with the current one to tell whether edits
// happened while it was in flight.
func (g *Grid) Generation() uint64 {
	return g.generation
}

// OnDirtyChange registers fn to be called whenever the unsaved-changes flag
// flips. fn runs synchronously inside the mutating call.
func (g *Grid) OnDirtyChange(fn func(dirty bool)) {
	g.listeners = append(g.listeners, fn)
}

// MarkClean clears the unsaved-changes flag.
func (g *Grid) MarkClean() {
	g.setDirty(false)
}

func (g *Grid) fillRow(i int, v types.CellValue, status types.RowStatus) {
	row := g.cells[i]
	for j := range row {
		row[j] = v
	}
	if v == types.CellInd && len(row) > 0 {
		status = types.RowChecked
	}
	g.status[i] = status
}

func (g *Grid) touch() {
	g.generation++
	g.setDirty(true)
}

func (g *Grid) setDirty(dirty bool) {
	if g.dirty == dirty {
		return
	}
	g.dirty = dirty
	for _, fn := range g.listeners {
		fn(dirty)
	}
}
