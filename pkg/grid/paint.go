package grid

import (
	"unicode"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// Pos is one cell position.
type Pos struct {
	Row Row
	Col Col
}

// GestureState is the controller's in-progress gesture. It is one of Idle,
// DraggingCell or DraggingRow.
type GestureState interface {
	gesture()
}

// Idle means no pointer button is held over the grid.
type Idle struct{}

// DraggingCell is a gesture that started on a behavior cell. Brush was picked
// up from that cell when the gesture started and does not change.
type DraggingCell struct {
	Brush   types.CellValue
	Start   Pos
	Dragged bool // The pointer entered another cell; release is not a click.
}

// DraggingRow is a gesture that started on the row-status column. Action is
// the status painted onto every row the pointer enters.
type DraggingRow struct {
	Action  types.RowStatus
	Start   Row
	Dragged bool
}

func (Idle) gesture()         {}
func (DraggingCell) gesture() {}
func (DraggingRow) gesture()  {}

// brushKeys binds keyboard shortcuts to brushes.
var brushKeys = map[rune]types.CellValue{
	'i': types.CellInd,
	'e': types.CellErr,
	's': types.CellSkip,
	'c': types.CellEmpty,
}

// Controller interprets pointer gestures over a Grid.
//
// Two tracks exist: behavior cells (PressCell, EnterCell, ReleaseCell) and the
// row-status column (PressRow, EnterRow, ReleaseRow). ReleaseAnywhere must be
// wired to pointer-up events from the whole screen so that a release outside
// the grid ends the gesture.
type Controller struct {
	grid     *Grid
	state    GestureState
	selected types.CellValue
}

// NewController returns an idle controller for g. The highlighted brush
// starts as ind.
func NewController(g *Grid) *Controller {
	return &Controller{
		grid:     g,
		state:    Idle{},
		selected: types.CellInd,
	}
}

// Grid returns the grid the controller mutates.
func (c *Controller) Grid() *Grid {
	return c.grid
}

// State returns the current gesture.
func (c *Controller) State() GestureState {
	return c.state
}

// PressCell starts a cell gesture at (r, col) and picks the drag brush from
// the cell's current value: skip paints skip, ind paints ind, err (or any
// cell of a checked row) paints err, anything else paints ind.
func (c *Controller) PressCell(r Row, col Col) {
	c.state = DraggingCell{
		Brush: c.pickCellBrush(r, col),
		Start: Pos{Row: r, Col: col},
	}
}

func (c *Controller) pickCellBrush(r Row, col Col) types.CellValue {
	switch v := c.grid.Cell(r, col); {
	case v == types.CellSkip:
		return types.CellSkip
	case v == types.CellInd:
		return types.CellInd
	case v == types.CellErr || c.grid.Status(r) == types.RowChecked:
		return types.CellErr
	default:
		return types.CellInd
	}
}

// EnterCell paints the drag brush onto (r, col) when a cell gesture is in
// progress. The first time the pointer leaves the start cell the start cell
// is painted too, so a drag covers every cell it crossed.
func (c *Controller) EnterCell(r Row, col Col) {
	st, ok := c.state.(DraggingCell)
	if !ok {
		return
	}
	at := Pos{Row: r, Col: col}
	if !st.Dragged {
		if at == st.Start {
			return
		}
		st.Dragged = true
		c.state = st
		c.applyCellBrush(st.Brush, st.Start)
	}
	c.applyCellBrush(st.Brush, at)
}

func (c *Controller) applyCellBrush(brush types.CellValue, at Pos) {
	g := c.grid
	switch brush {
	case types.CellErr:
		g.SetRow(at.Row, types.CellErr, types.RowChecked)
	case types.CellSkip:
		g.SetRow(at.Row, types.CellSkip, types.RowSkipped)
	case types.CellInd:
		if g.Cell(at.Row, at.Col) == types.CellInd {
			g.UnmarkInd(at.Row, at.Col)
		} else {
			g.MarkInd(at.Row, at.Col)
		}
	case types.CellEmpty:
		// pickCellBrush never picks an empty brush; a gesture carrying one
		// clears the cell and empties a row left without values.
		g.SetCell(at.Row, at.Col, types.CellEmpty)
		if rowEmpty(g.cells[at.Row.i]) {
			g.status[at.Row.i] = types.RowEmpty
		}
	}
}

// ReleaseCell ends a cell gesture. A release on the start cell with no drag
// is a click: an ind cell is unmarked, any other cell is marked ind.
func (c *Controller) ReleaseCell(r Row, col Col) {
	st, ok := c.state.(DraggingCell)
	c.state = Idle{}
	if !ok || st.Dragged || st.Start != (Pos{Row: r, Col: col}) {
		return
	}
	if c.grid.Cell(r, col) == types.CellInd {
		c.grid.UnmarkInd(r, col)
	} else {
		c.grid.MarkInd(r, col)
	}
}

// PressRow starts a row-status gesture. The action painted by a drag is
// fixed here: a checked row paints skipped, any other row paints checked.
// Rows holding an ind cell do not start a gesture.
func (c *Controller) PressRow(r Row) {
	if c.grid.HasAnyObservedOccurrence(r) {
		c.state = Idle{}
		return
	}
	action := types.RowChecked
	if c.grid.Status(r) == types.RowChecked {
		action = types.RowSkipped
	}
	c.state = DraggingRow{Action: action, Start: r}
}

// EnterRow paints the row action onto r when a row gesture is in progress.
// Rows holding an ind cell are skipped.
func (c *Controller) EnterRow(r Row) {
	st, ok := c.state.(DraggingRow)
	if !ok {
		return
	}
	if !st.Dragged {
		if r == st.Start {
			return
		}
		st.Dragged = true
		c.state = st
		c.applyRowAction(st.Action, st.Start)
	}
	c.applyRowAction(st.Action, r)
}

func (c *Controller) applyRowAction(action types.RowStatus, r Row) {
	if c.grid.HasAnyObservedOccurrence(r) {
		return
	}
	if action == types.RowSkipped {
		c.grid.SetRow(r, types.CellSkip, types.RowSkipped)
	} else {
		c.grid.SetRow(r, types.CellErr, types.RowChecked)
	}
}

// ReleaseRow ends a row gesture. A release on the start row with no drag is
// a click and toggles the row status.
func (c *Controller) ReleaseRow(r Row) {
	st, ok := c.state.(DraggingRow)
	c.state = Idle{}
	if !ok || st.Dragged || st.Start != r {
		return
	}
	c.grid.ToggleRowStatus(r)
}

// ReleaseAnywhere discards any in-progress gesture. Wire it to every
// pointer-up event, inside the grid or not.
func (c *Controller) ReleaseAnywhere() {
	c.state = Idle{}
}

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool {
	_, idle := c.state.(Idle)
	return !idle
}

// SelectBrush highlights the brush bound to key (i, e, s or c, any case) and
// reports whether key was bound. The highlighted brush is shown to the user
// only; gestures pick their brush from the grid.
func (c *Controller) SelectBrush(key rune) bool {
	v, ok := brushKeys[unicode.ToLower(key)]
	if !ok {
		return false
	}
	c.selected = v
	return true
}

// SelectedBrush returns the highlighted brush.
func (c *Controller) SelectedBrush() types.CellValue {
	return c.selected
}

func rowEmpty(row []types.CellValue) bool {
	for _, v := range row {
		if v != types.CellEmpty {
			return false
		}
	}
	return true
}
