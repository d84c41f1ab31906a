package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/scatterplot/internal/editor"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// memStore serves one client with behaviors A, B and C and keeps the last
// payload it was sent.
type memStore struct {
	saved []types.IntervalRecord
}

func (s *memStore) ActiveBehaviors(context.Context, string) ([]types.Behavior, error) {
	return []types.Behavior{
		{BehaviorID: "b-A", ClientID: "c1", Name: "Aggression", Color: "#ef4444"},
		{BehaviorID: "b-B", ClientID: "c1", Name: "B"},
		{BehaviorID: "b-C", ClientID: "c1", Name: "C"},
	}, nil
}

func (s *memStore) FindSession(context.Context, string, string) (*types.Session, error) {
	return nil, types.ErrNotFound
}

func (s *memStore) ApplyIntervals(_ context.Context, clientID, date string, records []types.IntervalRecord) (*types.Session, error) {
	s.saved = records
	return &types.Session{SessionID: "s1", ClientID: clientID, Date: date}, nil
}

func newTestModel(t *testing.T) (Model, *memStore) {
	t.Helper()
	store := &memStore{}
	session, err := editor.Open(context.Background(), store, "c1", "2026-03-14", editor.Options{})
	require.NoError(t, err)

	model := NewModel(session, Options{Title: "Sample Client", DayStart: types.DefaultDayStart})
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), store
}

func send(t *testing.T, model Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = model.Update(msg)
		model = updated.(Model)
	}
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// cellX returns a screen column inside behavior column col.
func cellX(col int) int {
	return labelWidth + checkWidth + col*cellWidth + 1
}

func rowY(row int) int {
	return gridTop + row
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestMouse_DragPaintsColumn(t *testing.T) {
	model, _ := newTestModel(t)

	model, _ = send(t, model,
		mouse(tea.MouseActionPress, cellX(0), rowY(0)),
		mouse(tea.MouseActionMotion, cellX(0)+2, rowY(0)), // same cell
		mouse(tea.MouseActionMotion, cellX(0), rowY(1)),
		mouse(tea.MouseActionMotion, cellX(0)+1, rowY(1)), // same cell
		mouse(tea.MouseActionMotion, cellX(0), rowY(2)),
		tea.MouseMsg{X: cellX(0), Y: rowY(2), Action: tea.MouseActionRelease},
	)

	g := model.grid()
	for i := 0; i <= 2; i++ {
		assert.Equal(t, []types.CellValue{types.CellInd, types.CellErr, types.CellErr}, g.RowCells(g.Row(i)), "row %d", i)
	}
	assert.Equal(t, types.RowEmpty, g.Status(g.Row(3)))
	assert.False(t, model.paint().Dragging())
}

func TestMouse_ClickTogglesCell(t *testing.T) {
	model, _ := newTestModel(t)
	click := []tea.Msg{
		mouse(tea.MouseActionPress, cellX(1), rowY(4)),
		tea.MouseMsg{X: cellX(1), Y: rowY(4), Action: tea.MouseActionRelease},
	}

	model, _ = send(t, model, click...)
	g := model.grid()
	assert.Equal(t, types.CellInd, g.Cell(g.Row(4), g.Col(1)))

	model, _ = send(t, model, click...)
	assert.Equal(t, types.CellErr, g.Cell(g.Row(4), g.Col(1)))
	assert.Equal(t, 4, model.cursorRow)
	assert.Equal(t, 1, model.cursorCol)
}

func TestMouse_CheckColumnDrag(t *testing.T) {
	model, _ := newTestModel(t)
	checkX := labelWidth + 1

	model, _ = send(t, model,
		mouse(tea.MouseActionPress, checkX, rowY(5)),
		mouse(tea.MouseActionMotion, checkX, rowY(6)),
		tea.MouseMsg{X: checkX, Y: rowY(6), Action: tea.MouseActionRelease},
	)

	g := model.grid()
	assert.Equal(t, types.RowChecked, g.Status(g.Row(5)))
	assert.Equal(t, types.RowChecked, g.Status(g.Row(6)))
	assert.Equal(t, []types.CellValue{types.CellErr, types.CellErr, types.CellErr}, g.RowCells(g.Row(6)))
}

func TestMouse_ReleaseOutsideGridEndsGesture(t *testing.T) {
	model, _ := newTestModel(t)

	model, _ = send(t, model,
		mouse(tea.MouseActionPress, cellX(0), rowY(0)),
		tea.MouseMsg{X: 2, Y: 0, Action: tea.MouseActionRelease},
		mouse(tea.MouseActionMotion, cellX(0), rowY(1)),
	)

	assert.False(t, model.paint().Dragging())
	assert.Equal(t, 0, model.grid().Filled())
}

func TestMouse_WheelScrolls(t *testing.T) {
	model, _ := newTestModel(t)

	model, _ = send(t, model, tea.MouseMsg{X: 0, Y: rowY(0), Button: tea.MouseButtonWheelDown})
	assert.Equal(t, wheelStep, model.offset)

	// Row under the pointer accounts for the scroll offset.
	model, _ = send(t, model,
		mouse(tea.MouseActionPress, cellX(2), rowY(0)),
		tea.MouseMsg{X: cellX(2), Y: rowY(0), Action: tea.MouseActionRelease},
	)
	g := model.grid()
	assert.Equal(t, types.CellInd, g.Cell(g.Row(wheelStep), g.Col(2)))
}

func TestKeys_CursorEdits(t *testing.T) {
	model, _ := newTestModel(t)

	model, _ = send(t, model,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyRight},
		runes(" "),
	)
	g := model.grid()
	assert.Equal(t, []types.CellValue{types.CellErr, types.CellInd, types.CellErr}, g.RowCells(g.Row(1)))

	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, types.RowChecked, g.Status(g.Row(2)))
	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, types.RowSkipped, g.Status(g.Row(2)))

	// Enter on the ind row is a no-op.
	_, _ = send(t, model, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, types.CellInd, g.Cell(g.Row(1), g.Col(1)))
}

func TestKeys_CursorClampsAndScrolls(t *testing.T) {
	model, _ := newTestModel(t)

	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, model.cursorRow)
	assert.Equal(t, 0, model.cursorCol)

	model, _ = send(t, model, runes("G"))
	assert.Equal(t, types.IntervalsPerDay-1, model.cursorRow)
	assert.Equal(t, types.IntervalsPerDay-model.visibleRows(), model.offset)

	model, _ = send(t, model, runes("g"))
	assert.Equal(t, 0, model.offset)
}

func TestKeys_BrushSelectionIsDisplayOnly(t *testing.T) {
	model, _ := newTestModel(t)

	model, _ = send(t, model, runes("s"))
	assert.Equal(t, types.CellSkip, model.paint().SelectedBrush())
	assert.Contains(t, model.View(), "SKIP")

	model, _ = send(t, model, runes(" "))
	g := model.grid()
	assert.Equal(t, types.CellInd, g.Cell(g.Row(0), g.Col(0)))
}

func TestKeys_FillAndConfirmedClear(t *testing.T) {
	model, _ := newTestModel(t)
	g := model.grid()

	model, _ = send(t, model, runes("F"))
	assert.Equal(t, g.Size(), g.Filled())
	assert.Equal(t, types.RowSkipped, g.Status(g.Row(50)))

	model, _ = send(t, model, runes("X"), runes("n"))
	assert.Equal(t, g.Size(), g.Filled(), "declined clear keeps cells")

	model, _ = send(t, model, runes("X"))
	assert.Contains(t, model.View(), "Clear every cell?")
	_, _ = send(t, model, runes("y"))
	assert.Equal(t, 0, g.Filled())
}

func TestSave_RunsAsCommand(t *testing.T) {
	model, store := newTestModel(t)

	model, cmd := send(t, model, runes(" "), tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, model.session.Saving())

	// A second save while the first is in flight is refused.
	model, again := send(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, again)
	assert.Equal(t, "Save in progress", model.notice)

	model, _ = send(t, model, cmd())
	assert.False(t, model.session.Saving())
	assert.False(t, model.grid().Dirty())
	assert.Len(t, store.saved, 3)
	assert.Contains(t, model.View(), "Saved")

	model, cmd = send(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Equal(t, "Nothing to save", model.notice)
}

func TestQuit_ConfirmsUnsavedChanges(t *testing.T) {
	model, _ := newTestModel(t)

	_, cmd := send(t, model, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	model, _ = send(t, model, runes(" "))
	model, cmd = send(t, model, runes("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, confirmQuit, model.confirm)

	model, cmd = send(t, model, runes("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, confirmNone, model.confirm)

	_, cmd = send(t, model, runes("q"), runes("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestView_RendersGrid(t *testing.T) {
	model, _ := newTestModel(t)
	model, _ = send(t, model, runes(" "))

	view := model.View()
	assert.Contains(t, view, "Sample Client")
	assert.Contains(t, view, "2026-03-14")
	assert.Contains(t, view, "7:00-7:14 AM")
	assert.Contains(t, view, "Aggre")
	assert.Contains(t, view, "IND")
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "Aggression 1/1")
	assert.Contains(t, view, "unsaved")

	lines := strings.Split(view, "\n")
	assert.Len(t, lines, gridTop+model.visibleRows()+2+strings.Count(model.help.View(model.keys), "\n")+1)
}
