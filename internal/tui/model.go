// Package tui is the interactive terminal front end for one scatterplot
// grid. Mouse gestures drive the paint controller; the keyboard moves a
// cursor that performs the same clicks.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/scatterplot/internal/editor"
	"github.com/mesh-intelligence/scatterplot/pkg/grid"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// Layout, in terminal columns and lines.
const (
	labelWidth = 16 // "10:45-10:59 AM" plus padding.
	checkWidth = 4  // "[x] "
	cellWidth  = 6

	titleLines  = 1
	headerLines = 1
	footerLines = 3 // totals, message, help
	gridTop     = titleLines + headerLines

	defaultHeight = 24
	wheelStep     = 3
)

// saveDoneMsg carries a finished save back onto the event loop.
type saveDoneMsg struct {
	result editor.SaveResult
}

// confirmAction is a destructive action awaiting y/n.
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmClearAll
	confirmQuit
)

// hit is a grid position under the pointer.
type hit struct {
	ok    bool
	check bool // row-status column
	row   grid.Row
	col   grid.Col
}

// Model is the bubbletea model of the grid editor.
type Model struct {
	session  *editor.Session
	ctx      context.Context
	title    string
	dayStart int

	keys  KeyMap
	theme Theme
	help  help.Model

	width  int
	height int
	ready  bool

	cursorRow int
	cursorCol int
	offset    int

	// hover is the grid position most recently pressed or entered during
	// a drag; EnterCell/EnterRow fire only when it changes.
	hover hit

	confirm confirmAction
	notice  string
}

// Options configures NewModel.
type Options struct {
	Title    string // Shown in the title bar, usually the client's name.
	DayStart int    // Minutes after midnight of interval 0.
	Context  context.Context
	Keys     *KeyMap
	Theme    *Theme
}

// NewModel builds the editor model for an open session.
func NewModel(session *editor.Session, opts Options) Model {
	m := Model{
		session:  session,
		ctx:      opts.Context,
		title:    opts.Title,
		dayStart: opts.DayStart,
		keys:     DefaultKeyMap,
		theme:    DefaultTheme,
		help:     help.New(),
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if opts.Keys != nil {
		m.keys = *opts.Keys
	}
	if opts.Theme != nil {
		m.theme = *opts.Theme
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) grid() *grid.Grid { return m.session.Grid() }

func (m Model) paint() *grid.Controller { return m.session.Controller() }

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.help.Width = message.Width
		m.ready = true
		m.scrollToCursor()

	case tea.KeyMsg:
		return m.handleKey(message)

	case tea.MouseMsg:
		m.handleMouse(message)

	case saveDoneMsg:
		// Success and failure text are carried by the session message.
		m.notice = ""
		_ = m.session.CompleteSave(message.result)
	}
	return m, nil
}

func (m Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != confirmNone {
		action := m.confirm
		m.confirm = confirmNone
		m.notice = ""
		if !key.Matches(message, m.keys.Confirm) {
			return m, nil
		}
		switch action {
		case confirmClearAll:
			m.grid().ClearAll()
		case confirmQuit:
			return m, tea.Quit
		}
		return m, nil
	}

	m.notice = ""
	g := m.grid()

	switch {
	case key.Matches(message, m.keys.Quit):
		if m.session.Saving() {
			m.notice = "Save in progress"
			return m, nil
		}
		if g.Dirty() {
			m.confirm = confirmQuit
			m.notice = "Unsaved changes. Quit anyway? (y/n)"
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(message, m.keys.Save):
		return m, m.startSave()

	case key.Matches(message, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(message, m.keys.Up):
		m.moveCursor(-1, 0)
	case key.Matches(message, m.keys.Down):
		m.moveCursor(1, 0)
	case key.Matches(message, m.keys.Left):
		m.moveCursor(0, -1)
	case key.Matches(message, m.keys.Right):
		m.moveCursor(0, 1)
	case key.Matches(message, m.keys.PageUp):
		m.moveCursor(-m.visibleRows(), 0)
	case key.Matches(message, m.keys.PageDown):
		m.moveCursor(m.visibleRows(), 0)
	case key.Matches(message, m.keys.Home):
		m.moveCursor(-types.IntervalsPerDay, 0)
	case key.Matches(message, m.keys.End):
		m.moveCursor(types.IntervalsPerDay, 0)

	case key.Matches(message, m.keys.Click):
		if g.NumCols() == 0 {
			return m, nil
		}
		r, c := g.Row(m.cursorRow), g.Col(m.cursorCol)
		p := m.paint()
		p.PressCell(r, c)
		p.ReleaseCell(r, c)
		p.ReleaseAnywhere()

	case key.Matches(message, m.keys.ToggleRow):
		r := g.Row(m.cursorRow)
		p := m.paint()
		p.PressRow(r)
		p.ReleaseRow(r)
		p.ReleaseAnywhere()

	case key.Matches(message, m.keys.FillChecked):
		g.FillAll(types.CellErr, types.RowChecked)
	case key.Matches(message, m.keys.FillSkipped):
		g.FillAll(types.CellSkip, types.RowSkipped)
	case key.Matches(message, m.keys.ClearAll):
		m.confirm = confirmClearAll
		m.notice = "Clear every cell? (y/n)"

	case key.Matches(message, m.keys.BrushInd, m.keys.BrushErr, m.keys.BrushSkip, m.keys.BrushClear):
		if runes := message.Runes; len(runes) == 1 {
			m.paint().SelectBrush(runes[0])
		}
	}
	return m, nil
}

// startSave captures the payload now and returns a command that sends it
// to storage off the event loop.
func (m *Model) startSave() tea.Cmd {
	pending, err := m.session.BeginSave()
	switch {
	case errors.Is(err, types.ErrNoChanges):
		m.notice = "Nothing to save"
		return nil
	case errors.Is(err, types.ErrSaveInFlight):
		m.notice = "Save in progress"
		return nil
	case err != nil:
		m.notice = err.Error()
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return saveDoneMsg{result: pending.Run(ctx)}
	}
}

// handleMouse maps pointer events onto the paint controller. Every release
// ends the gesture, wherever it happens.
func (m *Model) handleMouse(message tea.MouseMsg) {
	switch message.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(-wheelStep)
		return
	case tea.MouseButtonWheelDown:
		m.scroll(wheelStep)
		return
	}

	p := m.paint()
	at := m.hitTest(message.X, message.Y)

	switch message.Action {
	case tea.MouseActionPress:
		if message.Button != tea.MouseButtonLeft || !at.ok {
			return
		}
		m.hover = at
		if at.check {
			p.PressRow(at.row)
			return
		}
		m.cursorRow, m.cursorCol = at.row.Index(), at.col.Index()
		p.PressCell(at.row, at.col)

	case tea.MouseActionMotion:
		if !p.Dragging() {
			return
		}
		if at == m.hover {
			return
		}
		m.hover = at
		if !at.ok {
			return
		}
		if at.check {
			p.EnterRow(at.row)
		} else {
			p.EnterCell(at.row, at.col)
		}

	case tea.MouseActionRelease:
		if at.ok {
			if at.check {
				p.ReleaseRow(at.row)
			} else {
				p.ReleaseCell(at.row, at.col)
			}
		}
		p.ReleaseAnywhere()
		m.hover = hit{}
	}
}

// hitTest converts screen coordinates to a grid position.
func (m Model) hitTest(x, y int) hit {
	line := y - gridTop
	if line < 0 || line >= m.visibleRows() {
		return hit{}
	}
	r, ok := m.grid().RowAt(m.offset + line)
	if !ok {
		return hit{}
	}
	switch {
	case x >= labelWidth && x < labelWidth+checkWidth:
		return hit{ok: true, check: true, row: r}
	case x >= labelWidth+checkWidth:
		c, ok := m.grid().ColAt((x - labelWidth - checkWidth) / cellWidth)
		if !ok {
			return hit{}
		}
		return hit{ok: true, row: r, col: c}
	}
	return hit{}
}

func (m *Model) moveCursor(dRow, dCol int) {
	m.cursorRow = clamp(m.cursorRow+dRow, 0, types.IntervalsPerDay-1)
	m.cursorCol = clamp(m.cursorCol+dCol, 0, max(m.grid().NumCols()-1, 0))
	m.scrollToCursor()
}

func (m *Model) scroll(delta int) {
	m.offset = clamp(m.offset+delta, 0, max(types.IntervalsPerDay-m.visibleRows(), 0))
}

func (m *Model) scrollToCursor() {
	visible := m.visibleRows()
	if m.cursorRow < m.offset {
		m.offset = m.cursorRow
	}
	if m.cursorRow >= m.offset+visible {
		m.offset = m.cursorRow - visible + 1
	}
	m.scroll(0)
}

// visibleRows is the number of interval rows that fit on screen.
func (m Model) visibleRows() int {
	height := m.height
	if !m.ready {
		height = defaultHeight
	}
	rows := height - gridTop - footerLines
	if m.help.ShowAll {
		rows -= len(m.keys.FullHelp()[0]) - 1
	}
	return clamp(rows, 1, types.IntervalsPerDay)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
