package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/scatterplot/pkg/grid"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteByte('\n')
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')

	g := m.grid()
	end := min(m.offset+m.visibleRows(), types.IntervalsPerDay)
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(g.Row(i)))
		b.WriteByte('\n')
	}

	b.WriteString(m.renderTotals())
	b.WriteByte('\n')
	b.WriteString(m.renderMessage())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderTitle() string {
	bold := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	parts := []string{bold.Render("Scatterplot")}
	if m.title != "" {
		parts = append(parts, m.title)
	}
	parts = append(parts, m.session.Date())
	line := strings.Join(parts, faint.Render(" · "))

	line += faint.Render("   brush ") + bold.Render(brushLabel(m.paint().SelectedBrush()))
	if m.grid().Dirty() {
		line += lipgloss.NewStyle().Foreground(m.theme.DirtyForeground).Render("   ● unsaved")
	}
	return line
}

func (m Model) renderHeader() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground)

	var b strings.Builder
	b.WriteString(pad("Interval", labelWidth))
	b.WriteString(pad("", checkWidth))
	for _, bh := range m.grid().Behaviors() {
		style := header.Width(cellWidth).Align(lipgloss.Center)
		if bh.Color != "" {
			style = style.Foreground(lipgloss.Color(bh.Color))
		}
		b.WriteString(style.Render(truncate(bh.Name, cellWidth-1)))
	}
	return b.String()
}

func (m Model) renderRow(r grid.Row) string {
	g := m.grid()
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	var b strings.Builder
	b.WriteString(faint.Render(pad(types.IntervalLabel(r.Index(), m.dayStart), labelWidth)))
	b.WriteString(pad(statusGlyph(g.Status(r)), checkWidth))
	for c := range g.Cols() {
		v := g.Cell(r, c)
		style := m.theme.cellStyle(v)
		if r.Index() == m.cursorRow && c.Index() == m.cursorCol {
			style = style.Background(m.theme.CursorBackground)
		}
		b.WriteString(style.Render(cellGlyph(v)))
	}
	return b.String()
}

func (m Model) renderTotals() string {
	g := m.grid()
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	parts := make([]string, 0, g.NumCols()+1)
	for c := range g.Cols() {
		t := g.Totals(c)
		parts = append(parts, fmt.Sprintf("%s %d/%d", g.Behavior(c).Name, t.Ind, t.Observed))
	}
	parts = append(parts, fmt.Sprintf("filled %d/%d", g.Filled(), g.Size()))
	return faint.Render("ind/observed  ") + strings.Join(parts, faint.Render(" · "))
}

func (m Model) renderMessage() string {
	if m.notice != "" {
		return lipgloss.NewStyle().Foreground(m.theme.DirtyForeground).Render(m.notice)
	}
	msg := m.session.Message()
	if strings.HasPrefix(msg, "Save failed") {
		return lipgloss.NewStyle().Foreground(m.theme.ErrorForeground).Render(msg)
	}
	return msg
}

// pad left-aligns s in a field of width columns.
func pad(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(truncate(s, width))
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
