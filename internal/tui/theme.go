package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// Theme defines the color palette of the grid editor. Colors use ANSI
// 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	IndBackground  lipgloss.Color
	IndForeground  lipgloss.Color
	ErrForeground  lipgloss.Color
	SkipForeground lipgloss.Color

	CursorBackground lipgloss.Color
	HeaderForeground lipgloss.Color
	DirtyForeground  lipgloss.Color
	ErrorForeground  lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:       lipgloss.Color("252"),
	FaintText:        lipgloss.Color("240"),
	IndBackground:    lipgloss.Color("160"),
	IndForeground:    lipgloss.Color("231"),
	ErrForeground:    lipgloss.Color("250"),
	SkipForeground:   lipgloss.Color("243"),
	CursorBackground: lipgloss.Color("24"),
	HeaderForeground: lipgloss.Color("111"),
	DirtyForeground:  lipgloss.Color("214"),
	ErrorForeground:  lipgloss.Color("203"),
}

// cellStyle returns the style for a cell holding v.
func (theme Theme) cellStyle(v types.CellValue) lipgloss.Style {
	style := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	switch v {
	case types.CellInd:
		return style.Bold(true).Foreground(theme.IndForeground).Background(theme.IndBackground)
	case types.CellErr:
		return style.Foreground(theme.ErrForeground)
	case types.CellSkip:
		return style.Foreground(theme.SkipForeground)
	default:
		return style.Foreground(theme.FaintText)
	}
}

// cellGlyph is the text drawn inside a cell.
func cellGlyph(v types.CellValue) string {
	switch v {
	case types.CellInd:
		return "IND"
	case types.CellErr:
		return "err"
	case types.CellSkip:
		return "skip"
	default:
		return "·"
	}
}

// statusGlyph is the text drawn in the row-status column.
func statusGlyph(s types.RowStatus) string {
	switch s {
	case types.RowChecked:
		return "[x]"
	case types.RowSkipped:
		return "[-]"
	default:
		return "[ ]"
	}
}

// brushLabel names a brush in the title bar.
func brushLabel(v types.CellValue) string {
	switch v {
	case types.CellInd:
		return "IND"
	case types.CellErr:
		return "ERR"
	case types.CellSkip:
		return "SKIP"
	default:
		return "CLEAR"
	}
}
