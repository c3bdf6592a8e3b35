package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tagcalc/internal/token"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("17")).Background(lipgloss.Color("153")).Padding(0, 1)
	operatorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	textStyle     = lipgloss.NewStyle()
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	resultStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

func chipStyle(kind token.Kind) lipgloss.Style {
	switch kind {
	case token.KindTag:
		return tagStyle
	case token.KindOperator:
		return operatorStyle
	case token.KindNumber:
		return numberStyle
	default:
		return textStyle
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
