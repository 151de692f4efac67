package shoptui

import "github.com/charmbracelet/lipgloss"

var (
	borderASCII = lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	clockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true).Padding(0, 1)
	clockLow    = clockStyle.Background(lipgloss.Color("124"))

	paneStyle       = lipgloss.NewStyle().Border(borderASCII).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	paneActiveStyle = paneStyle.BorderForeground(lipgloss.Color("33"))

	labelStyle       = lipgloss.NewStyle().Bold(true)
	valueMuted       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	promptStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Bold(true)
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	codeStyle        = lipgloss.NewStyle().Border(borderASCII).BorderForeground(lipgloss.Color("33")).Padding(0, 2).Bold(true)
)
