package main

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/Adnanskuyy/ShoppingABTest/internal/ui"
)

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

var (
	consoleLabel = lipgloss.NewStyle().Bold(true)
	consoleMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	consoleCode  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

func styled(style lipgloss.Style, value string) string {
	if !ui.ColorEnabled() {
		return value
	}
	return style.Render(value)
}
