package service

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ludo-technologies/tsgate/domain"
)

// Styles defines the visual theme for the metrics table.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// ZoneRed, ZoneYellow, ZoneGreen color-code the zone column.
	ZoneRed    lipgloss.Style
	ZoneYellow lipgloss.Style
	ZoneGreen  lipgloss.Style

	// TableHeader styles the header row of the metrics table.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text such as the empty notice.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal output.
func DefaultStyles() Styles {
	return Styles{
		ZoneRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		ZoneYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		ZoneGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("40")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// ZoneStyle returns the style for a zone value.
func (s Styles) ZoneStyle(zone domain.Zone) lipgloss.Style {
	switch zone {
	case domain.ZoneRed:
		return s.ZoneRed
	case domain.ZoneYellow:
		return s.ZoneYellow
	case domain.ZoneGreen:
		return s.ZoneGreen
	default:
		return s.Muted
	}
}
