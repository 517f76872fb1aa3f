package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bomview/bomview/internal/media"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, paths, headings
// - Muted (gray): Secondary info, hidden tree nodes
// - Mode colors: parts that have a file of the active kind

const defaultAccent = "#A78BFA"

var (
	// Accent style for file paths, part keys, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)

	accentColor = defaultAccent
)

// modeColors are the colors of parts with a file of each kind.
var modeColors = map[media.Kind]lipgloss.Color{
	media.KindImage: lipgloss.Color("#FF0000"),
	media.Kind3DXML: lipgloss.Color("#0000FF"),
	media.KindFBX:   lipgloss.Color("#008000"),
}

// ModeStyle returns the bold style for parts that have a file of kind.
func ModeStyle(kind media.Kind) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	if c, ok := modeColors[kind]; ok {
		style = style.Foreground(c)
	}
	return style
}

// ConfigureTheme sets the accent color. "none", "off", "default" or an
// invalid value turn the accent off.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		Accent = lipgloss.NewStyle()
		AccentBold = lipgloss.NewStyle().Bold(true)
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}

// normalizeAccentColor accepts an ANSI code 0-255 or a #rgb / #rrggbb hex
// color.
func normalizeAccentColor(input string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "", "none", "off", "default":
		return "", false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return "", false
		}
		return strconv.Itoa(n), true
	}

	if !strings.HasPrefix(s, "#") {
		return "", false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return "", false
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", false
	}
	if len(hex) == 3 {
		hex = fmt.Sprintf("%c%c%c%c%c%c", hex[0], hex[0], hex[1], hex[1], hex[2], hex[2])
	}
	return "#" + hex, true
}
