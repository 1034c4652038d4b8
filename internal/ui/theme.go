package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + panel border.
// Renderers pull from Current().
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help, Inert                   lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymEdit, SymCursor       string
}

// Placeholder stands in for an item with empty text.
const Placeholder = "(empty)"

// Themes lists the names SetTheme accepts.
var Themes = []string{"classic", "neon", "mono"}

var current = build("classic")

// SetTheme switches the theme; unknown names fall back to classic.
func SetTheme(name string) { current = build(name) }

// Current returns the active theme.
func Current() Theme { return current }

func build(name string) Theme {
	plain := lipgloss.NewStyle()
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:     "neon",
			Title:    plain.Bold(true).Foreground(lipgloss.Color("13")),
			Muted:    plain.Faint(true),
			Accent:   plain.Foreground(lipgloss.Color("14")),
			Success:  plain.Foreground(lipgloss.Color("10")),
			Error:    plain.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:  plain.Foreground(lipgloss.Color("11")),
			Selected: plain.Bold(true).Foreground(lipgloss.Color("13")),
			Done:     plain.Faint(true).Strikethrough(true),
			Help:     plain.Faint(true),
			Inert:    plain.Faint(true).Underline(true),

			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),

			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•", SymEdit: "✎", SymCursor: "❯ ",
		}
	case "mono":
		return Theme{
			Name:     "mono",
			Title:    plain,
			Muted:    plain,
			Accent:   plain,
			Success:  plain,
			Error:    plain,
			Pending:  plain,
			Selected: plain,
			Done:     plain,
			Help:     plain,
			Inert:    plain,

			Border:      lipgloss.NormalBorder(),
			BorderColor: lipgloss.NoColor{},

			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-", SymEdit: "*", SymCursor: "> ",
		}
	default:
		return Theme{
			Name:     "classic",
			Title:    plain.Bold(true),
			Muted:    plain.Faint(true),
			Accent:   plain.Foreground(lipgloss.Color("12")),
			Success:  plain.Foreground(lipgloss.Color("42")),
			Error:    plain.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:  plain.Foreground(lipgloss.Color("214")),
			Selected: plain.Bold(true).Reverse(true),
			Done:     plain.Faint(true).Strikethrough(true),
			Help:     plain.Faint(true),
			Inert:    plain.Faint(true).Underline(true),

			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("8"),

			BoxUnchecked: "☐", BoxChecked: "☑",
			SymDone: "✔", SymPending: "•", SymEdit: "✎", SymCursor: "> ",
		}
	}
}

// Label returns text, or the placeholder when text is empty.
func Label(text string) string {
	if text == "" {
		return Placeholder
	}
	return text
}
