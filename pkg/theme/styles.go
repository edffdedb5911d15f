package theme

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles derived from one palette.
type Styles struct {
	Title    lipgloss.Style
	Logo     lipgloss.Style
	Subtitle lipgloss.Style
	Dim      lipgloss.Style

	Button       lipgloss.Style
	ButtonActive lipgloss.Style

	Block        lipgloss.Style
	BlockFocused lipgloss.Style
	BlockLabel   lipgloss.Style

	OK      lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// NewStyles builds the style set for t.
func NewStyles(t Theme) Styles {
	fg := lipgloss.Color(t.Foreground)
	dim := lipgloss.Color(t.Dim)
	accent := lipgloss.Color(t.Accent)

	block := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Border)).
		Foreground(fg).
		Padding(0, 1)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(fg),
		Logo:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Logo)),
		Subtitle: lipgloss.NewStyle().Foreground(dim),
		Dim:      lipgloss.NewStyle().Foreground(dim),

		Button: lipgloss.NewStyle().
			Foreground(accent).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		ButtonActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.ButtonFg)).
			Background(lipgloss.Color(t.ButtonBg)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Block:        block,
		BlockFocused: block.BorderForeground(lipgloss.Color(t.BorderFocus)),
		BlockLabel:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Title)),

		OK:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.StatusOK)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.StatusWarn)),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.StatusError)),

		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.HelpKey)),
		HelpDesc: lipgloss.NewStyle().Foreground(lipgloss.Color(t.HelpDesc)),
	}
}
