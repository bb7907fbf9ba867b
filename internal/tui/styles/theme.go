package styles

import (
	"tagdesk/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds every style the editor renders with
type Styles struct {
	App          lipgloss.Style
	Title        lipgloss.Style
	Info         lipgloss.Style
	Chip         lipgloss.Style
	ChipSelected lipgloss.Style
	Empty        lipgloss.Style
	Prompt       lipgloss.Style
	Status       lipgloss.Style
	Success      lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
}

// Theme is the active set of styles. Apply replaces it.
var Theme = New(config.New())

// Apply rebuilds Theme from the colors of cfg
func Apply(cfg *config.Config) {
	Theme = New(cfg)
}

// New builds styles from the theme section of cfg
func New(cfg *config.Config) Styles {
	t := cfg.Theme
	primary := lipgloss.Color(t.Primary)
	border := lipgloss.Color(t.Border)
	emphasis := lipgloss.Color(t.Emphasis)

	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),
		// Chips stay one cell high so rows map to terminal lines
		Chip: lipgloss.NewStyle().
			Foreground(border).
			Padding(0, 1),
		ChipSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(emphasis).
			Padding(0, 1),
		Empty: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color(t.Info)),
		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Warning)),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)),
		Help: lipgloss.NewStyle().
			Foreground(border),
	}
}
