package components

import (
	"strings"

	"tagdesk/internal/flow"
	"tagdesk/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Terminal defaults for unset spacings, in cells
const (
	DefaultHSpacing = 1
	DefaultVSpacing = 0
)

// RenderChips draws tags as chips wrapped into width columns. The chip at
// selected is highlighted; pass -1 for none.
func RenderChips(tags []string, selected, width int, packer flow.Packer) string {
	if len(tags) == 0 {
		return styles.Theme.Empty.Render("no tags")
	}

	chips := make([]string, len(tags))
	items := make([]flow.Item, len(tags))
	for i, tag := range tags {
		style := styles.Theme.Chip
		if i == selected {
			style = styles.Theme.ChipSelected
		}
		chips[i] = style.Render(tag)
		items[i] = flow.Item{
			Width:  float32(lipgloss.Width(chips[i])),
			Height: float32(lipgloss.Height(chips[i])),
		}
	}

	packer = packer.Resolve(DefaultHSpacing, DefaultVSpacing)
	points, _ := packer.Layout(float32(width), items)

	// Rows are placed in order, so each chip lands on or right of the last one
	var lines []string
	var cols []int
	for i, pt := range points {
		row, col := int(pt.Y), int(pt.X)
		for len(lines) <= row {
			lines = append(lines, "")
			cols = append(cols, 0)
		}
		if col > cols[row] {
			lines[row] += strings.Repeat(" ", col-cols[row])
			cols[row] = col
		}
		lines[row] += chips[i]
		cols[row] += int(items[i].Width)
	}

	return strings.Join(lines, "\n")
}
