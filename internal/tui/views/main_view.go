package views

import (
	"fmt"
	"strings"

	"tagdesk/internal/tui/common"
	"tagdesk/internal/tui/styles"
	"tagdesk/pkg/types"
)

// RenderMainView draws the header, the tag chips, the input or prompt line,
// the status bar and the key help, top to bottom.
func RenderMainView(m common.ModelReader, chips string) string {
	var sb strings.Builder

	sb.WriteString(RenderHeader(m.Header()))
	sb.WriteString("\n\n")

	if m.Header().Total > 0 {
		sb.WriteString(chips)
		sb.WriteString("\n\n")
	}

	switch m.Mode() {
	case types.Adding, types.Renaming:
		sb.WriteString(m.InputView())
		sb.WriteString("\n")
	case types.Confirm:
		sb.WriteString(styles.Theme.Prompt.Render(m.Prompt() + " [y/N]"))
		sb.WriteString("\n")
	}

	if status := m.StatusView(); status != "" {
		sb.WriteString(status)
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Theme.Help.Render(m.HelpView()))

	return styles.Theme.App.Render(sb.String())
}

// RenderHeader shows the image name, its position in the folder and the
// probe summary
func RenderHeader(h common.Header) string {
	if h.Total == 0 {
		return styles.Theme.Title.Render("No images in this folder")
	}

	line := styles.Theme.Title.Render(h.Name) + " " +
		styles.Theme.Info.Render(fmt.Sprintf("(%d/%d)", h.Index+1, h.Total))
	if h.Info != "" {
		line += "  " + styles.Theme.Info.Render(h.Info)
	}
	return line
}
