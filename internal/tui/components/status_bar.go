package components

import (
	"tagdesk/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Level picks the color of the status text
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// StatusBar shows the last message and a spinner while a task runs
type StatusBar struct {
	text    string
	level   Level
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Status

	return &StatusBar{spinner: s}
}

// SetLoading starts or stops the spinner. The returned command drives the
// animation and must be handed back to bubbletea.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

// Loading reports whether the spinner is shown
func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.level = LevelInfo
}

// SetSuccess shows text in the success color
func (s *StatusBar) SetSuccess(text string) {
	s.text = text
	s.level = LevelSuccess
}

// SetError shows err in the error color
func (s *StatusBar) SetError(err error) {
	s.text = err.Error()
	s.level = LevelError
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	style := styles.Theme.Status
	switch s.level {
	case LevelSuccess:
		style = styles.Theme.Success
	case LevelError:
		style = styles.Theme.Error
	}

	if s.loading {
		return s.spinner.View() + " " + style.Render(s.text)
	}
	return style.Render(s.text)
}
