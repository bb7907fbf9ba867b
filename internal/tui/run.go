// Package tui is the terminal tag editor: one image at a time, its tags
// drawn as chips wrapped to the terminal width.
package tui

import (
	"tagdesk/internal/config"
	"tagdesk/internal/errors"
	"tagdesk/internal/log"
	"tagdesk/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the editor on folder and blocks until the user quits. The
// folder is watched so outside edits show up; a watcher that cannot start
// only costs that.
func Run(folder string, cfg *config.Config, opts ...Option) error {
	if w, err := watch.New(); err == nil {
		if err := w.AddDirectory(folder); err == nil && w.Start() == nil {
			opts = append(opts, WithWatcher(w))
		} else {
			log.Debug("Not watching %s: %v", folder, err)
		}
		defer w.Stop()
	} else {
		log.Warn("File watcher unavailable: %v", err)
	}

	m := New(folder, cfg, opts...)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "terminal editor failed")
	}
	return nil
}
