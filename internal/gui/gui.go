//go:build !nogui
// +build !nogui

// Package gui is the desktop tag editor.
package gui

import (
	"tagdesk/internal/config"

	"fyne.io/fyne/v2/app"
)

// Run opens the editor on folder and blocks until the window closes
func Run(folder string, cfg *config.Config) error {
	a := app.NewWithID("io.github.tagdesk")
	e := NewEditor(a, folder, cfg)
	e.watch(folder)
	e.Window().ShowAndRun()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
