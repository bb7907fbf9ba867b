//go:build nogui
// +build nogui

// Package gui is the desktop tag editor. This build has it disabled.
package gui

import (
	"tagdesk/internal/config"
	"tagdesk/internal/errors"
)

// Run is a stub for builds with the GUI disabled
func Run(folder string, cfg *config.Config) error {
	return errors.New("GUI not available in this build, use the tui command instead")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
