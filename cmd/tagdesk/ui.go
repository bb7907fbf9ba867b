package main

import (
	"tagdesk/internal/gui"
	"tagdesk/internal/tui"

	"github.com/spf13/cobra"
)

// NewTUICmd creates the tui command
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [folder]",
		Short: "Edit tags in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(folderArg(args), cfg)
		},
	}
}

// NewGUICmd creates the gui command
func NewGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui [folder]",
		Short: "Edit tags in a desktop window",
		Long: `Open the desktop editor on a folder. Builds made with the nogui tag
do not include it; use the tui command there.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.Run(folderArg(args), cfg)
		},
	}
}
