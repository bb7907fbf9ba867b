package main

import (
	"fmt"

	"tagdesk/internal/images"
	"tagdesk/internal/log"
	"tagdesk/internal/tagstore"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [folder]",
		Short: "List the images of a folder with their tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := folderArg(args)
			paths := images.Load(folder).Paths()
			out := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintln(out, warningText("No images in "+folder))
				return nil
			}

			store := newStore()
			for _, p := range paths {
				info, err := images.Probe(p)
				if err != nil {
					log.LogWithError(err).Debug("Probe failed")
				}
				fmt.Fprintln(out, infoText(info.String()))

				tags, err := store.ReadTags(p)
				if err != nil {
					fmt.Fprintf(out, "  %s\n", errorText(err.Error()))
					continue
				}
				if len(tags) == 0 {
					fmt.Fprintln(out, "  (no tags)")
					continue
				}
				fmt.Fprintf(out, "  %s\n", tagstore.FormatTags(tags))
			}
			return nil
		},
	}
}
