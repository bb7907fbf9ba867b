package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tagdesk/internal/log"
	"tagdesk/internal/watch"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [folder]",
		Short: "Follow a folder and report image and tag file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := folderArg(args)

			follower, err := watch.NewFollower(folder)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			follower.SetCallback(func(c watch.Change) {
				entry := log.LogWithFields(
					log.F("kind", c.Event.Kind.String()),
					log.F("path", c.Event.Path),
					log.F("op", c.Event.Op.String()),
				)
				if c.Reloaded {
					entry.With(log.F("current", c.Current)).Info("Image set reloaded")
					return
				}
				entry.Info("Tag file changed")
			})

			if err := follower.Start(); err != nil {
				return err
			}
			defer follower.Stop()

			st := follower.Status()
			fmt.Fprintln(out, infoText(fmt.Sprintf("Watching %s (%d images), press Ctrl+C to stop", st.Folder, st.Images)))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			st = follower.Status()
			fmt.Fprintln(out, successText(fmt.Sprintf("Stopped after %d reloads and %d tag file changes", st.Reloads, st.SidecarChanges)))
			return nil
		},
	}
}
