package main

import (
	"fmt"
	"strings"

	"tagdesk/internal/tagstore"
	"tagdesk/pkg/types"

	"github.com/spf13/cobra"
)

// NewTagsCmd creates the tags command and its single-image subcommands
func NewTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Read and edit the tags of one image",
	}

	cmd.AddCommand(newTagsGetCmd())
	cmd.AddCommand(newTagsSetCmd())
	cmd.AddCommand(newTagsAddCmd())
	cmd.AddCommand(newTagsRmCmd())
	cmd.AddCommand(newTagsRenameCmd())

	return cmd
}

func newTagsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <image>",
		Short: "Print the tags of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := newStore().ReadTags(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tagstore.FormatTags(tags))
			return nil
		},
	}
}

func newTagsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <image> <tags>",
		Short: "Replace the tags of an image with a comma separated list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags := tagstore.ParseTags(strings.Join(args[1:], ","))
			if err := newStore().WriteTags(args[0], tags); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText(fmt.Sprintf("Wrote %d tags", len(tags))))
			return nil
		},
	}
}

func newTagsAddCmd() *cobra.Command {
	var position string

	cmd := &cobra.Command{
		Use:   "add <image> <tag>",
		Short: "Add a tag to an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			added, err := newStore().AddTag(args[0], args[1], positionFlag(position))
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintln(cmd.OutOrStdout(), warningText(fmt.Sprintf("'%s' is already there", args[1])))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText(fmt.Sprintf("Added '%s'", args[1])))
			return nil
		},
	}

	cmd.Flags().StringVar(&position, "position", "", "where to insert the tag: start or end (default from config)")
	return cmd
}

func newTagsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <image> <tag>",
		Aliases: []string{"remove"},
		Short:   "Remove a tag from an image",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := newStore().RemoveTag(args[0], args[1])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), warningText(fmt.Sprintf("'%s' is not there", args[1])))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText(fmt.Sprintf("Removed '%s'", args[1])))
			return nil
		},
	}
}

func newTagsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <image> <old> <new>",
		Short: "Rename a tag of an image in place",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newStore().RenameTag(args[0], args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText(fmt.Sprintf("Renamed '%s' to '%s'", args[1], args[2])))
			return nil
		},
	}
}

// positionFlag returns the position named by the flag, or the configured one
func positionFlag(flag string) types.Position {
	if flag != "" {
		return types.ParsePosition(flag)
	}
	return cfg.Position()
}
