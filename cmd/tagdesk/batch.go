package main

import (
	"fmt"
	"io"

	"tagdesk/internal/errors"
	"tagdesk/internal/images"
	"tagdesk/pkg/types"

	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command for edits across a whole folder
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Add or remove a tag on every image of a folder",
	}

	var position string
	add := &cobra.Command{
		Use:   "add <folder> <tag>",
		Short: "Add a tag to every image of a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := folderImages(args[0])
			if err != nil {
				return err
			}
			res, err := newStore().AddTagToAll(paths, args[1], positionFlag(position))
			if err != nil {
				return err
			}
			return reportBatch(cmd.OutOrStdout(), fmt.Sprintf("Added '%s' to %d images", args[1], res.Modified), res)
		},
	}
	add.Flags().StringVar(&position, "position", "", "where to insert the tag: start or end (default from config)")

	rm := &cobra.Command{
		Use:     "rm <folder> <tag>",
		Aliases: []string{"remove"},
		Short:   "Remove a tag from every image of a folder",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := folderImages(args[0])
			if err != nil {
				return err
			}
			res, err := newStore().RemoveTagFromAll(paths, args[1])
			if err != nil {
				return err
			}
			return reportBatch(cmd.OutOrStdout(), fmt.Sprintf("Removed '%s' from %d images", args[1], res.Modified), res)
		},
	}

	cmd.AddCommand(add)
	cmd.AddCommand(rm)
	return cmd
}

// folderImages lists the images of folder, failing on an empty folder
func folderImages(folder string) ([]string, error) {
	paths := images.Load(folder).Paths()
	if len(paths) == 0 {
		return nil, errors.NewFileError("no images found", folder, errors.NotFound, nil)
	}
	return paths, nil
}

// reportBatch prints the summary and failures, and turns failures into an
// error so the exit status reflects them
func reportBatch(w io.Writer, summary string, res types.BatchResult) error {
	if !res.Failed() {
		fmt.Fprintln(w, successText(summary))
		return nil
	}

	fmt.Fprintln(w, warningText(summary))
	for _, f := range res.Failures {
		fmt.Fprintf(w, "  %s %s: %v\n", errorText("✗"), f.Path, f.Err)
	}
	return errors.Newf("%d images failed", len(res.Failures))
}
