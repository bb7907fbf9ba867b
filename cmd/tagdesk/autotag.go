package main

import (
	"fmt"

	"tagdesk/internal/tagger"
	"tagdesk/internal/tagstore"

	"github.com/spf13/cobra"
)

// NewAutotagCmd creates the autotag command
func NewAutotagCmd() *cobra.Command {
	var (
		model  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "autotag <image>",
		Short: "Suggest tags for an image with an AI tagger and merge them in",
		Long: `Run one of the configured taggers (wd, gemini, ollama, exif) on an image.
New suggestions are appended to the image's tags; tags already present
are left alone. Use --dry-run to only print the suggestions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if model == "" {
				model = cfg.Tagger.Default
			}

			t, err := tagger.CurrentFactory(model, cfg)
			if err != nil {
				return err
			}
			defer t.Close()

			var runner tagger.Runner
			task, err := runner.Start(cmd.Context(), t, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for msg := range task.Progress() {
				fmt.Fprintln(out, infoText(msg))
			}

			res := task.Wait()
			if res.Err != nil {
				return res.Err
			}

			fmt.Fprintf(out, "%s suggested: %s\n", task.Tagger(), tagstore.FormatTags(res.Tags))
			if dryRun {
				return nil
			}

			merged, err := newStore().MergeTags(args[0], res.Tags)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, successText(fmt.Sprintf("Added %d of %d tags", len(merged), len(res.Tags))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "tagger to use: wd, gemini, ollama or exif (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the suggestions without writing them")
	return cmd
}
