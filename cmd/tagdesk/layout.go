package main

import (
	"fmt"
	"strconv"
	"strings"

	"tagdesk/internal/errors"
	"tagdesk/internal/flow"

	"github.com/spf13/cobra"
)

// NewLayoutCmd creates the layout command, which prints where the flow
// packer would place items of the given sizes
func NewLayoutCmd() *cobra.Command {
	var (
		width   float32
		spacing float32
		vspace  float32
		margin  float32
	)

	cmd := &cobra.Command{
		Use:   "layout WxH [WxH...]",
		Short: "Show how chips of the given sizes wrap in a container",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]flow.Item, 0, len(args))
			for _, a := range args {
				item, err := parseSize(a)
				if err != nil {
					return err
				}
				items = append(items, item)
			}

			p := flow.Packer{Margin: margin, HSpacing: spacing, VSpacing: vspace}
			if vspace < 0 {
				p.VSpacing = spacing
			}
			p = p.Resolve(0, 0)

			points, height := p.Layout(width, items)
			out := cmd.OutOrStdout()
			for i, pt := range points {
				fmt.Fprintf(out, "%s\t(%g, %g)\n", args[i], pt.X, pt.Y)
			}
			fmt.Fprintf(out, "height\t%g\n", height)
			return nil
		},
	}

	cmd.Flags().Float32VarP(&width, "width", "w", 80, "container width")
	cmd.Flags().Float32VarP(&spacing, "spacing", "s", 0, "gap between items on a row")
	cmd.Flags().Float32Var(&vspace, "vspacing", -1, "gap between rows (default same as --spacing)")
	cmd.Flags().Float32Var(&margin, "margin", 0, "space around the items")
	return cmd
}

// parseSize reads a "WxH" item size
func parseSize(s string) (flow.Item, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return flow.Item{}, errors.NewConfigError("size must look like WxH", s, errors.InvalidInput, nil)
	}
	fw, err := strconv.ParseFloat(w, 32)
	if err != nil || fw < 0 {
		return flow.Item{}, errors.NewConfigError("invalid width", s, errors.InvalidInput, err)
	}
	fh, err := strconv.ParseFloat(h, 32)
	if err != nil || fh < 0 {
		return flow.Item{}, errors.NewConfigError("invalid height", s, errors.InvalidInput, err)
	}
	return flow.Item{Width: float32(fw), Height: float32(fh)}, nil
}
