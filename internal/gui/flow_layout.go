package gui

import (
	"tagdesk/internal/flow"

	"fyne.io/fyne/v2"
)

// DefaultSpacing is the gap between chips, in pixels, when the config
// leaves it unset
const DefaultSpacing = 6

// flowLayout places objects left to right, wrapping at the container edge.
// Fyne asks for a minimum size without offering a width, so the height is
// measured against the width of the last layout pass.
type flowLayout struct {
	packer    flow.Packer
	lastWidth float32
}

// NewFlowLayout returns a fyne.Layout backed by packer. Unset spacings
// become DefaultSpacing.
func NewFlowLayout(packer flow.Packer) fyne.Layout {
	return &flowLayout{packer: packer.Resolve(DefaultSpacing, DefaultSpacing)}
}

func visibleItems(objects []fyne.CanvasObject) ([]fyne.CanvasObject, []flow.Item) {
	visible := make([]fyne.CanvasObject, 0, len(objects))
	items := make([]flow.Item, 0, len(objects))
	for _, o := range objects {
		if !o.Visible() {
			continue
		}
		ms := o.MinSize()
		visible = append(visible, o)
		items = append(items, flow.Item{Width: ms.Width, Height: ms.Height})
	}
	return visible, items
}

// Layout implements fyne.Layout
func (l *flowLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	l.lastWidth = size.Width

	visible, items := visibleItems(objects)
	points, _ := l.packer.Layout(size.Width, items)
	for i, o := range visible {
		o.Move(fyne.NewPos(points[i].X, points[i].Y))
		o.Resize(fyne.NewSize(items[i].Width, items[i].Height))
	}
}

// MinSize implements fyne.Layout
func (l *flowLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	_, items := visibleItems(objects)
	if len(items) == 0 {
		return fyne.NewSize(0, 0)
	}

	w, h := l.packer.MinSize(items)
	if l.lastWidth > 0 {
		h = l.packer.Measure(l.lastWidth, items) + 2*l.packer.Margin
	}
	return fyne.NewSize(w, h)
}
