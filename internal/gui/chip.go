//go:build !nogui
// +build !nogui

package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// chip is a tag button: a click removes the tag, a right click edits it
type chip struct {
	widget.Button
	tag    string
	onEdit func(string)
}

func newChip(tag string, onRemove, onEdit func(string)) *chip {
	c := &chip{tag: tag, onEdit: onEdit}
	c.Text = tag
	c.Importance = widget.HighImportance
	c.OnTapped = func() { onRemove(tag) }
	c.ExtendBaseWidget(c)
	return c
}

// TappedSecondary implements fyne.SecondaryTappable
func (c *chip) TappedSecondary(*fyne.PointEvent) {
	if c.onEdit != nil {
		c.onEdit(c.tag)
	}
}
