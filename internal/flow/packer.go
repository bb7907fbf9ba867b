// Package flow packs variable-size items into left-to-right rows that wrap
// at the container's right edge, the way words wrap in a paragraph.
package flow

// Unset marks a spacing that should fall back to the caller's default.
const Unset float32 = -1

// Item is the size of one element to place
type Item struct {
	Width, Height float32
}

// Point is the top-left corner assigned to an item
type Point struct {
	X, Y float32
}

// Packer holds the spacing used for a layout pass.
type Packer struct {
	Margin   float32
	HSpacing float32
	VSpacing float32
}

// New returns a packer with both spacings unset
func New(margin float32) Packer {
	return Packer{Margin: margin, HSpacing: Unset, VSpacing: Unset}
}

// Resolve replaces unset (negative) spacings with the given defaults
func (p Packer) Resolve(defaultH, defaultV float32) Packer {
	if p.HSpacing < 0 {
		p.HSpacing = defaultH
	}
	if p.VSpacing < 0 {
		p.VSpacing = defaultV
	}
	return p
}

// Layout places items inside a container of the given width and returns
// their positions plus the total height used. Positions are relative to the
// container's top-left corner, so the first item sits at (Margin, Margin).
func (p Packer) Layout(width float32, items []Item) ([]Point, float32) {
	points := make([]Point, len(items))
	height := p.pack(width, items, func(i int, pt Point) {
		points[i] = pt
	})
	return points, height
}

// Measure returns the height Layout would use without computing positions
func (p Packer) Measure(width float32, items []Item) float32 {
	return p.pack(width, items, nil)
}

// MinSize is the smallest container that shows the widest and the tallest
// item, margins included.
func (p Packer) MinSize(items []Item) (float32, float32) {
	var w, h float32
	for _, it := range items {
		w = max(w, it.Width)
		h = max(h, it.Height)
	}
	return w + 2*p.Margin, h + 2*p.Margin
}

// pack walks the items once. An item wraps only when its right edge is
// strictly past the right bound and the row already holds something.
func (p Packer) pack(width float32, items []Item, place func(int, Point)) float32 {
	left, top := p.Margin, p.Margin
	right := width - p.Margin
	hs, vs := max(p.HSpacing, 0), max(p.VSpacing, 0)

	x, y := left, top
	var lineHeight float32

	for i, it := range items {
		if x+it.Width > right && lineHeight > 0 {
			x = left
			y += lineHeight + vs
			lineHeight = 0
		}
		if place != nil {
			place(i, Point{X: x, Y: y})
		}
		x += it.Width + hs
		lineHeight = max(lineHeight, it.Height)
	}

	return y + lineHeight - top
}
