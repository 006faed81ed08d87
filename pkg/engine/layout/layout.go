// Package layout defines the width/height value used to negotiate space
// between parent and child views. Parents hand a Layout down as available
// space; children hand one back as the size they consumed.
package layout

// Layout is a width/height pair in pixels. Pure value type.
type Layout struct {
	Width  int
	Height int
}

// New returns a zero-size Layout.
func New() Layout {
	return Layout{}
}

// Add returns a copy grown by dw and dh. No clamping: a parent subtracting
// already-consumed height may hand a child a transiently negative field, and
// children must tolerate that.
func (l Layout) Add(dw, dh int) Layout {
	return Layout{Width: l.Width + dw, Height: l.Height + dh}
}
