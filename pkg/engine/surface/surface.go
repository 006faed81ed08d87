// Package surface wraps the destination image behind the translate/save/
// restore discipline the view tree draws through, so each child view works
// in its own coordinate space.
package surface

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"glasshell/pkg/engine/font"
)

// Surface is a drawing target plus a translation stack and the shared font
// metrics. A Surface built without a destination image still tracks
// transforms and metrics; draw calls become no-ops. Layout passes use that.
type Surface struct {
	dst     *ebiten.Image
	metrics font.Metrics

	ox, oy float64
	stack  []offset
}

type offset struct {
	x, y float64
}

// New wraps dst with an identity transform. dst may be nil for layout-only
// passes.
func New(dst *ebiten.Image, m font.Metrics) *Surface {
	return &Surface{dst: dst, metrics: m}
}

// Metrics returns the shared text geometry.
func (s *Surface) Metrics() font.Metrics {
	return s.metrics
}

// Save pushes the current translation.
func (s *Surface) Save() {
	s.stack = append(s.stack, offset{s.ox, s.oy})
}

// Restore pops the translation pushed by the matching Save.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.ox, s.oy = top.x, top.y
}

// Translate moves the drawing origin by (dx, dy).
func (s *Surface) Translate(dx, dy float64) {
	s.ox += dx
	s.oy += dy
}

// Origin returns the current drawing origin in destination coordinates.
func (s *Surface) Origin() (x, y float64) {
	return s.ox, s.oy
}

// FillTriangle fills the triangle with vertices (x1,y1), (x2,y2), (x3,y3),
// given in the current coordinate space.
func (s *Surface) FillTriangle(x1, y1, x2, y2, x3, y3 float32, col color.Color) {
	if s.dst == nil {
		return
	}
	ox, oy := float32(s.ox), float32(s.oy)

	var path vector.Path
	path.MoveTo(x1+ox, y1+oy)
	path.LineTo(x2+ox, y2+oy)
	path.LineTo(x3+ox, y3+oy)
	path.Close()

	drawOpts := &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(col)
	vector.FillPath(s.dst, &path, nil, drawOpts)
}

// FillRect fills an axis-aligned rectangle in the current coordinate space.
func (s *Surface) FillRect(x, y, w, h float32, col color.Color) {
	if s.dst == nil {
		return
	}
	vector.DrawFilledRect(s.dst, x+float32(s.ox), y+float32(s.oy), w, h, col, false)
}

// DrawText draws str with its top-left corner at (x, y) in the current
// coordinate space. text/v2 Draw uses top-left as the origin point.
func (s *Surface) DrawText(str string, face *text.GoTextFace, x, y float64, col color.Color) {
	if s.dst == nil || face == nil || str == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(s.ox+x, s.oy+y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(s.dst, str, face, op)
}
