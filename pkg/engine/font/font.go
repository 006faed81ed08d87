// Package font loads the embedded faces and derives the fixed text geometry
// shared by every prompt and terminal session.
package font

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

// Metrics carries the shared text geometry. It is copied by value; the Face
// pointer inside is shared and read-only.
type Metrics struct {
	Face *text.GoTextFace

	// Size is the face's point size.
	Size float64

	// LineHeight is the vertical advance per text line, in pixels.
	LineHeight int

	// CharWidth is the advance of one monospace cell, in pixels.
	CharWidth float64
}

// MonoSource parses the embedded monospace face.
func MonoSource() (*text.GoTextFaceSource, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("parse embedded mono font: %w", err)
	}
	return src, nil
}

// NewMetrics builds Metrics for src at the given size. Line height is the
// font size plus 6px of spacing.
func NewMetrics(src *text.GoTextFaceSource, size float64) Metrics {
	face := &text.GoTextFace{Source: src, Size: size}
	lineHeight := int(size) + 6
	w, _ := text.Measure("M", face, float64(lineHeight))
	return Metrics{
		Face:       face,
		Size:       size,
		LineHeight: lineHeight,
		CharWidth:  w,
	}
}
