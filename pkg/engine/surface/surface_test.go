package surface

import (
	"testing"

	"glasshell/pkg/engine/font"
)

func newTestSurface() *Surface {
	return New(nil, font.Metrics{Size: 16, LineHeight: 22, CharWidth: 10})
}

func TestTranslateAccumulates(t *testing.T) {
	s := newTestSurface()

	s.Translate(10, 20)
	s.Translate(5, 5)

	x, y := s.Origin()
	if x != 15 || y != 25 {
		t.Errorf("Origin() = (%v, %v), want (15, 25)", x, y)
	}
}

func TestSaveRestoreBracketsTranslation(t *testing.T) {
	s := newTestSurface()
	s.Translate(10, 10)

	s.Save()
	s.Translate(100, 200)
	s.Restore()

	x, y := s.Origin()
	if x != 10 || y != 10 {
		t.Errorf("Origin() after Save/Restore = (%v, %v), want (10, 10)", x, y)
	}
}

func TestSaveRestoreNests(t *testing.T) {
	s := newTestSurface()

	s.Save()
	s.Translate(1, 1)
	s.Save()
	s.Translate(2, 2)
	s.Restore()

	if x, y := s.Origin(); x != 1 || y != 1 {
		t.Errorf("Origin() after inner Restore = (%v, %v), want (1, 1)", x, y)
	}

	s.Restore()
	if x, y := s.Origin(); x != 0 || y != 0 {
		t.Errorf("Origin() after outer Restore = (%v, %v), want (0, 0)", x, y)
	}
}

func TestRestoreOnEmptyStackIsNoop(t *testing.T) {
	s := newTestSurface()
	s.Translate(3, 4)

	s.Restore()

	if x, y := s.Origin(); x != 3 || y != 4 {
		t.Errorf("Origin() = (%v, %v), want (3, 4)", x, y)
	}
}

func TestDrawWithoutDestinationIsNoop(t *testing.T) {
	s := newTestSurface()

	// Must not panic with a nil destination image.
	s.FillTriangle(5, 8, 13, 11, 5, 14, nil)
	s.FillRect(0, 0, 10, 10, nil)
	s.DrawText("hello", nil, 0, 0, nil)
}
