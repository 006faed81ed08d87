package layout

import "testing"

func TestNewIsZero(t *testing.T) {
	l := New()
	if l.Width != 0 || l.Height != 0 {
		t.Errorf("New() = %+v, want zero value", l)
	}
}

func TestAdd(t *testing.T) {
	l := Layout{Width: 800, Height: 600}

	grown := l.Add(20, 10)
	if grown.Width != 820 || grown.Height != 610 {
		t.Errorf("Add(20, 10) = %+v, want {820 610}", grown)
	}

	// Add must not mutate the receiver.
	if l.Width != 800 || l.Height != 600 {
		t.Errorf("receiver changed to %+v after Add", l)
	}
}

func TestAddGoesNegative(t *testing.T) {
	l := Layout{Width: 800, Height: 40}

	shrunk := l.Add(0, -100)
	if shrunk.Height != -60 {
		t.Errorf("Add(0, -100).Height = %d, want -60", shrunk.Height)
	}
}
