package readline

import (
	"testing"

	"glasshell/pkg/engine/font"
	"glasshell/pkg/engine/layout"
	"glasshell/pkg/engine/surface"
	"glasshell/pkg/engine/view"
)

func newTestEditor(t *testing.T) *ReadLine {
	t.Helper()
	return NewWithHistory(func() {}, &History{})
}

func typeString(rl *ReadLine, s string) {
	for _, r := range s {
		rl.Key(view.KeyEvent{Rune: r})
	}
}

func TestInsertAndCursor(t *testing.T) {
	rl := newTestEditor(t)

	typeString(rl, "ls -la")
	if got := rl.Text(); got != "ls -la" {
		t.Errorf("Text() = %q, want %q", got, "ls -la")
	}
	if rl.cursor != 6 {
		t.Errorf("cursor = %d, want 6", rl.cursor)
	}
}

func TestInsertMidLine(t *testing.T) {
	rl := newTestEditor(t)
	typeString(rl, "ct")

	rl.Key(view.KeyEvent{Key: view.KeyLeft})
	rl.Key(view.KeyEvent{Rune: 'a'})

	if got := rl.Text(); got != "cat" {
		t.Errorf("Text() = %q, want %q", got, "cat")
	}
}

func TestBackspaceAndDelete(t *testing.T) {
	rl := newTestEditor(t)
	typeString(rl, "abc")

	rl.Key(view.KeyEvent{Key: view.KeyBackspace})
	if got := rl.Text(); got != "ab" {
		t.Errorf("Text() after backspace = %q, want %q", got, "ab")
	}

	rl.Key(view.KeyEvent{Key: view.KeyHome})
	rl.Key(view.KeyEvent{Key: view.KeyDelete})
	if got := rl.Text(); got != "b" {
		t.Errorf("Text() after delete = %q, want %q", got, "b")
	}
}

func TestControlKeys(t *testing.T) {
	rl := newTestEditor(t)
	typeString(rl, "hello world")

	rl.Key(view.KeyEvent{Rune: 'a', Ctrl: true})
	if rl.cursor != 0 {
		t.Errorf("cursor after ctrl-a = %d, want 0", rl.cursor)
	}

	rl.Key(view.KeyEvent{Rune: 'e', Ctrl: true})
	if rl.cursor != 11 {
		t.Errorf("cursor after ctrl-e = %d, want 11", rl.cursor)
	}

	rl.Key(view.KeyEvent{Rune: 'u', Ctrl: true})
	if got := rl.Text(); got != "" {
		t.Errorf("Text() after ctrl-u = %q, want empty", got)
	}
}

func TestKillToEnd(t *testing.T) {
	rl := newTestEditor(t)
	typeString(rl, "hello world")
	for i := 0; i < 6; i++ {
		rl.Key(view.KeyEvent{Key: view.KeyLeft})
	}

	rl.Key(view.KeyEvent{Rune: 'k', Ctrl: true})

	if got := rl.Text(); got != "hello" {
		t.Errorf("Text() after ctrl-k = %q, want %q", got, "hello")
	}
}

func TestDeleteWordBack(t *testing.T) {
	rl := newTestEditor(t)
	typeString(rl, "git commit -m")

	rl.Key(view.KeyEvent{Rune: 'w', Ctrl: true})
	if got := rl.Text(); got != "git commit " {
		t.Errorf("Text() after first ctrl-w = %q, want %q", got, "git commit ")
	}

	rl.Key(view.KeyEvent{Rune: 'w', Ctrl: true})
	if got := rl.Text(); got != "git " {
		t.Errorf("Text() after second ctrl-w = %q, want %q", got, "git ")
	}
}

func TestAcceptFiresPerEnter(t *testing.T) {
	rl := newTestEditor(t)
	var got []string
	rl.OnAccept(func(text string) { got = append(got, text) })

	typeString(rl, "ls")
	rl.Key(view.KeyEvent{Key: view.KeyEnter})
	rl.Key(view.KeyEvent{Key: view.KeyEnter})

	if len(got) != 2 || got[0] != "ls" || got[1] != "ls" {
		t.Errorf("accept calls = %v, want [ls ls]", got)
	}
}

func TestBlankSubmissionIgnored(t *testing.T) {
	rl := newTestEditor(t)
	calls := 0
	rl.OnAccept(func(string) { calls++ })

	rl.Key(view.KeyEvent{Key: view.KeyEnter})
	typeString(rl, "   ")
	rl.Key(view.KeyEvent{Key: view.KeyEnter})

	if calls != 0 {
		t.Errorf("accept fired %d times on blank input, want 0", calls)
	}
	if rl.hist.Len() != 0 {
		t.Errorf("history recorded %d blank lines, want 0", rl.hist.Len())
	}
}

func TestHistoryNavigation(t *testing.T) {
	hist := &History{}
	hist.Append("first")
	hist.Append("second")
	rl := NewWithHistory(func() {}, hist)

	rl.Key(view.KeyEvent{Key: view.KeyUp})
	if got := rl.Text(); got != "second" {
		t.Errorf("Text() after up = %q, want %q", got, "second")
	}

	rl.Key(view.KeyEvent{Key: view.KeyUp})
	if got := rl.Text(); got != "first" {
		t.Errorf("Text() after up up = %q, want %q", got, "first")
	}

	// Walking past the oldest entry stays there.
	rl.Key(view.KeyEvent{Key: view.KeyUp})
	if got := rl.Text(); got != "first" {
		t.Errorf("Text() past oldest = %q, want %q", got, "first")
	}

	rl.Key(view.KeyEvent{Key: view.KeyDown})
	if got := rl.Text(); got != "second" {
		t.Errorf("Text() after down = %q, want %q", got, "second")
	}

	// Walking past the newest entry clears back to a fresh line.
	rl.Key(view.KeyEvent{Key: view.KeyDown})
	if got := rl.Text(); got != "" {
		t.Errorf("Text() past newest = %q, want empty", got)
	}
}

func TestHistorySharedAcrossEditors(t *testing.T) {
	hist := &History{}
	first := NewWithHistory(func() {}, hist)
	first.OnAccept(func(string) {})
	typeString(first, "make test")
	first.Key(view.KeyEvent{Key: view.KeyEnter})

	second := NewWithHistory(func() {}, hist)
	second.Key(view.KeyEvent{Key: view.KeyUp})

	if got := second.Text(); got != "make test" {
		t.Errorf("Text() in fresh editor after up = %q, want %q", got, "make test")
	}
}

func TestHistoryCap(t *testing.T) {
	h := &History{}
	for i := 0; i < maxHistory+10; i++ {
		h.Append("cmd")
	}
	if h.Len() != maxHistory {
		t.Errorf("Len() = %d, want %d", h.Len(), maxHistory)
	}
}

func TestDirtyFiresOnEdit(t *testing.T) {
	calls := 0
	rl := NewWithHistory(func() { calls++ }, &History{})

	rl.Key(view.KeyEvent{Rune: 'x'})
	rl.Key(view.KeyEvent{Key: view.KeyBackspace})

	if calls != 2 {
		t.Errorf("dirty fired %d times, want 2", calls)
	}
}

func TestRelayout(t *testing.T) {
	rl := newTestEditor(t)
	s := surface.New(nil, font.Metrics{Size: 16, LineHeight: 22, CharWidth: 10})

	got := rl.Relayout(s, layout.Layout{Width: 780, Height: 590})
	if got.Width != 780 || got.Height != 22 {
		t.Errorf("Relayout() = %+v, want {780 22}", got)
	}
	if rl.LastLayout() != got {
		t.Errorf("LastLayout() = %+v, want %+v", rl.LastLayout(), got)
	}

	// Negative available space is tolerated and reported non-negative.
	got = rl.Relayout(s, layout.Layout{Width: -10, Height: -5})
	if got.Width != 0 || got.Height != 22 {
		t.Errorf("Relayout(negative) = %+v, want {0 22}", got)
	}
}
