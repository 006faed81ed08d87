// Package log implements the scrollback: an append-only list of entries,
// each an editable prompt that turns into a running command. The host must
// call every method from its event goroutine; only the terminal sessions
// inside entries are concurrent.
package log

import (
	"image/color"

	"glasshell/pkg/engine/font"
	"glasshell/pkg/engine/layout"
	"glasshell/pkg/engine/surface"
	"glasshell/pkg/engine/view"
	"glasshell/pkg/shell/readline"
	"glasshell/pkg/shell/term"
)

// Margin a prompt adds around its read line, and the origin the read line
// is drawn at inside that margin.
const (
	promptMarginWidth  = 20
	promptMarginHeight = 10
	promptInsetX       = 18
	promptInsetY       = 5
)

var colorGlyph = color.RGBA{178, 178, 178, 255} // Light gray

// newTerm builds the terminal session for an accepted command. A variable
// so tests can substitute a session that never touches a pty.
var newTerm = func(dirty func(), metrics font.Metrics, command string, done func()) view.View {
	return term.New(dirty, metrics, command, done)
}

// prompt decorates a read line with a margin and an arrow glyph.
type prompt struct {
	rl *readline.ReadLine
}

func newPrompt(rl *readline.ReadLine) *prompt {
	return &prompt{rl: rl}
}

func (p *prompt) Draw(s *surface.Surface, focused bool) {
	s.Save()
	height := float32(p.LastLayout().Height)
	s.FillTriangle(5, 8, 13, height/2, 5, height-8, colorGlyph)

	s.Translate(promptInsetX, promptInsetY)
	p.rl.Draw(s, focused)
	s.Restore()
}

func (p *prompt) Key(ev view.KeyEvent) {
	p.rl.Key(ev)
}

func (p *prompt) Relayout(s *surface.Surface, avail layout.Layout) layout.Layout {
	p.rl.Relayout(s, avail.Add(-promptMarginWidth, -promptMarginHeight))
	return p.LastLayout()
}

func (p *prompt) LastLayout() layout.Layout {
	return p.rl.LastLayout().Add(promptMarginWidth, promptMarginHeight)
}

// LogEntry is one line of the scrollback. It starts as a bare prompt; when
// the prompt accepts a command the entry gains a terminal session below it.
type LogEntry struct {
	prompt *prompt
	term   view.View
	layout layout.Layout
}

// NewEntry builds a pending entry. done is forwarded to the terminal the
// first accepted command creates, so it fires when that command finishes.
func NewEntry(dirty func(), metrics font.Metrics, done func()) *LogEntry {
	e := &LogEntry{
		prompt: newPrompt(readline.New(dirty)),
	}

	// The accept callback fires once per Enter press. Only the first
	// submission may create a terminal, and creation is deferred to a
	// task so the entry is not mutated mid-dispatch.
	accepted := false
	e.prompt.rl.OnAccept(func(text string) {
		if accepted {
			return
		}
		accepted = true
		view.AddTask(func() {
			e.term = newTerm(dirty, metrics, text, done)
		})
	})
	return e
}

func (e *LogEntry) Draw(s *surface.Surface, focused bool) {
	if e.term != nil {
		e.prompt.Draw(s, false)
		s.Save()
		s.Translate(0, float64(e.prompt.LastLayout().Height))
		e.term.Draw(s, focused)
		s.Restore()
	} else {
		e.prompt.Draw(s, focused)
	}
}

func (e *LogEntry) Key(ev view.KeyEvent) {
	if e.term != nil {
		e.term.Key(ev)
	} else {
		e.prompt.Key(ev)
	}
}

func (e *LogEntry) Relayout(s *surface.Surface, avail layout.Layout) layout.Layout {
	l := e.prompt.Relayout(s, avail)
	if e.term != nil {
		tl := e.term.Relayout(s, layout.Layout{
			Width:  avail.Width,
			Height: avail.Height - l.Height,
		})
		l = l.Add(tl.Width, tl.Height)
	}
	e.layout = l
	return l
}

func (e *LogEntry) LastLayout() layout.Layout {
	return e.layout
}

// Log is the scrollback itself. The last entry is always a pending prompt;
// a new one is appended when the previous entry's command finishes.
type Log struct {
	entries []*LogEntry
	dirty   func()
	metrics font.Metrics
	layout  layout.Layout
}

// New builds a log holding a single pending entry.
func New(dirty func(), metrics font.Metrics) *Log {
	l := &Log{dirty: dirty, metrics: metrics}
	l.newEntry()
	return l
}

func (l *Log) newEntry() {
	entry := NewEntry(l.dirty, l.metrics, l.newEntry)
	l.entries = append(l.entries, entry)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Draw renders the entries top to bottom. Only the last entry can show
// focus, and only when the log itself has it.
func (l *Log) Draw(s *surface.Surface, focused bool) {
	s.Save()
	for i, entry := range l.entries {
		last := i == len(l.entries)-1
		entry.Draw(s, focused && last)
		s.Translate(0, float64(entry.LastLayout().Height))
	}
	s.Restore()
}

// Key forwards the event to the last entry.
func (l *Log) Key(ev view.KeyEvent) {
	l.entries[len(l.entries)-1].Key(ev)
}

// Relayout lays the entries out top to bottom, offering each the space
// left under the ones above it, floored at zero.
func (l *Log) Relayout(s *surface.Surface, avail layout.Layout) layout.Layout {
	height := 0
	for _, entry := range l.entries {
		remaining := avail.Add(0, -height)
		if remaining.Height < 0 {
			remaining.Height = 0
		}
		el := entry.Relayout(s, remaining)
		height += el.Height
	}
	l.layout = layout.Layout{Width: avail.Width, Height: height}
	return l.layout
}

func (l *Log) LastLayout() layout.Layout {
	return l.layout
}
