// Package readline implements the line-editing widget a prompt wraps. It
// renders its own contents, consumes keystrokes, and hands the finalized
// text to an accept callback on Enter.
package readline

import (
	"image/color"
	"strings"
	"time"

	"github.com/zyedidia/generic/mapset"

	"glasshell/pkg/engine/layout"
	"glasshell/pkg/engine/surface"
	"glasshell/pkg/engine/view"
)

const maxHistory = 100

var (
	colorInput  = color.RGBA{200, 210, 245, 255} // Soft off-white with blue-purple tint
	colorCursor = color.RGBA{120, 130, 180, 255} // Soft blue-purple-gray
)

// wordSeps are the rune classes Ctrl-W stops at.
var wordSeps = newWordSeps()

func newWordSeps() mapset.Set[rune] {
	s := mapset.New[rune]()
	for _, r := range " \t/=:" {
		s.Put(r)
	}
	return s
}

// History is a bounded list of submitted lines. One instance is shared by
// every prompt in the process so earlier commands stay reachable from new
// prompts.
type History struct {
	lines []string
}

// Shared is the process-wide submission history.
var Shared = &History{}

// Append records a submitted line. Blank lines are skipped.
func (h *History) Append(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	h.lines = append(h.lines, line)
	if len(h.lines) > maxHistory {
		h.lines = h.lines[1:]
	}
}

// Len returns the number of recorded lines.
func (h *History) Len() int {
	return len(h.lines)
}

// At returns the i-th recorded line, oldest first.
func (h *History) At(i int) string {
	return h.lines[i]
}

// ReadLine is a single-line editor. An index equal to hist.Len() means the
// user is editing a fresh line rather than a recalled one.
type ReadLine struct {
	dirty  func()
	accept func(string)

	buf    []rune
	cursor int

	hist    *History
	histIdx int

	lastLayout layout.Layout
}

// New returns an editor wired to the shared history.
func New(dirty func()) *ReadLine {
	return NewWithHistory(dirty, Shared)
}

// NewWithHistory returns an editor recording submissions into hist.
func NewWithHistory(dirty func(), hist *History) *ReadLine {
	return &ReadLine{
		dirty:   dirty,
		hist:    hist,
		histIdx: hist.Len(),
	}
}

// OnAccept installs the submission callback invoked with the finalized text
// each time Enter is pressed.
func (rl *ReadLine) OnAccept(fn func(string)) {
	rl.accept = fn
}

// Text returns the current buffer contents.
func (rl *ReadLine) Text() string {
	return string(rl.buf)
}

// Draw renders the buffer and, when focused, a blinking block cursor.
func (rl *ReadLine) Draw(s *surface.Surface, focused bool) {
	m := s.Metrics()
	if focused && int(time.Now().UnixMilli()/500)%2 == 0 {
		x := float32(float64(rl.cursor) * m.CharWidth)
		s.FillRect(x, 0, float32(m.CharWidth), float32(m.LineHeight-2), colorCursor)
	}
	s.DrawText(string(rl.buf), m.Face, 0, 0, colorInput)
}

// Key applies one keystroke to the buffer.
func (rl *ReadLine) Key(ev view.KeyEvent) {
	switch {
	case ev.Ctrl:
		rl.controlKey(ev.Rune)
	case ev.Key != view.KeyNone:
		rl.namedKey(ev.Key)
	case ev.Rune != 0:
		rl.insert(ev.Rune)
	}
}

// Relayout consumes one text line of height within the available width.
func (rl *ReadLine) Relayout(s *surface.Surface, avail layout.Layout) layout.Layout {
	width := avail.Width
	if width < 0 {
		width = 0
	}
	rl.lastLayout = layout.Layout{Width: width, Height: s.Metrics().LineHeight}
	return rl.lastLayout
}

// LastLayout returns the size computed by the last Relayout.
func (rl *ReadLine) LastLayout() layout.Layout {
	return rl.lastLayout
}

func (rl *ReadLine) insert(r rune) {
	rl.buf = append(rl.buf[:rl.cursor], append([]rune{r}, rl.buf[rl.cursor:]...)...)
	rl.cursor++
	rl.dirty()
}

func (rl *ReadLine) controlKey(r rune) {
	switch r {
	case 'a':
		rl.cursor = 0
	case 'e':
		rl.cursor = len(rl.buf)
	case 'k':
		rl.buf = rl.buf[:rl.cursor]
	case 'u':
		rl.buf = append([]rune{}, rl.buf[rl.cursor:]...)
		rl.cursor = 0
	case 'w':
		rl.deleteWordBack()
	default:
		return
	}
	rl.dirty()
}

func (rl *ReadLine) namedKey(k view.Key) {
	switch k {
	case view.KeyLeft:
		if rl.cursor > 0 {
			rl.cursor--
		}
	case view.KeyRight:
		if rl.cursor < len(rl.buf) {
			rl.cursor++
		}
	case view.KeyHome:
		rl.cursor = 0
	case view.KeyEnd:
		rl.cursor = len(rl.buf)
	case view.KeyBackspace:
		if rl.cursor > 0 {
			rl.buf = append(rl.buf[:rl.cursor-1], rl.buf[rl.cursor:]...)
			rl.cursor--
		}
	case view.KeyDelete:
		if rl.cursor < len(rl.buf) {
			rl.buf = append(rl.buf[:rl.cursor], rl.buf[rl.cursor+1:]...)
		}
	case view.KeyUp:
		rl.historyUp()
	case view.KeyDown:
		rl.historyDown()
	case view.KeyEnter:
		rl.submit()
	default:
		return
	}
	rl.dirty()
}

func (rl *ReadLine) historyUp() {
	if rl.histIdx > 0 {
		rl.histIdx--
		rl.setBuffer(rl.hist.At(rl.histIdx))
	}
}

func (rl *ReadLine) historyDown() {
	if rl.histIdx < rl.hist.Len()-1 {
		rl.histIdx++
		rl.setBuffer(rl.hist.At(rl.histIdx))
	} else {
		rl.histIdx = rl.hist.Len()
		rl.setBuffer("")
	}
}

func (rl *ReadLine) setBuffer(text string) {
	rl.buf = []rune(text)
	rl.cursor = len(rl.buf)
}

func (rl *ReadLine) submit() {
	text := string(rl.buf)
	if strings.TrimSpace(text) == "" {
		return
	}
	rl.hist.Append(text)
	rl.histIdx = rl.hist.Len()
	if rl.accept != nil {
		rl.accept(text)
	}
}

func (rl *ReadLine) deleteWordBack() {
	rl.buf, rl.cursor = TrimWordBack(rl.buf, rl.cursor)
}

// TrimWordBack removes the word ending at cursor, along with any separators
// between the word and the cursor. Returns the new buffer and cursor.
func TrimWordBack(buf []rune, cursor int) ([]rune, int) {
	i := cursor
	for i > 0 && wordSeps.Has(buf[i-1]) {
		i--
	}
	for i > 0 && !wordSeps.Has(buf[i-1]) {
		i--
	}
	return append(buf[:i], buf[cursor:]...), i
}
