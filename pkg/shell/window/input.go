package window

import (
	"time"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"glasshell/pkg/engine/view"
)

const (
	keyRepeatInitialDelay = 500 // Initial delay before first repeat (milliseconds)
	keyRepeatInterval     = 100 // Interval between repeat events (milliseconds)
)

// keyRepeatInfo tracks the repeat state for a held key
type keyRepeatInfo struct {
	firstPressed int64 // Timestamp when first pressed (milliseconds)
	lastRepeat   int64 // Timestamp when last repeat event was sent (milliseconds)
}

// repeatingKeys auto-repeat while held, like the editing keys of a
// hardware terminal.
var repeatingKeys = []struct {
	key  ebiten.Key
	name view.Key
	code string
}{
	{ebiten.KeyArrowUp, view.KeyUp, "key_arrow_up"},
	{ebiten.KeyArrowDown, view.KeyDown, "key_arrow_down"},
	{ebiten.KeyArrowLeft, view.KeyLeft, "key_arrow_left"},
	{ebiten.KeyArrowRight, view.KeyRight, "key_arrow_right"},
	{ebiten.KeyBackspace, view.KeyBackspace, "key_backspace"},
	{ebiten.KeyDelete, view.KeyDelete, "key_delete"},
	{ebiten.KeyPageUp, view.KeyPageUp, "key_page_up"},
	{ebiten.KeyPageDown, view.KeyPageDown, "key_page_down"},
}

// pressOnceKeys fire only on the initial press.
var pressOnceKeys = []struct {
	key  ebiten.Key
	name view.Key
}{
	{ebiten.KeyEnter, view.KeyEnter},
	{ebiten.KeyKPEnter, view.KeyEnter},
	{ebiten.KeyTab, view.KeyTab},
	{ebiten.KeyEscape, view.KeyEscape},
	{ebiten.KeyHome, view.KeyHome},
	{ebiten.KeyEnd, view.KeyEnd},
}

// punctKeys map punctuation keys to their plain and shifted runes on a US
// layout.
var punctKeys = []struct {
	key            ebiten.Key
	plain, shifted rune
}{
	{ebiten.KeyMinus, '-', '_'},
	{ebiten.KeyEqual, '=', '+'},
	{ebiten.KeyBracketLeft, '[', '{'},
	{ebiten.KeyBracketRight, ']', '}'},
	{ebiten.KeyBackslash, '\\', '|'},
	{ebiten.KeySemicolon, ';', ':'},
	{ebiten.KeyApostrophe, '\'', '"'},
	{ebiten.KeyComma, ',', '<'},
	{ebiten.KeyPeriod, '.', '>'},
	{ebiten.KeySlash, '/', '?'},
	{ebiten.KeyGraveAccent, '`', '~'},
}

var shiftedDigits = [10]rune{')', '!', '@', '#', '$', '%', '^', '&', '*', '('}

// shouldRepeatKey reports whether a held key should trigger now, either as
// the initial press or as an auto-repeat after the initial delay.
func (w *Window) shouldRepeatKey(pressed bool, code string) bool {
	now := time.Now().UnixMilli()

	state, exists := w.keyRepeatState[code]
	if !pressed {
		if exists {
			delete(w.keyRepeatState, code)
		}
		return false
	}
	if !exists {
		w.keyRepeatState[code] = keyRepeatInfo{firstPressed: now, lastRepeat: now}
		return true
	}
	if now-state.firstPressed >= keyRepeatInitialDelay && now-state.lastRepeat >= keyRepeatInterval {
		state.lastRepeat = now
		w.keyRepeatState[code] = state
		return true
	}
	return false
}

// collectKeyEvents turns this tick's keyboard state into key events.
func (w *Window) collectKeyEvents() []view.KeyEvent {
	var evs []view.KeyEvent
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	for _, rk := range repeatingKeys {
		if w.shouldRepeatKey(ebiten.IsKeyPressed(rk.key), rk.code) {
			evs = append(evs, view.KeyEvent{Key: rk.name})
		}
	}
	for _, pk := range pressOnceKeys {
		if inpututil.IsKeyJustPressed(pk.key) {
			evs = append(evs, view.KeyEvent{Key: pk.name})
		}
	}

	for k := ebiten.KeyA; k <= ebiten.KeyZ; k++ {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		r := rune('a' + (k - ebiten.KeyA))
		switch {
		case ctrl:
			evs = append(evs, view.KeyEvent{Rune: r, Ctrl: true})
		case shift:
			evs = append(evs, view.KeyEvent{Rune: unicode.ToUpper(r)})
		default:
			evs = append(evs, view.KeyEvent{Rune: r})
		}
	}
	for k := ebiten.Key0; k <= ebiten.Key9; k++ {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		r := rune('0' + (k - ebiten.Key0))
		if shift {
			r = shiftedDigits[int(k-ebiten.Key0)]
		}
		evs = append(evs, view.KeyEvent{Rune: r})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		evs = append(evs, view.KeyEvent{Rune: ' '})
	}
	for _, pk := range punctKeys {
		if !inpututil.IsKeyJustPressed(pk.key) {
			continue
		}
		r := pk.plain
		if shift {
			r = pk.shifted
		}
		evs = append(evs, view.KeyEvent{Rune: r})
	}
	return evs
}
