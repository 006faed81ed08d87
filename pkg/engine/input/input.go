// Package input reads raw terminal bytes and turns them into view.KeyEvents
// for the line-mode fallback.
package input

import (
	"bufio"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/term"

	"glasshell/pkg/engine/view"
)

// Reader decodes keystrokes from a terminal held in raw mode. Open puts the
// terminal into raw mode; Close restores it.
type Reader struct {
	in       *os.File
	buf      *bufio.Reader
	oldState *term.State
}

// Open puts stdin into raw mode and returns a Reader over it.
func Open() (*Reader, error) {
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("set terminal to raw mode: %w", err)
	}
	return &Reader{
		in:       os.Stdin,
		buf:      bufio.NewReader(os.Stdin),
		oldState: oldState,
	}, nil
}

// Close restores the terminal state captured by Open.
func (r *Reader) Close() error {
	return term.Restore(int(r.in.Fd()), r.oldState)
}

// ReadKey blocks for the next keystroke. Unknown escape sequences are
// discarded and reported as a zero KeyEvent, which callers ignore.
func (r *Reader) ReadKey() (view.KeyEvent, error) {
	b, err := r.buf.ReadByte()
	if err != nil {
		return view.KeyEvent{}, err
	}

	switch {
	case b == 0x1b:
		return r.readEscape()
	case b == '\r' || b == '\n':
		return view.KeyEvent{Key: view.KeyEnter}, nil
	case b == 0x7f || b == 8:
		return view.KeyEvent{Key: view.KeyBackspace}, nil
	case b == '\t':
		return view.KeyEvent{Key: view.KeyTab}, nil
	case b < 0x20:
		// Control byte: Ctrl-A is 1 through Ctrl-Z is 26.
		return view.KeyEvent{Rune: rune('a' + b - 1), Ctrl: true}, nil
	case b < utf8.RuneSelf:
		return view.KeyEvent{Rune: rune(b)}, nil
	default:
		if err := r.buf.UnreadByte(); err != nil {
			return view.KeyEvent{}, err
		}
		ru, _, err := r.buf.ReadRune()
		if err != nil {
			return view.KeyEvent{}, err
		}
		return view.KeyEvent{Rune: ru}, nil
	}
}

// readEscape handles CSI (ESC [) and SS3 (ESC O) sequences. A lone ESC and
// an ESC followed by a printable byte are reported as Escape and an
// Alt-modified rune respectively.
func (r *Reader) readEscape() (view.KeyEvent, error) {
	b2, err := r.buf.ReadByte()
	if err != nil {
		return view.KeyEvent{Key: view.KeyEscape}, nil
	}

	if b2 != '[' && b2 != 'O' {
		if b2 >= 0x20 && b2 < 0x7f {
			return view.KeyEvent{Rune: rune(b2), Alt: true}, nil
		}
		return view.KeyEvent{Key: view.KeyEscape}, nil
	}

	b3, err := r.buf.ReadByte()
	if err != nil {
		return view.KeyEvent{Key: view.KeyEscape}, nil
	}

	switch b3 {
	case 'A':
		return view.KeyEvent{Key: view.KeyUp}, nil
	case 'B':
		return view.KeyEvent{Key: view.KeyDown}, nil
	case 'C':
		return view.KeyEvent{Key: view.KeyRight}, nil
	case 'D':
		return view.KeyEvent{Key: view.KeyLeft}, nil
	case 'H':
		return view.KeyEvent{Key: view.KeyHome}, nil
	case 'F':
		return view.KeyEvent{Key: view.KeyEnd}, nil
	}

	if b3 >= '0' && b3 <= '9' {
		b4, err := r.buf.ReadByte()
		if err != nil || b4 != '~' {
			return view.KeyEvent{}, nil
		}
		switch b3 {
		case '1', '7':
			return view.KeyEvent{Key: view.KeyHome}, nil
		case '3':
			return view.KeyEvent{Key: view.KeyDelete}, nil
		case '4', '8':
			return view.KeyEvent{Key: view.KeyEnd}, nil
		case '5':
			return view.KeyEvent{Key: view.KeyPageUp}, nil
		case '6':
			return view.KeyEvent{Key: view.KeyPageDown}, nil
		}
	}

	// Unknown escape sequence - discard it
	return view.KeyEvent{}, nil
}
