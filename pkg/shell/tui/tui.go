// Package tui is the line-mode fallback. When the graphical window cannot
// open, commands are edited and run against the hosting terminal directly,
// one pty per command, sharing history with the graphical prompt.
package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"glasshell/pkg/engine/input"
	"glasshell/pkg/engine/terminal"
	"glasshell/pkg/engine/view"
	"glasshell/pkg/shell/config"
	"glasshell/pkg/shell/readline"
	"glasshell/pkg/shell/term"
)

const promptGlyph = "❯"

// TUI is the line-mode shell loop.
type TUI struct {
	colorPrompt color.Style
	colorSubtle color.Style
	colorError  color.Style

	out  io.Writer
	hist *readline.History

	buf     []rune
	cursor  int
	histIdx int
}

// New creates a new line-mode shell.
func New() *TUI {
	return &TUI{out: os.Stdout, hist: readline.Shared}
}

// Init initializes the styles.
func (t *TUI) Init() {
	t.colorPrompt = color.Style{color.FgMagenta, color.OpBold}
	t.colorSubtle = color.Style{color.FgGray, color.OpBold}
	t.colorError = color.Style{color.FgRed, color.OpBold}
}

// Run edits and runs commands until the terminal closes or ctrl-d is
// pressed on an empty line.
func Run(cfg config.Config) error {
	t := New()
	t.Init()
	term.ShellProgram = cfg.Shell.Program

	reader, err := input.Open()
	if err != nil {
		return fmt.Errorf("open terminal input: %w", err)
	}
	defer reader.Close()

	// A single goroutine owns stdin for the whole session. The editor and
	// the per-command forwarder take turns consuming from the channel, so
	// no keystroke is lost when a command exits.
	keys := make(chan view.KeyEvent, 64)
	go func() {
		defer close(keys)
		for {
			ev, err := reader.ReadKey()
			if err != nil {
				return
			}
			if ev == (view.KeyEvent{}) {
				continue
			}
			keys <- ev
		}
	}()

	fmt.Fprintf(t.out, "%s\r\n", t.colorSubtle.Sprint(gotext.Get("line mode, ctrl-d on an empty line exits")))

	for {
		line, ok := t.readLine(keys)
		if !ok {
			fmt.Fprint(t.out, "\r\n")
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		t.hist.Append(line)
		t.runCommand(keys, line)
	}
}

// readLine edits one command line. ok is false when the session should end.
func (t *TUI) readLine(keys <-chan view.KeyEvent) (line string, ok bool) {
	t.buf = t.buf[:0]
	t.cursor = 0
	t.histIdx = t.hist.Len()
	t.redraw()

	for ev := range keys {
		switch {
		case ev.Ctrl:
			switch ev.Rune {
			case 'a':
				t.cursor = 0
			case 'c':
				fmt.Fprint(t.out, "^C\r\n")
				t.buf = t.buf[:0]
				t.cursor = 0
				t.histIdx = t.hist.Len()
			case 'd':
				if len(t.buf) == 0 {
					return "", false
				}
				if t.cursor < len(t.buf) {
					t.buf = append(t.buf[:t.cursor], t.buf[t.cursor+1:]...)
				}
			case 'e':
				t.cursor = len(t.buf)
			case 'k':
				t.buf = t.buf[:t.cursor]
			case 'l':
				fmt.Fprint(t.out, "\x1b[2J\x1b[H")
			case 'u':
				t.buf = append(t.buf[:0], t.buf[t.cursor:]...)
				t.cursor = 0
			case 'w':
				t.buf, t.cursor = readline.TrimWordBack(t.buf, t.cursor)
			}
		case ev.Alt:
			// No alt bindings in line mode.
		case ev.Key == view.KeyEnter:
			fmt.Fprint(t.out, "\r\n")
			return string(t.buf), true
		case ev.Key == view.KeyBackspace:
			if t.cursor > 0 {
				t.buf = append(t.buf[:t.cursor-1], t.buf[t.cursor:]...)
				t.cursor--
			}
		case ev.Key == view.KeyDelete:
			if t.cursor < len(t.buf) {
				t.buf = append(t.buf[:t.cursor], t.buf[t.cursor+1:]...)
			}
		case ev.Key == view.KeyLeft:
			if t.cursor > 0 {
				t.cursor--
			}
		case ev.Key == view.KeyRight:
			if t.cursor < len(t.buf) {
				t.cursor++
			}
		case ev.Key == view.KeyHome:
			t.cursor = 0
		case ev.Key == view.KeyEnd:
			t.cursor = len(t.buf)
		case ev.Key == view.KeyUp:
			if t.histIdx > 0 {
				t.histIdx--
				t.setBuffer(t.hist.At(t.histIdx))
			}
		case ev.Key == view.KeyDown:
			if t.histIdx < t.hist.Len()-1 {
				t.histIdx++
				t.setBuffer(t.hist.At(t.histIdx))
			} else {
				t.histIdx = t.hist.Len()
				t.setBuffer("")
			}
		case ev.Rune != 0:
			t.buf = append(t.buf[:t.cursor], append([]rune{ev.Rune}, t.buf[t.cursor:]...)...)
			t.cursor++
		}
		t.redraw()
	}
	return "", false
}

func (t *TUI) setBuffer(text string) {
	t.buf = []rune(text)
	t.cursor = len(t.buf)
}

// redraw repaints the edit line in place. Long lines scroll horizontally so
// the cursor stays visible.
func (t *TUI) redraw() {
	promptWidth := runewidth.StringWidth(promptGlyph) + 1
	avail := terminal.Width() - promptWidth - 1
	if avail < 1 {
		avail = 1
	}

	start := 0
	for start < t.cursor && runewidth.StringWidth(string(t.buf[start:t.cursor])) > avail {
		start++
	}
	width := 0
	end := start
	for _, r := range t.buf[start:] {
		rw := runewidth.RuneWidth(r)
		if width+rw > avail {
			break
		}
		width += rw
		end++
	}

	var b strings.Builder
	b.WriteString("\r\x1b[K")
	b.WriteString(t.colorPrompt.Sprint(promptGlyph))
	b.WriteString(" ")
	b.WriteString(string(t.buf[start:end]))
	if back := width - runewidth.StringWidth(string(t.buf[start:t.cursor])); back > 0 {
		fmt.Fprintf(&b, "\x1b[%dD", back)
	}
	fmt.Fprint(t.out, b.String())
}

// runCommand runs line on a fresh pty sized to the hosting terminal and
// forwards keystrokes to it until the command exits.
func (t *TUI) runCommand(keys <-chan view.KeyEvent, line string) {
	cols, rows := terminal.Size()
	cmd := term.ShellCommand(line)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		fmt.Fprintf(t.out, "%s\r\n", t.colorError.Sprint(fmt.Sprintf("%s: %v", gotext.Get("failed to start"), err)))
		return
	}
	logrus.Debugf("session started: %q (pid %d)", line, cmd.Process.Pid)

	outputDone := make(chan struct{})
	go func() {
		defer close(outputDone)
		buf := make([]byte, 4096)
		for {
			n, rerr := ptmx.Read(buf)
			if n > 0 {
				_, _ = t.out.Write(buf[:n])
			}
			if rerr != nil {
				return
			}
		}
	}()

forward:
	for {
		select {
		case ev, chOpen := <-keys:
			if !chOpen {
				keys = nil
				continue
			}
			if b := term.KeyBytes(ev); len(b) > 0 {
				_, _ = ptmx.Write(b)
			}
		case <-outputDone:
			break forward
		}
	}

	err = cmd.Wait()
	_ = ptmx.Close()
	fmt.Fprint(t.out, "\r\n")
	if code := exitStatus(err); code != 0 {
		fmt.Fprintf(t.out, "%s\r\n", t.colorSubtle.Sprint(gotext.Get("exit %d", code)))
	}
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
