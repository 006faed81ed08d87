// Package term runs a submitted command on a pseudo-terminal and renders
// the live screen of a VT emulator fed from it.
package term

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/vt"
	"github.com/creack/pty"
	"github.com/leonelquinteros/gotext"
	"github.com/sirupsen/logrus"

	"glasshell/pkg/engine/font"
	"glasshell/pkg/engine/layout"
	"glasshell/pkg/engine/surface"
	"glasshell/pkg/engine/view"
)

const (
	termCols = 80
	termRows = 24
)

var (
	colorOutput = color.RGBA{200, 210, 245, 255} // Soft off-white with blue-purple tint
	colorStatus = color.RGBA{120, 130, 180, 255} // Soft blue-purple-gray
	colorCursor = color.RGBA{120, 130, 180, 255} // Soft blue-purple-gray
)

// ShellProgram overrides the shell used to run submitted commands. Empty
// means $SHELL, falling back to bash, then sh.
var ShellProgram string

// Term is one terminal session. The emulator and exit state are shared with
// the pty reader goroutine and guarded by mu; the cached layout is touched
// only from the host event flow.
type Term struct {
	dirty   func()
	metrics font.Metrics
	command string
	done    func()

	mu       sync.Mutex
	emu      *vt.Emulator
	ptmx     *os.File
	cmd      *exec.Cmd
	exited   bool
	exitCode int
	failure  string

	doneOnce   sync.Once
	lastLayout layout.Layout
}

// New starts command on a pty and returns the session. done is scheduled
// through the deferred-task queue exactly once, when the session ends.
// Spawn failure is not an error return: the session renders the failure and
// ends immediately.
func New(dirty func(), metrics font.Metrics, command string, done func()) *Term {
	if done == nil {
		done = func() {}
	}
	t := &Term{
		dirty:   dirty,
		metrics: metrics,
		command: command,
		done:    done,
		emu:     vt.NewEmulator(termCols, termRows),
	}

	cmd := ShellCommand(command)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: termRows, Cols: termCols})
	if err != nil {
		logrus.Warnf("session spawn failed: %v", err)
		t.failure = fmt.Sprintf("%s: %v", gotext.Get("failed to start"), err)
		t.finish(-1)
		return t
	}
	t.ptmx = ptmx
	t.cmd = cmd
	logrus.Debugf("session started: %q (pid %d)", command, cmd.Process.Pid)

	go t.readLoop(ptmx, cmd)
	return t
}

// ShellCommand builds the exec.Cmd that runs line through the configured
// shell.
func ShellCommand(line string) *exec.Cmd {
	if ShellProgram != "" {
		return exec.Command(ShellProgram, "-lc", line)
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return exec.Command(sh, "-lc", line)
	}
	if _, err := exec.LookPath("bash"); err == nil {
		return exec.Command("bash", "-lc", line)
	}
	return exec.Command("sh", "-lc", line)
}

// readLoop feeds the emulator until the pty closes, then records the exit.
func (t *Term) readLoop(ptmx *os.File, cmd *exec.Cmd) {
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			t.mu.Lock()
			_, _ = t.emu.Write(buf[:n])
			t.mu.Unlock()
			t.dirty()
		}
		if err != nil {
			break
		}
	}

	code := 0
	if err := cmd.Wait(); err != nil {
		code = exitCode(err)
	}
	ptmx.Close()
	logrus.Debugf("session ended: %q (exit %d)", t.command, code)
	t.finish(code)
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// finish records the exit and schedules the completion callback, once.
func (t *Term) finish(code int) {
	t.mu.Lock()
	t.exited = true
	t.exitCode = code
	t.mu.Unlock()
	t.dirty()
	t.doneOnce.Do(func() {
		view.AddTask(t.done)
	})
}

// Close tears the session down without waiting for the command.
func (t *Term) Close() {
	t.mu.Lock()
	ptmx := t.ptmx
	cmd := t.cmd
	t.mu.Unlock()
	if ptmx != nil {
		ptmx.Close()
	}
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// Draw renders the emulator screen, a block cursor while the session runs
// focused, and the exit status after a failing command.
func (t *Term) Draw(s *surface.Surface, focused bool) {
	t.mu.Lock()
	lines := t.screenLinesLocked()
	pos := t.emu.CursorPosition()
	running := !t.exited
	code := t.exitCode
	statusRows := t.statusRowsLocked()
	t.mu.Unlock()

	m := t.metrics
	if running && focused {
		x := float32(float64(pos.X) * m.CharWidth)
		y := float32(pos.Y * m.LineHeight)
		s.FillRect(x, y, float32(m.CharWidth), float32(m.LineHeight-2), colorCursor)
	}
	for i, line := range lines {
		s.DrawText(line, m.Face, 0, float64(i*m.LineHeight), colorOutput)
	}
	if statusRows > 0 {
		s.DrawText(statusLine(code), m.Face, 0, float64(len(lines)*m.LineHeight), colorStatus)
	}
}

// Key translates the keystroke to terminal bytes and writes them to the
// pty. Keys arriving after exit are dropped.
func (t *Term) Key(ev view.KeyEvent) {
	t.mu.Lock()
	ptmx := t.ptmx
	exited := t.exited
	t.mu.Unlock()
	if exited || ptmx == nil {
		return
	}
	if b := KeyBytes(ev); len(b) > 0 {
		_, _ = ptmx.Write(b)
	}
}

// Relayout reserves the full emulator height while the session runs and
// shrinks to the rows actually used once it has ended.
func (t *Term) Relayout(s *surface.Surface, avail layout.Layout) layout.Layout {
	t.mu.Lock()
	rows := termRows
	if t.exited {
		rows = t.usedRowsLocked()
	}
	rows += t.statusRowsLocked()
	t.mu.Unlock()

	width := avail.Width
	if width < 0 {
		width = 0
	}
	t.lastLayout = layout.Layout{Width: width, Height: rows * t.metrics.LineHeight}
	return t.lastLayout
}

// LastLayout returns the size computed by the last Relayout.
func (t *Term) LastLayout() layout.Layout {
	return t.lastLayout
}

// screenLinesLocked returns the emulator screen as plain text, styling
// stripped and trailing blank lines trimmed.
func (t *Term) screenLinesLocked() []string {
	if t.failure != "" {
		return []string{t.failure}
	}
	raw := strings.Split(t.emu.Render(), "\r\n")
	lines := make([]string, len(raw))
	for i, ln := range raw {
		lines[i] = strings.TrimRight(ansi.Strip(ln), " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (t *Term) usedRowsLocked() int {
	rows := len(t.screenLinesLocked())
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (t *Term) statusRowsLocked() int {
	if t.exited && t.exitCode != 0 && t.failure == "" {
		return 1
	}
	return 0
}

// statusLine is the epilogue drawn after a failing command.
func statusLine(code int) string {
	return gotext.Get("exit %d", code)
}

// KeyBytes maps a KeyEvent to the byte sequence a terminal expects.
func KeyBytes(ev view.KeyEvent) []byte {
	if ev.Ctrl && ev.Rune >= 'a' && ev.Rune <= 'z' {
		return []byte{byte(ev.Rune - 'a' + 1)}
	}
	if ev.Alt && ev.Rune != 0 {
		return append([]byte{0x1b}, string(ev.Rune)...)
	}
	switch ev.Key {
	case view.KeyEnter:
		return []byte("\r")
	case view.KeyBackspace:
		return []byte{0x7f}
	case view.KeyDelete:
		return []byte("\x1b[3~")
	case view.KeyUp:
		return []byte("\x1b[A")
	case view.KeyDown:
		return []byte("\x1b[B")
	case view.KeyRight:
		return []byte("\x1b[C")
	case view.KeyLeft:
		return []byte("\x1b[D")
	case view.KeyHome:
		return []byte("\x1b[H")
	case view.KeyEnd:
		return []byte("\x1b[F")
	case view.KeyPageUp:
		return []byte("\x1b[5~")
	case view.KeyPageDown:
		return []byte("\x1b[6~")
	case view.KeyTab:
		return []byte("\t")
	case view.KeyEscape:
		return []byte("\x1b")
	}
	if ev.Rune != 0 {
		return []byte(string(ev.Rune))
	}
	return nil
}
