// Package terminal reports facts about the terminal hosting the process,
// used to size pseudo-terminals and the line-mode fallback.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// Fallback dimensions when the terminal cannot be queried.
const (
	defaultCols = 80
	defaultRows = 24
)

// Size returns the hosting terminal's dimensions in cells. When stdout is
// not a terminal, or the query fails, the classic 80x24 comes back.
func Size() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return defaultCols, defaultRows
	}
	return cols, rows
}

// Width returns just the column count from Size.
func Width() int {
	cols, _ := Size()
	return cols
}

// IsInteractive reports whether stdin and stdout are both attached to a
// terminal, meaning the process can take over the keyboard and screen.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
