// Package view holds the contract shared by every composable node in the
// shell's view tree, the keystroke type the host feeds it, and the
// process-wide deferred-task queue drained between event dispatches.
package view

import (
	"sync"

	"glasshell/pkg/engine/layout"
	"glasshell/pkg/engine/surface"
)

// Key identifies a non-printable key in a KeyEvent.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyTab
	KeyEscape
)

// KeyEvent is one keystroke. Rune carries printable input; Key names a
// special key. Containers forward events verbatim and never look inside;
// only the leaf widgets interpret them.
type KeyEvent struct {
	Rune rune
	Key  Key
	Ctrl bool
	Alt  bool
}

// View is the capability set of a composable node: draw yourself, take a
// keystroke, negotiate space top-down, and report the space you consumed.
// Relayout caches its result; LastLayout returns that cache.
type View interface {
	Draw(s *surface.Surface, focused bool)
	Key(ev KeyEvent)
	Relayout(s *surface.Surface, avail layout.Layout) layout.Layout
	LastLayout() layout.Layout
}

var (
	taskMu sync.Mutex
	tasks  []func()
)

// AddTask queues fn to run once the current event dispatch has unwound.
// Tasks run in FIFO order, exactly once each. Safe from any goroutine.
func AddTask(fn func()) {
	taskMu.Lock()
	tasks = append(tasks, fn)
	taskMu.Unlock()
}

// DrainTasks runs queued tasks until none remain and returns how many ran.
// Tasks queued while draining run in the same drain, after the batch
// already pending. Call only from the host event loop, between dispatches.
func DrainTasks() int {
	ran := 0
	for {
		taskMu.Lock()
		batch := tasks
		tasks = nil
		taskMu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
		}
		ran += len(batch)
	}
}
