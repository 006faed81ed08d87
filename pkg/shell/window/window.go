// Package window hosts the shell inside an Ebiten window: it pumps the
// event loop, feeds keystrokes to the scrollback, drains deferred tasks,
// and keeps the newest output visible.
package window

import (
	"image/color"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"glasshell/pkg/engine/font"
	"glasshell/pkg/engine/layout"
	"glasshell/pkg/engine/surface"
	"glasshell/pkg/engine/view"
	"glasshell/pkg/shell/config"
	shelllog "glasshell/pkg/shell/log"
	"glasshell/pkg/shell/term"
)

var colorBackground = color.RGBA{26, 26, 46, 255} // Dark blue-gray

// Window owns the main loop. Everything inside the scrollback is driven
// from Update; the dirty flag is the only piece touched from other
// goroutines, set by terminal readers and the config watcher.
type Window struct {
	metrics font.Metrics
	log     *shelllog.Log

	width  int
	height int

	dirty atomic.Bool

	keyRepeatState     map[string]keyRepeatInfo
	windowOpenedLogged bool
}

// New builds the window state for the given configuration.
func New(cfg config.Config) (*Window, error) {
	src, err := font.MonoSource()
	if err != nil {
		return nil, err
	}
	metrics := font.NewMetrics(src, cfg.Font.Size)

	w := &Window{
		metrics:        metrics,
		width:          cfg.Window.Width,
		height:         cfg.Window.Height,
		keyRepeatState: map[string]keyRepeatInfo{},
	}
	w.log = shelllog.New(func() { w.dirty.Store(true) }, metrics)
	w.dirty.Store(true)
	term.ShellProgram = cfg.Shell.Program
	return w, nil
}

// Update handles input and state changes (Ebiten interface).
func (w *Window) Update() error {
	// Log window opening on first update (confirms window is actually running)
	if !w.windowOpenedLogged {
		w.windowOpenedLogged = true
		ow, oh := ebiten.WindowSize()
		logrus.Infof("Main window opened successfully (%dx%d)", ow, oh)
	}

	for _, ev := range w.collectKeyEvents() {
		w.log.Key(ev)
		w.dirty.Store(true)
	}
	if view.DrainTasks() > 0 {
		w.dirty.Store(true)
	}

	if w.dirty.Swap(false) {
		s := surface.New(nil, w.metrics)
		w.log.Relayout(s, layout.Layout{Width: w.width, Height: w.height})
	}
	return nil
}

// Draw renders the scrollback (Ebiten interface). When the content is
// taller than the window the top scrolls away, keeping the tail in view.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	s := surface.New(screen, w.metrics)
	if off := w.log.LastLayout().Height - w.height; off > 0 {
		s.Translate(0, float64(-off))
	}
	w.log.Draw(s, ebiten.IsFocused())
}

// Layout returns the logical screen size (Ebiten interface).
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != w.width || outsideHeight != w.height {
		w.width = outsideWidth
		w.height = outsideHeight
		w.dirty.Store(true)
	}
	return outsideWidth, outsideHeight
}

// applyConfig takes a freshly loaded configuration from the watcher
// goroutine and schedules it onto the event loop.
func (w *Window) applyConfig(cfg config.Config) {
	view.AddTask(func() {
		ebiten.SetWindowTitle(cfg.Window.Title)
		term.ShellProgram = cfg.Shell.Program
		w.dirty.Store(true)
	})
}

// setupWindow applies the windowing options. Safe before the loop starts;
// ebiten buffers them until the window exists.
func setupWindow(cfg config.Config) {
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
}

// Run opens the window and blocks until it is closed. Edits to the config
// file at cfgPath are applied live.
func Run(cfg config.Config, cfgPath string) error {
	w, err := New(cfg)
	if err != nil {
		return err
	}

	if closer, err := config.Watch(cfgPath, w.applyConfig); err != nil {
		logrus.Warnf("config watching disabled: %v", err)
	} else {
		defer closer.Close()
	}

	setupWindow(cfg)
	return ebiten.RunGame(w)
}
