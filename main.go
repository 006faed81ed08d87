package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/leonelquinteros/gotext"
	"github.com/sirupsen/logrus"

	"glasshell/pkg/engine/logging"
	"glasshell/pkg/engine/terminal"
	"glasshell/pkg/shell/config"
	"glasshell/pkg/shell/tui"
	"glasshell/pkg/shell/window"
)

func initGettext() {
	gotext.Configure("mo", "en_GB.utf8", "default")
}

// setupLineModeLogging sends logs to a file. In line mode the terminal is in
// raw mode and stderr writes would corrupt the display.
func setupLineModeLogging() {
	dir, err := os.UserCacheDir()
	if err != nil {
		logrus.SetOutput(os.Stderr)
		return
	}
	if _, err := logging.SetupFile(filepath.Join(dir, "glasshell", "glasshell.log")); err != nil {
		logrus.Warnf("log file unavailable: %v", err)
	}
}

func runLineMode(cfg config.Config) {
	if !terminal.IsInteractive() {
		logrus.Fatal("line mode needs an interactive terminal")
	}
	setupLineModeLogging()
	if err := tui.Run(cfg); err != nil {
		logrus.Fatalf("line mode failed: %v", err)
	}
}

func main() {
	configPath := flag.String("config", "", "config file path (default: the per-user config dir)")
	lineMode := flag.Bool("tui", false, "run in the terminal instead of opening a window")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	initGettext()
	logging.Configure(*verbose)

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("load config %s: %v", path, err)
	}

	if *lineMode || cfg.TUI {
		runLineMode(cfg)
		return
	}

	if err := window.Run(cfg, path); err != nil {
		if terminal.IsInteractive() {
			logrus.Warnf("window unavailable, falling back to line mode: %v", err)
			runLineMode(cfg)
			return
		}
		logrus.Fatalf("open window: %v", err)
	}
}
