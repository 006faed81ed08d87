package config

import (
	"errors"
	"io"
	"path/filepath"

	fsnotify "github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch reloads the file at path whenever it changes and hands each good
// load to apply. It watches the containing directory, so editors that
// replace the file are seen too. Close the returned watcher to stop.
func Watch(path string, apply func(Config)) (io.Closer, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return nil, errors.New("config path is empty and no user config dir is set")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					logrus.Warnf("config reload failed: %v", err)
					continue
				}
				logrus.Debugf("config reloaded from %v", path)
				apply(cfg)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return w, nil
}
