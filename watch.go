package inkpress

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// rebuildDebounce coalesces bursts of filesystem events (editors write
// several times per save) into a single rebuild.
const rebuildDebounce = 250 * time.Millisecond

// watchAndRebuild watches the posts and templates trees and rebuilds the
// site after changes settle. The returned stop function releases the watcher.
func (g *Generator) watchAndRebuild() (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	for _, dir := range []string{g.Config.postsPath(), g.Config.templatesPath()} {
		if err := addTree(watcher, dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	done := make(chan struct{})
	go g.watchLoop(watcher, done)

	return func() {
		close(done)
		watcher.Close()
	}, nil
}

func (g *Generator) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(rebuildDebounce, func() {
			select {
			case pending <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Ignore chmod noise and editor swap files.
			if event.Op.Has(fsnotify.Chmod) || strings.HasSuffix(event.Name, "~") {
				continue
			}
			// New directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addTree(watcher, event.Name)
				}
			}
			schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			g.log.Warn("watch error", slog.Any("error", err))
		case <-pending:
			g.log.Info("source changed, rebuilding")
			if _, err := g.Build(); err != nil {
				g.log.Error("rebuild failed", slog.Any("error", err))
			}
		}
	}
}

// addTree registers dir and all its subdirectories with the watcher.
// A missing dir is skipped; it may appear later, but watching a site with
// no posts directory yet is still useful for template edits.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}
