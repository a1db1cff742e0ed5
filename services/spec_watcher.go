package services

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"speckeeper/internal/logger"
	"speckeeper/internal/spec"
)

/**
 * Spec directory watcher
 * @property {*SpecManager} manager - Manager whose view is refreshed
 * @property {string} dir - Directory being watched
 * @description
 * Watches the spec directory for created, written or removed *.spec files
 * and rescans the manager. Events are debounced so an editor writing a file
 * in several syscalls triggers one rescan.
 */
type SpecWatcher struct {
	manager *SpecManager
	dir     string
}

func NewSpecWatcher(manager *SpecManager, dir string) *SpecWatcher {
	return &SpecWatcher{manager: manager, dir: dir}
}

/**
 * Run the watch loop until the context is cancelled
 * @param {context.Context} ctx - Context that stops the watcher
 * @returns {error} Returns error when the watch cannot be established
 */
func (w *SpecWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}
	logger.Infof("watching spec directory %s", w.dir)

	var debounce *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSpecFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debugf("spec dir event: %s", event)
			if debounce == nil {
				debounce = time.NewTimer(500 * time.Millisecond)
			} else {
				// The timer may have fired between events; drain the stale
				// value so Reset cannot deliver an extra early rescan.
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(500 * time.Millisecond)
			}
			pending = debounce.C
		case <-pending:
			pending = nil
			if err := w.manager.Rescan(); err != nil {
				logger.Errorf("spec rescan failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("spec watch error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func isSpecFile(name string) bool {
	return strings.HasSuffix(filepath.Base(name), "."+spec.SpecFileExt)
}
