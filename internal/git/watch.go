package git

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Johannes-Berggren/GitHistory/internal/logger"
)

const debounceTime = 100 * time.Millisecond

// Watcher reports when the repository holding a path moves its refs,
// e.g. after a commit, checkout or pull.
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan struct{}
	wg      sync.WaitGroup
}

// WatchRepository starts watching the .git directory above path. The
// watcher stops when ctx is done or Close is called.
func WatchRepository(ctx context.Context, path string) (*Watcher, error) {
	_, dir, err := resolveTarget(path)
	if err != nil {
		return nil, err
	}

	gitDir, err := findGitDir(dir)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	for _, d := range watchDirs(gitDir) {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}

	w := &Watcher{
		watcher: fw,
		changes: make(chan struct{}, 1),
	}

	w.wg.Add(1)
	go w.loop(ctx)

	logger.Named("watch").WithField("dir", gitDir).Info("watching repository for changes")
	return w, nil
}

// Changes delivers one value per debounced burst of ref updates.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	log := logger.Named("watch")
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// New branch namespaces like refs/heads/feature/ appear as directories.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watcher.Add(event.Name); err != nil {
						log.Warnf("failed to watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if shouldIgnoreEvent(event) {
				continue
			}

			log.Debugf("change detected: %s", filepath.Base(event.Name))

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceTime, w.notify)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// watchDirs lists the git dir, the HEAD reflog dir and every directory
// under refs/heads, skipping those that do not exist.
func watchDirs(gitDir string) []string {
	var dirs []string
	for _, d := range []string{gitDir, filepath.Join(gitDir, "logs")} {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}

	heads := filepath.Join(gitDir, "refs", "heads")
	_ = filepath.WalkDir(heads, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return true
	}
	base := filepath.Base(event.Name)
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	switch base {
	case "index", "FETCH_HEAD", "COMMIT_EDITMSG":
		return true
	}
	return false
}

func findGitDir(dir string) (string, error) {
	for d := dir; ; {
		candidate := filepath.Join(d, ".git")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("not a git repository: %s", dir)
		}
		d = parent
	}
}
