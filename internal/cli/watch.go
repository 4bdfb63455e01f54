package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/xgx-io/stackerr/internal/console"
	"github.com/xgx-io/stackerr/internal/logging"
)

// DebounceDelay groups bursts of file events into one regeneration.
var DebounceDelay = 300 * time.Millisecond

// Watch generates every schema in paths, then regenerates schema files as
// they change until ctx is done. Problems found while watching are printed,
// not returned.
func (r *Runner) Watch(ctx context.Context, paths []string) error {
	if err := r.Generate(ctx, paths); err != nil {
		fmt.Fprintln(r.Out, console.FormatWarningMessage(fmt.Sprintf("Initial generation failed: %v", err)))
	}

	dirs, err := watchDirs(paths)
	if err != nil {
		return NewRunErrorWatch(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return NewRunErrorWatch(fmt.Errorf("failed to create file watcher: %w", err))
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return NewRunErrorWatch(fmt.Errorf("failed to watch directory %s: %w", dir, err))
		}
	}
	fmt.Fprintln(r.Out, console.FormatInfoMessage(fmt.Sprintf("Watching %d director(ies) for schema changes", len(dirs))))

	var (
		mu       sync.Mutex // guards timer, modified and stopped
		running  sync.Mutex // held while a flush regenerates files
		timer    *time.Timer
		modified = map[string]struct{}{}
		stopped  bool
	)
	flush := func() {
		running.Lock()
		defer running.Unlock()

		mu.Lock()
		if stopped {
			mu.Unlock()
			return
		}
		files := make([]string, 0, len(modified))
		for f := range modified {
			files = append(files, f)
		}
		modified = map[string]struct{}{}
		mu.Unlock()

		sort.Strings(files)
		for _, f := range files {
			res := r.Process(f, true)
			r.report([]FileResult{res})
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return NewRunErrorWatch(fmt.Errorf("watcher channel closed"))
			}
			if !IsSchemaFile(event.Name) || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logging.Logger().Debug("schema changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			if r.Verbose {
				fmt.Fprintln(r.Out, console.FormatVerboseMessage(fmt.Sprintf("Detected change: %s (%s)", event.Name, event.Op)))
			}

			mu.Lock()
			modified[filepath.Clean(event.Name)] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(DebounceDelay, flush)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return NewRunErrorWatch(fmt.Errorf("watcher error channel closed"))
			}
			logging.Logger().Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			mu.Lock()
			stopped = true
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			// Wait for a flush already under way.
			running.Lock()
			running.Unlock()
			return nil
		}
	}
}

// watchDirs returns the directories to watch for paths: directories
// themselves with their subdirectories, and the parent of each file.
func watchDirs(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	set := map[string]bool{}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			set[filepath.Dir(filepath.Clean(p))] = true
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != p && (d.Name()[0] == '.' || d.Name() == "vendor" || d.Name() == "testdata") {
				return filepath.SkipDir
			}
			set[filepath.Clean(path)] = true
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs, nil
}
