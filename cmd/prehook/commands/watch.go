package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/logging"
	"github.com/prehook/prehook/internal/runner"
)

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond,
		"delay before running hooks after a burst of file changes")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run hooks whenever files change",
	Long: `Watch the working tree and run the configured hooks against files as
they change. Edits arriving in a burst are coalesced into a single
run. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewSystemError(err, "creating file watcher")
	}
	defer watcher.Close()

	if err := watchTree(watcher, repoRoot); err != nil {
		return errors.NewSystemError(err, "watching working tree")
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.FromContext(parent)
	out := cmd.OutOrStdout()
	reporter := runner.NewReporter(out, useColor(out), verbosity > 0)
	r := runner.New(repoRoot, newStore(), reporter, logger)

	fmt.Fprintf(out, "watching %s (Ctrl-C to stop)\n", repoRoot)

	deb := newDebouncer(watchDebounce, func(files []string) {
		// The config itself may be among the changes; reload it so edits
		// take effect without restarting.
		if fresh, _, err := loadConfig(repoRoot); err == nil {
			cfg = fresh
		} else {
			logger.Warn("configuration reload failed, keeping previous", "error", err)
		}

		fmt.Fprintf(out, "\n%d file(s) changed\n", len(files))
		summary, err := r.Run(ctx, cfg, runner.Options{
			Source:        runner.SourceExplicit,
			ExplicitFiles: files,
			Jobs:          defaultJobs(),
		})
		if err != nil {
			logger.Error("run failed", "error", err)
			return
		}
		if !summary.Failed() {
			fmt.Fprintln(out, "all hooks passed")
		}
	})
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nstopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			rel, err := filepath.Rel(repoRoot, event.Name)
			if err != nil || ignoredPath(rel) {
				continue
			}

			// New directories need their own watch.
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = watcher.Add(event.Name)
				continue
			}
			deb.add(filepath.ToSlash(rel))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// debouncer coalesces a burst of file events into one fire call. Fires are
// serialized: a timer that expires while fire is still running waits for it
// instead of starting a second run.
type debouncer struct {
	delay time.Duration
	fire  func(files []string)

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer

	runMu sync.Mutex
}

func newDebouncer(delay time.Duration, fire func(files []string)) *debouncer {
	return &debouncer{delay: delay, fire: fire, pending: make(map[string]bool)}
}

// add records a changed file and restarts the quiet-period timer.
func (d *debouncer) add(file string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[file] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.mu.Lock()
	files := make([]string, 0, len(d.pending))
	for f := range d.pending {
		files = append(files, f)
	}
	d.pending = make(map[string]bool)
	d.mu.Unlock()

	if len(files) == 0 {
		return
	}
	sort.Strings(files)
	d.fire(files)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// watchTree adds every directory under root to the watcher, skipping git
// internals and hidden directories.
func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel != "." && ignoredPath(rel) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// ignoredPath filters watcher noise from git internals and hidden
// directories.
func ignoredPath(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == ".git" || (strings.HasPrefix(part, ".") && part != "." && part != ".prehook.yaml" && part != ".pre-commit-config.yaml") {
			return true
		}
	}
	return false
}
