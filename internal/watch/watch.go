// Package watch re-runs a conversion when its inputs change or on an interval.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/dumpsite/internal/logfields"
)

// Reasons passed to the run function.
const (
	ReasonStartup  = "startup"
	ReasonChange   = "change"
	ReasonInterval = "interval"
)

// RunFunc performs one conversion.
type RunFunc func(ctx context.Context, reason string)

// Options configures a Watcher.
type Options struct {
	// Files are watched individually, through their parent directory.
	Files []string
	// Dirs are watched recursively.
	Dirs     []string
	Debounce time.Duration
	// Interval schedules runs regardless of file events when > 0.
	Interval time.Duration
	// RunOnStart triggers a run as soon as the watcher starts.
	RunOnStart bool
	Run        RunFunc
}

// Watcher coalesces file events and timer ticks into serialized runs: at most
// one run executes at a time and at most one more is queued behind it.
type Watcher struct {
	opts     Options
	fsw      *fsnotify.Watcher
	files    map[string]bool
	requests chan string
	changes  chan struct{}
}

// New sets up the file watches.
func New(opts Options) (*Watcher, error) {
	if opts.Run == nil {
		return nil, fmt.Errorf("watch: run function is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 2 * time.Second
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		opts:     opts,
		fsw:      fsw,
		files:    make(map[string]bool),
		requests: make(chan string, 1),
		changes:  make(chan struct{}, 1),
	}
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = true
		if err := fsw.Add(filepath.Dir(abs)); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch directory of %s: %w", f, err)
		}
	}
	for _, d := range opts.Dirs {
		if err := w.addTree(d); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	if w.opts.Interval > 0 {
		s, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create gocron scheduler: %w", err)
		}
		if _, err := s.NewJob(
			gocron.DurationJob(w.opts.Interval),
			gocron.NewTask(w.request, ReasonInterval),
			gocron.WithName("interval-run"),
		); err != nil {
			return fmt.Errorf("failed to create interval job: %w", err)
		}
		s.Start()
		defer func() { _ = s.Shutdown() }()
		slog.Info("Interval runs scheduled", slog.Duration("interval", w.opts.Interval))
	}
	if w.opts.RunOnStart {
		w.request(ReasonStartup)
	}

	go w.eventLoop(ctx)
	go w.debounceLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case reason := <-w.requests:
			slog.Info("Running conversion", slog.String("reason", reason))
			w.opts.Run(ctx, reason)
		}
	}
}

// request queues a run unless one is already queued.
func (w *Watcher) request(reason string) {
	select {
	case w.requests <- reason:
	default:
	}
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			slog.Debug("Input change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
					}
				}
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if len(w.files) == 0 && len(w.opts.Dirs) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	if w.files[abs] {
		return true
	}
	for _, d := range w.opts.Dirs {
		root, err := filepath.Abs(d)
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(root, abs); err == nil && rel != ".." && !startsWithParent(rel) {
			return true
		}
	}
	return false
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

// debounceLoop turns bursts of changes into one request once the inputs have
// been quiet for the debounce window.
func (w *Watcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.changes:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.opts.Debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			w.request(ReasonChange)
		}
	}
}
