// Package capture turns a directory into a camera inbox: photos dropped
// into it by a phone sync tool or webcam utility are reported once they
// stop changing.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yildizm/ChefSnap/internal/imagefile"
	"github.com/yildizm/ChefSnap/internal/logger"
)

// DefaultDebounce is the quiet period after the last write to a path
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned when operating on a closed watcher
var ErrClosed = errors.New("capture watcher closed")

// Options configures a Watcher
type Options struct {
	// Debounce collapses bursts of events for one path; zero emits on
	// every event, negative uses DefaultDebounce.
	Debounce time.Duration

	// Buffer is the capacity of the Captures channel.
	Buffer int

	Logger *logger.Logger
}

// Watcher reports image files created or written in a directory
type Watcher struct {
	dir      string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	log      *logger.Logger

	captures chan string
	errs     chan error

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Watch starts watching dir until ctx is canceled or Close is called
func Watch(ctx context.Context, dir string, opts Options) (*Watcher, error) {
	abs, err := validateInboxDir(dir)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
	}

	debounce := opts.Debounce
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = 16
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		dir:      abs,
		debounce: debounce,
		fsw:      fsw,
		log:      log.WithComponent("capture"),
		captures: make(chan string, buffer),
		errs:     make(chan error, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go w.run(ctx)

	w.log.Info("watching camera inbox %s", abs)
	return w, nil
}

// Dir returns the absolute path being watched
func (w *Watcher) Dir() string {
	return w.dir
}

// Captures delivers absolute paths of settled image files. It is closed
// when the watcher stops.
func (w *Watcher) Captures() <-chan string {
	return w.captures
}

// Errors delivers watcher failures; a full channel drops the newest error
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and waits for its goroutine to exit
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.cancel()
		<-w.done
		w.closeErr = w.fsw.Close()
	})
	return w.closeErr
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.captures)

	pending := make(map[string]time.Time)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			path, keep := w.filter(event)
			if !keep {
				continue
			}
			if w.debounce == 0 {
				if !w.emit(ctx, path) {
					return
				}
				continue
			}
			pending[path] = time.Now().Add(w.debounce)
			resetTimer(timer, time.Until(earliest(pending)))

		case <-timer.C:
			now := time.Now()
			for path, deadline := range pending {
				if deadline.After(now) {
					continue
				}
				delete(pending, path)
				if !settled(path) {
					continue
				}
				if !w.emit(ctx, path) {
					return
				}
			}
			if len(pending) > 0 {
				resetTimer(timer, time.Until(earliest(pending)))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error: %v", err)
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// filter keeps create and write events for image files
func (w *Watcher) filter(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !imagefile.IsImageExtension(event.Name) {
		w.log.Debug("ignoring %s", event.Name)
		return "", false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return "", false
	}
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	return path, true
}

func (w *Watcher) emit(ctx context.Context, path string) bool {
	w.log.DebugWithFields("capture settled", []logger.Field{logger.F("path", path)})
	select {
	case w.captures <- path:
		return true
	case <-ctx.Done():
		return false
	}
}

// settled reports whether path still exists as a regular file
func settled(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func earliest(pending map[string]time.Time) time.Time {
	var first time.Time
	for _, deadline := range pending {
		if first.IsZero() || deadline.Before(first) {
			first = deadline
		}
	}
	return first
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	if d < 0 {
		d = 0
	}
	t.Reset(d)
}

// validateInboxDir resolves dir and checks it is an existing directory
func validateInboxDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("empty inbox directory")
	}

	abs, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access inbox directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("inbox must be a directory: %s", abs)
	}

	return abs, nil
}
