package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventRecordChanged indicates the record stored under Key was written
	// or erased, possibly by another process.
	EventRecordChanged EventType = iota

	// EventStoreInvalidated signals that the change could not be attributed
	// to a single record and callers should reload everything they read.
	EventStoreInvalidated
)

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type EventType
	Key  string
}

// settle is how long a burst of filesystem events is collected before it is
// reported. diskv writes through a temp file and a rename, which alone yields
// several events per record.
const settle = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. The channel is closed
// once ctx is done or the watcher fails. Events are dropped, never queued,
// when the consumer falls behind.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	w := &recordWatcher{
		base:    p.basePath,
		fs:      fw,
		watched: make(map[string]bool),
		out:     make(chan Event, 16),
	}
	w.batch = newBatcher(settle, w.emit)
	if err := w.trackTree(p.basePath); err != nil {
		_ = fw.Close()
		return nil, err
	}
	go w.run(ctx)
	return w.out, nil
}

// recordWatcher translates fsnotify events under base into record events.
type recordWatcher struct {
	base    string
	fs      *fsnotify.Watcher
	watched map[string]bool
	batch   *batcher
	out     chan Event

	closeOnce sync.Once
}

func (w *recordWatcher) run(ctx context.Context) {
	defer w.close()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.batch.invalidate()
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(evt)
		}
	}
}

func (w *recordWatcher) handle(evt fsnotify.Event) {
	path := filepath.Clean(evt.Name)

	if evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && w.watched[path] {
		// fsnotify drops the watch itself; forget it so a recreated
		// directory is tracked again.
		delete(w.watched, path)
		w.batch.invalidate()
		return
	}
	if evt.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.trackTree(path); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
			// Records may have landed before the directory was tracked.
			w.batch.invalidate()
			return
		}
	}

	key, ok := recordKey(w.base, path)
	if !ok {
		return
	}
	w.batch.add(key)
}

// trackTree adds root and every record directory below it.
func (w *recordWatcher) trackTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("store: walk %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.base && hidden(d.Name()) {
			return filepath.SkipDir
		}
		if w.watched[path] {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("store: watch %s: %w", path, err)
		}
		w.watched[path] = true
		return nil
	})
}

func (w *recordWatcher) emit(ev Event) {
	select {
	case w.out <- ev:
	default:
	}
}

func (w *recordWatcher) close() {
	w.closeOnce.Do(func() {
		w.batch.stop()
		_ = w.fs.Close()
		close(w.out)
	})
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// recordKey maps a file under base back to the key diskv stored it under,
// "session/auth" becoming "session-auth". Temp files, dot files and logs are
// not records.
func recordKey(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	for _, part := range parts {
		if hidden(part) {
			return "", false
		}
	}
	if strings.HasSuffix(parts[len(parts)-1], ".log") || strings.Contains(parts[len(parts)-1], ".log.") {
		return "", false
	}
	return strings.Join(parts, "-"), true
}

// batcher collects keys for one settle period and then reports each once.
// An invalidation in the period replaces the per-key events.
type batcher struct {
	mu          sync.Mutex
	delay       time.Duration
	keys        map[string]struct{}
	invalidated bool
	timer       *time.Timer
	stopped     bool
	send        func(Event)
}

func newBatcher(delay time.Duration, send func(Event)) *batcher {
	return &batcher{delay: delay, keys: make(map[string]struct{}), send: send}
}

func (b *batcher) add(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys[key] = struct{}{}
	b.armLocked()
}

func (b *batcher) invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.invalidated = true
	b.armLocked()
}

func (b *batcher) armLocked() {
	if b.timer == nil && !b.stopped {
		b.timer = time.AfterFunc(b.delay, b.flush)
	}
}

func (b *batcher) flush() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	keys, invalidated := b.keys, b.invalidated
	b.keys = make(map[string]struct{})
	b.invalidated = false
	b.timer = nil
	// Sending under the lock keeps flush and stop ordered, so nothing is
	// sent on a closed channel. send never blocks.
	defer b.mu.Unlock()

	if invalidated {
		b.send(Event{Type: EventStoreInvalidated})
		return
	}
	for key := range keys {
		b.send(Event{Type: EventRecordChanged, Key: key})
	}
}

func (b *batcher) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
