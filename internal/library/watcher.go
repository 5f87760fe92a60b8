package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/rcliao/paperdesk/internal/logging"
)

// EventCreated is the only event type emitted today.
const EventCreated = "created"

// Event reports a new document inside a watched folder.
type Event struct {
	WatchID    string `json:"watchId"`
	FolderPath string `json:"folderPath"`
	EventType  string `json:"eventType"`
	FilePath   string `json:"filePath"`
}

// Watcher watches folders for newly created documents. Events from every
// watch are delivered on a single channel.
type Watcher struct {
	pattern string
	log     *log.Logger
	events  chan Event

	mu      sync.Mutex
	watches map[string]*watch
	closed  bool
	wg      sync.WaitGroup
}

type watch struct {
	id        string
	folder    string
	recursive bool
	fw        *fsnotify.Watcher
	done      chan struct{}
}

// NewWatcher creates a Watcher matching base names against pattern
// (DefaultPattern when empty).
func NewWatcher(pattern string, logger *log.Logger) *Watcher {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Watcher{
		pattern: pattern,
		log:     logging.OrDiscard(logger).With("component", "watcher"),
		events:  make(chan Event, 64),
		watches: make(map[string]*watch),
	}
}

// Events returns the event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Watch starts watching dir and returns the watch id.
func (w *Watcher) Watch(dir string, recursive bool) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("failed to create watcher: %w", err)
	}
	wt := &watch{
		id:        uuid.NewString(),
		folder:    dir,
		recursive: recursive,
		fw:        fw,
		done:      make(chan struct{}),
	}
	if err := wt.add(dir); err != nil {
		fw.Close()
		return "", fmt.Errorf("failed to start watching: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		fw.Close()
		return "", errors.New("watcher is closed")
	}
	w.watches[wt.id] = wt
	w.wg.Add(1)
	go w.run(wt)

	w.log.Debug("watching folder", "id", wt.id, "folder", dir, "recursive", recursive)
	return wt.id, nil
}

// Stop ends the watch with the given id.
func (w *Watcher) Stop(id string) error {
	w.mu.Lock()
	wt, ok := w.watches[id]
	delete(w.watches, id)
	w.mu.Unlock()
	if !ok {
		return fmt.Errorf("watcher with ID %s not found", id)
	}
	close(wt.done)
	return wt.fw.Close()
}

// Close stops every watch and closes the event channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	watches := w.watches
	w.watches = make(map[string]*watch)
	w.mu.Unlock()

	var errs []error
	for _, wt := range watches {
		close(wt.done)
		if err := wt.fw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	w.wg.Wait()
	close(w.events)
	return errors.Join(errs...)
}

func (w *Watcher) run(wt *watch) {
	defer w.wg.Done()
	for {
		select {
		case <-wt.done:
			return
		case ev, ok := <-wt.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if wt.recursive {
					if err := wt.add(ev.Name); err != nil {
						w.log.Warn("watch new subdirectory", "path", ev.Name, "err", err)
					}
				}
				continue
			}
			if ok, _ := doublestar.Match(w.pattern, strings.ToLower(filepath.Base(ev.Name))); !ok {
				continue
			}
			select {
			case w.events <- Event{WatchID: wt.id, FolderPath: wt.folder, EventType: EventCreated, FilePath: ev.Name}:
			case <-wt.done:
				return
			}
		case err, ok := <-wt.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "id", wt.id, "err", err)
		}
	}
}

// add registers dir, and its subdirectories for recursive watches.
func (wt *watch) add(dir string) error {
	if !wt.recursive {
		return wt.fw.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return wt.fw.Add(path)
		}
		return nil
	})
}
