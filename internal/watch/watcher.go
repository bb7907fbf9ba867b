// Package watch reports changes to the images and sidecars of the folders
// being edited, so the editors can reload the image set or the current tags.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tagdesk/internal/errors"
	"tagdesk/internal/images"
	"tagdesk/internal/log"
	"tagdesk/internal/tagstore"

	"github.com/fsnotify/fsnotify"
)

// Kind classifies the file behind an Event
type Kind int

const (
	// ImageChanged means an image was added, rewritten, removed or renamed
	ImageChanged Kind = iota
	// SidecarChanged means a tag file was touched
	SidecarChanged
)

func (k Kind) String() string {
	if k == SidecarChanged {
		return "sidecar"
	}
	return "image"
}

// Event represents a change to a file of interest
type Event struct {
	Path      string
	Op        fsnotify.Op
	Kind      Kind
	Timestamp time.Time
}

// eventBuffer is how many events may wait for a reader before new ones are dropped
const eventBuffer = 32

// Watcher watches folders for image and sidecar changes
type Watcher struct {
	directories []string
	events      chan Event
	stopChan    chan struct{}
	fsWatcher   *fsnotify.Watcher
	mutex       sync.Mutex
	running     bool
	stopped     bool
}

// New creates a new file watcher
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}

	return &Watcher{
		directories: []string{},
		events:      make(chan Event, eventBuffer),
		stopChan:    make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddDirectory adds a folder to the watch list. Subfolders are not watched.
func (w *Watcher) AddDirectory(dir string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewFileError("cannot watch directory", dir, errors.NotFound, err)
		}
		return errors.NewFileError("cannot watch directory", dir, errors.IOFailure, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", dir, errors.InvalidInput, nil)
	}

	for _, existing := range w.directories {
		if existing == dir {
			return nil
		}
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.NewFileError("cannot watch directory", dir, errors.IOFailure, err)
	}

	w.directories = append(w.directories, dir)
	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Events returns the channel changes are delivered on. It is closed by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins delivering events
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.stopped {
		return errors.New("watcher already stopped")
	}
	if w.running {
		return nil
	}
	w.running = true

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.events)

	for {
		select {
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			out, keep := classify(ev)
			if !keep {
				continue
			}
			select {
			case w.events <- out:
			default:
				log.Debug("Dropped %s event for %s, reader is behind", ev.Op, ev.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Errorf("Watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

// classify turns an fsnotify event into an Event, reporting false for
// files that are neither images nor sidecars
func classify(ev fsnotify.Event) (Event, bool) {
	const interesting = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	if ev.Op&interesting == 0 {
		return Event{}, false
	}

	var kind Kind
	switch {
	case images.IsImage(ev.Name):
		kind = ImageChanged
	case strings.EqualFold(filepath.Ext(ev.Name), tagstore.SidecarExt):
		kind = SidecarChanged
	default:
		return Event{}, false
	}

	// A folder named like an image is not one
	if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			return Event{}, false
		}
	}

	return Event{
		Path:      ev.Name,
		Op:        ev.Op,
		Kind:      kind,
		Timestamp: time.Now(),
	}, true
}

// Stop stops watching and closes the event channel. It may be called more
// than once.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.stopped {
		return
	}
	w.stopped = true

	if w.running {
		// loop closes the event channel on its way out
		close(w.stopChan)
		w.running = false
	} else {
		close(w.events)
	}
	w.fsWatcher.Close()
}

// IsRunning returns whether the watcher is running
func (w *Watcher) IsRunning() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.running
}

// GetDirectories returns the list of watched directories
func (w *Watcher) GetDirectories() []string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	dirs := make([]string, len(w.directories))
	copy(dirs, w.directories)
	return dirs
}
