package watch

import (
	"sync"
	"time"

	"tagdesk/internal/errors"
	"tagdesk/internal/images"
	"tagdesk/internal/log"
)

// FollowerStatus represents the current status of a Follower
type FollowerStatus struct {
	Running        bool      // Whether events are being processed
	Folder         string    // Folder being followed
	Images         int       // Images currently in the set
	LastActivity   time.Time // Time of the last relevant change
	Reloads        int       // Image set reloads so far
	SidecarChanges int       // Sidecar events seen so far
}

// Change is handed to the follower callback after each event is applied
type Change struct {
	Event Event
	// Current is the image under the cursor once the event was applied
	Current string
	// Reloaded is true when the image set was re-listed
	Reloaded bool
}

// Follower keeps an image set in sync with its folder. Image events reload
// the set, keeping the cursor on the same image when it still exists.
// Sidecar events are only passed to the callback.
type Follower struct {
	folder  string
	watcher *Watcher
	set     *images.Set

	lastActivity   time.Time
	reloads        int
	sidecarChanges int

	callback func(Change)

	mutex   sync.RWMutex
	running bool
	done    chan struct{}
}

// NewFollower loads the images of folder and prepares a watcher for it
func NewFollower(folder string) (*Follower, error) {
	watcher, err := New()
	if err != nil {
		return nil, err
	}

	return &Follower{
		folder:       folder,
		watcher:      watcher,
		set:          images.Load(folder),
		lastActivity: time.Now(),
	}, nil
}

// Start begins following the folder
func (f *Follower) Start() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.running {
		return errors.New("follower is already running")
	}

	if err := f.watcher.AddDirectory(f.folder); err != nil {
		return err
	}
	if err := f.watcher.Start(); err != nil {
		return errors.Wrap(err, "error starting watcher")
	}

	f.running = true
	f.done = make(chan struct{})
	go f.processEvents(f.done)

	return nil
}

// Stop halts the follower and waits for the last callback to return
func (f *Follower) Stop() {
	f.mutex.Lock()
	if !f.running {
		f.mutex.Unlock()
		return
	}
	f.running = false
	done := f.done
	f.mutex.Unlock()

	f.watcher.Stop()
	<-done
}

// SetCallback sets a function to be called after each change is applied.
// It runs on the follower's goroutine.
func (f *Follower) SetCallback(cb func(Change)) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.callback = cb
}

// WithSet runs fn with exclusive access to the image set, so callers can
// navigate while events keep arriving.
func (f *Follower) WithSet(fn func(*images.Set)) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	fn(f.set)
}

// Status returns the current status of the follower
func (f *Follower) Status() FollowerStatus {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	return FollowerStatus{
		Running:        f.running,
		Folder:         f.folder,
		Images:         f.set.Len(),
		LastActivity:   f.lastActivity,
		Reloads:        f.reloads,
		SidecarChanges: f.sidecarChanges,
	}
}

func (f *Follower) processEvents(done chan struct{}) {
	defer close(done)

	for ev := range f.watcher.Events() {
		change := f.apply(ev)

		f.mutex.RLock()
		cb := f.callback
		f.mutex.RUnlock()

		if cb != nil {
			cb(change)
		}
	}
}

// apply updates the set and statistics for one event
func (f *Follower) apply(ev Event) Change {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.lastActivity = ev.Timestamp
	change := Change{Event: ev}

	switch ev.Kind {
	case ImageChanged:
		f.set.Reload()
		f.reloads++
		change.Reloaded = true
		log.LogWithFields(
			log.F("path", ev.Path),
			log.F("op", ev.Op.String()),
			log.F("images", f.set.Len()),
		).Debug("Reloaded image set")
	case SidecarChanged:
		f.sidecarChanges++
	}

	change.Current, _ = f.set.Current()
	return change
}
