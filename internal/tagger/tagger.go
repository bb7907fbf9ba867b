// Package tagger runs AI tag suggestion in the background. A Tagger turns
// one image into candidate tags; Start runs it on its own goroutine and
// hands back a Task the caller can watch.
package tagger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tagdesk/internal/errors"
	"tagdesk/internal/log"

	"github.com/oklog/ulid/v2"
)

const progressBuffer = 16

// ErrBusy is returned by a Runner that already has a task in flight
var ErrBusy = errors.NewModelError("a tagging task is already running", "", errors.Busy, nil)

// Tagger produces candidate tags for an image
type Tagger interface {
	// Name identifies the backend in logs and status lines
	Name() string
	// Tag returns suggested tags for imagePath. progress may be called
	// with short status messages while it works.
	Tag(ctx context.Context, imagePath string, progress func(string)) ([]string, error)
	// Close releases models, clients or helper processes
	Close() error
}

// Result is the terminal outcome of a Task. On success Tags is non-empty
// and Err is nil; on failure Tags is empty and Err says why.
type Result struct {
	Tags []string
	Err  error
}

// Task is a handle on one background tagging run
type Task struct {
	id       ulid.ULID
	tagger   string
	image    string
	progress chan string
	done     chan Result

	// progressMu guards progress against sends after it is closed
	progressMu     sync.Mutex
	progressClosed bool

	finished chan struct{}
	result   Result
}

// Start runs t on imagePath in a new goroutine
func Start(ctx context.Context, t Tagger, imagePath string) *Task {
	task := &Task{
		id:       ulid.Make(),
		tagger:   t.Name(),
		image:    imagePath,
		progress: make(chan string, progressBuffer),
		done:     make(chan Result, 1),
		finished: make(chan struct{}),
	}

	go task.run(ctx, t)
	return task
}

func (t *Task) run(ctx context.Context, tg Tagger) {
	logger := log.LogWithFields(log.F("task", t.id.String()), log.F("tagger", t.tagger), log.F("image", t.image))
	logger.Debug("Tagging started")

	tags, err := t.call(ctx, tg)
	if err == nil {
		tags = Normalize(tags)
		if len(tags) == 0 {
			err = errors.NewModelError("no tags", t.tagger, errors.ModelFailed, nil)
		}
	}
	if err != nil {
		tags = []string{}
		log.LogWithError(err).With(log.F("task", t.id.String())).Warn("Tagging failed")
	} else {
		logger.With(log.F("count", len(tags))).Info("Tagging finished")
	}

	t.progressMu.Lock()
	t.progressClosed = true
	close(t.progress)
	t.progressMu.Unlock()

	t.result = Result{Tags: tags, Err: err}
	close(t.finished)
	t.done <- t.result
}

// call runs the backend, turning a panic into an error
func (t *Task) call(ctx context.Context, tg Tagger) (tags []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewModelError("tagger panicked", t.tagger, errors.ModelFailed, fmt.Errorf("%v", r))
		}
	}()
	return tg.Tag(ctx, t.image, t.report)
}

// report forwards a progress message without ever blocking the worker.
// Messages sent after the run ended are dropped.
func (t *Task) report(msg string) {
	t.progressMu.Lock()
	defer t.progressMu.Unlock()

	if t.progressClosed {
		return
	}
	select {
	case t.progress <- msg:
	default:
	}
}

// ID returns the task's unique, time-ordered identifier
func (t *Task) ID() ulid.ULID { return t.id }

// Tagger returns the backend name
func (t *Task) Tagger() string { return t.tagger }

// Image returns the image being tagged
func (t *Task) Image() string { return t.image }

// Progress delivers status messages; it is closed when the run ends
func (t *Task) Progress() <-chan string { return t.progress }

// Done delivers the Result exactly once
func (t *Task) Done() <-chan Result { return t.done }

// Wait blocks until the run ends and returns its Result. It can be called
// any number of times, before or after Done is read.
func (t *Task) Wait() Result {
	<-t.finished
	return t.result
}

// Finished reports whether the run has ended
func (t *Task) Finished() bool {
	select {
	case <-t.finished:
		return true
	default:
		return false
	}
}

// Runner allows one task at a time
type Runner struct {
	mu      sync.Mutex
	current *Task
}

// Start launches t unless a previous task is still running
func (r *Runner) Start(ctx context.Context, t Tagger, imagePath string) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && !r.current.Finished() {
		return nil, ErrBusy
	}
	r.current = Start(ctx, t, imagePath)
	return r.current, nil
}

// Busy reports whether a task is in flight
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil && !r.current.Finished()
}

// Normalize trims tags and drops blanks and repeats, keeping first-seen order
func Normalize(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
