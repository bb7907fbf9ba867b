package tagger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tagdesk/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTagger returns canned tags, optionally waiting for release first
type fakeTagger struct {
	tags     []string
	err      error
	panicMsg string
	steps    []string
	release  chan struct{}

	mu    sync.Mutex
	calls []string
}

func (f *fakeTagger) Name() string { return "fake" }
func (f *fakeTagger) Close() error { return nil }

func (f *fakeTagger) Tag(ctx context.Context, imagePath string, progress func(string)) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, imagePath)
	f.mu.Unlock()

	for _, s := range f.steps {
		progress(s)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.tags, f.err
}

func TestStartSuccess(t *testing.T) {
	f := &fakeTagger{tags: []string{" cat ", "", "dog", "cat"}, steps: []string{"loading", "running"}}
	task := Start(context.Background(), f, "/photos/a.png")

	assert.Equal(t, "fake", task.Tagger())
	assert.Equal(t, "/photos/a.png", task.Image())

	var progress []string
	for msg := range task.Progress() {
		progress = append(progress, msg)
	}
	assert.Equal(t, []string{"loading", "running"}, progress)

	res := <-task.Done()
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"cat", "dog"}, res.Tags)

	// Wait keeps answering after Done was drained
	assert.Equal(t, res, task.Wait())
	assert.Equal(t, res, task.Wait())
	assert.True(t, task.Finished())
}

func TestStartFailure(t *testing.T) {
	f := &fakeTagger{err: errors.NewModelError("boom", "fake", errors.ModelFailed, nil)}
	res := Start(context.Background(), f, "a.png").Wait()

	require.Error(t, res.Err)
	assert.True(t, errors.IsModelError(res.Err))
	assert.Empty(t, res.Tags)
	assert.NotNil(t, res.Tags)
}

func TestStartDiscardsTagsOnError(t *testing.T) {
	f := &fakeTagger{tags: []string{"partial"}, err: fmt.Errorf("half way")}
	res := Start(context.Background(), f, "a.png").Wait()
	require.Error(t, res.Err)
	assert.Empty(t, res.Tags)
}

func TestStartNoTags(t *testing.T) {
	f := &fakeTagger{tags: []string{"  ", ""}}
	res := Start(context.Background(), f, "a.png").Wait()

	require.Error(t, res.Err)
	assert.Equal(t, errors.ModelFailed, errors.KindOf(res.Err))
	assert.Contains(t, res.Err.Error(), "no tags")
}

func TestStartRecoversPanic(t *testing.T) {
	f := &fakeTagger{panicMsg: "nil tensor"}
	res := Start(context.Background(), f, "a.png").Wait()

	require.Error(t, res.Err)
	assert.True(t, errors.IsModelError(res.Err))
	assert.Contains(t, res.Err.Error(), "nil tensor")
}

func TestProgressNeverBlocks(t *testing.T) {
	steps := make([]string, progressBuffer*4)
	for i := range steps {
		steps[i] = fmt.Sprintf("step %d", i)
	}
	f := &fakeTagger{tags: []string{"x"}, steps: steps}
	task := Start(context.Background(), f, "a.png")

	select {
	case res := <-task.Done():
		require.NoError(t, res.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker blocked on progress")
	}

	n := 0
	for range task.Progress() {
		n++
	}
	assert.Equal(t, progressBuffer, n, "overflowing messages are dropped")
}

func TestContextIsHandedToBackend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &fakeTagger{tags: []string{"x"}, release: make(chan struct{})}
	task := Start(ctx, f, "a.png")
	cancel()

	res := task.Wait()
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestTaskIDsAreUnique(t *testing.T) {
	f := &fakeTagger{tags: []string{"x"}}
	a := Start(context.Background(), f, "a.png")
	b := Start(context.Background(), f, "b.png")
	assert.NotEqual(t, a.ID(), b.ID())
	a.Wait()
	b.Wait()
}

func TestRunner(t *testing.T) {
	var r Runner
	f := &fakeTagger{tags: []string{"x"}, release: make(chan struct{})}

	task, err := r.Start(context.Background(), f, "a.png")
	require.NoError(t, err)
	assert.True(t, r.Busy())

	_, err = r.Start(context.Background(), f, "b.png")
	assert.True(t, errors.IsBusy(err))

	close(f.release)
	task.Wait()
	assert.False(t, r.Busy())

	next, err := r.Start(context.Background(), f, "b.png")
	require.NoError(t, err)
	next.Wait()
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Normalize([]string{" a", "b ", "", "  ", "a"}))
	assert.Equal(t, []string{}, Normalize(nil))
	assert.Equal(t, []string{"A", "a"}, Normalize([]string{"A", "a"}), "exact match only")
}

// lateTagger keeps reporting progress from a helper goroutine after Tag returns
type lateTagger struct {
	reported chan struct{}
}

func (l *lateTagger) Name() string { return "late" }
func (l *lateTagger) Close() error { return nil }

func (l *lateTagger) Tag(_ context.Context, _ string, progress func(string)) ([]string, error) {
	go func() {
		defer close(l.reported)
		for i := 0; i < 100; i++ {
			progress("still going")
		}
	}()
	return []string{"cat"}, nil
}

func TestProgressAfterTagReturns(t *testing.T) {
	l := &lateTagger{reported: make(chan struct{})}
	task := Start(context.Background(), l, "/photos/a.png")

	res := task.Wait()
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"cat"}, res.Tags)

	select {
	case <-l.reported:
	case <-time.After(2 * time.Second):
		t.Fatal("helper goroutine never finished")
	}

	for range task.Progress() {
	}
	assert.True(t, task.Finished())
}
