package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tagdesk/internal/errors"
	"tagdesk/pkg/testutils"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForEvent reads events until one matches path or the timeout fires
func waitForEvent(t *testing.T, ch <-chan Event, path string) Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			require.True(t, ok, "event channel closed early")
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("timeout waiting for event on %s", path)
		}
	}
}

func TestWatcherEvents(t *testing.T) {
	tempDir := t.TempDir()

	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.Start())
	defer w.Stop()

	assert.True(t, w.IsRunning())
	evChan := w.Events()

	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)

	// Unrelated files are ignored, so write one first and expect to never see it
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.md"), []byte("x"), 0644))

	img := filepath.Join(tempDir, "cat.png")
	testutils.CreateImage(t, img, 4, 4)
	ev := waitForEvent(t, evChan, img)
	assert.Equal(t, ImageChanged, ev.Kind)
	assert.True(t, ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write))
	assert.False(t, ev.Timestamp.IsZero())

	sidecar := testutils.WriteSidecar(t, img, "cat, pet")
	ev = waitForEvent(t, evChan, sidecar)
	assert.Equal(t, SidecarChanged, ev.Kind)

	require.NoError(t, os.Remove(img))
	for {
		ev = waitForEvent(t, evChan, img)
		if ev.Op.Has(fsnotify.Remove) {
			break
		}
	}
	assert.Equal(t, ImageChanged, ev.Kind)

	w.Stop()
	assert.False(t, w.IsRunning())

	// Drain until the loop closes the channel
	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-evChan:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("event channel not closed after stop")
		}
	}
}

func TestWatcherStopTwice(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Start())

	w.Stop()
	w.Stop()

	assert.Error(t, w.Start(), "a stopped watcher cannot restart")
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	w.Stop()

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestAddDirectory(t *testing.T) {
	dir := t.TempDir()
	w, err := New()
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.AddDirectory(dir))
	require.NoError(t, w.AddDirectory(dir))
	assert.Equal(t, []string{dir}, w.GetDirectories(), "directories are deduplicated")

	err = w.AddDirectory(filepath.Join(dir, "missing"))
	assert.True(t, errors.IsNotFound(err))

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	err = w.AddDirectory(file)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "album.png"), 0755))

	tests := []struct {
		name string
		ev   fsnotify.Event
		keep bool
		kind Kind
	}{
		{"image create", fsnotify.Event{Name: "/x/a.png", Op: fsnotify.Create}, true, ImageChanged},
		{"upper case image", fsnotify.Event{Name: "/x/a.JPEG", Op: fsnotify.Write}, true, ImageChanged},
		{"image rename", fsnotify.Event{Name: "/x/a.webp", Op: fsnotify.Rename}, true, ImageChanged},
		{"sidecar", fsnotify.Event{Name: "/x/a.txt", Op: fsnotify.Write}, true, SidecarChanged},
		{"sidecar removed", fsnotify.Event{Name: "/x/a.TXT", Op: fsnotify.Remove}, true, SidecarChanged},
		{"chmod only", fsnotify.Event{Name: "/x/a.png", Op: fsnotify.Chmod}, false, 0},
		{"other file", fsnotify.Event{Name: "/x/a.gif", Op: fsnotify.Create}, false, 0},
		{"folder named like an image", fsnotify.Event{Name: filepath.Join(dir, "album.png"), Op: fsnotify.Create}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, keep := classify(tt.ev)
			assert.Equal(t, tt.keep, keep)
			if keep {
				assert.Equal(t, tt.kind, ev.Kind)
				assert.Equal(t, tt.ev.Name, ev.Path)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "image", ImageChanged.String())
	assert.Equal(t, "sidecar", SidecarChanged.String())
}
