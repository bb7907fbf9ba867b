package tagstore

import (
	"os"
	"path/filepath"
	"testing"

	"tagdesk/internal/config"
	"tagdesk/internal/errors"
	"tagdesk/pkg/testutils"
	"tagdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/photos/cat.png", "/photos/cat.txt"},
		{"a/b.PNG", "a/b.txt"},
		{"a/b.tar.jpeg", "a/b.tar.txt"},
		{"noext", "noext.txt"},
		{"dir.d/noext", "dir.d/noext.txt"},
		{"/photos/.hidden", "/photos/.hidden.txt"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SidecarPath(tt.in))
		})
	}
}

func TestParseAndFormat(t *testing.T) {
	assert.Equal(t, []string{"cat", "dog"}, ParseTags("cat, dog"))
	assert.Equal(t, []string{"a", "b"}, ParseTags(" a ,, b , "))
	assert.Equal(t, []string{}, ParseTags("   "))
	assert.Equal(t, []string{"x", "x"}, ParseTags("x,x"), "duplicates survive a raw read")

	assert.Equal(t, "cat, dog", FormatTags([]string{"cat", "dog"}))
	assert.Equal(t, "", FormatTags(nil))
}

func TestReadTags(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "img.png")
	s := New()

	t.Run("missing sidecar", func(t *testing.T) {
		tags, err := s.ReadTags(img)
		require.NoError(t, err)
		assert.Equal(t, []string{}, tags)
	})

	t.Run("blank sidecar", func(t *testing.T) {
		testutils.WriteSidecar(t, img, "  \n ")
		tags, err := s.ReadTags(img)
		require.NoError(t, err)
		assert.Empty(t, tags)
	})

	t.Run("content", func(t *testing.T) {
		testutils.WriteSidecar(t, img, " a ,, b , ")
		tags, err := s.ReadTags(img)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tags)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := s.ReadTags("")
		assert.True(t, errors.IsInvalidInput(err))
	})

	t.Run("unreadable sidecar", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.png")
		require.NoError(t, os.Mkdir(SidecarPath(bad), 0755))
		_, err := s.ReadTags(bad)
		require.Error(t, err)
		assert.True(t, errors.IsIOFailure(err))
	})
}

func TestWriteTags(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "img.png")
	s := New()

	require.NoError(t, s.WriteTags(img, []string{"cat", "dog"}))
	assert.Equal(t, "cat, dog", testutils.ReadSidecar(t, img))

	require.NoError(t, s.WriteTags(img, []string{}))
	assert.Equal(t, "", testutils.ReadSidecar(t, img))

	t.Run("round trip", func(t *testing.T) {
		in := []string{"b", "a", "long tag with spaces"}
		require.NoError(t, s.WriteTags(img, in))
		out, err := s.ReadTags(img)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("empty path", func(t *testing.T) {
		err := s.WriteTags("", []string{"x"})
		assert.ErrorIs(t, err, errors.ErrInvalidPath)
	})

	t.Run("delimiter rejected", func(t *testing.T) {
		require.NoError(t, s.WriteTags(img, []string{"keep"}))
		err := s.WriteTags(img, []string{"ok", "a,b"})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidInput(err))
		assert.Equal(t, "keep", testutils.ReadSidecar(t, img), "nothing written")
	})

	t.Run("delimiter allowed when configured", func(t *testing.T) {
		loose := New(WithRejectDelimiter(false))
		require.NoError(t, loose.WriteTags(img, []string{"a,b"}))
		tags, err := loose.ReadTags(img)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tags)
	})

	t.Run("write failure", func(t *testing.T) {
		bad := filepath.Join(dir, "blocked.png")
		require.NoError(t, os.Mkdir(SidecarPath(bad), 0755))
		err := s.WriteTags(bad, []string{"x"})
		require.Error(t, err)
		assert.True(t, errors.IsIOFailure(err))

		var fe *errors.FileError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, SidecarPath(bad), fe.Path())
	})
}

func TestAddAndRemoveTag(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "img.png")
	s := New()

	added, err := s.AddTag(img, " cat ", types.End)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddTag(img, "dog", types.Start)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "dog, cat", testutils.ReadSidecar(t, img))

	added, err = s.AddTag(img, "cat", types.End)
	require.NoError(t, err)
	assert.False(t, added, "present tag is skipped")

	added, err = s.AddTag(img, "Cat", types.End)
	require.NoError(t, err)
	assert.True(t, added, "comparison is case-sensitive")

	_, err = s.AddTag(img, "   ", types.End)
	assert.True(t, errors.IsInvalidInput(err))

	removed, err := s.RemoveTag(img, "cat")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, "dog, Cat", testutils.ReadSidecar(t, img))

	removed, err = s.RemoveTag(img, "bird")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRemoveTagFirstOccurrence(t *testing.T) {
	img := filepath.Join(t.TempDir(), "img.png")
	testutils.WriteSidecar(t, img, "x, y, x")

	removed, err := New().RemoveTag(img, "x")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, "y, x", testutils.ReadSidecar(t, img))
}

func TestRenameTag(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "img.png")
	s := New()

	t.Run("keeps position", func(t *testing.T) {
		testutils.WriteSidecar(t, img, "a, b, c")
		require.NoError(t, s.RenameTag(img, "b", "x"))
		assert.Equal(t, "a, x, c", testutils.ReadSidecar(t, img))
	})

	t.Run("duplicate refused", func(t *testing.T) {
		testutils.WriteSidecar(t, img, "a, b, c")
		err := s.RenameTag(img, "a", "c")
		require.Error(t, err)
		assert.True(t, errors.IsDuplicate(err))
		assert.ErrorIs(t, err, errors.ErrDuplicateTag)
		assert.Equal(t, "a, b, c", testutils.ReadSidecar(t, img), "file unchanged")
	})

	t.Run("same name", func(t *testing.T) {
		testutils.WriteSidecar(t, img, "a, b")
		assert.NoError(t, s.RenameTag(img, "a", "a"))
		assert.Equal(t, "a, b", testutils.ReadSidecar(t, img))
	})

	t.Run("old tag absent", func(t *testing.T) {
		testutils.WriteSidecar(t, img, "a, b")
		err := s.RenameTag(img, "zzz", "y")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.ErrorIs(t, err, errors.ErrTagNotFound)
		assert.Equal(t, "a, b", testutils.ReadSidecar(t, img))
	})

	t.Run("new tag invalid", func(t *testing.T) {
		testutils.WriteSidecar(t, img, "a")
		assert.True(t, errors.IsInvalidInput(s.RenameTag(img, "a", " ")))
		assert.True(t, errors.IsInvalidInput(s.RenameTag(img, "a", "x,y")))
		assert.Equal(t, "a", testutils.ReadSidecar(t, img))
	})
}

func TestMergeTags(t *testing.T) {
	img := filepath.Join(t.TempDir(), "img.png")
	s := New()
	testutils.WriteSidecar(t, img, "cat")

	added, err := s.MergeTags(img, []string{" dog ", "", "cat", "dog", "a red ball, grass"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "a red ball", "grass"}, added)
	assert.Equal(t, "cat, dog, a red ball, grass", testutils.ReadSidecar(t, img))

	added, err = s.MergeTags(img, []string{"cat", "grass"})
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestNewWithConfig(t *testing.T) {
	cfg := config.New()
	s := NewWithConfig(cfg)
	assert.False(t, s.backup)
	assert.True(t, s.rejectDelimiter)

	cfg.Settings.Backup = true
	cfg.Settings.RejectDelimiter = false
	s = NewWithConfig(cfg)
	assert.True(t, s.backup)
	assert.Equal(t, ".tagdesk-backup", s.backupDir)
	assert.False(t, s.rejectDelimiter)
}
