// Package images enumerates the images of a folder and keeps a cursor on
// the one being edited.
package images

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tagdesk/internal/log"

	"github.com/gobwas/glob"
	"github.com/karrick/godirwalk"
)

// Pattern matches the lower-cased names of supported images
const Pattern = "*.{png,jpg,jpeg,webp}"

var imageGlob = glob.MustCompile(Pattern)

// IsImage reports whether name has a supported image extension, ignoring case
func IsImage(name string) bool {
	return imageGlob.Match(strings.ToLower(filepath.Base(name)))
}

// Set is the sorted list of images directly inside a folder plus a cursor.
// The cursor is -1 when the set is empty. Set is not safe for concurrent use.
type Set struct {
	folder string
	paths  []string
	cursor int
}

// Load lists the images directly inside folder, sorted by path, with the
// cursor on the first one. A folder that cannot be read gives an empty set.
func Load(folder string) *Set {
	s := &Set{folder: folder, cursor: -1}
	s.paths = list(folder)
	if len(s.paths) > 0 {
		s.cursor = 0
	}
	return s
}

func list(folder string) []string {
	paths := []string{}
	if folder == "" {
		return paths
	}

	dirents, err := godirwalk.ReadDirents(folder, nil)
	if err != nil {
		log.Debug("Cannot list %s: %v", folder, err)
		return paths
	}

	for _, de := range dirents {
		if de.IsDir() || !IsImage(de.Name()) {
			continue
		}
		path := filepath.Join(folder, de.Name())
		if de.IsSymlink() {
			if fi, err := os.Stat(path); err != nil || fi.IsDir() {
				continue
			}
		}
		paths = append(paths, path)
	}

	sort.Strings(paths)
	log.Debug("Found %d images in %s", len(paths), folder)
	return paths
}

// Folder returns the folder the set was loaded from
func (s *Set) Folder() string {
	return s.folder
}

// Len returns the number of images
func (s *Set) Len() int {
	return len(s.paths)
}

// Index returns the cursor, -1 when unset
func (s *Set) Index() int {
	return s.cursor
}

// Paths returns a copy of the image paths in order
func (s *Set) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Current returns the image under the cursor
func (s *Set) Current() (string, bool) {
	if s.cursor < 0 || s.cursor >= len(s.paths) {
		return "", false
	}
	return s.paths[s.cursor], true
}

// Advance moves to the next image. It never wraps.
func (s *Set) Advance() bool {
	if s.cursor < 0 || s.cursor >= len(s.paths)-1 {
		return false
	}
	s.cursor++
	return true
}

// Retreat moves to the previous image. It never wraps.
func (s *Set) Retreat() bool {
	if s.cursor <= 0 {
		return false
	}
	s.cursor--
	return true
}

// Seek moves the cursor to index i if it is in range
func (s *Set) Seek(i int) bool {
	if i < 0 || i >= len(s.paths) {
		return false
	}
	s.cursor = i
	return true
}

// SeekPath moves the cursor to path if it is part of the set
func (s *Set) SeekPath(path string) bool {
	i := sort.SearchStrings(s.paths, path)
	if i < len(s.paths) && s.paths[i] == path {
		s.cursor = i
		return true
	}
	return false
}

// Reload lists the folder again. The cursor stays on the same image when
// it still exists, otherwise it is clamped into the new range.
func (s *Set) Reload() {
	current, ok := s.Current()
	index := s.cursor

	s.paths = list(s.folder)

	switch {
	case len(s.paths) == 0:
		s.cursor = -1
	case ok && s.SeekPath(current):
	case index >= len(s.paths):
		s.cursor = len(s.paths) - 1
	case index < 0:
		s.cursor = 0
	default:
		s.cursor = index
	}
}
