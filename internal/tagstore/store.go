// Package tagstore keeps an image's tags in a plain-text sidecar file next
// to it. Tags are read fresh on every call and written back on every edit;
// the Store itself holds no tag state.
package tagstore

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"tagdesk/internal/config"
	"tagdesk/internal/errors"
	"tagdesk/internal/log"
	"tagdesk/pkg/types"
)

const (
	// SidecarExt is the extension of tag files
	SidecarExt = ".txt"
	// Delimiter separates tags inside a sidecar
	Delimiter = ","

	separator = Delimiter + " "
)

// Store reads and edits sidecar tag files.
// It is not safe for concurrent use on the same image.
type Store struct {
	backup          bool
	backupDir       string
	rejectDelimiter bool
	now             func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithBackup copies sidecars into dir before every batch edit. A relative
// dir is resolved against each image's folder.
func WithBackup(dir string) Option {
	return func(s *Store) {
		s.backup = dir != ""
		s.backupDir = dir
	}
}

// WithRejectDelimiter controls whether tags containing a comma are refused
func WithRejectDelimiter(reject bool) Option {
	return func(s *Store) {
		s.rejectDelimiter = reject
	}
}

// New creates a Store. Tags containing the delimiter are rejected unless
// WithRejectDelimiter(false) is given.
func New(opts ...Option) *Store {
	s := &Store{
		rejectDelimiter: true,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewWithConfig creates a Store from the settings section of cfg
func NewWithConfig(cfg *config.Config) *Store {
	opts := []Option{WithRejectDelimiter(cfg.Settings.RejectDelimiter)}
	if cfg.Settings.Backup {
		opts = append(opts, WithBackup(cfg.Settings.BackupDir))
	}
	return New(opts...)
}

// SidecarPath maps an image path to its tag file by replacing the extension.
// A name with no extension gets one appended; "" maps to "".
func SidecarPath(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	ext := filepath.Ext(imagePath)
	if ext == filepath.Base(imagePath) {
		// dotfile such as ".hidden" has no extension to replace
		ext = ""
	}
	return strings.TrimSuffix(imagePath, ext) + SidecarExt
}

// ParseTags splits sidecar content on the delimiter, trimming each piece
// and dropping empty ones. Duplicates are kept.
func ParseTags(content string) []string {
	tags := []string{}
	for _, piece := range strings.Split(content, Delimiter) {
		if tag := strings.TrimSpace(piece); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FormatTags joins tags into sidecar content
func FormatTags(tags []string) string {
	return strings.Join(tags, separator)
}

// ReadTags returns the tags stored for imagePath. A missing or blank
// sidecar yields an empty list.
func (s *Store) ReadTags(imagePath string) ([]string, error) {
	path := SidecarPath(imagePath)
	if path == "" {
		return nil, errors.ErrInvalidPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.NewFileError("failed to read sidecar", path, errors.IOFailure, err)
	}

	return ParseTags(string(data)), nil
}

// WriteTags overwrites the sidecar of imagePath with tags
func (s *Store) WriteTags(imagePath string, tags []string) error {
	path := SidecarPath(imagePath)
	if path == "" {
		return errors.ErrInvalidPath
	}

	for _, tag := range tags {
		if err := s.checkDelimiter(tag); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, []byte(FormatTags(tags)), 0644); err != nil {
		return errors.NewFileError("failed to write sidecar", path, errors.IOFailure, err)
	}

	log.Debug("Wrote %d tags to %s", len(tags), path)
	return nil
}

// cleanTag trims tag and checks it can be stored
func (s *Store) cleanTag(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", errors.ErrInvalidTag
	}
	if err := s.checkDelimiter(tag); err != nil {
		return "", err
	}
	return tag, nil
}

func (s *Store) checkDelimiter(tag string) error {
	if s.rejectDelimiter && strings.Contains(tag, Delimiter) {
		return errors.NewTagError("tag contains the delimiter", tag, errors.InvalidInput, errors.ErrInvalidTag)
	}
	return nil
}

func indexOf(tags []string, tag string) int {
	for i, t := range tags {
		if t == tag {
			return i
		}
	}
	return -1
}

func insert(tags []string, tag string, pos types.Position) []string {
	if pos == types.Start {
		return append([]string{tag}, tags...)
	}
	return append(tags, tag)
}

// AddTag inserts tag into the tags of imagePath unless it is already there.
// It reports whether the sidecar changed.
func (s *Store) AddTag(imagePath, tag string, pos types.Position) (bool, error) {
	tag, err := s.cleanTag(tag)
	if err != nil {
		return false, err
	}

	tags, err := s.ReadTags(imagePath)
	if err != nil {
		return false, err
	}
	if indexOf(tags, tag) >= 0 {
		return false, nil
	}

	if err := s.WriteTags(imagePath, insert(tags, tag, pos)); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveTag deletes the first occurrence of tag. It reports whether the
// sidecar changed.
func (s *Store) RemoveTag(imagePath, tag string) (bool, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false, errors.ErrInvalidTag
	}

	tags, err := s.ReadTags(imagePath)
	if err != nil {
		return false, err
	}
	i := indexOf(tags, tag)
	if i < 0 {
		return false, nil
	}

	tags = append(tags[:i], tags[i+1:]...)
	if err := s.WriteTags(imagePath, tags); err != nil {
		return false, err
	}
	return true, nil
}

// RenameTag replaces oldTag with newTag in place. Nothing is written when
// oldTag is absent or newTag already exists elsewhere in the list.
func (s *Store) RenameTag(imagePath, oldTag, newTag string) error {
	oldTag = strings.TrimSpace(oldTag)
	if oldTag == "" {
		return errors.ErrInvalidTag
	}
	newTag, err := s.cleanTag(newTag)
	if err != nil {
		return err
	}

	tags, err := s.ReadTags(imagePath)
	if err != nil {
		return err
	}

	i := indexOf(tags, oldTag)
	if i < 0 {
		return errors.NewTagError("cannot rename", oldTag, errors.NotFound, errors.ErrTagNotFound)
	}
	if oldTag == newTag {
		return nil
	}
	if j := indexOf(tags, newTag); j >= 0 && j != i {
		return errors.NewTagError("cannot rename", newTag, errors.DuplicateConflict, errors.ErrDuplicateTag)
	}

	tags[i] = newTag
	return s.WriteTags(imagePath, tags)
}

// MergeTags appends every candidate not yet present, in order, and returns
// the ones added. Candidates are cleaned the way a sidecar read would clean
// them, so a caption holding commas becomes several tags.
func (s *Store) MergeTags(imagePath string, candidates []string) ([]string, error) {
	tags, err := s.ReadTags(imagePath)
	if err != nil {
		return nil, err
	}

	added := []string{}
	for _, c := range candidates {
		for _, tag := range ParseTags(c) {
			if indexOf(tags, tag) >= 0 {
				continue
			}
			tags = append(tags, tag)
			added = append(added, tag)
		}
	}

	if len(added) == 0 {
		return added, nil
	}
	if err := s.WriteTags(imagePath, tags); err != nil {
		return nil, err
	}

	log.Debug("Merged %d tags into %s", len(added), SidecarPath(imagePath))
	return added, nil
}
