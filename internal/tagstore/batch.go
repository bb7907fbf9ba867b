package tagstore

import (
	"os"
	"path/filepath"

	"tagdesk/internal/errors"
	"tagdesk/internal/log"
	"tagdesk/pkg/types"

	"github.com/oklog/ulid/v2"
	"github.com/otiai10/copy"
)

const backupStampFormat = "20060102-150405.000"

// AddTagToAll adds tag to every image that lacks it. Per-image failures are
// collected in the result and do not stop the batch; the returned error is
// reserved for an invalid tag or a failed backup.
func (s *Store) AddTagToAll(images []string, tag string, pos types.Position) (types.BatchResult, error) {
	tag, err := s.cleanTag(tag)
	if err != nil {
		return types.BatchResult{}, err
	}

	return s.batch(images, "add", tag, func(tags []string) ([]string, bool) {
		if indexOf(tags, tag) >= 0 {
			return tags, false
		}
		return insert(tags, tag, pos), true
	})
}

// RemoveTagFromAll removes the first occurrence of tag from every image
// holding it. Failures are collected the same way as in AddTagToAll.
func (s *Store) RemoveTagFromAll(images []string, tag string) (types.BatchResult, error) {
	tag, err := s.cleanTag(tag)
	if err != nil {
		return types.BatchResult{}, err
	}

	return s.batch(images, "remove", tag, func(tags []string) ([]string, bool) {
		i := indexOf(tags, tag)
		if i < 0 {
			return tags, false
		}
		return append(tags[:i], tags[i+1:]...), true
	})
}

// batch applies edit to each image's tags, writing only the changed ones
func (s *Store) batch(images []string, op, tag string, edit func([]string) ([]string, bool)) (types.BatchResult, error) {
	var result types.BatchResult

	if s.backup {
		if err := s.backupSidecars(images); err != nil {
			return result, err
		}
	}

	for _, image := range images {
		tags, err := s.ReadTags(image)
		if err == nil {
			var changed bool
			tags, changed = edit(tags)
			if !changed {
				continue
			}
			err = s.WriteTags(image, tags)
		}
		if err != nil {
			log.LogWithError(err).With(log.F("image", image), log.F("op", op)).Warn("Batch edit failed for image")
			result.Failures = append(result.Failures, types.ImageFailure{Path: image, Err: err})
			continue
		}
		result.Modified++
	}

	log.LogWithFields(
		log.F("op", op),
		log.F("tag", tag),
		log.F("images", len(images)),
		log.F("modified", result.Modified),
		log.F("failed", len(result.Failures)),
	).Info("Batch edit finished")

	return result, nil
}

// backupSidecars copies the existing sidecars of images into a folder under
// the backup dir named by the time and a ULID, so batches never share one.
// Images without a sidecar are skipped.
func (s *Store) backupSidecars(images []string) error {
	stamp := s.now().Format(backupStampFormat) + "-" + ulid.Make().String()

	for _, image := range images {
		src := SidecarPath(image)
		if src == "" {
			continue
		}
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.NewFileError("backup failed", src, errors.IOFailure, err)
		}

		root := s.backupDir
		if !filepath.IsAbs(root) {
			root = filepath.Join(filepath.Dir(src), root)
		}
		dest := filepath.Join(root, stamp, filepath.Base(src))

		if err := copy.Copy(src, dest, copy.Options{PreserveTimes: true}); err != nil {
			return errors.NewFileError("backup failed", src, errors.IOFailure, err)
		}
		log.Debug("Backed up %s -> %s", src, dest)
	}

	return nil
}
