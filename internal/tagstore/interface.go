package tagstore

import "tagdesk/pkg/types"

// Editor defines the tag operations the front ends rely on.
// This allows for dependency injection in tests.
type Editor interface {
	// ReadTags returns the tags of an image, empty when it has no sidecar
	ReadTags(imagePath string) ([]string, error)

	// WriteTags overwrites the tags of an image
	WriteTags(imagePath string, tags []string) error

	// AddTag inserts a tag unless present
	AddTag(imagePath, tag string, pos types.Position) (bool, error)

	// RemoveTag removes the first occurrence of a tag
	RemoveTag(imagePath, tag string) (bool, error)

	// RenameTag replaces a tag in place
	RenameTag(imagePath, oldTag, newTag string) error

	// MergeTags appends AI candidates that are not yet present
	MergeTags(imagePath string, candidates []string) ([]string, error)

	// AddTagToAll adds a tag to many images
	AddTagToAll(images []string, tag string, pos types.Position) (types.BatchResult, error)

	// RemoveTagFromAll removes a tag from many images
	RemoveTagFromAll(images []string, tag string) (types.BatchResult, error)
}

// Ensure Store implements the Editor interface
var _ Editor = (*Store)(nil)
