package tagger

import (
	"context"
	"sync"

	"tagdesk/internal/errors"

	"github.com/barasher/go-exiftool"
)

// keywordFields are read in order; the first one present wins
var keywordFields = []string{"Keywords", "Subject"}

// Exif suggests the keywords already embedded in the image's IPTC/XMP
// metadata, read with exiftool.
type Exif struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

// NewExif starts an exiftool process
func NewExif() (*Exif, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, errors.NewModelError("exiftool not available", "exif", errors.ModelUnavailable, err)
	}
	return &Exif{et: et}, nil
}

// Name implements Tagger
func (e *Exif) Name() string { return "exif" }

// Close stops the exiftool process
func (e *Exif) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.et.Close()
}

// Tag implements Tagger
func (e *Exif) Tag(_ context.Context, imagePath string, progress func(string)) ([]string, error) {
	progress("Reading embedded keywords...")

	e.mu.Lock()
	fms := e.et.ExtractMetadata(imagePath)
	e.mu.Unlock()

	if len(fms) == 0 {
		return nil, errors.NewModelError("no metadata returned", e.Name(), errors.ModelFailed, nil)
	}
	if fms[0].Err != nil {
		return nil, errors.NewModelError("metadata extraction failed", e.Name(), errors.ModelFailed, fms[0].Err)
	}

	for _, field := range keywordFields {
		kws, err := fms[0].GetStrings(field)
		if err == nil && len(kws) > 0 {
			return kws, nil
		}
	}
	return []string{}, nil
}
