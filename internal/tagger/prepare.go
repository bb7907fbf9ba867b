package tagger

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"tagdesk/internal/errors"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/webp"
)

const (
	// maxUploadSide bounds the longer side of images sent to remote models
	maxUploadSide = 1024
	uploadQuality = 85
)

// loadImage decodes any supported image format
func loadImage(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, errors.NewFileError("failed to open image", path, errors.IOFailure, err)
	}
	return img, nil
}

// fitSize scales w x h down so the longer side is at most limit
func fitSize(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// jpegForUpload loads path, shrinks it to maxUploadSide and re-encodes it
// as JPEG, the format every remote backend accepts.
func jpegForUpload(path string) ([]byte, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := fitSize(b.Dx(), b.Dy(), maxUploadSide)
	if w != b.Dx() || h != b.Dy() {
		img = transform.Resize(img, w, h, transform.Lanczos)
	}

	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(uploadQuality)(&buf, img); err != nil {
		return nil, errors.NewFileError("failed to encode image", path, errors.IOFailure, err)
	}
	return buf.Bytes(), nil
}
