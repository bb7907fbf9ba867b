package images

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"tagdesk/internal/errors"
	"tagdesk/pkg/types"

	_ "golang.org/x/image/webp"
)

// Probe reads the format, dimensions and size of an image without decoding
// its pixels.
func Probe(path string) (types.ImageInfo, error) {
	info := types.ImageInfo{Path: path}

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return info, errors.NewFileError("image not found", path, errors.NotFound, err)
		}
		return info, errors.NewFileError("failed to stat image", path, errors.IOFailure, err)
	}
	info.Size = fi.Size()

	f, err := os.Open(path)
	if err != nil {
		return info, errors.NewFileError("failed to open image", path, errors.IOFailure, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return info, errors.NewFileError("unsupported image", path, errors.InvalidInput, err)
	}

	info.Format = format
	info.Width = cfg.Width
	info.Height = cfg.Height
	return info, nil
}
