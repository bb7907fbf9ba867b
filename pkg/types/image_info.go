package types

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// ImageInfo describes an image file on disk
type ImageInfo struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
}

// Name returns the base name of the image
func (i *ImageInfo) Name() string {
	return filepath.Base(i.Path)
}

// ToJSON converts ImageInfo to a JSON string
func (i *ImageInfo) ToJSON() string {
	jsonBytes, _ := json.Marshal(i)
	return string(jsonBytes)
}

// Summary renders "640x480 png 12 kB"
func (i *ImageInfo) Summary() string {
	return fmt.Sprintf("%dx%d %s %s", i.Width, i.Height, i.Format, humanize.Bytes(uint64(i.Size)))
}

// String renders "name 640x480 png 12 kB"
func (i *ImageInfo) String() string {
	return i.Name() + " " + i.Summary()
}
