package common

import "tagdesk/pkg/types"

// Header describes the image being edited
type Header struct {
	Name  string // Base name of the image, empty when the folder has none
	Index int    // Zero-based cursor position
	Total int    // Number of images in the folder
	Info  string // Format, dimensions and size, empty if the probe failed
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Header() Header
	Tags() []string
	Selected() int
	Mode() types.Mode
	Width() int
	Prompt() string
	InputView() string
	StatusView() string
	HelpView() string
}
