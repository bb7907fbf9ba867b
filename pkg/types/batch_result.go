package types

// ImageFailure records one image that a batch operation could not update.
type ImageFailure struct {
	Path string `json:"path"`
	Err  error  `json:"error,omitempty"`
}

// BatchResult holds the outcome of a tag edit applied to many images.
// Modified counts the images whose sidecar was rewritten.
type BatchResult struct {
	Modified int            `json:"modified"`
	Failures []ImageFailure `json:"failures,omitempty"`
}

// Failed reports whether at least one image could not be processed
func (r BatchResult) Failed() bool {
	return len(r.Failures) > 0
}
