// Package messages holds the tea messages the editor sends itself.
package messages

import (
	"tagdesk/internal/tagger"
	"tagdesk/internal/watch"
	"tagdesk/pkg/types"

	"github.com/oklog/ulid/v2"
)

// ErrorMsg reports a failure that is only shown in the status bar
type ErrorMsg struct {
	Err error
}

// ProgressMsg carries one progress line of a tagging task
type ProgressMsg struct {
	TaskID ulid.ULID
	Text   string
}

// TaggingDoneMsg is sent once a tagging task has a result
type TaggingDoneMsg struct {
	TaskID ulid.ULID
	Tagger string
	Image  string
	Result tagger.Result
}

// BatchDoneMsg reports the outcome of a batch edit
type BatchDoneMsg struct {
	Add    bool
	Tag    string
	Result types.BatchResult
	Err    error
}

// FolderChangeMsg is a change seen by the folder watcher
type FolderChangeMsg struct {
	Event watch.Event
}
