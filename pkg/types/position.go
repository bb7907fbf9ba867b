package types

import "strings"

// Position says where a new tag is inserted into an image's tag list.
type Position int

const (
	// End appends the tag after the existing tags
	End Position = iota
	// Start inserts the tag before the existing tags
	Start
)

// ParsePosition maps "start" (any case) to Start and everything else to End.
func ParsePosition(s string) Position {
	if strings.EqualFold(strings.TrimSpace(s), "start") {
		return Start
	}
	return End
}

// String returns the config/CLI spelling of the position
func (p Position) String() string {
	if p == Start {
		return "start"
	}
	return "end"
}
