package types

// Mode represents the current input mode of the TUI
type Mode int

const (
	// Normal is the default mode for navigation and chip selection
	Normal Mode = iota
	// Adding reads a new tag into the input line
	Adding
	// Renaming edits the selected tag in the input line
	Renaming
	// Confirm waits for y/n before a batch edit
	Confirm
)

// String returns the status-bar label for the mode
func (m Mode) String() string {
	switch m {
	case Adding:
		return "ADD"
	case Renaming:
		return "RENAME"
	case Confirm:
		return "CONFIRM"
	default:
		return "NORMAL"
	}
}
