package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the tag editor.
// It lives in pkg/types so the model and the help view share it.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Image navigation
	NextImage key.Binding
	PrevImage key.Binding

	// Chip selection
	NextTag key.Binding
	PrevTag key.Binding

	// Single-image edits
	AddTag    key.Binding
	RenameTag key.Binding
	DeleteTag key.Binding
	AutoTag   key.Binding

	// Batch edits
	AddToAll      key.Binding
	RemoveFromAll key.Binding

	// Input and confirm modes
	Submit  key.Binding
	Cancel  key.Binding
	Confirm key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextImage:     key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next image")),
		PrevImage:     key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "previous image")),
		NextTag:       key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next tag")),
		PrevTag:       key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "previous tag")),
		AddTag:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add tag")),
		RenameTag:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename tag")),
		DeleteTag:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete tag")),
		AutoTag:       key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "AI tags")),
		AddToAll:      key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "add to all")),
		RemoveFromAll: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "remove from all")),
		Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:       key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextImage, k.PrevImage, k.AddTag, k.DeleteTag, k.AutoTag, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextImage, k.PrevImage, k.NextTag, k.PrevTag},
		{k.AddTag, k.RenameTag, k.DeleteTag, k.AutoTag},
		{k.AddToAll, k.RemoveFromAll, k.Help, k.Quit},
	}
}
