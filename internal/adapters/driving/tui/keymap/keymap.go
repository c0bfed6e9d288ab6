// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application when the input is not focused.
	Quit key.Binding

	// ForceQuit always exits the application.
	ForceQuit key.Binding

	// ToggleTree shows or hides the directory tree.
	ToggleTree key.Binding

	// NextPane cycles focus between tree, results and input.
	NextPane key.Binding

	// Leave moves focus out of the input box.
	Leave key.Binding

	// Submit sends the prompt, or toggles/selects in the tree.
	Submit key.Binding

	// Up navigates up in the tree or scrolls the results.
	Up key.Binding

	// Down navigates down in the tree or scrolls the results.
	Down key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		ToggleTree: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "files"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave input"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// InputHelp returns keybindings shown while the input has focus.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Leave, k.NextPane, k.ForceQuit}
}

// ShortHelp returns keybindings shown while a pane other than the input has focus.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleTree, k.NextPane, k.Quit}
}

// FullHelp returns the full list of keybindings.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Submit},
		{k.ToggleTree, k.NextPane, k.Leave},
		{k.Quit, k.ForceQuit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
