package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the mixer.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Playback
	Toggle  key.Binding
	Pause   key.Binding
	Restart key.Binding

	// Levels
	Mute       key.Binding
	MasterUp   key.Binding
	MasterDown key.Binding
	TrackUp    key.Binding
	TrackDown  key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Mute, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.Pause, k.Restart},
		{k.Mute, k.MasterUp, k.MasterDown, k.TrackUp, k.TrackDown},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "play/stop"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		MasterUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "master up"),
		),
		MasterDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "master down"),
		),
		TrackUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "track up"),
		),
		TrackDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "track down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
