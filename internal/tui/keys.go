package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

type keyMap struct {
	Quit      key.Binding
	QuitShort key.Binding
	Back      key.Binding
	Address   key.Binding
	Help      key.Binding
	Home      key.Binding
	NewSearch key.Binding
	Retry     key.Binding
	Open      key.Binding
	Up        key.Binding
	Down      key.Binding
	NextTopic key.Binding
	PrevTopic key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		QuitShort: key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Address:   key.NewBinding(key.WithKeys("ctrl+l", "o"), key.WithHelp("o", "open location")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Home:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
		NewSearch: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "new search")),
		Retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextTopic: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next topic")),
		PrevTopic: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous topic")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.NextTopic, k.Retry, k.Back, k.Address, k.Help, k.QuitShort, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.NextTopic, k.PrevTopic},
		{k.Retry, k.NewSearch, k.Home, k.Back, k.Address},
		{k.Help, k.QuitShort, k.Quit},
	}
}

// sync enables the bindings that make sense for the mounted view. Letter
// keys are released while a text input has focus so they reach the input.
func (k *keyMap) sync(typing, selectable, retryable, topics, canGoBack bool) {
	if typing {
		k.Address.SetKeys("ctrl+l")
		k.Address.SetHelp("ctrl+l", "open location")
	} else {
		k.Address.SetKeys("ctrl+l", "o")
		k.Address.SetHelp("o", "open location")
	}
	k.Back.SetEnabled(canGoBack)
	k.QuitShort.SetEnabled(!typing)
	k.Help.SetEnabled(!typing)
	k.Home.SetEnabled(!typing)
	k.NewSearch.SetEnabled(!typing)
	k.Retry.SetEnabled(!typing && retryable)
	k.Up.SetEnabled(!typing && selectable)
	k.Down.SetEnabled(!typing && selectable)
	k.Open.SetEnabled(selectable || typing)
	k.NextTopic.SetEnabled(topics)
	k.PrevTopic.SetEnabled(topics)
}

func bodyScrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		PageUp:       key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "½ page down")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "½ page up")),
	}
}
