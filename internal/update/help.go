package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/vitalday/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	bindings := m.helpBindings()
	plain := make([]string, 0, len(m.bindings()))
	for _, kb := range m.bindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{short: bindings, full: [][]key.Binding{bindings}}),
	})
}

func (m Model) bindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.ToggleView, Action: "toggle current window / whole day"},
		{Key: m.Keys.Down + "/" + m.Keys.Up, Action: "move selection"},
		{Key: m.Keys.Complete, Action: "complete task"},
		{Key: m.Keys.Skip, Action: "skip task"},
		{Key: m.Keys.Undo, Action: "undo completion or skip"},
		{Key: m.Keys.Reload, Action: "reload day"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.bindings()))
	for _, kb := range m.bindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
