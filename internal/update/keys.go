package update

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/sunrise/internal/commands"
	"github.com/sandeepkv93/sunrise/internal/views"
)

type keyMap struct {
	Toggle  key.Binding
	Reset   key.Binding
	Preset1 key.Binding
	Preset2 key.Binding
	Preset3 key.Binding
	Edit    key.Binding
	Mute    key.Binding
	Visual  key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "start/pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Preset1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "25 min")),
		Preset2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "45 min")),
		Preset3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "60 min")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "custom minutes")),
		Mute:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Visual:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "sky mode")),
		Palette: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Edit, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Edit},
		{k.Preset1, k.Preset2, k.Preset3},
		{k.Mute, k.Visual, k.Palette, k.Help, k.Quit},
	}
}

func (m Model) renderHelpMarkdown() string {
	var lines []string
	for _, group := range m.Keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, h.Key+" "+h.Desc)
		}
	}
	return views.RenderMarkdown(views.HelpMarkdown(views.HelpPanelData{
		Bindings: lines,
		Commands: commands.Names(),
	}))
}
