package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"medviz/keys"
)

var keyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#655F5F", Dark: "#7F7A7A"})

var descStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#7A7474", Dark: "#9C9494"})

var menuSepStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#DDDADA", Dark: "#3C3C3C"})

const menuSeparator = "  •  "

// MenuState selects which keybindings the bottom menu advertises.
type MenuState int

const (
	MenuStateCategories MenuState = iota
	MenuStateFeatures
	MenuStateRunning
)

var menuOptions = map[MenuState][]keys.KeyName{
	MenuStateCategories: {keys.KeyUp, keys.KeyDown, keys.KeyEnter, keys.KeyRescan, keys.KeyHelp, keys.KeyQuit},
	MenuStateFeatures:   {keys.KeyUp, keys.KeyDown, keys.KeyEnter, keys.KeyBack, keys.KeyTab, keys.KeyHelp, keys.KeyQuit},
	MenuStateRunning:    {keys.KeyTab, keys.KeyCopy, keys.KeyKill, keys.KeyBack, keys.KeyQuit},
}

// Menu is the bottom bar listing the keybindings available in the
// current state.
type Menu struct {
	state         MenuState
	height, width int
}

func NewMenu() *Menu {
	return &Menu{state: MenuStateCategories}
}

// SetState switches the advertised keybindings.
func (m *Menu) SetState(state MenuState) {
	m.state = state
}

// SetSize sets the height and width of the menu bar.
func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Menu) String() string {
	var parts []string
	for _, name := range menuOptions[m.state] {
		binding := keys.GlobalkeyBindings[name]
		help := binding.Help()
		parts = append(parts, keyStyle.Render(help.Key)+" "+descStyle.Render(help.Desc))
	}

	bar := strings.Join(parts, menuSepStyle.Render(menuSeparator))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, bar)
}
