package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"medviz/anatomy"
)

// FeatureItem is one slot in the feature menu: a feature kind, and the
// script that fills it if any.
type FeatureItem struct {
	Kind      anatomy.FeatureKind
	Script    anatomy.Script
	Available bool
}

// FeatureMenu displays the two feature sections for a selected category:
// three visualization methods and three navigation methods. Slots with no
// matching script render disabled rather than disappearing, so every
// category presents the same six options.
type FeatureMenu struct {
	category      anatomy.Category
	items         []FeatureItem
	selectedIdx   int
	height, width int
}

func NewFeatureMenu() *FeatureMenu {
	return &FeatureMenu{selectedIdx: -1}
}

// SetSize sets the height and width of the menu.
func (m *FeatureMenu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetCategory rebuilds the slots for a category from the mapping. The
// cursor lands on the first available slot, or nowhere when the category
// has no scripts.
func (m *FeatureMenu) SetCategory(c anatomy.Category, mapping anatomy.Mapping) {
	m.category = c
	m.items = m.items[:0]

	kinds := append(append([]anatomy.FeatureKind{}, anatomy.VisualizationKinds...), anatomy.NavigationKinds...)
	for _, kind := range kinds {
		item := FeatureItem{Kind: kind}
		if script, ok := mapping.Find(c, kind); ok {
			item.Script = script
			item.Available = true
		}
		m.items = append(m.items, item)
	}

	m.selectedIdx = m.firstAvailable()
}

func (m *FeatureMenu) firstAvailable() int {
	for i, item := range m.items {
		if item.Available {
			return i
		}
	}
	return -1
}

// Category returns the category the menu was built for.
func (m *FeatureMenu) Category() anatomy.Category {
	return m.category
}

// Up moves the cursor to the previous available slot.
func (m *FeatureMenu) Up() {
	for i := m.selectedIdx - 1; i >= 0; i-- {
		if m.items[i].Available {
			m.selectedIdx = i
			return
		}
	}
}

// Down moves the cursor to the next available slot.
func (m *FeatureMenu) Down() {
	for i := m.selectedIdx + 1; i < len(m.items); i++ {
		if m.items[i].Available {
			m.selectedIdx = i
			return
		}
	}
}

// Selected returns the item under the cursor. ok is false when the
// category has no available features at all.
func (m *FeatureMenu) Selected() (FeatureItem, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.items) {
		return FeatureItem{}, false
	}
	return m.items[m.selectedIdx], true
}

// NumAvailable returns how many slots have a script.
func (m *FeatureMenu) NumAvailable() int {
	n := 0
	for _, item := range m.items {
		if item.Available {
			n++
		}
	}
	return n
}

func (m *FeatureMenu) String() string {
	info := m.category.Info()
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(info.Color)).Bold(true)

	var b strings.Builder
	b.WriteString(lipgloss.Place(m.width, 2, lipgloss.Center, lipgloss.Center,
		accent.Render(strings.ToUpper(info.Name))))
	b.WriteString("\n")

	b.WriteString(m.renderSection("Visualization Methods", sectionHeaderStyle, 0, len(anatomy.VisualizationKinds)))
	b.WriteString("\n")
	b.WriteString(m.renderSection("Navigation Methods", navHeaderStyle, len(anatomy.VisualizationKinds), len(m.items)))

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, b.String())
}

func (m *FeatureMenu) renderSection(header string, headerStyle lipgloss.Style, from, to int) string {
	var b strings.Builder
	b.WriteString(" " + headerStyle.Render(header) + "\n")

	for i := from; i < to && i < len(m.items); i++ {
		item := m.items[i]
		selected := i == m.selectedIdx

		cursor := "  "
		if selected {
			cursor = "> "
		}

		name := runewidth.Truncate(item.Kind.String(), max(0, m.width-8), "...")
		var line string
		switch {
		case item.Available && selected:
			line = selectedRowStyle.Render(fmt.Sprintf("%s%s %s", cursor, name, availableStyle.Render(readyIcon)))
		case item.Available:
			line = rowStyle.Render(fmt.Sprintf("%s%s %s", cursor, name, availableStyle.Render(readyIcon)))
		default:
			line = disabledStyle.Render(fmt.Sprintf("%s%s %s", cursor, name, pendingIcon))
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}
