package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"medviz/anatomy"
)

// CategoryList displays the four anatomical systems with their script
// counts. The mapping is set once at startup and replaced wholesale when
// the catalog is rebuilt; the list itself never mutates it.
type CategoryList struct {
	mapping       anatomy.Mapping
	selectedIdx   int
	height, width int
}

func NewCategoryList() *CategoryList {
	return &CategoryList{}
}

// SetSize sets the height and width of the list.
func (l *CategoryList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// SetMapping replaces the category mapping the list renders from.
func (l *CategoryList) SetMapping(m anatomy.Mapping) {
	l.mapping = m
}

func (l *CategoryList) Up() {
	if l.selectedIdx > 0 {
		l.selectedIdx--
	}
}

func (l *CategoryList) Down() {
	if l.selectedIdx < len(anatomy.Categories)-1 {
		l.selectedIdx++
	}
}

// Selected returns the category under the cursor.
func (l *CategoryList) Selected() anatomy.Category {
	return anatomy.Categories[l.selectedIdx]
}

func (l *CategoryList) SelectedIdx() int {
	return l.selectedIdx
}

// SetSelectedIdx restores a persisted selection; out-of-range values are
// clamped rather than rejected.
func (l *CategoryList) SetSelectedIdx(idx int) {
	if idx < 0 {
		idx = 0
	}
	if idx >= len(anatomy.Categories) {
		idx = len(anatomy.Categories) - 1
	}
	l.selectedIdx = idx
}

// Count returns the number of scripts mapped to a category.
func (l *CategoryList) Count(c anatomy.Category) int {
	if l.mapping == nil {
		return 0
	}
	return len(l.mapping.Scripts(c))
}

func (l *CategoryList) String() string {
	var b strings.Builder
	b.WriteString(lipgloss.Place(l.width, 2, lipgloss.Center, lipgloss.Center,
		mainTitle.Render(" Select an anatomical system ")))
	b.WriteString("\n")

	for idx, c := range anatomy.Categories {
		info := c.Info()
		selected := idx == l.selectedIdx

		titleS := titleStyle
		descS := listDescStyle
		if selected {
			titleS = selectedTitleStyle
			descS = selectedDescStyle
		}

		accent := lipgloss.NewStyle().Foreground(lipgloss.Color(info.Color))
		prefix := fmt.Sprintf(" %d. ", idx+1)

		title := runewidth.Truncate(info.Name, max(0, l.width-len(prefix)-4), "...")
		titleLine := titleS.Render(lipgloss.JoinHorizontal(
			lipgloss.Top, prefix, accent.Render(categoryIcon+" "), title))

		count := l.Count(c)
		desc := "Coming Soon"
		if count > 0 {
			desc = fmt.Sprintf("%d features available", count)
		}
		descLine := descS.Render(strings.Repeat(" ", len(prefix)) + desc)

		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, titleLine, descLine))
		b.WriteString("\n")
	}

	return lipgloss.Place(l.width, l.height, lipgloss.Left, lipgloss.Top, b.String())
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
