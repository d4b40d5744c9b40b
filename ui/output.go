package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var outputBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#444444"})

// OutputPane shows the captured tail of the active launch's output. The
// shell never interprets the output; it is a viewport only.
type OutputPane struct {
	title         string
	content       string
	height, width int
}

func NewOutputPane() *OutputPane {
	return &OutputPane{}
}

// SetSize sets the height and width of the pane.
func (p *OutputPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetContent replaces the pane's content with the given launch title and
// output tail.
func (p *OutputPane) SetContent(title, output string) {
	p.title = title
	p.content = output
}

// Clear empties the pane.
func (p *OutputPane) Clear() {
	p.title = ""
	p.content = ""
}

func (p *OutputPane) String() string {
	innerWidth := max(0, p.width-2)
	innerHeight := max(0, p.height-2)
	if innerWidth == 0 || innerHeight == 0 {
		return ""
	}

	if p.title == "" {
		placeholder := infoStyle.Render("No script running")
		return outputBorderStyle.Render(
			lipgloss.Place(innerWidth, innerHeight, lipgloss.Center, lipgloss.Center, placeholder))
	}

	lines := strings.Split(strings.ReplaceAll(p.content, "\r\n", "\n"), "\n")

	// Reserve the first line for the title, keep the newest output.
	bodyHeight := innerHeight - 1
	if len(lines) > bodyHeight {
		lines = lines[len(lines)-bodyHeight:]
	}
	for i, line := range lines {
		lines[i] = runewidth.Truncate(strings.ReplaceAll(line, "\r", ""), innerWidth, "")
	}

	header := runewidth.Truncate(runningIcon+p.title, innerWidth, "...")
	body := append([]string{infoStyle.Render(header)}, lines...)

	return outputBorderStyle.Render(
		lipgloss.Place(innerWidth, innerHeight, lipgloss.Left, lipgloss.Top,
			strings.Join(body, "\n")))
}
