// Package overlay provides the modal surfaces drawn over the main
// screen: scrollable text (help) and yes/no confirmations.
package overlay

import (
	"github.com/charmbracelet/lipgloss"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

var overlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2)

// TextOverlay displays a block of text until dismissed by any key.
type TextOverlay struct {
	content string
	width   int

	// OnDismiss is called when the overlay is closed.
	OnDismiss func()
}

func NewTextOverlay(content string) *TextOverlay {
	return &TextOverlay{content: content, width: 60}
}

// SetWidth sets the inner text width used for wrapping.
func (t *TextOverlay) SetWidth(width int) {
	if width > 0 {
		t.width = width
	}
}

// HandleKeyPress dismisses the overlay; it returns true when the overlay
// should close.
func (t *TextOverlay) HandleKeyPress(tea.KeyMsg) bool {
	if t.OnDismiss != nil {
		t.OnDismiss()
	}
	return true
}

// Render renders the overlay box.
func (t *TextOverlay) Render() string {
	return overlayStyle.Render(wordwrap.String(t.content, t.width))
}

// ConfirmationOverlay asks a yes/no question before a destructive
// action, e.g. killing a running script.
type ConfirmationOverlay struct {
	prompt string
	width  int

	OnConfirm func()
	OnCancel  func()
}

func NewConfirmationOverlay(prompt string) *ConfirmationOverlay {
	return &ConfirmationOverlay{prompt: prompt, width: 50}
}

// SetWidth sets the inner text width used for wrapping.
func (c *ConfirmationOverlay) SetWidth(width int) {
	if width > 0 {
		c.width = width
	}
}

// HandleKeyPress processes a key and returns true when the overlay
// should close.
func (c *ConfirmationOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "y", "Y", "enter":
		if c.OnConfirm != nil {
			c.OnConfirm()
		}
		return true
	case "n", "N", "esc", "q":
		if c.OnCancel != nil {
			c.OnCancel()
		}
		return true
	}
	return false
}

// Render renders the overlay box.
func (c *ConfirmationOverlay) Render() string {
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#999999"}).
		Render("[y]es  [n]o")
	body := wordwrap.String(c.prompt, c.width) + "\n\n" + hint
	return overlayStyle.Render(body)
}
