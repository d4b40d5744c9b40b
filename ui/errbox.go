package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ErrBox is the single status line at the bottom of the screen. Launch
// failures and missing data files land here; none of them stop the shell.
type ErrBox struct {
	height, width int
	err           error
	info          string
}

func NewErrBox() *ErrBox {
	return &ErrBox{}
}

// SetError sets the error to display. A nil error clears the box.
func (b *ErrBox) SetError(err error) {
	b.err = err
	b.info = ""
}

// SetInfo sets a transient informational message, e.g. after copying a
// command to the clipboard.
func (b *ErrBox) SetInfo(info string) {
	b.info = info
	b.err = nil
}

// Clear removes any message.
func (b *ErrBox) Clear() {
	b.err = nil
	b.info = ""
}

// SetSize sets the height and width of the box.
func (b *ErrBox) SetSize(width, height int) {
	b.width = width
	b.height = height
}

func (b *ErrBox) String() string {
	var msg string
	switch {
	case b.err != nil:
		msg = errStyle.Render(runewidth.Truncate(b.err.Error(), max(0, b.width-2), "..."))
	case b.info != "":
		msg = infoStyle.Render(runewidth.Truncate(b.info, max(0, b.width-2), "..."))
	}
	return lipgloss.Place(b.width, b.height, lipgloss.Center, lipgloss.Center, msg)
}
