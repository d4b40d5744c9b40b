package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"medviz/keys"
	"medviz/log"
	"medviz/ui/overlay"
)

type helpText interface {
	// toContent returns the help UI content.
	toContent() string
	// mask returns the bit mask for this help text. These are used to
	// track which help screens have been seen in the app state.
	mask() uint32
}

type helpTypeGeneral struct{}

// helpTypeLaunch is shown once, before the first ever script launch, to
// explain the external viewer window.
type helpTypeLaunch struct{}

func (h helpTypeGeneral) mask() uint32 {
	return 1
}

func (h helpTypeLaunch) mask() uint32 {
	return 1 << 1
}

func (h helpTypeGeneral) toContent() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("MedViz"),
		"",
		"A launcher for 3D medical visualization scripts, grouped by anatomical system.",
		"",
		headerStyle.Render("Browsing:"),
	)

	rows := []struct {
		key  keys.KeyName
		desc string
	}{
		{keys.KeyUp, "Move selection up"},
		{keys.KeyDown, "Move selection down"},
		{keys.KeyEnter, "Select a system, or launch the highlighted feature"},
		{keys.KeyBack, "Return to the system list"},
		{keys.KeyRescan, "Rescan the script directories"},
		{keys.KeyTab, "Toggle between the feature menu and the output pane"},
	}
	for _, row := range rows {
		content = lipgloss.JoinVertical(lipgloss.Left, content,
			helpKeyLine(row.key, row.desc))
	}

	content = lipgloss.JoinVertical(lipgloss.Left, content,
		"",
		headerStyle.Render("Running scripts:"),
		helpKeyLine(keys.KeyCopy, "Copy the launch command to the clipboard"),
		helpKeyLine(keys.KeyKill, "Kill the running script"),
		helpKeyLine(keys.KeyQuit, "Quit (a running script keeps its window)"),
	)
	return content
}

func (h helpTypeLaunch) toContent() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Launching a Feature"),
		"",
		"The visualization opens in its own window, outside this terminal. Close that window to end the script.",
		"",
		headerStyle.Render("While it runs:"),
		helpKeyLine(keys.KeyTab, "Watch the script's output here"),
		helpKeyLine(keys.KeyKill, "Kill the script"),
		"",
		descStyle.Render("If the script fails to start, the reason appears in the status line and the menu stays usable."),
	)
}

// helpKeyLine formats one key binding row, padding keys for alignment.
func helpKeyLine(name keys.KeyName, desc string) string {
	keyText := keys.GlobalkeyBindings[name].Help().Key
	padding := ""
	for i := len(keyText); i < 8; i++ {
		padding += " "
	}
	return keyStyle.Render(keyText) + padding + descStyle.Render("- "+desc)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#36CFC9"))
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFCC00"))
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
)

// helpScreenSeen reports whether the given help screen was shown before.
func (h *home) helpScreenSeen(helpType helpText) bool {
	return h.appState.GetHelpScreensSeen()&helpType.mask() != 0
}

// showHelpScreen displays the help screen overlay. The general help is
// always shown; one-time screens are skipped once their bit is set.
func (h *home) showHelpScreen(helpType helpText, onDismiss func()) tea.Cmd {
	var alwaysShow bool
	switch helpType.(type) {
	case helpTypeGeneral:
		alwaysShow = true
	}

	flag := helpType.mask()

	if alwaysShow || !h.helpScreenSeen(helpType) {
		if err := h.appState.SetHelpScreensSeen(h.appState.GetHelpScreensSeen() | flag); err != nil {
			log.WarningLog.Printf("Failed to save help screen state: %v", err)
		}

		h.textOverlay = overlay.NewTextOverlay(helpType.toContent())
		h.textOverlay.OnDismiss = onDismiss
		h.textOverlay.SetWidth(min(72, max(20, h.width-8)))
		h.returnState = h.state
		h.state = stateHelp
		return nil
	}

	if onDismiss != nil {
		onDismiss()
	}
	return nil
}
