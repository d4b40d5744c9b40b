package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"medviz/catalog"
	"medviz/config"
	"medviz/keys"
	"medviz/launcher"
	"medviz/log"
	"medviz/ui"
	"medviz/ui/overlay"
)

// outputRefreshInterval is how often the output pane is refreshed while
// a script is running.
const outputRefreshInterval = 250 * time.Millisecond

// Run is the main entrypoint into the application.
func Run(ctx context.Context, cfg *config.Config) error {
	h := newHome(ctx, cfg)
	defer h.appState.Close()

	p := tea.NewProgram(
		h,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Mouse scroll
	)

	if cfg.WatchScripts {
		w, err := catalog.Watch(cfg.ScriptDirs, cfg.ScriptExtensions, func() {
			p.Send(catalogChangedMsg{})
		})
		if err != nil {
			log.WarningLog.Printf("script watching disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	_, err := p.Run()
	return err
}

type state int

const (
	// stateCategories is the idle state: the four anatomical systems
	// are listed and one can be selected.
	stateCategories state = iota
	// stateFeatures is the state after a category has been selected.
	stateFeatures
	// stateRunning is the state while a feature script process runs.
	stateRunning
	// stateHelp is the state when a help screen is displayed.
	stateHelp
	// stateConfirm is the state when a confirmation modal is displayed.
	stateConfirm
)

type catalogChangedMsg struct{}

type outputTickMsg struct{}

type launchFinishedMsg struct {
	launch *launcher.Launch
}

type home struct {
	ctx context.Context

	// -- Storage and Configuration --

	// appConfig stores the application configuration.
	appConfig *config.Config
	// appState stores persistent application state like seen help screens.
	appState *config.State
	// storage persists the launch history.
	storage *launcher.Storage
	// catalog is the current discovery result; replaced wholesale on rescans.
	catalog *catalog.Catalog

	// -- State --

	// state is the current discrete state of the application.
	state state
	// returnState is the state to restore when an overlay closes.
	returnState state
	// activeLaunch is the most recent launch; nil before the first one.
	activeLaunch *launcher.Launch
	// pendingItem holds the feature selection while the one-time launch
	// help screen is shown; the launch proceeds on dismissal.
	pendingItem *ui.FeatureItem
	// showOutput selects the output pane instead of the feature menu.
	showOutput bool

	// -- UI Components --

	// categoryList displays the anatomical systems.
	categoryList *ui.CategoryList
	// featureMenu displays the feature slots of the selected category.
	featureMenu *ui.FeatureMenu
	// outputPane displays the active launch's captured output.
	outputPane *ui.OutputPane
	// menu displays the bottom menu.
	menu *ui.Menu
	// errBox displays non-fatal errors and notices.
	errBox *ui.ErrBox
	// global spinner instance, shown while a script runs.
	spinner spinner.Model
	// textOverlay displays text information.
	textOverlay *overlay.TextOverlay
	// confirmationOverlay displays confirmation modals.
	confirmationOverlay *overlay.ConfirmationOverlay

	width, height int
}

func newHome(ctx context.Context, appConfig *config.Config) *home {
	appState := config.LoadState()

	cat, err := catalog.Build(appConfig)
	if err != nil {
		fmt.Printf("Failed to build script catalog: %v\n", err)
		os.Exit(1)
	}
	log.InfoLog.Printf("catalog built: %d scripts classified, %d unclassified",
		cat.Mapping.Total(), cat.Unclassified)

	h := &home{
		ctx:          ctx,
		appConfig:    appConfig,
		appState:     appState,
		storage:      launcher.NewStorage(appState, appConfig.LaunchHistoryLimit),
		catalog:      cat,
		state:        stateCategories,
		spinner:      spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		categoryList: ui.NewCategoryList(),
		featureMenu:  ui.NewFeatureMenu(),
		outputPane:   ui.NewOutputPane(),
		menu:         ui.NewMenu(),
		errBox:       ui.NewErrBox(),
	}

	h.categoryList.SetMapping(cat.Mapping)
	h.categoryList.SetSelectedIdx(appState.GetSelectedCategory())

	return h
}

// updateHandleWindowSizeEvent sets the sizes of the components. The
// components will try to render inside their bounds.
func (h *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	h.width = msg.Width
	h.height = msg.Height

	// One line each for the status line and the bottom menu.
	contentHeight := max(0, msg.Height-2)

	h.categoryList.SetSize(msg.Width, contentHeight)
	h.featureMenu.SetSize(msg.Width, contentHeight)
	h.outputPane.SetSize(msg.Width, contentHeight)
	h.errBox.SetSize(msg.Width, 1)
	h.menu.SetSize(msg.Width, 1)
	if h.textOverlay != nil {
		h.textOverlay.SetWidth(min(72, max(20, msg.Width-8)))
	}
	if h.confirmationOverlay != nil {
		h.confirmationOverlay.SetWidth(min(50, max(20, msg.Width-8)))
	}
}

func (h *home) Init() tea.Cmd {
	return h.spinner.Tick
}

func (h *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.updateHandleWindowSizeEvent(msg)
		return h, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return h, cmd
	case catalogChangedMsg:
		h.rebuildCatalog()
		return h, nil
	case outputTickMsg:
		return h, h.refreshOutput()
	case launchFinishedMsg:
		return h, h.handleLaunchFinished(msg.launch)
	case tea.KeyMsg:
		return h.handleKeyPress(msg)
	}
	return h, nil
}

// rebuildCatalog runs a fresh discovery pass and refreshes the menus in
// place. Called on the rescan key and on watcher events.
func (h *home) rebuildCatalog() {
	cat, err := catalog.Build(h.appConfig)
	if err != nil {
		// The old catalog stays valid; discovery failure is not fatal.
		log.WarningLog.Printf("catalog rebuild failed: %v", err)
		h.errBox.SetError(fmt.Errorf("script rescan failed: %v", err))
		return
	}

	h.catalog = cat
	h.categoryList.SetMapping(cat.Mapping)
	if h.state == stateFeatures || h.state == stateRunning {
		h.featureMenu.SetCategory(h.featureMenu.Category(), cat.Mapping)
	}
	h.errBox.SetInfo(fmt.Sprintf("catalog reloaded: %d scripts", cat.Mapping.Total()))
	log.InfoLog.Printf("catalog reloaded: %d scripts, %d unclassified", cat.Mapping.Total(), cat.Unclassified)
}

// refreshOutput pushes the latest output tail into the pane and keeps
// ticking while the script is alive.
func (h *home) refreshOutput() tea.Cmd {
	if h.activeLaunch == nil {
		return nil
	}
	h.outputPane.SetContent(h.activeLaunch.Script.Name, h.activeLaunch.Output())
	if h.activeLaunch.Status() == launcher.Running {
		return tickOutputCmd()
	}
	return nil
}

func tickOutputCmd() tea.Cmd {
	return tea.Tick(outputRefreshInterval, func(time.Time) tea.Msg {
		return outputTickMsg{}
	})
}

// waitForLaunch delivers a message once the launch's process has been
// reaped. The shell never blocks on it.
func (h *home) waitForLaunch(l *launcher.Launch) tea.Cmd {
	return func() tea.Msg {
		<-l.Wait()
		return launchFinishedMsg{launch: l}
	}
}

// handleLaunchFinished records the final state of a launch and returns
// the shell to the feature menu. Failures surface in the status line;
// nothing here stops the shell.
func (h *home) handleLaunchFinished(l *launcher.Launch) tea.Cmd {
	if err := h.storage.Append(launcher.Record(l)); err != nil {
		log.WarningLog.Printf("failed to record launch %s: %v", l.ID, err)
	}

	h.outputPane.SetContent(l.Script.Name, l.Output())

	if l.Status() == launcher.Failed {
		h.errBox.SetError(fmt.Errorf("%s failed (exit code %d)", l.Script.Name, l.ExitCode()))
	} else {
		h.errBox.SetInfo(fmt.Sprintf("%s finished", l.Script.Name))
	}

	if h.state == stateRunning {
		h.state = stateFeatures
		h.menu.SetState(ui.MenuStateFeatures)
	}
	return nil
}

func (h *home) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays swallow all keys.
	switch h.state {
	case stateHelp:
		if h.textOverlay.HandleKeyPress(msg) {
			h.state = h.returnState
			h.textOverlay = nil
			if h.pendingItem != nil {
				item := *h.pendingItem
				h.pendingItem = nil
				return h, h.startLaunch(item)
			}
		}
		return h, nil
	case stateConfirm:
		if h.confirmationOverlay.HandleKeyPress(msg) {
			h.state = h.returnState
			h.confirmationOverlay = nil
		}
		return h, nil
	}

	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return h, nil
	}

	switch name {
	case keys.KeyQuit:
		if err := h.appState.SetSelectedCategory(h.categoryList.SelectedIdx()); err != nil {
			log.WarningLog.Printf("failed to save selection: %v", err)
		}
		return h, tea.Quit
	case keys.KeyHelp:
		return h, h.showHelpScreen(helpTypeGeneral{}, nil)
	}

	switch h.state {
	case stateCategories:
		return h.handleCategoriesKey(name)
	case stateFeatures, stateRunning:
		return h.handleFeaturesKey(name)
	}
	return h, nil
}

func (h *home) handleCategoriesKey(name keys.KeyName) (tea.Model, tea.Cmd) {
	switch name {
	case keys.KeyUp:
		h.categoryList.Up()
	case keys.KeyDown:
		h.categoryList.Down()
	case keys.KeyRescan:
		h.rebuildCatalog()
	case keys.KeyEnter:
		selected := h.categoryList.Selected()
		h.featureMenu.SetCategory(selected, h.catalog.Mapping)
		h.state = stateFeatures
		h.showOutput = false
		h.menu.SetState(ui.MenuStateFeatures)
		h.errBox.Clear()
		if err := h.appState.SetSelectedCategory(h.categoryList.SelectedIdx()); err != nil {
			log.WarningLog.Printf("failed to save selection: %v", err)
		}
	}
	return h, nil
}

func (h *home) handleFeaturesKey(name keys.KeyName) (tea.Model, tea.Cmd) {
	switch name {
	case keys.KeyUp:
		h.featureMenu.Up()
	case keys.KeyDown:
		h.featureMenu.Down()
	case keys.KeyTab:
		h.showOutput = !h.showOutput
		if err := h.appState.SetShowOutput(h.showOutput); err != nil {
			log.WarningLog.Printf("failed to save pane preference: %v", err)
		}
	case keys.KeyBack, keys.KeyEsc:
		// Leaving the feature menu does not touch a running script; the
		// launch is fire-and-forget.
		h.state = stateCategories
		h.showOutput = false
		h.menu.SetState(ui.MenuStateCategories)
	case keys.KeyCopy:
		if h.activeLaunch != nil {
			if err := clipboard.WriteAll(h.activeLaunch.Command()); err != nil {
				h.errBox.SetError(fmt.Errorf("clipboard unavailable: %v", err))
			} else {
				h.errBox.SetInfo("copied command to clipboard")
			}
		}
	case keys.KeyKill:
		if h.activeLaunch != nil && h.activeLaunch.Status() == launcher.Running {
			return h, h.confirmAction(
				fmt.Sprintf("Kill %s?", h.activeLaunch.Script.Name),
				func() {
					if err := h.activeLaunch.Kill(); err != nil {
						h.errBox.SetError(err)
					}
				})
		}
	case keys.KeyEnter:
		if h.state == stateRunning {
			return h, nil
		}
		item, ok := h.featureMenu.Selected()
		if !ok || !item.Available {
			return h, nil
		}
		// The first launch ever shows a one-time explanation of the
		// external viewer window.
		if !h.helpScreenSeen(helpTypeLaunch{}) {
			h.pendingItem = &item
			return h, h.showHelpScreen(helpTypeLaunch{}, nil)
		}
		return h, h.startLaunch(item)
	}
	return h, nil
}

// startLaunch dispatches the selected feature script. All failure modes
// are local to this launch: they land in the status line and the shell
// keeps running.
func (h *home) startLaunch(item ui.FeatureItem) tea.Cmd {
	if h.activeLaunch != nil && h.activeLaunch.Status() == launcher.Running {
		h.errBox.SetError(fmt.Errorf("%s is still running", h.activeLaunch.Script.Name))
		return nil
	}

	category := h.featureMenu.Category()
	dataPath := h.appConfig.DataPath(category)
	if override, ok := h.catalog.DataOverride(item.Script.Name); ok {
		dataPath = override
	}

	l, err := launcher.Start(launcher.Options{
		Interpreter: h.appConfig.Interpreter,
		Script:      item.Script,
		Category:    category,
		DataPath:    dataPath,
	})
	if err != nil {
		log.WarningLog.Printf("launch of %s failed: %v", item.Script.Name, err)
		h.errBox.SetError(err)
		return nil
	}

	h.activeLaunch = l
	if err := h.storage.Append(launcher.Record(l)); err != nil {
		log.WarningLog.Printf("failed to record launch %s: %v", l.ID, err)
	}

	h.state = stateRunning
	h.showOutput = true
	h.menu.SetState(ui.MenuStateRunning)
	h.errBox.Clear()
	h.outputPane.SetContent(l.Script.Name, "")

	return tea.Batch(h.waitForLaunch(l), tickOutputCmd())
}

// confirmAction shows a confirmation modal and runs the action on "yes".
func (h *home) confirmAction(prompt string, action func()) tea.Cmd {
	h.returnState = h.state
	h.state = stateConfirm
	h.confirmationOverlay = overlay.NewConfirmationOverlay(prompt)
	h.confirmationOverlay.SetWidth(min(50, max(0, h.width-8)))
	h.confirmationOverlay.OnConfirm = action
	return nil
}

func (h *home) View() string {
	switch h.state {
	case stateHelp:
		return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, h.textOverlay.Render())
	case stateConfirm:
		return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, h.confirmationOverlay.Render())
	}

	var body string
	switch {
	case h.state == stateCategories:
		body = h.categoryList.String()
	case h.showOutput:
		body = h.outputPane.String()
	default:
		body = h.featureMenu.String()
	}

	status := h.errBox.String()
	if h.state == stateRunning && h.activeLaunch != nil {
		status = lipgloss.Place(h.width, 1, lipgloss.Center, lipgloss.Center,
			h.spinner.View()+" running "+h.activeLaunch.Script.Name)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, status, h.menu.String())
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
