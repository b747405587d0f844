package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/paydown/internal/schedule"
	"github.com/lachiem1/paydown/internal/state"
)

var timeNow = time.Now

type screenMode int

const (
	screenHome screenMode = iota
	screenSetup
	screenChecklist
	screenObligations
	screenHistory
)

const (
	checklistFocusItems = iota
	checklistFocusLedger
)

const (
	promptNone = iota
	promptUnexpectedLabel
	promptUnexpectedAmount
	promptPaymentCard
	promptPaymentAmount
)

type stateLoadedMsg struct {
	err error
}

type stateSavedMsg struct {
	err error
}

type model struct {
	store *state.Store

	width  int
	height int

	screen   screenMode
	selected int
	loadErr  string

	// checklist screen
	cycleOffset     int
	checklistCursor int
	checklistFocus  int
	ledgerCursor    int
	promptMode      int
	promptInput     textinput.Model
	promptLabel     string
	promptCardIdx   int
	promptErr       string

	// setup screen
	setupFocus        int
	setupFreqIdx      int
	setupAnchorDigits string
	setupDayA         textinput.Model
	setupDayB         textinput.Model
	setupDay          textinput.Model
	setupPay          textinput.Model
	setupDebt         textinput.Model
	setupErr          string

	// obligations screen
	obCursor       int
	obMode         int
	obKindIdx      int
	obInput        textinput.Model
	obPendingLabel string
	obPendingCents int64
	obPendingDay   int
	obErr          string

	quitting bool
}

func New(store *state.Store) tea.Model {
	prompt := textinput.New()
	prompt.Prompt = "> "
	prompt.Width = 32

	newAmount := func(placeholder string) textinput.Model {
		in := textinput.New()
		in.Prompt = "$ "
		in.Placeholder = placeholder
		in.Width = 14
		return in
	}
	newDay := func() textinput.Model {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = "1-28"
		in.Width = 6
		return in
	}

	obInput := textinput.New()
	obInput.Prompt = "> "
	obInput.Width = 32

	return model{
		store:       store,
		screen:      screenHome,
		promptInput: prompt,
		setupDayA:   newDay(),
		setupDayB:   newDay(),
		setupDay:    newDay(),
		setupPay:    newAmount("0.00"),
		setupDebt:   newAmount("0.00"),
		obInput:     obInput,
	}
}

func (m model) Init() tea.Cmd {
	return m.loadStateCmd()
}

func (m model) loadStateCmd() tea.Cmd {
	return func() tea.Msg {
		return stateLoadedMsg{err: m.store.Load(context.Background())}
	}
}

// saveStateCmd persists after a mutation. Saves are fire-and-forget: the
// in-memory store stays authoritative and a failed save is retried by the
// next one.
func (m model) saveStateCmd() tea.Cmd {
	return func() tea.Msg {
		return stateSavedMsg{err: m.store.Save(context.Background())}
	}
}

func (m model) viewedCycle() schedule.Cycle {
	return schedule.CycleWithOffset(m.store.Settings().Schedule, timeNow(), m.cycleOffset)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateLoadedMsg:
		if msg.err != nil {
			// Persistence trouble is not fatal; the store fell back to
			// defaults and the session continues in memory.
			m.loadErr = msg.err.Error()
		}
		if m.store.Loaded() && !m.store.HasCompletedSetup() {
			return m.enterSetupView()
		}
		return m, nil

	case stateSavedMsg:
		// Swallowed by design: in-memory state is the session's truth.
		return m, nil

	case tea.KeyMsg:
		if !m.store.Loaded() {
			if msg.String() == "ctrl+c" || msg.String() == "q" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		switch m.screen {
		case screenSetup:
			return m.updateSetup(msg)
		case screenChecklist:
			return m.updateChecklist(msg)
		case screenObligations:
			return m.updateObligations(msg)
		case screenHistory:
			return m.updateHistory(msg)
		default:
			return m.updateHome(msg)
		}
	}
	return m, nil
}

func homeMenuItems() []string {
	return []string{"checklist", "obligations", "cycle history", "pay schedule"}
}

func (m model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(homeMenuItems())-1 {
			m.selected++
		}
		return m, nil
	case "enter":
		switch m.selected {
		case 0:
			return m.enterChecklistView()
		case 1:
			return m.enterObligationsView()
		case 2:
			m.screen = screenHistory
			return m, nil
		default:
			return m.enterSetupView()
		}
	}
	return m, nil
}

func (m model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc", "q":
		m.screen = screenHome
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(1, 1)
	contentStyle := lipgloss.NewStyle().Padding(1, 1, 0, 1)
	if m.width > 0 {
		frame = frame.Width(max(1, m.width-frame.GetHorizontalBorderSize()))
	}
	if m.height > 0 {
		frame = frame.Height(max(1, m.height-frame.GetVerticalBorderSize()))
	}
	layoutWidth := max(1, m.width-frame.GetHorizontalFrameSize()-contentStyle.GetHorizontalFrameSize())

	if !m.store.Loaded() {
		loading := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render("loading saved data...")
		return frame.Render(contentStyle.Render(lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, loading)))
	}

	var content string
	switch m.screen {
	case screenSetup:
		content = m.renderSetupScreen(layoutWidth)
	case screenChecklist:
		content = m.renderChecklistScreen(layoutWidth)
	case screenObligations:
		content = m.renderObligationsScreen(layoutWidth)
	case screenHistory:
		content = m.renderHistoryScreen(layoutWidth)
	default:
		content = m.renderHomeScreen(layoutWidth)
	}
	return frame.Render(contentStyle.Render(content))
}
