package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/paydown/internal/schedule"
)

func renderSetupTitle() string {
	raw := []string{
		"█▀ █▀▀ █ █ █▀▀ █▀▄ █ █ █   █▀▀",
		"▄█ █▄▄ █▀█ ██▄ █▄▀ █▄█ █▄▄ ██▄",
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB")).
		Bold(true)
	rows := make([]string, 0, len(raw))
	for _, line := range raw {
		rows = append(rows, style.Render(line))
	}
	return strings.Join(rows, "\n")
}

func (m model) enterSetupView() (tea.Model, tea.Cmd) {
	m.screen = screenSetup
	m.setupErr = ""
	m.setupFocus = 0

	s := m.store.Settings()
	cfg := s.Schedule.Normalized()
	m.setupFreqIdx = frequencyIndex(cfg.Frequency)
	m.setupAnchorDigits = dateToDigits(cfg.Anchor)
	m.setupDayA.SetValue(dayValue(cfg.DayA))
	m.setupDayB.SetValue(dayValue(cfg.DayB))
	m.setupDay.SetValue(dayValue(cfg.Day))
	m.setupPay.SetValue(centsValue(s.PayCents))
	m.setupDebt.SetValue(centsValue(s.DebtRemainingCents))
	m.refreshSetupFocus()
	return m, nil
}

func dayValue(day int) string {
	if day <= 0 {
		return ""
	}
	return strconv.Itoa(day)
}

func centsValue(cents int64) string {
	if cents <= 0 {
		return ""
	}
	return strings.TrimPrefix(formatCents(cents), "$")
}

func frequencyIndex(f schedule.Frequency) int {
	for i, opt := range schedule.Frequencies() {
		if opt == f {
			return i
		}
	}
	return 1
}

// setupFieldCount is the number of focusable fields for the selected
// frequency: the picker, the frequency-specific date fields, pay, and debt.
func (m model) setupFieldCount() int {
	switch schedule.Frequencies()[m.setupFreqIdx] {
	case schedule.FrequencyTwiceMonthly:
		return 5
	default:
		return 4
	}
}

// setupDateFieldCount is how many of those fields sit between the picker and
// the pay amount.
func (m model) setupDateFieldCount() int {
	if schedule.Frequencies()[m.setupFreqIdx] == schedule.FrequencyTwiceMonthly {
		return 2
	}
	return 1
}

func (m *model) refreshSetupFocus() {
	m.setupDayA.Blur()
	m.setupDayB.Blur()
	m.setupDay.Blur()
	m.setupPay.Blur()
	m.setupDebt.Blur()

	dateFields := m.setupDateFieldCount()
	switch {
	case m.setupFocus <= 0:
	case m.setupFocus <= dateFields:
		switch schedule.Frequencies()[m.setupFreqIdx] {
		case schedule.FrequencyTwiceMonthly:
			if m.setupFocus == 1 {
				m.setupDayA.Focus()
			} else {
				m.setupDayB.Focus()
			}
		case schedule.FrequencyMonthly:
			m.setupDay.Focus()
		}
	case m.setupFocus == dateFields+1:
		m.setupPay.Focus()
	default:
		m.setupDebt.Focus()
	}
}

func (m model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		if m.store.HasCompletedSetup() {
			m.screen = screenHome
			return m, nil
		}
		return m, nil
	case "tab", "down":
		m.setupFocus = (m.setupFocus + 1) % m.setupFieldCount()
		m.refreshSetupFocus()
		return m, nil
	case "shift+tab", "up":
		m.setupFocus = (m.setupFocus - 1 + m.setupFieldCount()) % m.setupFieldCount()
		m.refreshSetupFocus()
		return m, nil
	case "enter":
		return m.saveSetup()
	}

	if m.setupFocus == 0 {
		switch msg.String() {
		case "left", "h":
			m.setupFreqIdx = (m.setupFreqIdx - 1 + len(schedule.Frequencies())) % len(schedule.Frequencies())
		case "right", "l":
			m.setupFreqIdx = (m.setupFreqIdx + 1) % len(schedule.Frequencies())
		}
		m.refreshSetupFocus()
		return m, nil
	}

	freq := schedule.Frequencies()[m.setupFreqIdx]
	anchorFocused := m.setupFocus == 1 &&
		(freq == schedule.FrequencyWeekly || freq == schedule.FrequencyFortnightly)
	if anchorFocused {
		switch msg.String() {
		case "backspace":
			if len(m.setupAnchorDigits) > 0 {
				m.setupAnchorDigits = m.setupAnchorDigits[:len(m.setupAnchorDigits)-1]
			}
		default:
			m.setupAnchorDigits = limitDigits(m.setupAnchorDigits+digitsOnly(msg.String()), 8)
		}
		return m, nil
	}

	var cmd tea.Cmd
	dateFields := m.setupDateFieldCount()
	switch {
	case m.setupFocus <= dateFields && freq == schedule.FrequencyTwiceMonthly && m.setupFocus == 1:
		m.setupDayA, cmd = m.setupDayA.Update(msg)
	case m.setupFocus <= dateFields && freq == schedule.FrequencyTwiceMonthly:
		m.setupDayB, cmd = m.setupDayB.Update(msg)
	case m.setupFocus <= dateFields && freq == schedule.FrequencyMonthly:
		m.setupDay, cmd = m.setupDay.Update(msg)
	case m.setupFocus == dateFields+1:
		m.setupPay, cmd = m.setupPay.Update(msg)
	default:
		m.setupDebt, cmd = m.setupDebt.Update(msg)
	}
	return m, cmd
}

// saveSetup validates every field before any state changes; a validation
// failure leaves the store untouched and renders inline.
func (m model) saveSetup() (tea.Model, tea.Cmd) {
	cfg := schedule.Config{Frequency: schedule.Frequencies()[m.setupFreqIdx]}

	switch cfg.Frequency {
	case schedule.FrequencyWeekly, schedule.FrequencyFortnightly:
		anchor, err := validateAndFormatDateDigits(m.setupAnchorDigits)
		if err != nil {
			m.setupErr = err.Error()
			return m, nil
		}
		cfg.Anchor = anchor
	case schedule.FrequencyTwiceMonthly:
		dayA, err := parseDayOfMonth(m.setupDayA.Value(), 28)
		if err != nil {
			m.setupErr = "first payday: " + err.Error()
			return m, nil
		}
		dayB, err := parseDayOfMonth(m.setupDayB.Value(), 28)
		if err != nil {
			m.setupErr = "second payday: " + err.Error()
			return m, nil
		}
		cfg.DayA = dayA
		cfg.DayB = dayB
	default:
		day, err := parseDayOfMonth(m.setupDay.Value(), 28)
		if err != nil {
			m.setupErr = "payday: " + err.Error()
			return m, nil
		}
		cfg.Day = day
	}

	payCents, err := parseAmountCents(m.setupPay.Value())
	if err != nil {
		m.setupErr = "pay amount: " + err.Error()
		return m, nil
	}
	debtCents, err := parseOptionalAmountCents(m.setupDebt.Value())
	if err != nil {
		m.setupErr = "debt remaining: " + err.Error()
		return m, nil
	}

	settings := m.store.Settings()
	settings.Schedule = cfg
	settings.PayCents = payCents
	settings.DebtRemainingCents = debtCents

	firstTime := !m.store.HasCompletedSetup()
	m.store.CompleteSetup(settings)
	m.setupErr = ""
	m.cycleOffset = 0
	if firstTime {
		next, _ := m.enterChecklistView()
		nm := next.(model)
		return nm, nm.saveStateCmd()
	}
	m.screen = screenHome
	return m, m.saveStateCmd()
}

func (m model) renderSetupScreen(layoutWidth int) string {
	title := lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, renderSetupTitle())

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	focusedLabel := labelStyle.Bold(true)
	fieldBorder := func(focused bool) lipgloss.Color {
		if focused {
			return lipgloss.Color("#FFD54A")
		}
		return lipgloss.Color("#FFFFFF")
	}
	boxed := func(content string, focused bool) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(fieldBorder(focused)).
			Padding(0, 1).
			Render(content)
	}
	label := func(text string, focused bool) string {
		if focused {
			return focusedLabel.Render(text)
		}
		return labelStyle.Render(text)
	}

	freq := schedule.Frequencies()[m.setupFreqIdx]
	freqParts := make([]string, 0, len(schedule.Frequencies()))
	for i, opt := range schedule.Frequencies() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		if i == m.setupFreqIdx {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
		}
		freqParts = append(freqParts, style.Render(string(opt)))
	}

	rows := []string{
		label("pay frequency", m.setupFocus == 0),
		boxed(strings.Join(freqParts, "  "), m.setupFocus == 0),
		"",
	}

	dateFields := m.setupDateFieldCount()
	switch freq {
	case schedule.FrequencyWeekly, schedule.FrequencyFortnightly:
		rows = append(rows,
			label("anchor payday", m.setupFocus == 1),
			boxed(renderDateMask(m.setupAnchorDigits), m.setupFocus == 1),
			"",
		)
	case schedule.FrequencyTwiceMonthly:
		rows = append(rows,
			label("first payday (day of month)", m.setupFocus == 1),
			boxed(m.setupDayA.View(), m.setupFocus == 1),
			label("second payday (day of month)", m.setupFocus == 2),
			boxed(m.setupDayB.View(), m.setupFocus == 2),
			"",
		)
	default:
		rows = append(rows,
			label("payday (day of month)", m.setupFocus == 1),
			boxed(m.setupDay.View(), m.setupFocus == 1),
			"",
		)
	}

	rows = append(rows,
		label("pay amount per cycle", m.setupFocus == dateFields+1),
		boxed(m.setupPay.View(), m.setupFocus == dateFields+1),
		label("debt remaining", m.setupFocus == dateFields+2),
		boxed(m.setupDebt.View(), m.setupFocus == dateFields+2),
		"",
		lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render("tab/up/down switch field  left/right frequency"),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render("enter save  esc back"),
	)

	if strings.TrimSpace(m.setupErr) != "" {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B")).Render(m.setupErr))
	}

	contentWidth := 0
	for _, row := range rows {
		if w := lipgloss.Width(row); w > contentWidth {
			contentWidth = w
		}
	}
	aligned := make([]string, 0, len(rows))
	for _, row := range rows {
		aligned = append(aligned, lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, row))
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(aligned, "\n"))
	panel = lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, panel)

	return strings.Join([]string{title, "", panel}, "\n")
}
