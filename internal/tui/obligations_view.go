package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/lachiem1/paydown/internal/plan"
)

const (
	obModeList = iota
	obModeKind
	obModeLabel
	obModeAmount
	obModeDay
	obModeBalance
)

func obligationKinds() []string {
	return []string{"card", "monthly expense", "allocation", "spending"}
}

// obRow flattens one obligation into a list line plus enough identity to
// delete it.
type obRow struct {
	kind    string
	id      string
	display string
}

func (m model) enterObligationsView() (tea.Model, tea.Cmd) {
	m.screen = screenObligations
	m.obCursor = 0
	m.obMode = obModeList
	m.obErr = ""
	return m, nil
}

func (m model) obligationRows() []obRow {
	s := m.store.Settings()
	var rows []obRow
	for _, c := range s.Cards {
		rows = append(rows, obRow{
			kind: "card",
			id:   c.ID,
			display: c.Name + "  min " + formatCents(c.MinDueCents) +
				"  due day " + strconv.Itoa(c.DueDay) +
				"  owing " + formatCents(c.BalanceCents),
		})
	}
	for _, e := range s.MonthlyExpenses {
		rows = append(rows, obRow{
			kind: "monthly expense",
			id:   e.ID,
			display: e.Label + "  " + formatCents(e.AmountCents) +
				"  due day " + strconv.Itoa(e.DueDay),
		})
	}
	for _, a := range s.Allocations {
		rows = append(rows, obRow{
			kind:    "allocation",
			id:      a.ID,
			display: a.Label + "  " + formatCents(a.AmountCents) + " per cycle",
		})
	}
	for _, sp := range s.Spending {
		rows = append(rows, obRow{
			kind:    "spending",
			id:      sp.ID,
			display: sp.Label + "  " + formatCents(sp.AmountCents) + " per cycle",
		})
	}
	return rows
}

func (m model) updateObligations(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.obMode != obModeList {
		return m.updateObligationAdd(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc", "q":
		m.screen = screenHome
		return m, nil
	case "up", "k":
		if m.obCursor > 0 {
			m.obCursor--
		}
	case "down", "j":
		if m.obCursor < len(m.obligationRows())-1 {
			m.obCursor++
		}
	case "a":
		m.obMode = obModeKind
		m.obKindIdx = 0
		m.obErr = ""
	case "d", "x":
		rows := m.obligationRows()
		if m.obCursor >= len(rows) {
			return m, nil
		}
		m.deleteObligation(rows[m.obCursor])
		if m.obCursor > 0 {
			m.obCursor--
		}
		return m, m.saveStateCmd()
	}
	return m, nil
}

func (m *model) deleteObligation(row obRow) {
	s := m.store.Settings()
	switch row.kind {
	case "card":
		for i, c := range s.Cards {
			if c.ID == row.id {
				s.Cards = append(s.Cards[:i:i], s.Cards[i+1:]...)
				break
			}
		}
	case "monthly expense":
		for i, e := range s.MonthlyExpenses {
			if e.ID == row.id {
				s.MonthlyExpenses = append(s.MonthlyExpenses[:i:i], s.MonthlyExpenses[i+1:]...)
				break
			}
		}
	case "allocation":
		for i, a := range s.Allocations {
			if a.ID == row.id {
				s.Allocations = append(s.Allocations[:i:i], s.Allocations[i+1:]...)
				break
			}
		}
	default:
		for i, sp := range s.Spending {
			if sp.ID == row.id {
				s.Spending = append(s.Spending[:i:i], s.Spending[i+1:]...)
				break
			}
		}
	}
	m.store.SetSettings(s)
}

func (m model) updateObligationAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.obMode = obModeList
		m.obErr = ""
		m.obInput.Blur()
		return m, nil
	}

	if m.obMode == obModeKind {
		switch msg.String() {
		case "up", "k":
			if m.obKindIdx > 0 {
				m.obKindIdx--
			}
		case "down", "j":
			if m.obKindIdx < len(obligationKinds())-1 {
				m.obKindIdx++
			}
		case "enter":
			m.obMode = obModeLabel
			m.obErr = ""
			m.obInput.SetValue("")
			if obligationKinds()[m.obKindIdx] == "card" {
				m.obInput.Placeholder = "card name"
			} else {
				m.obInput.Placeholder = "label"
			}
			m.obInput.Focus()
		}
		return m, nil
	}

	if msg.String() == "enter" {
		return m.advanceObligationAdd()
	}

	var cmd tea.Cmd
	m.obInput, cmd = m.obInput.Update(msg)
	return m, cmd
}

func (m model) advanceObligationAdd() (tea.Model, tea.Cmd) {
	kind := obligationKinds()[m.obKindIdx]

	switch m.obMode {
	case obModeLabel:
		label := strings.TrimSpace(m.obInput.Value())
		if label == "" {
			m.obErr = "name is required"
			return m, nil
		}
		m.obPendingLabel = label
		m.obMode = obModeAmount
		m.obErr = ""
		m.obInput.SetValue("")
		if kind == "card" {
			m.obInput.Placeholder = "minimum due"
		} else {
			m.obInput.Placeholder = "amount"
		}
		return m, nil

	case obModeAmount:
		cents, err := parseAmountCents(m.obInput.Value())
		if err != nil {
			m.obErr = err.Error()
			return m, nil
		}
		m.obPendingCents = cents
		m.obErr = ""
		m.obInput.SetValue("")
		if kind == "card" || kind == "monthly expense" {
			m.obMode = obModeDay
			m.obInput.Placeholder = "due day 1-31"
			return m, nil
		}
		return m.commitObligation(0)

	case obModeDay:
		day, err := parseDayOfMonth(m.obInput.Value(), 31)
		if err != nil {
			m.obErr = err.Error()
			return m, nil
		}
		m.obPendingDay = day
		m.obErr = ""
		m.obInput.SetValue("")
		if kind == "card" {
			m.obMode = obModeBalance
			m.obInput.Placeholder = "current balance"
			return m, nil
		}
		return m.commitObligation(0)

	case obModeBalance:
		balance, err := parseAmountCents(m.obInput.Value())
		if err != nil {
			m.obErr = err.Error()
			return m, nil
		}
		return m.commitObligation(balance)
	}
	return m, nil
}

func (m model) commitObligation(balanceCents int64) (tea.Model, tea.Cmd) {
	s := m.store.Settings()
	id := uuid.NewString()

	switch obligationKinds()[m.obKindIdx] {
	case "card":
		s.Cards = append(s.Cards, plan.Card{
			ID:           id,
			Name:         m.obPendingLabel,
			MinDueCents:  m.obPendingCents,
			DueDay:       m.obPendingDay,
			BalanceCents: balanceCents,
		})
	case "monthly expense":
		s.MonthlyExpenses = append(s.MonthlyExpenses, plan.MonthlyExpense{
			ID:          id,
			Label:       m.obPendingLabel,
			AmountCents: m.obPendingCents,
			DueDay:      m.obPendingDay,
		})
	case "allocation":
		s.Allocations = append(s.Allocations, plan.Allocation{
			ID:          id,
			Label:       m.obPendingLabel,
			AmountCents: m.obPendingCents,
		})
	default:
		s.Spending = append(s.Spending, plan.Spending{
			ID:          id,
			Label:       m.obPendingLabel,
			AmountCents: m.obPendingCents,
		})
	}

	m.store.SetSettings(s)
	m.obMode = obModeList
	m.obErr = ""
	m.obInput.Blur()
	m.obCursor = len(m.obligationRows()) - 1
	return m, m.saveStateCmd()
}

func (m model) renderObligationsScreen(layoutWidth int) string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B"))

	rows := []string{headerStyle.Render("OBLIGATIONS"), ""}

	list := m.obligationRows()
	if len(list) == 0 {
		rows = append(rows, dimStyle.Render("nothing yet, press a to add"))
	}
	for i, row := range list {
		line := "[" + row.kind + "] " + row.display
		if m.obMode == obModeList && i == m.obCursor {
			rows = append(rows, cursorStyle.Render("> "+line))
		} else {
			rows = append(rows, "  "+labelStyle.Render(line))
		}
	}
	rows = append(rows, "")

	switch m.obMode {
	case obModeKind:
		rows = append(rows, dimStyle.Render("add what?"))
		for i, kind := range obligationKinds() {
			if i == m.obKindIdx {
				rows = append(rows, cursorStyle.Render("> "+kind))
			} else {
				rows = append(rows, "  "+labelStyle.Render(kind))
			}
		}
		rows = append(rows, "")
	case obModeLabel, obModeAmount, obModeDay, obModeBalance:
		prompt := map[int]string{
			obModeLabel:   "name:",
			obModeAmount:  "amount:",
			obModeDay:     "due day of month:",
			obModeBalance: "current balance:",
		}[m.obMode]
		rows = append(rows, dimStyle.Render(prompt), m.obInput.View(), "")
	}

	if m.obErr != "" {
		rows = append(rows, errStyle.Render(m.obErr), "")
	}

	rows = append(rows, dimStyle.Render("a add  d delete  ↑/↓ move  esc back"))

	aligned := make([]string, 0, len(rows))
	for _, row := range rows {
		aligned = append(aligned, lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, row))
	}
	return strings.Join(aligned, "\n")
}
