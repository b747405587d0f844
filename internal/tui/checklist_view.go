package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/paydown/internal/plan"
)

// ledgerRow is one selectable line in the side-ledger pane. Exactly one of
// expenseID / paymentID is set.
type ledgerRow struct {
	label       string
	amountCents int64
	expenseID   string
	paymentID   string
}

func (m model) enterChecklistView() (tea.Model, tea.Cmd) {
	m.screen = screenChecklist
	m.cycleOffset = 0
	m.checklistCursor = 0
	m.checklistFocus = checklistFocusItems
	m.ledgerCursor = 0
	m.promptMode = promptNone
	m.promptErr = ""
	return m, nil
}

func (m model) ledgerRows(cycleID string) []ledgerRow {
	var rows []ledgerRow
	for _, e := range m.store.UnexpectedFor(cycleID) {
		rows = append(rows, ledgerRow{label: e.Label, amountCents: e.AmountCents, expenseID: e.ID})
	}
	for _, p := range m.store.PaymentsFor(cycleID) {
		label := "extra payment"
		if card, ok := m.store.Settings().CardByID(p.TargetID); ok {
			label = "payment: " + card.Name
		}
		rows = append(rows, ledgerRow{label: label, amountCents: p.AmountCents, paymentID: p.ID})
	}
	return rows
}

// eligibleCards is the payment-target picker list: only cards that still carry
// a balance can take an extra payment.
func (m model) eligibleCards() []plan.Card {
	var cards []plan.Card
	for _, card := range m.store.Settings().Cards {
		if card.BalanceCents > 0 {
			cards = append(cards, card)
		}
	}
	return cards
}

func (m model) updateChecklist(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.promptMode != promptNone {
		return m.updateChecklistPrompt(msg)
	}

	cycle := m.viewedCycle()
	items := m.store.Checklist(cycle)

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc", "q":
		m.screen = screenHome
		return m, nil
	case "left":
		m.cycleOffset--
		m.checklistCursor = 0
		m.ledgerCursor = 0
		return m, nil
	case "right":
		m.cycleOffset++
		m.checklistCursor = 0
		m.ledgerCursor = 0
		return m, nil
	case "0":
		m.cycleOffset = 0
		m.checklistCursor = 0
		m.ledgerCursor = 0
		return m, nil
	case "tab":
		if m.checklistFocus == checklistFocusItems {
			m.checklistFocus = checklistFocusLedger
		} else {
			m.checklistFocus = checklistFocusItems
		}
		return m, nil
	case "u":
		m.promptMode = promptUnexpectedLabel
		m.promptErr = ""
		m.promptInput.SetValue("")
		m.promptInput.Placeholder = "what came up?"
		m.promptInput.Focus()
		return m, nil
	case "p":
		if len(m.eligibleCards()) == 0 {
			m.promptErr = "no cards with a balance to pay"
			return m, nil
		}
		m.promptMode = promptPaymentCard
		m.promptErr = ""
		m.promptCardIdx = 0
		return m, nil
	case "up", "k":
		if m.checklistFocus == checklistFocusLedger {
			if m.ledgerCursor > 0 {
				m.ledgerCursor--
			}
		} else if m.checklistCursor > 0 {
			m.checklistCursor--
		}
		return m, nil
	case "down", "j":
		if m.checklistFocus == checklistFocusLedger {
			if m.ledgerCursor < len(m.ledgerRows(cycle.ID))-1 {
				m.ledgerCursor++
			}
		} else if m.checklistCursor < len(items)-1 {
			m.checklistCursor++
		}
		return m, nil
	case "x", "d":
		if m.checklistFocus != checklistFocusLedger {
			return m, nil
		}
		rows := m.ledgerRows(cycle.ID)
		if m.ledgerCursor >= len(rows) {
			return m, nil
		}
		row := rows[m.ledgerCursor]
		if row.expenseID != "" {
			m.store.RemoveUnexpectedExpense(cycle.ID, row.expenseID)
		} else {
			m.store.RemoveManualPayment(cycle.ID, row.paymentID)
		}
		if m.ledgerCursor > 0 {
			m.ledgerCursor--
		}
		return m, m.saveStateCmd()
	case "enter", " ":
		if m.checklistFocus != checklistFocusItems || m.checklistCursor >= len(items) {
			return m, nil
		}
		// Reductions run against the pre-toggle item list so the checked
		// item's amount is the one the user saw, not one recomputed from an
		// already reduced balance.
		m.store.ToggleItem(cycle.ID, items[m.checklistCursor].ID)
		m.store.ApplyPendingReductions(cycle, items)
		return m, m.saveStateCmd()
	}
	return m, nil
}

func (m model) updateChecklistPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cycle := m.viewedCycle()

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.promptMode = promptNone
		m.promptErr = ""
		m.promptInput.Blur()
		return m, nil
	}

	if m.promptMode == promptPaymentCard {
		cards := m.eligibleCards()
		switch msg.String() {
		case "up", "k":
			if m.promptCardIdx > 0 {
				m.promptCardIdx--
			}
		case "down", "j":
			if m.promptCardIdx < len(cards)-1 {
				m.promptCardIdx++
			}
		case "enter":
			if m.promptCardIdx < len(cards) {
				m.promptMode = promptPaymentAmount
				m.promptErr = ""
				m.promptInput.SetValue("")
				m.promptInput.Placeholder = "amount"
				m.promptInput.Focus()
			}
		}
		return m, nil
	}

	if msg.String() == "enter" {
		switch m.promptMode {
		case promptUnexpectedLabel:
			label := strings.TrimSpace(m.promptInput.Value())
			if label == "" {
				m.promptErr = "label is required"
				return m, nil
			}
			m.promptLabel = label
			m.promptMode = promptUnexpectedAmount
			m.promptErr = ""
			m.promptInput.SetValue("")
			m.promptInput.Placeholder = "amount"
			return m, nil

		case promptUnexpectedAmount:
			cents, err := parseAmountCents(m.promptInput.Value())
			if err != nil {
				m.promptErr = err.Error()
				return m, nil
			}
			if !m.store.AddUnexpectedExpense(cycle.ID, m.promptLabel, cents) {
				m.promptErr = "expense could not be recorded"
				return m, nil
			}
			m.promptMode = promptNone
			m.promptInput.Blur()
			return m, m.saveStateCmd()

		case promptPaymentAmount:
			cents, err := parseAmountCents(m.promptInput.Value())
			if err != nil {
				m.promptErr = err.Error()
				return m, nil
			}
			cards := m.eligibleCards()
			if m.promptCardIdx >= len(cards) {
				m.promptMode = promptNone
				m.promptInput.Blur()
				return m, nil
			}
			if !m.store.AddManualPayment(cycle.ID, cards[m.promptCardIdx].ID, cents) {
				m.promptErr = "payment could not be recorded"
				return m, nil
			}
			m.promptMode = promptNone
			m.promptInput.Blur()
			return m, m.saveStateCmd()
		}
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func categoryHeading(cat plan.Category) string {
	switch cat {
	case plan.CategoryCard:
		return "CARD MINIMUMS"
	case plan.CategoryExpense:
		return "MONTHLY EXPENSES"
	case plan.CategoryAllocation:
		return "ALLOCATIONS"
	case plan.CategorySpending:
		return "SPENDING MONEY"
	default:
		return "DEBT PAYDOWN"
	}
}

func (m model) renderChecklistScreen(layoutWidth int) string {
	cycle := m.viewedCycle()
	items := m.store.Checklist(cycle)
	totals := m.store.Totals(cycle, items)

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Strikethrough(true)
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B"))

	header := headerStyle.Render(cycle.Label)
	if m.cycleOffset != 0 {
		header += dimStyle.Render("  (offset cycle, 0 returns to current)")
	}

	rows := []string{header, ""}

	itemIdx := 0
	for _, cat := range plan.Categories() {
		var section []string
		for _, it := range items {
			if it.Category != cat {
				continue
			}
			checked := m.store.IsChecked(cycle.ID, it.ID)
			box := "[ ]"
			style := labelStyle
			if checked {
				box = "[x]"
				style = doneStyle
			}
			line := box + " " + it.Label + "  " + formatCents(it.AmountCents)
			if m.checklistFocus == checklistFocusItems && itemIdx == m.checklistCursor {
				line = cursorStyle.Render("> " + line)
			} else {
				line = "  " + style.Render(line)
			}
			section = append(section, line)
			itemIdx++
		}
		if len(section) > 0 {
			rows = append(rows, dimStyle.Render(categoryHeading(cat)))
			rows = append(rows, section...)
			rows = append(rows, "")
		}
	}
	if itemIdx == 0 {
		rows = append(rows, dimStyle.Render("nothing planned for this cycle"), "")
	}

	ledger := m.ledgerRows(cycle.ID)
	if len(ledger) > 0 || m.checklistFocus == checklistFocusLedger {
		rows = append(rows, dimStyle.Render("THIS CYCLE'S LEDGER"))
		if len(ledger) == 0 {
			rows = append(rows, dimStyle.Render("  (empty)"))
		}
		for i, row := range ledger {
			line := row.label + "  " + formatCents(row.amountCents)
			if m.checklistFocus == checklistFocusLedger && i == m.ledgerCursor {
				rows = append(rows, cursorStyle.Render("> "+line))
			} else {
				rows = append(rows, "  "+labelStyle.Render(line))
			}
		}
		rows = append(rows, "")
	}

	switch m.promptMode {
	case promptUnexpectedLabel:
		rows = append(rows, dimStyle.Render("unexpected expense label:"), m.promptInput.View())
	case promptUnexpectedAmount:
		rows = append(rows, dimStyle.Render("unexpected expense amount:"), m.promptInput.View())
	case promptPaymentCard:
		rows = append(rows, dimStyle.Render("pay which card?"))
		for i, card := range m.eligibleCards() {
			line := card.Name + "  " + formatCents(card.BalanceCents) + " owing"
			if i == m.promptCardIdx {
				rows = append(rows, cursorStyle.Render("> "+line))
			} else {
				rows = append(rows, "  "+labelStyle.Render(line))
			}
		}
	case promptPaymentAmount:
		rows = append(rows, dimStyle.Render("payment amount:"), m.promptInput.View())
	}
	if m.promptErr != "" {
		rows = append(rows, errStyle.Render(m.promptErr))
	}
	if m.promptMode != promptNone {
		rows = append(rows, "")
	}

	footer := dimStyle.Render(
		formatCents(totals.CompletedCents) + " of " + formatCents(totals.PlannedCents) + " done",
	)
	hints := dimStyle.Render("space check  tab ledger  u unexpected  p payment  ←/→ cycle  0 now  esc back")
	rows = append(rows, footer, hints)

	aligned := make([]string, 0, len(rows))
	for _, row := range rows {
		aligned = append(aligned, lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, row))
	}
	return strings.Join(aligned, "\n")
}
