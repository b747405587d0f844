package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/paydown/internal/schedule"
)

const historyCycles = 6

func (m model) renderHistoryScreen(layoutWidth int) string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	rows := []string{headerStyle.Render("CYCLE HISTORY"), ""}

	cycles := schedule.LastN(m.store.Settings().Schedule, timeNow(), historyCycles)
	for _, c := range cycles {
		totals := m.store.Totals(c, m.store.Checklist(c))
		line := labelStyle.Render(c.Label) + dimStyle.Render(
			fmt.Sprintf("  %s of %s  (%.0f%%)",
				formatCents(totals.CompletedCents),
				formatCents(totals.PlannedCents),
				totals.PercentComplete,
			),
		)
		rows = append(rows, line)
	}
	if len(cycles) == 0 {
		rows = append(rows, dimStyle.Render("no cycles yet"))
	}

	rows = append(rows, "", dimStyle.Render("esc back"))

	aligned := make([]string, 0, len(rows))
	for _, row := range rows {
		aligned = append(aligned, lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, row))
	}
	return strings.Join(aligned, "\n")
}
