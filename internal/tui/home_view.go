package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/paydown/internal/schedule"
)

func renderHomeTitle() string {
	glyphs := map[rune][3]string{
		'A': {"▄▀█", "█▀█", "▀ ▀"},
		'D': {"█▀▄", "█ █", "▀▀ "},
		'N': {"█▄ █", "█ ▀█", "▀  ▀"},
		'O': {"█▀█", "█▄█", "▀▀▀"},
		'P': {"█▀█", "█▀▀", "▀  "},
		'W': {"█ █ █", "█ █ █", "▀▀▀▀▀"},
		'Y': {"█ █", " █ ", " ▀ "},
	}
	title := "PAYDOWN"
	lines := [3][]string{{}, {}, {}}
	for _, ch := range title {
		g, ok := glyphs[ch]
		if !ok {
			continue
		}
		lines[0] = append(lines[0], g[0])
		lines[1] = append(lines[1], g[1])
		lines[2] = append(lines[2], g[2])
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	out := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		out = append(out, style.Render(strings.Join(lines[i], " ")))
	}
	return strings.Join(out, "\n")
}

func (m model) renderHomeScreen(layoutWidth int) string {
	title := lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, renderHomeTitle())

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Bold(true)

	cycle := schedule.CurrentCycle(m.store.Settings().Schedule, timeNow())
	totals := m.store.Totals(cycle, m.store.Checklist(cycle))
	statusLine := labelStyle.Render("current cycle: ") + valueStyle.Render(cycle.Label)
	progressLine := labelStyle.Render("cycle progress: ") +
		valueStyle.Render(formatCents(totals.CompletedCents)+" of "+formatCents(totals.PlannedCents))
	debtLine := labelStyle.Render("debt remaining: ") +
		valueStyle.Render(formatCents(m.store.Settings().DebtRemainingCents))

	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	rows := make([]string, 0, len(homeMenuItems()))
	for i, item := range homeMenuItems() {
		prefix := "  "
		style := itemStyle
		if i == m.selected {
			prefix = "> "
			style = selectedStyle
		}
		rows = append(rows, style.Render(prefix+item))
	}

	menu := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(0, 2).
		Render(strings.Join(rows, "\n"))

	hint := labelStyle.Render("↑/↓ move  enter open  q quit")

	parts := []string{title, "", statusLine, progressLine, debtLine, "", menu, "", hint}
	if m.loadErr != "" {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B")).Render("storage: "+m.loadErr))
	}
	aligned := make([]string, 0, len(parts))
	for _, p := range parts {
		aligned = append(aligned, lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, p))
	}
	return strings.Join(aligned, "\n")
}
