package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func parseAmountCents(raw string) (int64, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if trimmed == "" {
		return 0, fmt.Errorf("amount is required")
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("amount is invalid")
	}
	if n <= 0 {
		return 0, fmt.Errorf("amount must be greater than 0")
	}
	return int64(math.Round(n * 100)), nil
}

// parseOptionalAmountCents accepts empty or zero as 0 cents.
func parseOptionalAmountCents(raw string) (int64, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if trimmed == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("amount is invalid")
	}
	if n < 0 {
		return 0, fmt.Errorf("amount cannot be negative")
	}
	return int64(math.Round(n * 100)), nil
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func parseDayOfMonth(raw string, maxDay int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("day is required")
	}
	day, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("day must be a number")
	}
	if day < 1 || day > maxDay {
		return 0, fmt.Errorf("day must be 1-%d", maxDay)
	}
	return day, nil
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, ch := range raw {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func limitDigits(raw string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(raw) <= maxLen {
		return raw
	}
	return raw[:maxLen]
}

func dateToDigits(raw string) string {
	v := strings.TrimSpace(raw)
	if len(v) != 10 {
		return ""
	}
	if v[4] != '-' || v[7] != '-' {
		return ""
	}
	digits := strings.ReplaceAll(v, "-", "")
	if len(digits) != 8 {
		return ""
	}
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return ""
		}
	}
	return digits
}

// validateAndFormatDateDigits turns a YYYYMMDD digit string into YYYY-MM-DD.
// Anchor paydays may be in the past; only calendar validity is enforced.
func validateAndFormatDateDigits(digits string) (string, error) {
	if len(digits) != 8 {
		return "", fmt.Errorf("date must be YYYY / MM / DD")
	}
	year, err := strconv.Atoi(digits[0:4])
	if err != nil || year < 1970 || year > 9999 {
		return "", fmt.Errorf("year must be 1970-9999")
	}
	month, err := strconv.Atoi(digits[4:6])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("month must be 01-12")
	}
	day, err := strconv.Atoi(digits[6:8])
	if err != nil || day < 1 || day > 31 {
		return "", fmt.Errorf("day must be 01-31")
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return "", fmt.Errorf("date is not valid in the calendar")
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

func renderDateMask(digits string) string {
	d := make([]rune, 8)
	for i := range d {
		d[i] = '_'
	}
	for i, ch := range digits {
		if i >= len(d) {
			break
		}
		if ch >= '0' && ch <= '9' {
			d[i] = ch
		}
	}

	numStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	part := func(start, end int) string { return numStyle.Render(string(d[start:end])) }
	return part(0, 4) + sepStyle.Render(" / ") + part(4, 6) + sepStyle.Render(" / ") + part(6, 8)
}
