// Package schedule derives pay cycles from a pay frequency configuration.
// All functions are pure; cycles are recomputed on demand and never stored.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Frequency string

const (
	FrequencyWeekly       Frequency = "weekly"
	FrequencyFortnightly  Frequency = "fortnightly"
	FrequencyTwiceMonthly Frequency = "twicemonthly"
	FrequencyMonthly      Frequency = "monthly"
)

func Frequencies() []Frequency {
	return []Frequency{
		FrequencyWeekly,
		FrequencyFortnightly,
		FrequencyTwiceMonthly,
		FrequencyMonthly,
	}
}

// ParseFrequency normalizes raw input to a known frequency.
func ParseFrequency(raw string) (Frequency, bool) {
	trimmed := Frequency(strings.ToLower(strings.TrimSpace(raw)))
	for _, f := range Frequencies() {
		if trimmed == f {
			return f, true
		}
	}
	return "", false
}

// Config describes when paydays land. Anchor is a YYYY-MM-DD payday used by
// the weekly and fortnightly frequencies. DayA/DayB are the two paydays of a
// twice-monthly schedule; Day is the single payday of a monthly schedule.
type Config struct {
	Frequency Frequency `json:"frequency"`
	Anchor    string    `json:"anchor,omitempty"`
	DayA      int       `json:"dayA,omitempty"`
	DayB      int       `json:"dayB,omitempty"`
	Day       int       `json:"day,omitempty"`
}

// Normalized coerces a possibly loose config into a valid one: unknown
// frequency falls back to fortnightly, day-of-month fields are clamped to
// [1,28] so every month has the payday, and DayA <= DayB by sorting.
func (c Config) Normalized() Config {
	out := c
	if _, ok := ParseFrequency(string(c.Frequency)); !ok {
		out.Frequency = FrequencyFortnightly
	}
	out.DayA = clampConfigDay(c.DayA)
	out.DayB = clampConfigDay(c.DayB)
	if out.DayA > out.DayB {
		days := []int{out.DayA, out.DayB}
		sort.Ints(days)
		out.DayA, out.DayB = days[0], days[1]
	}
	out.Day = clampConfigDay(c.Day)
	out.Anchor = strings.TrimSpace(c.Anchor)
	return out
}

// Cycle is one pay period: Start == Payday, End is the day before the next
// payday. ID is stable for a given frequency and payday date and keys all
// per-cycle state.
type Cycle struct {
	ID     string
	Label  string
	Start  time.Time
	End    time.Time
	Payday time.Time
}

// CurrentCycle returns the cycle containing ref under cfg.
func CurrentCycle(cfg Config, ref time.Time) Cycle {
	cfg = cfg.Normalized()
	ref = startOfDay(ref)

	switch cfg.Frequency {
	case FrequencyWeekly, FrequencyFortnightly:
		return steppedCycle(cfg, ref)
	case FrequencyTwiceMonthly:
		return twiceMonthlyCycle(cfg, ref)
	default:
		return monthlyCycle(cfg, ref)
	}
}

// CycleWithOffset steps offset cycles away from the current one. Positive
// offsets walk forward from each cycle's end, negative offsets walk backward
// from each cycle's start, so traversal is gap-free in both directions.
func CycleWithOffset(cfg Config, ref time.Time, offset int) Cycle {
	c := CurrentCycle(cfg, ref)
	for i := 0; i < offset; i++ {
		c = CurrentCycle(cfg, c.End.AddDate(0, 0, 1))
	}
	for i := 0; i > offset; i-- {
		c = CurrentCycle(cfg, c.Start.AddDate(0, 0, -1))
	}
	return c
}

// LastN returns up to n distinct cycles ending with the one containing ref,
// most recent first. The iteration bound guards against a misconfigured
// schedule that fails to advance the cycle id.
func LastN(cfg Config, ref time.Time, n int) []Cycle {
	if n <= 0 {
		return nil
	}
	out := make([]Cycle, 0, n)
	seen := make(map[string]bool, n)
	cursor := ref
	for i := 0; i < n+5 && len(out) < n; i++ {
		c := CurrentCycle(cfg, cursor)
		if !seen[c.ID] {
			seen[c.ID] = true
			out = append(out, c)
		}
		cursor = c.Start.AddDate(0, 0, -1)
	}
	return out
}

// DueDayInCycle reports whether an obligation due on dueDay falls inside c.
// The due date is anchored in both the month containing the cycle start and
// the month containing the cycle end, because a cycle may straddle a month
// boundary. dueDay may be 29-31; it is clamped to each month's real length.
func DueDayInCycle(c Cycle, dueDay int) bool {
	if dueDay < 1 {
		dueDay = 1
	}
	if dueDay > 31 {
		dueDay = 31
	}
	anchors := []time.Time{c.Start}
	if c.End.Month() != c.Start.Month() || c.End.Year() != c.Start.Year() {
		anchors = append(anchors, c.End)
	}
	for _, anchor := range anchors {
		due := dateInMonth(anchor.Year(), anchor.Month(), dueDay, anchor.Location())
		if !due.Before(c.Start) && !due.After(c.End) {
			return true
		}
	}
	return false
}

func steppedCycle(cfg Config, ref time.Time) Cycle {
	anchor := anchorDate(cfg, ref)
	step := 7
	if cfg.Frequency == FrequencyFortnightly {
		step = 14
	}
	// Floor division extends the grid before the anchor too, so cycles tile
	// the whole timeline and backward navigation never sticks at the anchor.
	idx := floorDiv(daysBetween(anchor, ref), step)
	payday := anchor.AddDate(0, 0, idx*step)
	end := payday.AddDate(0, 0, step-1)
	return newCycle(cfg.Frequency, payday, end)
}

func twiceMonthlyCycle(cfg Config, ref time.Time) Cycle {
	loc := ref.Location()
	a := dateInMonth(ref.Year(), ref.Month(), cfg.DayA, loc)
	b := dateInMonth(ref.Year(), ref.Month(), cfg.DayB, loc)

	var payday, next time.Time
	switch {
	case ref.Before(a):
		prevYear, prevMonth := addMonths(ref.Year(), ref.Month(), -1)
		payday = dateInMonth(prevYear, prevMonth, cfg.DayB, loc)
		next = a
	case ref.Before(b):
		payday = a
		next = b
	default:
		payday = b
		nextYear, nextMonth := addMonths(ref.Year(), ref.Month(), 1)
		next = dateInMonth(nextYear, nextMonth, cfg.DayA, loc)
	}
	return newCycle(cfg.Frequency, payday, next.AddDate(0, 0, -1))
}

func monthlyCycle(cfg Config, ref time.Time) Cycle {
	loc := ref.Location()
	payday := dateInMonth(ref.Year(), ref.Month(), cfg.Day, loc)
	if ref.Before(payday) {
		prevYear, prevMonth := addMonths(ref.Year(), ref.Month(), -1)
		payday = dateInMonth(prevYear, prevMonth, cfg.Day, loc)
	}
	nextYear, nextMonth := addMonths(payday.Year(), payday.Month(), 1)
	next := dateInMonth(nextYear, nextMonth, cfg.Day, loc)
	return newCycle(cfg.Frequency, payday, next.AddDate(0, 0, -1))
}

func newCycle(f Frequency, payday, end time.Time) Cycle {
	return Cycle{
		ID:     fmt.Sprintf("%s_%s", cyclePrefix(f), payday.Format("2006-01-02")),
		Label:  payday.Format("02 Jan") + " to " + end.Format("02 Jan 2006"),
		Start:  payday,
		End:    end,
		Payday: payday,
	}
}

func cyclePrefix(f Frequency) string {
	switch f {
	case FrequencyWeekly:
		return "wk"
	case FrequencyFortnightly:
		return "fn"
	case FrequencyTwiceMonthly:
		return "tm"
	default:
		return "mo"
	}
}

// anchorDate parses the configured anchor payday. An unparseable anchor falls
// back to ref itself so the engine still yields a well-formed cycle.
func anchorDate(cfg Config, ref time.Time) time.Time {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(cfg.Anchor), ref.Location())
	if err != nil {
		return startOfDay(ref)
	}
	return startOfDay(t)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// floorDiv rounds the quotient toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// daysBetween counts civil days from a to b, ignoring DST wobble.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateInMonth(year int, month time.Month, day int, loc *time.Location) time.Time {
	if day < 1 {
		day = 1
	}
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func addMonths(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}

func clampConfigDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > 28 {
		return 28
	}
	return day
}
