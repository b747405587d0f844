package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestCurrentCycleFortnightlyScenario(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyFortnightly, Anchor: "2026-01-09"}
	c := CurrentCycle(cfg, date(2026, time.January, 20))

	if got, want := c.Start, date(2026, time.January, 9); !got.Equal(want) {
		t.Fatalf("c.Start = %v, want %v", got, want)
	}
	if got, want := c.End, date(2026, time.January, 22); !got.Equal(want) {
		t.Fatalf("c.End = %v, want %v", got, want)
	}
	if got, want := c.Payday, date(2026, time.January, 9); !got.Equal(want) {
		t.Fatalf("c.Payday = %v, want %v", got, want)
	}
	if c.ID != "fn_2026-01-09" {
		t.Fatalf("c.ID = %q, want %q", c.ID, "fn_2026-01-09")
	}
}

func TestCurrentCycleWeeklyStepsFromAnchor(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyWeekly, Anchor: "2026-01-02"}
	c := CurrentCycle(cfg, date(2026, time.January, 15))

	if got, want := c.Payday, date(2026, time.January, 16); got.Equal(want) {
		t.Fatalf("c.Payday = %v, should be the cycle starting before the reference", got)
	}
	if got, want := c.Payday, date(2026, time.January, 9); !got.Equal(want) {
		t.Fatalf("c.Payday = %v, want %v", got, want)
	}
	if got, want := c.End, date(2026, time.January, 15); !got.Equal(want) {
		t.Fatalf("c.End = %v, want %v", got, want)
	}
}

func TestCurrentCycleExtendsBeforeAnchor(t *testing.T) {
	t.Parallel()

	// The anchor is just one payday on an infinite grid; references before it
	// land in an extrapolated earlier cycle, not the anchor cycle.
	cfg := Config{Frequency: FrequencyFortnightly, Anchor: "2026-03-06"}
	c := CurrentCycle(cfg, date(2026, time.February, 1))

	if got, want := c.Payday, date(2026, time.January, 23); !got.Equal(want) {
		t.Fatalf("c.Payday = %v, want %v", got, want)
	}
	if got, want := c.End, date(2026, time.February, 5); !got.Equal(want) {
		t.Fatalf("c.End = %v, want %v", got, want)
	}
}

func TestCurrentCycleTwiceMonthlyMidMonth(t *testing.T) {
	t.Parallel()

	// Reference on the 20th of a 31-day month: payday is day 15, the cycle
	// runs until the day before next month's day 1.
	cfg := Config{Frequency: FrequencyTwiceMonthly, DayA: 1, DayB: 15}
	c := CurrentCycle(cfg, date(2026, time.January, 20))

	if got, want := c.Payday, date(2026, time.January, 15); !got.Equal(want) {
		t.Fatalf("c.Payday = %v, want %v", got, want)
	}
	if got, want := c.End, date(2026, time.January, 31); !got.Equal(want) {
		t.Fatalf("c.End = %v, want %v", got, want)
	}
}

func TestCurrentCycleTwiceMonthlyBeforeFirstPayday(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyTwiceMonthly, DayA: 5, DayB: 20}
	c := CurrentCycle(cfg, date(2026, time.March, 2))

	if got, want := c.Payday, date(2026, time.February, 20); !got.Equal(want) {
		t.Fatalf("c.Payday = %v, want previous month's second payday %v", got, want)
	}
	if got, want := c.End, date(2026, time.March, 4); !got.Equal(want) {
		t.Fatalf("c.End = %v, want %v", got, want)
	}
}

func TestCurrentCycleTwiceMonthlySortsDays(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyTwiceMonthly, DayA: 20, DayB: 5}
	c := CurrentCycle(cfg, date(2026, time.March, 10))

	if got, want := c.Payday, date(2026, time.March, 5); !got.Equal(want) {
		t.Fatalf("c.Payday = %v, want %v after day sorting", got, want)
	}
}

func TestCurrentCycleMonthlyRollsBack(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyMonthly, Day: 25}
	c := CurrentCycle(cfg, date(2026, time.April, 10))

	if got, want := c.Payday, date(2026, time.March, 25); !got.Equal(want) {
		t.Fatalf("c.Payday = %v, want %v", got, want)
	}
	if got, want := c.End, date(2026, time.April, 24); !got.Equal(want) {
		t.Fatalf("c.End = %v, want %v", got, want)
	}
}

func TestCurrentCycleIDStableWithinCycle(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyFortnightly, Anchor: "2026-01-09"}
	first := CurrentCycle(cfg, date(2026, time.January, 9))
	last := CurrentCycle(cfg, date(2026, time.January, 22))

	if first.ID != last.ID {
		t.Fatalf("cycle id changed within one cycle: %q vs %q", first.ID, last.ID)
	}
}

func TestCyclesPartitionTime(t *testing.T) {
	t.Parallel()

	configs := []Config{
		{Frequency: FrequencyWeekly, Anchor: "2026-01-02"},
		{Frequency: FrequencyFortnightly, Anchor: "2026-01-09"},
		{Frequency: FrequencyTwiceMonthly, DayA: 1, DayB: 15},
		{Frequency: FrequencyTwiceMonthly, DayA: 10, DayB: 24},
		{Frequency: FrequencyMonthly, Day: 28},
	}
	ref := date(2026, time.January, 20)
	for _, cfg := range configs {
		for offset := -6; offset < 6; offset++ {
			cur := CycleWithOffset(cfg, ref, offset)
			next := CycleWithOffset(cfg, ref, offset+1)
			if got, want := cur.End.AddDate(0, 0, 1), next.Start; !got.Equal(want) {
				t.Fatalf(
					"%s offset %d: end+1d = %v, want next start %v",
					cfg.Frequency, offset, got, want,
				)
			}
			if !cur.Start.Equal(cur.Payday) {
				t.Fatalf("%s offset %d: start %v != payday %v", cfg.Frequency, offset, cur.Start, cur.Payday)
			}
		}
	}
}

func TestCycleWithOffsetZeroMatchesCurrent(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyMonthly, Day: 15}
	ref := date(2026, time.June, 3)
	if got, want := CycleWithOffset(cfg, ref, 0).ID, CurrentCycle(cfg, ref).ID; got != want {
		t.Fatalf("CycleWithOffset(0) id = %q, want %q", got, want)
	}
}

func TestCycleWithOffsetRoundTrips(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyTwiceMonthly, DayA: 1, DayB: 15}
	ref := date(2026, time.January, 20)
	forward := CycleWithOffset(cfg, ref, 3)
	back := CycleWithOffset(cfg, forward.Start, -3)
	if got, want := back.ID, CurrentCycle(cfg, ref).ID; got != want {
		t.Fatalf("round trip id = %q, want %q", got, want)
	}
}

func TestCycleWithOffsetRoundTripsAcrossAnchor(t *testing.T) {
	t.Parallel()

	// Walking back past the anchor payday and forward again must land on the
	// starting cycle; the anchor is not a boundary for navigation.
	cfg := Config{Frequency: FrequencyWeekly, Anchor: "2026-01-02"}
	ref := date(2026, time.January, 20)
	back := CycleWithOffset(cfg, ref, -5)
	if !back.Start.Before(date(2026, time.January, 2)) {
		t.Fatalf("back.Start = %v, want a cycle before the anchor", back.Start)
	}
	forward := CycleWithOffset(cfg, back.Start, 5)
	if got, want := forward.ID, CurrentCycle(cfg, ref).ID; got != want {
		t.Fatalf("round trip id = %q, want %q", got, want)
	}
}

func TestLastNReturnsDistinctMostRecentFirst(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyFortnightly, Anchor: "2026-01-09"}
	cycles := LastN(cfg, date(2026, time.March, 10), 4)

	if len(cycles) != 4 {
		t.Fatalf("len(cycles) = %d, want 4", len(cycles))
	}
	seen := make(map[string]bool, len(cycles))
	for i, c := range cycles {
		if seen[c.ID] {
			t.Fatalf("duplicate cycle id %q", c.ID)
		}
		seen[c.ID] = true
		if i > 0 && !c.Start.Before(cycles[i-1].Start) {
			t.Fatalf("cycles not ordered most-recent first at index %d", i)
		}
	}
	if got, want := cycles[0].ID, CurrentCycle(cfg, date(2026, time.March, 10)).ID; got != want {
		t.Fatalf("cycles[0].ID = %q, want current cycle %q", got, want)
	}
}

func TestLastNExtendsBeforeAnchor(t *testing.T) {
	t.Parallel()

	// A reference years before the anchor still yields n distinct cycles on
	// the extrapolated grid.
	cfg := Config{Frequency: FrequencyWeekly, Anchor: "2030-01-04"}
	cycles := LastN(cfg, date(2026, time.January, 1), 4)

	if len(cycles) != 4 {
		t.Fatalf("len(cycles) = %d, want 4", len(cycles))
	}
	seen := make(map[string]bool, len(cycles))
	for _, c := range cycles {
		if seen[c.ID] {
			t.Fatalf("duplicate cycle id %q", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestDueDayInCycleWithinSingleMonth(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyFortnightly, Anchor: "2026-01-09"}
	c := CurrentCycle(cfg, date(2026, time.January, 20))

	if !DueDayInCycle(c, 15) {
		t.Fatal("DueDayInCycle(15) = false, want true for cycle 09-22 Jan")
	}
	if DueDayInCycle(c, 25) {
		t.Fatal("DueDayInCycle(25) = true, want false for cycle 09-22 Jan")
	}
}

func TestDueDayInCycleAcrossMonthBoundary(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: FrequencyFortnightly, Anchor: "2026-01-23"}
	c := CurrentCycle(cfg, date(2026, time.January, 28))
	if got, want := c.End, date(2026, time.February, 5); !got.Equal(want) {
		t.Fatalf("c.End = %v, want %v", got, want)
	}

	// Due day anchored in the start month.
	if !DueDayInCycle(c, 28) {
		t.Fatal("DueDayInCycle(28) = false, want true")
	}
	// Due day anchored in the end month.
	if !DueDayInCycle(c, 3) {
		t.Fatal("DueDayInCycle(3) = false, want true")
	}
	if DueDayInCycle(c, 10) {
		t.Fatal("DueDayInCycle(10) = true, want false")
	}
}

func TestDueDayInCycleClampsToMonthLength(t *testing.T) {
	t.Parallel()

	// Cycle spanning the end of February; due day 31 clamps to 28 in 2026.
	cfg := Config{Frequency: FrequencyFortnightly, Anchor: "2026-02-20"}
	c := CurrentCycle(cfg, date(2026, time.February, 25))

	if !DueDayInCycle(c, 31) {
		t.Fatal("DueDayInCycle(31) = false, want true via clamp to Feb 28")
	}
}

func TestNormalizedCoercesLooseConfig(t *testing.T) {
	t.Parallel()

	cfg := Config{Frequency: "whenever", DayA: 40, DayB: 0, Day: -3}.Normalized()

	if cfg.Frequency != FrequencyFortnightly {
		t.Fatalf("cfg.Frequency = %q, want %q", cfg.Frequency, FrequencyFortnightly)
	}
	if cfg.DayA != 1 || cfg.DayB != 28 {
		t.Fatalf("cfg days = (%d, %d), want (1, 28)", cfg.DayA, cfg.DayB)
	}
	if cfg.Day != 1 {
		t.Fatalf("cfg.Day = %d, want 1", cfg.Day)
	}
}

func TestParseFrequency(t *testing.T) {
	t.Parallel()

	if got, ok := ParseFrequency("  Monthly "); !ok || got != FrequencyMonthly {
		t.Fatalf("ParseFrequency(monthly) = (%q, %v), want (%q, true)", got, ok, FrequencyMonthly)
	}
	if _, ok := ParseFrequency("biweekly"); ok {
		t.Fatal("ParseFrequency(biweekly) ok = true, want false")
	}
}
