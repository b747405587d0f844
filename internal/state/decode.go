package state

import (
	"encoding/json"

	"github.com/lachiem1/paydown/internal/plan"
)

func defaultAppState() AppState {
	return AppState{
		Settings:          coerceSettings(plan.Settings{}),
		CheckedByCycle:    make(map[string]map[string]CheckedEntry),
		AppliedReductions: make(map[string]bool),
		UnexpectedByCycle: make(map[string][]UnexpectedExpense),
		PaymentsByCycle:   make(map[string][]ManualPayment),
	}
}

// decodeAppState turns a raw persisted blob into a valid AppState. Decoding
// is deliberately loose: unparseable JSON yields defaults, missing maps are
// created, and every field is re-clamped independently so one bad field never
// poisons the rest.
func decodeAppState(raw []byte) AppState {
	var st AppState
	if err := json.Unmarshal(raw, &st); err != nil {
		return defaultAppState()
	}
	st.Settings = coerceSettings(st.Settings)
	if st.CheckedByCycle == nil {
		st.CheckedByCycle = make(map[string]map[string]CheckedEntry)
	}
	for cycleID, byItem := range st.CheckedByCycle {
		if byItem == nil {
			st.CheckedByCycle[cycleID] = make(map[string]CheckedEntry)
		}
	}
	if st.AppliedReductions == nil {
		st.AppliedReductions = make(map[string]bool)
	}
	if st.UnexpectedByCycle == nil {
		st.UnexpectedByCycle = make(map[string][]UnexpectedExpense)
	}
	for cycleID, entries := range st.UnexpectedByCycle {
		st.UnexpectedByCycle[cycleID] = dropNonPositiveExpenses(entries)
	}
	if st.PaymentsByCycle == nil {
		st.PaymentsByCycle = make(map[string][]ManualPayment)
	}
	for cycleID, entries := range st.PaymentsByCycle {
		st.PaymentsByCycle[cycleID] = dropNonPositivePayments(entries)
	}
	return st
}

// coerceSettings clamps every settings field into its valid range. Due days
// keep the wider [1,31] range; the per-month clamp happens at matching time.
func coerceSettings(s plan.Settings) plan.Settings {
	out := s
	out.Schedule = s.Schedule.Normalized()
	out.PayCents = clampNonNegative(s.PayCents)
	out.DebtRemainingCents = clampNonNegative(s.DebtRemainingCents)

	out.Cards = make([]plan.Card, 0, len(s.Cards))
	for _, card := range s.Cards {
		card.MinDueCents = clampNonNegative(card.MinDueCents)
		card.BalanceCents = clampNonNegative(card.BalanceCents)
		card.DueDay = clampDueDay(card.DueDay)
		out.Cards = append(out.Cards, card)
	}
	out.MonthlyExpenses = make([]plan.MonthlyExpense, 0, len(s.MonthlyExpenses))
	for _, exp := range s.MonthlyExpenses {
		exp.AmountCents = clampNonNegative(exp.AmountCents)
		exp.DueDay = clampDueDay(exp.DueDay)
		out.MonthlyExpenses = append(out.MonthlyExpenses, exp)
	}
	out.Allocations = make([]plan.Allocation, 0, len(s.Allocations))
	for _, alloc := range s.Allocations {
		alloc.AmountCents = clampNonNegative(alloc.AmountCents)
		out.Allocations = append(out.Allocations, alloc)
	}
	out.Spending = make([]plan.Spending, 0, len(s.Spending))
	for _, sp := range s.Spending {
		sp.AmountCents = clampNonNegative(sp.AmountCents)
		out.Spending = append(out.Spending, sp)
	}
	return out
}

func dropNonPositiveExpenses(entries []UnexpectedExpense) []UnexpectedExpense {
	out := entries[:0]
	for _, entry := range entries {
		if entry.AmountCents > 0 {
			out = append(out, entry)
		}
	}
	return out
}

func dropNonPositivePayments(entries []ManualPayment) []ManualPayment {
	out := entries[:0]
	for _, entry := range entries {
		if entry.AmountCents > 0 {
			out = append(out, entry)
		}
	}
	return out
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func clampDueDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > 31 {
		return 31
	}
	return day
}
