// Package plan holds the user's configured obligations and derives the
// checklist for a pay cycle. Derivation is pure; all side effects live in the
// state store.
package plan

import "github.com/lachiem1/paydown/internal/schedule"

// Category is the closed set of checklist groupings.
type Category string

const (
	CategoryCard       Category = "card"
	CategoryExpense    Category = "expense"
	CategoryAllocation Category = "allocation"
	CategorySpending   Category = "spending"
	CategoryDebt       Category = "debt"
)

func Categories() []Category {
	return []Category{
		CategoryCard,
		CategoryExpense,
		CategoryAllocation,
		CategorySpending,
		CategoryDebt,
	}
}

// Kind distinguishes items whose completion reduces a stored balance.
type Kind int

const (
	KindFixed Kind = iota
	KindCardMinimum
	KindRemainder
)

// Card is a credit card or recurring bill carrying a balance. It appears on a
// cycle's checklist only while its balance is positive and its due day falls
// in the cycle.
type Card struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MinDueCents  int64  `json:"minDueCents"`
	DueDay       int    `json:"dueDay"`
	BalanceCents int64  `json:"balanceCents"`
}

// MonthlyExpense is a fixed monthly obligation with a due day but no balance.
type MonthlyExpense struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	AmountCents int64  `json:"amountCents"`
	DueDay      int    `json:"dueDay"`
}

// Allocation is set aside every cycle regardless of dates.
type Allocation struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	AmountCents int64  `json:"amountCents"`
}

// Spending is per-cycle personal spending money.
type Spending struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	AmountCents int64  `json:"amountCents"`
}

// Settings is the aggregate the UI edits wholesale. The core reads the
// obligation lists and writes back balance reductions.
type Settings struct {
	Schedule           schedule.Config  `json:"schedule"`
	PayCents           int64            `json:"payCents"`
	Cards              []Card           `json:"cards"`
	MonthlyExpenses    []MonthlyExpense `json:"monthlyExpenses"`
	Allocations        []Allocation     `json:"allocations"`
	Spending           []Spending       `json:"spending"`
	DebtRemainingCents int64            `json:"debtRemainingCents"`
}

// Item is one checklist entry. IDs are derived from the source obligation so
// checked state keyed by item id survives rebuilding the same cycle.
type Item struct {
	ID          string
	Label       string
	AmountCents int64
	Category    Category
	Kind        Kind
	SourceID    string
	Notes       string
}

// BuildChecklist derives the ordered checklist for one cycle. Order is fixed:
// card minimums, monthly expenses, allocations, spending, then exactly one
// trailing remainder item. The remainder is pay minus everything planned and
// both side-ledger totals, floored at zero: overspending is policy, not an
// error.
func BuildChecklist(s Settings, c schedule.Cycle, unexpectedCents, paymentsCents int64) []Item {
	items := make([]Item, 0, len(s.Cards)+len(s.MonthlyExpenses)+len(s.Allocations)+len(s.Spending)+1)

	for _, card := range s.Cards {
		if card.BalanceCents <= 0 || !schedule.DueDayInCycle(c, card.DueDay) {
			continue
		}
		amount := card.MinDueCents
		if card.BalanceCents < amount {
			amount = card.BalanceCents
		}
		if amount <= 0 {
			continue
		}
		items = append(items, Item{
			ID:          "card:" + card.ID + ":min",
			Label:       card.Name + " minimum",
			AmountCents: amount,
			Category:    CategoryCard,
			Kind:        KindCardMinimum,
			SourceID:    card.ID,
		})
	}

	for _, exp := range s.MonthlyExpenses {
		if exp.AmountCents <= 0 || !schedule.DueDayInCycle(c, exp.DueDay) {
			continue
		}
		items = append(items, Item{
			ID:          "expense:" + exp.ID,
			Label:       exp.Label,
			AmountCents: exp.AmountCents,
			Category:    CategoryExpense,
			Kind:        KindFixed,
			SourceID:    exp.ID,
		})
	}

	for _, alloc := range s.Allocations {
		if alloc.AmountCents <= 0 {
			continue
		}
		items = append(items, Item{
			ID:          "alloc:" + alloc.ID,
			Label:       alloc.Label,
			AmountCents: alloc.AmountCents,
			Category:    CategoryAllocation,
			Kind:        KindFixed,
			SourceID:    alloc.ID,
		})
	}

	for _, sp := range s.Spending {
		if sp.AmountCents <= 0 {
			continue
		}
		items = append(items, Item{
			ID:          "spend:" + sp.ID,
			Label:       sp.Label,
			AmountCents: sp.AmountCents,
			Category:    CategorySpending,
			Kind:        KindFixed,
			SourceID:    sp.ID,
		})
	}

	planned := int64(0)
	for _, it := range items {
		planned += it.AmountCents
	}
	remainder := s.PayCents - planned - unexpectedCents - paymentsCents
	if remainder < 0 {
		remainder = 0
	}
	items = append(items, Item{
		ID:          "remainder",
		Label:       "Debt paydown",
		AmountCents: remainder,
		Category:    CategoryDebt,
		Kind:        KindRemainder,
	})
	return items
}

// CardByID returns the card with the given id, if present.
func (s Settings) CardByID(id string) (Card, bool) {
	for _, card := range s.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return Card{}, false
}
