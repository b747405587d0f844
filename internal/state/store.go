// Package state owns the application's in-memory state and its mutation
// operations. The store is the source of truth for a session; persistence is
// a fire-and-forget collaborator behind the Persister interface.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lachiem1/paydown/internal/plan"
	"github.com/lachiem1/paydown/internal/schedule"
)

// stateKey is the single key the whole blob lives under.
const stateKey = "app_state"

var (
	timeNow    = time.Now
	newEntryID = uuid.NewString
)

// Persister is the external key-value storage collaborator.
type Persister interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// CheckedEntry records one item's checked flag and when it was checked.
type CheckedEntry struct {
	Checked bool   `json:"checked"`
	At      string `json:"at,omitempty"`
}

// UnexpectedExpense is a per-cycle expense outside the plan. It only inflates
// the subtracted total in the remainder formula; no balance is touched.
type UnexpectedExpense struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	AmountCents int64  `json:"amountCents"`
	At          string `json:"at"`
}

// ManualPayment is a user-recorded extra payment against a card's balance.
type ManualPayment struct {
	ID          string `json:"id"`
	TargetID    string `json:"targetId"`
	AmountCents int64  `json:"amountCents"`
	At          string `json:"at"`
}

// AppState is the persisted aggregate. AppliedReductions is keyed by
// "cycleID:itemID" and guards every balance reduction to at most once.
type AppState struct {
	HasCompletedSetup bool                               `json:"hasCompletedSetup"`
	Settings          plan.Settings                      `json:"settings"`
	CheckedByCycle    map[string]map[string]CheckedEntry `json:"checkedByCycle"`
	AppliedReductions map[string]bool                    `json:"appliedReductions"`
	UnexpectedByCycle map[string][]UnexpectedExpense     `json:"unexpectedByCycle"`
	PaymentsByCycle   map[string][]ManualPayment         `json:"paymentsByCycle"`
}

// Totals summarizes one cycle's checklist for the UI.
type Totals struct {
	PlannedCents    int64
	CompletedCents  int64
	PercentComplete float64
}

// Store holds the state and exposes every mutation operation. It is built
// once by the composition root and passed by reference; it is not safe for
// concurrent use and does not need to be, the UI loop is single-threaded.
type Store struct {
	persist Persister
	loaded  bool
	state   AppState
}

func New(p Persister) *Store {
	return &Store{persist: p, state: defaultAppState()}
}

// Load reads and decodes the persisted blob. Malformed data is coerced to
// defaults field by field and is never fatal; only persister I/O errors are
// reported. The store counts as loaded either way.
func (s *Store) Load(ctx context.Context) error {
	raw, found, err := s.persist.Get(ctx, stateKey)
	s.loaded = true
	if err != nil {
		return fmt.Errorf("load app state: %w", err)
	}
	if !found {
		s.state = defaultAppState()
		return nil
	}
	s.state = decodeAppState([]byte(raw))
	return nil
}

// Save serializes the current state. Callers treat it as fire-and-forget: a
// failed save leaves in-memory state authoritative and the next save
// reconciles.
func (s *Store) Save(ctx context.Context) error {
	raw, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode app state: %w", err)
	}
	if err := s.persist.Set(ctx, stateKey, string(raw)); err != nil {
		return fmt.Errorf("save app state: %w", err)
	}
	return nil
}

func (s *Store) Loaded() bool            { return s.loaded }
func (s *Store) HasCompletedSetup() bool { return s.state.HasCompletedSetup }
func (s *Store) Settings() plan.Settings { return s.state.Settings }

// SetSettings replaces the settings wholesale, re-normalizing the schedule
// and clamping due days the same way the load-time decoder does.
func (s *Store) SetSettings(settings plan.Settings) {
	s.state.Settings = coerceSettings(settings)
}

// CompleteSetup stores the initial settings and marks setup done.
func (s *Store) CompleteSetup(settings plan.Settings) {
	s.SetSettings(settings)
	s.state.HasCompletedSetup = true
}

// ToggleItem flips an item's checked flag for one cycle. It never mutates
// balances; ApplyPendingReductions does that under the guard.
func (s *Store) ToggleItem(cycleID, itemID string) {
	byItem := s.state.CheckedByCycle[cycleID]
	if byItem == nil {
		byItem = make(map[string]CheckedEntry)
		s.state.CheckedByCycle[cycleID] = byItem
	}
	entry := byItem[itemID]
	entry.Checked = !entry.Checked
	if entry.Checked {
		entry.At = timeNow().UTC().Format(time.RFC3339Nano)
	} else {
		entry.At = ""
	}
	byItem[itemID] = entry
}

func (s *Store) IsChecked(cycleID, itemID string) bool {
	return s.state.CheckedByCycle[cycleID][itemID].Checked
}

// ApplyPendingReductions applies the balance mutation for every checked
// balance-reducing item whose (cycle, item) guard is unset, then sets the
// guard. Safe to call on every render; each pair applies at most once for
// the lifetime of stored data, even across check/uncheck/check flips.
func (s *Store) ApplyPendingReductions(c schedule.Cycle, items []plan.Item) {
	for _, it := range items {
		if it.Kind != plan.KindCardMinimum && it.Kind != plan.KindRemainder {
			continue
		}
		if !s.IsChecked(c.ID, it.ID) {
			continue
		}
		key := guardKey(c.ID, it.ID)
		if s.state.AppliedReductions[key] {
			continue
		}
		switch it.Kind {
		case plan.KindCardMinimum:
			s.reduceCardBalance(it.SourceID, it.AmountCents)
		case plan.KindRemainder:
			s.state.Settings.DebtRemainingCents = flooredSub(s.state.Settings.DebtRemainingCents, it.AmountCents)
		}
		s.state.AppliedReductions[key] = true
	}
}

// AddManualPayment records an extra payment against a card under the viewed
// cycle. The amount actually applied is truncated to the outstanding balance
// and that truncated amount is what the ledger records. Returns false, with
// no mutation, for a non-positive amount, an unknown card, or a card that is
// already paid off.
func (s *Store) AddManualPayment(cycleID, targetID string, amountCents int64) bool {
	if amountCents <= 0 {
		return false
	}
	idx := s.cardIndex(targetID)
	if idx < 0 || s.state.Settings.Cards[idx].BalanceCents <= 0 {
		return false
	}
	actual := amountCents
	if balance := s.state.Settings.Cards[idx].BalanceCents; actual > balance {
		actual = balance
	}
	s.state.Settings.Cards[idx].BalanceCents -= actual
	entry := ManualPayment{
		ID:          newEntryID(),
		TargetID:    targetID,
		AmountCents: actual,
		At:          timeNow().UTC().Format(time.RFC3339Nano),
	}
	s.state.PaymentsByCycle[cycleID] = append([]ManualPayment{entry}, s.state.PaymentsByCycle[cycleID]...)
	return true
}

// RemoveManualPayment is the exact inverse of AddManualPayment: the recorded
// amount goes back onto the target card's balance and the entry is removed.
func (s *Store) RemoveManualPayment(cycleID, paymentID string) {
	entries := s.state.PaymentsByCycle[cycleID]
	for i, entry := range entries {
		if entry.ID != paymentID {
			continue
		}
		if idx := s.cardIndex(entry.TargetID); idx >= 0 {
			s.state.Settings.Cards[idx].BalanceCents += entry.AmountCents
		}
		s.state.PaymentsByCycle[cycleID] = append(entries[:i:i], entries[i+1:]...)
		return
	}
}

// AddUnexpectedExpense records a side-ledger expense, most recent first.
// Returns false for a non-positive amount.
func (s *Store) AddUnexpectedExpense(cycleID, label string, amountCents int64) bool {
	if amountCents <= 0 {
		return false
	}
	entry := UnexpectedExpense{
		ID:          newEntryID(),
		Label:       label,
		AmountCents: amountCents,
		At:          timeNow().UTC().Format(time.RFC3339Nano),
	}
	s.state.UnexpectedByCycle[cycleID] = append([]UnexpectedExpense{entry}, s.state.UnexpectedByCycle[cycleID]...)
	return true
}

func (s *Store) RemoveUnexpectedExpense(cycleID, expenseID string) {
	entries := s.state.UnexpectedByCycle[cycleID]
	for i, entry := range entries {
		if entry.ID == expenseID {
			s.state.UnexpectedByCycle[cycleID] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

func (s *Store) UnexpectedFor(cycleID string) []UnexpectedExpense {
	return s.state.UnexpectedByCycle[cycleID]
}

func (s *Store) PaymentsFor(cycleID string) []ManualPayment {
	return s.state.PaymentsByCycle[cycleID]
}

func (s *Store) UnexpectedTotal(cycleID string) int64 {
	var total int64
	for _, entry := range s.state.UnexpectedByCycle[cycleID] {
		total += entry.AmountCents
	}
	return total
}

func (s *Store) PaymentsTotal(cycleID string) int64 {
	var total int64
	for _, entry := range s.state.PaymentsByCycle[cycleID] {
		total += entry.AmountCents
	}
	return total
}

// Checklist builds the checklist for c using the current settings and the
// cycle's side-ledger totals.
func (s *Store) Checklist(c schedule.Cycle) []plan.Item {
	return plan.BuildChecklist(s.state.Settings, c, s.UnexpectedTotal(c.ID), s.PaymentsTotal(c.ID))
}

// Totals sums planned and completed amounts for the given items in c.
func (s *Store) Totals(c schedule.Cycle, items []plan.Item) Totals {
	var t Totals
	for _, it := range items {
		t.PlannedCents += it.AmountCents
		if s.IsChecked(c.ID, it.ID) {
			t.CompletedCents += it.AmountCents
		}
	}
	if t.PlannedCents > 0 {
		t.PercentComplete = float64(t.CompletedCents) / float64(t.PlannedCents) * 100
	}
	return t
}

// ResetEverything clears settings, ledgers, checked state, and guards, and
// removes the persisted blob. There is no partial reset.
func (s *Store) ResetEverything(ctx context.Context) error {
	s.state = defaultAppState()
	if err := s.persist.Remove(ctx, stateKey); err != nil {
		return fmt.Errorf("remove app state: %w", err)
	}
	return nil
}

func (s *Store) cardIndex(id string) int {
	for i, card := range s.state.Settings.Cards {
		if card.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) reduceCardBalance(id string, amountCents int64) {
	if idx := s.cardIndex(id); idx >= 0 {
		s.state.Settings.Cards[idx].BalanceCents = flooredSub(s.state.Settings.Cards[idx].BalanceCents, amountCents)
	}
}

func guardKey(cycleID, itemID string) string {
	return cycleID + ":" + itemID
}

func flooredSub(balance, amount int64) int64 {
	if amount >= balance {
		return 0
	}
	return balance - amount
}
