package state

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lachiem1/paydown/internal/plan"
	"github.com/lachiem1/paydown/internal/schedule"
)

type fakePersister struct {
	values  map[string]string
	getErr  error
	setErr  error
	sets    int
	removes int
}

func newFakePersister() *fakePersister {
	return &fakePersister{values: make(map[string]string)}
}

func (p *fakePersister) Get(ctx context.Context, key string) (string, bool, error) {
	if p.getErr != nil {
		return "", false, p.getErr
	}
	value, ok := p.values[key]
	return value, ok, nil
}

func (p *fakePersister) Set(ctx context.Context, key, value string) error {
	if p.setErr != nil {
		return p.setErr
	}
	p.sets++
	p.values[key] = value
	return nil
}

func (p *fakePersister) Remove(ctx context.Context, key string) error {
	p.removes++
	delete(p.values, key)
	return nil
}

func sequentialIDs(t *testing.T) {
	t.Helper()
	orig := newEntryID
	n := 0
	newEntryID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newEntryID = orig })
}

func testCycle(t *testing.T) schedule.Cycle {
	t.Helper()
	cfg := schedule.Config{Frequency: schedule.FrequencyFortnightly, Anchor: "2026-01-09"}
	return schedule.CurrentCycle(cfg, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.Local))
}

func testSettings() plan.Settings {
	return plan.Settings{
		Schedule: schedule.Config{Frequency: schedule.FrequencyFortnightly, Anchor: "2026-01-09"},
		PayCents: 100000,
		Cards: []plan.Card{
			{ID: "c1", Name: "Visa", MinDueCents: 5000, DueDay: 15, BalanceCents: 40000},
		},
		DebtRemainingCents: 500000,
	}
}

func TestToggleItemFlipsAndStamps(t *testing.T) {
	s := New(newFakePersister())
	s.ToggleItem("fn_2026-01-09", "remainder")
	if !s.IsChecked("fn_2026-01-09", "remainder") {
		t.Fatal("IsChecked = false after toggle on")
	}
	s.ToggleItem("fn_2026-01-09", "remainder")
	if s.IsChecked("fn_2026-01-09", "remainder") {
		t.Fatal("IsChecked = true after toggle off")
	}
}

func TestApplyPendingReductionsIsIdempotent(t *testing.T) {
	s := New(newFakePersister())
	s.CompleteSetup(testSettings())
	c := testCycle(t)
	items := s.Checklist(c)

	// remainder = 100000 - 5000 card minimum.
	s.ToggleItem(c.ID, "remainder")
	s.ApplyPendingReductions(c, items)
	s.ApplyPendingReductions(c, items)

	if got, want := s.Settings().DebtRemainingCents, int64(500000-95000); got != want {
		t.Fatalf("DebtRemainingCents = %d, want %d", got, want)
	}
}

func TestReductionSurvivesToggleFlips(t *testing.T) {
	s := New(newFakePersister())
	s.CompleteSetup(testSettings())
	c := testCycle(t)
	items := s.Checklist(c)

	s.ToggleItem(c.ID, "remainder")
	s.ApplyPendingReductions(c, items)
	after := s.Settings().DebtRemainingCents

	// Uncheck and re-check: the guard stays set, no second application.
	s.ToggleItem(c.ID, "remainder")
	s.ApplyPendingReductions(c, items)
	s.ToggleItem(c.ID, "remainder")
	s.ApplyPendingReductions(c, items)

	if got := s.Settings().DebtRemainingCents; got != after {
		t.Fatalf("DebtRemainingCents = %d, want %d applied exactly once", got, after)
	}
}

func TestCardMinimumReductionFloorsAtZero(t *testing.T) {
	s := New(newFakePersister())
	settings := testSettings()
	settings.Cards[0].BalanceCents = 5000
	settings.Cards[0].MinDueCents = 5000
	s.CompleteSetup(settings)
	c := testCycle(t)
	items := s.Checklist(c)

	s.ToggleItem(c.ID, "card:c1:min")
	s.ApplyPendingReductions(c, items)

	card, _ := s.Settings().CardByID("c1")
	if card.BalanceCents != 0 {
		t.Fatalf("card balance = %d, want 0", card.BalanceCents)
	}
	// Paid-off cards drop out of the next checklist build.
	rebuilt := s.Checklist(c)
	for _, it := range rebuilt {
		if it.ID == "card:c1:min" {
			t.Fatal("paid-off card still on checklist")
		}
	}
}

func TestUncheckedItemsAreNotApplied(t *testing.T) {
	s := New(newFakePersister())
	s.CompleteSetup(testSettings())
	c := testCycle(t)

	s.ApplyPendingReductions(c, s.Checklist(c))
	if got, want := s.Settings().DebtRemainingCents, int64(500000); got != want {
		t.Fatalf("DebtRemainingCents = %d, want untouched %d", got, want)
	}
}

func TestSameItemFreshInDifferentCycle(t *testing.T) {
	s := New(newFakePersister())
	s.CompleteSetup(testSettings())
	c := testCycle(t)
	s.ToggleItem(c.ID, "remainder")

	next := schedule.CycleWithOffset(s.Settings().Schedule, c.Start, 1)
	if s.IsChecked(next.ID, "remainder") {
		t.Fatal("item checked in a cycle it was never toggled in")
	}
}

func TestAddManualPaymentTruncatesToBalance(t *testing.T) {
	sequentialIDs(t)
	s := New(newFakePersister())
	s.CompleteSetup(testSettings())

	if !s.AddManualPayment("fn_2026-01-09", "c1", 90000) {
		t.Fatal("AddManualPayment returned false for valid overpayment")
	}
	card, _ := s.Settings().CardByID("c1")
	if card.BalanceCents != 0 {
		t.Fatalf("card balance = %d, want 0 after overpayment", card.BalanceCents)
	}
	payments := s.PaymentsFor("fn_2026-01-09")
	if len(payments) != 1 || payments[0].AmountCents != 40000 {
		t.Fatalf("payments = %+v, want one entry recording the truncated 40000", payments)
	}
}

func TestAddManualPaymentRejectsInvalid(t *testing.T) {
	s := New(newFakePersister())
	s.CompleteSetup(testSettings())

	if s.AddManualPayment("fn_2026-01-09", "c1", 0) {
		t.Fatal("accepted non-positive amount")
	}
	if s.AddManualPayment("fn_2026-01-09", "missing", 1000) {
		t.Fatal("accepted unknown card")
	}
	settings := s.Settings()
	settings.Cards[0].BalanceCents = 0
	s.SetSettings(settings)
	if s.AddManualPayment("fn_2026-01-09", "c1", 1000) {
		t.Fatal("accepted payment against zero balance")
	}
	if len(s.PaymentsFor("fn_2026-01-09")) != 0 {
		t.Fatal("rejected payments still recorded a ledger entry")
	}
}

func TestRemoveManualPaymentIsExactInverse(t *testing.T) {
	sequentialIDs(t)
	s := New(newFakePersister())
	s.CompleteSetup(testSettings())
	before, _ := s.Settings().CardByID("c1")

	s.AddManualPayment("fn_2026-01-09", "c1", 12500)
	s.RemoveManualPayment("fn_2026-01-09", "id-1")

	after, _ := s.Settings().CardByID("c1")
	if after.BalanceCents != before.BalanceCents {
		t.Fatalf("balance = %d after add+remove, want %d", after.BalanceCents, before.BalanceCents)
	}
	if len(s.PaymentsFor("fn_2026-01-09")) != 0 {
		t.Fatal("ledger entry not removed")
	}
}

func TestAddUnexpectedExpenseMostRecentFirst(t *testing.T) {
	sequentialIDs(t)
	s := New(newFakePersister())

	if !s.AddUnexpectedExpense("fn_2026-01-09", "Car repair", 12000) {
		t.Fatal("AddUnexpectedExpense returned false")
	}
	s.AddUnexpectedExpense("fn_2026-01-09", "Vet", 8000)

	entries := s.UnexpectedFor("fn_2026-01-09")
	if len(entries) != 2 || entries[0].Label != "Vet" {
		t.Fatalf("entries = %+v, want most recent first", entries)
	}
	if got := s.UnexpectedTotal("fn_2026-01-09"); got != 20000 {
		t.Fatalf("UnexpectedTotal = %d, want 20000", got)
	}
}

func TestAddUnexpectedExpenseRejectsNonPositive(t *testing.T) {
	s := New(newFakePersister())
	if s.AddUnexpectedExpense("fn_2026-01-09", "bad", 0) {
		t.Fatal("accepted zero amount")
	}
	if s.AddUnexpectedExpense("fn_2026-01-09", "bad", -5) {
		t.Fatal("accepted negative amount")
	}
}

func TestUnexpectedExpenseShrinksRemainder(t *testing.T) {
	s := New(newFakePersister())
	s.CompleteSetup(testSettings())
	c := testCycle(t)

	before := s.Checklist(c)
	s.AddUnexpectedExpense(c.ID, "Car repair", 12000)
	after := s.Checklist(c)

	diff := before[len(before)-1].AmountCents - after[len(after)-1].AmountCents
	if diff != 12000 {
		t.Fatalf("remainder shrank by %d, want 12000", diff)
	}
}

func TestTotals(t *testing.T) {
	s := New(newFakePersister())
	s.CompleteSetup(testSettings())
	c := testCycle(t)
	items := s.Checklist(c)

	s.ToggleItem(c.ID, "card:c1:min")
	totals := s.Totals(c, items)

	if totals.PlannedCents != 100000 {
		t.Fatalf("PlannedCents = %d, want 100000", totals.PlannedCents)
	}
	if totals.CompletedCents != 5000 {
		t.Fatalf("CompletedCents = %d, want 5000", totals.CompletedCents)
	}
	if totals.PercentComplete != 5.0 {
		t.Fatalf("PercentComplete = %v, want 5.0", totals.PercentComplete)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	p := newFakePersister()
	ctx := context.Background()

	s := New(p)
	s.CompleteSetup(testSettings())
	c := testCycle(t)
	s.ToggleItem(c.ID, "remainder")
	s.ApplyPendingReductions(c, s.Checklist(c))
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	reloaded := New(p)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !reloaded.Loaded() || !reloaded.HasCompletedSetup() {
		t.Fatal("reloaded store not marked loaded/setup-complete")
	}
	if got, want := reloaded.Settings().DebtRemainingCents, s.Settings().DebtRemainingCents; got != want {
		t.Fatalf("DebtRemainingCents = %d, want %d", got, want)
	}

	// The guard survives reload: re-applying must not double-reduce.
	reloaded.ApplyPendingReductions(c, reloaded.Checklist(c))
	if got, want := reloaded.Settings().DebtRemainingCents, s.Settings().DebtRemainingCents; got != want {
		t.Fatalf("DebtRemainingCents = %d after reload+reapply, want %d", got, want)
	}
}

func TestLoadMissingBlobYieldsDefaults(t *testing.T) {
	s := New(newFakePersister())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !s.Loaded() {
		t.Fatal("Loaded() = false after load")
	}
	if s.HasCompletedSetup() {
		t.Fatal("HasCompletedSetup() = true for fresh state")
	}
}

func TestLoadSurfacesPersisterError(t *testing.T) {
	p := newFakePersister()
	p.getErr = errors.New("disk gone")
	s := New(p)

	if err := s.Load(context.Background()); err == nil {
		t.Fatal("Load() error = nil, want non-nil")
	}
	// Still usable with defaults.
	if !s.Loaded() {
		t.Fatal("Loaded() = false after failed load")
	}
}

func TestResetEverything(t *testing.T) {
	p := newFakePersister()
	ctx := context.Background()
	s := New(p)
	s.CompleteSetup(testSettings())
	s.AddUnexpectedExpense("fn_2026-01-09", "Car repair", 12000)
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	if err := s.ResetEverything(ctx); err != nil {
		t.Fatalf("ResetEverything() unexpected error: %v", err)
	}
	if s.HasCompletedSetup() {
		t.Fatal("setup flag survived reset")
	}
	if len(s.UnexpectedFor("fn_2026-01-09")) != 0 {
		t.Fatal("ledger survived reset")
	}
	if p.removes != 1 {
		t.Fatalf("persister removes = %d, want 1", p.removes)
	}
	if _, found, _ := p.Get(ctx, "app_state"); found {
		t.Fatal("persisted blob survived reset")
	}
}
