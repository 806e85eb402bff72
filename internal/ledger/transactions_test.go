package ledger

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/core"
	"ledger/internal/store"
	"ledger/internal/store/memstore"
)

func TestTransactionsLoadByID(t *testing.T) {
	ctx := context.Background()
	l := seededLedger()

	entity, err := l.Expenses.LoadByID(ctx, 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !entity.Amount.Equal(mustMoney("60")) {
		t.Fatalf("amount = %s, want 60", entity.Amount)
	}
	if entity.Date.String() != "2026-03-05" {
		t.Fatalf("date = %s", entity.Date)
	}
	if entity.Category.Name != "Food" || entity.Method.Name != "Cash" {
		t.Fatalf("references not resolved: %+v", entity)
	}
	if entity.Comment != "weekly shop" {
		t.Fatalf("comment = %q", entity.Comment)
	}

	if _, err := l.Expenses.LoadByID(ctx, 99); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionsNullCommentBecomesEmpty(t *testing.T) {
	ctx := context.Background()
	l := seededLedger()

	entity, err := l.Expenses.LoadByID(ctx, 2)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if entity.Comment != "" {
		t.Fatalf("comment = %q, want empty for a NULL column", entity.Comment)
	}
}

func TestTransactionsLoadOfMonth(t *testing.T) {
	ctx := context.Background()
	l := seededLedger()

	march, err := l.Expenses.LoadOfMonth(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(march) != 3 {
		t.Fatalf("got %d expenses for 2026-03, want 3", len(march))
	}
	for _, e := range march {
		if !e.Date.InMonth(2026, 3) {
			t.Fatalf("transaction %d dated %s leaked into the month", e.ID, e.Date)
		}
	}

	empty, err := l.Expenses.LoadOfMonth(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("same month of another year matched %d rows", len(empty))
	}
}

func TestTransactionsAddNewRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := seededLedger()

	category, _ := l.IncomeCategories.LoadByID(ctx, 2)
	method, _ := l.PaymentMethods.LoadByID(ctx, 1)
	entity := core.Transaction{
		Amount:   mustMoney("75.25"),
		Date:     core.NewDate(2026, 3, 30),
		Category: category,
		Method:   method,
		Comment:  "birthday",
	}

	id, err := l.Incomes.AddNew(ctx, entity)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id != 3 {
		t.Fatalf("assigned id = %d, want 3", id)
	}

	got, err := l.Incomes.LoadByID(ctx, id)
	if err != nil {
		t.Fatalf("load back: %v", err)
	}
	if !got.Amount.Equal(entity.Amount) ||
		got.Date.String() != entity.Date.String() ||
		got.Category.ID != entity.Category.ID ||
		got.Method.ID != entity.Method.ID ||
		got.Comment != entity.Comment {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, entity)
	}
}

func TestTransactionsAddNewRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	l := seededLedger()

	_, err := l.Expenses.AddNew(ctx, core.Transaction{
		Amount:   core.MoneyZero(),
		Date:     core.NewDate(2026, 3, 5),
		Category: core.Category{ID: 1},
		Method:   core.Category{ID: 1},
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransactionsSave(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		l := seededLedger()
		entity, err := l.Expenses.LoadByID(ctx, 1)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		entity.Amount = mustMoney("61.50")
		entity.Comment = "corrected"

		ok, err := l.Expenses.Save(ctx, entity)
		if err != nil || !ok {
			t.Fatalf("Save = (%v, %v), want (true, nil)", ok, err)
		}

		got, err := l.Expenses.LoadByID(ctx, 1)
		if err != nil {
			t.Fatalf("load back: %v", err)
		}
		if !got.Amount.Equal(mustMoney("61.50")) || got.Comment != "corrected" {
			t.Fatalf("update not applied: %+v", got)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		fs := &flakyStore{Store: seededStore()}
		l := New(fs)
		entity, err := l.Expenses.LoadByID(ctx, 1)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		fs.failWrites = true
		ok, err := l.Expenses.Save(ctx, entity)
		if ok || err != nil {
			t.Fatalf("Save = (%v, %v), want (false, nil) on a store failure", ok, err)
		}
	})

	t.Run("absent id", func(t *testing.T) {
		l := seededLedger()
		entity, err := l.Expenses.LoadByID(ctx, 1)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		entity.ID = 99
		ok, err := l.Expenses.Save(ctx, entity)
		if ok {
			t.Fatal("saved a transaction that does not exist")
		}
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTransactionsDelete(t *testing.T) {
	ctx := context.Background()
	l := seededLedger()

	if err := l.Expenses.Delete(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := l.Expenses.LoadByID(ctx, 2); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := l.Expenses.Delete(ctx, 2); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a second delete, got %v", err)
	}

	// Deleting the max id frees it: max+1 now reassigns it.
	if err := l.Expenses.Delete(ctx, 4); err != nil {
		t.Fatalf("delete max: %v", err)
	}
	category, _ := l.ExpenseCategories.LoadByID(ctx, 1)
	method, _ := l.PaymentMethods.LoadByID(ctx, 1)
	id, err := l.Expenses.AddNew(ctx, core.Transaction{
		Amount:   mustMoney("5"),
		Date:     core.NewDate(2026, 4, 10),
		Category: category,
		Method:   method,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id != 4 {
		t.Fatalf("assigned id = %d, want 4 after the max row was deleted", id)
	}
}

func TestTransactionsMonthTotal(t *testing.T) {
	ctx := context.Background()
	l := seededLedger()

	total, err := l.Expenses.MonthTotal(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if !total.Equal(mustMoney("925.50")) {
		t.Fatalf("March expense total = %s, want 925.50", total)
	}

	none, err := l.Expenses.MonthTotal(ctx, 2026, 7)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if !none.IsZero() {
		t.Fatalf("empty month total = %s, want 0", none)
	}
}

func TestTransactionsCategoryTotalForMonth(t *testing.T) {
	ctx := context.Background()
	l := seededLedger()

	total, err := l.Expenses.CategoryTotalForMonth(ctx, 2026, 3, "Food")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if !total.Equal(mustMoney("85.50")) {
		t.Fatalf("Food total = %s, want 85.50", total)
	}

	// Matching is exact and case-sensitive.
	lower, err := l.Expenses.CategoryTotalForMonth(ctx, 2026, 3, "food")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if !lower.IsZero() {
		t.Fatalf("case-insensitive match leaked: %s", lower)
	}
}

func TestTransactionsCategoryTotals(t *testing.T) {
	ctx := context.Background()
	l := seededLedger()

	totals, err := l.Expenses.CategoryTotals(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d categories, want 2 (only those with transactions): %v", len(totals), totals)
	}
	if !totals["Food"].Equal(mustMoney("85.50")) {
		t.Fatalf("Food = %s, want 85.50", totals["Food"])
	}
	if !totals["Rent"].Equal(mustMoney("840")) {
		t.Fatalf("Rent = %s, want 840", totals["Rent"])
	}
	if _, ok := totals["Gift"]; ok {
		t.Fatal("category without transactions appeared in the totals")
	}
}

func TestTransactionsDanglingReferenceIsIntegrity(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	st.Seed(map[store.Table][]store.CategoryRow{
		store.ExpenseCategories: {{ID: 1, Name: "Food"}},
		store.PaymentMethods:    {{ID: 1, Name: "Cash"}},
	}, map[store.Table][]store.TransactionRow{
		store.Expenses: {
			{ID: 1, Amount: "10", Date: "2026-03-05", CategoryID: 7, MethodID: 1},
		},
	})
	l := New(st)

	if _, err := l.Expenses.LoadByID(ctx, 1); !errors.Is(err, core.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity for a dangling category, got %v", err)
	}
}

func TestTransactionsMalformedRowIsIntegrity(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	st.Seed(map[store.Table][]store.CategoryRow{
		store.ExpenseCategories: {{ID: 1, Name: "Food"}},
		store.PaymentMethods:    {{ID: 1, Name: "Cash"}},
	}, map[store.Table][]store.TransactionRow{
		store.Expenses: {
			{ID: 1, Amount: "not a number", Date: "2026-03-05", CategoryID: 1, MethodID: 1},
		},
	})
	l := New(st)

	if _, err := l.Expenses.LoadByID(ctx, 1); !errors.Is(err, core.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity for a malformed amount, got %v", err)
	}
}
