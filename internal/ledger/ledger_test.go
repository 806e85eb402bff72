package ledger

import (
	"context"
	"errors"

	"ledger/internal/core"
	"ledger/internal/store"
	"ledger/internal/store/memstore"
)

func ptr(s string) *string { return &s }

// seededStore returns a memstore with a fixed set of categories, methods
// and March/April 2026 transactions that the tests below assert against.
func seededStore() *memstore.Store {
	st := memstore.New()
	st.Seed(map[store.Table][]store.CategoryRow{
		store.ExpenseCategories: {
			{ID: 1, Name: "Food"},
			{ID: 2, Name: "Rent"},
			{ID: 3, Name: "Gift"},
		},
		store.IncomeCategories: {
			{ID: 1, Name: "Salary"},
			{ID: 2, Name: "Gift"},
		},
		store.PaymentMethods: {
			{ID: 1, Name: "Cash"},
			{ID: 2, Name: "Credit Card"},
		},
	}, map[store.Table][]store.TransactionRow{
		store.Expenses: {
			{ID: 1, Amount: "60", Date: "2026-03-05", CategoryID: 1, MethodID: 1, Comment: ptr("weekly shop")},
			{ID: 2, Amount: "840", Date: "2026-03-01", CategoryID: 2, MethodID: 2},
			{ID: 3, Amount: "25.50", Date: "2026-03-20", CategoryID: 1, MethodID: 1},
			{ID: 4, Amount: "12", Date: "2026-04-02", CategoryID: 1, MethodID: 1},
		},
		store.Incomes: {
			{ID: 1, Amount: "2100", Date: "2026-03-27", CategoryID: 1, MethodID: 2},
			{ID: 2, Amount: "50", Date: "2026-03-15", CategoryID: 2, MethodID: 1},
		},
	})
	return st
}

func seededLedger() *Ledger {
	return New(seededStore())
}

// flakyStore wraps a memstore and fails on demand, to exercise the write
// policy and the lazy load path.
type flakyStore struct {
	*memstore.Store
	failWrites bool
	failLoads  bool
	loads      int
}

var errDiskFull = errors.New("disk full")

var _ store.Store = (*flakyStore)(nil)

func (f *flakyStore) LoadCategories(ctx context.Context, table store.Table) ([]store.CategoryRow, error) {
	f.loads++
	if f.failLoads {
		return nil, errDiskFull
	}
	return f.Store.LoadCategories(ctx, table)
}

func (f *flakyStore) LoadTransactions(ctx context.Context, table store.Table) ([]store.TransactionRow, error) {
	f.loads++
	if f.failLoads {
		return nil, errDiskFull
	}
	return f.Store.LoadTransactions(ctx, table)
}

func (f *flakyStore) InsertCategory(ctx context.Context, table store.Table, row store.CategoryRow) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Store.InsertCategory(ctx, table, row)
}

func (f *flakyStore) UpdateCategory(ctx context.Context, table store.Table, row store.CategoryRow) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Store.UpdateCategory(ctx, table, row)
}

func (f *flakyStore) InsertTransaction(ctx context.Context, table store.Table, row store.TransactionRow) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Store.InsertTransaction(ctx, table, row)
}

func (f *flakyStore) UpdateTransaction(ctx context.Context, table store.Table, row store.TransactionRow) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Store.UpdateTransaction(ctx, table, row)
}

func (f *flakyStore) DeleteTransaction(ctx context.Context, table store.Table, id int64) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Store.DeleteTransaction(ctx, table, id)
}

func mustMoney(s string) core.Money {
	m, err := core.ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}
