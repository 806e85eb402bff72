// Package store defines the contract the ledger core requires from its
// persisted store: per-table load-all, find, insert, update and delete over
// raw rows. The store behind it can be anything tabular and transactional;
// the core never sees more than this interface.
package store

import "context"

type Table string

const (
	Expenses          Table = "expenses"
	Incomes           Table = "incomes"
	ExpenseCategories Table = "expense_categories"
	IncomeCategories  Table = "income_categories"
	PaymentMethods    Table = "payment_methods"
)

// CategoryTables lists the tables holding CategoryRow records.
var CategoryTables = []Table{ExpenseCategories, IncomeCategories, PaymentMethods}

// TransactionTables lists the tables holding TransactionRow records.
var TransactionTables = []Table{Expenses, Incomes}

// Transactional reports whether the table holds transaction rows.
func (t Table) Transactional() bool {
	return t == Expenses || t == Incomes
}

// CategoryRow is the raw persisted shape of a category of any kind.
type CategoryRow struct {
	ID   int64
	Name string
}

// TransactionRow is the raw persisted shape of an expense or income.
// Amount is a decimal string, Date is YYYY-MM-DD, Comment is nullable.
type TransactionRow struct {
	ID         int64
	Amount     string
	Date       string
	CategoryID int64
	MethodID   int64
	Comment    *string
}

// CategoryStore is the row contract for the three category tables.
type CategoryStore interface {
	LoadCategories(ctx context.Context, table Table) ([]CategoryRow, error)
	FindCategory(ctx context.Context, table Table, id int64) (CategoryRow, error)
	InsertCategory(ctx context.Context, table Table, row CategoryRow) error
	UpdateCategory(ctx context.Context, table Table, row CategoryRow) error
}

// TransactionStore is the row contract for the two transaction tables.
type TransactionStore interface {
	LoadTransactions(ctx context.Context, table Table) ([]TransactionRow, error)
	FindTransaction(ctx context.Context, table Table, id int64) (TransactionRow, error)
	InsertTransaction(ctx context.Context, table Table, row TransactionRow) error
	UpdateTransaction(ctx context.Context, table Table, row TransactionRow) error
	DeleteTransaction(ctx context.Context, table Table, id int64) error
}

// Store is the full persisted-store contract. Implementations return
// core.ErrNotFound (wrapped) when a find/update/delete misses; any other
// error is treated as a persistence failure by the caller.
type Store interface {
	CategoryStore
	TransactionStore
}
