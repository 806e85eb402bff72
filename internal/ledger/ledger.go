package ledger

import (
	"ledger/internal/core"
	"ledger/internal/store"
)

// Ledger wires one mirror, the three category registries and the two
// transaction access layers over a single persisted store.
type Ledger struct {
	ExpenseCategories *CategoryBook
	IncomeCategories  *CategoryBook
	PaymentMethods    *CategoryBook
	Expenses          *Transactions
	Incomes           *Transactions
}

func New(st store.Store) *Ledger {
	mirror := NewMirror(st)
	expCats := NewCategoryBook(mirror, core.ExpenseCategories)
	incCats := NewCategoryBook(mirror, core.IncomeCategories)
	methods := NewCategoryBook(mirror, core.PaymentMethods)
	return &Ledger{
		ExpenseCategories: expCats,
		IncomeCategories:  incCats,
		PaymentMethods:    methods,
		Expenses:          NewTransactions(mirror, core.Expense, expCats, methods),
		Incomes:           NewTransactions(mirror, core.Income, incCats, methods),
	}
}

// Book returns the registry for the given kind, or nil if the kind is
// unknown.
func (l *Ledger) Book(kind core.CategoryKind) *CategoryBook {
	switch kind {
	case core.ExpenseCategories:
		return l.ExpenseCategories
	case core.IncomeCategories:
		return l.IncomeCategories
	case core.PaymentMethods:
		return l.PaymentMethods
	default:
		return nil
	}
}
