// Package report scopes the ledger to a single calendar month and merges
// expense and income category totals into one labeled report.
package report

import (
	"context"
	"strings"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// Synthetic grand-total labels, always present in the merged report.
const (
	TotalExpensesLabel = "Total Expenses"
	TotalIncomeLabel   = "Total Income"
)

// Month wraps one calendar month of the ledger. The day component of dates
// plays no role here.
type Month struct {
	Year  int
	Month int

	ledger *ledger.Ledger
}

func NewMonth(l *ledger.Ledger, year, month int) *Month {
	return &Month{Year: year, Month: month, ledger: l}
}

func (m *Month) Expenses(ctx context.Context) ([]core.Transaction, error) {
	return m.ledger.Expenses.LoadOfMonth(ctx, m.Year, m.Month)
}

func (m *Month) Incomes(ctx context.Context) ([]core.Transaction, error) {
	return m.ledger.Incomes.LoadOfMonth(ctx, m.Year, m.Month)
}

func (m *Month) ExpenseTotal(ctx context.Context) (core.Money, error) {
	return m.ledger.Expenses.MonthTotal(ctx, m.Year, m.Month)
}

func (m *Month) IncomeTotal(ctx context.Context) (core.Money, error) {
	return m.ledger.Incomes.MonthTotal(ctx, m.Year, m.Month)
}

// CategoryTotal dispatches on kind ("expense" or "income", any case) and
// sums the named category for the month. An unknown kind is not an error;
// it yields zero, and callers lean on that.
func (m *Month) CategoryTotal(ctx context.Context, kind, categoryName string) (core.Money, error) {
	switch strings.ToLower(kind) {
	case "expense":
		return m.ledger.Expenses.CategoryTotalForMonth(ctx, m.Year, m.Month, categoryName)
	case "income":
		return m.ledger.Incomes.CategoryTotalForMonth(ctx, m.Year, m.Month, categoryName)
	default:
		return core.MoneyZero(), nil
	}
}

// TotalsByCategory merges both sides' category totals into one report:
// expense categories plus "Total Expenses", then "Total Income", then income
// categories. A name present on both sides is split into "<name> - Expense"
// and "<name> - Income" so neither value is overwritten.
func (m *Month) TotalsByCategory(ctx context.Context) (map[string]core.Money, error) {
	expenseTotal, err := m.ExpenseTotal(ctx)
	if err != nil {
		return nil, err
	}
	expenseCats, err := m.ledger.Expenses.CategoryTotals(ctx, m.Year, m.Month)
	if err != nil {
		return nil, err
	}
	incomeTotal, err := m.IncomeTotal(ctx)
	if err != nil {
		return nil, err
	}
	incomeCats, err := m.ledger.Incomes.CategoryTotals(ctx, m.Year, m.Month)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]core.Money, len(expenseCats)+len(incomeCats)+2)
	totals[TotalExpensesLabel] = expenseTotal
	for name, amount := range expenseCats {
		totals[name] = amount
	}

	totals[TotalIncomeLabel] = incomeTotal
	for name, amount := range incomeCats {
		if existing, ok := totals[name]; ok {
			delete(totals, name)
			totals[name+" - Expense"] = existing
			totals[name+" - Income"] = amount
		} else {
			totals[name] = amount
		}
	}

	return totals, nil
}
