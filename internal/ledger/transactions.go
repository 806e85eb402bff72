package ledger

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/store"
)

// Transactions is the access layer for one transaction kind. Expenses and
// incomes are structurally identical, so a single type serves both,
// parameterized by table and registries.
type Transactions struct {
	kind    core.TransactionKind
	table   store.Table
	cats    *CategoryBook
	methods *CategoryBook
	mirror  *Mirror
}

func NewTransactions(m *Mirror, kind core.TransactionKind, cats, methods *CategoryBook) *Transactions {
	table := store.Expenses
	if kind == core.Income {
		table = store.Incomes
	}
	return &Transactions{kind: kind, table: table, cats: cats, methods: methods, mirror: m}
}

func (t *Transactions) Kind() core.TransactionKind {
	return t.kind
}

// Table is the persisted table backing this access layer.
func (t *Transactions) Table() store.Table {
	return t.table
}

// Categories is the registry this kind's category references resolve in.
func (t *Transactions) Categories() *CategoryBook {
	return t.cats
}

// Methods is the payment-method registry.
func (t *Transactions) Methods() *CategoryBook {
	return t.methods
}

// LoadByID translates the cached row with the given id to entity form.
// Absent id is ErrNotFound; a dangling category or method reference is
// ErrDataIntegrity.
func (t *Transactions) LoadByID(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := t.mirror.FindTransactionRow(ctx, t.table, id)
	if err != nil {
		return core.Transaction{}, err
	}
	return t.translate(ctx, row)
}

// LoadAll returns every transaction of this kind, translated, in
// load/insert order. The iteration runs over a snapshot, so callers can
// never remove cached rows as a side effect.
func (t *Transactions) LoadAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := t.mirror.TransactionRows(ctx, t.table)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		entity, err := t.translate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// LoadOfMonth filters LoadAll to the given calendar month and year.
func (t *Transactions) LoadOfMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	all, err := t.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Transaction
	for _, entity := range all {
		if entity.Date.InMonth(year, month) {
			out = append(out, entity)
		}
	}
	return out, nil
}

// Save is update-only: it overwrites amount, date, comment and both
// references of the cached row matching entity.ID. A store failure is
// (false, nil); an absent id is (false, ErrNotFound).
func (t *Transactions) Save(ctx context.Context, entity core.Transaction) (bool, error) {
	if err := entity.Validate(); err != nil {
		return false, err
	}
	return saved(t.mirror.UpdateTransactionRow(ctx, t.table, toRow(entity)))
}

// AddNew inserts the entity under the next sequential id and returns it.
func (t *Transactions) AddNew(ctx context.Context, entity core.Transaction) (int64, error) {
	if err := entity.Validate(); err != nil {
		return 0, err
	}
	return t.mirror.AppendTransaction(ctx, t.table, toRow(entity))
}

// Delete removes the transaction with the given id; ErrNotFound if absent.
func (t *Transactions) Delete(ctx context.Context, id int64) error {
	return t.mirror.DeleteTransactionRow(ctx, t.table, id)
}

// MonthTotal sums the amounts of the month's transactions; zero if none.
func (t *Transactions) MonthTotal(ctx context.Context, year, month int) (core.Money, error) {
	ofMonth, err := t.LoadOfMonth(ctx, year, month)
	if err != nil {
		return core.Money{}, err
	}
	total := core.MoneyZero()
	for _, entity := range ofMonth {
		total = total.Add(entity.Amount)
	}
	return total, nil
}

// CategoryTotalForMonth sums the month's transactions whose category name
// matches exactly (case-sensitive); zero when nothing matches.
func (t *Transactions) CategoryTotalForMonth(ctx context.Context, year, month int, categoryName string) (core.Money, error) {
	ofMonth, err := t.LoadOfMonth(ctx, year, month)
	if err != nil {
		return core.Money{}, err
	}
	total := core.MoneyZero()
	for _, entity := range ofMonth {
		if entity.Category.Name == categoryName {
			total = total.Add(entity.Amount)
		}
	}
	return total, nil
}

// CategoryTotals groups the month's transactions by category name. Only
// categories with at least one transaction in the month appear.
func (t *Transactions) CategoryTotals(ctx context.Context, year, month int) (map[string]core.Money, error) {
	ofMonth, err := t.LoadOfMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]core.Money)
	for _, entity := range ofMonth {
		name := entity.Category.Name
		totals[name] = totals[name].Add(entity.Amount)
	}
	return totals, nil
}

// translate converts a raw row to entity form, resolving both references
// through the registries. A missing comment becomes the empty string.
func (t *Transactions) translate(ctx context.Context, row store.TransactionRow) (core.Transaction, error) {
	amount, err := core.ParseMoney(row.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%s %d: malformed amount %q: %w",
			t.table, row.ID, row.Amount, core.ErrDataIntegrity)
	}
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%s %d: malformed date %q: %w",
			t.table, row.ID, row.Date, core.ErrDataIntegrity)
	}

	category, err := t.cats.LoadByID(ctx, row.CategoryID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Transaction{}, core.IntegrityError(string(t.table), row.ID, "category", row.CategoryID)
		}
		return core.Transaction{}, err
	}
	method, err := t.methods.LoadByID(ctx, row.MethodID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Transaction{}, core.IntegrityError(string(t.table), row.ID, "payment method", row.MethodID)
		}
		return core.Transaction{}, err
	}

	comment := ""
	if row.Comment != nil {
		comment = *row.Comment
	}

	return core.Transaction{
		ID:       row.ID,
		Amount:   amount,
		Date:     date,
		Category: category,
		Method:   method,
		Comment:  comment,
	}, nil
}

func toRow(entity core.Transaction) store.TransactionRow {
	comment := entity.Comment
	return store.TransactionRow{
		ID:         entity.ID,
		Amount:     entity.Amount.String(),
		Date:       entity.Date.String(),
		CategoryID: entity.Category.ID,
		MethodID:   entity.Method.ID,
		Comment:    &comment,
	}
}
