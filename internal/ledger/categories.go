package ledger

import (
	"context"
	"errors"

	"ledger/internal/core"
	"ledger/internal/store"
)

// kindTables maps a category kind to its persisted table. One CategoryBook
// per kind, all sharing the mirror; no per-kind subtypes.
var kindTables = map[core.CategoryKind]store.Table{
	core.ExpenseCategories: store.ExpenseCategories,
	core.IncomeCategories:  store.IncomeCategories,
	core.PaymentMethods:    store.PaymentMethods,
}

// CategoryBook is the registry for one category kind: expense categories,
// income categories, or payment methods.
type CategoryBook struct {
	kind   core.CategoryKind
	table  store.Table
	mirror *Mirror
}

func NewCategoryBook(m *Mirror, kind core.CategoryKind) *CategoryBook {
	table, ok := kindTables[kind]
	if !ok {
		panic("ledger: unknown category kind " + string(kind))
	}
	return &CategoryBook{kind: kind, table: table, mirror: m}
}

func (b *CategoryBook) Kind() core.CategoryKind {
	return b.kind
}

// Table is the persisted table backing this registry.
func (b *CategoryBook) Table() store.Table {
	return b.table
}

// LoadAll returns every category of this kind in load/insert order.
func (b *CategoryBook) LoadAll(ctx context.Context) ([]core.Category, error) {
	rows, err := b.mirror.CategoryRows(ctx, b.table)
	if err != nil {
		return nil, err
	}
	out := make([]core.Category, len(rows))
	for i, row := range rows {
		out[i] = b.translate(row)
	}
	return out, nil
}

// LoadByID returns the category with the given id, or ErrNotFound.
func (b *CategoryBook) LoadByID(ctx context.Context, id int64) (core.Category, error) {
	row, err := b.mirror.FindCategoryRow(ctx, b.table, id)
	if err != nil {
		return core.Category{}, err
	}
	return b.translate(row), nil
}

// Save overwrites the stored category matching c.ID. A store failure is
// silenced to (false, nil); ErrNotFound propagates alongside the false.
func (b *CategoryBook) Save(ctx context.Context, c core.Category) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	return saved(b.mirror.UpdateCategoryRow(ctx, b.table, store.CategoryRow{ID: c.ID, Name: c.Name}))
}

// AddNew inserts a category with the next sequential id and returns the id.
// Duplicate names are allowed; only emptiness is rejected.
func (b *CategoryBook) AddNew(ctx context.Context, name string) (int64, error) {
	if err := (core.Category{Name: name}).Validate(); err != nil {
		return 0, err
	}
	return b.mirror.AppendCategory(ctx, b.table, name)
}

func (b *CategoryBook) translate(row store.CategoryRow) core.Category {
	return core.Category{ID: row.ID, Kind: b.kind, Name: row.Name}
}

// saved applies the tiered write policy: success is (true, nil), a
// persistence failure becomes a bare (false, nil), and every other error
// (NotFound, integrity) bubbles through.
func saved(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, core.ErrPersistence):
		return false, nil
	default:
		return false, err
	}
}
