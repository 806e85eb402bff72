// Package ledger is the cached data-access core: a write-through in-memory
// mirror of the persisted tables, the category registries, and the
// transaction access layers for expenses and incomes.
package ledger

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/store"
)

// Mirror holds the in-memory working copy of every persisted table. Each
// table is loaded lazily, once, on first use, and then mutated in place by
// every write. A single mutex guards all tables: ID assignment is a
// read-then-write sequence (max+1, then insert) and must not interleave.
type Mirror struct {
	mu     sync.Mutex
	store  store.Store
	loaded map[store.Table]bool
	cats   map[store.Table][]store.CategoryRow
	txs    map[store.Table][]store.TransactionRow
}

func NewMirror(st store.Store) *Mirror {
	return &Mirror{
		store:  st,
		loaded: make(map[store.Table]bool),
		cats:   make(map[store.Table][]store.CategoryRow),
		txs:    make(map[store.Table][]store.TransactionRow),
	}
}

// ensure loads a table from the store on first access. Caller holds mu.
func (m *Mirror) ensure(ctx context.Context, table store.Table) error {
	if m.loaded[table] {
		return nil
	}
	if table.Transactional() {
		rows, err := m.store.LoadTransactions(ctx, table)
		if err != nil {
			return core.PersistenceError("load "+string(table), err)
		}
		m.txs[table] = rows
	} else {
		rows, err := m.store.LoadCategories(ctx, table)
		if err != nil {
			return core.PersistenceError("load "+string(table), err)
		}
		m.cats[table] = rows
	}
	m.loaded[table] = true
	return nil
}

// CategoryRows returns a snapshot of a category table in load/insert order.
// Mutating the returned slice never touches the cache.
func (m *Mirror) CategoryRows(ctx context.Context, table store.Table) ([]store.CategoryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx, table); err != nil {
		return nil, err
	}
	return append([]store.CategoryRow(nil), m.cats[table]...), nil
}

// TransactionRows returns a snapshot of a transaction table.
func (m *Mirror) TransactionRows(ctx context.Context, table store.Table) ([]store.TransactionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx, table); err != nil {
		return nil, err
	}
	return append([]store.TransactionRow(nil), m.txs[table]...), nil
}

func (m *Mirror) FindCategoryRow(ctx context.Context, table store.Table, id int64) (store.CategoryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx, table); err != nil {
		return store.CategoryRow{}, err
	}
	for _, row := range m.cats[table] {
		if row.ID == id {
			return row, nil
		}
	}
	return store.CategoryRow{}, core.NotFoundError(string(table), id)
}

func (m *Mirror) FindTransactionRow(ctx context.Context, table store.Table, id int64) (store.TransactionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx, table); err != nil {
		return store.TransactionRow{}, err
	}
	for _, row := range m.txs[table] {
		if row.ID == id {
			return row, nil
		}
	}
	return store.TransactionRow{}, core.NotFoundError(string(table), id)
}

// AppendCategory assigns the next sequential id, writes through to the
// store, and appends to the cache. The whole sequence runs under the lock.
func (m *Mirror) AppendCategory(ctx context.Context, table store.Table, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx, table); err != nil {
		return 0, err
	}

	row := store.CategoryRow{ID: nextCategoryID(m.cats[table]), Name: name}
	if err := m.store.InsertCategory(ctx, table, row); err != nil {
		return 0, core.PersistenceError("insert "+string(table), err)
	}
	m.cats[table] = append(m.cats[table], row)
	return row.ID, nil
}

// UpdateCategoryRow overwrites the row matching row.ID. The cache is
// authoritative for existence: an absent id is ErrNotFound before the store
// is ever touched.
func (m *Mirror) UpdateCategoryRow(ctx context.Context, table store.Table, row store.CategoryRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx, table); err != nil {
		return err
	}

	rows := m.cats[table]
	for i := range rows {
		if rows[i].ID == row.ID {
			if err := m.store.UpdateCategory(ctx, table, row); err != nil {
				return core.PersistenceError("update "+string(table), err)
			}
			rows[i] = row
			return nil
		}
	}
	return core.NotFoundError(string(table), row.ID)
}

// AppendTransaction assigns the next sequential id to row, writes through,
// and appends to the cache. Returns the assigned id.
func (m *Mirror) AppendTransaction(ctx context.Context, table store.Table, row store.TransactionRow) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx, table); err != nil {
		return 0, err
	}

	row.ID = nextTransactionID(m.txs[table])
	if err := m.store.InsertTransaction(ctx, table, row); err != nil {
		return 0, core.PersistenceError("insert "+string(table), err)
	}
	m.txs[table] = append(m.txs[table], row)
	return row.ID, nil
}

func (m *Mirror) UpdateTransactionRow(ctx context.Context, table store.Table, row store.TransactionRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx, table); err != nil {
		return err
	}

	rows := m.txs[table]
	for i := range rows {
		if rows[i].ID == row.ID {
			if err := m.store.UpdateTransaction(ctx, table, row); err != nil {
				return core.PersistenceError("update "+string(table), err)
			}
			rows[i] = row
			return nil
		}
	}
	return core.NotFoundError(string(table), row.ID)
}

// DeleteTransactionRow removes the row with the given id from store and
// cache. Deleting an absent id is ErrNotFound. The next id stays
// current max + 1, so a gap left by a deletion is never refilled.
func (m *Mirror) DeleteTransactionRow(ctx context.Context, table store.Table, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx, table); err != nil {
		return err
	}

	rows := m.txs[table]
	for i := range rows {
		if rows[i].ID == id {
			if err := m.store.DeleteTransaction(ctx, table, id); err != nil {
				return core.PersistenceError("delete "+string(table), err)
			}
			m.txs[table] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return core.NotFoundError(string(table), id)
}

// nextCategoryID is max(id)+1 over the cached rows, with 1 as the floor for
// an empty table.
func nextCategoryID(rows []store.CategoryRow) int64 {
	next := int64(1)
	for _, row := range rows {
		if row.ID >= next {
			next = row.ID + 1
		}
	}
	return next
}

func nextTransactionID(rows []store.TransactionRow) int64 {
	next := int64(1)
	for _, row := range rows {
		if row.ID >= next {
			next = row.ID + 1
		}
	}
	return next
}
