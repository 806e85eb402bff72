// Package memstore is an in-memory implementation of the store contract.
// It backs the "memory" data backend and the core's tests; no external
// infrastructure is required to run the ledger with it.
package memstore

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/store"
)

type Store struct {
	mu   sync.Mutex
	cats map[store.Table][]store.CategoryRow
	txs  map[store.Table][]store.TransactionRow
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		cats: make(map[store.Table][]store.CategoryRow),
		txs:  make(map[store.Table][]store.TransactionRow),
	}
}

// Seed loads initial rows without going through the contract, for wiring
// fixtures and the memory backend's defaults.
func (s *Store) Seed(cats map[store.Table][]store.CategoryRow, txs map[store.Table][]store.TransactionRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for table, rows := range cats {
		s.cats[table] = append(s.cats[table], rows...)
	}
	for table, rows := range txs {
		s.txs[table] = append(s.txs[table], rows...)
	}
}

func (s *Store) LoadCategories(_ context.Context, table store.Table) ([]store.CategoryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.CategoryRow(nil), s.cats[table]...), nil
}

func (s *Store) FindCategory(_ context.Context, table store.Table, id int64) (store.CategoryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.cats[table] {
		if row.ID == id {
			return row, nil
		}
	}
	return store.CategoryRow{}, core.NotFoundError(string(table), id)
}

func (s *Store) InsertCategory(_ context.Context, table store.Table, row store.CategoryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats[table] = append(s.cats[table], row)
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, table store.Table, row store.CategoryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cats[table] {
		if s.cats[table][i].ID == row.ID {
			s.cats[table][i] = row
			return nil
		}
	}
	return core.NotFoundError(string(table), row.ID)
}

func (s *Store) LoadTransactions(_ context.Context, table store.Table) ([]store.TransactionRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.TransactionRow(nil), s.txs[table]...), nil
}

func (s *Store) FindTransaction(_ context.Context, table store.Table, id int64) (store.TransactionRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.txs[table] {
		if row.ID == id {
			return row, nil
		}
	}
	return store.TransactionRow{}, core.NotFoundError(string(table), id)
}

func (s *Store) InsertTransaction(_ context.Context, table store.Table, row store.TransactionRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[table] = append(s.txs[table], row)
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, table store.Table, row store.TransactionRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs[table] {
		if s.txs[table][i].ID == row.ID {
			s.txs[table][i] = row
			return nil
		}
	}
	return core.NotFoundError(string(table), row.ID)
}

func (s *Store) DeleteTransaction(_ context.Context, table store.Table, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.txs[table]
	for i := range rows {
		if rows[i].ID == id {
			s.txs[table] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return core.NotFoundError(string(table), id)
}
