// Package storage persists the ledger tables in SQLite. It is the durable
// side of the store contract; the cache mirror in internal/ledger sits in
// front of it and performs the write-through.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

func Open(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	applog.For(applog.ComponentStorage).Info("SQLite store ready", "path", dbPath)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Table names are interpolated into SQL, so they go through a whitelist
// first; the store contract's Table values double as the SQL table names.
func categoryTable(t store.Table) (string, error) {
	switch t {
	case store.ExpenseCategories, store.IncomeCategories, store.PaymentMethods:
		return string(t), nil
	}
	return "", fmt.Errorf("not a category table: %s", t)
}

func transactionTable(t store.Table) (string, error) {
	switch t {
	case store.Expenses, store.Incomes:
		return string(t), nil
	}
	return "", fmt.Errorf("not a transaction table: %s", t)
}

func (s *SQLiteStore) LoadCategories(ctx context.Context, table store.Table) ([]store.CategoryRow, error) {
	name, err := categoryTable(table)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT id, name FROM %s ORDER BY id", name))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer rows.Close()

	var out []store.CategoryRow
	for rows.Next() {
		var row store.CategoryRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", name, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) FindCategory(ctx context.Context, table store.Table, id int64) (store.CategoryRow, error) {
	name, err := categoryTable(table)
	if err != nil {
		return store.CategoryRow{}, err
	}

	var row store.CategoryRow
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, name FROM %s WHERE id = ?", name), id).
		Scan(&row.ID, &row.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return store.CategoryRow{}, core.NotFoundError(name, id)
	}
	if err != nil {
		return store.CategoryRow{}, fmt.Errorf("find %s %d: %w", name, id, err)
	}
	return row, nil
}

func (s *SQLiteStore) InsertCategory(ctx context.Context, table store.Table, row store.CategoryRow) error {
	name, err := categoryTable(table)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, name) VALUES (?, ?)", name),
		row.ID, row.Name)
	if err != nil {
		return fmt.Errorf("insert %s %d: %w", name, row.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpdateCategory(ctx context.Context, table store.Table, row store.CategoryRow) error {
	name, err := categoryTable(table)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET name = ? WHERE id = ?", name),
		row.Name, row.ID)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", name, row.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFoundError(name, row.ID)
	}
	return nil
}

func (s *SQLiteStore) LoadTransactions(ctx context.Context, table store.Table) ([]store.TransactionRow, error) {
	name, err := transactionTable(table)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT id, amount, tx_date, category_id, method_id, comment FROM %s ORDER BY id", name))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer rows.Close()

	var out []store.TransactionRow
	for rows.Next() {
		row, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", name, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) FindTransaction(ctx context.Context, table store.Table, id int64) (store.TransactionRow, error) {
	name, err := transactionTable(table)
	if err != nil {
		return store.TransactionRow{}, err
	}

	row, err := scanTransaction(s.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT id, amount, tx_date, category_id, method_id, comment FROM %s WHERE id = ?", name), id))
	if errors.Is(err, sql.ErrNoRows) {
		return store.TransactionRow{}, core.NotFoundError(name, id)
	}
	if err != nil {
		return store.TransactionRow{}, fmt.Errorf("find %s %d: %w", name, id, err)
	}
	return row, nil
}

func (s *SQLiteStore) InsertTransaction(ctx context.Context, table store.Table, row store.TransactionRow) error {
	name, err := transactionTable(table)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (id, amount, tx_date, category_id, method_id, comment) VALUES (?, ?, ?, ?, ?, ?)", name),
		row.ID, row.Amount, row.Date, row.CategoryID, row.MethodID, nullable(row.Comment))
	if err != nil {
		return fmt.Errorf("insert %s %d: %w", name, row.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, table store.Table, row store.TransactionRow) error {
	name, err := transactionTable(table)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"UPDATE %s SET amount = ?, tx_date = ?, category_id = ?, method_id = ?, comment = ? WHERE id = ?", name),
		row.Amount, row.Date, row.CategoryID, row.MethodID, nullable(row.Comment), row.ID)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", name, row.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFoundError(name, row.ID)
	}
	return nil
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, table store.Table, id int64) error {
	name, err := transactionTable(table)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", name), id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", name, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFoundError(name, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(sc scanner) (store.TransactionRow, error) {
	var (
		row     store.TransactionRow
		comment sql.NullString
	)
	if err := sc.Scan(&row.ID, &row.Amount, &row.Date, &row.CategoryID, &row.MethodID, &comment); err != nil {
		return store.TransactionRow{}, err
	}
	if comment.Valid {
		row.Comment = &comment.String
	}
	return row, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
