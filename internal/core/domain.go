package core

import (
	"errors"
	"strings"
	"time"
)

const (
	ExpenseCategories CategoryKind = "expense-category"
	IncomeCategories  CategoryKind = "income-category"
	PaymentMethods    CategoryKind = "payment-method"
)

const (
	Expense TransactionKind = "expense"
	Income  TransactionKind = "income"
)

type (
	// CategoryKind distinguishes the three category tables.
	CategoryKind string

	// TransactionKind distinguishes the two transaction tables.
	TransactionKind string

	Date struct {
		time.Time
	}

	// Category is a named classification: an expense category, an income
	// category, or a payment method, depending on Kind.
	Category struct {
		ID   int64
		Kind CategoryKind
		Name string
	}

	// Transaction is a dated, amount-bearing record. The same shape serves
	// both expenses and incomes; the access layer carries the kind.
	Transaction struct {
		ID       int64
		Amount   Money
		Date     Date
		Category Category
		Method   Category
		Comment  string
	}
)

var (
	ErrEmptyName       = errors.New("empty category name")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMissingCategory = errors.New("missing category reference")
	ErrMissingMethod   = errors.New("missing payment method reference")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int (1-12)
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// InMonth reports whether the date falls in the given calendar month.
// The day is irrelevant; only year and month are compared.
func (d Date) InMonth(year, month int) bool {
	return d.Year() == year && d.Month() == month
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (k CategoryKind) Valid() bool {
	switch k {
	case ExpenseCategories, IncomeCategories, PaymentMethods:
		return true
	default:
		return false
	}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Amount.Positive() {
		return ErrInvalidAmount
	}
	if t.Category.ID < 1 {
		return ErrMissingCategory
	}
	if t.Method.ID < 1 {
		return ErrMissingMethod
	}
	return nil
}
