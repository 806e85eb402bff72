// Package core holds the ledger's domain entities.
//
// Money is an exact decimal amount. All arithmetic goes through
// shopspring/decimal; floats never touch an amount.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Money struct {
	Amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{Amount: amount}
}

func MoneyZero() Money {
	return Money{Amount: decimal.Zero}
}

// ParseMoney parses a decimal amount string. Both dot (12.34) and comma
// (12,34) decimal separators are accepted.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Amount: d}, nil
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount)}
}

func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount)
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) Positive() bool {
	return m.Amount.IsPositive()
}

func (m Money) String() string {
	return m.Amount.String()
}

// MarshalJSON renders the amount as a JSON string to keep it exact.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Amount.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Amount = d
	return nil
}
