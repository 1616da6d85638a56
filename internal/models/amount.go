package models

import (
	"github.com/shopspring/decimal"
)

// Amount is a money value. It is written as a bare JSON number and read from
// either a JSON number or a numeric string, so `"amount": "5000"` and
// `"amount": 5000` are the same value.
//
// In SQL it is stored as text to keep the exact decimal representation.
type Amount struct {
	decimal.Decimal
}

// NewAmount returns the Amount for v.
func NewAmount(v float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(v)}
}

// ParseAmount parses a decimal string such as "12.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d}, nil
}

// MarshalJSON writes the amount without quotes.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{Decimal: a.Decimal.Add(b.Decimal)}
}
