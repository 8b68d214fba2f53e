// Package money implements the fixed-point amount used for ledger costs and
// income snapshots: two fraction digits, rounded half away from zero, stored
// in numeric(10,2) columns.
package money

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of fraction digits every Amount carries.
const Places = 2

// Max is the largest magnitude a numeric(10,2) column can hold.
var Max = decimal.RequireFromString("99999999.99")

var (
	ErrNotANumber = errors.New("amount is not a number")
	ErrOutOfRange = errors.New("amount is out of range")
)

// Input bounds checked before rounding. Rounding rescales to 10^-2, which
// costs time proportional to the exponent distance.
const (
	maxInputLen = 64
	maxExponent = 16
	minExponent = -maxInputLen
)

// Amount is a monetary value with exactly two fraction digits.
// The zero value is 0.00.
type Amount struct {
	value decimal.Decimal
}

// Zero is 0.00.
var Zero = Amount{}

// New rounds d to two places and wraps it.
func New(d decimal.Decimal) Amount {
	return Amount{value: d.Round(Places)}
}

// FromCents builds an Amount from an integer number of cents.
func FromCents(cents int64) Amount {
	return Amount{value: decimal.New(cents, -Places)}
}

// Parse reads a decimal string such as "12.345" and rounds it to two places.
func Parse(s string) (Amount, error) {
	if len(s) > maxInputLen {
		return Amount{}, fmt.Errorf("%w: %d characters", ErrOutOfRange, len(s))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	if exp := d.Exponent(); exp > maxExponent || exp < minExponent {
		return Amount{}, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	return New(d), nil
}

// MustParse is Parse that panics; for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal { return a.value }
func (a Amount) Add(b Amount) Amount      { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount      { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) Equal(b Amount) bool      { return a.value.Equal(b.value) }
func (a Amount) IsZero() bool             { return a.value.IsZero() }
func (a Amount) IsNegative() bool         { return a.value.IsNegative() }

// Valid reports whether a fits a numeric(10,2) column.
func (a Amount) Valid() bool {
	return a.value.Abs().LessThanOrEqual(Max)
}

// String renders the amount with exactly two fraction digits.
func (a Amount) String() string {
	return a.value.StringFixed(Places)
}

// MarshalJSON writes an unquoted number with two fraction digits, e.g. 12.35.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Scan implements sql.Scanner for numeric columns.
func (a *Amount) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return err
	}
	*a = New(d)
	return nil
}

// Value implements driver.Valuer; the value is sent as a fixed-point string.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}
