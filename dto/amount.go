package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal money or hours value. Valid is false when the
// document did not carry the value.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// ParseAmount parses a numeric string. A leading minus sign, a leading
// currency marker and thousands separators are accepted.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if negative {
		s = "-" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{Value: d, Valid: true}, nil
}

// AmountOf is ParseAmount that yields an absent Amount on bad input.
func AmountOf(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		return Amount{}
	}
	return a
}

// NewAmount wraps an already computed decimal.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Value: d, Valid: true}
}

// Decimal returns the value, or zero when absent.
func (a Amount) Decimal() decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Value
}

// String renders the flat-record form: "0" when absent, otherwise the
// value with its original number of fraction digits.
func (a Amount) String() string {
	if !a.Valid {
		return "0"
	}
	if exp := a.Value.Exponent(); exp < 0 {
		return a.Value.StringFixed(-exp)
	}
	return a.Value.String()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Amount{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
