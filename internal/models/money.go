package models

import (
	"github.com/shopspring/decimal"
)

// Amount is a decimal money value as the commerce backend sends it.
// The backend is inconsistent about numeric encoding: amounts arrive
// as JSON numbers, as numeric strings, or are missing/null entirely.
// Anything that does not parse as a number decodes to zero.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func AmountFromInt(v int64) Amount {
	return Amount{Decimal: decimal.NewFromInt(v)}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return a.Decimal.MarshalJSON()
}
