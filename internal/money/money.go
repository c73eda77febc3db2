// Package money provides tax-inclusive price decomposition. Catalog prices in
// this system already contain VAT, so net and VAT are derived by division and
// subtraction, never by adding tax on top.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidRate is returned when a tax rate is negative.
var ErrInvalidRate = errors.New("money: tax rate must not be negative")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// CurrencyScale is the number of decimal places amounts are rounded to at
// output time.
const CurrencyScale = 2

// NormalizeRate converts a tax rate into a fraction in [0, 1). Source data
// stores rates either as fractions (0.15) or as percentages (15); values >= 1
// are divided by 100.
func NormalizeRate(rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.IsNegative() {
		return decimal.Zero, ErrInvalidRate
	}
	if rate.GreaterThanOrEqual(one) {
		return rate.Div(hundred), nil
	}
	return rate, nil
}

// Decompose splits a tax-inclusive amount into its net and VAT components.
// The rate is normalised first. No rounding happens here; callers aggregate
// unrounded parts and round once at output time.
func Decompose(gross, rate decimal.Decimal) (net, vat decimal.Decimal, err error) {
	fraction, err := NormalizeRate(rate)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	net = gross.Div(one.Add(fraction))
	vat = gross.Sub(net)
	return net, vat, nil
}

// Parts carries the gross/net/VAT components of one or more lines. Lines with
// different tax rates are summed component-wise rather than re-decomposing the
// total with a blended rate, which would misallocate VAT.
type Parts struct {
	Gross decimal.Decimal
	Net   decimal.Decimal
	VAT   decimal.Decimal
}

// DecomposeParts decomposes a gross amount and returns all three components.
func DecomposeParts(gross, rate decimal.Decimal) (Parts, error) {
	net, vat, err := Decompose(gross, rate)
	if err != nil {
		return Parts{}, err
	}
	return Parts{Gross: gross, Net: net, VAT: vat}, nil
}

// Add sums two Parts component-wise.
func (p Parts) Add(q Parts) Parts {
	return Parts{
		Gross: p.Gross.Add(q.Gross),
		Net:   p.Net.Add(q.Net),
		VAT:   p.VAT.Add(q.VAT),
	}
}

// RoundCurrency rounds an amount to currency precision, half away from zero.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyScale)
}

// Scale multiplies every component by the given factor. Used to shrink the
// net/VAT split proportionally after a discount is applied.
func (p Parts) Scale(factor decimal.Decimal) Parts {
	return Parts{
		Gross: p.Gross.Mul(factor),
		Net:   p.Net.Mul(factor),
		VAT:   p.VAT.Mul(factor),
	}
}
