// Package pricing composes cart lines, promotion resolution and tax
// decomposition into final order totals. It is the single entry point the
// quote and admin surfaces call into.
package pricing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/money"
	"github.com/noah-isme/backend-pos/internal/promotion"
)

// ErrInvalidCartLine marks cart data that must never be priced: negative
// prices, rates, or non-positive quantities point at an upstream integrity
// bug, so the whole computation fails rather than returning a wrong total.
var ErrInvalidCartLine = errors.New("pricing: invalid cart line")

// Totals is the immutable result of pricing one order draft. Net, VAT and
// Gross are pre-discount; NetAfterDiscount and VATAfterDiscount carry the
// proportionally shrunk split so reported VAT never exceeds the undiscounted
// VAT. All amounts are rounded to currency precision exactly once.
type Totals struct {
	Net                decimal.Decimal `json:"net"`
	VAT                decimal.Decimal `json:"vat"`
	Gross              decimal.Decimal `json:"gross"`
	Discount           decimal.Decimal `json:"discount"`
	GrossAfterDiscount decimal.Decimal `json:"grossAfterDiscount"`
	NetAfterDiscount   decimal.Decimal `json:"netAfterDiscount"`
	VATAfterDiscount   decimal.Decimal `json:"vatAfterDiscount"`
	AppliedPromotionID *uuid.UUID      `json:"appliedPromotionId"`
	AffectedLineIDs    []uuid.UUID     `json:"affectedLineIds,omitempty"`
	Empty              bool            `json:"empty"`
}

// ComputeOrderTotals prices an order draft against a promotion catalog
// snapshot. It is pure and deterministic: identical inputs yield identical
// totals. Malformed promotions are reported via the skipped slice and do not
// abort the computation; malformed cart lines do.
func ComputeOrderTotals(catalog []promotion.Promotion, ctx promotion.OrderContext, lines []promotion.CartLine) (Totals, []promotion.Skipped, error) {
	if len(lines) == 0 {
		zero := money.RoundCurrency(decimal.Zero)
		return Totals{
			Net:                zero,
			VAT:                zero,
			Gross:              zero,
			Discount:           zero,
			GrossAfterDiscount: zero,
			NetAfterDiscount:   zero,
			VATAfterDiscount:   zero,
			Empty:              true,
		}, nil, nil
	}

	var sum money.Parts
	for i, l := range lines {
		if err := validateLine(l); err != nil {
			return Totals{}, nil, fmt.Errorf("line %d: %w", i, err)
		}
		parts, err := money.DecomposeParts(l.TotalGross(), l.TaxRate)
		if err != nil {
			return Totals{}, nil, fmt.Errorf("line %d: %w: %w", i, ErrInvalidCartLine, err)
		}
		sum = sum.Add(parts)
	}

	resolution, skipped := promotion.Resolve(catalog, ctx, lines)
	discount := resolution.Discount
	if discount.GreaterThan(sum.Gross) {
		discount = sum.Gross
	}

	after := sum
	if discount.IsPositive() && sum.Gross.IsPositive() {
		factor := sum.Gross.Sub(discount).Div(sum.Gross)
		after = sum.Scale(factor)
	}

	// Round once at the end, then pin VAT to the rounded gross/net difference
	// so the net + VAT == gross invariant holds to the cent.
	gross := money.RoundCurrency(sum.Gross)
	net := money.RoundCurrency(sum.Net)
	vat := gross.Sub(net)
	roundedDiscount := money.RoundCurrency(discount)
	grossAfter := gross.Sub(roundedDiscount)
	netAfter := money.RoundCurrency(after.Net)
	vatAfter := grossAfter.Sub(netAfter)

	return Totals{
		Net:                net,
		VAT:                vat,
		Gross:              gross,
		Discount:           roundedDiscount,
		GrossAfterDiscount: grossAfter,
		NetAfterDiscount:   netAfter,
		VATAfterDiscount:   vatAfter,
		AppliedPromotionID: resolution.AppliedPromotionID,
		AffectedLineIDs:    resolution.AffectedLineIDs,
	}, skipped, nil
}

func validateLine(l promotion.CartLine) error {
	if l.Qty < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidCartLine)
	}
	if l.UnitPriceGross.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidCartLine)
	}
	if l.ModifierPriceGross.IsNegative() {
		return fmt.Errorf("%w: modifier price must not be negative", ErrInvalidCartLine)
	}
	if l.TaxRate.IsNegative() {
		return fmt.Errorf("%w: %w", ErrInvalidCartLine, money.ErrInvalidRate)
	}
	return nil
}
