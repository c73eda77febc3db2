package promotion

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Result is the discount a qualifying promotion grants and the lines it
// touches.
type Result struct {
	Discount        decimal.Decimal
	AffectedLineIDs []uuid.UUID
}

// Reward computes the discount for a promotion the caller already found
// eligible and satisfied. The discount is always clamped to [0, applicable
// subtotal]: a promotion can never increase an order total or produce a
// negative discount.
func Reward(p Promotion, lines []CartLine) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if p.Kind == KindBasic {
		return basicReward(p, lines), nil
	}
	return advancedReward(p, lines), nil
}

// basicReward applies the flat discount over the promotion's scope. An empty
// scope means the whole order.
func basicReward(p Promotion, lines []CartLine) Result {
	subtotal := MatchedSubtotal(p, lines)
	discount := discountAmount(p.Basic.DiscountType, p.Basic.DiscountValue, subtotal)
	return Result{
		Discount:        clamp(discount, subtotal),
		AffectedLineIDs: lineIDs(MatchedLines(p, lines)),
	}
}

func advancedReward(p Promotion, lines []CartLine) Result {
	rule := p.Advanced
	switch rule.Reward {
	case RewardDiscountOnOrder:
		subtotal := orderGrossSubtotal(lines)
		discount := discountAmount(rule.DiscountType, rule.DiscountValue, subtotal)
		return Result{Discount: clamp(discount, subtotal), AffectedLineIDs: lineIDs(lines)}
	case RewardDiscountOnProduct:
		subtotal := MatchedSubtotal(p, lines)
		discount := discountAmount(rule.DiscountType, rule.DiscountValue, subtotal)
		return Result{Discount: clamp(discount, subtotal), AffectedLineIDs: lineIDs(MatchedLines(p, lines))}
	case RewardPayFixedAmount:
		// The customer pays FixedAmount for the matched scope; paying more
		// than the scope is worth yields no discount, never a markup.
		subtotal := MatchedSubtotal(p, lines)
		discount := subtotal.Sub(rule.FixedAmount)
		return Result{Discount: clamp(discount, subtotal), AffectedLineIDs: lineIDs(MatchedLines(p, lines))}
	default:
		return Result{Discount: decimal.Zero}
	}
}

func discountAmount(t DiscountType, value, subtotal decimal.Decimal) decimal.Decimal {
	if t == DiscountPercent {
		return value.Div(decimal.NewFromInt(100)).Mul(subtotal)
	}
	return value
}

// clamp bounds a discount to [0, subtotal].
func clamp(discount, subtotal decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// orderGrossSubtotal is the order's full tax-inclusive subtotal, modifiers
// included.
func orderGrossSubtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalGross())
	}
	return total
}

func lineIDs(lines []CartLine) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	return ids
}
