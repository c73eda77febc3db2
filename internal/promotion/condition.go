package promotion

import "github.com/shopspring/decimal"

// MatchedLines returns the cart lines the promotion's scope covers. An empty
// product-size scope matches the whole cart.
func MatchedLines(p Promotion, lines []CartLine) []CartLine {
	if len(p.ProductSizeIDs) == 0 {
		return lines
	}
	matched := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if containsUUID(p.ProductSizeIDs, l.ProductSizeID) {
			matched = append(matched, l)
		}
	}
	return matched
}

// MatchedSubtotal sums the gross amounts of the scoped lines, honouring the
// promotion's modifier inclusion flag.
func MatchedSubtotal(p Promotion, lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range MatchedLines(p, lines) {
		total = total.Add(l.GrossAmount(p.IncludeModifiers))
	}
	return total
}

// Satisfies checks an ADVANCED promotion's trigger condition against the
// cart. BASIC promotions carry no condition and always satisfy.
//
// The spend threshold compares against the gross (tax-inclusive) amount of
// the scoped lines.
func Satisfies(p Promotion, lines []CartLine) bool {
	if p.Kind != KindAdvanced || p.Advanced == nil {
		return true
	}
	switch p.Advanced.Condition {
	case ConditionBuysQuantity:
		qty := 0
		for _, l := range MatchedLines(p, lines) {
			qty += l.Qty
		}
		return qty >= p.Advanced.ConditionQty
	case ConditionSpendsAmount:
		return MatchedSubtotal(p, lines).GreaterThanOrEqual(p.Advanced.ConditionSpend)
	default:
		return false
	}
}
