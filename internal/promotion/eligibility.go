package promotion

// Eligible reports whether the promotion can apply to the order context at
// all: branch, order type, schedule window and customer tags. It is a pure
// predicate; catalog/context mismatches are silently false, only malformed
// promotion data returns an error (matching ErrMalformedPromotion).
//
// Promotions with an empty day or order-type set can never match and are
// treated as always inapplicable rather than as errors.
func Eligible(p Promotion, ctx OrderContext) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if !p.Active {
		return false, nil
	}
	if len(p.Days) == 0 || len(p.OrderTypes) == 0 {
		return false, nil
	}
	if !containsUUID(p.BranchIDs, ctx.BranchID) {
		return false, nil
	}
	if !orderTypeIn(p.OrderTypes, ctx.OrderType) {
		return false, nil
	}
	if !WithinWindow(p, ctx.PlacedAt) {
		return false, nil
	}
	if len(p.CustomerTagIDs) > 0 && !intersectsUUID(p.CustomerTagIDs, ctx.CustomerTagIDs) {
		return false, nil
	}
	return true, nil
}

func orderTypeIn(types []OrderType, t OrderType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
