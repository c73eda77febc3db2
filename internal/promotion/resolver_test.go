package promotion

import (
	"testing"
)

func TestResolvePicksHighestPriority(t *testing.T) {
	five, ten := 5, 10
	low := basicPromo()
	low.ID = uuidMust("00000000-0000-0000-0000-00000000000a")
	low.Priority = &five
	high := basicPromo()
	high.ID = uuidMust("00000000-0000-0000-0000-00000000000b")
	high.Priority = &ten

	res, skipped := Resolve([]Promotion{low, high}, eligibleCtx(), sampleLines())
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if res.AppliedPromotionID == nil || *res.AppliedPromotionID != high.ID {
		t.Fatalf("expected priority 10 promotion, got %v", res.AppliedPromotionID)
	}
}

func TestResolveTieBreaksOnSmallerID(t *testing.T) {
	ten := 10
	a := basicPromo()
	a.ID = uuidMust("00000000-0000-0000-0000-00000000000a")
	a.Priority = &ten
	b := basicPromo()
	b.ID = uuidMust("00000000-0000-0000-0000-00000000000b")
	b.Priority = &ten

	// Catalog order must not matter.
	res, _ := Resolve([]Promotion{b, a}, eligibleCtx(), sampleLines())
	if res.AppliedPromotionID == nil || *res.AppliedPromotionID != a.ID {
		t.Fatalf("expected smaller id to win the tie, got %v", res.AppliedPromotionID)
	}
}

func TestResolveNilPriorityIsLowest(t *testing.T) {
	one := 1
	unranked := basicPromo()
	unranked.ID = uuidMust("00000000-0000-0000-0000-00000000000a")
	ranked := basicPromo()
	ranked.ID = uuidMust("00000000-0000-0000-0000-00000000000b")
	ranked.Priority = &one

	res, _ := Resolve([]Promotion{unranked, ranked}, eligibleCtx(), sampleLines())
	if res.AppliedPromotionID == nil || *res.AppliedPromotionID != ranked.ID {
		t.Fatalf("nil priority must lose to priority 1, got %v", res.AppliedPromotionID)
	}
}

func TestResolveNoQualifyingPromotion(t *testing.T) {
	p := advancedPromo(ConditionBuysQuantity)
	p.Advanced.ConditionQty = 100
	res, skipped := Resolve([]Promotion{p}, eligibleCtx(), sampleLines())
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if res.AppliedPromotionID != nil {
		t.Fatal("no promotion should apply")
	}
	if !res.Discount.IsZero() {
		t.Fatalf("discount = %s, want 0", res.Discount)
	}
}

func TestResolveSkipsMalformedAndContinues(t *testing.T) {
	bad := basicPromo()
	bad.ID = uuidMust("00000000-0000-0000-0000-00000000000a")
	bad.Basic = nil
	good := basicPromo()
	good.ID = uuidMust("00000000-0000-0000-0000-00000000000b")

	res, skipped := Resolve([]Promotion{bad, good}, eligibleCtx(), sampleLines())
	if len(skipped) != 1 || skipped[0].PromotionID != bad.ID {
		t.Fatalf("expected exactly the malformed promotion skipped, got %v", skipped)
	}
	if res.AppliedPromotionID == nil || *res.AppliedPromotionID != good.ID {
		t.Fatal("resolution must continue past a malformed promotion")
	}
}

func TestResolveDiscountNeverExceedsSubtotal(t *testing.T) {
	p := basicPromo()
	p.Basic = &BasicRule{DiscountType: DiscountValue, DiscountValue: dec("10000")}
	p.IncludeModifiers = true
	res, _ := Resolve([]Promotion{p}, eligibleCtx(), sampleLines())
	if res.Discount.GreaterThan(dec("63.25")) {
		t.Fatalf("discount %s exceeds the order subtotal", res.Discount)
	}
}
