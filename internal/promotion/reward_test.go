package promotion

import (
	"testing"

	"github.com/google/uuid"
)

func TestRewardBasicPercentWholeOrder(t *testing.T) {
	p := basicPromo() // 10% off, empty scope
	res, err := Reward(p, sampleLines())
	if err != nil {
		t.Fatal(err)
	}
	// Whole-order scope without modifiers: 23.00 + 34.50 = 57.50 gross.
	if !res.Discount.Equal(dec("5.75")) {
		t.Fatalf("discount = %s, want 5.75 (10%% of 57.50)", res.Discount)
	}
	if len(res.AffectedLineIDs) != 2 {
		t.Fatalf("expected every line affected, got %d", len(res.AffectedLineIDs))
	}
}

func TestRewardBasicValueCappedAtSubtotal(t *testing.T) {
	p := basicPromo()
	p.Basic = &BasicRule{DiscountType: DiscountValue, DiscountValue: dec("1000")}
	p.IncludeModifiers = true
	res, err := Reward(p, sampleLines())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Discount.Equal(dec("63.25")) {
		t.Fatalf("discount = %s, want full subtotal 63.25", res.Discount)
	}
}

func TestRewardDiscountOnProductScoped(t *testing.T) {
	p := advancedPromo(ConditionBuysQuantity)
	p.Advanced.Reward = RewardDiscountOnProduct
	p.Advanced.DiscountType = DiscountPercent
	p.Advanced.DiscountValue = dec("50")
	p.ProductSizeIDs = []uuid.UUID{sizeSmall}

	res, err := Reward(p, sampleLines())
	if err != nil {
		t.Fatal(err)
	}
	// Matched subtotal: 11.50 x 2 = 23.00; half off.
	if !res.Discount.Equal(dec("11.5")) {
		t.Fatalf("discount = %s, want 11.5", res.Discount)
	}
	if len(res.AffectedLineIDs) != 1 {
		t.Fatalf("expected one affected line, got %d", len(res.AffectedLineIDs))
	}
}

func TestRewardPayFixedAmount(t *testing.T) {
	p := advancedPromo(ConditionBuysQuantity)
	p.Advanced.Reward = RewardPayFixedAmount
	p.Advanced.FixedAmount = dec("20.00")
	p.ProductSizeIDs = []uuid.UUID{sizeSmall}

	res, err := Reward(p, sampleLines())
	if err != nil {
		t.Fatal(err)
	}
	// Pay 20.00 for a 23.00 scope: discount 3.00.
	if !res.Discount.Equal(dec("3")) {
		t.Fatalf("discount = %s, want 3", res.Discount)
	}
}

func TestRewardPayFixedAmountFloorsAtZero(t *testing.T) {
	p := advancedPromo(ConditionBuysQuantity)
	p.Advanced.Reward = RewardPayFixedAmount
	p.Advanced.FixedAmount = dec("99.00") // more than the 23.00 scope
	p.ProductSizeIDs = []uuid.UUID{sizeSmall}

	res, err := Reward(p, sampleLines())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Discount.IsZero() {
		t.Fatalf("discount = %s, want 0 (never a markup)", res.Discount)
	}
}

func TestRewardMalformedPromotion(t *testing.T) {
	p := basicPromo()
	p.Basic.DiscountType = "GIFT"
	if _, err := Reward(p, sampleLines()); err == nil {
		t.Fatal("expected malformed promotion error")
	}
}
