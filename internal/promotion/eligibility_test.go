package promotion

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func eligibleCtx() OrderContext {
	return OrderContext{
		BranchID:  uuidMust("99999999-9999-9999-9999-999999999999"),
		OrderType: OrderTypeDineIn,
		PlacedAt:  time.Date(2025, time.June, 16, 12, 0, 0, 0, time.UTC), // Monday noon
	}
}

func TestEligibleHappyPath(t *testing.T) {
	ok, err := Eligible(basicPromo(), eligibleCtx())
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected promotion to be eligible")
	}
}

func TestEligibleRejectsMismatches(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Promotion)
		ctx    func(*OrderContext)
	}{
		{name: "inactive", mutate: func(p *Promotion) { p.Active = false }},
		{name: "wrong branch", ctx: func(c *OrderContext) {
			c.BranchID = uuidMust("55555555-5555-5555-5555-555555555555")
		}},
		{name: "wrong order type", ctx: func(c *OrderContext) { c.OrderType = OrderTypeDelivery }},
		{name: "empty days", mutate: func(p *Promotion) { p.Days = nil }},
		{name: "empty order types", mutate: func(p *Promotion) { p.OrderTypes = nil }},
		{name: "outside date range", ctx: func(c *OrderContext) {
			c.PlacedAt = time.Date(2026, time.June, 16, 12, 0, 0, 0, time.UTC)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := basicPromo()
			ctx := eligibleCtx()
			if tc.mutate != nil {
				tc.mutate(&p)
			}
			if tc.ctx != nil {
				tc.ctx(&ctx)
			}
			ok, err := Eligible(p, ctx)
			if err != nil {
				t.Fatal(err)
			}
			if ok {
				t.Fatal("expected promotion to be ineligible")
			}
		})
	}
}

func TestEligibleCustomerTags(t *testing.T) {
	vip := uuidMust("44444444-4444-4444-4444-444444444444")
	p := basicPromo()
	p.CustomerTagIDs = []uuid.UUID{vip}

	ctx := eligibleCtx()
	ok, err := Eligible(p, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("tagged promotion should not apply to an untagged customer")
	}

	ctx.CustomerTagIDs = []uuid.UUID{vip}
	ok, err = Eligible(p, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("tagged promotion should apply when tags intersect")
	}
}

func TestEligibleMalformedPromotionFailsClosed(t *testing.T) {
	p := basicPromo()
	p.Basic = nil // violates the field-group invariant
	ok, err := Eligible(p, eligibleCtx())
	if !errors.Is(err, ErrMalformedPromotion) {
		t.Fatalf("expected ErrMalformedPromotion, got %v", err)
	}
	if ok {
		t.Fatal("malformed promotion must be ineligible")
	}
}
