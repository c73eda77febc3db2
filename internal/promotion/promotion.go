// Package promotion implements the promotion eligibility and discount engine.
// Every function is a pure computation over an immutable catalog snapshot and
// an order draft; nothing here touches storage or holds state between calls.
package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType identifies the fulfilment channel an order is placed through.
type OrderType string

const (
	OrderTypeDineIn    OrderType = "DINE_IN"
	OrderTypePickup    OrderType = "PICKUP"
	OrderTypeDelivery  OrderType = "DELIVERY"
	OrderTypeDriveThru OrderType = "DRIVE_THRU"
)

// Kind distinguishes flat promotions from conditional ones.
type Kind string

const (
	KindBasic    Kind = "BASIC"
	KindAdvanced Kind = "ADVANCED"
)

// DiscountType selects between an absolute amount and a percentage.
type DiscountType string

const (
	DiscountValue   DiscountType = "VALUE"
	DiscountPercent DiscountType = "PERCENT"
)

// ConditionKind is the trigger an advanced promotion checks against the cart.
type ConditionKind string

const (
	ConditionBuysQuantity ConditionKind = "BUYS_QUANTITY"
	ConditionSpendsAmount ConditionKind = "SPENDS_AMOUNT"
)

// RewardKind is what an advanced promotion grants once its condition holds.
type RewardKind string

const (
	RewardDiscountOnOrder   RewardKind = "DISCOUNT_ON_ORDER"
	RewardDiscountOnProduct RewardKind = "DISCOUNT_ON_PRODUCT"
	RewardPayFixedAmount    RewardKind = "PAY_FIXED_AMOUNT"
)

// Lifecycle is the coarse, admin-facing status derived from the date range
// only. Fine-grained weekday/time matching is WithinWindow.
type Lifecycle string

const (
	LifecycleInactive  Lifecycle = "INACTIVE"
	LifecycleExpired   Lifecycle = "EXPIRED"
	LifecycleScheduled Lifecycle = "SCHEDULED"
	LifecycleActive    Lifecycle = "ACTIVE"
)

// BasicRule holds the flat discount applied by a BASIC promotion.
type BasicRule struct {
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
}

// AdvancedRule holds the condition/reward pair of an ADVANCED promotion.
type AdvancedRule struct {
	Condition      ConditionKind
	ConditionQty   int
	ConditionSpend decimal.Decimal

	Reward        RewardKind
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	FixedAmount   decimal.Decimal
}

// Promotion is a strict, fully-typed catalog record. It is constructed once at
// the collaborator boundary (internal/catalog) and never mutated by the
// engine.
type Promotion struct {
	ID     uuid.UUID
	Name   string
	Active bool

	// StartDate and EndDate bound the promotion, date-only and inclusive.
	StartDate time.Time
	EndDate   time.Time

	// StartMinute and EndMinute are minutes since midnight. EndMinute below
	// StartMinute means the daily window wraps past midnight.
	StartMinute int
	EndMinute   int

	Days       []time.Weekday
	OrderTypes []OrderType
	Priority   *int

	// IncludeModifiers controls whether modifier prices count towards the
	// amounts a promotion's scope sees.
	IncludeModifiers bool

	Kind           Kind
	BranchIDs      []uuid.UUID
	ProductSizeIDs []uuid.UUID
	CustomerTagIDs []uuid.UUID

	Basic    *BasicRule
	Advanced *AdvancedRule
}

// Validate checks the field-group invariant: exactly one of the BASIC or
// ADVANCED rule groups is populated and it matches Kind. Violations surface as
// ErrMalformedPromotion so callers can exclude the record fail-closed.
func (p Promotion) Validate() error {
	switch p.Kind {
	case KindBasic:
		if p.Basic == nil || p.Advanced != nil {
			return malformed(p.ID, "basic promotion must carry exactly the basic rule group")
		}
		if p.Basic.DiscountType != DiscountValue && p.Basic.DiscountType != DiscountPercent {
			return malformed(p.ID, "unknown basic discount type %q", p.Basic.DiscountType)
		}
		if p.Basic.DiscountValue.IsNegative() {
			return malformed(p.ID, "basic discount value must not be negative")
		}
	case KindAdvanced:
		if p.Advanced == nil || p.Basic != nil {
			return malformed(p.ID, "advanced promotion must carry exactly the advanced rule group")
		}
		switch p.Advanced.Condition {
		case ConditionBuysQuantity, ConditionSpendsAmount:
		default:
			return malformed(p.ID, "unknown condition kind %q", p.Advanced.Condition)
		}
		switch p.Advanced.Reward {
		case RewardDiscountOnOrder, RewardDiscountOnProduct:
			if p.Advanced.DiscountType != DiscountValue && p.Advanced.DiscountType != DiscountPercent {
				return malformed(p.ID, "unknown reward discount type %q", p.Advanced.DiscountType)
			}
		case RewardPayFixedAmount:
			if p.Advanced.FixedAmount.IsNegative() {
				return malformed(p.ID, "fixed amount must not be negative")
			}
		default:
			return malformed(p.ID, "unknown reward kind %q", p.Advanced.Reward)
		}
	default:
		return malformed(p.ID, "unknown promotion kind %q", p.Kind)
	}
	if p.StartMinute < 0 || p.StartMinute >= minutesPerDay || p.EndMinute < 0 || p.EndMinute >= minutesPerDay {
		return malformed(p.ID, "time window minutes out of range")
	}
	return nil
}

// PriorityValue resolves the stacking priority; promotions without one sort
// lowest.
func (p Promotion) PriorityValue() int {
	if p.Priority == nil {
		return 0
	}
	return *p.Priority
}

// OrderContext describes the order draft being priced: where and how it is
// placed, and when, resolved to the branch's local clock.
type OrderContext struct {
	BranchID       uuid.UUID
	OrderType      OrderType
	PlacedAt       time.Time
	CustomerTagIDs []uuid.UUID
}

// CartLine is one priced line of the order draft. UnitPriceGross and
// ModifierPriceGross are tax-inclusive; ModifierPriceGross is the per-unit sum
// of the selected modifiers.
type CartLine struct {
	ID                 uuid.UUID
	ProductSizeID      uuid.UUID
	Qty                int
	UnitPriceGross     decimal.Decimal
	TaxRate            decimal.Decimal
	ModifierIDs        []uuid.UUID
	ModifierPriceGross decimal.Decimal
}

// GrossAmount returns the line's tax-inclusive amount as seen by a promotion
// scope. Modifier prices are only counted when the promotion opts in.
func (l CartLine) GrossAmount(includeModifiers bool) decimal.Decimal {
	unit := l.UnitPriceGross
	if includeModifiers {
		unit = unit.Add(l.ModifierPriceGross)
	}
	return unit.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// TotalGross is the full tax-inclusive amount of the line, modifiers included.
// Order totals always charge modifiers; IncludeModifiers only narrows what a
// promotion's condition and reward see.
func (l CartLine) TotalGross() decimal.Decimal {
	return l.GrossAmount(true)
}

func containsUUID(set []uuid.UUID, id uuid.UUID) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

func intersectsUUID(a, b []uuid.UUID) bool {
	for _, v := range a {
		if containsUUID(b, v) {
			return true
		}
	}
	return false
}
