package promotion

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Resolution is the outcome of resolving the promotion catalog against one
// order draft. Promotions never stack: at most one promotion is applied.
type Resolution struct {
	AppliedPromotionID *uuid.UUID
	Discount           decimal.Decimal
	AffectedLineIDs    []uuid.UUID
}

// Skipped records a promotion that was excluded because its record was
// malformed. Resolution continues without it.
type Skipped struct {
	PromotionID uuid.UUID
	Err         error
}

// Resolve filters the catalog to promotions that are eligible for the order
// context and whose condition the cart satisfies, computes each reward, and
// selects a single winner: highest priority first (absent priority counts as
// zero), smallest id on ties. A catalog with no qualifying promotion resolves
// to a zero discount, never an error.
func Resolve(catalog []Promotion, ctx OrderContext, lines []CartLine) (Resolution, []Skipped) {
	var (
		winner    *Promotion
		winnerRes Result
		skipped   []Skipped
	)
	for i := range catalog {
		p := catalog[i]
		ok, err := Eligible(p, ctx)
		if err != nil {
			skipped = append(skipped, Skipped{PromotionID: p.ID, Err: err})
			continue
		}
		if !ok || !Satisfies(p, lines) {
			continue
		}
		res, err := Reward(p, lines)
		if err != nil {
			skipped = append(skipped, Skipped{PromotionID: p.ID, Err: err})
			continue
		}
		if winner == nil || beats(p, *winner) {
			winner = &catalog[i]
			winnerRes = res
		}
	}
	if winner == nil {
		return Resolution{Discount: decimal.Zero}, skipped
	}
	id := winner.ID
	return Resolution{
		AppliedPromotionID: &id,
		Discount:           winnerRes.Discount,
		AffectedLineIDs:    winnerRes.AffectedLineIDs,
	}, skipped
}

// beats reports whether a should win over b: higher priority, then smaller id
// for a deterministic, stable tie-break.
func beats(a, b Promotion) bool {
	if a.PriorityValue() != b.PriorityValue() {
		return a.PriorityValue() > b.PriorityValue()
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}
