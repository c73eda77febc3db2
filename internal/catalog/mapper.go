package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/promotion"
	"github.com/noah-isme/backend-pos/internal/repo"
)

var weekdayCodes = map[string]time.Weekday{
	"SUN": time.Sunday,
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
}

// MapPromotionRow converts a wire-level row into a strict promotion value.
// Any inconsistency (unparseable times, unknown enums, broken field groups)
// is reported so the caller can exclude the record fail-closed.
func MapPromotionRow(row repo.PromotionRow) (promotion.Promotion, error) {
	id := pgUUID(row.ID)

	startMinute, err := parseMinutes(row.StartTime)
	if err != nil {
		return promotion.Promotion{}, fmt.Errorf("promotion %s: start time: %w: %w", id, err, promotion.ErrMalformedPromotion)
	}
	endMinute, err := parseMinutes(row.EndTime)
	if err != nil {
		return promotion.Promotion{}, fmt.Errorf("promotion %s: end time: %w: %w", id, err, promotion.ErrMalformedPromotion)
	}

	days := make([]time.Weekday, 0, len(row.Days))
	for _, code := range row.Days {
		day, ok := weekdayCodes[strings.ToUpper(strings.TrimSpace(code))]
		if !ok {
			return promotion.Promotion{}, fmt.Errorf("promotion %s: unknown weekday %q: %w", id, code, promotion.ErrMalformedPromotion)
		}
		days = append(days, day)
	}

	orderTypes := make([]promotion.OrderType, 0, len(row.OrderTypes))
	for _, raw := range row.OrderTypes {
		switch t := promotion.OrderType(strings.ToUpper(strings.TrimSpace(raw))); t {
		case promotion.OrderTypeDineIn, promotion.OrderTypePickup, promotion.OrderTypeDelivery, promotion.OrderTypeDriveThru:
			orderTypes = append(orderTypes, t)
		default:
			return promotion.Promotion{}, fmt.Errorf("promotion %s: unknown order type %q: %w", id, raw, promotion.ErrMalformedPromotion)
		}
	}

	p := promotion.Promotion{
		ID:               id,
		Name:             row.Name,
		Active:           row.IsActive,
		StartDate:        row.StartDate.Time,
		EndDate:          row.EndDate.Time,
		StartMinute:      startMinute,
		EndMinute:        endMinute,
		Days:             days,
		OrderTypes:       orderTypes,
		IncludeModifiers: row.IncludeModifiers,
		Kind:             promotion.Kind(row.PromotionType),
		BranchIDs:        pgUUIDs(row.BranchIDs),
		ProductSizeIDs:   pgUUIDs(row.ProductSizeIDs),
		CustomerTagIDs:   pgUUIDs(row.CustomerTagIDs),
	}
	if row.Priority.Valid {
		v := int(row.Priority.Int32)
		p.Priority = &v
	}

	switch p.Kind {
	case promotion.KindBasic:
		value, err := textDecimal(row.BasicDiscountValue)
		if err != nil {
			return promotion.Promotion{}, fmt.Errorf("promotion %s: basic discount value: %w: %w", id, err, promotion.ErrMalformedPromotion)
		}
		p.Basic = &promotion.BasicRule{
			DiscountType:  promotion.DiscountType(textOr(row.BasicDiscountType, "")),
			DiscountValue: value,
		}
	case promotion.KindAdvanced:
		spend, err := textDecimal(row.ConditionSpend)
		if err != nil {
			return promotion.Promotion{}, fmt.Errorf("promotion %s: condition spend: %w: %w", id, err, promotion.ErrMalformedPromotion)
		}
		rewardValue, err := textDecimal(row.RewardDiscountValue)
		if err != nil {
			return promotion.Promotion{}, fmt.Errorf("promotion %s: reward value: %w: %w", id, err, promotion.ErrMalformedPromotion)
		}
		fixed, err := textDecimal(row.RewardFixedAmount)
		if err != nil {
			return promotion.Promotion{}, fmt.Errorf("promotion %s: fixed amount: %w: %w", id, err, promotion.ErrMalformedPromotion)
		}
		p.Advanced = &promotion.AdvancedRule{
			Condition:      promotion.ConditionKind(textOr(row.ConditionKind, "")),
			ConditionQty:   int(row.ConditionQty.Int32),
			ConditionSpend: spend,
			Reward:         promotion.RewardKind(textOr(row.RewardKind, "")),
			DiscountType:   promotion.DiscountType(textOr(row.RewardDiscountType, "")),
			DiscountValue:  rewardValue,
			FixedAmount:    fixed,
		}
	}

	if err := p.Validate(); err != nil {
		return promotion.Promotion{}, err
	}
	return p, nil
}

// parseMinutes converts an "HH:MM" clock string into minutes since midnight.
func parseMinutes(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock string %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock string %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock string %q", clock)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock string %q out of range", clock)
	}
	return hour*60 + minute, nil
}

func textDecimal(v pgtype.Text) (decimal.Decimal, error) {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(v.String))
}

func textOr(v pgtype.Text, fallback string) string {
	if v.Valid {
		return v.String
	}
	return fallback
}

func pgUUID(v pgtype.UUID) uuid.UUID {
	return uuid.UUID(v.Bytes)
}

func pgUUIDs(values []pgtype.UUID) []uuid.UUID {
	if len(values) == 0 {
		return nil
	}
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		if v.Valid {
			out = append(out, uuid.UUID(v.Bytes))
		}
	}
	return out
}
