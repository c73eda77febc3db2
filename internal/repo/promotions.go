// Package repo holds the hand-written pgx queries the snapshot layer reads
// from. Rows stay in wire-level types; strict domain values are constructed
// once, in internal/catalog.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PromotionRow mirrors one promotions table row. Numeric columns are selected
// as text so the catalog mapper can parse them into exact decimals.
type PromotionRow struct {
	ID                  pgtype.UUID
	Name                string
	IsActive            bool
	StartDate           pgtype.Date
	EndDate             pgtype.Date
	StartTime           string
	EndTime             string
	Days                []string
	OrderTypes          []string
	Priority            pgtype.Int4
	IncludeModifiers    bool
	PromotionType       string
	BranchIDs           []pgtype.UUID
	ProductSizeIDs      []pgtype.UUID
	CustomerTagIDs      []pgtype.UUID
	BasicDiscountType   pgtype.Text
	BasicDiscountValue  pgtype.Text
	ConditionKind       pgtype.Text
	ConditionQty        pgtype.Int4
	ConditionSpend      pgtype.Text
	RewardKind          pgtype.Text
	RewardDiscountType  pgtype.Text
	RewardDiscountValue pgtype.Text
	RewardFixedAmount   pgtype.Text
}

// ProductSizeTaxRow links a product size to its VAT rate.
type ProductSizeTaxRow struct {
	ProductSizeID pgtype.UUID
	Rate          string
}

const promotionColumns = `
	id, name, is_active, start_date, end_date, start_time, end_time,
	days, order_types, priority, include_modifiers, promotion_type,
	branch_ids, product_size_ids, customer_tag_ids,
	basic_discount_type, basic_discount_value::text,
	condition_kind, condition_qty, condition_spend::text,
	reward_kind, reward_discount_type, reward_discount_value::text,
	reward_fixed_amount::text`

const listPromotionsByBranchSQL = `SELECT` + promotionColumns + `
FROM promotions
WHERE $1 = ANY(branch_ids)
ORDER BY id`

const listPromotionsSQL = `SELECT` + promotionColumns + `
FROM promotions
ORDER BY id`

const listProductSizeTaxRatesSQL = `SELECT ps.id, t.rate::text
FROM product_sizes ps
JOIN taxes t ON t.id = ps.tax_id`

// Promotions reads promotion catalog rows.
type Promotions struct {
	Pool *pgxpool.Pool
}

// ListByBranch returns every promotion whose branch scope contains the branch.
func (r Promotions) ListByBranch(ctx context.Context, branchID pgtype.UUID) ([]PromotionRow, error) {
	rows, err := r.Pool.Query(ctx, listPromotionsByBranchSQL, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPromotionRows(rows)
}

// List returns the whole promotion catalog, used by the status refresher.
func (r Promotions) List(ctx context.Context) ([]PromotionRow, error) {
	rows, err := r.Pool.Query(ctx, listPromotionsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPromotionRows(rows)
}

// ListProductSizeTaxRates returns the tax rate for every product size.
func (r Promotions) ListProductSizeTaxRates(ctx context.Context) ([]ProductSizeTaxRow, error) {
	rows, err := r.Pool.Query(ctx, listProductSizeTaxRatesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ProductSizeTaxRow, 0)
	for rows.Next() {
		var row ProductSizeTaxRow
		if err := rows.Scan(&row.ProductSizeID, &row.Rate); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanPromotionRows(rows pgx.Rows) ([]PromotionRow, error) {
	out := make([]PromotionRow, 0)
	for rows.Next() {
		var row PromotionRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.IsActive, &row.StartDate, &row.EndDate,
			&row.StartTime, &row.EndTime, &row.Days, &row.OrderTypes,
			&row.Priority, &row.IncludeModifiers, &row.PromotionType,
			&row.BranchIDs, &row.ProductSizeIDs, &row.CustomerTagIDs,
			&row.BasicDiscountType, &row.BasicDiscountValue,
			&row.ConditionKind, &row.ConditionQty, &row.ConditionSpend,
			&row.RewardKind, &row.RewardDiscountType, &row.RewardDiscountValue,
			&row.RewardFixedAmount,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
