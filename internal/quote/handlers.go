// Package quote exposes the pricing engine over HTTP. A quote is a pure
// computation: nothing is persisted, so the endpoint can be called on every
// cart change.
package quote

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/catalog"
	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/pricing"
	"github.com/noah-isme/backend-pos/internal/promotion"
)

// Handler computes order totals for a cart draft.
type Handler struct {
	Catalog  *catalog.Service
	Logger   zerolog.Logger
	Validate *validator.Validate
	Now      func() time.Time
}

type quoteRequest struct {
	BranchID       string      `json:"branchId" validate:"required,uuid"`
	OrderType      string      `json:"orderType" validate:"required,oneof=DINE_IN PICKUP DELIVERY DRIVE_THRU"`
	PlacedAt       *time.Time  `json:"placedAt"`
	CustomerTagIDs []string    `json:"customerTagIds" validate:"dive,uuid"`
	Lines          []quoteLine `json:"lines" validate:"dive"`
}

type quoteLine struct {
	ID                 string   `json:"id" validate:"omitempty,uuid"`
	ProductSizeID      string   `json:"productSizeId" validate:"required,uuid"`
	Qty                int      `json:"qty" validate:"required,min=1"`
	UnitPriceGross     string   `json:"unitPriceGross" validate:"required"`
	TaxRate            *string  `json:"taxRate"`
	ModifierIDs        []string `json:"modifierIds" validate:"dive,uuid"`
	ModifierPriceGross string   `json:"modifierPriceGross"`
}

type quoteResponse struct {
	Totals  pricing.Totals `json:"totals"`
	Skipped []skippedPromo `json:"skippedPromotions,omitempty"`
}

type skippedPromo struct {
	PromotionID uuid.UUID `json:"promotionId"`
	Reason      string    `json:"reason"`
}

// Quote handles POST /api/v1/quotes.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	start := time.Now()
	var payload quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.observe("bad_request", start)
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		h.observe("validation_error", start)
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid quote request", validationDetails(err))
		return
	}
	branchID, err := uuid.Parse(payload.BranchID)
	if err != nil {
		h.observe("validation_error", start)
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid branch id", nil)
		return
	}

	snap, err := h.Catalog.Snapshot(r.Context(), branchID)
	if err != nil {
		h.Logger.Error().Err(err).Str("branch_id", branchID.String()).Msg("catalog snapshot failed")
		h.observe("error", start)
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load promotion catalog", nil)
		return
	}

	orderCtx := promotion.OrderContext{
		BranchID:       branchID,
		OrderType:      promotion.OrderType(payload.OrderType),
		PlacedAt:       h.placedAt(payload.PlacedAt),
		CustomerTagIDs: parseUUIDs(payload.CustomerTagIDs),
	}
	lines, err := h.buildLines(payload.Lines, snap)
	if err != nil {
		h.observe("unpriceable", start)
		common.JSONError(w, http.StatusUnprocessableEntity, "UNPROCESSABLE", "unable to price this order", nil)
		return
	}

	totals, skipped, err := pricing.ComputeOrderTotals(snap.Promotions, orderCtx, lines)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidCartLine) {
			h.observe("unpriceable", start)
			common.JSONError(w, http.StatusUnprocessableEntity, "UNPROCESSABLE", "unable to price this order", nil)
			return
		}
		h.Logger.Error().Err(err).Msg("quote computation failed")
		h.observe("error", start)
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to compute quote", nil)
		return
	}

	resp := quoteResponse{Totals: totals}
	for _, s := range skipped {
		h.Logger.Warn().Err(s.Err).Str("promotion_id", s.PromotionID.String()).Msg("promotion skipped during quote")
		resp.Skipped = append(resp.Skipped, skippedPromo{PromotionID: s.PromotionID, Reason: s.Err.Error()})
	}
	if totals.AppliedPromotionID != nil && obs.PromotionAppliedTotal != nil {
		obs.PromotionAppliedTotal.Inc()
	}
	h.observe("ok", start)
	common.JSON(w, http.StatusOK, map[string]any{"data": resp})
}

// buildLines converts wire lines into engine cart lines, falling back to the
// catalog tax rate when the payload does not carry one.
func (h *Handler) buildLines(in []quoteLine, snap catalog.Snapshot) ([]promotion.CartLine, error) {
	out := make([]promotion.CartLine, 0, len(in))
	for _, l := range in {
		sizeID, err := uuid.Parse(l.ProductSizeID)
		if err != nil {
			return nil, err
		}
		unit, err := decimal.NewFromString(l.UnitPriceGross)
		if err != nil {
			return nil, err
		}
		line := promotion.CartLine{
			ID:             lineID(l.ID),
			ProductSizeID:  sizeID,
			Qty:            l.Qty,
			UnitPriceGross: unit,
			ModifierIDs:    parseUUIDs(l.ModifierIDs),
		}
		if l.ModifierPriceGross != "" {
			mod, err := decimal.NewFromString(l.ModifierPriceGross)
			if err != nil {
				return nil, err
			}
			line.ModifierPriceGross = mod
		}
		switch {
		case l.TaxRate != nil:
			rate, err := decimal.NewFromString(*l.TaxRate)
			if err != nil {
				return nil, err
			}
			line.TaxRate = rate
		default:
			rate, ok := snap.TaxRate(sizeID)
			if !ok {
				return nil, errors.New("no tax rate configured for product size " + sizeID.String())
			}
			line.TaxRate = rate
		}
		out = append(out, line)
	}
	return out, nil
}

func (h *Handler) placedAt(at *time.Time) time.Time {
	if at != nil {
		return *at
	}
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) observe(result string, start time.Time) {
	if obs.QuoteTotal != nil {
		obs.QuoteTotal.WithLabelValues(result).Inc()
	}
	if obs.QuoteDuration != nil {
		obs.QuoteDuration.WithLabelValues(result).Observe(obs.DurationMillis(time.Since(start)))
	}
}

func lineID(raw string) uuid.UUID {
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.New()
}

func parseUUIDs(raw []string) []uuid.UUID {
	if len(raw) == 0 {
		return nil
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		if id, err := uuid.Parse(r); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
