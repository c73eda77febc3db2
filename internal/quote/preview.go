package quote

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/promotion"
)

type previewResponse struct {
	AppliedPromotionID *uuid.UUID     `json:"appliedPromotionId"`
	Discount           string         `json:"discount"`
	AffectedLineIDs    []uuid.UUID    `json:"affectedLineIds,omitempty"`
	Skipped            []skippedPromo `json:"skippedPromotions,omitempty"`
}

// Preview handles POST /api/v1/admin/promotions/preview. It dry-runs the
// resolver against a cart draft so an operator can see which promotion would
// win and why others were excluded, without issuing a customer-facing quote.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var payload quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid preview request", validationDetails(err))
		return
	}
	branchID, err := uuid.Parse(payload.BranchID)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid branch id", nil)
		return
	}

	snap, err := h.Catalog.Snapshot(r.Context(), branchID)
	if err != nil {
		h.Logger.Error().Err(err).Str("branch_id", branchID.String()).Msg("catalog snapshot failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load promotion catalog", nil)
		return
	}
	lines, err := h.buildLines(payload.Lines, snap)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "UNPROCESSABLE", "unable to price this order", nil)
		return
	}
	orderCtx := promotion.OrderContext{
		BranchID:       branchID,
		OrderType:      promotion.OrderType(payload.OrderType),
		PlacedAt:       h.placedAt(payload.PlacedAt),
		CustomerTagIDs: parseUUIDs(payload.CustomerTagIDs),
	}

	res, skipped := promotion.Resolve(snap.Promotions, orderCtx, lines)
	resp := previewResponse{
		AppliedPromotionID: res.AppliedPromotionID,
		Discount:           res.Discount.StringFixed(2),
		AffectedLineIDs:    res.AffectedLineIDs,
	}
	for _, s := range skipped {
		resp.Skipped = append(resp.Skipped, skippedPromo{PromotionID: s.PromotionID, Reason: s.Err.Error()})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": resp})
}
