package catalog

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pos/internal/common"
)

// Handler exposes the admin-facing promotion status endpoint.
type Handler struct {
	Svc    *Service
	Logger zerolog.Logger
}

// Status handles GET /api/v1/admin/promotions/status. It serves the cached
// status index, recomputing it on a cache miss.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	entries, err := h.Svc.StatusIndex(r.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("status index lookup failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load promotion status", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": entries})
}
