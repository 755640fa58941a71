package meta

import (
	"encoding/json"
	"net/http"

	"github.com/pocket-lens/core/pkg/logger"
	"github.com/pocket-lens/core/pkg/models/api"
	"github.com/pocket-lens/core/pkg/services"
)

// Handler serves the published meta snapshot
type Handler struct {
	metaService *services.MetaService
	logger      *logger.Logger
}

// NewHandler creates a new meta handler
func NewHandler(metaService *services.MetaService, log *logger.Logger) *Handler {
	return &Handler{
		metaService: metaService,
		logger:      log,
	}
}

// Snapshot handles GET /api/meta
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.metaService.LoadSnapshot()
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("action", "snapshot_unavailable").
			Msg("Meta snapshot not available")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "meta snapshot not available"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		h.logger.Error().
			Err(err).
			Str("action", "encode_failed").
			Msg("Failed to encode meta snapshot")
	}
}
