package tournaments

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/pocket-lens/core/pkg/cache"
	"github.com/pocket-lens/core/pkg/logger"
	"github.com/pocket-lens/core/pkg/models/api"
)

var tournamentIDPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// Handler serves cached tournaments read-only
type Handler struct {
	store  *cache.Store
	logger *logger.Logger
}

// NewHandler creates a new tournaments handler
func NewHandler(store *cache.Store, log *logger.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: log,
	}
}

// List handles GET /api/tournaments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	index, err := h.store.LoadIndex()
	if err != nil {
		h.writeError(w, "failed to load tournament index", err)
		return
	}

	response := api.TournamentListResponse{
		Count:       len(index.Tournaments),
		LastUpdated: index.LastUpdated,
		Tournaments: make([]api.TournamentSummary, 0, len(index.Tournaments)),
	}

	for _, id := range index.Tournaments {
		t, err := h.store.LoadTournament(id)
		if err != nil {
			// Index may be ahead of the working tree mid-sync.
			continue
		}
		response.Tournaments = append(response.Tournaments, api.TournamentSummary{
			ID:          t.ID,
			Name:        t.Name,
			Timestamp:   t.Timestamp,
			PlayerCount: t.PlayerCount,
		})
	}

	h.writeJSON(w, response)
}

// Get handles GET /api/tournaments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/tournaments/")
	if !tournamentIDPattern.MatchString(id) {
		h.writeStatus(w, http.StatusBadRequest, "invalid tournament id")
		return
	}

	t, err := h.store.LoadTournament(id)
	if err != nil {
		h.writeStatus(w, http.StatusNotFound, "tournament not found")
		return
	}

	h.writeJSON(w, t)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().
			Err(err).
			Str("action", "encode_failed").
			Msg("Failed to encode response")
	}
}

func (h *Handler) writeStatus(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: message})
}

func (h *Handler) writeError(w http.ResponseWriter, message string, err error) {
	h.logger.Error().
		Err(err).
		Str("action", "handler_error").
		Msg(message)
	h.writeStatus(w, http.StatusInternalServerError, message)
}
