package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/wild-trails/internal/logger"
	"github.com/jwebster45206/wild-trails/internal/services"
	"github.com/jwebster45206/wild-trails/pkg/game"
)

// ReviewHandler asks the summarizer for a review of a session's journey.
// The game state is read once and never modified by the result.
type ReviewHandler struct {
	games      *game.Manager
	summarizer services.Summarizer
	logger     *slog.Logger
}

func NewReviewHandler(games *game.Manager, summarizer services.Summarizer, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		games:      games,
		summarizer: summarizer,
		logger:     logger,
	}
}

// ServeHTTP handles POST /v1/sessions/{id}/review. It waits for the
// summarizer until the client goes away.
func (h *ReviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	profileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid profile ID format")
		return
	}

	g, err := h.games.Get(r.Context(), profileID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	log := logger.WithProfile(h.logger, profileID.String())

	select {
	case result := <-g.RequestReview(r.Context(), h.summarizer):
		if r.Context().Err() != nil {
			log.Info("Review abandoned by client", "error", r.Context().Err())
			return
		}
		if result.Err != nil {
			log.Warn("Review failed", "error", result.Err)
			writeDomainError(w, log, result.Err)
			return
		}
		writeJSON(w, log, http.StatusOK, result.Response)
	case <-r.Context().Done():
		log.Info("Review abandoned by client", "error", r.Context().Err())
	}
}
