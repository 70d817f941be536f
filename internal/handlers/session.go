package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/wild-trails/internal/logger"
	"github.com/jwebster45206/wild-trails/pkg/content"
	"github.com/jwebster45206/wild-trails/pkg/engine"
	"github.com/jwebster45206/wild-trails/pkg/game"
)

// ChoiceRequest selects a branch of the current event.
type ChoiceRequest struct {
	Choice *int `json:"choice" validate:"required,min=0,max=1"`
}

// SpendRequest deducts currency from the session.
type SpendRequest struct {
	Amount *int `json:"amount" validate:"required,min=0"`
}

// InventoryRequest adds or removes a session item.
type InventoryRequest struct {
	ItemID int    `json:"item_id" validate:"required,gt=0"`
	Action string `json:"action" validate:"required,oneof=add remove"`
}

// EventResponse is the current event plus the session status.
type EventResponse struct {
	Event  *content.EventNode `json:"event,omitempty"`
	Status game.Status        `json:"status"`
}

// ChoiceResponse is a resolved choice plus the session status after it.
type ChoiceResponse struct {
	Resolution *engine.Resolution `json:"resolution"`
	Status     game.Status        `json:"status"`
}

type SessionHandler struct {
	games  *game.Manager
	logger *slog.Logger
}

func NewSessionHandler(games *game.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{games: games, logger: logger}
}

// ServeHTTP handles HTTP requests for player sessions
// Routes:
// POST /v1/sessions                 - Create a new profile
// GET /v1/sessions/{id}             - Session status
// GET /v1/sessions/{id}/event       - Current event
// POST /v1/sessions/{id}/choice     - Resolve a choice on the current event
// POST /v1/sessions/{id}/reset      - Start a new run, keeping the collection
// POST /v1/sessions/{id}/spend      - Spend currency
// POST /v1/sessions/{id}/inventory  - Add or remove a session item
// GET /v1/sessions/{id}/journey     - Journey log snapshot
// GET /v1/sessions/{id}/collection  - Unlocked collectibles
// DELETE /v1/sessions/{id}          - Erase all progress
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	idStr, action, _ := strings.Cut(path, "/")
	profileID, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid profile ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid profile ID format")
		return
	}

	g, err := h.games.Get(r.Context(), profileID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	log := logger.WithProfile(h.logger, profileID.String())

	switch {
	case action == "" && r.Method == http.MethodGet:
		writeJSON(w, log, http.StatusOK, g.Status())
	case action == "" && r.Method == http.MethodDelete:
		h.handleEraseAll(w, r, g, log)
	case action == "event" && r.Method == http.MethodGet:
		h.handleEvent(w, g, log)
	case action == "choice" && r.Method == http.MethodPost:
		h.handleChoice(w, r, g, log)
	case action == "reset" && r.Method == http.MethodPost:
		g.Reset()
		h.handleEvent(w, g, log)
	case action == "spend" && r.Method == http.MethodPost:
		h.handleSpend(w, r, g, log)
	case action == "inventory" && r.Method == http.MethodPost:
		h.handleInventory(w, r, g, log)
	case action == "journey" && r.Method == http.MethodGet:
		writeJSON(w, log, http.StatusOK, g.Snapshot())
	case action == "collection" && r.Method == http.MethodGet:
		items := g.Collected()
		views := make([]CollectibleView, 0, len(items))
		for _, item := range items {
			views = append(views, newCollectibleView(item))
		}
		writeJSON(w, log, http.StatusOK, views)
	case action == "" || isSessionAction(action):
		writeError(w, log, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(w, log, http.StatusNotFound, "Not found")
	}
}

func isSessionAction(action string) bool {
	switch action {
	case "event", "choice", "reset", "spend", "inventory", "journey", "collection", "review":
		return true
	}
	return false
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.Create(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, g.Status())
}

func (h *SessionHandler) handleEvent(w http.ResponseWriter, g *game.Game, log *slog.Logger) {
	resp := EventResponse{Status: g.Status()}
	ev, err := g.CurrentEvent()
	if err == nil {
		resp.Event = &ev
	} else if statusFor(err) != http.StatusConflict {
		writeDomainError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, resp)
}

func (h *SessionHandler) handleChoice(w http.ResponseWriter, r *http.Request, g *game.Game, log *slog.Logger) {
	var req ChoiceRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	res, err := g.Choose(*req.Choice)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, ChoiceResponse{Resolution: res, Status: g.Status()})
}

func (h *SessionHandler) handleSpend(w http.ResponseWriter, r *http.Request, g *game.Game, log *slog.Logger) {
	var req SpendRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	if err := g.Spend(*req.Amount); err != nil {
		writeDomainError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, g.Status())
}

func (h *SessionHandler) handleInventory(w http.ResponseWriter, r *http.Request, g *game.Game, log *slog.Logger) {
	var req InventoryRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	var err error
	if req.Action == "add" {
		_, err = g.AddItem(req.ItemID)
	} else {
		_, err = g.RemoveItem(req.ItemID)
	}
	if err != nil {
		writeDomainError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, g.Status())
}

func (h *SessionHandler) handleEraseAll(w http.ResponseWriter, r *http.Request, g *game.Game, log *slog.Logger) {
	if err := g.EraseAll(r.Context()); err != nil {
		writeDomainError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, g.Status())
}
