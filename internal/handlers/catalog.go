package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jwebster45206/wild-trails/pkg/content"
)

// CollectibleView adds the derived rarity to a collectible.
type CollectibleView struct {
	content.Collectible
	Rarity content.Rarity `json:"rarity"`
}

func newCollectibleView(c content.Collectible) CollectibleView {
	return CollectibleView{Collectible: c, Rarity: c.Rarity()}
}

// CatalogHandler serves the read-only event graph and collectible list.
type CatalogHandler struct {
	catalog *content.Catalog
	logger  *slog.Logger
}

func NewCatalogHandler(catalog *content.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// ServeHTTP handles catalog requests
// Routes:
// GET /v1/events             - List events
// GET /v1/events/{id}        - Read one event
// GET /v1/collectibles       - List collectibles
// GET /v1/collectibles/{id}  - Read one collectible
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1")
	resource, rawID, _ := strings.Cut(strings.Trim(path, "/"), "/")

	var id int
	if rawID != "" {
		var err error
		id, err = strconv.Atoi(rawID)
		if err != nil || id <= 0 {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid id format")
			return
		}
	}

	switch resource {
	case "events":
		if rawID == "" {
			writeJSON(w, h.logger, http.StatusOK, h.catalog.Events())
			return
		}
		ev, err := h.catalog.Event(id)
		if err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, ev)

	case "collectibles":
		if rawID == "" {
			items := h.catalog.Collectibles()
			views := make([]CollectibleView, 0, len(items))
			for _, item := range items {
				views = append(views, newCollectibleView(item))
			}
			writeJSON(w, h.logger, http.StatusOK, views)
			return
		}
		item, err := h.catalog.Collectible(id)
		if err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, newCollectibleView(item))

	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}
