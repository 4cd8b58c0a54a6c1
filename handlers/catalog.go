package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cinex/models"
	"cinex/services/catalog"
)

// CatalogHandler exposes the catalog store to the UI. It owns the
// string-to-typed boundary: request bodies are raw drafts, validation errors
// come back as 400s with the validator's message, and filter query params are
// parsed here so the service only ever sees typed filters.
type CatalogHandler struct {
	service *catalog.Service
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes attaches the catalog endpoints to the router.
func (h *CatalogHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/catalog/items", h.ListItems).Methods(http.MethodGet)
	r.HandleFunc("/api/catalog/items", h.CreateItem).Methods(http.MethodPost)
	r.HandleFunc("/api/catalog/items/{itemID}", h.UpdateItem).Methods(http.MethodPut)
	r.HandleFunc("/api/catalog/items/{itemID}", h.DeleteItem).Methods(http.MethodDelete)
	r.HandleFunc("/api/catalog/genres", h.ListGenres).Methods(http.MethodGet)
}

// ListItems returns the derived visible list.
// GET /api/catalog/items?q=&type=&rating=&genre=
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	items := h.service.Derive(filters)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// CreateItem validates a draft and commits it.
// POST /api/catalog/items
func (h *CatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var draft models.CatalogDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := catalog.ValidateDraft(draft); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	item := h.service.Add(catalog.DraftToInput(draft))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"item":    item,
	})
}

// UpdateItem validates a draft and applies it as a full patch to an existing
// item. Empty optional fields clear their stored values, matching the edit
// form's what-you-see-is-what-you-save behavior.
// PUT /api/catalog/items/{itemID}
func (h *CatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemID"]

	var draft models.CatalogDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := catalog.ValidateDraft(draft); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, ok := h.service.Update(itemID, catalog.DraftToPatch(draft))
	if !ok {
		jsonError(w, "item not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"item":    item,
	})
}

// DeleteItem removes an item. The store treats unknown ids as a no-op; the
// API reports 404 so a stale UI learns the reference is gone.
// DELETE /api/catalog/items/{itemID}
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemID"]

	if !h.service.Remove(itemID) {
		jsonError(w, "item not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// ListGenres returns the fixed genre options for rendering selects.
// GET /api/catalog/genres
func (h *CatalogHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"genres": models.Genres,
	})
}

// parseFilters reads the filter query params. Empty values and the literal
// "all" both mean no filter on that dimension.
func parseFilters(r *http.Request) (models.CatalogFilters, error) {
	q := r.URL.Query()

	filters := models.CatalogFilters{
		Query: q.Get("q"),
	}

	if v := q.Get("type"); v != "" && v != "all" {
		t := models.CatalogType(v)
		if !t.Valid() {
			return models.CatalogFilters{}, &filterError{"type", v}
		}
		filters.Type = t
	}

	if v := q.Get("rating"); v != "" && v != "all" {
		n, err := strconv.Atoi(v)
		if err != nil || n < models.MinRating || n > models.MaxRating {
			return models.CatalogFilters{}, &filterError{"rating", v}
		}
		filters.Rating = n
	}

	if v := q.Get("genre"); v != "" && v != "all" {
		if !models.ValidGenre(v) {
			return models.CatalogFilters{}, &filterError{"genre", v}
		}
		filters.Genre = models.Genre(v)
	}

	return filters, nil
}

type filterError struct {
	param string
	value string
}

func (e *filterError) Error() string {
	return "invalid " + e.param + " filter: " + strconv.Quote(e.value)
}
