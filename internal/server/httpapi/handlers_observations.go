package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/server/models"
	"github.com/dmitrijs2005/obslog/internal/server/services"
)

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

type listResponse struct {
	Items []models.Observation `json:"items"`
	Meta  services.PageMeta    `json:"meta"`
}

func (h *Handlers) handleListObservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := services.ObservationFilters{
		Q:          q.Get("q"),
		Status:     q.Get("status"),
		Confidence: q.Get("confidence"),
		ProjectID:  q.Get("projectId"),
		Tag:        q.Get("tag"),
		DateFrom:   q.Get("dateFrom"),
		DateTo:     q.Get("dateTo"),
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	}
	page := parsePositiveInt(q.Get("page"), 1)
	perPage := parsePositiveInt(q.Get("perPage"), 20)

	items, meta, err := h.observations.List(r.Context(), userID(r), filters, page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Meta: meta})
}

func (h *Handlers) handleCreateObservation(w http.ResponseWriter, r *http.Request) {
	var input models.ObservationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, common.NewValidationError("Invalid JSON body"))
		return
	}

	item, err := h.observations.Create(r.Context(), userID(r), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]*models.Observation{"item": item})
}

func (h *Handlers) handleGetObservation(w http.ResponseWriter, r *http.Request) {
	item, err := h.observations.Get(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.Observation{"item": item})
}

func (h *Handlers) handleUpdateObservation(w http.ResponseWriter, r *http.Request) {
	var input models.ObservationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, common.NewValidationError("Invalid JSON body"))
		return
	}

	item, err := h.observations.Update(r.Context(), userID(r), mux.Vars(r)["id"], input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.Observation{"item": item})
}

func (h *Handlers) handleDeleteObservation(w http.ResponseWriter, r *http.Request) {
	if err := h.observations.Delete(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) handleExportObservation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	item, err := h.observations.Get(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	markdown := services.ObservationMarkdown(*item)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=observation-%s.md", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(markdown))
}
