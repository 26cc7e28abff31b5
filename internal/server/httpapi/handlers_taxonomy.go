package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/server/models"
)

type createNameRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) handleListProjects(w http.ResponseWriter, r *http.Request) {
	items, err := h.taxonomy.ListProjects(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Project{"items": items})
}

func (h *Handlers) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body createNameRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, common.NewValidationError("Invalid JSON body"))
		return
	}

	item, err := h.taxonomy.CreateProject(r.Context(), userID(r), body.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]*models.Project{"item": item})
}

func (h *Handlers) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.taxonomy.DeleteProject(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) handleListTags(w http.ResponseWriter, r *http.Request) {
	items, err := h.taxonomy.ListTags(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Tag{"items": items})
}

func (h *Handlers) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var body createNameRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, common.NewValidationError("Invalid JSON body"))
		return
	}

	item, err := h.taxonomy.CreateTag(r.Context(), userID(r), body.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]*models.Tag{"item": item})
}

func (h *Handlers) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.taxonomy.DeleteTag(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
