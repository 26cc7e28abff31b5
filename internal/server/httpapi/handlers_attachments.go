package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/server/models"
)

// maxUploadBytes caps multipart uploads held in memory.
const maxUploadBytes = 32 << 20

func (h *Handlers) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, common.NewValidationError("file is required", "file"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, common.NewValidationError("file is required", "file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, err)
		return
	}

	attachment, err := h.attachments.Upload(r.Context(), userID(r), mux.Vars(r)["id"],
		header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.Attachment{"attachment": attachment})
}

// handleGetAttachment serves the raw bytes. CSV always forces an
// attachment disposition; images and PDFs render inline.
func (h *Handlers) handleGetAttachment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	attachment, data, err := h.attachments.Read(r.Context(), userID(r), vars["id"], vars["attachmentId"])
	if err != nil {
		writeError(w, err)
		return
	}

	disposition := "inline"
	if attachment.Kind == models.KindCSV {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", attachment.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, attachment.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handlers) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.attachments.Remove(r.Context(), userID(r), vars["id"], vars["attachmentId"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
