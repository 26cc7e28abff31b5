package services

import (
	"bytes"
	"context"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/server/models"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/blob"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/dataset"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName replaces everything outside a restricted character set
// with underscores. The sanitized name is only the display name; the
// stored file is named after the attachment id.
func SanitizeFileName(name string) string {
	return unsafeFileNameChars.ReplaceAllString(name, "_")
}

func fileExtension(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// ClassifyAttachment derives the attachment kind from the file name and
// declared MIME type. Files outside image/pdf/csv are rejected upstream.
func ClassifyAttachment(fileName, mimeType string) (models.AttachmentKind, bool) {
	ext := fileExtension(fileName)
	mime := strings.ToLower(mimeType)

	imageExts := map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true}
	csvMimes := map[string]bool{"text/csv": true, "application/csv": true, "application/vnd.ms-excel": true}

	switch {
	case strings.HasPrefix(mime, "image/") || imageExts[ext]:
		return models.KindImage, true
	case mime == "application/pdf" || ext == "pdf":
		return models.KindPDF, true
	case csvMimes[mime] || ext == "csv":
		return models.KindCSV, true
	}
	return "", false
}

// AttachmentService stores, serves and removes uploaded files tied to an
// observation. Raw bytes live in the blob store; metadata lives on the
// observation record.
type AttachmentService struct {
	store dataset.Store
	blobs blob.Store
}

func NewAttachmentService(store dataset.Store, blobs blob.Store) *AttachmentService {
	return &AttachmentService{store: store, blobs: blobs}
}

// Upload classifies and persists a file, then prepends the attachment
// metadata to the owning observation.
func (s *AttachmentService) Upload(ctx context.Context, userID, observationID, fileName, mimeType string, data []byte) (*models.Attachment, error) {
	if len(data) == 0 {
		return nil, common.NewValidationError("file must not be empty", "file")
	}
	if fileName == "" {
		fileName = "attachment"
	}

	kind, ok := ClassifyAttachment(fileName, mimeType)
	if !ok {
		return nil, common.NewValidationError("Only image/PDF/CSV files are allowed", "file")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	attachmentID := uuid.NewString()
	storedName := attachmentID
	if ext := fileExtension(fileName); ext != "" {
		storedName = attachmentID + "." + ext
	}
	storagePath := path.Join("attachments", userID, observationID, storedName)

	attachment := models.Attachment{
		ID:            attachmentID,
		ObservationID: observationID,
		UserID:        userID,
		FileName:      SanitizeFileName(fileName),
		MimeType:      mimeType,
		Size:          int64(len(data)),
		Kind:          kind,
		StoragePath:   storagePath,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.blobs.Write(ctx, storagePath, bytes.NewReader(data)); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, func(d *models.Dataset) error {
		current, err := findObservation(d, userID, observationID)
		if err != nil {
			return err
		}
		current.Attachments = append([]models.Attachment{attachment}, current.Attachments...)
		current.UpdatedAt = time.Now().UTC()
		replaceObservation(d, *current)
		return nil
	})
	if err != nil {
		// keep the tree consistent with the metadata
		_ = s.blobs.Delete(ctx, storagePath)
		return nil, err
	}

	return &attachment, nil
}

// Read returns the attachment metadata and its raw bytes.
func (s *AttachmentService) Read(ctx context.Context, userID, observationID, attachmentID string) (*models.Attachment, []byte, error) {
	d, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	current, err := findObservation(d, userID, observationID)
	if err != nil {
		return nil, nil, err
	}
	for _, a := range current.Attachments {
		if a.ID == attachmentID {
			data, err := s.blobs.Read(ctx, a.StoragePath)
			if err != nil {
				return nil, nil, err
			}
			item := a
			return &item, data, nil
		}
	}
	return nil, nil, common.NewNotFoundError("Attachment not found")
}

// Remove deletes one attachment's file and drops its metadata from the
// observation. Removing an already-missing file is not an error.
func (s *AttachmentService) Remove(ctx context.Context, userID, observationID, attachmentID string) error {
	var storagePath string

	err := s.store.Update(ctx, func(d *models.Dataset) error {
		current, err := findObservation(d, userID, observationID)
		if err != nil {
			return err
		}
		idx := -1
		for i, a := range current.Attachments {
			if a.ID == attachmentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return common.NewNotFoundError("Attachment not found")
		}
		storagePath = current.Attachments[idx].StoragePath
		current.Attachments = append(current.Attachments[:idx], current.Attachments[idx+1:]...)
		current.UpdatedAt = time.Now().UTC()
		replaceObservation(d, *current)
		return nil
	})
	if err != nil {
		return err
	}

	return s.blobs.Delete(ctx, storagePath)
}
