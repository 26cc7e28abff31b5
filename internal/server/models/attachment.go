package models

import "time"

// AttachmentKind is the detected file category governing storage and
// rendering disposition. It is derived from the file, never declared.
type AttachmentKind string

const (
	KindImage AttachmentKind = "image"
	KindPDF   AttachmentKind = "pdf"
	KindCSV   AttachmentKind = "csv"
)

// Attachment is the metadata of an uploaded file belonging to exactly one
// observation. The raw bytes live in the blob store under StoragePath.
type Attachment struct {
	ID            string         `json:"id"`
	ObservationID string         `json:"observationId"`
	UserID        string         `json:"userId"`
	FileName      string         `json:"fileName"`
	MimeType      string         `json:"mimeType"`
	Size          int64          `json:"size"`
	Kind          AttachmentKind `json:"kind"`
	StoragePath   string         `json:"storagePath"`
	CreatedAt     time.Time      `json:"createdAt"`
}
