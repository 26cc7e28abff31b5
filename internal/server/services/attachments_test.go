package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/server/models"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/blob"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/dataset"
)

func TestClassifyAttachment(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		want     models.AttachmentKind
		ok       bool
	}{
		{"uppercase image extension", "photo.PNG", "", models.KindImage, true},
		{"image mime wins over unknown ext", "pic.raw", "image/x-raw", models.KindImage, true},
		{"pdf extension with generic mime", "report.pdf", "application/octet-stream", models.KindPDF, true},
		{"pdf mime", "file.bin", "application/pdf", models.KindPDF, true},
		{"csv extension with text mime", "data.csv", "text/plain", models.KindCSV, true},
		{"excel csv mime", "export.dat", "application/vnd.ms-excel", models.KindCSV, true},
		{"zip rejected", "archive.zip", "application/zip", "", false},
		{"no hints rejected", "notes", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := ClassifyAttachment(tt.fileName, tt.mimeType)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "report_final_.pdf", SanitizeFileName("report final?.pdf"))
	assert.Equal(t, "a-b_c.1.csv", SanitizeFileName("a-b_c.1.csv"))
	assert.Equal(t, "___.png", SanitizeFileName("写真か.png"))
}

func newAttachmentFixture(t *testing.T) (*AttachmentService, dataset.Store, *blob.MemoryStore, models.Observation) {
	t.Helper()
	store := dataset.NewMemoryStore()
	blobs := blob.NewMemoryStore()

	obsSvc := NewObservationService(store, blobs, testLogger())
	created, err := obsSvc.Create(context.Background(), "u1", completeInput(models.StatusActive))
	require.NoError(t, err)

	return NewAttachmentService(store, blobs), store, blobs, *created
}

func TestAttachmentUpload(t *testing.T) {
	svc, store, blobs, obs := newAttachmentFixture(t)
	ctx := context.Background()

	att, err := svc.Upload(ctx, "u1", obs.ID, "my photo.png", "image/png", []byte("imgdata"))
	require.NoError(t, err)

	assert.Equal(t, "my_photo.png", att.FileName)
	assert.Equal(t, models.KindImage, att.Kind)
	assert.Equal(t, int64(7), att.Size)
	assert.True(t, strings.HasPrefix(att.StoragePath, "attachments/u1/"+obs.ID+"/"), att.StoragePath)
	assert.True(t, strings.HasSuffix(att.StoragePath, ".png"), "stored name keeps the extension")
	assert.NotContains(t, att.StoragePath, "my photo", "stored name is id-based, not the original")

	data, err := blobs.Read(ctx, att.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("imgdata"), data)

	d, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, d.Observations[0].Attachments, 1)
	assert.Equal(t, att.ID, d.Observations[0].Attachments[0].ID)
}

func TestAttachmentUpload_NewestFirst(t *testing.T) {
	svc, store, _, obs := newAttachmentFixture(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, "u1", obs.ID, "a.png", "image/png", []byte("a"))
	require.NoError(t, err)
	second, err := svc.Upload(ctx, "u1", obs.ID, "b.png", "image/png", []byte("b"))
	require.NoError(t, err)

	d, err := store.Load(ctx)
	require.NoError(t, err)
	atts := d.Observations[0].Attachments
	require.Len(t, atts, 2)
	assert.Equal(t, second.ID, atts[0].ID)
	assert.Equal(t, first.ID, atts[1].ID)
}

func TestAttachmentUpload_Rejections(t *testing.T) {
	svc, _, blobs, obs := newAttachmentFixture(t)
	ctx := context.Background()

	t.Run("empty payload", func(t *testing.T) {
		_, err := svc.Upload(ctx, "u1", obs.ID, "a.png", "image/png", nil)
		assert.True(t, errors.Is(err, common.ErrValidation))
	})

	t.Run("unsupported kind", func(t *testing.T) {
		_, err := svc.Upload(ctx, "u1", obs.ID, "archive.zip", "application/zip", []byte("z"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrValidation))
	})

	t.Run("unknown observation leaves no orphan blob", func(t *testing.T) {
		_, err := svc.Upload(ctx, "u1", "missing", "a.png", "image/png", []byte("a"))
		assert.True(t, errors.Is(err, common.ErrNotFound))

		_, err = blobs.Read(ctx, "attachments/u1/missing")
		assert.Error(t, err)
	})

	t.Run("other user's observation", func(t *testing.T) {
		_, err := svc.Upload(ctx, "u2", obs.ID, "a.png", "image/png", []byte("a"))
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}

func TestAttachmentReadAndRemove(t *testing.T) {
	svc, store, blobs, obs := newAttachmentFixture(t)
	ctx := context.Background()

	att, err := svc.Upload(ctx, "u1", obs.ID, "data.csv", "text/csv", []byte("a,b\n1,2"))
	require.NoError(t, err)

	got, data, err := svc.Read(ctx, "u1", obs.ID, att.ID)
	require.NoError(t, err)
	assert.Equal(t, att.ID, got.ID)
	assert.Equal(t, []byte("a,b\n1,2"), data)

	_, _, err = svc.Read(ctx, "u1", obs.ID, "missing")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	require.NoError(t, svc.Remove(ctx, "u1", obs.ID, att.ID))

	_, err = blobs.Read(ctx, att.StoragePath)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	d, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, d.Observations[0].Attachments)

	assert.True(t, errors.Is(svc.Remove(ctx, "u1", obs.ID, att.ID), common.ErrNotFound),
		"removing twice reports the metadata as gone")
}
