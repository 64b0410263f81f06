package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyswaps/learning-service/internal/events"
	"github.com/studyswaps/learning-service/internal/models"
)

func TestUploadTextFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.seedUser(t, models.RoleStudent)

	upload, err := env.manager.Revision().Upload(ctx, student.ID, &UploadRequest{
		Filename:    "notes/Photosynthesis.MD",
		ContentType: "application/octet-stream",
		Subject:     " Science ",
		Topic:       "Plants",
		Content:     []byte("  Plants make glucose from light.\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", upload.ContentType)
	assert.Equal(t, "Photosynthesis.MD", upload.OriginalName)
	assert.Equal(t, "Science", upload.Subject)
	assert.Equal(t, "Plants make glucose from light.", upload.ExtractedText)
	assert.NotEqual(t, upload.OriginalName, upload.Filename)

	uploads, err := env.manager.Revision().ListUploads(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, upload.ID, uploads[0].ID)
}

func TestUploadRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.seedUser(t, models.RoleStudent)

	tests := []struct {
		name string
		req  UploadRequest
		want error
	}{
		{
			name: "binary type",
			req:  UploadRequest{Filename: "photo.png", ContentType: "image/png", Content: []byte{0x89, 'P', 'N', 'G'}},
			want: ErrUnsupportedFileType,
		},
		{
			name: "invalid utf8",
			req:  UploadRequest{Filename: "notes.txt", ContentType: "text/plain", Content: []byte{0xff, 0xfe, 0xfd}},
			want: ErrUnsupportedFileType,
		},
		{
			name: "too large",
			req:  UploadRequest{Filename: "big.txt", ContentType: "text/plain", Content: bytes.Repeat([]byte("a"), MaxUploadBytes+1)},
			want: ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.manager.Revision().Upload(ctx, student.ID, &tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
		})
	}

	uploads, err := env.manager.Revision().ListUploads(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, uploads)
}

func TestGenerateGuideFromUpload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.seedUser(t, models.RoleStudent)
	env.gen.guide = "Key concepts\n- Chlorophyll absorbs light"

	upload, err := env.manager.Revision().Upload(ctx, student.ID, &UploadRequest{
		Filename: "plants.txt", ContentType: "text/plain", Content: []byte("Chlorophyll is green."),
	})
	require.NoError(t, err)

	guide, err := env.manager.Revision().GenerateGuide(ctx, student.ID, &RevisionGuideRequest{
		Subject:  "Science",
		Topic:    "Plants",
		KeyStage: models.KeyStage3,
		UploadID: &upload.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, env.gen.guide, guide.Content)
	require.NotNil(t, guide.FileUploadID)
	assert.Equal(t, upload.ID, *guide.FileUploadID)

	require.Len(t, env.gen.guides, 1)
	assert.Equal(t, "Chlorophyll is green.", env.gen.guides[0].SourceText)

	published := env.publisher.EventsOfType(events.EventRevisionGuideGenerated)
	require.Len(t, published, 1)
	assert.Equal(t, upload.ID, published[0].Data.(events.RevisionGuideGeneratedEvent).UploadID)

	guides, err := env.manager.Revision().ListGuides(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, guides, 1)
}

func TestGenerateGuideWithOtherUsersUploadIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, models.RoleStudent)
	other := env.seedUser(t, models.RoleStudent)

	upload, err := env.manager.Revision().Upload(ctx, owner.ID, &UploadRequest{
		Filename: "mine.txt", ContentType: "text/plain", Content: []byte("private"),
	})
	require.NoError(t, err)

	_, err = env.manager.Revision().GenerateGuide(ctx, other.ID, &RevisionGuideRequest{
		Subject: "Science", Topic: "Plants", KeyStage: models.KeyStage3, UploadID: &upload.ID,
	})
	assert.ErrorIs(t, err, ErrUploadNotFound)
	assert.Empty(t, env.gen.guides)
}
