package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyswaps/learning-service/internal/models"
)

func TestFileUploadAndRevisionGuide(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	owner := seedParent(t, db, "owner@example.com")

	uploads := NewFileUploadPostgreSQL(db)
	upload := &models.FileUpload{
		UserID:        owner.ID,
		Filename:      "abc.txt",
		OriginalName:  "notes.txt",
		ContentType:   "text/plain",
		Size:          11,
		ExtractedText: "photosynthesis",
	}
	require.NoError(t, uploads.Create(ctx, nil, upload))

	got, err := uploads.GetByID(ctx, nil, upload.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", got.OriginalName)

	list, err := uploads.ListByUser(ctx, nil, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	guides := NewRevisionGuidePostgreSQL(db)
	require.NoError(t, guides.Create(ctx, nil, &models.RevisionGuide{
		UserID:       owner.ID,
		Subject:      "Biology",
		Topic:        "Plants",
		KeyStage:     models.KeyStage3,
		FileUploadID: &upload.ID,
		Content:      "Key concepts...",
	}))

	guideList, err := guides.ListByUser(ctx, nil, owner.ID)
	require.NoError(t, err)
	require.Len(t, guideList, 1)
	assert.Equal(t, upload.ID, *guideList[0].FileUploadID)
}

func TestRepositoryManager(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.Ping(context.Background()))
	assert.NotNil(t, repo.User())
	assert.NotNil(t, repo.Assessment())
	assert.NotNil(t, repo.UserStats())
	assert.NotNil(t, repo.FileUpload())
	assert.NotNil(t, repo.RevisionGuide())
}
