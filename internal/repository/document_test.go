package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"draftline/internal/models"
)

func TestDocumentRepositoryRoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)
	profile := createTestProfile(t, db, user.ID)

	doc := &models.Document{
		ProfileID:        profile.ID,
		SourceType:       models.SourcePDF,
		OriginalFilename: "attention.pdf",
		Title:            "Attention Is All You Need",
		ExtractedText:    "full text here",
		Status:           models.DocumentUploaded,
		Images: []models.ExtractedImage{
			{PageNumber: 1, Caption: "Figure 1: Architecture", IsFigure: true, RelevanceScore: 0.9},
			{PageNumber: 6, Caption: "Table 2: BLEU", IsFigure: false, RelevanceScore: 0.3},
		},
	}
	require.NoError(t, repo.Create(ctx, doc))
	require.NotEmpty(t, doc.ID)

	got, err := repo.GetByID(ctx, doc.ID, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Attention Is All You Need", got.Title)
	require.Len(t, got.Images, 2)
	// Ordered by relevance, best first
	assert.Equal(t, "Figure 1: Architecture", got.Images[0].Caption)

	docs, err := repo.List(ctx, profile.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentRepositoryOwnershipBoundary(t *testing.T) {
	db := setupDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	stranger := createTestUser(t, db)
	ownerProfile := createTestProfile(t, db, owner.ID)
	strangerProfile := createTestProfile(t, db, stranger.ID)
	doc := createTestDocument(t, db, ownerProfile.ID)

	_, err := repo.GetByID(ctx, doc.ID, strangerProfile.ID)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	_, err = repo.ListImages(ctx, doc.ID, strangerProfile.ID)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	docs, err := repo.List(ctx, strangerProfile.ID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentRepositoryImages(t *testing.T) {
	db := setupDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)
	profile := createTestProfile(t, db, user.ID)
	doc := createTestDocument(t, db, profile.ID)

	image := &models.ExtractedImage{DocumentID: doc.ID, PageNumber: 2, Caption: "Figure 3", IsFigure: true, RelevanceScore: 0.7}
	require.NoError(t, db.Create(image).Error)

	images, err := repo.ListImages(ctx, doc.ID, profile.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)

	got, err := repo.GetImage(ctx, image.ID, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Figure 3", got.Caption)

	// Foreign profile cannot fetch the image directly either
	other := createTestProfile(t, db, createTestUser(t, db).ID)
	_, err = repo.GetImage(ctx, image.ID, other.ID)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestDocumentRepositoryUpsertAnalysisOverwrites(t *testing.T) {
	db := setupDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)
	profile := createTestProfile(t, db, user.ID)
	doc := createTestDocument(t, db, profile.ID)

	first := &models.ContentAnalysis{
		DocumentID:  doc.ID,
		CoreFinding: "first finding",
		Raw:         `{"core_finding": "first finding"}`,
	}
	require.NoError(t, repo.UpsertAnalysis(ctx, first))

	second := &models.ContentAnalysis{
		DocumentID:    doc.ID,
		CoreFinding:   "second finding",
		Raw:           `{"core_finding": "second finding"}`,
		QuotableFacts: datatypes.JSON(`["a quotable fact"]`),
	}
	require.NoError(t, repo.UpsertAnalysis(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetAnalysis(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "second finding", got.CoreFinding)

	var count int64
	require.NoError(t, db.Model(&models.ContentAnalysis{}).Where("document_id = ?", doc.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDocumentRepositoryGetAnalysisMissing(t *testing.T) {
	db := setupDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)
	profile := createTestProfile(t, db, user.ID)
	doc := createTestDocument(t, db, profile.ID)

	_, err := repo.GetAnalysis(ctx, doc.ID)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
