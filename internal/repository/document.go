package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"draftline/internal/models"
	"draftline/internal/observability"
)

// DocumentRepository defines persistence operations for documents, their
// extracted images, and their analyses. All lookups are scoped by the owning
// profile so a foreign ID behaves exactly like a missing one.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id, profileID string) (*models.Document, error)
	List(ctx context.Context, profileID string, limit, offset int) ([]models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	ListImages(ctx context.Context, documentID, profileID string) ([]models.ExtractedImage, error)
	GetImage(ctx context.Context, imageID, profileID string) (*models.ExtractedImage, error)
	UpsertAnalysis(ctx context.Context, analysis *models.ContentAnalysis) error
	GetAnalysis(ctx context.Context, documentID string) (*models.ContentAnalysis, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository returns a new DocumentRepository implementation.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	defer observability.TrackQuery("insert", "documents")()

	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id, profileID string) (*models.Document, error) {
	defer observability.TrackQuery("select", "documents")()

	var doc models.Document
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("relevance_score DESC")
		}).
		Preload("Analysis").
		Where("id = ? AND profile_id = ?", id, profileID).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Document", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context, profileID string, limit, offset int) ([]models.Document, error) {
	defer observability.TrackQuery("select", "documents")()

	var docs []models.Document
	err := r.db.WithContext(ctx).
		Preload("Analysis").
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&docs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return docs, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *models.Document) error {
	defer observability.TrackQuery("update", "documents")()

	if err := r.db.WithContext(ctx).Save(doc).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *documentRepository) ListImages(ctx context.Context, documentID, profileID string) ([]models.ExtractedImage, error) {
	defer observability.TrackQuery("select", "extracted_images")()

	// Ownership check rides on the document lookup
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ? AND profile_id = ?", documentID, profileID).
		Count(&count).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if count == 0 {
		return nil, models.NewNotFoundError("Document", documentID)
	}

	var images []models.ExtractedImage
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("relevance_score DESC").
		Find(&images).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return images, nil
}

func (r *documentRepository) GetImage(ctx context.Context, imageID, profileID string) (*models.ExtractedImage, error) {
	defer observability.TrackQuery("select", "extracted_images")()

	var image models.ExtractedImage
	err := r.db.WithContext(ctx).
		Joins("JOIN documents ON documents.id = extracted_images.document_id").
		Where("extracted_images.id = ? AND documents.profile_id = ?", imageID, profileID).
		First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Image", imageID)
		}
		return nil, models.NewInternalError(err)
	}
	return &image, nil
}

// UpsertAnalysis overwrites any existing analysis for the document. Re-running
// analysis replaces the previous result rather than accumulating versions.
func (r *documentRepository) UpsertAnalysis(ctx context.Context, analysis *models.ContentAnalysis) error {
	defer observability.TrackQuery("upsert", "content_analyses")()

	var existing models.ContentAnalysis
	err := r.db.WithContext(ctx).
		Where("document_id = ?", analysis.DocumentID).
		First(&existing).Error
	switch {
	case err == nil:
		analysis.ID = existing.ID
		analysis.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).Save(analysis).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.WithContext(ctx).Create(analysis).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	default:
		return models.NewInternalError(err)
	}
}

func (r *documentRepository) GetAnalysis(ctx context.Context, documentID string) (*models.ContentAnalysis, error) {
	defer observability.TrackQuery("select", "content_analyses")()

	var analysis models.ContentAnalysis
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		First(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Analysis", documentID)
		}
		return nil, models.NewInternalError(err)
	}
	return &analysis, nil
}
