package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"draftline/internal/models"
	"draftline/internal/observability"
)

// PostRepository defines persistence operations for generated posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.GeneratedPost) error
	GetByID(ctx context.Context, id, profileID string) (*models.GeneratedPost, error)
	List(ctx context.Context, profileID string, limit, offset int) ([]models.GeneratedPost, error)
	Update(ctx context.Context, post *models.GeneratedPost) error
	Delete(ctx context.Context, id, profileID string) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.GeneratedPost) error {
	defer observability.TrackQuery("insert", "generated_posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id, profileID string) (*models.GeneratedPost, error) {
	defer observability.TrackQuery("select", "generated_posts")()

	var post models.GeneratedPost
	err := r.db.WithContext(ctx).
		Preload("Document").
		Preload("SelectedImage").
		Where("id = ? AND profile_id = ?", id, profileID).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, profileID string, limit, offset int) ([]models.GeneratedPost, error) {
	defer observability.TrackQuery("select", "generated_posts")()

	var posts []models.GeneratedPost
	err := r.db.WithContext(ctx).
		Preload("Document").
		Preload("SelectedImage").
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.GeneratedPost) error {
	defer observability.TrackQuery("update", "generated_posts")()

	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id, profileID string) error {
	defer observability.TrackQuery("delete", "generated_posts")()

	res := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", id, profileID).
		Delete(&models.GeneratedPost{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
