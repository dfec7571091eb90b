package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"draftline/internal/models"
	"draftline/internal/observability"
)

// ProfileRepository defines persistence operations for writing profiles and
// their sample posts.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	GetByID(ctx context.Context, id string, userID uint) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	AddSamplePost(ctx context.Context, post *models.SamplePost) error
	DeleteSamplePost(ctx context.Context, profileID, samplePostID string) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("insert", "profiles")()

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Profile already exists for this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	defer observability.TrackQuery("select", "profiles")()

	var profile models.Profile
	err := r.db.WithContext(ctx).
		Preload("SamplePosts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string, userID uint) (*models.Profile, error) {
	defer observability.TrackQuery("select", "profiles")()

	var profile models.Profile
	err := r.db.WithContext(ctx).
		Preload("SamplePosts").
		Where("id = ? AND user_id = ?", id, userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("update", "profiles")()

	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) AddSamplePost(ctx context.Context, post *models.SamplePost) error {
	defer observability.TrackQuery("insert", "sample_posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) DeleteSamplePost(ctx context.Context, profileID, samplePostID string) error {
	defer observability.TrackQuery("delete", "sample_posts")()

	res := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", samplePostID, profileID).
		Delete(&models.SamplePost{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Sample post", samplePostID)
	}
	return nil
}
