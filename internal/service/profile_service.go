// Package service implements the business logic between handlers and
// repositories.
package service

import (
	"context"
	"strings"

	"draftline/internal/models"
	"draftline/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

type UpdateProfileInput struct {
	Name               *string `json:"name"`
	Headline           *string `json:"headline"`
	Industry           *string `json:"industry"`
	Tone               *string `json:"tone"`
	PostLength         *string `json:"post_length"`
	IncludeEmojis      *bool   `json:"include_emojis"`
	IncludeHashtags    *bool   `json:"include_hashtags"`
	CustomInstructions *string `json:"custom_instructions"`
}

type AddSamplePostInput struct {
	Content         string `json:"content"`
	EngagementNotes string `json:"engagement_notes"`
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// GetOwn returns the caller's writing profile with its sample posts.
func (s *ProfileService) GetOwn(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// CreateDefault provisions the profile every account gets at registration.
func (s *ProfileService) CreateDefault(ctx context.Context, userID uint, name string) (*models.Profile, error) {
	profile := &models.Profile{
		UserID: userID,
		Name:   name,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update applies partial changes to the caller's profile. Unknown tones and
// lengths are rejected rather than stored.
func (s *ProfileService) Update(ctx context.Context, userID uint, input UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Tone != nil {
		if !models.ValidTone(*input.Tone) {
			return nil, models.NewValidationError("Invalid tone preference")
		}
		profile.Tone = *input.Tone
	}
	if input.PostLength != nil {
		if !models.ValidLength(*input.PostLength) {
			return nil, models.NewValidationError("Invalid post length preference")
		}
		profile.PostLength = *input.PostLength
	}
	if input.Name != nil {
		profile.Name = strings.TrimSpace(*input.Name)
	}
	if input.Headline != nil {
		profile.Headline = strings.TrimSpace(*input.Headline)
	}
	if input.Industry != nil {
		profile.Industry = strings.TrimSpace(*input.Industry)
	}
	if input.IncludeEmojis != nil {
		profile.IncludeEmojis = *input.IncludeEmojis
	}
	if input.IncludeHashtags != nil {
		profile.IncludeHashtags = *input.IncludeHashtags
	}
	if input.CustomInstructions != nil {
		profile.CustomInstructions = strings.TrimSpace(*input.CustomInstructions)
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// AddSamplePost stores a writing sample used as style guidance at generation
// time.
func (s *ProfileService) AddSamplePost(ctx context.Context, userID uint, profileID string, input AddSamplePostInput) (*models.SamplePost, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, models.NewValidationError("Sample post content is required")
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID, userID)
	if err != nil {
		return nil, err
	}

	post := &models.SamplePost{
		ProfileID:       profile.ID,
		Content:         content,
		EngagementNotes: strings.TrimSpace(input.EngagementNotes),
	}
	if err := s.profileRepo.AddSamplePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeleteSamplePost removes a writing sample from the caller's profile.
func (s *ProfileService) DeleteSamplePost(ctx context.Context, userID uint, profileID, samplePostID string) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID, userID)
	if err != nil {
		return err
	}
	return s.profileRepo.DeleteSamplePost(ctx, profile.ID, samplePostID)
}
