package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"draftline/internal/models"
	"draftline/internal/scraper"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProfileRepository is a mock of the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string, userID uint) (*models.Profile, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) AddSamplePost(ctx context.Context, post *models.SamplePost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockProfileRepository) DeleteSamplePost(ctx context.Context, profileID, samplePostID string) error {
	args := m.Called(ctx, profileID, samplePostID)
	return args.Error(0)
}

// MockDocumentRepository is a mock of the DocumentRepository interface
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id, profileID string) (*models.Document, error) {
	args := m.Called(ctx, id, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, profileID string, limit, offset int) ([]models.Document, error) {
	args := m.Called(ctx, profileID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) ListImages(ctx context.Context, documentID, profileID string) ([]models.ExtractedImage, error) {
	args := m.Called(ctx, documentID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExtractedImage), args.Error(1)
}

func (m *MockDocumentRepository) GetImage(ctx context.Context, imageID, profileID string) (*models.ExtractedImage, error) {
	args := m.Called(ctx, imageID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExtractedImage), args.Error(1)
}

func (m *MockDocumentRepository) UpsertAnalysis(ctx context.Context, analysis *models.ContentAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetAnalysis(ctx context.Context, documentID string) (*models.ContentAnalysis, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContentAnalysis), args.Error(1)
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.GeneratedPost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id, profileID string) (*models.GeneratedPost, error) {
	args := m.Called(ctx, id, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeneratedPost), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, profileID string, limit, offset int) ([]models.GeneratedPost, error) {
	args := m.Called(ctx, profileID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GeneratedPost), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.GeneratedPost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id, profileID string) error {
	args := m.Called(ctx, id, profileID)
	return args.Error(0)
}

// MockScraper is a mock of the service.PageScraper interface
type MockScraper struct {
	mock.Mock
}

func (m *MockScraper) Scrape(ctx context.Context, rawURL string) (*scraper.Page, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scraper.Page), args.Error(1)
}
