package service

import (
	"context"

	"draftline/internal/llm"
	"draftline/internal/models"
	"draftline/internal/scraper"
)

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	createFn           func(context.Context, *models.Profile) error
	getByUserIDFn      func(context.Context, uint) (*models.Profile, error)
	getByIDFn          func(context.Context, string, uint) (*models.Profile, error)
	updateFn           func(context.Context, *models.Profile) error
	addSamplePostFn    func(context.Context, *models.SamplePost) error
	deleteSamplePostFn func(context.Context, string, string) error
}

func (s *profileRepoStub) Create(ctx context.Context, p *models.Profile) error {
	return s.createFn(ctx, p)
}
func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) GetByID(ctx context.Context, id string, userID uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id, userID)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.Profile) error {
	return s.updateFn(ctx, p)
}
func (s *profileRepoStub) AddSamplePost(ctx context.Context, sp *models.SamplePost) error {
	return s.addSamplePostFn(ctx, sp)
}
func (s *profileRepoStub) DeleteSamplePost(ctx context.Context, profileID, samplePostID string) error {
	return s.deleteSamplePostFn(ctx, profileID, samplePostID)
}

func stubProfile() *models.Profile {
	return &models.Profile{
		ID:              "profile-1",
		UserID:          1,
		Name:            "Test Writer",
		Tone:            models.ToneProfessional,
		PostLength:      models.LengthMedium,
		IncludeEmojis:   true,
		IncludeHashtags: true,
	}
}

func ownProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			if userID != 1 {
				return nil, models.NewNotFoundError("Profile", userID)
			}
			return stubProfile(), nil
		},
		getByIDFn: func(_ context.Context, id string, userID uint) (*models.Profile, error) {
			if id != "profile-1" || userID != 1 {
				return nil, models.NewNotFoundError("Profile", id)
			}
			return stubProfile(), nil
		},
		createFn:           func(_ context.Context, _ *models.Profile) error { return nil },
		updateFn:           func(_ context.Context, _ *models.Profile) error { return nil },
		addSamplePostFn:    func(_ context.Context, _ *models.SamplePost) error { return nil },
		deleteSamplePostFn: func(_ context.Context, _, _ string) error { return nil },
	}
}

// docRepoStub is a stub for repository.DocumentRepository.
type docRepoStub struct {
	createFn        func(context.Context, *models.Document) error
	getByIDFn       func(context.Context, string, string) (*models.Document, error)
	listFn          func(context.Context, string, int, int) ([]models.Document, error)
	updateFn        func(context.Context, *models.Document) error
	listImagesFn    func(context.Context, string, string) ([]models.ExtractedImage, error)
	getImageFn      func(context.Context, string, string) (*models.ExtractedImage, error)
	upsertFn        func(context.Context, *models.ContentAnalysis) error
	getAnalysisFn   func(context.Context, string) (*models.ContentAnalysis, error)
}

func (s *docRepoStub) Create(ctx context.Context, d *models.Document) error {
	return s.createFn(ctx, d)
}
func (s *docRepoStub) GetByID(ctx context.Context, id, profileID string) (*models.Document, error) {
	return s.getByIDFn(ctx, id, profileID)
}
func (s *docRepoStub) List(ctx context.Context, profileID string, limit, offset int) ([]models.Document, error) {
	return s.listFn(ctx, profileID, limit, offset)
}
func (s *docRepoStub) Update(ctx context.Context, d *models.Document) error {
	return s.updateFn(ctx, d)
}
func (s *docRepoStub) ListImages(ctx context.Context, documentID, profileID string) ([]models.ExtractedImage, error) {
	return s.listImagesFn(ctx, documentID, profileID)
}
func (s *docRepoStub) GetImage(ctx context.Context, imageID, profileID string) (*models.ExtractedImage, error) {
	return s.getImageFn(ctx, imageID, profileID)
}
func (s *docRepoStub) UpsertAnalysis(ctx context.Context, a *models.ContentAnalysis) error {
	return s.upsertFn(ctx, a)
}
func (s *docRepoStub) GetAnalysis(ctx context.Context, documentID string) (*models.ContentAnalysis, error) {
	return s.getAnalysisFn(ctx, documentID)
}

func noopDocRepo() *docRepoStub {
	return &docRepoStub{
		createFn: func(_ context.Context, _ *models.Document) error { return nil },
		getByIDFn: func(_ context.Context, id, _ string) (*models.Document, error) {
			return nil, models.NewNotFoundError("Document", id)
		},
		listFn:   func(_ context.Context, _ string, _, _ int) ([]models.Document, error) { return nil, nil },
		updateFn: func(_ context.Context, _ *models.Document) error { return nil },
		listImagesFn: func(_ context.Context, _, _ string) ([]models.ExtractedImage, error) {
			return nil, nil
		},
		getImageFn: func(_ context.Context, id, _ string) (*models.ExtractedImage, error) {
			return nil, models.NewNotFoundError("Image", id)
		},
		upsertFn: func(_ context.Context, _ *models.ContentAnalysis) error { return nil },
		getAnalysisFn: func(_ context.Context, id string) (*models.ContentAnalysis, error) {
			return nil, models.NewNotFoundError("Analysis", id)
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.GeneratedPost) error
	getByIDFn func(context.Context, string, string) (*models.GeneratedPost, error)
	listFn    func(context.Context, string, int, int) ([]models.GeneratedPost, error)
	updateFn  func(context.Context, *models.GeneratedPost) error
	deleteFn  func(context.Context, string, string) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.GeneratedPost) error {
	return s.createFn(ctx, p)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, profileID string) (*models.GeneratedPost, error) {
	return s.getByIDFn(ctx, id, profileID)
}
func (s *postRepoStub) List(ctx context.Context, profileID string, limit, offset int) ([]models.GeneratedPost, error) {
	return s.listFn(ctx, profileID, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.GeneratedPost) error {
	return s.updateFn(ctx, p)
}
func (s *postRepoStub) Delete(ctx context.Context, id, profileID string) error {
	return s.deleteFn(ctx, id, profileID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.GeneratedPost) error { return nil },
		getByIDFn: func(_ context.Context, id, _ string) (*models.GeneratedPost, error) {
			return nil, models.NewNotFoundError("Post", id)
		},
		listFn:   func(_ context.Context, _ string, _, _ int) ([]models.GeneratedPost, error) { return nil, nil },
		updateFn: func(_ context.Context, _ *models.GeneratedPost) error { return nil },
		deleteFn: func(_ context.Context, _, _ string) error { return nil },
	}
}

// providerStub records the last request and returns a fixed reply.
type providerStub struct {
	reply    string
	err      error
	requests []llm.Request
}

func (p *providerStub) Name() string  { return "stub" }
func (p *providerStub) Model() string { return "stub-model" }
func (p *providerStub) Complete(_ context.Context, req llm.Request) (string, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *providerStub) lastRequest() llm.Request {
	return p.requests[len(p.requests)-1]
}

// scraperStub is a stub PageScraper.
type scraperStub struct {
	page *scraper.Page
	err  error
}

func (s *scraperStub) Scrape(_ context.Context, _ string) (*scraper.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}
