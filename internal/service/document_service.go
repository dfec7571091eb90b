package service

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"draftline/internal/extractor"
	"draftline/internal/models"
	"draftline/internal/repository"
	"draftline/internal/scraper"
)

// Sources larger than this are rejected before extraction.
const MaxUploadBytes = 25 << 20

var pdfMagic = []byte("%PDF-")

// PageScraper fetches and extracts article content from a URL.
type PageScraper interface {
	Scrape(ctx context.Context, rawURL string) (*scraper.Page, error)
}

type DocumentService struct {
	docRepo     repository.DocumentRepository
	profileRepo repository.ProfileRepository
	scraper     PageScraper
	maxUpload   int64
}

func NewDocumentService(docRepo repository.DocumentRepository, profileRepo repository.ProfileRepository, sc PageScraper, maxUpload int64) *DocumentService {
	if maxUpload <= 0 {
		maxUpload = MaxUploadBytes
	}
	return &DocumentService{
		docRepo:     docRepo,
		profileRepo: profileRepo,
		scraper:     sc,
		maxUpload:   maxUpload,
	}
}

// UploadPDF extracts text and figure regions from an uploaded PDF and
// persists the document. A PDF with no extractable text never produces a
// document.
func (s *DocumentService) UploadPDF(ctx context.Context, userID uint, filename string, data []byte) (*models.Document, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, models.NewValidationError("Uploaded file is empty")
	}
	if int64(len(data)) > s.maxUpload {
		return nil, models.NewValidationError("File exceeds the upload size limit")
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, models.NewValidationError("File is not a PDF")
	}

	result, err := extractor.Extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, stageError(err, "upload")
	}

	doc := &models.Document{
		ProfileID:        profile.ID,
		SourceType:       models.SourcePDF,
		OriginalFilename: filename,
		Title:            result.Title,
		Authors:          result.Authors,
		Abstract:         result.Abstract,
		ExtractedText:    result.Text,
		Status:           models.DocumentUploaded,
	}
	for _, fig := range result.Figures {
		doc.Images = append(doc.Images, models.ExtractedImage{
			PageNumber:     fig.PageNumber,
			Ref:            fig.Ref,
			Caption:        fig.Caption,
			IsFigure:       fig.IsFigure,
			RelevanceScore: fig.RelevanceScore,
			Width:          fig.Width,
			Height:         fig.Height,
		})
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SubmitURL scrapes an article and persists it as a document. URL sources
// carry no extracted images, only the page's featured image.
func (s *DocumentService) SubmitURL(ctx context.Context, userID uint, rawURL string) (*models.Document, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(rawURL) == "" {
		return nil, models.NewValidationError("URL is required")
	}

	page, err := s.scraper.Scrape(ctx, rawURL)
	if err != nil {
		return nil, stageError(err, "upload")
	}

	doc := &models.Document{
		ProfileID:        profile.ID,
		SourceType:       models.SourceURL,
		SourceURL:        page.URL,
		Domain:           page.Domain,
		FeaturedImageURL: page.ImageURL,
		Title:            page.Title,
		Authors:          page.Author,
		Abstract:         page.Description,
		ExtractedText:    page.Content,
		Status:           models.DocumentUploaded,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns one of the caller's documents with images and analysis.
func (s *DocumentService) Get(ctx context.Context, userID uint, documentID string) (*models.Document, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.docRepo.GetByID(ctx, documentID, profile.ID)
}

// List returns the caller's documents, newest first.
func (s *DocumentService) List(ctx context.Context, userID uint, limit, offset int) ([]models.Document, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.docRepo.List(ctx, profile.ID, limit, offset)
}

// ListImages returns the extracted figure candidates for a document, best
// relevance first.
func (s *DocumentService) ListImages(ctx context.Context, userID uint, documentID string) ([]models.ExtractedImage, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.docRepo.ListImages(ctx, documentID, profile.ID)
}

// stageError annotates an application error with the pipeline stage it
// belongs to.
func stageError(err error, stage string) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.WithStage(stage)
	}
	return err
}
