package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"draftline/internal/cache"
	"draftline/internal/extractor"
	"draftline/internal/llm"
	"draftline/internal/middleware"
	"draftline/internal/models"
	"draftline/internal/observability"
	"draftline/internal/prompts"
	"draftline/internal/repository"
)

// GenerationService orchestrates the per-document pipeline: analyze, then
// generate, then any number of refinements or regenerations. Steps are
// strictly sequential and never retried.
type GenerationService struct {
	docRepo     repository.DocumentRepository
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	provider    llm.Provider
}

// GenerateOptions are per-request overrides of the profile's preferences.
// Nil fields fall back to the profile.
type GenerateOptions struct {
	Tone               string `json:"tone"`
	Length             string `json:"length"`
	IncludeEmojis      *bool  `json:"include_emojis"`
	IncludeHashtags    *bool  `json:"include_hashtags"`
	UseExtractedImage  bool   `json:"use_extracted_image"`
	SelectedImageID    string `json:"selected_image_id"`
	IncludeSourceLink  bool   `json:"include_source_link"`
	CustomInstructions string `json:"custom_instructions"`
}

// analysisPayload is the structured contract the analyze template demands.
type analysisPayload struct {
	CoreFinding           string          `json:"core_finding"`
	DocumentSections      json.RawMessage `json:"document_sections"`
	KeyDataPoints         json.RawMessage `json:"key_data_points"`
	ExecutiveImplications json.RawMessage `json:"executive_implications"`
	Methodology           json.RawMessage `json:"methodology"`
	QuotableFacts         json.RawMessage `json:"quotable_facts"`
}

func NewGenerationService(
	docRepo repository.DocumentRepository,
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	provider llm.Provider,
) *GenerationService {
	return &GenerationService{
		docRepo:     docRepo,
		postRepo:    postRepo,
		profileRepo: profileRepo,
		provider:    provider,
	}
}

// Provider exposes the active backend for the transparency endpoint.
func (s *GenerationService) Provider() llm.Provider {
	return s.provider
}

// Analyze runs the structured analysis call for a document and stores the
// result, overwriting any previous analysis. Without custom instructions a
// fresh analysis from the last hour is reused instead of calling the
// provider again.
func (s *GenerationService) Analyze(ctx context.Context, userID uint, documentID, customInstructions string) (*models.ContentAnalysis, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID, profile.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.ExtractedText) == "" {
		return nil, models.NewStateError("Document has no extracted content to analyze").WithStage("analyze")
	}

	customInstructions = strings.TrimSpace(customInstructions)
	if customInstructions == "" && cache.AnalysisFresh(ctx, doc.ID) {
		if existing, err := s.docRepo.GetAnalysis(ctx, doc.ID); err == nil {
			observability.AnalysisCacheHits.Inc()
			middleware.Logger.InfoContext(ctx, "reusing recent analysis", "document_id", doc.ID)
			return existing, nil
		}
	}

	sections := extractor.KeySections(doc.ExtractedText)
	docContext := prompts.AnalysisContext(
		doc.Title, doc.Authors, doc.Abstract,
		sections["introduction"], sections["conclusion"],
		doc.ExtractedText,
	)

	raw, err := llm.CompleteJSON(ctx, s.provider, llm.Request{
		System: prompts.Analyze.System,
		User: prompts.Analyze.Render(map[string]string{
			"context":      docContext,
			"custom_angle": prompts.AnalysisAngle(customInstructions),
		}),
		Temperature: llm.AnalyzeSettings.Temperature,
		MaxTokens:   llm.AnalyzeSettings.MaxTokens,
		Stage:       "analyze",
	})
	if err != nil {
		return nil, stageError(err, "analyze")
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, models.NewParseError("Analysis response did not match the expected structure", err).WithStage("analyze")
	}

	analysis := &models.ContentAnalysis{
		DocumentID:            doc.ID,
		CoreFinding:           payload.CoreFinding,
		Sections:              datatypes.JSON(payload.DocumentSections),
		KeyDataPoints:         datatypes.JSON(payload.KeyDataPoints),
		ExecutiveImplications: datatypes.JSON(payload.ExecutiveImplications),
		Methodology:           datatypes.JSON(payload.Methodology),
		QuotableFacts:         datatypes.JSON(payload.QuotableFacts),
		CustomInstructions:    customInstructions,
		Raw:                   raw,
	}
	if err := s.docRepo.UpsertAnalysis(ctx, analysis); err != nil {
		return nil, err
	}

	doc.Status = models.DocumentAnalyzed
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	if customInstructions == "" {
		cache.MarkAnalysisFresh(ctx, doc.ID)
	} else {
		cache.InvalidateAnalysis(ctx, doc.ID)
	}

	return analysis, nil
}

// Summarize produces a short plain-text summary of a document.
func (s *GenerationService) Summarize(ctx context.Context, userID uint, documentID string) (string, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	doc, err := s.docRepo.GetByID(ctx, documentID, profile.ID)
	if err != nil {
		return "", err
	}

	summary, err := s.provider.Complete(ctx, llm.Request{
		System: prompts.Summarize.System,
		User: prompts.Summarize.Render(map[string]string{
			"title":   doc.Title,
			"author":  doc.Authors,
			"content": prompts.RefineAnalysis(doc.ExtractedText),
		}),
		Temperature: llm.SummarizeSettings.Temperature,
		MaxTokens:   llm.SummarizeSettings.MaxTokens,
		Stage:       "summarize",
	})
	if err != nil {
		return "", stageError(err, "summarize")
	}
	return strings.TrimSpace(summary), nil
}

// Generate writes a new post from the stored analysis and the caller's style
// preferences. Generating before analyzing is a state error.
func (s *GenerationService) Generate(ctx context.Context, userID uint, documentID string, opts GenerateOptions) (*models.GeneratedPost, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID, profile.ID)
	if err != nil {
		return nil, err
	}

	analysis, err := s.docRepo.GetAnalysis(ctx, doc.ID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil, models.NewStateError("Document must be analyzed before generating a post").WithStage("generate")
		}
		return nil, err
	}

	content, err := s.runGeneration(ctx, profile, doc, analysis.Raw, opts)
	if err != nil {
		return nil, err
	}

	post := &models.GeneratedPost{
		ProfileID:        profile.ID,
		DocumentID:       doc.ID,
		Content:          content,
		AnalysisSnapshot: analysis.Raw,
	}

	if err := s.attachImage(ctx, post, doc, profile.ID, opts); err != nil {
		return nil, err
	}
	if optsJSON, err := json.Marshal(s.mergeOptions(profile, opts)); err == nil {
		post.Options = datatypes.JSON(optsJSON)
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Refine rewrites an existing post according to the user's instruction. The
// post keeps its identity and document.
func (s *GenerationService) Refine(ctx context.Context, userID uint, postID, instruction string) (*models.GeneratedPost, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, models.NewValidationError("Refinement instruction is required")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID, profile.ID)
	if err != nil {
		return nil, err
	}

	var title, authors, fullText string
	if post.Document != nil {
		title = post.Document.Title
		authors = post.Document.Authors
		fullText = post.Document.ExtractedText
	}

	refined, err := s.provider.Complete(ctx, llm.Request{
		System: prompts.Refine.System,
		User: prompts.Refine.Render(map[string]string{
			"title":                title,
			"author":               authors,
			"analysis":             prompts.RefineAnalysis(post.AnalysisSnapshot),
			"full_content_section": prompts.RefineContent(fullText),
			"current_post":         post.Content,
			"instruction":          instruction,
		}),
		Temperature: llm.RefineSettings.Temperature,
		MaxTokens:   llm.RefineSettings.MaxTokens,
		Stage:       "refine",
	})
	if err != nil {
		return nil, stageError(err, "refine")
	}

	post.Content = strings.TrimSpace(refined)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Regenerate re-runs generation for an existing post using its stored
// analysis snapshot, replacing the content in place.
func (s *GenerationService) Regenerate(ctx context.Context, userID uint, postID string, opts GenerateOptions) (*models.GeneratedPost, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID, profile.ID)
	if err != nil {
		return nil, err
	}
	if post.Document == nil {
		return nil, models.NewInternalError(fmt.Errorf("post %s has no document", post.ID))
	}

	content, err := s.runGeneration(ctx, profile, post.Document, post.AnalysisSnapshot, opts)
	if err != nil {
		return nil, err
	}

	post.Content = content
	if err := s.attachImage(ctx, post, post.Document, profile.ID, opts); err != nil {
		return nil, err
	}
	if optsJSON, err := json.Marshal(s.mergeOptions(profile, opts)); err == nil {
		post.Options = datatypes.JSON(optsJSON)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns one of the caller's posts.
func (s *GenerationService) GetPost(ctx context.Context, userID uint, postID string) (*models.GeneratedPost, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, profile.ID)
}

// ListPosts returns the caller's post history, newest first.
func (s *GenerationService) ListPosts(ctx context.Context, userID uint, limit, offset int) ([]models.GeneratedPost, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.postRepo.List(ctx, profile.ID, limit, offset)
}

// DeletePost removes a post from the caller's history.
func (s *GenerationService) DeletePost(ctx context.Context, userID uint, postID string) error {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID, profile.ID)
}

// mergedOptions is the effective preference set for one generation run.
type mergedOptions struct {
	Tone               string `json:"tone"`
	Length             string `json:"length"`
	IncludeEmojis      bool   `json:"include_emojis"`
	IncludeHashtags    bool   `json:"include_hashtags"`
	IncludeSourceLink  bool   `json:"include_source_link"`
	CustomInstructions string `json:"custom_instructions,omitempty"`
}

func (s *GenerationService) mergeOptions(profile *models.Profile, opts GenerateOptions) mergedOptions {
	merged := mergedOptions{
		Tone:               profile.Tone,
		Length:             profile.PostLength,
		IncludeEmojis:      profile.IncludeEmojis,
		IncludeHashtags:    profile.IncludeHashtags,
		IncludeSourceLink:  opts.IncludeSourceLink,
		CustomInstructions: strings.TrimSpace(opts.CustomInstructions),
	}
	if opts.Tone != "" {
		merged.Tone = opts.Tone
	}
	if opts.Length != "" {
		merged.Length = opts.Length
	}
	if opts.IncludeEmojis != nil {
		merged.IncludeEmojis = *opts.IncludeEmojis
	}
	if opts.IncludeHashtags != nil {
		merged.IncludeHashtags = *opts.IncludeHashtags
	}
	return merged
}

func (s *GenerationService) runGeneration(ctx context.Context, profile *models.Profile, doc *models.Document, analysisJSON string, opts GenerateOptions) (string, error) {
	merged := s.mergeOptions(profile, opts)
	if merged.Tone != "" && !models.ValidTone(merged.Tone) {
		return "", models.NewValidationError("Invalid tone preference")
	}
	if merged.Length != "" && !models.ValidLength(merged.Length) {
		return "", models.NewValidationError("Invalid post length preference")
	}

	var samples []string
	for _, sp := range profile.SamplePosts {
		samples = append(samples, sp.Content)
	}

	customInstructions := merged.CustomInstructions
	if customInstructions == "" {
		customInstructions = profile.CustomInstructions
	}

	content, err := s.provider.Complete(ctx, llm.Request{
		System: prompts.Generate.System,
		User: prompts.Generate.Render(map[string]string{
			"title":                doc.Title,
			"author":               doc.Authors,
			"analysis":             analysisJSON,
			"full_content_section": prompts.GenerationContent(doc.ExtractedText),
			"style_requirements":   prompts.StyleRequirements(merged.Tone, merged.Length, merged.IncludeEmojis, merged.IncludeHashtags),
			"style_examples":       prompts.StyleExamples(samples),
			"custom_angle":         prompts.GenerationAngle(customInstructions),
		}),
		Temperature: llm.GenerateSettings.Temperature,
		MaxTokens:   llm.GenerateSettings.MaxTokens,
		Stage:       "generate",
	})
	if err != nil {
		return "", stageError(err, "generate")
	}

	content = strings.TrimSpace(content)
	if merged.IncludeSourceLink {
		if link := sourceLink(doc); link != "" {
			content += "\n\nSource: " + link
		}
	}
	return content, nil
}

// sourceLink resolves the link appended to a post: the original URL for
// scraped articles, the arXiv abstract page for papers that carry an arXiv
// identifier.
func sourceLink(doc *models.Document) string {
	if doc.SourceType == models.SourceURL {
		return doc.SourceURL
	}
	if id := extractor.ArxivID(doc.ExtractedText); id != "" {
		return "https://arxiv.org/abs/" + id
	}
	return ""
}

// attachImage resolves at most one image for the post: an explicit pick, or
// the highest-relevance extracted image when requested, or none.
func (s *GenerationService) attachImage(ctx context.Context, post *models.GeneratedPost, doc *models.Document, profileID string, opts GenerateOptions) error {
	post.SelectedImageID = nil
	post.GeneratedImageURL = ""

	if opts.SelectedImageID != "" {
		image, err := s.docRepo.GetImage(ctx, opts.SelectedImageID, profileID)
		if err != nil {
			return err
		}
		if image.DocumentID != doc.ID {
			return models.NewValidationError("Selected image does not belong to this document")
		}
		post.SelectedImageID = &image.ID
		return nil
	}

	if opts.UseExtractedImage {
		if len(doc.Images) > 0 {
			// Images are preloaded ordered by relevance
			post.SelectedImageID = &doc.Images[0].ID
		} else if doc.FeaturedImageURL != "" {
			post.GeneratedImageURL = doc.FeaturedImageURL
		}
	}
	return nil
}
