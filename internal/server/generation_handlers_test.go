package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"draftline/internal/models"
	"draftline/internal/prompts"
)

func analyzableDocument() *models.Document {
	return &models.Document{
		ID:            "doc-1",
		ProfileID:     "profile-1",
		SourceType:    models.SourcePDF,
		Title:         "Efficient Models",
		Authors:       "A. Researcher",
		ExtractedText: "Abstract\nWe present an efficient model.\n1 Introduction\nModels are large.",
		Status:        models.DocumentUploaded,
	}
}

func TestAnalyzeDocument(t *testing.T) {
	ts := newTestServer()
	ts.profiles.On("GetByUserID", mock.Anything, uint(1)).Return(testProfile(), nil)
	ts.docs.On("GetByID", mock.Anything, "doc-1", "profile-1").Return(analyzableDocument(), nil)
	ts.docs.On("UpsertAnalysis", mock.Anything, mock.Anything).Return(nil)
	ts.docs.On("Update", mock.Anything, mock.Anything).Return(nil)

	app := authedApp(1)
	app.Post("/documents/:id/analyze", ts.AnalyzeDocument)

	req := httptest.NewRequest(http.MethodPost, "/documents/doc-1/analyze", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analysis models.ContentAnalysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&analysis))
	assert.Equal(t, "doc-1", analysis.DocumentID)
	assert.NotEmpty(t, analysis.CoreFinding)
}

func TestAnalyzeDocumentEmptyContent(t *testing.T) {
	doc := analyzableDocument()
	doc.ExtractedText = ""

	ts := newTestServer()
	ts.profiles.On("GetByUserID", mock.Anything, uint(1)).Return(testProfile(), nil)
	ts.docs.On("GetByID", mock.Anything, "doc-1", "profile-1").Return(doc, nil)

	app := authedApp(1)
	app.Post("/documents/:id/analyze", ts.AnalyzeDocument)

	req := httptest.NewRequest(http.MethodPost, "/documents/doc-1/analyze", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errBody models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, "STATE_ERROR", errBody.Code)
	assert.Equal(t, "analyze", errBody.Stage)
}

func TestGeneratePostBeforeAnalyze(t *testing.T) {
	ts := newTestServer()
	ts.profiles.On("GetByUserID", mock.Anything, uint(1)).Return(testProfile(), nil)
	ts.docs.On("GetByID", mock.Anything, "doc-1", "profile-1").Return(analyzableDocument(), nil)
	ts.docs.On("GetAnalysis", mock.Anything, "doc-1").
		Return(nil, models.NewNotFoundError("Analysis", "doc-1"))

	app := authedApp(1)
	app.Post("/generate", ts.GeneratePost)

	resp := postJSON(t, app, "/generate", map[string]any{"document_id": "doc-1"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errBody models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, "STATE_ERROR", errBody.Code)
	assert.Equal(t, "generate", errBody.Stage)
	ts.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGeneratePost(t *testing.T) {
	doc := analyzableDocument()
	doc.Status = models.DocumentAnalyzed

	ts := newTestServer()
	ts.profiles.On("GetByUserID", mock.Anything, uint(1)).Return(testProfile(), nil)
	ts.docs.On("GetByID", mock.Anything, "doc-1", "profile-1").Return(doc, nil)
	ts.docs.On("GetAnalysis", mock.Anything, "doc-1").Return(&models.ContentAnalysis{
		ID:         "analysis-1",
		DocumentID: "doc-1",
		Raw:        `{"core_finding": "strong result"}`,
	}, nil)
	ts.posts.On("Create", mock.Anything, mock.Anything).Return(nil)

	app := authedApp(1)
	app.Post("/generate", ts.GeneratePost)

	resp := postJSON(t, app, "/generate", map[string]any{
		"document_id": "doc-1",
		"options": map[string]any{
			"tone":             models.ToneProfessional,
			"length":           models.LengthMedium,
			"include_emojis":   true,
			"include_hashtags": true,
		},
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.GeneratedPost
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, "doc-1", post.DocumentID)
	assert.NotEmpty(t, post.Content)
}

func TestGeneratePostRequiresDocumentID(t *testing.T) {
	ts := newTestServer()
	app := authedApp(1)
	app.Post("/generate", ts.GeneratePost)

	resp := postJSON(t, app, "/generate", map[string]any{})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefinePost(t *testing.T) {
	ts := newTestServer()
	ts.profiles.On("GetByUserID", mock.Anything, uint(1)).Return(testProfile(), nil)
	ts.posts.On("GetByID", mock.Anything, "post-1", "profile-1").Return(&models.GeneratedPost{
		ID:         "post-1",
		ProfileID:  "profile-1",
		DocumentID: "doc-1",
		Document:   analyzableDocument(),
		Content:    "Original draft.",
	}, nil)
	ts.posts.On("Update", mock.Anything, mock.Anything).Return(nil)

	app := authedApp(1)
	app.Post("/posts/:id/refine", ts.RefinePost)

	resp := postJSON(t, app, "/posts/post-1/refine", map[string]string{"instruction": "make it shorter"})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var post models.GeneratedPost
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, "post-1", post.ID)
	assert.NotEqual(t, "Original draft.", post.Content)
}

func TestRefineForeignPostNotFound(t *testing.T) {
	ts := newTestServer()
	ts.profiles.On("GetByUserID", mock.Anything, uint(1)).Return(testProfile(), nil)
	ts.posts.On("GetByID", mock.Anything, "post-9", "profile-1").
		Return(nil, models.NewNotFoundError("Post", "post-9"))

	app := authedApp(1)
	app.Post("/posts/:id/refine", ts.RefinePost)

	resp := postJSON(t, app, "/posts/post-9/refine", map[string]string{"instruction": "shorter"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPostsHistory(t *testing.T) {
	ts := newTestServer()
	ts.profiles.On("GetByUserID", mock.Anything, uint(1)).Return(testProfile(), nil)
	ts.posts.On("List", mock.Anything, "profile-1", 20, 0).Return([]models.GeneratedPost{
		{ID: "post-2"}, {ID: "post-1"},
	}, nil)

	app := authedApp(1)
	app.Get("/posts", ts.GetPosts)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []models.GeneratedPost `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Posts, 2)
	assert.Equal(t, "post-2", body.Posts[0].ID)
}

func TestGetPrompts(t *testing.T) {
	ts := newTestServer()

	app := authedApp(1)
	app.Get("/prompts", ts.GetPrompts)

	req := httptest.NewRequest(http.MethodGet, "/prompts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Provider  string             `json:"provider"`
		Model     string             `json:"model"`
		Templates []prompts.Template `json:"templates"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "mock", body.Provider)
	assert.Len(t, body.Templates, 4)
}
