package server

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"draftline/internal/models"
	"draftline/internal/validation"
)

// UploadDocument handles POST /api/documents (multipart PDF upload)
func (s *Server) UploadDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A PDF file is required in the 'file' field"))
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".pdf" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Only PDF files are accepted"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	doc, err := s.documentService.UploadPDF(c.UserContext(), currentUserID(c), fileHeader.Filename, data)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// SubmitDocumentURL handles POST /api/documents/url
func (s *Server) SubmitDocumentURL(c *fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateArticleURL(req.URL); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	doc, err := s.documentService.SubmitURL(c.UserContext(), currentUserID(c), req.URL)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// GetDocuments handles GET /api/documents
func (s *Server) GetDocuments(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	docs, err := s.documentService.List(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"documents": docs,
		"limit":     p.Limit,
		"offset":    p.Offset,
	})
}

// GetDocument handles GET /api/documents/:id
func (s *Server) GetDocument(c *fiber.Ctx) error {
	doc, err := s.documentService.Get(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(doc)
}

// GetDocumentImages handles GET /api/documents/:id/images
func (s *Server) GetDocumentImages(c *fiber.Ctx) error {
	images, err := s.documentService.ListImages(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"images": images})
}
