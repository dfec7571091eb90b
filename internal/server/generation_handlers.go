package server

import (
	"github.com/gofiber/fiber/v2"

	"draftline/internal/models"
	"draftline/internal/service"
)

// AnalyzeDocument handles POST /api/documents/:id/analyze
func (s *Server) AnalyzeDocument(c *fiber.Ctx) error {
	var req struct {
		CustomInstructions string `json:"custom_instructions"`
	}
	// Body is optional for a plain analyze call
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	analysis, err := s.generationService.Analyze(c.UserContext(), currentUserID(c), c.Params("id"), req.CustomInstructions)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(analysis)
}

// SummarizeDocument handles GET /api/documents/:id/summary
func (s *Server) SummarizeDocument(c *fiber.Ctx) error {
	summary, err := s.generationService.Summarize(c.UserContext(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"summary": summary})
}

// GeneratePost handles POST /api/generate
func (s *Server) GeneratePost(c *fiber.Ctx) error {
	var req struct {
		DocumentID string                  `json:"document_id"`
		Options    service.GenerateOptions `json:"options"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.DocumentID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("document_id is required"))
	}

	post, err := s.generationService.Generate(c.UserContext(), currentUserID(c), req.DocumentID, req.Options)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// RegeneratePost handles POST /api/posts/:id/regenerate
func (s *Server) RegeneratePost(c *fiber.Ctx) error {
	var req struct {
		Options service.GenerateOptions `json:"options"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	post, err := s.generationService.Regenerate(c.UserContext(), currentUserID(c), c.Params("id"), req.Options)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// RefinePost handles POST /api/posts/:id/refine
func (s *Server) RefinePost(c *fiber.Ctx) error {
	var req struct {
		Instruction string `json:"instruction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.generationService.Refine(c.UserContext(), currentUserID(c), c.Params("id"), req.Instruction)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.generationService.ListPosts(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.generationService.GetPost(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.generationService.DeletePost(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
