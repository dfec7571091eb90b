package server

import (
	"github.com/gofiber/fiber/v2"

	"draftline/internal/prompts"
)

// GetPrompts handles GET /api/prompts. It exposes the active provider and the
// verbatim templates so users can see exactly what shapes their posts.
func (s *Server) GetPrompts(c *fiber.Ctx) error {
	provider := s.generationService.Provider()
	return c.JSON(fiber.Map{
		"provider":  provider.Name(),
		"model":     provider.Model(),
		"templates": prompts.All(),
	})
}
