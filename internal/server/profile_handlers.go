package server

import (
	"github.com/gofiber/fiber/v2"

	"draftline/internal/models"
	"draftline/internal/service"
)

// GetProfiles handles GET /api/profiles. Every account owns exactly one
// profile, so the list has at most one element.
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profile, err := s.profileService.GetOwn(c.Context(), currentUserID(c))
	if err != nil {
		var appErr *models.AppError
		if asAppError(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return c.JSON([]models.Profile{})
		}
		return respondServiceError(c, err)
	}
	return c.JSON([]models.Profile{*profile})
}

// GetOrCreateProfile handles POST /api/profiles. Registration already
// provisions a profile, so this returns the existing one when present.
func (s *Server) GetOrCreateProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if profile, err := s.profileService.GetOwn(c.Context(), userID); err == nil {
		return c.JSON(profile)
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Profile name is required"))
	}

	profile, err := s.profileService.CreateDefault(c.Context(), userID, req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// UpdateProfile handles PUT /api/profiles
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.Update(c.Context(), currentUserID(c), input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// AddSamplePost handles POST /api/profiles/:id/sample-posts
func (s *Server) AddSamplePost(c *fiber.Ctx) error {
	var input service.AddSamplePostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.profileService.AddSamplePost(c.Context(), currentUserID(c), c.Params("id"), input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeleteSamplePost handles DELETE /api/profiles/:id/sample-posts/:postId
func (s *Server) DeleteSamplePost(c *fiber.Ctx) error {
	err := s.profileService.DeleteSamplePost(c.Context(), currentUserID(c), c.Params("id"), c.Params("postId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
