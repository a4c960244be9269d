package server

import (
	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile
// @Summary Current user's profile
// @Description Created on first access
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} models.ErrorResponse
// @Router /profile [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetOrCreate(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profile
// @Summary Update the current user's profile
// @Description Replaces every field. An "avatar" file in a multipart body is downscaled to fit the avatar box.
// @Tags profile
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Router /profile [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Bio         string `json:"bio" form:"bio"`
		Location    string `json:"location" form:"location"`
		Website     string `json:"website" form:"website"`
		Phone       string `json:"phone" form:"phone"`
		TwitterURL  string `json:"twitter_url" form:"twitter_url"`
		GithubURL   string `json:"github_url" form:"github_url"`
		LinkedinURL string `json:"linkedin_url" form:"linkedin_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	avatar, err := readUpload(c, "avatar")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	profile, err := s.profileService.Update(c.UserContext(), service.ProfileInput{
		UserID:      currentUserID(c),
		Bio:         req.Bio,
		Location:    req.Location,
		Website:     req.Website,
		Phone:       req.Phone,
		TwitterURL:  req.TwitterURL,
		GithubURL:   req.GithubURL,
		LinkedinURL: req.LinkedinURL,
		Avatar:      avatar,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}
