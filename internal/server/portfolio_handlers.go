package server

import (
	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

func portfolioFilters(c *fiber.Ctx) service.PortfolioFilters {
	return service.PortfolioFilters{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}
}

// GetPortfolio handles GET /api/portfolio
// @Summary Portfolio index
// @Description Visible entries matching the filters, the featured subset, stats and filter choices. Unknown filter values match nothing.
// @Tags portfolio
// @Produce json
// @Param type query string false "Project type"
// @Param status query string false "Project status"
// @Success 200 {object} service.PortfolioPage
// @Router /portfolio [get]
func (s *Server) GetPortfolio(c *fiber.Ctx) error {
	page, err := s.portfolioService.Page(c.UserContext(), portfolioFilters(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}

// GetPortfolioStats handles GET /api/portfolio/stats
// @Summary Portfolio stats
// @Tags portfolio
// @Produce json
// @Success 200 {object} service.PortfolioStats
// @Router /portfolio/stats [get]
func (s *Server) GetPortfolioStats(c *fiber.Ctx) error {
	stats, err := s.portfolioService.Stats(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(stats)
}

// GetPortfolioEntry handles GET /api/portfolio/:slug
// @Summary Portfolio entry
// @Description A visible entry with up to three related entries of the same type
// @Tags portfolio
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} service.PortfolioDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /portfolio/{slug} [get]
func (s *Server) GetPortfolioEntry(c *fiber.Ctx) error {
	detail, err := s.portfolioService.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(detail)
}

// GetServices handles GET /api/services
// @Summary Services offered
// @Tags services
// @Produce json
// @Success 200 {array} models.Offering
// @Router /services [get]
func (s *Server) GetServices(c *fiber.Ctx) error {
	items, err := s.offeringService.List(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(items)
}
