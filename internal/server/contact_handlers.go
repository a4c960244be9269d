package server

import (
	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetContactInfo handles GET /api/contact
// @Summary Contact details
// @Description Address, phones, email, opening hours and social links
// @Tags contact
// @Produce json
// @Success 200 {object} models.ContactInfo
// @Router /contact [get]
func (s *Server) GetContactInfo(c *fiber.Ctx) error {
	return c.JSON(s.contactService.Info())
}

// SubmitContact handles POST /api/contact
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,phone=string,subject=string,message=string} true "Message"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /contact [post]
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	var req struct {
		Name    string `json:"name" form:"name"`
		Email   string `json:"email" form:"email"`
		Phone   string `json:"phone" form:"phone"`
		Subject string `json:"subject" form:"subject"`
		Message string `json:"message" form:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if _, err := s.contactService.Submit(c.UserContext(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Thank you for your message! We'll get back to you soon.",
	})
}
