package handler

import (
	"portfolio-backend/internal/model"
	"portfolio-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type ContactHandler struct {
	contactSvc *service.ContactService
}

func NewContactHandler(contactSvc *service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// Submit validates and accepts a contact form submission.
// POST /api/contact
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req model.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request data",
			"errors": []model.FieldError{{
				Code:    "invalid_type",
				Path:    []string{},
				Message: "Expected a JSON object",
			}},
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request data",
			"errors":  errs,
		})
	}

	if err := h.contactSvc.Submit(c.Context(), req); err != nil {
		log.Error().Err(err).Msg("contact: submit failed")
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Failed to process your message",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message received successfully",
	})
}
