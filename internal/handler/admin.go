package handler

import (
	"context"
	"time"

	"portfolio-backend/internal/model"
	"portfolio-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type AdminHandler struct {
	authSvc    *service.AuthService
	contactSvc *service.ContactService
	ops        *service.Operator
}

func NewAdminHandler(authSvc *service.AuthService, contactSvc *service.ContactService, ops *service.Operator) *AdminHandler {
	return &AdminHandler{authSvc: authSvc, contactSvc: contactSvc, ops: ops}
}

// Token exchanges a valid X-Admin-Key (checked by middleware) for a bearer token.
func (h *AdminHandler) Token(c *fiber.Ctx) error {
	token, ttl, err := h.authSvc.IssueAdminToken()
	if err != nil {
		log.Error().Err(err).Msg("admin: issue token")
		return c.Status(500).JSON(fiber.Map{"error": "failed to issue token"})
	}
	return c.JSON(model.TokenResponse{Token: token, ExpiresIn: int64(ttl / time.Second)})
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	return c.JSON(h.ops.Stats(ctx))
}

// Announce broadcasts a system line to every connected socket.
func (h *AdminHandler) Announce(c *fiber.Ctx) error {
	var req model.Announce
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}

	online := h.ops.Announce(req.Message)
	return c.JSON(fiber.Map{"ok": true, "online": online})
}

// Contacts lists recent contact submissions.
// GET /api/admin/contacts?limit=50
func (h *AdminHandler) Contacts(c *fiber.Ctx) error {
	msgs, err := h.contactSvc.Recent(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		log.Error().Err(err).Msg("admin: list contacts")
		return c.Status(500).JSON(fiber.Map{"error": "failed to list contacts"})
	}
	return c.JSON(fiber.Map{"messages": msgs})
}
