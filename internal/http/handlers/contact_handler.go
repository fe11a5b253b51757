package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "woolshop/internal/log"
	"woolshop/internal/services"
	"woolshop/internal/validate"
)

type ContactHandler struct {
	Contacts *services.ContactService
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,phone"`
	Message string `json:"message" validate:"required,max=1000"`
}

// POST /api/contacts
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, validate.Message(err))
	}
	contact, err := h.Contacts.Create(req.Name, req.Phone, req.Message)
	if err != nil {
		return failService(c, err)
	}
	applog.Info(c, "contact.create", map[string]any{"contact": contact.ID})
	return created(c, "message received, we will get back to you soon", contact)
}

// GET /api/contacts (admin)
func (h *ContactHandler) List(c *fiber.Ctx) error {
	contacts, pg, err := h.Contacts.List(c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return failService(c, err)
	}
	return okPage(c, contacts, pg)
}

// GET /api/contacts/:id (admin)
func (h *ContactHandler) Get(c *fiber.Ctx) error {
	contact, err := h.Contacts.Get(c.Params("id"))
	if err != nil {
		return failService(c, err)
	}
	return ok(c, contact)
}

// DELETE /api/contacts/:id (admin)
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Contacts.Delete(id); err != nil {
		return failService(c, err)
	}
	applog.Audit(c, "contact.delete", map[string]any{"contact": id})
	return okMessage(c, "message deleted", nil)
}

// GET /api/contacts/stats (admin)
func (h *ContactHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Contacts.Stats()
	if err != nil {
		return failService(c, err)
	}
	return ok(c, stats)
}
