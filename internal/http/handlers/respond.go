package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "woolshop/internal/log"
	"woolshop/internal/services"
)

// envelope is the shared response shape: {success, data, message, pagination}.
type envelope struct {
	Success    bool                 `json:"success"`
	Data       any                  `json:"data,omitempty"`
	Message    string               `json:"message,omitempty"`
	Pagination *services.Pagination `json:"pagination,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(envelope{Success: true, Data: data})
}

func okPage(c *fiber.Ctx, data any, pg *services.Pagination) error {
	return c.JSON(envelope{Success: true, Data: data, Pagination: pg})
}

func created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{Success: true, Message: message, Data: data})
}

func okMessage(c *fiber.Ctx, message string, data any) error {
	return c.JSON(envelope{Success: true, Message: message, Data: data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{Success: false, Message: message})
}

// failService maps service errors onto the envelope: missing lookups are
// 404, rule violations 400, credentials 401, everything else a logged 500.
func failService(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrProductMissing),
		errors.Is(err, services.ErrSlugTaken),
		errors.Is(err, services.ErrBadStatus):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrBadCreds):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	default:
		applog.Error(c, "server.error", err, nil)
		return fail(c, fiber.StatusInternalServerError, "something went wrong, please try again")
	}
}
