package handlers

import (
	"github.com/gofiber/fiber/v2"

	"woolshop/internal/domain"
	applog "woolshop/internal/log"
	"woolshop/internal/services"
	"woolshop/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type orderItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

type customerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,phone"`
	Address string `json:"address" validate:"omitempty,max=200"`
}

type orderRequest struct {
	Items    []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Customer customerRequest    `json:"customer" validate:"required"`
	Note     string             `json:"note" validate:"omitempty,max=500"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=new confirmed cancelled"`
}

// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req orderRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, validate.Message(err))
	}

	in := services.OrderInput{
		Items: make([]services.OrderLine, len(req.Items)),
		Customer: domain.Customer{
			Name:    req.Customer.Name,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		Note: req.Note,
	}
	for i, it := range req.Items {
		in.Items[i] = services.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	o, err := h.Orders.Create(in)
	if err != nil {
		return failService(c, err)
	}
	applog.Audit(c, "order.create", map[string]any{
		"order": o.ID, "total": o.TotalAmount.String(), "lines": len(o.Items),
	})
	return created(c, "order placed, we will contact you shortly", o)
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.Orders.Get(c.Params("id"))
	if err != nil {
		return failService(c, err)
	}
	return ok(c, o)
}

// GET /api/orders (admin)
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, pg, err := h.Orders.List(
		c.Query("status"),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 20),
	)
	if err != nil {
		return failService(c, err)
	}
	return okPage(c, orders, pg)
}

// PATCH /api/orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, validate.Message(err))
	}
	o, err := h.Orders.UpdateStatus(c.Params("id"), req.Status)
	if err != nil {
		return failService(c, err)
	}
	fields := map[string]any{"order": o.ID, "status": o.Status}
	if u := currentUser(c); u != nil {
		fields["by"] = u.ID
	}
	applog.Audit(c, "order.status", fields)
	return okMessage(c, "order status updated", o)
}

// GET /api/orders/stats (admin)
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Orders.Stats()
	if err != nil {
		return failService(c, err)
	}
	return ok(c, stats)
}
