package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "woolshop/internal/log"
	"woolshop/internal/services"
	"woolshop/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type productRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Slug        string   `json:"slug" validate:"omitempty,slugfmt"`
	Price       float64  `json:"price" validate:"min=0"`
	Images      []string `json:"images" validate:"required,min=1,max=5,dive,required"`
	Tags        []string `json:"tags" validate:"required,min=1,dive,required"`
	Description string   `json:"description" validate:"required,max=1000"`
}

func (r productRequest) toInput() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Price:       decimal.NewFromFloat(r.Price),
		Images:      r.Images,
		Tags:        r.Tags,
		Description: r.Description,
	}
}

// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, pg, err := h.Catalog.ListProducts(
		c.Query("tag"),
		c.Query("search"),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 12),
	)
	if err != nil {
		return failService(c, err)
	}
	return okPage(c, products, pg)
}

// GET /api/products/tags
func (h *ProductHandler) Tags(c *fiber.Ctx) error {
	tags, err := h.Catalog.Tags()
	if err != nil {
		return failService(c, err)
	}
	return ok(c, tags)
}

// GET /api/products/:slug
func (h *ProductHandler) BySlug(c *fiber.Ctx) error {
	p, err := h.Catalog.GetBySlug(c.Params("slug"))
	if err != nil {
		return failService(c, err)
	}
	return ok(c, p)
}

// GET /api/products/:id/related
func (h *ProductHandler) Related(c *fiber.Ctx) error {
	products, err := h.Catalog.Related(c.Params("id"), c.QueryInt("limit", 4))
	if err != nil {
		return failService(c, err)
	}
	return ok(c, products)
}

// POST /api/products (admin)
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, validate.Message(err))
	}
	p, err := h.Catalog.Create(req.toInput())
	if err != nil {
		return failService(c, err)
	}
	applog.Audit(c, "product.create", map[string]any{"product": p.ID, "slug": p.Slug})
	return created(c, "product created", p)
}

// PUT /api/products/:id (admin)
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, validate.Message(err))
	}
	p, err := h.Catalog.Update(c.Params("id"), req.toInput())
	if err != nil {
		return failService(c, err)
	}
	applog.Audit(c, "product.update", map[string]any{"product": p.ID})
	return okMessage(c, "product updated", p)
}

// DELETE /api/products/:id (admin)
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.Delete(id); err != nil {
		return failService(c, err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product": id})
	return okMessage(c, "product deleted", nil)
}
