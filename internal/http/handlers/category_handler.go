package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopkart/internal/log"
	"shopkart/internal/services"
	"shopkart/internal/validate"
)

type CategoryHandler struct {
	Query   *services.QueryService
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return fail(c, "categories.list", err)
	}
	return ok(c, fiber.StatusOK, "Categories fetched", fiber.Map{"categories": cats})
}

func (h *CategoryHandler) BySlug(c *fiber.Ctx) error {
	cat, err := h.Catalog.GetCategoryBySlug(c.Params("slug"))
	if err != nil {
		return fail(c, "categories.get", err)
	}
	return ok(c, fiber.StatusOK, "Category fetched", fiber.Map{"category": cat})
}

// Products lists a category together with its products.
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	cat, products, err := h.Query.ProductsByCategory(c.Params("slug"))
	if err != nil {
		return fail(c, "categories.products", err)
	}
	return ok(c, fiber.StatusOK, "Category products fetched", fiber.Map{
		"category": cat,
		"products": products,
	})
}

type categoryRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	IsActive    *bool  `json:"isActive" form:"isActive"`
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "categories.create", &services.ValidationError{Field: "body", Message: "Malformed category request"})
	}
	cat, err := h.Catalog.CreateCategory(req.Name, req.Description)
	if err != nil {
		return fail(c, "categories.create", err)
	}
	applog.Audit(c, "categories.create", map[string]any{"category_id": cat.ID, "slug": cat.Slug})
	return ok(c, fiber.StatusCreated, "Category created", fiber.Map{"category": cat})
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, "categories.update", services.ErrNotFound)
	}
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "categories.update", &services.ValidationError{Field: "body", Message: "Malformed category request"})
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	cat, err := h.Catalog.UpdateCategory(id, req.Name, req.Description, isActive)
	if err != nil {
		return fail(c, "categories.update", err)
	}
	applog.Audit(c, "categories.update", map[string]any{"category_id": cat.ID, "slug": cat.Slug})
	return ok(c, fiber.StatusOK, "Category updated", fiber.Map{"category": cat})
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, "categories.delete", services.ErrNotFound)
	}
	if err := h.Catalog.DeleteCategory(id); err != nil {
		return fail(c, "categories.delete", err)
	}
	applog.Audit(c, "categories.delete", map[string]any{"category_id": id})
	return ok(c, fiber.StatusOK, "Category deleted", nil)
}
