package handlers

import (
	"io"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "shopkart/internal/log"
	"shopkart/internal/services"
	"shopkart/internal/validate"
)

// ProductHandler serves every product read path and the admin write
// paths (create/update/delete take multipart form data).
type ProductHandler struct {
	Query   *services.QueryService
	Catalog *services.CatalogService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	products, err := h.Query.ListProducts(limit)
	if err != nil {
		return fail(c, "products.list", err)
	}
	return ok(c, fiber.StatusOK, "Products fetched", fiber.Map{"products": products, "count": len(products)})
}

func (h *ProductHandler) Count(c *fiber.Ctx) error {
	n, err := h.Query.CountProducts()
	if err != nil {
		return fail(c, "products.count", err)
	}
	return ok(c, fiber.StatusOK, "Product count fetched", fiber.Map{"total": n})
}

func (h *ProductHandler) Paged(c *fiber.Ctx) error {
	page := validate.Page(c.Params("page"))
	products, err := h.Query.ListProductsPaged(page, 0)
	if err != nil {
		return fail(c, "products.page", err)
	}
	return ok(c, fiber.StatusOK, "Products fetched", fiber.Map{"products": products, "page": page})
}

func (h *ProductHandler) Search(c *fiber.Ctx) error {
	keyword := c.Params("keyword")
	if s, err := url.PathUnescape(keyword); err == nil {
		keyword = s
	}
	products, err := h.Query.SearchProducts(keyword)
	if err != nil {
		return fail(c, "products.search", err)
	}
	return ok(c, fiber.StatusOK, "Search results", fiber.Map{"products": products, "count": len(products)})
}

func (h *ProductHandler) Related(c *fiber.Ctx) error {
	products, err := h.Query.RelatedProducts(c.Params("pid"), c.Params("cid"))
	if err != nil {
		return fail(c, "products.related", err)
	}
	return ok(c, fiber.StatusOK, "Related products", fiber.Map{"products": products})
}

type filterRequest struct {
	Checked []string  `json:"checked"`
	Radio   []float64 `json:"radio"`
}

func (h *ProductHandler) Filter(c *fiber.Ctx) error {
	var req filterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "products.filter", &services.ValidationError{Field: "body", Message: "Malformed filter request"})
	}
	products, err := h.Query.FilterProducts(req.Checked, req.Radio)
	if err != nil {
		return fail(c, "products.filter", err)
	}
	return ok(c, fiber.StatusOK, "Filtered products", fiber.Map{"products": products, "count": len(products)})
}

func (h *ProductHandler) BySlug(c *fiber.Ctx) error {
	p, err := h.Query.GetProductBySlug(c.Params("slug"))
	if err != nil {
		return fail(c, "products.get", err)
	}
	return ok(c, fiber.StatusOK, "Product fetched", fiber.Map{"product": p})
}

// Photo streams the stored asset with its content type. Not wrapped in
// the JSON envelope: the body is the raw bytes.
func (h *ProductHandler) Photo(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, "products.photo", services.ErrNotFound)
	}
	photo, contentType, err := h.Query.GetProductPhoto(id)
	if err != nil {
		return fail(c, "products.photo", err)
	}
	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	return c.Send(photo)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	form := productForm(c)
	photo, photoType, err := formPhoto(c)
	if err != nil {
		return fail(c, "products.create", err)
	}
	p, err := h.Catalog.CreateProduct(form, photo, photoType)
	if err != nil {
		return fail(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID, "slug": p.Slug})
	return ok(c, fiber.StatusCreated, "Product created", fiber.Map{"product": p})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, "products.update", services.ErrNotFound)
	}
	form := productForm(c)
	photo, photoType, err := formPhoto(c)
	if err != nil {
		return fail(c, "products.update", err)
	}
	p, err := h.Catalog.UpdateProduct(id, form, photo, photoType)
	if err != nil {
		return fail(c, "products.update", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": p.ID, "slug": p.Slug})
	return ok(c, fiber.StatusOK, "Product updated", fiber.Map{"product": p})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, "products.delete", services.ErrNotFound)
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		return fail(c, "products.delete", err)
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return ok(c, fiber.StatusOK, "Product deleted", nil)
}

func productForm(c *fiber.Ctx) services.ProductForm {
	return services.ProductForm{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		CategoryID:  c.FormValue("category"),
		Quantity:    c.FormValue("quantity"),
		Shipping:    c.FormValue("shipping"),
	}
}

// formPhoto reads the optional multipart attachment. Absence is fine;
// size enforcement happens in the catalog service.
func formPhoto(c *fiber.Ctx) ([]byte, string, error) {
	fh, err := c.FormFile("photo")
	if err != nil || fh == nil {
		return nil, "", nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return b, fh.Header.Get("Content-Type"), nil
}
