package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"shopkart/internal/domain"
	"shopkart/internal/repos"
	"shopkart/internal/slug"
	"shopkart/internal/validate"
)

// CatalogService owns all Product/Category writes.
type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

// ProductForm carries the raw form fields. Coercion to numeric/bool
// types happens exactly once, here at the write boundary.
type ProductForm struct {
	Name        string
	Description string
	Price       string
	CategoryID  string
	Quantity    string
	Shipping    string
}

// parseProduct runs the ordered guard chain and reports the first
// failure. Shipping is only demanded when requireShipping is set
// (update path); on create a present-but-malformed value still fails.
func parseProduct(form ProductForm, requireShipping bool) (domain.Product, error) {
	var p domain.Product

	name := strings.TrimSpace(form.Name)
	if name == "" {
		return p, &ValidationError{Field: "name", Message: "Name is required"}
	}
	if strings.TrimSpace(form.Description) == "" {
		return p, &ValidationError{Field: "description", Message: "Description is required"}
	}
	if strings.TrimSpace(form.Price) == "" {
		return p, &ValidationError{Field: "price", Message: "Price is required"}
	}
	price, ok := validate.Price(form.Price)
	if !ok {
		return p, &ValidationError{Field: "price", Message: "Price must be a non-negative number"}
	}
	catID, ok := validate.ID(form.CategoryID)
	if !ok {
		if strings.TrimSpace(form.CategoryID) == "" {
			return p, &ValidationError{Field: "category", Message: "Category is required"}
		}
		return p, &ValidationError{Field: "category", Message: "Category id is not valid"}
	}
	if strings.TrimSpace(form.Quantity) == "" {
		return p, &ValidationError{Field: "quantity", Message: "Quantity is required"}
	}
	qty, ok := validate.Quantity(form.Quantity)
	if !ok {
		return p, &ValidationError{Field: "quantity", Message: "Quantity must be a non-negative integer"}
	}

	shipping := false
	if requireShipping && strings.TrimSpace(form.Shipping) == "" {
		return p, &ValidationError{Field: "shipping", Message: "Shipping is required"}
	}
	if s := strings.TrimSpace(form.Shipping); s != "" {
		b, ok := validate.Bool(s)
		if !ok {
			return p, &ValidationError{Field: "shipping", Message: "Shipping must be true or false"}
		}
		shipping = b
	}

	sl := slug.Derive(name)
	if sl == "" {
		return p, &ValidationError{Field: "name", Message: "Name must contain letters or digits"}
	}

	p = domain.Product{
		Name:        name,
		Slug:        sl,
		Description: strings.TrimSpace(form.Description),
		Price:       price,
		CategoryID:  catID,
		Quantity:    qty,
		Shipping:    shipping,
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(form ProductForm, photo []byte, photoType string) (domain.Product, error) {
	p, err := parseProduct(form, false)
	if err != nil {
		return domain.Product{}, err
	}
	if err := slug.ValidateAsset(photo); err != nil {
		return domain.Product{}, &ValidationError{Field: "photo", Message: err.Error()}
	}

	p.ID = uuid.NewString()
	if len(photo) > 0 {
		p.PhotoType = photoType
	}
	if err := s.Prods.Insert(p, photo); err != nil {
		if repos.IsUniqueViolation(err) {
			return domain.Product{}, &ConflictError{Message: "A product with this name already exists"}
		}
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

func (s *CatalogService) UpdateProduct(id string, form ProductForm, photo []byte, photoType string) (domain.Product, error) {
	if _, err := s.Prods.Get(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, ErrNotFound
		}
		return domain.Product{}, err
	}

	p, err := parseProduct(form, true)
	if err != nil {
		return domain.Product{}, err
	}
	if err := slug.ValidateAsset(photo); err != nil {
		return domain.Product{}, &ValidationError{Field: "photo", Message: err.Error()}
	}

	p.ID = id
	setPhoto := len(photo) > 0
	if setPhoto {
		p.PhotoType = photoType
	}
	n, err := s.Prods.Update(p, photo, setPhoto)
	if err != nil {
		if repos.IsUniqueViolation(err) {
			return domain.Product{}, &ConflictError{Message: "A product with this name already exists"}
		}
		return domain.Product{}, err
	}
	if n == 0 {
		return domain.Product{}, ErrNotFound
	}
	return s.Prods.Get(id)
}

func (s *CatalogService) DeleteProduct(id string) error {
	n, err := s.Prods.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func parseCategory(name, description string) (domain.Category, error) {
	var c domain.Category
	name = strings.TrimSpace(name)
	if name == "" {
		return c, &ValidationError{Field: "name", Message: "Name is required"}
	}
	if len(name) < 2 || len(name) > 50 {
		return c, &ValidationError{Field: "name", Message: "Name must be between 2 and 50 characters"}
	}
	description = strings.TrimSpace(description)
	if len(description) > 500 {
		return c, &ValidationError{Field: "description", Message: "Description must be at most 500 characters"}
	}
	c = domain.Category{
		Name:        name,
		Slug:        slug.Derive(name),
		Description: description,
		IsActive:    true,
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(name, description string) (domain.Category, error) {
	c, err := parseCategory(name, description)
	if err != nil {
		return domain.Category{}, err
	}

	// Duplicate detection is case-insensitive and reported as a
	// conflict, not a validation failure.
	if _, err := s.Cats.ByNameFold(c.Name); err == nil {
		return domain.Category{}, &ConflictError{Message: "Category already exists"}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, err
	}

	c.ID = uuid.NewString()
	if err := s.Cats.Insert(c); err != nil {
		if repos.IsUniqueViolation(err) {
			return domain.Category{}, &ConflictError{Message: "Category already exists"}
		}
		return domain.Category{}, err
	}
	return s.Cats.Get(c.ID)
}

func (s *CatalogService) UpdateCategory(id, name, description string, isActive bool) (domain.Category, error) {
	if _, err := s.Cats.Get(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, ErrNotFound
		}
		return domain.Category{}, err
	}

	c, err := parseCategory(name, description)
	if err != nil {
		return domain.Category{}, err
	}
	if dup, err := s.Cats.ByNameFold(c.Name); err == nil && dup.ID != id {
		return domain.Category{}, &ConflictError{Message: "Category already exists"}
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, err
	}

	c.ID = id
	c.IsActive = isActive
	n, err := s.Cats.Update(c)
	if err != nil {
		if repos.IsUniqueViolation(err) {
			return domain.Category{}, &ConflictError{Message: "Category already exists"}
		}
		return domain.Category{}, err
	}
	if n == 0 {
		return domain.Category{}, ErrNotFound
	}
	return s.Cats.Get(id)
}

func (s *CatalogService) DeleteCategory(id string) error {
	n, err := s.Cats.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) GetCategoryBySlug(sl string) (domain.Category, error) {
	c, err := s.Cats.GetBySlug(sl)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, ErrNotFound
	}
	return c, err
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}
