package services

import (
	"database/sql"
	"errors"
	"strings"

	"shopkart/internal/domain"
	"shopkart/internal/repos"
	"shopkart/internal/validate"
)

const (
	defaultListLimit = 12
	defaultPageSize  = 6
	relatedLimit     = 3
	searchLimit      = 50
)

// QueryService serves every catalog read path. Photo bytes never
// travel through these queries; GetProductPhoto is the only way out.
type QueryService struct {
	Prods *repos.ProductRepo
	Cats  *repos.CategoryRepo
}

func NewQueryService(prods *repos.ProductRepo, cats *repos.CategoryRepo) *QueryService {
	return &QueryService{Prods: prods, Cats: cats}
}

func (s *QueryService) ListProducts(limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.Prods.List(limit)
}

func (s *QueryService) GetProductBySlug(sl string) (domain.Product, error) {
	p, err := s.Prods.GetBySlug(sl)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return p, err
}

// GetProductPhoto returns the stored bytes and content type. A product
// without an asset is indistinguishable from a missing product.
func (s *QueryService) GetProductPhoto(id string) ([]byte, string, error) {
	photo, contentType, err := s.Prods.Photo(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if len(photo) == 0 {
		return nil, "", ErrNotFound
	}
	return photo, contentType, nil
}

func (s *QueryService) CountProducts() (int, error) {
	return s.Prods.Count()
}

func (s *QueryService) ListProductsPaged(page, perPage int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPageSize
	}
	return s.Prods.ListPaged(perPage, (page-1)*perPage)
}

func (s *QueryService) SearchProducts(keyword string) ([]domain.Product, error) {
	kw, ok := validate.Keyword(keyword)
	if !ok {
		return nil, &ValidationError{Field: "keyword", Message: "Search keyword is required"}
	}
	out, err := s.Prods.Search(kw, searchLimit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

func (s *QueryService) RelatedProducts(productID, categoryID string) ([]domain.Product, error) {
	pid, ok := validate.ID(productID)
	if !ok {
		return nil, &ValidationError{Field: "productId", Message: "Product id is required"}
	}
	cid, ok := validate.ID(categoryID)
	if !ok {
		return nil, &ValidationError{Field: "categoryId", Message: "Category id is required"}
	}
	out, err := s.Prods.Related(pid, cid, relatedLimit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

// ProductsByCategory resolves a category by slug and lists its
// products. An unknown slug is the client's mistake, not a crash; an
// existing category with no products yields an empty list.
func (s *QueryService) ProductsByCategory(sl string) (domain.Category, []domain.Product, error) {
	c, err := s.Cats.GetBySlug(strings.TrimSpace(sl))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, nil, &ValidationError{Field: "category", Message: "Category not found"}
	}
	if err != nil {
		return domain.Category{}, nil, err
	}
	out, err := s.Prods.ByCategory(c.ID)
	if err != nil {
		return domain.Category{}, nil, err
	}
	if out == nil {
		out = []domain.Product{}
	}
	return c, out, nil
}

// FilterProducts ANDs category membership with a price window. An
// empty category list or a range that isn't exactly [min,max] simply
// drops that predicate.
func (s *QueryService) FilterProducts(categoryIDs []string, priceRange []float64) ([]domain.Product, error) {
	var minPrice, maxPrice float64
	priced := len(priceRange) == 2
	if priced {
		minPrice, maxPrice = priceRange[0], priceRange[1]
	}
	out, err := s.Prods.Filter(categoryIDs, minPrice, maxPrice, priced)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}
