package repos

import (
	"shopkart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `
  id, name, slug, description, is_active, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CategoryRepo) Insert(c domain.Category) error {
	_, err := r.db.Exec(`
	  INSERT INTO categories(id, name, slug, description, is_active, created_at)
	  VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
	`, c.ID, c.Name, c.Slug, c.Description, c.IsActive)
	return err
}

func (r *CategoryRepo) Update(c domain.Category) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE categories
	  SET name=?, slug=?, description=?, is_active=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, c.Name, c.Slug, c.Description, c.IsActive, c.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *CategoryRepo) Delete(id string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	return c, err
}

func (r *CategoryRepo) GetBySlug(slug string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT `+categoryCols+` FROM categories WHERE slug = ?`, slug)
	return c, err
}

// ByNameFold finds a category by name, case-insensitively. Used for
// duplicate detection before insert so the caller gets a conflict
// error distinct from a generic validation failure.
func (r *CategoryRepo) ByNameFold(name string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT `+categoryCols+` FROM categories WHERE LOWER(name) = LOWER(?)`, name)
	return c, err
}

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT `+categoryCols+` FROM categories ORDER BY name`)
	return out, err
}
