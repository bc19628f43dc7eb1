package repos

import (
	"database/sql"

	"shopkart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// listCols is the read projection: photo bytes stay out of list and
// detail queries and are only fetched by Photo.
const listCols = `
  id, name, slug, description, price, category_id, quantity, sold, shipping,
  photo_type, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Insert(p domain.Product, photo []byte) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, slug, description, price, category_id, quantity, sold, shipping, photo, photo_type, created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.Name, p.Slug, p.Description, p.Price, p.CategoryID, p.Quantity, p.Sold, p.Shipping, photo, p.PhotoType)
	return err
}

// Update rewrites every catalog field; photo bytes are replaced only
// when setPhoto is true.
func (r *ProductRepo) Update(p domain.Product, photo []byte, setPhoto bool) (int64, error) {
	var res sql.Result
	var err error
	if setPhoto {
		res, err = r.db.Exec(`
		  UPDATE products
		  SET name=?, slug=?, description=?, price=?, category_id=?, quantity=?, shipping=?,
		      photo=?, photo_type=?, updated_at=CURRENT_TIMESTAMP
		  WHERE id=?
		`, p.Name, p.Slug, p.Description, p.Price, p.CategoryID, p.Quantity, p.Shipping, photo, p.PhotoType, p.ID)
	} else {
		res, err = r.db.Exec(`
		  UPDATE products
		  SET name=?, slug=?, description=?, price=?, category_id=?, quantity=?, shipping=?,
		      updated_at=CURRENT_TIMESTAMP
		  WHERE id=?
		`, p.Name, p.Slug, p.Description, p.Price, p.CategoryID, p.Quantity, p.Shipping, p.ID)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ProductRepo) Delete(id string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+listCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) GetBySlug(slug string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+listCols+` FROM products WHERE slug = ?`, slug)
	return p, err
}

// Photo returns the stored asset bytes and content type; callers treat
// an empty blob as "no asset".
func (r *ProductRepo) Photo(id string) ([]byte, string, error) {
	var row struct {
		Photo []byte `db:"photo"`
		Type  string `db:"photo_type"`
	}
	err := r.db.Get(&row, `SELECT photo, photo_type FROM products WHERE id = ?`, id)
	if err != nil {
		return nil, "", err
	}
	return row.Photo, row.Type, nil
}

func (r *ProductRepo) List(limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+listCols+`
	  FROM products
	  ORDER BY datetime(created_at) DESC, id
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *ProductRepo) ListPaged(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+listCols+`
	  FROM products
	  ORDER BY datetime(created_at) DESC, id
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ProductRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}

func (r *ProductRepo) Search(keyword string, limit int) ([]domain.Product, error) {
	pat := "%" + keyword + "%"
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+listCols+`
	  FROM products
	  WHERE LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)
	  ORDER BY datetime(created_at) DESC, id
	  LIMIT ?
	`, pat, pat, limit)
	return out, err
}

func (r *ProductRepo) Related(productID, categoryID string, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+listCols+`
	  FROM products
	  WHERE category_id = ? AND id != ?
	  ORDER BY datetime(created_at) DESC, id
	  LIMIT ?
	`, categoryID, productID, limit)
	return out, err
}

func (r *ProductRepo) ByCategory(categoryID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+listCols+`
	  FROM products
	  WHERE category_id = ?
	  ORDER BY datetime(created_at) DESC, id
	`, categoryID)
	return out, err
}

// Filter applies category membership and price range as a conjunction;
// either predicate is skipped when its input is empty.
func (r *ProductRepo) Filter(categoryIDs []string, minPrice, maxPrice float64, priced bool) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if len(categoryIDs) > 0 {
		q, inArgs, err := sqlx.In(`category_id IN (?)`, categoryIDs)
		if err != nil {
			return nil, err
		}
		where += ` AND ` + q
		args = append(args, inArgs...)
	}
	if priced {
		where += ` AND price >= ? AND price <= ?`
		args = append(args, minPrice, maxPrice)
	}

	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+listCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY datetime(created_at) DESC, id
	`, args...)
	return out, err
}

// ApplySale decrements stock and bumps the sold counter for each
// purchased line. Stock never goes below zero.
func (r *ProductRepo) ApplySale(items []domain.OrderItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range items {
		if _, err := tx.Exec(`
		  UPDATE products
		  SET quantity = MAX(quantity - ?, 0), sold = sold + ?
		  WHERE id = ?
		`, it.Quantity, it.Quantity, it.ProductID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
