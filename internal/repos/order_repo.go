package repos

import (
	"shopkart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create persists the order header and its item snapshots in one
// transaction. Called only after the gateway reports a successful sale.
func (r *OrderRepo) Create(o domain.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders(id, buyer_id, status, total, payment_json, created_at)
	  VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.BuyerID, o.Status, o.Total, o.PaymentJSON); err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, name, price, quantity)
		  VALUES(?,?,?,?,?)
		`, o.ID, it.ProductID, it.Name, it.Price, it.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
	  SELECT id, buyer_id, status, total, payment_json, created_at
	  FROM orders WHERE id = ?
	`, id); err != nil {
		return domain.Order{}, err
	}
	if err := r.db.Select(&o.Items, `
	  SELECT product_id, name, price, quantity
	  FROM order_items WHERE order_id = ?
	  ORDER BY name
	`, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) ListByBuyer(buyerID string) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.Select(&out, `
	  SELECT id, buyer_id, status, total, payment_json, created_at
	  FROM orders
	  WHERE buyer_id = ?
	  ORDER BY datetime(created_at) DESC
	`, buyerID); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.db.Select(&out[i].Items, `
		  SELECT product_id, name, price, quantity
		  FROM order_items WHERE order_id = ?
		  ORDER BY name
		`, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(id, status string) (int64, error) {
	res, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
