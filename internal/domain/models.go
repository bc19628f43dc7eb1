package domain

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description,omitempty"`
	IsActive    bool   `db:"is_active" json:"isActive"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
	UpdatedAt   string `db:"updated_at" json:"updatedAt,omitempty"`
}

type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Slug        string  `db:"slug" json:"slug"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	CategoryID  string  `db:"category_id" json:"category"`
	Quantity    int     `db:"quantity" json:"quantity"`
	Sold        int     `db:"sold" json:"sold"`
	Shipping    bool    `db:"shipping" json:"shipping"`
	PhotoType   string  `db:"photo_type" json:"-"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt,omitempty"`
}

// Order statuses. "deliverd" is the literal stored value; renaming it
// would orphan existing rows.
const (
	StatusNotProcess = "Not Process"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "deliverd"
	StatusCancelled  = "Cancelled"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case StatusNotProcess, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          string      `db:"id" json:"id"`
	BuyerID     string      `db:"buyer_id" json:"buyer"`
	Status      string      `db:"status" json:"status"`
	Total       float64     `db:"total" json:"total"`
	PaymentJSON string      `db:"payment_json" json:"-"`
	CreatedAt   string      `db:"created_at" json:"createdAt"`
	Items       []OrderItem `db:"-" json:"products"`
}

// OrderItem snapshots the purchased product so later catalog edits
// don't rewrite order history.
type OrderItem struct {
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	Price     float64 `db:"price" json:"price"`
	Quantity  int     `db:"quantity" json:"quantity"`
}
