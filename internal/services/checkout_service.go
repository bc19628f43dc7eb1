package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
	applog "shopkart/internal/log"
	"shopkart/internal/payment"
	"shopkart/internal/repos"
)

// CheckoutService submits charges against the external gateway and,
// on success, durably records the resulting order. The gateway client
// is credentials-bound, built once at startup and injected here.
type CheckoutService struct {
	Gateway payment.Gateway
	Orders  *repos.OrderRepo
	Prods   *repos.ProductRepo
}

func NewCheckoutService(gw payment.Gateway, orders *repos.OrderRepo, prods *repos.ProductRepo) *CheckoutService {
	return &CheckoutService{Gateway: gw, Orders: orders, Prods: prods}
}

// CartItem is a client-held cart line. The cart lives on the client;
// this service only sees it at payment time.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type OrderReceipt struct {
	OrderID     string              `json:"orderId"`
	Total       float64             `json:"total"`
	Transaction *payment.SaleResult `json:"transaction"`
}

func (s *CheckoutService) GenerateClientToken(ctx context.Context) (string, error) {
	tok, err := payment.AwaitToken(ctx, s.Gateway, payment.TokenOptions{})
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	return tok.Token, nil
}

// SubmitPayment charges the cart total against the nonce and records
// the order. The charge total is the sum of unit prices; quantities
// affect stock bookkeeping, not the amount.
func (s *CheckoutService) SubmitPayment(ctx context.Context, nonce string, cart []CartItem, buyerID string) (OrderReceipt, error) {
	if strings.TrimSpace(nonce) == "" {
		return OrderReceipt{}, &ValidationError{Field: "nonce", Message: "Payment method nonce is required"}
	}
	if len(cart) == 0 {
		return OrderReceipt{}, &ValidationError{Field: "cart", Message: "Cart is empty"}
	}
	if strings.TrimSpace(buyerID) == "" {
		return OrderReceipt{}, ErrAuthRequired
	}

	total := decimal.Zero
	for _, it := range cart {
		total = total.Add(decimal.NewFromFloat(it.Price))
	}

	res, err := payment.AwaitSale(ctx, s.Gateway, payment.SaleRequest{
		Amount:             total.StringFixed(2),
		PaymentMethodNonce: nonce,
		Options:            payment.SaleOptions{SubmitForSettlement: true},
	})
	if err != nil {
		return OrderReceipt{}, &GatewayError{Err: err}
	}
	if !res.Success {
		return OrderReceipt{}, &GatewayError{Message: res.Message}
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		BuyerID:     buyerID,
		Status:      domain.StatusNotProcess,
		Total:       total.InexactFloat64(),
		PaymentJSON: rawPayment(res),
		Items:       snapshots(cart),
	}
	// The write is awaited before responding: a charged card with no
	// order row is worse than one extra store round trip.
	if err := s.Orders.Create(order); err != nil {
		return OrderReceipt{}, err
	}

	// Stock bookkeeping is best effort; the sale already settled and
	// the order is durable either way. Failures are logged so drifted
	// stock stays diagnosable.
	if err := s.Prods.ApplySale(order.Items); err != nil {
		applog.Error(nil, "checkout.stock.apply", err, map[string]any{"order_id": order.ID})
	}

	return OrderReceipt{OrderID: order.ID, Total: order.Total, Transaction: res}, nil
}

func (s *CheckoutService) ListOrdersByBuyer(buyerID string) ([]domain.Order, error) {
	if strings.TrimSpace(buyerID) == "" {
		return nil, ErrAuthRequired
	}
	out, err := s.Orders.ListByBuyer(buyerID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Order{}
	}
	return out, nil
}

func (s *CheckoutService) UpdateOrderStatus(id, status string) error {
	if !domain.ValidOrderStatus(status) {
		return &ValidationError{Field: "status", Message: "Status is not a valid order state"}
	}
	n, err := s.Orders.UpdateStatus(id, status)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func rawPayment(res *payment.SaleResult) string {
	if len(res.Raw) > 0 {
		return string(res.Raw)
	}
	b, _ := json.Marshal(res)
	return string(b)
}

// snapshots collapses the cart into one item row per product. The same
// product may appear on several lines; quantities are summed so the
// order write never trips the per-order product uniqueness.
func snapshots(cart []CartItem) []domain.OrderItem {
	index := map[string]int{}
	items := make([]domain.OrderItem, 0, len(cart))
	for _, it := range cart {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		if i, seen := index[it.ProductID]; seen {
			items[i].Quantity += qty
			continue
		}
		index[it.ProductID] = len(items)
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  qty,
		})
	}
	return items
}
