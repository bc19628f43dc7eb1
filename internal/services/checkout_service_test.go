package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"shopkart/internal/domain"
	"shopkart/internal/payment"
	"shopkart/internal/repos"
	"shopkart/internal/services"
)

// stubGateway records the sale request and answers from canned data,
// calling back asynchronously like the real client.
type stubGateway struct {
	lastSale payment.SaleRequest
	saleErr  error
	result   *payment.SaleResult
	tokenErr error
}

func (g *stubGateway) GenerateClientToken(_ payment.TokenOptions, cb payment.TokenCallback) {
	go func() {
		if g.tokenErr != nil {
			cb(g.tokenErr, nil)
			return
		}
		cb(nil, &payment.ClientToken{Token: "client-tok"})
	}()
}

func (g *stubGateway) Sale(req payment.SaleRequest, cb payment.SaleCallback) {
	g.lastSale = req
	go func() { cb(g.saleErr, g.result) }()
}

func checkoutSvc(db *sqlx.DB, gw payment.Gateway) *services.CheckoutService {
	return services.NewCheckoutService(gw, repos.NewOrderRepo(db), repos.NewProductRepo(db))
}

func countOrders(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestGenerateClientToken(t *testing.T) {
	db := memdb(t)
	gw := &stubGateway{}
	svc := checkoutSvc(db, gw)

	tok, err := svc.GenerateClientToken(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tok != "client-tok" {
		t.Fatalf("unexpected token %q", tok)
	}

	gw.tokenErr = errors.New("gateway unreachable")
	_, err = svc.GenerateClientToken(context.Background())
	var ge *services.GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("want GatewayError, got %v", err)
	}
}

func TestSubmitPaymentGuards(t *testing.T) {
	db := memdb(t)
	svc := checkoutSvc(db, &stubGateway{})
	cart := []services.CartItem{{ProductID: "p-1", Name: "Laptop", Price: 50, Quantity: 1}}

	_, err := svc.SubmitPayment(context.Background(), "", cart, "u-1")
	var ve *services.ValidationError
	if !errors.As(err, &ve) || ve.Field != "nonce" {
		t.Fatalf("missing nonce: got %v", err)
	}

	_, err = svc.SubmitPayment(context.Background(), "nonce-1", nil, "u-1")
	if !errors.As(err, &ve) || ve.Field != "cart" {
		t.Fatalf("empty cart: got %v", err)
	}

	_, err = svc.SubmitPayment(context.Background(), "nonce-1", cart, "")
	if !errors.Is(err, services.ErrAuthRequired) {
		t.Fatalf("unauthenticated: got %v", err)
	}

	if n := countOrders(t, db); n != 0 {
		t.Fatalf("guards must not create orders, found %d", n)
	}
}

func TestSubmitPaymentSuccessCreatesOrder(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p-1", "Laptop", "d", "c1", 50, "2025-01-01 10:00:00")
	seedProduct(t, db, "p-2", "Mouse", "d", "c1", 30, "2025-01-02 10:00:00")
	gw := &stubGateway{result: &payment.SaleResult{
		Success:       true,
		TransactionID: "txn-1",
		Raw:           []byte(`{"success":true,"transactionId":"txn-1"}`),
	}}
	svc := checkoutSvc(db, gw)

	cart := []services.CartItem{
		{ProductID: "p-1", Name: "Laptop", Price: 50, Quantity: 1},
		{ProductID: "p-2", Name: "Mouse", Price: 30, Quantity: 2},
	}
	receipt, err := svc.SubmitPayment(context.Background(), "nonce-1", cart, "u-buyer")
	if err != nil {
		t.Fatal(err)
	}

	// the gateway saw the summed amount, submitted for settlement
	if gw.lastSale.Amount != "80.00" {
		t.Fatalf("want amount 80.00, got %q", gw.lastSale.Amount)
	}
	if !gw.lastSale.Options.SubmitForSettlement {
		t.Fatal("sale must be submitted for settlement")
	}
	if gw.lastSale.PaymentMethodNonce != "nonce-1" {
		t.Fatalf("nonce not forwarded: %q", gw.lastSale.PaymentMethodNonce)
	}

	orders, err := svc.ListOrdersByBuyer("u-buyer")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("want 1 order, got %d", len(orders))
	}
	o := orders[0]
	if o.ID != receipt.OrderID || o.BuyerID != "u-buyer" || o.Status != domain.StatusNotProcess {
		t.Fatalf("bad order: %+v", o)
	}
	if o.PaymentJSON != `{"success":true,"transactionId":"txn-1"}` {
		t.Fatalf("payment result not stored verbatim: %s", o.PaymentJSON)
	}
	if len(o.Items) != 2 {
		t.Fatalf("want 2 item snapshots, got %d", len(o.Items))
	}

	// stock bookkeeping: p-2 sold 2, quantity down by 2
	var qty, sold int
	if err := db.QueryRow(`SELECT quantity, sold FROM products WHERE id='p-2'`).Scan(&qty, &sold); err != nil {
		t.Fatal(err)
	}
	if qty != 8 || sold != 2 {
		t.Fatalf("stock not applied: qty=%d sold=%d", qty, sold)
	}
}

func TestSubmitPaymentDuplicateCartLines(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p-1", "Laptop", "d", "c1", 50, "2025-01-01 10:00:00")
	gw := &stubGateway{result: &payment.SaleResult{Success: true, Raw: []byte(`{"success":true}`)}}
	svc := checkoutSvc(db, gw)

	// the same product on two cart lines is legal input
	cart := []services.CartItem{
		{ProductID: "p-1", Name: "Laptop", Price: 50, Quantity: 1},
		{ProductID: "p-1", Name: "Laptop", Price: 50, Quantity: 2},
	}
	receipt, err := svc.SubmitPayment(context.Background(), "nonce-1", cart, "u-buyer")
	if err != nil {
		t.Fatalf("duplicate lines must not lose the order: %v", err)
	}

	// both lines are charged, the snapshot collapses to one row
	if gw.lastSale.Amount != "100.00" {
		t.Fatalf("want amount 100.00, got %q", gw.lastSale.Amount)
	}
	o, err := repos.NewOrderRepo(db).Get(receipt.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Items) != 1 || o.Items[0].Quantity != 3 {
		t.Fatalf("want one collapsed row with quantity 3, got %+v", o.Items)
	}

	var qty, sold int
	if err := db.QueryRow(`SELECT quantity, sold FROM products WHERE id='p-1'`).Scan(&qty, &sold); err != nil {
		t.Fatal(err)
	}
	if qty != 7 || sold != 3 {
		t.Fatalf("stock not applied: qty=%d sold=%d", qty, sold)
	}
}

func TestSubmitPaymentStockFailureKeepsOrder(t *testing.T) {
	db := memdb(t)
	gw := &stubGateway{result: &payment.SaleResult{Success: true, Raw: []byte(`{"success":true}`)}}
	svc := checkoutSvc(db, gw)

	// break stock bookkeeping only; the order tables stay intact
	if _, err := db.Exec(`DROP TABLE products`); err != nil {
		t.Fatal(err)
	}

	cart := []services.CartItem{{ProductID: "p-1", Name: "Laptop", Price: 50, Quantity: 1}}
	receipt, err := svc.SubmitPayment(context.Background(), "nonce-1", cart, "u-buyer")
	if err != nil {
		t.Fatalf("stock failure must not fail the payment: %v", err)
	}
	if receipt.OrderID == "" {
		t.Fatal("receipt must carry the order id")
	}
	if n := countOrders(t, db); n != 1 {
		t.Fatalf("order must survive stock failure, found %d", n)
	}
}

func TestSubmitPaymentGatewayDecline(t *testing.T) {
	db := memdb(t)
	gw := &stubGateway{result: &payment.SaleResult{Success: false, Message: "Insufficient Funds"}}
	svc := checkoutSvc(db, gw)

	cart := []services.CartItem{{ProductID: "p-1", Name: "Laptop", Price: 50, Quantity: 1}}
	_, err := svc.SubmitPayment(context.Background(), "nonce-1", cart, "u-buyer")
	var ge *services.GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("want GatewayError, got %v", err)
	}
	if ge.Error() != "Insufficient Funds" {
		t.Fatalf("gateway message not surfaced verbatim: %q", ge.Error())
	}
	if n := countOrders(t, db); n != 0 {
		t.Fatalf("declined payment must not create an order, found %d", n)
	}
}

func TestSubmitPaymentGatewayTransportError(t *testing.T) {
	db := memdb(t)
	gw := &stubGateway{saleErr: errors.New("connection reset")}
	svc := checkoutSvc(db, gw)

	cart := []services.CartItem{{ProductID: "p-1", Name: "Laptop", Price: 50, Quantity: 1}}
	_, err := svc.SubmitPayment(context.Background(), "nonce-1", cart, "u-buyer")
	var ge *services.GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("want GatewayError, got %v", err)
	}
	if n := countOrders(t, db); n != 0 {
		t.Fatalf("failed payment must not create an order, found %d", n)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	db := memdb(t)
	gw := &stubGateway{result: &payment.SaleResult{Success: true, Raw: []byte(`{"success":true}`)}}
	svc := checkoutSvc(db, gw)

	cart := []services.CartItem{{ProductID: "p-1", Name: "Laptop", Price: 50, Quantity: 1}}
	receipt, err := svc.SubmitPayment(context.Background(), "nonce-1", cart, "u-buyer")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.UpdateOrderStatus(receipt.OrderID, domain.StatusShipped); err != nil {
		t.Fatal(err)
	}
	// the misspelled terminal state is a legal value
	if err := svc.UpdateOrderStatus(receipt.OrderID, domain.StatusDelivered); err != nil {
		t.Fatal(err)
	}

	err = svc.UpdateOrderStatus(receipt.OrderID, "Teleported")
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("bogus status: want ValidationError, got %v", err)
	}

	if err := svc.UpdateOrderStatus("no-such-order", domain.StatusShipped); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
