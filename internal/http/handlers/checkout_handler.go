package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopkart/internal/log"
	"shopkart/internal/services"
	"shopkart/internal/validate"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

// Token hands the payment client its authorization token. The request
// blocks until the gateway's callback completes.
func (h *CheckoutHandler) Token(c *fiber.Ctx) error {
	token, err := h.Checkout.GenerateClientToken(c.Context())
	if err != nil {
		return fail(c, "checkout.token", err)
	}
	return ok(c, fiber.StatusOK, "Client token generated", fiber.Map{"clientToken": token})
}

type paymentRequest struct {
	Nonce string              `json:"nonce"`
	Cart  []services.CartItem `json:"cart"`
}

func (h *CheckoutHandler) Payment(c *fiber.Ctx) error {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "checkout.payment", &services.ValidationError{Field: "body", Message: "Malformed payment request"})
	}

	u := currentUser(c)
	buyerID := ""
	if u != nil {
		buyerID = u.ID
	}

	receipt, err := h.Checkout.SubmitPayment(c.Context(), req.Nonce, req.Cart, buyerID)
	if err != nil {
		return fail(c, "checkout.payment", err)
	}
	applog.Audit(c, "checkout.payment", map[string]any{
		"order_id": receipt.OrderID,
		"total":    receipt.Total,
		"txn":      receipt.Transaction.TransactionID,
	})
	return ok(c, fiber.StatusOK, "Payment successful", fiber.Map{
		"order":       receipt.OrderID,
		"total":       receipt.Total,
		"transaction": receipt.Transaction,
	})
}

// Orders lists the authenticated buyer's purchase history.
func (h *CheckoutHandler) Orders(c *fiber.Ctx) error {
	u := currentUser(c)
	buyerID := ""
	if u != nil {
		buyerID = u.ID
	}
	orders, err := h.Checkout.ListOrdersByBuyer(buyerID)
	if err != nil {
		return fail(c, "orders.list", err)
	}
	return ok(c, fiber.StatusOK, "Orders fetched", fiber.Map{"orders": orders})
}

// UpdateOrderStatus is admin-only; the route is wrapped in RequireAdmin.
func (h *CheckoutHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, "orders.status", services.ErrNotFound)
	}
	var req struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "orders.status", &services.ValidationError{Field: "body", Message: "Malformed status request"})
	}
	if err := h.Checkout.UpdateOrderStatus(id, req.Status); err != nil {
		return fail(c, "orders.status", err)
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": id, "status": req.Status})
	return ok(c, fiber.StatusOK, "Order status updated", nil)
}
