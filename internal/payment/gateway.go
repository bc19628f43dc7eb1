// Package payment talks to the external payment gateway. The gateway's
// API is callback-first: every call reports completion by invoking a
// callback with (error, result). Await wrappers in this package turn
// that into ordinary sequential control flow for the services layer.
package payment

import "encoding/json"

type TokenOptions struct {
	MerchantAccountID string `json:"merchantAccountId,omitempty"`
	CustomerID        string `json:"customerId,omitempty"`
}

type ClientToken struct {
	Token string `json:"clientToken"`
}

type SaleOptions struct {
	SubmitForSettlement bool `json:"submitForSettlement"`
}

type SaleRequest struct {
	// Amount is a fixed-point decimal string, e.g. "80.00".
	Amount             string      `json:"amount"`
	PaymentMethodNonce string      `json:"paymentMethodNonce"`
	Options            SaleOptions `json:"options"`
}

// SaleResult is the gateway's raw outcome. Raw preserves the full
// response body so orders can store it verbatim.
type SaleResult struct {
	Success       bool            `json:"success"`
	TransactionID string          `json:"transactionId,omitempty"`
	Message       string          `json:"message,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

type (
	TokenCallback func(err error, token *ClientToken)
	SaleCallback  func(err error, result *SaleResult)
)

// Gateway is the callback-first contract the external system exposes.
// Implementations must invoke the callback exactly once.
type Gateway interface {
	GenerateClientToken(opts TokenOptions, cb TokenCallback)
	Sale(req SaleRequest, cb SaleCallback)
}
