package payment

import (
	"context"

	applog "shopkart/internal/log"
)

type tokenOutcome struct {
	token *ClientToken
	err   error
}

type saleOutcome struct {
	result *SaleResult
	err    error
}

// AwaitToken issues a client-token request and blocks until the
// gateway's callback fires or ctx is done. The channel is buffered so
// a late callback after cancellation never leaks a goroutine.
func AwaitToken(ctx context.Context, g Gateway, opts TokenOptions) (*ClientToken, error) {
	done := make(chan tokenOutcome, 1)
	g.GenerateClientToken(opts, func(err error, token *ClientToken) {
		done <- tokenOutcome{token: token, err: err}
	})
	select {
	case out := <-done:
		return out.token, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AwaitSale submits a sale and blocks until the callback fires or ctx
// is done. Once submitted, a sale cannot be retracted; cancellation
// only abandons the wait.
func AwaitSale(ctx context.Context, g Gateway, req SaleRequest) (*SaleResult, error) {
	done := make(chan saleOutcome, 1)
	g.Sale(req, func(err error, result *SaleResult) {
		done <- saleOutcome{result: result, err: err}
	})
	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		// The gateway may still settle this sale; record the abandoned
		// wait so a charged-but-unrecorded payment is traceable.
		applog.Error(nil, "payment.sale.abandoned", ctx.Err(), map[string]any{"amount": req.Amount})
		return nil, ctx.Err()
	}
}
