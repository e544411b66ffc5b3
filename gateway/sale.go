package gateway

import "github.com/shopspring/decimal"

// SaleRequest is a gateway-ready sale submission. Built fresh per checkout
// attempt; nonces are single use, so a request is never reused.
type SaleRequest struct {
	Amount             decimal.Decimal `json:"amount"`
	PaymentMethodNonce string          `json:"payment_method_nonce"`
	Options            SaleOptions     `json:"options"`
}

type SaleOptions struct {
	SubmitForSettlement bool `json:"submit_for_settlement"`
}

// NewSaleRequest builds a sale request for immediate settlement. Checkout is
// charge now, not authorize only, so SubmitForSettlement is always set.
func NewSaleRequest(amount decimal.Decimal, nonce string) SaleRequest {
	return SaleRequest{
		Amount:             amount,
		PaymentMethodNonce: nonce,
		Options: SaleOptions{
			SubmitForSettlement: true,
		},
	}
}

// Result is the gateway's answer to a sale submission. A rejected sale may
// still carry a transaction record (processor declines do); a sale that never
// produced a transaction carries only validation errors.
type Result struct {
	Transaction *Transaction      `json:"transaction,omitempty"`
	Errors      *ValidationErrors `json:"errors,omitempty"`
}

// Success reports whether the sale was accepted outright.
func (r *Result) Success() bool {
	return r.Transaction != nil && r.Errors.Empty()
}
