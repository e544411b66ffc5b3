package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/alovak/checkout-playground/gateway"
)

// Gateway is the capability the checkout app needs from the payment provider.
// The gateway.Client implements it over HTTP; tests substitute fakes.
type Gateway interface {
	GenerateClientToken(ctx context.Context) (string, error)
	SubmitSale(ctx context.Context, req gateway.SaleRequest) (*gateway.Result, error)
	FindTransaction(ctx context.Context, id string) (*gateway.Transaction, error)
}

// CheckoutResult is the terminal outcome of one checkout attempt. Exactly one
// field is set: a transaction id to show, or error text for the form flash.
type CheckoutResult struct {
	TransactionID string
	ErrorDetails  string
}

// Service orchestrates a checkout attempt against the gateway. It holds no
// per-request state; each call is an independent unit of work.
type Service struct {
	gateway         Gateway
	successStatuses map[gateway.TransactionStatus]struct{}
}

func NewService(gw Gateway, successStatuses []gateway.TransactionStatus) *Service {
	set := make(map[gateway.TransactionStatus]struct{}, len(successStatuses))
	for _, status := range successStatuses {
		set[status] = struct{}{}
	}

	return &Service{
		gateway:         gw,
		successStatuses: set,
	}
}

// ClientToken obtains a token for rendering the payment form widget.
func (s *Service) ClientToken(ctx context.Context) (string, error) {
	token, err := s.gateway.GenerateClientToken(ctx)
	if err != nil {
		return "", fmt.Errorf("generating client token: %w", err)
	}
	return token, nil
}

// ProcessCheckout runs one checkout attempt to its terminal state. A returned
// error means the sale submission itself failed in transit; the caller must
// not hide it, since money may or may not have moved. Everything else comes
// back as a CheckoutResult.
func (s *Service) ProcessCheckout(ctx context.Context, amountText, nonce string) (CheckoutResult, error) {
	amount, err := ParseAmount(amountText)
	if err != nil {
		return CheckoutResult{ErrorDetails: "Error: 81503: Amount is an invalid format."}, nil
	}

	result, err := s.gateway.SubmitSale(ctx, gateway.NewSaleRequest(amount, nonce))
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("submitting sale: %w", err)
	}

	// Whenever the gateway produced a transaction record, even for a
	// processor decline, the user is sent to the transaction view. Validation
	// errors surface only when no transaction was created at all.
	if result.Transaction != nil {
		return CheckoutResult{TransactionID: result.Transaction.ID}, nil
	}

	return CheckoutResult{ErrorDetails: aggregateErrors(result.Errors.AllDeep())}, nil
}

// LookupTransaction fetches a transaction for display along with its success
// flag.
func (s *Service) LookupTransaction(ctx context.Context, id string) (*gateway.Transaction, bool, error) {
	transaction, err := s.gateway.FindTransaction(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("finding transaction: %w", err)
	}

	return transaction, s.IsSuccessful(transaction.Status), nil
}

// IsSuccessful reports whether a status counts as a successful payment. The
// configured set is the sole arbiter; any status outside it renders as
// non-success even when the gateway call itself went fine.
func (s *Service) IsSuccessful(status gateway.TransactionStatus) bool {
	_, ok := s.successStatuses[status]
	return ok
}

// aggregateErrors renders validation errors one per line, preserving the
// gateway's depth-first order.
func aggregateErrors(errs []gateway.ValidationError) string {
	var b strings.Builder
	for _, e := range errs {
		fmt.Fprintf(&b, "Error: %s: %s\n", e.Code, e.Message)
	}
	return b.String()
}
