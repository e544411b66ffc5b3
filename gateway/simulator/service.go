package simulator

import (
	"context"
	"fmt"
	"time"

	"github.com/alovak/checkout-playground/gateway"
	"github.com/alovak/checkout-playground/internal/sandboxcard"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Magic nonces, mirroring the sandbox conventions of real gateways. Any other
// nonce is treated as unknown and rejected with a validation error.
const (
	NonceValid             = "fake-valid-nonce"
	NonceProcessorDeclined = "fake-processor-declined-nonce"
)

// Amounts in [2000, 3000) trigger a processor decline regardless of nonce,
// so decline flows can be exercised with a valid payment method.
var (
	declineRangeLow  = decimal.NewFromInt(2000)
	declineRangeHigh = decimal.NewFromInt(3000)
)

// Service implements the sandbox gateway's behavior: it authorizes, declines
// or rejects sales and owns the stored transactions.
type Service struct {
	repo *Repository
	cfg  *Config
}

func NewService(repo *Repository, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		repo: repo,
		cfg:  cfg,
	}
}

// GenerateClientToken mints an opaque token for the payment form widget. The
// sandbox does not verify it on later calls.
func (s *Service) GenerateClientToken() string {
	return uuid.New().String()
}

// Sale applies the sandbox rules to a sale submission and records the
// resulting transaction when one is created.
func (s *Service) Sale(ctx context.Context, req gateway.SaleRequest) (*gateway.Result, error) {
	if req.Amount.Sign() < 0 {
		return rejected("81501", "Amount cannot be negative."), nil
	}
	if req.Amount.Sign() == 0 {
		return rejected("81503", "Amount is an invalid format."), nil
	}

	declined := false
	switch req.PaymentMethodNonce {
	case NonceValid:
	case NonceProcessorDeclined:
		declined = true
	default:
		return rejected("91565", "Unknown or expired payment_method_nonce."), nil
	}

	if req.Amount.GreaterThanOrEqual(declineRangeLow) && req.Amount.LessThan(declineRangeHigh) {
		declined = true
	}

	status := gateway.StatusSubmittedForSettlement
	if !req.Options.SubmitForSettlement {
		status = gateway.StatusAuthorized
	}
	if declined {
		status = gateway.StatusProcessorDeclined
	}

	transaction, err := s.newTransaction(req.Amount, status)
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	if err := s.repo.CreateTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("storing transaction: %w", err)
	}

	result := &gateway.Result{Transaction: transaction}
	if declined {
		// Processor declines keep the transaction record; the decline reason
		// travels as a validation error alongside it.
		result.Errors = &gateway.ValidationErrors{
			Children: map[string]*gateway.ValidationErrors{
				"transaction": {Errors: []gateway.ValidationError{
					{Code: "2000", Message: "Do Not Honor"},
				}},
			},
		}
	}

	return result, nil
}

// FindTransaction returns the stored transaction or gateway.ErrNotFound.
func (s *Service) FindTransaction(ctx context.Context, id string) (*gateway.Transaction, error) {
	transaction, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding transaction: %w", err)
	}
	return transaction, nil
}

// SettleTransaction advances a transaction one step along the settlement
// path: SUBMITTED_FOR_SETTLEMENT, SETTLING, SETTLED. Dev tooling only.
func (s *Service) SettleTransaction(ctx context.Context, id string) (gateway.TransactionStatus, error) {
	transaction, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return "", fmt.Errorf("finding transaction: %w", err)
	}

	var next gateway.TransactionStatus
	switch transaction.Status {
	case gateway.StatusSubmittedForSettlement, gateway.StatusSettlementPending:
		next = gateway.StatusSettling
	case gateway.StatusSettling:
		next = gateway.StatusSettled
	default:
		return "", fmt.Errorf("transaction %s is not settleable from %s", id, transaction.Status)
	}

	if err := s.repo.UpdateTransactionStatus(ctx, id, next); err != nil {
		return "", fmt.Errorf("updating status: %w", err)
	}

	return next, nil
}

func (s *Service) newTransaction(amount decimal.Decimal, status gateway.TransactionStatus) (*gateway.Transaction, error) {
	pan, err := sandboxcard.Number()
	if err != nil {
		return nil, fmt.Errorf("generate card number: %w", err)
	}

	return &gateway.Transaction{
		ID:       uuid.New().String(),
		Type:     "sale",
		Status:   status,
		Amount:   amount,
		Currency: "USD",
		CreditCard: gateway.CreditCard{
			CardType:       sandboxcard.CardType,
			Last4:          sandboxcard.LastFour(pan),
			MaskedNumber:   sandboxcard.Masked(pan),
			ExpirationDate: sandboxcard.Expiration(time.Now(), 3),
		},
		Customer: gateway.Customer{
			FirstName: "Jen",
			LastName:  "Smith",
			Email:     "jen@example.com",
		},
		CreatedAt: time.Now().UTC(),
	}, nil
}

func rejected(code, message string) *gateway.Result {
	return &gateway.Result{
		Errors: &gateway.ValidationErrors{
			Children: map[string]*gateway.ValidationErrors{
				"transaction": {Errors: []gateway.ValidationError{
					{Code: code, Message: message},
				}},
			},
		},
	}
}
